package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/cardshop-backend/api/responses"
	"github.com/angelmondragon/cardshop-backend/api/validators"
	"github.com/angelmondragon/cardshop-backend/internal/catalog"
	"github.com/angelmondragon/cardshop-backend/internal/users"
	"github.com/angelmondragon/cardshop-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/cardshop-backend/pkg/errors"
	"github.com/angelmondragon/cardshop-backend/pkg/logger"
)

type createCardRequest struct {
	ID          string  `json:"id,omitempty" validate:"omitempty,max=200"`
	Name        string  `json:"name" validate:"required,max=200"`
	Image       string  `json:"image" validate:"required,max=500"`
	Rarity      string  `json:"rarity" validate:"required,max=50"`
	Set         string  `json:"set" validate:"required,max=100"`
	CardNumber  *string `json:"card_number,omitempty" validate:"omitempty,max=20"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
}

type updateCardRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Image       *string `json:"image,omitempty" validate:"omitempty,min=1,max=500"`
	Rarity      *string `json:"rarity,omitempty" validate:"omitempty,min=1,max=50"`
	Set         *string `json:"set,omitempty" validate:"omitempty,min=1,max=100"`
	CardNumber  *string `json:"card_number,omitempty" validate:"omitempty,max=20"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
}

type upsertInventoryRequest struct {
	Condition string          `json:"condition" validate:"required"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity" validate:"gte=0"`
}

func AdminCreateCard(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var body createCardRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		card, err := svc.CreateCard(r.Context(), catalog.CreateCardInput{
			ID:          validators.SanitizeString(body.ID, 200),
			Name:        validators.SanitizeString(body.Name, 200),
			Image:       validators.SanitizeString(body.Image, 500),
			Rarity:      validators.SanitizeString(body.Rarity, 50),
			Set:         validators.SanitizeString(body.Set, 100),
			CardNumber:  body.CardNumber,
			Description: body.Description,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, card)
	}
}

// AdminUpdateCard applies a partial update; omitted fields are left untouched.
func AdminUpdateCard(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var body updateCardRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		card, err := svc.UpdateCard(r.Context(), cardIDParam(r), catalog.UpdateCardInput{
			Name:        body.Name,
			Image:       body.Image,
			Rarity:      body.Rarity,
			Set:         body.Set,
			CardNumber:  body.CardNumber,
			Description: body.Description,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, card)
	}
}

// AdminDeleteCard refuses with CONFLICT_ON_DELETE while inventory remains.
func AdminDeleteCard(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		if err := svc.DeleteCard(r.Context(), cardIDParam(r)); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// AdminUpsertInventory sets price and stock for one condition of a card.
func AdminUpsertInventory(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var body upsertInventoryRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		condition, err := enums.ParseCardCondition(body.Condition)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid condition"))
			return
		}

		row, err := svc.UpsertInventory(r.Context(), cardIDParam(r), catalog.UpsertInventoryInput{
			Condition: condition,
			Price:     body.Price,
			Quantity:  body.Quantity,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, row)
	}
}

func AdminDeleteInventory(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "inventoryId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid inventory id"))
			return
		}

		if err := svc.DeleteInventory(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func AdminUserList(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable"))
			return
		}

		page, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListUsers(r.Context(), page)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}
