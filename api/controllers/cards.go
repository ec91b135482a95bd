package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/cardshop-backend/api/responses"
	"github.com/angelmondragon/cardshop-backend/api/validators"
	"github.com/angelmondragon/cardshop-backend/internal/catalog"
	"github.com/angelmondragon/cardshop-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/cardshop-backend/pkg/errors"
	"github.com/angelmondragon/cardshop-backend/pkg/logger"
)

const maxFilterLength = 120

// CardList serves the filtered, sorted and paged catalog.
func CardList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		input, err := parseCardQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.QueryCards(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// CardDetail returns one card with every inventory row.
func CardDetail(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		card, err := svc.GetCard(r.Context(), cardIDParam(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, card)
	}
}

// CardInventory lists a card's inventory rows by ascending price. An unknown
// card yields an empty list.
func CardInventory(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		rows, err := svc.GetInventoryForCard(r.Context(), cardIDParam(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, rows)
	}
}

func SetList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		responses.WriteSuccess(w, svc.ListSets())
	}
}

func parseCardQuery(r *http.Request) (catalog.QueryInput, error) {
	var input catalog.QueryInput

	input.Filter.Name = validators.ParseQueryString(r, "name", maxFilterLength)
	input.Filter.Set = validators.ParseQueryString(r, "set", maxFilterLength)
	input.Filter.Rarity = validators.ParseQueryString(r, "rarity", maxFilterLength)

	minPrice, err := validators.ParseQueryDecimal(r, "min_price")
	if err != nil {
		return input, err
	}
	input.Filter.MinPrice = minPrice

	maxPrice, err := validators.ParseQueryDecimal(r, "max_price")
	if err != nil {
		return input, err
	}
	input.Filter.MaxPrice = maxPrice

	if raw := validators.ParseQueryString(r, "condition", maxFilterLength); raw != nil {
		condition, err := enums.ParseCardCondition(*raw)
		if err != nil {
			return input, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid condition").WithDetails(map[string]any{"field": "condition"})
		}
		input.Filter.Condition = &condition
	}

	inStock, err := validators.ParseQueryBool(r, "in_stock")
	if err != nil {
		return input, err
	}
	input.Filter.InStock = inStock

	if raw := validators.ParseQueryString(r, "sort", maxFilterLength); raw != nil {
		field, err := enums.ParseCardSortField(*raw)
		if err != nil {
			return input, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid sort field").WithDetails(map[string]any{"field": "sort"})
		}
		sort := &catalog.Sort{Field: field, Order: enums.SortOrderAsc}
		if rawOrder := validators.ParseQueryString(r, "order", maxFilterLength); rawOrder != nil {
			order, err := enums.ParseSortOrder(*rawOrder)
			if err != nil {
				return input, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid sort order").WithDetails(map[string]any{"field": "order"})
			}
			sort.Order = order
		}
		input.Sort = sort
	}

	page, err := validators.ParsePagination(r)
	if err != nil {
		return input, err
	}
	input.Page = page
	return input, nil
}

func cardIDParam(r *http.Request) string {
	return strings.TrimSpace(chi.URLParam(r, "cardId"))
}
