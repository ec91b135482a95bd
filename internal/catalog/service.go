package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/cardshop-backend/pkg/db"
	"github.com/angelmondragon/cardshop-backend/pkg/db/models"
	"github.com/angelmondragon/cardshop-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/cardshop-backend/pkg/errors"
	"github.com/angelmondragon/cardshop-backend/pkg/pagination"
)

// Service exposes catalog reads and the administrative catalog mutations.
type Service interface {
	QueryCards(ctx context.Context, input QueryInput) (*CardListResult, error)
	GetCard(ctx context.Context, id string) (*CardDTO, error)
	GetInventoryForCard(ctx context.Context, cardID string) ([]InventoryDTO, error)
	ListSets() []SetInfo

	CreateCard(ctx context.Context, input CreateCardInput) (*CardDTO, error)
	UpdateCard(ctx context.Context, id string, input UpdateCardInput) (*CardDTO, error)
	DeleteCard(ctx context.Context, id string) error
	UpsertInventory(ctx context.Context, cardID string, input UpsertInventoryInput) (*InventoryDTO, error)
	DeleteInventory(ctx context.Context, id uuid.UUID) error
}

// CreateCardInput holds the validated payload to create a card. An empty ID is
// derived from set, number and name.
type CreateCardInput struct {
	ID          string
	Name        string
	Image       string
	Rarity      string
	Set         string
	CardNumber  *string
	Description *string
}

// UpdateCardInput holds optional card fields; nil leaves a field untouched.
type UpdateCardInput struct {
	Name        *string
	Image       *string
	Rarity      *string
	Set         *string
	CardNumber  *string
	Description *string
}

// UpsertInventoryInput sets the price and stock of one (card, condition) row.
type UpsertInventoryInput struct {
	Condition enums.CardCondition
	Price     decimal.Decimal
	Quantity  int
}

type service struct {
	repo     *Repository
	dbClient *db.Client
}

// NewService constructs a catalog service instance.
func NewService(repo *Repository, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, dbClient: dbClient}, nil
}

// QueryCards filters in SQL, then sorts and pages the full match set in memory.
func (s *service) QueryCards(ctx context.Context, input QueryInput) (*CardListResult, error) {
	normalized, err := input.normalize()
	if err != nil {
		return nil, err
	}

	cards, err := s.repo.ListCards(ctx, normalized.Filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cards")
	}

	SortCards(cards, normalized.Sort)
	page := pagination.Slice(cards, normalized.Page)

	result := &CardListResult{
		Cards:  make([]CardDTO, 0, len(page)),
		Total:  len(cards),
		Limit:  normalized.Page.Limit,
		Offset: normalized.Page.Offset,
	}
	for i := range page {
		result.Cards = append(result.Cards, NewCardDTO(&page[i]))
	}
	return result, nil
}

func (s *service) GetCard(ctx context.Context, id string) (*CardDTO, error) {
	card, err := s.repo.FindCardByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "card not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load card")
	}
	dto := NewCardDTO(card)
	return &dto, nil
}

// GetInventoryForCard returns an empty list for unknown cards.
func (s *service) GetInventoryForCard(ctx context.Context, cardID string) ([]InventoryDTO, error) {
	rows, err := s.repo.ListInventoryForCard(ctx, cardID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list inventory")
	}
	out := make([]InventoryDTO, 0, len(rows))
	for i := range rows {
		out = append(out, NewInventoryDTO(&rows[i]))
	}
	return out, nil
}

func (s *service) ListSets() []SetInfo {
	return Sets()
}

func (s *service) CreateCard(ctx context.Context, input CreateCardInput) (*CardDTO, error) {
	card := &models.Card{
		ID:          strings.TrimSpace(input.ID),
		Name:        strings.TrimSpace(input.Name),
		Image:       strings.TrimSpace(input.Image),
		Rarity:      strings.TrimSpace(input.Rarity),
		Set:         strings.TrimSpace(input.Set),
		CardNumber:  input.CardNumber,
		Description: input.Description,
	}
	if err := validateCard(card); err != nil {
		return nil, err
	}
	if card.ID == "" {
		card.ID = CardID(card.Set, CardNumberPrefix(card.CardNumber), card.Name)
	}

	exists, err := s.repo.CardExists(ctx, card.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check card id")
	}
	if exists {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "card already exists").
			WithDetails(map[string]any{"id": card.ID})
	}

	if err := s.repo.CreateCard(ctx, card); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "card already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert card")
	}
	return s.GetCard(ctx, card.ID)
}

func (s *service) UpdateCard(ctx context.Context, id string, input UpdateCardInput) (*CardDTO, error) {
	card, err := s.repo.FindCardByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "card not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load card")
	}

	applyCardUpdate(card, input)
	if err := validateCard(card); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateCard(ctx, card); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update card")
	}
	return s.GetCard(ctx, id)
}

// DeleteCard refuses while any inventory row still belongs to the card.
func (s *service) DeleteCard(ctx context.Context, id string) error {
	return s.withTx(ctx, "delete card", func(repo *Repository) error {
		exists, err := repo.CardExists(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check card")
		}
		if !exists {
			return pkgerrors.New(pkgerrors.CodeNotFound, "card not found")
		}

		count, err := repo.CountInventoryForCard(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count inventory")
		}
		if count > 0 {
			return pkgerrors.New(pkgerrors.CodeConflictOnDelete, "card still has inventory").
				WithDetails(map[string]any{"card_id": id, "inventory_rows": count})
		}

		if err := repo.DeleteCard(ctx, id); err != nil {
			return classifyDeleteError(err, "card")
		}
		return nil
	})
}

func (s *service) UpsertInventory(ctx context.Context, cardID string, input UpsertInventoryInput) (*InventoryDTO, error) {
	if !input.Condition.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid condition")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be >= 0")
	}
	if input.Quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be >= 0")
	}

	var stored *models.Inventory
	err := s.withTx(ctx, "upsert inventory", func(repo *Repository) error {
		exists, err := repo.CardExists(ctx, cardID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check card")
		}
		if !exists {
			return pkgerrors.New(pkgerrors.CodeNotFound, "card not found")
		}

		stored, err = repo.UpsertInventory(ctx, &models.Inventory{
			CardID:    cardID,
			Condition: input.Condition,
			Price:     RoundPrice(input.Price),
			Quantity:  input.Quantity,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upsert inventory")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	dto := NewInventoryDTO(stored)
	return &dto, nil
}

// DeleteInventory refuses while any order line references the row.
func (s *service) DeleteInventory(ctx context.Context, id uuid.UUID) error {
	return s.withTx(ctx, "delete inventory", func(repo *Repository) error {
		if _, err := repo.FindInventoryByID(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "inventory not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load inventory")
		}

		count, err := repo.CountOrderItemsForInventory(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count order items")
		}
		if count > 0 {
			return pkgerrors.New(pkgerrors.CodeConflictOnDelete, "inventory has been ordered").
				WithDetails(map[string]any{"inventory_id": id, "order_items": count})
		}

		if err := repo.DeleteInventory(ctx, id); err != nil {
			return classifyDeleteError(err, "inventory")
		}
		return nil
	})
}

func (s *service) withTx(ctx context.Context, op string, fn func(repo *Repository) error) error {
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		return fn(s.repo.WithTx(tx))
	})
	if err == nil || pkgerrors.As(err) != nil {
		return err
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, op)
}

func classifyDeleteError(err error, entity string) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return pkgerrors.New(pkgerrors.CodeNotFound, entity+" not found")
	case db.IsForeignKeyViolation(err):
		return pkgerrors.Wrap(pkgerrors.CodeConflictOnDelete, err, entity+" is still referenced")
	default:
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete "+entity)
	}
}

// RoundPrice normalises a price to the stored two decimal places, rounding
// half away from zero.
func RoundPrice(price decimal.Decimal) decimal.Decimal {
	return price.Round(2)
}

func validateCard(card *models.Card) error {
	missing := []string{}
	if card.Name == "" {
		missing = append(missing, "name")
	}
	if card.Image == "" {
		missing = append(missing, "image")
	}
	if card.Rarity == "" {
		missing = append(missing, "rarity")
	}
	if card.Set == "" {
		missing = append(missing, "set")
	}
	if len(missing) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "missing required card fields").
			WithDetails(map[string]any{"fields": missing})
	}
	return nil
}

func applyCardUpdate(card *models.Card, input UpdateCardInput) {
	if input.Name != nil {
		card.Name = strings.TrimSpace(*input.Name)
	}
	if input.Image != nil {
		card.Image = strings.TrimSpace(*input.Image)
	}
	if input.Rarity != nil {
		card.Rarity = strings.TrimSpace(*input.Rarity)
	}
	if input.Set != nil {
		card.Set = strings.TrimSpace(*input.Set)
	}
	if input.CardNumber != nil {
		card.CardNumber = input.CardNumber
	}
	if input.Description != nil {
		card.Description = input.Description
	}
}
