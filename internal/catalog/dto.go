package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/cardshop-backend/pkg/db/models"
)

// CardDTO is the catalog payload returned to clients.
type CardDTO struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Image       string         `json:"image"`
	Rarity      string         `json:"rarity"`
	Set         string         `json:"set"`
	CardNumber  *string        `json:"card_number,omitempty"`
	Description *string        `json:"description,omitempty"`
	Inventory   []InventoryDTO `json:"inventory"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// InventoryDTO exposes one priced stock line. Prices are fixed two-decimal strings.
type InventoryDTO struct {
	ID             uuid.UUID `json:"id"`
	CardID         string    `json:"card_id"`
	Condition      string    `json:"condition"`
	ConditionLabel string    `json:"condition_label"`
	Price          string    `json:"price"`
	Quantity       int       `json:"quantity"`
	InStock        bool      `json:"in_stock"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// CardListResult is one page of the catalog.
type CardListResult struct {
	Cards  []CardDTO `json:"cards"`
	Total  int       `json:"total"`
	Limit  int       `json:"limit"`
	Offset int       `json:"offset"`
}

// NewCardDTO builds a DTO from the persisted card and its loaded inventory.
func NewCardDTO(card *models.Card) CardDTO {
	dto := CardDTO{
		ID:          card.ID,
		Name:        card.Name,
		Image:       card.Image,
		Rarity:      card.Rarity,
		Set:         card.Set,
		CardNumber:  card.CardNumber,
		Description: card.Description,
		Inventory:   make([]InventoryDTO, 0, len(card.Inventory)),
		CreatedAt:   card.CreatedAt,
		UpdatedAt:   card.UpdatedAt,
	}
	for i := range card.Inventory {
		dto.Inventory = append(dto.Inventory, NewInventoryDTO(&card.Inventory[i]))
	}
	return dto
}

// NewInventoryDTO builds a DTO from an inventory row.
func NewInventoryDTO(row *models.Inventory) InventoryDTO {
	return InventoryDTO{
		ID:             row.ID,
		CardID:         row.CardID,
		Condition:      row.Condition.String(),
		ConditionLabel: row.Condition.Label(),
		Price:          row.Price.StringFixed(2),
		Quantity:       row.Quantity,
		InStock:        row.Quantity > 0,
		UpdatedAt:      row.UpdatedAt,
	}
}
