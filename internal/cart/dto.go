package cart

import "github.com/google/uuid"

// CartDTO renders a cart with fixed two-decimal money strings.
type CartDTO struct {
	Items      []ItemDTO `json:"items"`
	TotalItems int       `json:"total_items"`
	TotalPrice string    `json:"total_price"`
}

type ItemDTO struct {
	InventoryID    uuid.UUID `json:"inventory_id"`
	CardID         string    `json:"card_id"`
	Name           string    `json:"name"`
	Image          string    `json:"image"`
	Condition      string    `json:"condition"`
	ConditionLabel string    `json:"condition_label"`
	Price          string    `json:"price"`
	Quantity       int       `json:"quantity"`
	LineTotal      string    `json:"line_total"`
}

func NewCartDTO(c *Cart) *CartDTO {
	dto := &CartDTO{
		Items:      make([]ItemDTO, 0, len(c.Items)),
		TotalItems: c.TotalItems(),
		TotalPrice: c.TotalPrice().StringFixed(2),
	}
	for _, item := range c.Items {
		dto.Items = append(dto.Items, ItemDTO{
			InventoryID:    item.InventoryID,
			CardID:         item.CardID,
			Name:           item.Name,
			Image:          item.Image,
			Condition:      item.Condition,
			ConditionLabel: item.ConditionLabel,
			Price:          item.Price.StringFixed(2),
			Quantity:       item.Quantity,
			LineTotal:      item.LineTotal().StringFixed(2),
		})
	}
	return dto
}
