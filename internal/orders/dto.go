package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/cardshop-backend/pkg/db/models"
)

// MaxLineQuantity bounds the units of one inventory row in a single order,
// after duplicate lines are merged.
const MaxLineQuantity = 10000

// LineInput requests qty units of one inventory row.
type LineInput struct {
	InventoryID uuid.UUID `json:"inventory_id" validate:"required"`
	Quantity    int       `json:"quantity" validate:"required,min=1,max=10000"`
}

// OrderDTO is the client view of an order.
type OrderDTO struct {
	ID          uuid.UUID      `json:"id"`
	UserID      uuid.UUID      `json:"user_id"`
	UserEmail   *string        `json:"user_email,omitempty"`
	OrderNumber string         `json:"order_number"`
	TotalAmount string         `json:"total_amount"`
	TotalItems  int            `json:"total_items"`
	Items       []OrderItemDTO `json:"items"`
	CreatedAt   time.Time      `json:"created_at"`
}

// OrderItemDTO is one purchased line with the price frozen at checkout.
type OrderItemDTO struct {
	ID              uuid.UUID `json:"id"`
	InventoryID     uuid.UUID `json:"inventory_id"`
	CardID          string    `json:"card_id,omitempty"`
	CardName        string    `json:"card_name,omitempty"`
	CardImage       string    `json:"card_image,omitempty"`
	Condition       string    `json:"condition,omitempty"`
	Quantity        int       `json:"quantity"`
	PriceAtPurchase string    `json:"price_at_purchase"`
	LineTotal       string    `json:"line_total"`
}

// OrderList is one page of orders, newest first.
type OrderList struct {
	Orders []OrderDTO `json:"orders"`
	Total  int64      `json:"total"`
	Limit  int        `json:"limit"`
	Offset int        `json:"offset"`
}

// NewOrderDTO maps a persisted order. Inventory and card details are included when loaded.
func NewOrderDTO(order *models.Order) OrderDTO {
	dto := OrderDTO{
		ID:          order.ID,
		UserID:      order.UserID,
		OrderNumber: order.OrderNumber,
		TotalAmount: order.TotalAmount.StringFixed(2),
		Items:       make([]OrderItemDTO, 0, len(order.Items)),
		CreatedAt:   order.CreatedAt,
	}
	if order.User != nil {
		email := order.User.Email
		dto.UserEmail = &email
	}
	for i := range order.Items {
		item := &order.Items[i]
		line := OrderItemDTO{
			ID:              item.ID,
			InventoryID:     item.InventoryID,
			Quantity:        item.Quantity,
			PriceAtPurchase: item.PriceAtPurchase.StringFixed(2),
			LineTotal:       lineTotal(item).StringFixed(2),
		}
		if inv := item.Inventory; inv != nil {
			line.Condition = inv.Condition.String()
			if inv.Card != nil {
				line.CardID = inv.Card.ID
				line.CardName = inv.Card.Name
				line.CardImage = inv.Card.Image
			}
		}
		dto.TotalItems += item.Quantity
		dto.Items = append(dto.Items, line)
	}
	return dto
}

func lineTotal(item *models.OrderItem) decimal.Decimal {
	return item.PriceAtPurchase.Mul(decimal.NewFromInt(int64(item.Quantity))).Round(2)
}
