// Package cart holds the shopping cart reducer and the per-user cart service
// that persists it between requests.
package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/cardshop-backend/internal/orders"
)

// MaxItemQuantity caps one entry at what a single order line may request.
const MaxItemQuantity = orders.MaxLineQuantity

// Item is one cart entry keyed by inventory row. Display fields are copied
// when the item is added and may go stale; checkout re-reads prices.
type Item struct {
	InventoryID    uuid.UUID       `json:"inventory_id"`
	CardID         string          `json:"card_id"`
	Name           string          `json:"name"`
	Image          string          `json:"image"`
	Condition      string          `json:"condition"`
	ConditionLabel string          `json:"condition_label"`
	Price          decimal.Decimal `json:"price"`
	Quantity       int             `json:"quantity"`
}

// Cart is an ordered collection of items with unique inventory ids.
type Cart struct {
	Items []Item `json:"items"`
}

func (c *Cart) indexOf(inventoryID uuid.UUID) int {
	for i := range c.Items {
		if c.Items[i].InventoryID == inventoryID {
			return i
		}
	}
	return -1
}

// Add merges qty units of item into the cart. A non-positive qty adds one unit
// and the merged quantity saturates at MaxItemQuantity.
func (c *Cart) Add(item Item, qty int) {
	if qty <= 0 {
		qty = 1
	}
	if i := c.indexOf(item.InventoryID); i >= 0 {
		if c.Items[i].Quantity > MaxItemQuantity-qty {
			c.Items[i].Quantity = MaxItemQuantity
			return
		}
		c.Items[i].Quantity += qty
		return
	}
	item.Quantity = min(qty, MaxItemQuantity)
	c.Items = append(c.Items, item)
}

// SetQuantity replaces the quantity of an entry; qty <= 0 removes it.
func (c *Cart) SetQuantity(inventoryID uuid.UUID, qty int) {
	if qty <= 0 {
		c.Remove(inventoryID)
		return
	}
	if i := c.indexOf(inventoryID); i >= 0 {
		c.Items[i].Quantity = min(qty, MaxItemQuantity)
	}
}

// Remove deletes the entry if present.
func (c *Cart) Remove(inventoryID uuid.UUID) {
	i := c.indexOf(inventoryID)
	if i < 0 {
		return
	}
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
}

func (c *Cart) Clear() {
	c.Items = nil
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// TotalItems sums quantities across entries.
func (c *Cart) TotalItems() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

// TotalPrice sums price x quantity using the cached prices.
func (c *Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}

func (i Item) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
