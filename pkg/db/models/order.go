package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Order is an immutable purchase record.
type Order struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	UserID      uuid.UUID       `gorm:"column:user_id;type:uuid;not null;index"`
	OrderNumber string          `gorm:"column:order_number;not null;uniqueIndex:ux_orders_order_number"`
	TotalAmount decimal.Decimal `gorm:"column:total_amount;type:numeric(12,2);not null"`
	Items       []OrderItem     `gorm:"foreignKey:OrderID"`
	User        *User           `gorm:"foreignKey:UserID"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime;index"`
}

func (o *Order) BeforeCreate(*gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// OrderItem freezes the unit price paid for one inventory row.
type OrderItem struct {
	ID              uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	OrderID         uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index"`
	InventoryID     uuid.UUID       `gorm:"column:inventory_id;type:uuid;not null;index"`
	Quantity        int             `gorm:"column:quantity;not null;check:chk_order_items_quantity,quantity > 0"`
	PriceAtPurchase decimal.Decimal `gorm:"column:price_at_purchase;type:numeric(10,2);not null"`
	Inventory       *Inventory      `gorm:"foreignKey:InventoryID;constraint:OnDelete:RESTRICT"`
}

func (OrderItem) TableName() string { return "order_items" }

func (i *OrderItem) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
