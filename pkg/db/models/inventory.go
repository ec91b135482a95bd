package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/cardshop-backend/pkg/enums"
)

// Inventory is a priced stock line for one (card, condition) pair.
type Inventory struct {
	ID        uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	CardID    string              `gorm:"column:card_id;type:text;not null;uniqueIndex:ux_inventory_card_condition,priority:1"`
	Condition enums.CardCondition `gorm:"column:condition;type:text;not null;uniqueIndex:ux_inventory_card_condition,priority:2"`
	Price     decimal.Decimal     `gorm:"column:price;type:numeric(10,2);not null;check:chk_inventory_price,price >= 0"`
	Quantity  int                 `gorm:"column:quantity;not null;default:0;check:chk_inventory_quantity,quantity >= 0"`
	Card      *Card               `gorm:"foreignKey:CardID"`
	CreatedAt time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (Inventory) TableName() string { return "inventory" }

func (i *Inventory) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
