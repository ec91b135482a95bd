package models

import (
	"time"
)

// Card is one named collectible, independent of physical condition.
type Card struct {
	ID          string      `gorm:"column:id;type:text;primaryKey"`
	Name        string      `gorm:"column:name;not null;index"`
	Image       string      `gorm:"column:image;not null"`
	Rarity      string      `gorm:"column:rarity;not null"`
	Set         string      `gorm:"column:set_name;not null;index"`
	CardNumber  *string     `gorm:"column:card_number"`
	Description *string     `gorm:"column:description"`
	Inventory   []Inventory `gorm:"foreignKey:CardID;constraint:OnDelete:RESTRICT"`
	CreatedAt   time.Time   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time   `gorm:"column:updated_at;autoUpdateTime"`
}
