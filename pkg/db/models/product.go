package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a catalog entry. Price is the live list price; order lines
// snapshot it at checkout so later edits never touch historical orders.
type Product struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	CategoryID  uuid.UUID       `gorm:"column:category_id;type:uuid;not null"`
	Category    Category        `gorm:"foreignKey:CategoryID"`
	Name        string          `gorm:"column:name;not null"`
	Slug        string          `gorm:"column:slug;not null;uniqueIndex"`
	Description string          `gorm:"column:description;not null;default:''"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	IsAvailable bool            `gorm:"column:is_available;not null;default:true"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
