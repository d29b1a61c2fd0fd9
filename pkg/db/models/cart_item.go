package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartItem is one product line in a cart. Quantity is always >= 1; a decrement
// from 1 deletes the row instead of persisting zero. Cost is derived from the
// live product price at read time, never snapshotted here.
type CartItem struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	CartID    uuid.UUID `gorm:"column:cart_id;type:uuid;not null;uniqueIndex:idx_cart_items_cart_product"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null;uniqueIndex:idx_cart_items_cart_product"`
	Product   Product   `gorm:"foreignKey:ProductID"`
	Quantity  int       `gorm:"column:quantity;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// Cost returns quantity times the current product price.
func (c CartItem) Cost() decimal.Decimal {
	return c.Product.Price.Mul(decimal.NewFromInt(int64(c.Quantity)))
}
