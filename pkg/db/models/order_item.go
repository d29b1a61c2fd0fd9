package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItem is an immutable snapshot of one cart line at submission time.
// Price is the unit price at the instant the order was created, decoupling
// historical orders from future catalog edits.
type OrderItem struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	OrderID   uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	Product   Product         `gorm:"foreignKey:ProductID"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	Quantity  int             `gorm:"column:quantity;not null"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
}

// Cost returns the frozen line total.
func (o OrderItem) Cost() decimal.Decimal {
	return o.Price.Mul(decimal.NewFromInt(int64(o.Quantity)))
}
