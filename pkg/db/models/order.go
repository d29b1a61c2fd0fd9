package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/teclegacy/marketplace-backend/pkg/enums"
)

// Order is the immutable-after-creation snapshot of a completed checkout.
// TotalPaid is computed once at submission and frozen; only the payment
// lifecycle mutates PaymentStatus/Status/PaymentReference. Orders are never
// deleted.
type Order struct {
	ID               uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	UserID           uuid.UUID           `gorm:"column:user_id;type:uuid;not null;index"`
	FirstName        string              `gorm:"column:first_name;not null"`
	LastName         string              `gorm:"column:last_name;not null"`
	Email            string              `gorm:"column:email;not null"`
	Phone            string              `gorm:"column:phone;not null"`
	Address          string              `gorm:"column:address;not null"`
	City             string              `gorm:"column:city;not null"`
	Country          string              `gorm:"column:country;not null"`
	PostalCode       string              `gorm:"column:postal_code;not null"`
	TotalPaid        decimal.Decimal     `gorm:"column:total_paid;type:numeric(12,2);not null"`
	PaymentMethod    enums.PaymentMethod `gorm:"column:payment_method;not null"`
	PaymentStatus    enums.PaymentStatus `gorm:"column:payment_status;not null;default:'pending'"`
	Status           enums.OrderStatus   `gorm:"column:status;not null;default:'pendiente'"`
	PaymentReference *string             `gorm:"column:payment_reference"`
	Items            []OrderItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
