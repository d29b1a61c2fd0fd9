package models

import (
	"time"

	"github.com/google/uuid"
)

// Cart is the mutable pre-purchase collection bound to exactly one identity:
// either an authenticated user or an anonymous session token, never both.
// The row survives checkout; only its items are deleted.
type Cart struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	UserID    *uuid.UUID `gorm:"column:user_id;type:uuid"`
	SessionID *string    `gorm:"column:session_id"`
	Items     []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
