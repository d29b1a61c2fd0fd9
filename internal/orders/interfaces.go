package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/teclegacy/marketplace-backend/pkg/db/models"
)

// Repository persists orders and their immutable line snapshots.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	FindForUser(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
	UpdatePayment(ctx context.Context, order *models.Order) error
}
