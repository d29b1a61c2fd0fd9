package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/teclegacy/marketplace-backend/pkg/db/models"
	"github.com/teclegacy/marketplace-backend/pkg/identity"
)

// Repository persists carts and their lines.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	FindByIdentity(ctx context.Context, ident identity.Identity) (*models.Cart, error)
	Create(ctx context.Context, cart *models.Cart) (*models.Cart, error)

	ListItems(ctx context.Context, cartID uuid.UUID) ([]models.CartItem, error)
	FindItemByProduct(ctx context.Context, cartID, productID uuid.UUID) (*models.CartItem, error)
	FindItem(ctx context.Context, itemID uuid.UUID) (*models.CartItem, error)
	CreateItem(ctx context.Context, item *models.CartItem) (*models.CartItem, error)
	UpdateItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error
	DeleteItem(ctx context.Context, itemID uuid.UUID) error
	DeleteItems(ctx context.Context, cartID uuid.UUID) error
}
