package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/teclegacy/marketplace-backend/internal/catalog"
	"github.com/teclegacy/marketplace-backend/pkg/db/models"
	"github.com/teclegacy/marketplace-backend/pkg/enums"
	pkgerrors "github.com/teclegacy/marketplace-backend/pkg/errors"
	"github.com/teclegacy/marketplace-backend/pkg/identity"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service resolves identities to their single active cart and mutates its
// lines.
type Service interface {
	ResolveCart(ctx context.Context, ident identity.Identity) (*models.Cart, error)
	Detail(ctx context.Context, ident identity.Identity) (*View, error)
	AddItem(ctx context.Context, ident identity.Identity, productID uuid.UUID, quantity int) (*MutationResult, error)
	UpdateItem(ctx context.Context, ident identity.Identity, itemID uuid.UUID, action enums.CartAction) (*MutationResult, error)
}

type service struct {
	repo    Repository
	tx      txRunner
	catalog catalog.Repository
}

// NewService builds a cart service backed by the provided stack.
func NewService(repo Repository, tx txRunner, catalogRepo catalog.Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if catalogRepo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo, tx: tx, catalog: catalogRepo}, nil
}

// ResolveCart returns the identity's active cart, creating one on first
// access. The same identity always maps to the same cart.
func (s *service) ResolveCart(ctx context.Context, ident identity.Identity) (*models.Cart, error) {
	if ident.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "request identity missing")
	}

	record, err := s.repo.FindByIdentity(ctx, ident)
	if err == nil {
		return record, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	cart := &models.Cart{}
	if ident.IsAuthenticated() {
		userID := ident.UserID
		cart.UserID = &userID
	} else {
		sessionID := ident.SessionID
		cart.SessionID = &sessionID
	}

	created, err := s.repo.Create(ctx, cart)
	if err != nil {
		// A concurrent first access may have created the row already.
		if existing, findErr := s.repo.FindByIdentity(ctx, ident); findErr == nil {
			return existing, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cart")
	}
	return created, nil
}

// Detail returns the full cart view with totals recomputed from live prices.
func (s *service) Detail(ctx context.Context, ident identity.Identity) (*View, error) {
	cart, err := s.ResolveCart(ctx, ident)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.ListItems(ctx, cart.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cart items")
	}
	return newView(cart.ID, items), nil
}

// AddItem puts quantity units of the product into the cart. An existing line
// for the same product accumulates quantity instead of being replaced.
func (s *service) AddItem(ctx context.Context, ident identity.Identity, productID uuid.UUID, quantity int) (*MutationResult, error) {
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	product, err := s.catalog.FindProduct(ctx, productID, true)
	if err != nil {
		return nil, err
	}

	cart, err := s.ResolveCart(ctx, ident)
	if err != nil {
		return nil, err
	}

	var result *MutationResult
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		item, err := repo.FindItemByProduct(ctx, cart.ID, product.ID)
		switch {
		case err == nil:
			item.Quantity += quantity
			if err := repo.UpdateItemQuantity(ctx, item.ID, item.Quantity); err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			item = &models.CartItem{CartID: cart.ID, ProductID: product.ID, Quantity: quantity}
			if _, err := repo.CreateItem(ctx, item); err != nil {
				return err
			}
		default:
			return err
		}

		items, err := repo.ListItems(ctx, cart.ID)
		if err != nil {
			return err
		}
		count, total := totals(items)
		result = &MutationResult{
			Message:        fmt.Sprintf("%s añadido al carrito", product.Name),
			Quantity:       item.Quantity,
			ItemTotal:      product.Price.Mul(decimalFromInt(item.Quantity)),
			CartTotal:      total,
			CartItemsCount: count,
		}
		return nil
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add cart item")
	}
	return result, nil
}

// UpdateItem applies increase/decrease/remove to one cart line. Decreasing a
// line at quantity 1 removes it; zero quantities are never persisted.
func (s *service) UpdateItem(ctx context.Context, ident identity.Identity, itemID uuid.UUID, action enums.CartAction) (*MutationResult, error) {
	if !action.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cart action")
	}

	cart, err := s.ResolveCart(ctx, ident)
	if err != nil {
		return nil, err
	}

	var result *MutationResult
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		item, err := repo.FindItem(ctx, itemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
			}
			return err
		}
		// Hide other identities' cart lines instead of revealing they exist.
		if item.CartID != cart.ID {
			return pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}

		removed := false
		switch action {
		case enums.CartActionIncrease:
			item.Quantity++
			if err := repo.UpdateItemQuantity(ctx, item.ID, item.Quantity); err != nil {
				return err
			}
		case enums.CartActionDecrease:
			if item.Quantity > 1 {
				item.Quantity--
				if err := repo.UpdateItemQuantity(ctx, item.ID, item.Quantity); err != nil {
					return err
				}
			} else {
				if err := repo.DeleteItem(ctx, item.ID); err != nil {
					return err
				}
				removed = true
			}
		case enums.CartActionRemove:
			if err := repo.DeleteItem(ctx, item.ID); err != nil {
				return err
			}
			removed = true
		}

		items, err := repo.ListItems(ctx, cart.ID)
		if err != nil {
			return err
		}
		count, total := totals(items)

		result = &MutationResult{
			Removed:        removed,
			CartTotal:      total,
			CartItemsCount: count,
		}
		if !removed {
			result.Quantity = item.Quantity
			result.ItemTotal = item.Product.Price.Mul(decimalFromInt(item.Quantity))
		}
		return nil
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart item")
	}
	return result, nil
}

func decimalFromInt(value int) decimal.Decimal {
	return decimal.NewFromInt(int64(value))
}
