package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/teclegacy/marketplace-backend/internal/cart"
	"github.com/teclegacy/marketplace-backend/internal/orders"
	"github.com/teclegacy/marketplace-backend/pkg/db/models"
	"github.com/teclegacy/marketplace-backend/pkg/enums"
	pkgerrors "github.com/teclegacy/marketplace-backend/pkg/errors"
	"github.com/teclegacy/marketplace-backend/pkg/identity"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// locker is the single-flight guard contract. pkg/redis.Client satisfies it;
// a nil locker disables the guard.
type locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// SubmitInput carries the shipping form. Field order below is the validation
// order; the first empty field names the rejection.
type SubmitInput struct {
	FirstName     string
	LastName      string
	Email         string
	Phone         string
	Address       string
	City          string
	Country       string
	PostalCode    string
	PaymentMethod string
}

// requiredFields pairs the wire-level field name with its accessor, in the
// order the storefront has always validated them.
var requiredFields = []struct {
	name  string
	value func(SubmitInput) string
}{
	{"first_name", func(in SubmitInput) string { return in.FirstName }},
	{"last_name", func(in SubmitInput) string { return in.LastName }},
	{"email", func(in SubmitInput) string { return in.Email }},
	{"phone", func(in SubmitInput) string { return in.Phone }},
	{"address", func(in SubmitInput) string { return in.Address }},
	{"city", func(in SubmitInput) string { return in.City }},
	{"country", func(in SubmitInput) string { return in.Country }},
	{"postal_code", func(in SubmitInput) string { return in.PostalCode }},
	{"payment_method", func(in SubmitInput) string { return in.PaymentMethod }},
}

// Service turns a non-empty cart into an immutable order.
type Service interface {
	Submit(ctx context.Context, ident identity.Identity, input SubmitInput) (*models.Order, error)
}

type service struct {
	carts   cart.Repository
	orders  orders.Repository
	tx      txRunner
	lock    locker
	lockTTL time.Duration
}

// NewService builds a checkout service. The locker is optional; without one
// double submissions are only bounded by store-level atomicity.
func NewService(carts cart.Repository, orderRepo orders.Repository, tx txRunner, lock locker, lockTTL time.Duration) (Service, error) {
	if carts == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if orderRepo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if lockTTL <= 0 {
		lockTTL = 30 * time.Second
	}
	return &service{carts: carts, orders: orderRepo, tx: tx, lock: lock, lockTTL: lockTTL}, nil
}

// Submit validates the shipping form, snapshots the cart into an Order plus
// OrderItems and empties the cart, all inside one transaction. The order's
// total and per-line prices are frozen at this instant.
func (s *service) Submit(ctx context.Context, ident identity.Identity, input SubmitInput) (*models.Order, error) {
	if !ident.IsAuthenticated() {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "checkout requires an authenticated user")
	}

	for _, field := range requiredFields {
		if strings.TrimSpace(field.value(input)) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("El campo %s es obligatorio", field.name))
		}
	}

	method, err := enums.ParsePaymentMethod(input.PaymentMethod)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment_method")
	}

	cartRecord, err := s.carts.FindByIdentity(ctx, ident)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, emptyCartError()
		}
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	if s.lock != nil {
		key := "checkout:cart:" + cartRecord.ID.String()
		acquired, err := s.lock.Acquire(ctx, key, s.lockTTL)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "acquire checkout lock")
		}
		if !acquired {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "checkout already in progress")
		}
		defer func() { _ = s.lock.Release(ctx, key) }()
	}

	var order *models.Order
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		cartRepo := s.carts.WithTx(tx)
		orderRepo := s.orders.WithTx(tx)

		items, err := cartRepo.ListItems(ctx, cartRecord.ID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return emptyCartError()
		}

		total := decimal.Zero
		lines := make([]models.OrderItem, 0, len(items))
		for _, item := range items {
			total = total.Add(item.Cost())
			lines = append(lines, models.OrderItem{
				ProductID: item.ProductID,
				Price:     item.Product.Price,
				Quantity:  item.Quantity,
			})
		}

		record := &models.Order{
			UserID:        ident.UserID,
			FirstName:     input.FirstName,
			LastName:      input.LastName,
			Email:         input.Email,
			Phone:         input.Phone,
			Address:       input.Address,
			City:          input.City,
			Country:       input.Country,
			PostalCode:    input.PostalCode,
			TotalPaid:     total,
			PaymentMethod: method,
			PaymentStatus: enums.PaymentStatusPending,
			Status:        enums.OrderStatusPendiente,
			Items:         lines,
		}
		created, err := orderRepo.Create(ctx, record)
		if err != nil {
			return err
		}

		if err := cartRepo.DeleteItems(ctx, cartRecord.ID); err != nil {
			return err
		}

		order = created
		return nil
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "submit checkout")
	}
	return order, nil
}

func emptyCartError() *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeValidation,
		"Tu carrito está vacío. Añade algunos productos antes de hacer checkout.")
}
