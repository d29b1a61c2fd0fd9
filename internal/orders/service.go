package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/teclegacy/marketplace-backend/pkg/db/models"
	"github.com/teclegacy/marketplace-backend/pkg/enums"
	pkgerrors "github.com/teclegacy/marketplace-backend/pkg/errors"
)

// PaymentView carries an order through the payment flow. AlreadyPaid marks
// the idempotent short-circuit: the payment completed earlier and no state
// was touched on this call.
type PaymentView struct {
	Order       *models.Order
	AlreadyPaid bool
}

// Service exposes owner-scoped order reads and the simulated payment
// lifecycle. Every operation takes the acting user's id; orders of other
// users are indistinguishable from missing ones.
type Service interface {
	Get(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error)
	List(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
	InitiatePayment(ctx context.Context, userID, orderID uuid.UUID) (*PaymentView, error)
	ExecutePayment(ctx context.Context, userID, orderID uuid.UUID, paymentID string) (*PaymentView, error)
	CancelPayment(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error)
}

type service struct {
	repo Repository
}

// NewService builds an order service backed by the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Get(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	return s.findOwned(ctx, userID, orderID)
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authenticated user required")
	}
	records, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return records, nil
}

// InitiatePayment opens the payment flow for a pending order. A payment that
// already completed short-circuits with AlreadyPaid set so callers never
// charge twice.
func (s *service) InitiatePayment(ctx context.Context, userID, orderID uuid.UUID) (*PaymentView, error) {
	order, err := s.findOwned(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	return &PaymentView{
		Order:       order,
		AlreadyPaid: order.PaymentStatus == enums.PaymentStatusCompletado,
	}, nil
}

// ExecutePayment marks the simulated payment as completed. An empty paymentID
// gets a generated reference. Re-executing a completed payment returns the
// order unchanged, keeping the original reference.
func (s *service) ExecutePayment(ctx context.Context, userID, orderID uuid.UUID, paymentID string) (*PaymentView, error) {
	order, err := s.findOwned(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}

	if order.PaymentStatus == enums.PaymentStatusCompletado {
		return &PaymentView{Order: order, AlreadyPaid: true}, nil
	}

	reference := strings.TrimSpace(paymentID)
	if reference == "" {
		reference = newPaymentReference()
	}

	order.PaymentStatus = enums.PaymentStatusCompletado
	order.Status = enums.OrderStatusProcesando
	order.PaymentReference = &reference

	if err := s.repo.UpdatePayment(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record payment")
	}
	return &PaymentView{Order: order}, nil
}

// CancelPayment marks the payment as failed. The order row survives and the
// buyer's cart is left as it was emptied at checkout; re-purchasing means
// building a new cart.
func (s *service) CancelPayment(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.findOwned(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}

	if order.PaymentStatus == enums.PaymentStatusCompletado {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "payment already completed")
	}

	order.PaymentStatus = enums.PaymentStatusFallido
	if err := s.repo.UpdatePayment(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record payment cancellation")
	}
	return order, nil
}

func (s *service) findOwned(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authenticated user required")
	}

	order, err := s.repo.FindForUser(ctx, userID, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

// newPaymentReference mimics the gateway's reference shape: PAY- followed by
// 16 uppercase hex characters.
func newPaymentReference() string {
	return "PAY-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:16])
}
