package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/teclegacy/marketplace-backend/api/middleware"
	"github.com/teclegacy/marketplace-backend/api/responses"
	"github.com/teclegacy/marketplace-backend/api/validators"
	"github.com/teclegacy/marketplace-backend/internal/orders"
	"github.com/teclegacy/marketplace-backend/pkg/db/models"
	pkgerrors "github.com/teclegacy/marketplace-backend/pkg/errors"
	"github.com/teclegacy/marketplace-backend/pkg/logger"
)

type orderItemResponse struct {
	ProductID string          `json:"product_id"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

type orderResponse struct {
	ID               string              `json:"id"`
	TotalPaid        decimal.Decimal     `json:"total_paid"`
	PaymentMethod    string              `json:"payment_method"`
	PaymentStatus    string              `json:"payment_status"`
	Status           string              `json:"status"`
	PaymentReference *string             `json:"payment_reference"`
	Items            []orderItemResponse `json:"items"`
	CreatedAt        time.Time           `json:"created_at"`
}

type paymentResponse struct {
	Order       orderResponse `json:"order"`
	AlreadyPaid bool          `json:"already_paid"`
}

type paymentExecuteRequest struct {
	PaymentID string `json:"payment_id"`
}

func newOrderResponse(order *models.Order) orderResponse {
	items := make([]orderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, orderItemResponse{
			ProductID: item.ProductID.String(),
			Price:     item.Price,
			Quantity:  item.Quantity,
		})
	}
	return orderResponse{
		ID:               order.ID.String(),
		TotalPaid:        order.TotalPaid,
		PaymentMethod:    order.PaymentMethod.String(),
		PaymentStatus:    order.PaymentStatus.String(),
		Status:           order.Status.String(),
		PaymentReference: order.PaymentReference,
		Items:            items,
		CreatedAt:        order.CreatedAt,
	}
}

func OrderDetail(ordersService orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		orderID, err := parseOrderID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		order, err := ordersService.Get(ctx, middleware.IdentityFromContext(ctx).UserID, orderID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, newOrderResponse(order))
	}
}

func OrderList(ordersService orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		records, err := ordersService.List(ctx, middleware.IdentityFromContext(ctx).UserID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		out := make([]orderResponse, 0, len(records))
		for i := range records {
			out = append(out, newOrderResponse(&records[i]))
		}
		responses.WriteSuccess(w, out)
	}
}

func PaymentInitiate(ordersService orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		orderID, err := parseOrderID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		view, err := ordersService.InitiatePayment(ctx, middleware.IdentityFromContext(ctx).UserID, orderID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, paymentResponse{
			Order:       newOrderResponse(view.Order),
			AlreadyPaid: view.AlreadyPaid,
		})
	}
}

func PaymentExecute(ordersService orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		orderID, err := parseOrderID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var body paymentExecuteRequest
		if r.ContentLength > 0 {
			if err := validators.DecodeJSONBody(r, &body); err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
		}

		view, err := ordersService.ExecutePayment(ctx, middleware.IdentityFromContext(ctx).UserID, orderID, body.PaymentID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if logg != nil && !view.AlreadyPaid {
			logg.Info(logg.WithField(ctx, "order_id", orderID.String()), "payment.completed")
		}
		responses.WriteSuccess(w, paymentResponse{
			Order:       newOrderResponse(view.Order),
			AlreadyPaid: view.AlreadyPaid,
		})
	}
}

func PaymentCancel(ordersService orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		orderID, err := parseOrderID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		order, err := ordersService.CancelPayment(ctx, middleware.IdentityFromContext(ctx).UserID, orderID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, newOrderResponse(order))
	}
}

func parseOrderID(r *http.Request) (uuid.UUID, error) {
	orderID, err := uuid.Parse(chi.URLParam(r, "orderID"))
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order id")
	}
	return orderID, nil
}
