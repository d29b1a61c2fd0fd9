package controllers

import (
	"net/http"

	"github.com/teclegacy/marketplace-backend/api/middleware"
	"github.com/teclegacy/marketplace-backend/api/responses"
	"github.com/teclegacy/marketplace-backend/api/validators"
	"github.com/teclegacy/marketplace-backend/internal/checkout"
	"github.com/teclegacy/marketplace-backend/pkg/logger"
	"github.com/teclegacy/marketplace-backend/pkg/metrics"
)

// checkoutRequest mirrors the storefront's shipping form. Presence is checked
// by the service so the response names the first missing field.
type checkoutRequest struct {
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	City          string `json:"city"`
	Country       string `json:"country"`
	PostalCode    string `json:"postal_code"`
	PaymentMethod string `json:"payment_method"`
}

type checkoutResponse struct {
	OrderID       string `json:"order_id"`
	TotalPaid     string `json:"total_paid"`
	PaymentStatus string `json:"payment_status"`
	Status        string `json:"status"`
}

func Checkout(checkoutService checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var body checkoutRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		order, err := checkoutService.Submit(ctx, middleware.IdentityFromContext(ctx), checkout.SubmitInput{
			FirstName:     body.FirstName,
			LastName:      body.LastName,
			Email:         body.Email,
			Phone:         body.Phone,
			Address:       body.Address,
			City:          body.City,
			Country:       body.Country,
			PostalCode:    body.PostalCode,
			PaymentMethod: body.PaymentMethod,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		metrics.OrdersSubmittedTotal.Inc()
		if logg != nil {
			logg.Info(logg.WithField(ctx, "order_id", order.ID.String()), "checkout.order_created")
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, checkoutResponse{
			OrderID:       order.ID.String(),
			TotalPaid:     order.TotalPaid.String(),
			PaymentStatus: order.PaymentStatus.String(),
			Status:        order.Status.String(),
		})
	}
}
