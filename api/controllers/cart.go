package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/teclegacy/marketplace-backend/api/middleware"
	"github.com/teclegacy/marketplace-backend/api/responses"
	"github.com/teclegacy/marketplace-backend/api/validators"
	"github.com/teclegacy/marketplace-backend/internal/cart"
	"github.com/teclegacy/marketplace-backend/pkg/enums"
	pkgerrors "github.com/teclegacy/marketplace-backend/pkg/errors"
	"github.com/teclegacy/marketplace-backend/pkg/logger"
)

// Cart mutation payloads keep the storefront's historical JSON shape, so
// they bypass the data envelope.
type cartAddResponse struct {
	Success        bool            `json:"success"`
	Message        string          `json:"message"`
	CartItemsCount int             `json:"cart_items_count"`
	CartTotal      decimal.Decimal `json:"cart_total"`
}

type cartUpdateRequest struct {
	ItemID string `json:"item_id" validate:"required"`
	Action string `json:"action" validate:"required"`
}

type cartUpdateResponse struct {
	Success        bool             `json:"success"`
	Removed        bool             `json:"removed,omitempty"`
	ItemTotal      *decimal.Decimal `json:"item_total,omitempty"`
	Quantity       int              `json:"quantity,omitempty"`
	CartTotal      decimal.Decimal  `json:"cart_total"`
	CartItemsCount int              `json:"cart_items_count"`
}

func CartDetail(cartService cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		view, err := cartService.Detail(ctx, middleware.IdentityFromContext(ctx))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// CartAdd puts a product into the cart. AJAX callers get the updated totals
// as JSON; a plain form POST is redirected back to the cart view.
func CartAdd(cartService cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		productID, err := uuid.Parse(chi.URLParam(r, "productID"))
		if err != nil {
			responses.WriteError(ctx, logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "invalid product id"))
			return
		}

		ajax := r.Header.Get("X-Requested-With") == "XMLHttpRequest"

		quantity := 1
		rawQuantity := r.URL.Query().Get("quantity")
		if !ajax && r.Method == http.MethodPost {
			if err := r.ParseForm(); err == nil && r.PostFormValue("quantity") != "" {
				rawQuantity = r.PostFormValue("quantity")
			}
		}
		if rawQuantity != "" {
			parsed, err := strconv.Atoi(rawQuantity)
			if err != nil {
				responses.WriteError(ctx, logg, w,
					pkgerrors.New(pkgerrors.CodeValidation, "quantity must be a number"))
				return
			}
			quantity = parsed
		}

		result, err := cartService.AddItem(ctx, middleware.IdentityFromContext(ctx), productID, quantity)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if !ajax && r.Method == http.MethodPost {
			http.Redirect(w, r, "/api/v1/cart", http.StatusSeeOther)
			return
		}

		responses.WriteJSON(w, http.StatusOK, cartAddResponse{
			Success:        true,
			Message:        result.Message,
			CartItemsCount: result.CartItemsCount,
			CartTotal:      result.CartTotal,
		})
	}
}

func CartUpdate(cartService cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var body cartUpdateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		itemID, err := uuid.Parse(body.ItemID)
		if err != nil {
			responses.WriteError(ctx, logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "invalid item_id"))
			return
		}

		action, err := enums.ParseCartAction(body.Action)
		if err != nil {
			responses.WriteError(ctx, logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "invalid action"))
			return
		}

		result, err := cartService.UpdateItem(ctx, middleware.IdentityFromContext(ctx), itemID, action)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		payload := cartUpdateResponse{
			Success:        true,
			Removed:        result.Removed,
			CartTotal:      result.CartTotal,
			CartItemsCount: result.CartItemsCount,
		}
		if !result.Removed {
			itemTotal := result.ItemTotal
			payload.ItemTotal = &itemTotal
			payload.Quantity = result.Quantity
		}
		responses.WriteJSON(w, http.StatusOK, payload)
	}
}
