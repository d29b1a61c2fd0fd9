package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/teclegacy/marketplace-backend/pkg/db/models"
)

// ItemView is one cart line with its live-derived cost.
type ItemView struct {
	ID           uuid.UUID       `json:"id"`
	ProductID    uuid.UUID       `json:"product_id"`
	ProductName  string          `json:"product_name"`
	ProductSlug  string          `json:"product_slug"`
	CategorySlug string          `json:"category_slug"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Quantity     int             `json:"quantity"`
	Total        decimal.Decimal `json:"total"`
}

// View is the whole-cart read model: items plus totals recomputed from the
// current product prices on every read.
type View struct {
	CartID     uuid.UUID       `json:"cart_id"`
	Items      []ItemView      `json:"items"`
	TotalItems int             `json:"total_items"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// MutationResult carries the per-item and whole-cart figures a caller needs
// to refresh its view after a mutation without a full reload.
type MutationResult struct {
	Message        string
	Removed        bool
	Quantity       int
	ItemTotal      decimal.Decimal
	CartTotal      decimal.Decimal
	CartItemsCount int
}

func newView(cartID uuid.UUID, items []models.CartItem) *View {
	view := &View{
		CartID:     cartID,
		Items:      make([]ItemView, 0, len(items)),
		TotalPrice: decimal.Zero,
	}
	for _, item := range items {
		cost := item.Cost()
		view.Items = append(view.Items, ItemView{
			ID:           item.ID,
			ProductID:    item.ProductID,
			ProductName:  item.Product.Name,
			ProductSlug:  item.Product.Slug,
			CategorySlug: item.Product.Category.Slug,
			UnitPrice:    item.Product.Price,
			Quantity:     item.Quantity,
			Total:        cost,
		})
		view.TotalItems += item.Quantity
		view.TotalPrice = view.TotalPrice.Add(cost)
	}
	return view
}

func totals(items []models.CartItem) (int, decimal.Decimal) {
	count := 0
	total := decimal.Zero
	for _, item := range items {
		count += item.Quantity
		total = total.Add(item.Cost())
	}
	return count, total
}
