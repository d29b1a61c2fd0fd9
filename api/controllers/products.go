package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/teclegacy/marketplace-backend/api/responses"
	"github.com/teclegacy/marketplace-backend/internal/catalog"
	"github.com/teclegacy/marketplace-backend/pkg/db/models"
	pkgerrors "github.com/teclegacy/marketplace-backend/pkg/errors"
	"github.com/teclegacy/marketplace-backend/pkg/logger"
)

type categoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type productResponse struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Slug        string           `json:"slug"`
	Description string           `json:"description"`
	Price       decimal.Decimal  `json:"price"`
	IsAvailable bool             `json:"is_available"`
	Category    categoryResponse `json:"category"`
	CreatedAt   time.Time        `json:"created_at"`
}

func newCategoryResponse(category models.Category) categoryResponse {
	return categoryResponse{
		ID:   category.ID.String(),
		Name: category.Name,
		Slug: category.Slug,
	}
}

func newProductResponse(product models.Product) productResponse {
	return productResponse{
		ID:          product.ID.String(),
		Name:        product.Name,
		Slug:        product.Slug,
		Description: product.Description,
		Price:       product.Price,
		IsAvailable: product.IsAvailable,
		Category:    newCategoryResponse(product.Category),
		CreatedAt:   product.CreatedAt,
	}
}

func ListCategories(catalogRepo catalog.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		categories, err := catalogRepo.ListCategories(ctx, true)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		out := make([]categoryResponse, 0, len(categories))
		for _, category := range categories {
			out = append(out, newCategoryResponse(category))
		}
		responses.WriteSuccess(w, out)
	}
}

// ListProducts browses the catalog. ?category= narrows by category slug,
// ?q= is an ANDed token search over name and description, ?max_price= caps
// the price.
func ListProducts(catalogRepo catalog.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		filters := catalog.Filters{AvailableOnly: true}

		if slug := strings.TrimSpace(r.URL.Query().Get("category")); slug != "" {
			category, err := catalogRepo.FindCategoryBySlug(ctx, slug)
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
			filters = filters.WithCategory(category.ID.String())
		}

		if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
			for _, token := range strings.Fields(q) {
				filters = filters.WithSearchToken(token)
			}
		}

		if raw := strings.TrimSpace(r.URL.Query().Get("max_price")); raw != "" {
			ceiling, err := decimal.NewFromString(raw)
			if err != nil {
				responses.WriteError(ctx, logg, w,
					pkgerrors.New(pkgerrors.CodeValidation, "max_price must be a number"))
				return
			}
			filters = filters.WithMaxPrice(ceiling)
		}

		products, err := catalogRepo.ListProducts(ctx, filters)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		out := make([]productResponse, 0, len(products))
		for _, product := range products {
			out = append(out, newProductResponse(product))
		}
		responses.WriteSuccess(w, out)
	}
}

func ProductDetail(catalogRepo catalog.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		categorySlug := chi.URLParam(r, "categorySlug")
		slug := chi.URLParam(r, "slug")

		product, err := catalogRepo.FindProductBySlug(ctx, categorySlug, slug)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, newProductResponse(*product))
	}
}
