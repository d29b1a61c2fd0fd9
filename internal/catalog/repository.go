package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/teclegacy/marketplace-backend/pkg/db/models"
	pkgerrors "github.com/teclegacy/marketplace-backend/pkg/errors"
)

// Repository is the read-mostly catalog contract consumed by the cart,
// checkout and chatbot components.
type Repository interface {
	FindProduct(ctx context.Context, id uuid.UUID, mustBeAvailable bool) (*models.Product, error)
	FindProductBySlug(ctx context.Context, categorySlug, slug string) (*models.Product, error)
	FindCategoryByName(ctx context.Context, name string) (*models.Category, error)
	FindCategoryBySlug(ctx context.Context, slug string) (*models.Category, error)
	ListProducts(ctx context.Context, filters Filters) ([]models.Product, error)
	ListCategories(ctx context.Context, activeOnly bool) ([]models.Category, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a catalog repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindProduct(ctx context.Context, id uuid.UUID, mustBeAvailable bool) (*models.Product, error) {
	query := r.db.WithContext(ctx).Preload("Category").Where("id = ?", id)
	if mustBeAvailable {
		query = query.Where("is_available = ?", true)
	}

	var product models.Product
	if err := query.First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return &product, nil
}

func (r *repository) FindProductBySlug(ctx context.Context, categorySlug, slug string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Joins("JOIN categories ON categories.id = products.category_id").
		Where("categories.slug = ? AND products.slug = ?", categorySlug, slug).
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return &product, nil
}

func (r *repository) FindCategoryByName(ctx context.Context, name string) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}
	return &category, nil
}

func (r *repository) FindCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}
	return &category, nil
}

// ListProducts applies the accumulated predicates in catalog natural order
// (created_at ascending).
func (r *repository) ListProducts(ctx context.Context, filters Filters) ([]models.Product, error) {
	query := r.db.WithContext(ctx).Model(&models.Product{}).Preload("Category")

	if filters.AvailableOnly {
		query = query.Where("is_available = ?", true)
	}
	// Category predicates are ANDed one by one: asking for two distinct
	// categories at once matches nothing rather than their union.
	for _, categoryID := range filters.CategoryIDs {
		query = query.Where("category_id = ?", categoryID)
	}
	for _, fragment := range filters.NameContains {
		query = query.Where("LOWER(name) LIKE ?", containsPattern(fragment))
	}
	for _, token := range filters.SearchTokens {
		pattern := containsPattern(token)
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}
	if filters.MaxPrice != nil {
		query = query.Where("price <= ?", filters.MaxPrice)
	}
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}

	var products []models.Product
	if err := query.Order("created_at ASC").Find(&products).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return products, nil
}

func (r *repository) ListCategories(ctx context.Context, activeOnly bool) ([]models.Category, error) {
	query := r.db.WithContext(ctx).Model(&models.Category{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var categories []models.Category
	if err := query.Order("created_at ASC").Find(&categories).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	return categories, nil
}

func containsPattern(fragment string) string {
	return "%" + strings.ToLower(fragment) + "%"
}
