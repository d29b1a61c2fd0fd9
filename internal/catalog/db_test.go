package catalog

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/teclegacy/marketplace-backend/pkg/db/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	if err := conn.AutoMigrate(
		&models.Category{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.ChatbotQuery{},
	); err != nil {
		t.Fatalf("failed to migrate test schema: %v", err)
	}
	return conn
}

func mustCreateCategory(t *testing.T, tx *gorm.DB, name, slug string, active bool) *models.Category {
	t.Helper()
	category := &models.Category{Name: name, Slug: slug, IsActive: active}
	if err := tx.Create(category).Error; err != nil {
		t.Fatalf("create category: %v", err)
	}
	return category
}

func mustCreateProduct(t *testing.T, tx *gorm.DB, categoryID uuid.UUID, name, slug string, price int64, available bool) *models.Product {
	t.Helper()
	product := &models.Product{
		CategoryID:  categoryID,
		Name:        name,
		Slug:        slug,
		Description: name + " description",
		Price:       decimal.NewFromInt(price),
		IsAvailable: available,
	}
	if err := tx.Create(product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return product
}
