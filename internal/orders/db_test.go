package orders

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/teclegacy/marketplace-backend/pkg/db/models"
	"github.com/teclegacy/marketplace-backend/pkg/enums"
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
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		t.Fatalf("failed to migrate test schema: %v", err)
	}
	return conn
}

func mustCreateOrder(t *testing.T, db *gorm.DB, userID uuid.UUID, total int64) *models.Order {
	t.Helper()

	category := &models.Category{Name: "Cat " + uuid.NewString(), Slug: uuid.NewString(), IsActive: true}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("create category: %v", err)
	}
	product := &models.Product{
		CategoryID:  category.ID,
		Name:        "Producto",
		Slug:        uuid.NewString(),
		Description: "Producto",
		Price:       decimal.NewFromInt(total),
		IsAvailable: true,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}

	order := &models.Order{
		UserID:        userID,
		FirstName:     "Ana",
		LastName:      "García",
		Email:         "ana@example.com",
		Phone:         "600000000",
		Address:       "Calle Mayor 1",
		City:          "Madrid",
		Country:       "España",
		PostalCode:    "28001",
		TotalPaid:     decimal.NewFromInt(total),
		PaymentMethod: enums.PaymentMethodTarjeta,
		PaymentStatus: enums.PaymentStatusPending,
		Status:        enums.OrderStatusPendiente,
		Items: []models.OrderItem{
			{ProductID: product.ID, Price: product.Price, Quantity: 1},
		},
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("create order: %v", err)
	}
	return order
}
