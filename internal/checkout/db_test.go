package checkout

import (
	"context"
	"fmt"
	"testing"
	"time"

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
	); err != nil {
		t.Fatalf("failed to migrate test schema: %v", err)
	}
	return conn
}

type testTxRunner struct {
	db *gorm.DB
}

func (r testTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

// stubLocker counts acquisitions and can simulate a busy lock.
type stubLocker struct {
	busy     bool
	acquires int
	releases int
}

func (l *stubLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	l.acquires++
	return !l.busy, nil
}

func (l *stubLocker) Release(ctx context.Context, key string) error {
	l.releases++
	return nil
}

func mustCreateProduct(t *testing.T, db *gorm.DB, name string, price int64) *models.Product {
	t.Helper()

	category := &models.Category{Name: "Cat " + uuid.NewString(), Slug: uuid.NewString(), IsActive: true}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("create category: %v", err)
	}

	product := &models.Product{
		CategoryID:  category.ID,
		Name:        name,
		Slug:        uuid.NewString(),
		Description: name,
		Price:       decimal.NewFromInt(price),
		IsAvailable: true,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return product
}
