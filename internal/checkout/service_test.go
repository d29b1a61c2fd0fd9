package checkout

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/teclegacy/marketplace-backend/internal/cart"
	"github.com/teclegacy/marketplace-backend/internal/catalog"
	"github.com/teclegacy/marketplace-backend/internal/orders"
	"github.com/teclegacy/marketplace-backend/pkg/db/models"
	"github.com/teclegacy/marketplace-backend/pkg/enums"
	pkgerrors "github.com/teclegacy/marketplace-backend/pkg/errors"
	"github.com/teclegacy/marketplace-backend/pkg/identity"
)

func validInput() SubmitInput {
	return SubmitInput{
		FirstName:     "Ana",
		LastName:      "García",
		Email:         "ana@example.com",
		Phone:         "600000000",
		Address:       "Calle Mayor 1",
		City:          "Madrid",
		Country:       "España",
		PostalCode:    "28001",
		PaymentMethod: "tarjeta",
	}
}

func TestSubmitRequiresAuthenticatedUser(t *testing.T) {
	t.Parallel()

	svc, _ := mustService(t, openTestDB(t), nil)

	_, err := svc.Submit(context.Background(), identity.Session(uuid.NewString()), validInput())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())
}

func TestSubmitNamesFirstMissingField(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	svc, _ := mustService(t, db, nil)
	ctx := context.Background()
	ident := identity.User(uuid.New())

	input := validInput()
	input.Phone = ""
	input.City = ""

	_, err := svc.Submit(ctx, ident, input)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	assert.Equal(t, "El campo phone es obligatorio", typed.Message(),
		"fields are validated in fixed order; the first empty one names the rejection")

	var count int64
	require.NoError(t, db.Model(&models.Order{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSubmitRejectsUnknownPaymentMethod(t *testing.T) {
	t.Parallel()

	svc, _ := mustService(t, openTestDB(t), nil)

	input := validInput()
	input.PaymentMethod = "bitcoin"

	_, err := svc.Submit(context.Background(), identity.User(uuid.New()), input)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestSubmitRejectsEmptyCart(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	svc, cartSvc := mustService(t, db, nil)
	ctx := context.Background()
	ident := identity.User(uuid.New())

	// No cart at all.
	_, err := svc.Submit(ctx, ident, validInput())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	// A cart that exists but has no items.
	_, err = cartSvc.ResolveCart(ctx, ident)
	require.NoError(t, err)
	_, err = svc.Submit(ctx, ident, validInput())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestSubmitSnapshotsCartIntoOrder(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	svc, cartSvc := mustService(t, db, nil)
	ctx := context.Background()
	ident := identity.User(uuid.New())

	keyboard := mustCreateProduct(t, db, "Teclado Gaming", 180000)
	mouse := mustCreateProduct(t, db, "Mouse Gaming", 95000)

	_, err := cartSvc.AddItem(ctx, ident, keyboard.ID, 2)
	require.NoError(t, err)
	_, err = cartSvc.AddItem(ctx, ident, mouse.ID, 1)
	require.NoError(t, err)

	order, err := svc.Submit(ctx, ident, validInput())
	require.NoError(t, err)

	assert.Equal(t, ident.UserID, order.UserID)
	assert.Equal(t, enums.PaymentStatusPending, order.PaymentStatus)
	assert.Equal(t, enums.OrderStatusPendiente, order.Status)
	assert.Equal(t, enums.PaymentMethodTarjeta, order.PaymentMethod)
	assert.True(t, order.TotalPaid.Equal(decimal.NewFromInt(455000)))
	require.Len(t, order.Items, 2)

	var cartItems int64
	require.NoError(t, db.Model(&models.CartItem{}).Count(&cartItems).Error)
	assert.Zero(t, cartItems, "submission empties the cart")

	var cartCount int64
	require.NoError(t, db.Model(&models.Cart{}).Count(&cartCount).Error)
	assert.EqualValues(t, 1, cartCount, "the cart row itself survives")
}

func TestSubmitFreezesTotalAgainstLaterPriceEdits(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	svc, cartSvc := mustService(t, db, nil)
	ctx := context.Background()
	ident := identity.User(uuid.New())

	product := mustCreateProduct(t, db, "Procesador", 1000000)
	_, err := cartSvc.AddItem(ctx, ident, product.ID, 1)
	require.NoError(t, err)

	order, err := svc.Submit(ctx, ident, validInput())
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.Product{}).
		Where("id = ?", product.ID).
		Update("price", decimal.NewFromInt(9999999)).Error)

	var stored models.Order
	require.NoError(t, db.Preload("Items").First(&stored, "id = ?", order.ID).Error)
	assert.True(t, stored.TotalPaid.Equal(decimal.NewFromInt(1000000)))
	require.Len(t, stored.Items, 1)
	assert.True(t, stored.Items[0].Price.Equal(decimal.NewFromInt(1000000)),
		"line prices are snapshots, decoupled from catalog edits")
}

func TestSubmitHonorsSingleFlightLock(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	lock := &stubLocker{busy: true}
	svc, cartSvc := mustService(t, db, lock)
	ctx := context.Background()
	ident := identity.User(uuid.New())

	product := mustCreateProduct(t, db, "GPU", 2500000)
	_, err := cartSvc.AddItem(ctx, ident, product.ID, 1)
	require.NoError(t, err)

	_, err = svc.Submit(ctx, ident, validInput())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())
	assert.Equal(t, 1, lock.acquires)
	assert.Zero(t, lock.releases, "a lock we never held must not be released")

	var cartItems int64
	require.NoError(t, db.Model(&models.CartItem{}).Count(&cartItems).Error)
	assert.EqualValues(t, 1, cartItems, "a refused submission leaves the cart intact")
}

func TestSubmitReleasesLockAfterSuccess(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	lock := &stubLocker{}
	svc, cartSvc := mustService(t, db, lock)
	ctx := context.Background()
	ident := identity.User(uuid.New())

	product := mustCreateProduct(t, db, "Monitor", 500000)
	_, err := cartSvc.AddItem(ctx, ident, product.ID, 1)
	require.NoError(t, err)

	_, err = svc.Submit(ctx, ident, validInput())
	require.NoError(t, err)
	assert.Equal(t, 1, lock.acquires)
	assert.Equal(t, 1, lock.releases)
}

func mustService(t *testing.T, db *gorm.DB, lock locker) (Service, cart.Service) {
	t.Helper()

	tx := testTxRunner{db: db}
	cartRepo := cart.NewRepository(db)

	cartSvc, err := cart.NewService(cartRepo, tx, catalog.NewRepository(db))
	require.NoError(t, err)

	svc, err := NewService(cartRepo, orders.NewRepository(db), tx, lock, 30*time.Second)
	require.NoError(t, err)
	return svc, cartSvc
}
