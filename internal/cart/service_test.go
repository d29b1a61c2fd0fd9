package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/teclegacy/marketplace-backend/internal/catalog"
	"github.com/teclegacy/marketplace-backend/pkg/db/models"
	"github.com/teclegacy/marketplace-backend/pkg/enums"
	pkgerrors "github.com/teclegacy/marketplace-backend/pkg/errors"
	"github.com/teclegacy/marketplace-backend/pkg/identity"
)

func TestResolveCartIsIdempotentPerIdentity(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	svc := mustService(t, db)
	ctx := context.Background()

	user := identity.User(uuid.New())
	first, err := svc.ResolveCart(ctx, user)
	require.NoError(t, err)
	second, err := svc.ResolveCart(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	anon := identity.Session(uuid.NewString())
	anonCart, err := svc.ResolveCart(ctx, anon)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, anonCart.ID)
}

func TestResolveCartRejectsEmptyIdentity(t *testing.T) {
	t.Parallel()

	svc := mustService(t, openTestDB(t))

	_, err := svc.ResolveCart(context.Background(), identity.Identity{})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())
}

func TestAddItemAccumulatesQuantity(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	svc := mustService(t, db)
	ctx := context.Background()
	ident := identity.User(uuid.New())

	product := mustCreateProduct(t, db, "Teclado Gaming", 180000, true)

	first, err := svc.AddItem(ctx, ident, product.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, first.Quantity)
	assert.Equal(t, 2, first.CartItemsCount)
	assert.Equal(t, "Teclado Gaming añadido al carrito", first.Message)
	assert.True(t, first.CartTotal.Equal(product.Price.Mul(decimalFromInt(2))))

	second, err := svc.AddItem(ctx, ident, product.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 5, second.Quantity)
	assert.Equal(t, 5, second.CartItemsCount)

	var count int64
	require.NoError(t, db.Model(&models.CartItem{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestAddItemRejectsNonPositiveQuantity(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	svc := mustService(t, db)
	ctx := context.Background()
	ident := identity.User(uuid.New())

	product := mustCreateProduct(t, db, "Mouse Gaming", 95000, true)

	for _, qty := range []int{0, -1} {
		_, err := svc.AddItem(ctx, ident, product.ID, qty)
		require.Error(t, err)
		assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
	}

	var count int64
	require.NoError(t, db.Model(&models.CartItem{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestAddItemRejectsUnavailableProduct(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	svc := mustService(t, db)
	ctx := context.Background()

	retired := mustCreateProduct(t, db, "Monitor Retirado", 500000, false)

	_, err := svc.AddItem(ctx, identity.User(uuid.New()), retired.ID, 1)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())

	_, err = svc.AddItem(ctx, identity.User(uuid.New()), uuid.New(), 1)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestUpdateItemIncreaseAndDecrease(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	svc := mustService(t, db)
	ctx := context.Background()
	ident := identity.Session(uuid.NewString())

	product := mustCreateProduct(t, db, "Auriculares", 120000, true)
	added, err := svc.AddItem(ctx, ident, product.ID, 1)
	require.NoError(t, err)

	itemID := mustOnlyItemID(t, db)

	increased, err := svc.UpdateItem(ctx, ident, itemID, enums.CartActionIncrease)
	require.NoError(t, err)
	assert.Equal(t, 2, increased.Quantity)
	assert.False(t, increased.Removed)
	assert.True(t, increased.ItemTotal.Equal(product.Price.Mul(decimalFromInt(2))))

	decreased, err := svc.UpdateItem(ctx, ident, itemID, enums.CartActionDecrease)
	require.NoError(t, err)
	assert.Equal(t, 1, decreased.Quantity)

	_ = added
}

func TestUpdateItemDecreaseAtOneRemovesRow(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	svc := mustService(t, db)
	ctx := context.Background()
	ident := identity.Session(uuid.NewString())

	product := mustCreateProduct(t, db, "Silla Gamer", 900000, true)
	_, err := svc.AddItem(ctx, ident, product.ID, 1)
	require.NoError(t, err)

	itemID := mustOnlyItemID(t, db)

	result, err := svc.UpdateItem(ctx, ident, itemID, enums.CartActionDecrease)
	require.NoError(t, err)
	assert.True(t, result.Removed)
	assert.Zero(t, result.CartItemsCount)
	assert.True(t, result.CartTotal.IsZero())

	var count int64
	require.NoError(t, db.Model(&models.CartItem{}).Count(&count).Error)
	assert.Zero(t, count, "decrement from 1 must delete the row, never persist 0")
}

func TestUpdateItemRemoveIgnoresQuantity(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	svc := mustService(t, db)
	ctx := context.Background()
	ident := identity.User(uuid.New())

	product := mustCreateProduct(t, db, "Placa Madre", 750000, true)
	_, err := svc.AddItem(ctx, ident, product.ID, 4)
	require.NoError(t, err)

	result, err := svc.UpdateItem(ctx, ident, mustOnlyItemID(t, db), enums.CartActionRemove)
	require.NoError(t, err)
	assert.True(t, result.Removed)
	assert.Zero(t, result.CartItemsCount)
}

func TestUpdateItemOfOtherIdentityIsNotFound(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	svc := mustService(t, db)
	ctx := context.Background()

	owner := identity.User(uuid.New())
	product := mustCreateProduct(t, db, "GPU", 2500000, true)
	_, err := svc.AddItem(ctx, owner, product.ID, 1)
	require.NoError(t, err)

	intruder := identity.Session(uuid.NewString())
	_, err = svc.UpdateItem(ctx, intruder, mustOnlyItemID(t, db), enums.CartActionRemove)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestDetailTotalsTrackLivePrices(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	svc := mustService(t, db)
	ctx := context.Background()
	ident := identity.User(uuid.New())

	product := mustCreateProduct(t, db, "Procesador", 1000000, true)
	_, err := svc.AddItem(ctx, ident, product.ID, 2)
	require.NoError(t, err)

	before, err := svc.Detail(ctx, ident)
	require.NoError(t, err)
	assert.Equal(t, 2, before.TotalItems)
	assert.True(t, before.TotalPrice.Equal(decimalFromInt(2000000)))

	require.NoError(t, db.Model(&models.Product{}).
		Where("id = ?", product.ID).
		Update("price", decimalFromInt(1100000)).Error)

	after, err := svc.Detail(ctx, ident)
	require.NoError(t, err)
	assert.True(t, after.TotalPrice.Equal(decimalFromInt(2200000)),
		"cart totals must be recomputed from current prices on every read")
}

func mustService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(NewRepository(db), testTxRunner{db: db}, catalog.NewRepository(db))
	require.NoError(t, err)
	return svc
}

func mustOnlyItemID(t *testing.T, db *gorm.DB) uuid.UUID {
	t.Helper()
	var item models.CartItem
	require.NoError(t, db.First(&item).Error)
	return item.ID
}
