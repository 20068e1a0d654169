// internal/domain/order/service_test.go
package order

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pizzamania/ordering-backend/internal/config"
	"github.com/pizzamania/ordering-backend/internal/domain/cart"
	"github.com/pizzamania/ordering-backend/internal/domain/user"
)

// fakeNotifier records status updates instead of publishing to redis
type fakeNotifier struct {
	updates []StatusUpdate
}

func (f *fakeNotifier) PublishStatus(ctx context.Context, update StatusUpdate) error {
	f.updates = append(f.updates, update)
	return nil
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A shared in-memory sqlite database lives per connection
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&user.User{}, &cart.CartLine{}, &Order{}, &OrderItem{}))
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		Pricing: config.PricingConfig{
			SizeMultipliers:       map[string]float64{"S": 0.90, "M": 1.00, "L": 1.20},
			DefaultSize:           "M",
			ExtraSurcharge:        80,
			FreeDeliveryThreshold: 3000,
			DeliveryFee:           250,
		},
	}
}

type fixture struct {
	db       *gorm.DB
	cfg      *config.Config
	carts    *cart.Service
	users    *user.Service
	notifier *fakeNotifier
	orders   *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := openTestDB(t)
	cfg := testConfig()
	carts := cart.NewService(db, cfg)
	users := user.NewService(db, cfg)
	notifier := &fakeNotifier{}

	return &fixture{
		db:       db,
		cfg:      cfg,
		carts:    carts,
		users:    users,
		notifier: notifier,
		orders:   NewService(db, cfg, carts, users, notifier),
	}
}

func (f *fixture) seedUser(t *testing.T, email string) uint {
	t.Helper()

	u := user.User{Email: email, Password: "x", IsActive: true}
	require.NoError(t, f.db.Create(&u).Error)
	return u.ID
}

func (f *fixture) addLine(t *testing.T, userID, branchID, itemID uint, name string, price int64, qty int, size string, extras ...string) {
	t.Helper()

	require.NoError(t, f.carts.AddOrIncrement(context.Background(), userID, branchID, &cart.AddLineRequest{
		ItemID:    itemID,
		Name:      name,
		UnitPrice: price,
		Quantity:  qty,
		Size:      size,
		Extras:    extras,
	}))
}

func placeRequest(branchID uint) *PlaceOrderRequest {
	return &PlaceOrderRequest{
		BranchID: branchID,
		Name:     "Kasun Perera",
		Phone:    "+94771234567",
		Address:  "42 Galle Road, Colombo",
	}
}

func TestPlaceFromCartSnapshotsCart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := f.seedUser(t, "kasun@example.com")

	f.addLine(t, userID, 10, 7, "Margherita", 500, 2, "M")
	f.addLine(t, userID, 10, 8, "Pepperoni", 1360, 1, "L", "olives", "cheese")

	placed, err := f.orders.PlaceFromCart(ctx, userID, placeRequest(10))
	require.NoError(t, err)

	// 2*500 + 1*1360 = 2360, below the free delivery threshold
	assert.Equal(t, int64(2360), placed.Subtotal)
	assert.Equal(t, int64(250), placed.DeliveryFee)
	assert.Equal(t, int64(2610), placed.Total)
	assert.Equal(t, OrderStatusPlaced, placed.Status)
	assert.True(t, strings.HasPrefix(placed.OrderNumber, "PM-"))

	require.Len(t, placed.Items, 2)
	titles := []string{placed.Items[0].Title, placed.Items[1].Title}
	assert.Contains(t, titles, "Margherita (M)")
	assert.Contains(t, titles, "Pepperoni (L) + cheese,olives")

	// The branch cart is emptied once the order is stored
	lines, err := f.carts.Lines(ctx, userID, 10)
	require.NoError(t, err)
	assert.Empty(t, lines)

	// Trackers are told about the initial status
	require.Len(t, f.notifier.updates, 1)
	assert.Equal(t, placed.ID, f.notifier.updates[0].OrderID)
	assert.Equal(t, OrderStatusPlaced, f.notifier.updates[0].Status)
}

func TestPlaceFromCartWaivesDeliveryFeeAtThreshold(t *testing.T) {
	f := newFixture(t)
	userID := f.seedUser(t, "threshold@example.com")

	f.addLine(t, userID, 10, 7, "Margherita", 1500, 2, "M")

	placed, err := f.orders.PlaceFromCart(context.Background(), userID, placeRequest(10))
	require.NoError(t, err)

	assert.Equal(t, int64(3000), placed.Subtotal)
	assert.Equal(t, int64(0), placed.DeliveryFee)
	assert.Equal(t, int64(3000), placed.Total)
}

func TestPlaceFromCartRejectsEmptyCart(t *testing.T) {
	f := newFixture(t)
	userID := f.seedUser(t, "empty@example.com")

	_, err := f.orders.PlaceFromCart(context.Background(), userID, placeRequest(10))
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestPlaceFromCartSavesDeliveryProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := f.seedUser(t, "profile@example.com")

	f.addLine(t, userID, 10, 7, "Margherita", 500, 1, "M")

	_, err := f.orders.PlaceFromCart(ctx, userID, placeRequest(10))
	require.NoError(t, err)

	profile, err := f.users.GetProfile(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "Kasun Perera", profile.Name)
	assert.Equal(t, "+94771234567", profile.Phone)
	assert.Equal(t, "42 Galle Road, Colombo", profile.Address)
}

func TestPlaceFromCartLeavesOtherBranchCartsAlone(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := f.seedUser(t, "branches@example.com")

	f.addLine(t, userID, 10, 7, "Margherita", 500, 1, "M")
	f.addLine(t, userID, 11, 7, "Margherita", 500, 1, "M")

	_, err := f.orders.PlaceFromCart(ctx, userID, placeRequest(10))
	require.NoError(t, err)

	other, err := f.carts.Lines(ctx, userID, 11)
	require.NoError(t, err)
	assert.Len(t, other, 1)
}

func TestGetScopesToOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.seedUser(t, "owner@example.com")
	other := f.seedUser(t, "other@example.com")

	f.addLine(t, owner, 10, 7, "Margherita", 500, 1, "M")
	placed, err := f.orders.PlaceFromCart(ctx, owner, placeRequest(10))
	require.NoError(t, err)

	got, err := f.orders.Get(ctx, placed.ID, owner, false)
	require.NoError(t, err)
	assert.Equal(t, placed.OrderNumber, got.OrderNumber)
	require.Len(t, got.Items, 1)

	_, err = f.orders.Get(ctx, placed.ID, other, false)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	// Admins see every order
	got, err = f.orders.Get(ctx, placed.ID, other, true)
	require.NoError(t, err)
	assert.Equal(t, placed.ID, got.ID)
}

func TestUpdateStatusFollowsLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := f.seedUser(t, "lifecycle@example.com")

	f.addLine(t, userID, 10, 7, "Margherita", 500, 1, "M")
	placed, err := f.orders.PlaceFromCart(ctx, userID, placeRequest(10))
	require.NoError(t, err)

	// Skipping preparation is not allowed
	_, err = f.orders.UpdateStatus(ctx, placed.ID, OrderStatusDelivered)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	updated, err := f.orders.UpdateStatus(ctx, placed.ID, OrderStatusPreparing)
	require.NoError(t, err)
	assert.Equal(t, OrderStatusPreparing, updated.Status)

	updated, err = f.orders.UpdateStatus(ctx, placed.ID, OrderStatusOutForDelivery)
	require.NoError(t, err)
	assert.Equal(t, OrderStatusOutForDelivery, updated.Status)

	updated, err = f.orders.UpdateStatus(ctx, placed.ID, OrderStatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, OrderStatusDelivered, updated.Status)

	// Delivered is terminal
	_, err = f.orders.UpdateStatus(ctx, placed.ID, OrderStatusCancelled)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// Checkout plus three transitions
	assert.Len(t, f.notifier.updates, 4)
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	f := newFixture(t)

	_, err := f.orders.UpdateStatus(context.Background(), 1, OrderStatus("STUCK_IN_OVEN"))
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdateStatusMissingOrder(t *testing.T) {
	f := newFixture(t)

	_, err := f.orders.UpdateStatus(context.Background(), 999, OrderStatusPreparing)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestListByUserFiltersAndPaginates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := f.seedUser(t, "list@example.com")
	otherID := f.seedUser(t, "list-other@example.com")

	for i := 0; i < 3; i++ {
		f.addLine(t, userID, 10, uint(7+i), "Margherita", 500, 1, "M")
		_, err := f.orders.PlaceFromCart(ctx, userID, placeRequest(10))
		require.NoError(t, err)
	}
	f.addLine(t, otherID, 10, 7, "Margherita", 500, 1, "M")
	_, err := f.orders.PlaceFromCart(ctx, otherID, placeRequest(10))
	require.NoError(t, err)

	page, err := f.orders.ListByUser(ctx, userID, &ListRequest{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page.Orders, 2)
	assert.Equal(t, int64(3), page.Pagination.Total)
	assert.Equal(t, 2, page.Pagination.TotalPages)

	page, err = f.orders.ListByUser(ctx, userID, &ListRequest{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page.Orders, 1)

	// Status filter
	page, err = f.orders.ListByUser(ctx, userID, &ListRequest{Status: OrderStatusDelivered})
	require.NoError(t, err)
	assert.Empty(t, page.Orders)

	// Admin listing spans users
	all, err := f.orders.ListAll(ctx, &ListRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(4), all.Pagination.Total)
}

func TestLineTitleRendering(t *testing.T) {
	assert.Equal(t, "Margherita (M)", lineTitle("Margherita", "M", ""))
	assert.Equal(t, "Pepperoni (L) + cheese,olives", lineTitle("Pepperoni", "L", "cheese,olives"))
}
