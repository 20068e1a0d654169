// internal/domain/menu/service_test.go
package menu

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pizzamania/ordering-backend/internal/config"
	"github.com/pizzamania/ordering-backend/internal/domain/pricing"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&MenuItem{}))

	cfg := &config.Config{
		Pricing: config.PricingConfig{
			SizeMultipliers: map[string]float64{"S": 0.90, "M": 1.00, "L": 1.20},
			DefaultSize:     "M",
			ExtraSurcharge:  80,
		},
	}
	return NewService(db, cfg)
}

func boolPtr(v bool) *bool { return &v }

func TestCreateAppliesDefaults(t *testing.T) {
	svc := newTestService(t)

	item, err := svc.Create(context.Background(), 1, &UpsertItemRequest{
		Title:     "Margherita",
		BasePrice: 1000,
	})
	require.NoError(t, err)

	assert.Equal(t, DefaultCategory, item.Category)
	assert.False(t, item.Available)
}

func TestListByBranchAvailableOnly(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, 1, &UpsertItemRequest{Title: "Live", BasePrice: 900, Available: boolPtr(true)})
	require.NoError(t, err)
	_, err = svc.Create(ctx, 1, &UpsertItemRequest{Title: "Hidden", BasePrice: 900})
	require.NoError(t, err)
	_, err = svc.Create(ctx, 2, &UpsertItemRequest{Title: "Other branch", BasePrice: 900, Available: boolPtr(true)})
	require.NoError(t, err)

	public, err := svc.ListByBranch(ctx, 1, true)
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, "Live", public[0].Title)

	all, err := svc.ListByBranch(ctx, 1, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestGetScopedToBranch(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	item, err := svc.Create(ctx, 1, &UpsertItemRequest{Title: "Margherita", BasePrice: 1000})
	require.NoError(t, err)

	_, err = svc.Get(ctx, 2, item.ID)
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestQuote(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	item, err := svc.Create(ctx, 1, &UpsertItemRequest{Title: "Margherita", BasePrice: 1000})
	require.NoError(t, err)

	quote, err := svc.Quote(ctx, 1, item.ID, &QuoteRequest{Size: "L", Extras: []string{"cheese", "olives"}})
	require.NoError(t, err)
	assert.Equal(t, int64(1360), quote.UnitPrice)

	_, err = svc.Quote(ctx, 1, item.ID, &QuoteRequest{Size: "XL"})
	assert.ErrorIs(t, err, pricing.ErrUnknownSize)
}

func TestUpdateAndDelete(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	item, err := svc.Create(ctx, 1, &UpsertItemRequest{Title: "Margherita", BasePrice: 1000})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, 1, item.ID, &UpsertItemRequest{
		Title:     "Margherita Special",
		BasePrice: 1200,
		Category:  "Pizza",
		Available: boolPtr(true),
	})
	require.NoError(t, err)
	assert.Equal(t, "Margherita Special", updated.Title)
	assert.Equal(t, int64(1200), updated.BasePrice)
	assert.True(t, updated.Available)

	require.NoError(t, svc.Delete(ctx, 1, item.ID))
	_, err = svc.Get(ctx, 1, item.ID)
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestImportLegacyItems(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	available := true
	items, err := svc.ImportLegacyItems(ctx, 1, []LegacyItemDocument{
		{Name: "Legacy Pepperoni", Price: 11.00, Available: &available},
		{Title: "Fresh Hawaiian", Price: 12.50, Category: "pizza"},
	})
	require.NoError(t, err)
	require.Len(t, items, 2)

	all, err := svc.ListByBranch(ctx, 1, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	public, err := svc.ListByBranch(ctx, 1, true)
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, "Legacy Pepperoni", public[0].Title)
}
