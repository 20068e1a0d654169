// internal/domain/branch/service_test.go
package branch

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pizzamania/ordering-backend/internal/config"
	"github.com/pizzamania/ordering-backend/internal/pkg/geo"
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

	require.NoError(t, db.AutoMigrate(&Branch{}))
	return NewService(db, &config.Config{})
}

func boolPtr(v bool) *bool { return &v }

func TestCreateAndGet(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, &CreateBranchRequest{
		Name:      "Colombo Fort",
		Address:   "1 York Street",
		Phone:     "+94 11 234 5678",
		Latitude:  6.9344,
		Longitude: 79.8428,
	})
	require.NoError(t, err)
	assert.True(t, created.Active)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Colombo Fort", got.Name)
}

func TestGetMissingBranch(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Get(context.Background(), 42)
	assert.ErrorIs(t, err, ErrBranchNotFound)
}

func TestListActiveOnly(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, &CreateBranchRequest{Name: "Open", Address: "a"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, &CreateBranchRequest{Name: "Closed", Address: "b", Active: boolPtr(false)})
	require.NoError(t, err)

	all, err := svc.List(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	active, err := svc.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Open", active[0].Name)
}

func TestNearestPicksClosestActiveBranch(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, &CreateBranchRequest{
		Name: "Kandy", Address: "a", Latitude: 7.2906, Longitude: 80.6337,
	})
	require.NoError(t, err)
	_, err = svc.Create(ctx, &CreateBranchRequest{
		Name: "Colombo", Address: "b", Latitude: 6.9271, Longitude: 79.8612,
	})
	require.NoError(t, err)
	// Closest of all, but inactive
	_, err = svc.Create(ctx, &CreateBranchRequest{
		Name: "Dehiwala", Address: "c", Latitude: 6.8560, Longitude: 79.8650, Active: boolPtr(false),
	})
	require.NoError(t, err)

	nearest, err := svc.Nearest(ctx, geo.Point{Latitude: 6.9000, Longitude: 79.8600})
	require.NoError(t, err)
	assert.Equal(t, "Colombo", nearest.Branch.Name)
	assert.Greater(t, nearest.DistanceKm, 0.0)
}

func TestNearestWithoutBranches(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Nearest(context.Background(), geo.Point{})
	assert.ErrorIs(t, err, ErrBranchNotFound)
}

func TestUpdateAndDelete(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, &CreateBranchRequest{Name: "Old", Address: "a"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, &CreateBranchRequest{
		Name: "New", Address: "b", Active: boolPtr(false),
	})
	require.NoError(t, err)
	assert.Equal(t, "New", updated.Name)
	assert.False(t, updated.Active)

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, ErrBranchNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, created.ID), ErrBranchNotFound)
}
