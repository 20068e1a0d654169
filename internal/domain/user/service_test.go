// internal/domain/user/service_test.go
package user

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pizzamania/ordering-backend/internal/config"
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

	require.NoError(t, db.AutoMigrate(&User{}))

	cfg := &config.Config{
		JWT: config.JWTConfig{
			Secret:             "test-secret",
			AccessTokenExpiry:  time.Hour,
			RefreshTokenExpiry: 24 * time.Hour,
		},
		Security: config.SecurityConfig{
			BcryptCost: 4,
		},
	}
	return NewService(db, cfg)
}

func registerRequest(email string) *RegisterRequest {
	return &RegisterRequest{
		Email:           email,
		Password:        "hunter2abc",
		ConfirmPassword: "hunter2abc",
		Name:            "Kasun Perera",
	}
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	resp, err := svc.Register(ctx, registerRequest("Kasun@Example.com"))
	require.NoError(t, err)
	require.NotNil(t, resp.User)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	// Email is stored lowercase and the hash never leaves the service
	assert.Equal(t, "kasun@example.com", resp.User.Email)
	assert.Empty(t, resp.User.Password)

	login, err := svc.Login(ctx, &LoginRequest{Email: "kasun@example.com", Password: "hunter2abc"})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, login.User.ID)

	_, err = svc.Login(ctx, &LoginRequest{Email: "kasun@example.com", Password: "wrong"})
	assert.Error(t, err)
}

func TestRegisterRejectsMismatchedPasswords(t *testing.T) {
	svc := newTestService(t)

	req := registerRequest("mismatch@example.com")
	req.ConfirmPassword = "different"

	_, err := svc.Register(context.Background(), req)
	assert.Error(t, err)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerRequest("dup@example.com"))
	require.NoError(t, err)

	_, err = svc.Register(ctx, registerRequest("dup@example.com"))
	assert.Error(t, err)
}

func TestRefreshTokenIssuesNewPair(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	resp, err := svc.Register(ctx, registerRequest("refresh@example.com"))
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(ctx, &RefreshRequest{RefreshToken: resp.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	// An access token is not accepted as a refresh token
	_, err = svc.RefreshToken(ctx, &RefreshRequest{RefreshToken: resp.AccessToken})
	assert.Error(t, err)
}

func TestSaveProfileIfChanged(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	resp, err := svc.Register(ctx, registerRequest("profile@example.com"))
	require.NoError(t, err)
	userID := resp.User.ID

	require.NoError(t, svc.SaveProfileIfChanged(ctx, userID, "Kasun Perera", "+94770000000", "42 Galle Road"))

	profile, err := svc.GetProfile(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "+94770000000", profile.Phone)
	assert.Equal(t, "42 Galle Road", profile.Address)

	before := profile.UpdatedAt

	// Unchanged details skip the write entirely
	require.NoError(t, svc.SaveProfileIfChanged(ctx, userID, "Kasun Perera", "+94770000000", "42 Galle Road"))

	profile, err = svc.GetProfile(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, before, profile.UpdatedAt)
}

func TestSaveProfileIfChangedMissingUser(t *testing.T) {
	svc := newTestService(t)

	err := svc.SaveProfileIfChanged(context.Background(), 999, "Nobody", "", "")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
