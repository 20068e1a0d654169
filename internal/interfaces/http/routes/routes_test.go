// internal/interfaces/http/routes/routes_test.go
package routes

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pizzamania/ordering-backend/internal/config"
	"github.com/pizzamania/ordering-backend/internal/domain/branch"
	"github.com/pizzamania/ordering-backend/internal/domain/cart"
	"github.com/pizzamania/ordering-backend/internal/domain/menu"
	"github.com/pizzamania/ordering-backend/internal/domain/order"
	"github.com/pizzamania/ordering-backend/internal/domain/user"
	"github.com/pizzamania/ordering-backend/internal/pkg/auth"
)

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:             "test-secret",
			AccessTokenExpiry:  time.Hour,
			RefreshTokenExpiry: 24 * time.Hour,
		},
		Pricing: config.PricingConfig{
			SizeMultipliers:       map[string]float64{"S": 0.90, "M": 1.0, "L": 1.2},
			DefaultSize:           "M",
			ExtraSurcharge:        80,
			FreeDeliveryThreshold: 3000,
			DeliveryFee:           250,
		},
	}
}

func setupTestRouter(t *testing.T) (*gin.Engine, *config.Config) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&user.User{}, &branch.Branch{}, &menu.MenuItem{},
		&cart.CartLine{}, &order.Order{}, &order.OrderItem{},
	))
	require.NoError(t, db.Create(&branch.Branch{Name: "Centro", Active: true}).Error)

	cfg := testConfig()
	// Never dialed: routed tests below touch no redis-backed endpoint
	redisClient := redis.NewClient(&redis.Options{Addr: "localhost:6379"})

	router := gin.New()
	SetupRoutes(router.Group("/api/v1"), db, redisClient, cfg)
	return router, cfg
}

func accessToken(t *testing.T, cfg *config.Config, userID uint, isAdmin bool) string {
	t.Helper()
	token, err := auth.NewJWTManager(cfg).GenerateAccessToken(userID, "tester@example.com", isAdmin)
	require.NoError(t, err)
	return "Bearer " + token
}

func doRequest(router *gin.Engine, method, path, authHeader string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestDiscoveryRoutesArePublic(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := doRequest(router, http.MethodGet, "/api/v1/branches", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, http.MethodGet, "/api/v1/branches/1/menu", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDiscoveryRoutesTolerateBadToken(t *testing.T) {
	router, _ := setupTestRouter(t)

	// A bad token must not lock visitors out of discovery
	w := doRequest(router, http.MethodGet, "/api/v1/branches", "Bearer not-a-token", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCartRoutesRequireAuthentication(t *testing.T) {
	router, cfg := setupTestRouter(t)

	w := doRequest(router, http.MethodGet, "/api/v1/branches/1/cart", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(router, http.MethodGet, "/api/v1/branches/1/cart", accessToken(t, cfg, 1, false), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminRoutesRejectNonAdmins(t *testing.T) {
	router, cfg := setupTestRouter(t)
	body := []byte(`{"name":"Norte","address":"Av. Siempreviva 742"}`)

	w := doRequest(router, http.MethodPost, "/api/v1/admin/branches", accessToken(t, cfg, 1, false), body)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(router, http.MethodPost, "/api/v1/admin/branches", accessToken(t, cfg, 2, true), body)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestAddLineAcceptsZeroUnitPrice(t *testing.T) {
	router, cfg := setupTestRouter(t)

	// Promotional free items carry a zero price
	body := []byte(`{"item_id":7,"name":"Garlic Bread","unit_price":0,"quantity":1,"size":"M"}`)
	w := doRequest(router, http.MethodPost, "/api/v1/branches/1/cart/lines", accessToken(t, cfg, 1, false), body)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestMenuCreateAcceptsZeroBasePrice(t *testing.T) {
	router, cfg := setupTestRouter(t)

	body := []byte(`{"title":"Tap Water","base_price":0,"category":"drink"}`)
	w := doRequest(router, http.MethodPost, "/api/v1/branches/1/menu", accessToken(t, cfg, 2, true), body)
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}
