// internal/interfaces/http/routes/routes.go
package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/pizzamania/ordering-backend/internal/config"
	"github.com/pizzamania/ordering-backend/internal/domain/order"
	"github.com/pizzamania/ordering-backend/internal/interfaces/http/handlers"
	"github.com/pizzamania/ordering-backend/internal/interfaces/http/middleware"
)

// requestTimeout bounds every non-streaming request. The SSE endpoints stay
// outside it: their connections are meant to outlive any sane timeout.
const requestTimeout = 30 * time.Second

// SetupRoutes wires every API route group
func SetupRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {
	authHandler := handlers.NewAuthHandler(db, cfg)
	branchHandler := handlers.NewBranchHandler(db, cfg)
	menuHandler := handlers.NewMenuHandler(db, cfg)
	cartHandler := handlers.NewCartHandler(db, cfg)

	tracker := order.NewTracker(redisClient)
	orderHandler := handlers.NewOrderHandler(db, cfg, cartHandler.Service(), tracker)

	setupAuthRoutes(rg, authHandler, cfg)
	setupBranchRoutes(rg, branchHandler, menuHandler, cartHandler, cfg)
	setupOrderRoutes(rg, orderHandler, cfg)
	setupAdminRoutes(rg, branchHandler, menuHandler, orderHandler, cfg)
}

// setupAuthRoutes sets up authentication related routes
func setupAuthRoutes(rg *gin.RouterGroup, authHandler *handlers.AuthHandler, cfg *config.Config) {
	auth := rg.Group("/auth", middleware.Timeout(requestTimeout))
	{
		// Public auth endpoints
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.RefreshToken)

		// Protected auth endpoints
		protected := auth.Group("")
		protected.Use(middleware.AuthMiddleware(cfg))
		{
			protected.POST("/logout", authHandler.Logout)
			protected.GET("/validate", authHandler.ValidateToken)
			protected.GET("/profile", authHandler.GetProfile)
			protected.PUT("/profile", authHandler.UpdateProfile)
		}
	}
}

// setupBranchRoutes sets up branch, menu and cart routes
func setupBranchRoutes(rg *gin.RouterGroup, branchHandler *handlers.BranchHandler, menuHandler *handlers.MenuHandler, cartHandler *handlers.CartHandler, cfg *config.Config) {
	branches := rg.Group("/branches")

	// Public discovery and menu endpoints; optional auth for personalization
	public := branches.Group("", middleware.OptionalAuthMiddleware(cfg), middleware.Timeout(requestTimeout))
	{
		public.GET("", branchHandler.List)
		public.GET("/nearest", branchHandler.Nearest)
		public.GET("/:branchId", branchHandler.Get)

		public.GET("/:branchId/menu", menuHandler.List)
		public.GET("/:branchId/menu/:itemId", menuHandler.Get)
		public.POST("/:branchId/menu/:itemId/quote", menuHandler.Quote)
	}

	// Cart endpoints require authentication
	carts := branches.Group("/:branchId/cart", middleware.AuthMiddleware(cfg))
	{
		// Snapshot stream: long-lived, no request timeout
		carts.GET("/stream", cartHandler.Stream)

		timed := carts.Group("", middleware.Timeout(requestTimeout))
		{
			timed.GET("", cartHandler.Get)
			timed.POST("/lines", cartHandler.AddLine)
			timed.PUT("/lines/:lineId", cartHandler.ChangeQuantity)
			timed.DELETE("", cartHandler.Clear)
		}
	}
}

// setupOrderRoutes sets up checkout and order tracking routes
func setupOrderRoutes(rg *gin.RouterGroup, orderHandler *handlers.OrderHandler, cfg *config.Config) {
	orders := rg.Group("/orders", middleware.AuthMiddleware(cfg))
	{
		// Status stream: long-lived, no request timeout
		orders.GET("/:orderId/track", orderHandler.Track)

		timed := orders.Group("", middleware.Timeout(requestTimeout))
		{
			timed.POST("/checkout", orderHandler.Checkout)
			timed.GET("", orderHandler.List)
			timed.GET("/:orderId", orderHandler.Get)
		}
	}
}

// setupAdminRoutes sets up admin-only management routes
func setupAdminRoutes(rg *gin.RouterGroup, branchHandler *handlers.BranchHandler, menuHandler *handlers.MenuHandler, orderHandler *handlers.OrderHandler, cfg *config.Config) {
	admin := rg.Group("/admin", middleware.Timeout(requestTimeout))
	admin.Use(middleware.AuthMiddleware(cfg))
	admin.Use(middleware.AdminMiddleware())
	{
		// Branch management
		admin.POST("/branches", branchHandler.Create)
		admin.PUT("/branches/:branchId", branchHandler.Update)
		admin.DELETE("/branches/:branchId", branchHandler.Delete)

		// Menu management
		admin.POST("/branches/:branchId/menu", menuHandler.Create)
		admin.POST("/branches/:branchId/menu/import", menuHandler.ImportLegacy)
		admin.PUT("/branches/:branchId/menu/:itemId", menuHandler.Update)
		admin.DELETE("/branches/:branchId/menu/:itemId", menuHandler.Delete)

		// Order management
		admin.GET("/orders", orderHandler.AdminList)
		admin.PUT("/orders/:orderId/status", orderHandler.UpdateStatus)
	}
}
