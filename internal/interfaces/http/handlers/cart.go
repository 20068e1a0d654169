// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pizzamania/ordering-backend/internal/config"
	"github.com/pizzamania/ordering-backend/internal/domain/cart"
	"github.com/pizzamania/ordering-backend/internal/domain/pricing"
	"github.com/pizzamania/ordering-backend/internal/interfaces/http/middleware"
)

// CartHandler handles per-branch cart endpoints
type CartHandler struct {
	cartService *cart.Service
	config      *config.Config
}

// NewCartHandler creates a new cart handler
func NewCartHandler(db *gorm.DB, cfg *config.Config) *CartHandler {
	return &CartHandler{
		cartService: cart.NewService(db, cfg),
		config:      cfg,
	}
}

// Service exposes the underlying cart service for wiring into checkout
func (h *CartHandler) Service() *cart.Service {
	return h.cartService
}

// Get returns the current cart snapshot for a branch together with totals
func (h *CartHandler) Get(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	branchID, ok := parseUintParam(c, "branchId")
	if !ok {
		return
	}

	lines, err := h.cartService.Lines(c.Request.Context(), userID, branchID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart retrieved successfully",
		"data": gin.H{
			"lines":  lines,
			"totals": h.totals(lines),
		},
	})
}

// AddLine adds a configured item to the branch cart, merging into an
// existing line when the configuration already exists
func (h *CartHandler) AddLine(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	branchID, ok := parseUintParam(c, "branchId")
	if !ok {
		return
	}

	var req cart.AddLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	if err := h.cartService.AddOrIncrement(c.Request.Context(), userID, branchID, &req); err != nil {
		switch {
		case errors.Is(err, cart.ErrInvalidQuantity):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Quantity must be positive"})
		case errors.Is(err, cart.ErrDuplicateLine):
			c.JSON(http.StatusConflict, gin.H{"error": "Cart line was modified concurrently, retry"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add item to cart"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item added to cart successfully",
	})
}

// ChangeQuantity sets the quantity of a cart line. A quantity of zero or
// less removes the line.
func (h *CartHandler) ChangeQuantity(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	lineID, ok := parseUintParam(c, "lineId")
	if !ok {
		return
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	if err := h.cartService.ChangeQuantity(c.Request.Context(), userID, lineID, req.Quantity); err != nil {
		if errors.Is(err, cart.ErrLineNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cart line not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart line"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart line updated successfully",
	})
}

// Clear removes every line of the branch cart
func (h *CartHandler) Clear(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	branchID, ok := parseUintParam(c, "branchId")
	if !ok {
		return
	}

	if err := h.cartService.ClearBranch(c.Request.Context(), userID, branchID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart cleared successfully",
	})
}

// Stream pushes cart snapshots over server-sent events. The first event is
// the current cart; later events follow each mutation until the client
// disconnects.
func (h *CartHandler) Stream(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	branchID, ok := parseUintParam(c, "branchId")
	if !ok {
		return
	}

	snapshots, err := h.cartService.Observe(c.Request.Context(), userID, branchID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open cart stream"})
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		snapshot, open := <-snapshots
		if !open {
			return false
		}
		c.SSEvent("cart", gin.H{
			"lines":  snapshot,
			"totals": h.totals(snapshot),
		})
		return true
	})
}

func (h *CartHandler) totals(lines []cart.CartLine) pricing.OrderTotals {
	priced := make([]pricing.Line, 0, len(lines))
	for _, line := range lines {
		priced = append(priced, pricing.Line{UnitPrice: line.UnitPrice, Quantity: line.Quantity})
	}
	return pricing.ComputeTotals(priced, h.config.Pricing.FreeDeliveryThreshold, h.config.Pricing.DeliveryFee)
}
