// internal/interfaces/http/handlers/menu.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pizzamania/ordering-backend/internal/config"
	"github.com/pizzamania/ordering-backend/internal/domain/menu"
	"github.com/pizzamania/ordering-backend/internal/domain/pricing"
)

// MenuHandler handles per-branch menu endpoints
type MenuHandler struct {
	menuService *menu.Service
}

// NewMenuHandler creates a new menu handler
func NewMenuHandler(db *gorm.DB, cfg *config.Config) *MenuHandler {
	return &MenuHandler{
		menuService: menu.NewService(db, cfg),
	}
}

// List returns the menu of a branch. Non-admin callers only see available items.
func (h *MenuHandler) List(c *gin.Context) {
	branchID, ok := parseUintParam(c, "branchId")
	if !ok {
		return
	}

	availableOnly := c.DefaultQuery("include_unavailable", "false") != "true"

	items, err := h.menuService.ListByBranch(c.Request.Context(), branchID, availableOnly)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list menu items"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Menu retrieved successfully",
		"data":    items,
	})
}

// Get returns a single menu item
func (h *MenuHandler) Get(c *gin.Context) {
	branchID, ok := parseUintParam(c, "branchId")
	if !ok {
		return
	}
	itemID, ok := parseUintParam(c, "itemId")
	if !ok {
		return
	}

	item, err := h.menuService.Get(c.Request.Context(), branchID, itemID)
	if err != nil {
		if errors.Is(err, menu.ErrItemNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Menu item not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve menu item"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Menu item retrieved successfully",
		"data":    item,
	})
}

// Quote prices one configuration of a menu item (size plus extras)
func (h *MenuHandler) Quote(c *gin.Context) {
	branchID, ok := parseUintParam(c, "branchId")
	if !ok {
		return
	}
	itemID, ok := parseUintParam(c, "itemId")
	if !ok {
		return
	}

	var req menu.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	quote, err := h.menuService.Quote(c.Request.Context(), branchID, itemID, &req)
	if err != nil {
		switch {
		case errors.Is(err, menu.ErrItemNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Menu item not found"})
		case errors.Is(err, pricing.ErrUnknownSize):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown size label"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute quote"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Quote computed successfully",
		"data":    quote,
	})
}

// Create adds a menu item to a branch (admin only)
func (h *MenuHandler) Create(c *gin.Context) {
	branchID, ok := parseUintParam(c, "branchId")
	if !ok {
		return
	}

	var req menu.UpsertItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	item, err := h.menuService.Create(c.Request.Context(), branchID, &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create menu item"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Menu item created successfully",
		"data":    item,
	})
}

// Update modifies a menu item (admin only)
func (h *MenuHandler) Update(c *gin.Context) {
	branchID, ok := parseUintParam(c, "branchId")
	if !ok {
		return
	}
	itemID, ok := parseUintParam(c, "itemId")
	if !ok {
		return
	}

	var req menu.UpsertItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	item, err := h.menuService.Update(c.Request.Context(), branchID, itemID, &req)
	if err != nil {
		if errors.Is(err, menu.ErrItemNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Menu item not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update menu item"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Menu item updated successfully",
		"data":    item,
	})
}

// Delete removes a menu item (admin only)
func (h *MenuHandler) Delete(c *gin.Context) {
	branchID, ok := parseUintParam(c, "branchId")
	if !ok {
		return
	}
	itemID, ok := parseUintParam(c, "itemId")
	if !ok {
		return
	}

	if err := h.menuService.Delete(c.Request.Context(), branchID, itemID); err != nil {
		if errors.Is(err, menu.ErrItemNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Menu item not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete menu item"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Menu item deleted successfully",
	})
}

// ImportLegacy bulk-imports menu documents exported from the legacy store,
// normalizing field aliases and defaults before insert (admin only)
func (h *MenuHandler) ImportLegacy(c *gin.Context) {
	branchID, ok := parseUintParam(c, "branchId")
	if !ok {
		return
	}

	var docs []menu.LegacyItemDocument
	if err := c.ShouldBindJSON(&docs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	items, err := h.menuService.ImportLegacyItems(c.Request.Context(), branchID, docs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to import menu items"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Menu items imported successfully",
		"data":    items,
	})
}
