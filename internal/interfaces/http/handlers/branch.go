// internal/interfaces/http/handlers/branch.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pizzamania/ordering-backend/internal/config"
	"github.com/pizzamania/ordering-backend/internal/domain/branch"
	"github.com/pizzamania/ordering-backend/internal/pkg/geo"
)

// BranchHandler handles branch endpoints
type BranchHandler struct {
	branchService *branch.Service
}

// NewBranchHandler creates a new branch handler
func NewBranchHandler(db *gorm.DB, cfg *config.Config) *BranchHandler {
	return &BranchHandler{
		branchService: branch.NewService(db, cfg),
	}
}

// List returns all branches. Non-admin callers only see active branches.
func (h *BranchHandler) List(c *gin.Context) {
	activeOnly := c.DefaultQuery("include_inactive", "false") != "true"

	branches, err := h.branchService.List(c.Request.Context(), activeOnly)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list branches",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Branches retrieved successfully",
		"data":    branches,
	})
}

// Get returns a single branch by ID
func (h *BranchHandler) Get(c *gin.Context) {
	branchID, ok := parseUintParam(c, "branchId")
	if !ok {
		return
	}

	b, err := h.branchService.Get(c.Request.Context(), branchID)
	if err != nil {
		if errors.Is(err, branch.ErrBranchNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Branch not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve branch"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Branch retrieved successfully",
		"data":    b,
	})
}

// Nearest returns the active branch closest to the given coordinates
func (h *BranchHandler) Nearest(c *gin.Context) {
	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid latitude"})
		return
	}

	lng, err := strconv.ParseFloat(c.Query("lng"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid longitude"})
		return
	}

	nearest, err := h.branchService.Nearest(c.Request.Context(), geo.Point{Latitude: lat, Longitude: lng})
	if err != nil {
		if errors.Is(err, branch.ErrBranchNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No active branches available"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to find nearest branch"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Nearest branch retrieved successfully",
		"data":    nearest,
	})
}

// Create creates a new branch (admin only)
func (h *BranchHandler) Create(c *gin.Context) {
	var req branch.CreateBranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	b, err := h.branchService.Create(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create branch"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Branch created successfully",
		"data":    b,
	})
}

// Update updates an existing branch (admin only)
func (h *BranchHandler) Update(c *gin.Context) {
	branchID, ok := parseUintParam(c, "branchId")
	if !ok {
		return
	}

	var req branch.CreateBranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	b, err := h.branchService.Update(c.Request.Context(), branchID, &req)
	if err != nil {
		if errors.Is(err, branch.ErrBranchNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Branch not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update branch"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Branch updated successfully",
		"data":    b,
	})
}

// Delete removes a branch (admin only)
func (h *BranchHandler) Delete(c *gin.Context) {
	branchID, ok := parseUintParam(c, "branchId")
	if !ok {
		return
	}

	if err := h.branchService.Delete(c.Request.Context(), branchID); err != nil {
		if errors.Is(err, branch.ErrBranchNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Branch not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete branch"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Branch deleted successfully",
	})
}

// parseUintParam parses a numeric path parameter, responding with 400 on failure
func parseUintParam(c *gin.Context, name string) (uint, bool) {
	value, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return uint(value), true
}
