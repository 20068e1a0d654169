// internal/domain/menu/service.go
package menu

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/pizzamania/ordering-backend/internal/config"
	"github.com/pizzamania/ordering-backend/internal/domain/pricing"
	"github.com/pizzamania/ordering-backend/internal/pkg/imageurl"
)

// ErrItemNotFound is returned when a menu item lookup misses.
var ErrItemNotFound = errors.New("menu item not found")

// Service handles menu business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new menu service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// UpsertItemRequest represents menu item create/update data
type UpsertItemRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description"`
	BasePrice   int64   `json:"base_price" binding:"min=0"`
	Category    string  `json:"category"`
	Available   *bool   `json:"available"`
	ImageURL    string  `json:"image_url"`
}

// QuoteRequest represents a price quote request for one configuration
type QuoteRequest struct {
	Size   string   `json:"size" binding:"required"`
	Extras []string `json:"extras"`
}

// QuoteResponse represents a computed unit price for a configuration
type QuoteResponse struct {
	ItemID    uint     `json:"item_id"`
	Size      string   `json:"size"`
	Extras    []string `json:"extras"`
	UnitPrice int64    `json:"unit_price"`
}

// ListByBranch returns a branch's menu, optionally restricted to items
// currently available for ordering.
func (s *Service) ListByBranch(ctx context.Context, branchID uint, availableOnly bool) ([]MenuItem, error) {
	query := s.db.WithContext(ctx).Where("branch_id = ?", branchID).Order("category ASC, title ASC")
	if availableOnly {
		query = query.Where("available = ?", true)
	}

	var items []MenuItem
	if err := query.Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve menu items: %w", err)
	}
	return items, nil
}

// Get returns one menu item scoped to its branch.
func (s *Service) Get(ctx context.Context, branchID, itemID uint) (*MenuItem, error) {
	var item MenuItem
	err := s.db.WithContext(ctx).
		Where("id = ? AND branch_id = ?", itemID, branchID).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve menu item: %w", err)
	}
	return &item, nil
}

// Quote computes the unit price for one item configuration using the
// configured size multipliers and per-extra surcharge.
func (s *Service) Quote(ctx context.Context, branchID, itemID uint, req *QuoteRequest) (*QuoteResponse, error) {
	item, err := s.Get(ctx, branchID, itemID)
	if err != nil {
		return nil, err
	}

	unitPrice, err := pricing.QuoteUnitPrice(
		item.BasePrice,
		req.Size,
		s.config.Pricing.SizeMultipliers,
		len(req.Extras),
		s.config.Pricing.ExtraSurcharge,
	)
	if err != nil {
		return nil, err
	}

	return &QuoteResponse{
		ItemID:    item.ID,
		Size:      req.Size,
		Extras:    req.Extras,
		UnitPrice: unitPrice,
	}, nil
}

// Create adds a menu item to a branch.
func (s *Service) Create(ctx context.Context, branchID uint, req *UpsertItemRequest) (*MenuItem, error) {
	item := MenuItem{
		BranchID:    branchID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		BasePrice:   req.BasePrice,
		Category:    normalizeCategory(req.Category),
		Available:   false,
		ImageURL:    imageurl.Normalize(req.ImageURL),
	}
	if item.Title == "" {
		item.Title = DefaultTitle
	}
	if req.Available != nil {
		item.Available = *req.Available
	}

	if err := s.db.WithContext(ctx).Create(&item).Error; err != nil {
		return nil, fmt.Errorf("failed to create menu item: %w", err)
	}
	return &item, nil
}

// Update overwrites a menu item's settable fields.
func (s *Service) Update(ctx context.Context, branchID, itemID uint, req *UpsertItemRequest) (*MenuItem, error) {
	item, err := s.Get(ctx, branchID, itemID)
	if err != nil {
		return nil, err
	}

	item.Title = strings.TrimSpace(req.Title)
	if item.Title == "" {
		item.Title = DefaultTitle
	}
	item.Description = req.Description
	item.BasePrice = req.BasePrice
	item.Category = normalizeCategory(req.Category)
	item.ImageURL = imageurl.Normalize(req.ImageURL)
	if req.Available != nil {
		item.Available = *req.Available
	}

	if err := s.db.WithContext(ctx).Save(item).Error; err != nil {
		return nil, fmt.Errorf("failed to update menu item: %w", err)
	}
	return item, nil
}

// Delete removes a menu item from a branch.
func (s *Service) Delete(ctx context.Context, branchID, itemID uint) error {
	result := s.db.WithContext(ctx).
		Where("branch_id = ?", branchID).
		Delete(&MenuItem{}, itemID)
	if result.Error != nil {
		return fmt.Errorf("failed to delete menu item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrItemNotFound
	}
	return nil
}

// ImportLegacyItems normalizes and inserts menu documents exported from the
// previous backend.
func (s *Service) ImportLegacyItems(ctx context.Context, branchID uint, docs []LegacyItemDocument) ([]MenuItem, error) {
	if len(docs) == 0 {
		return nil, nil
	}

	items := make([]MenuItem, len(docs))
	for i, doc := range docs {
		items[i] = NormalizeLegacyItem(branchID, doc)
	}

	if err := s.db.WithContext(ctx).Create(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to import menu items: %w", err)
	}
	return items, nil
}

func normalizeCategory(category string) string {
	normalized := strings.ToLower(strings.TrimSpace(category))
	if normalized == "" {
		return DefaultCategory
	}
	return normalized
}
