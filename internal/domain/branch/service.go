// internal/domain/branch/service.go
package branch

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/pizzamania/ordering-backend/internal/config"
	"github.com/pizzamania/ordering-backend/internal/pkg/geo"
)

// ErrBranchNotFound is returned when a branch lookup misses.
var ErrBranchNotFound = errors.New("branch not found")

// Service handles branch business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new branch service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// CreateBranchRequest represents branch creation data
type CreateBranchRequest struct {
	Name      string  `json:"name" binding:"required"`
	Address   string  `json:"address" binding:"required"`
	Phone     string  `json:"phone"`
	Active    *bool   `json:"active"`
	Latitude  float64 `json:"latitude" binding:"min=-90,max=90"`
	Longitude float64 `json:"longitude" binding:"min=-180,max=180"`
}

// NearestBranchResponse pairs a branch with its distance from the caller
type NearestBranchResponse struct {
	Branch     Branch  `json:"branch"`
	DistanceKm float64 `json:"distance_km"`
}

// List returns branches, optionally restricted to active ones.
func (s *Service) List(ctx context.Context, activeOnly bool) ([]Branch, error) {
	query := s.db.WithContext(ctx).Order("name ASC")
	if activeOnly {
		query = query.Where("active = ?", true)
	}

	var branches []Branch
	if err := query.Find(&branches).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve branches: %w", err)
	}
	return branches, nil
}

// Get returns one branch by id.
func (s *Service) Get(ctx context.Context, id uint) (*Branch, error) {
	var b Branch
	err := s.db.WithContext(ctx).First(&b, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBranchNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve branch: %w", err)
	}
	return &b, nil
}

// Nearest returns the active branch closest to the given coordinates.
func (s *Service) Nearest(ctx context.Context, from geo.Point) (*NearestBranchResponse, error) {
	branches, err := s.List(ctx, true)
	if err != nil {
		return nil, err
	}
	if len(branches) == 0 {
		return nil, ErrBranchNotFound
	}

	best := branches[0]
	bestDistance := geo.DistanceKm(from, best.Location())
	for _, b := range branches[1:] {
		if d := geo.DistanceKm(from, b.Location()); d < bestDistance {
			best = b
			bestDistance = d
		}
	}

	return &NearestBranchResponse{Branch: best, DistanceKm: bestDistance}, nil
}

// Create creates a new branch.
func (s *Service) Create(ctx context.Context, req *CreateBranchRequest) (*Branch, error) {
	b := Branch{
		Name:      req.Name,
		Address:   req.Address,
		Phone:     req.Phone,
		Active:    true,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	}
	if req.Active != nil {
		b.Active = *req.Active
	}

	if err := s.db.WithContext(ctx).Create(&b).Error; err != nil {
		return nil, fmt.Errorf("failed to create branch: %w", err)
	}
	return &b, nil
}

// Update overwrites a branch's settable fields.
func (s *Service) Update(ctx context.Context, id uint, req *CreateBranchRequest) (*Branch, error) {
	b, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	b.Name = req.Name
	b.Address = req.Address
	b.Phone = req.Phone
	b.Latitude = req.Latitude
	b.Longitude = req.Longitude
	if req.Active != nil {
		b.Active = *req.Active
	}

	if err := s.db.WithContext(ctx).Save(b).Error; err != nil {
		return nil, fmt.Errorf("failed to update branch: %w", err)
	}
	return b, nil
}

// Delete soft deletes a branch.
func (s *Service) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&Branch{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete branch: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrBranchNotFound
	}
	return nil
}
