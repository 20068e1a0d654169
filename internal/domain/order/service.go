// internal/domain/order/service.go
package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pizzamania/ordering-backend/internal/config"
	"github.com/pizzamania/ordering-backend/internal/domain/cart"
	"github.com/pizzamania/ordering-backend/internal/domain/pricing"
	"github.com/pizzamania/ordering-backend/internal/domain/user"
)

var (
	// ErrOrderNotFound is returned when an order lookup misses.
	ErrOrderNotFound = errors.New("order not found")

	// ErrEmptyCart is returned when checkout finds no cart lines.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrInvalidTransition is returned for disallowed status changes.
	ErrInvalidTransition = errors.New("invalid order status transition")
)

// StatusNotifier publishes order status changes to interested trackers.
type StatusNotifier interface {
	PublishStatus(ctx context.Context, update StatusUpdate) error
}

// Service handles order business logic
type Service struct {
	db          *gorm.DB
	config      *config.Config
	cartService *cart.Service
	userService *user.Service
	notifier    StatusNotifier
}

// NewService creates a new order service
func NewService(db *gorm.DB, cfg *config.Config, cartService *cart.Service, userService *user.Service, notifier StatusNotifier) *Service {
	return &Service{
		db:          db,
		config:      cfg,
		cartService: cartService,
		userService: userService,
		notifier:    notifier,
	}
}

// PlaceOrderRequest represents checkout confirmation data
type PlaceOrderRequest struct {
	BranchID uint   `json:"branch_id" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone" binding:"required"`
	Address  string `json:"address" binding:"required"`
	Notes    string `json:"notes"`
}

// UpdateStatusRequest represents an admin status change
type UpdateStatusRequest struct {
	Status OrderStatus `json:"status" binding:"required"`
}

// ListRequest represents order list query parameters
type ListRequest struct {
	Page     int         `form:"page,default=1"`
	Limit    int         `form:"limit,default=20"`
	Status   OrderStatus `form:"status"`
	BranchID uint        `form:"branch_id"`
}

// ListResponse represents an order page with pagination
type ListResponse struct {
	Orders     []Order    `json:"orders"`
	Pagination Pagination `json:"pagination"`
}

// Pagination represents pagination information
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// PlaceFromCart snapshots the user's branch cart into an order. Totals are
// recomputed server-side from the current lines, the order and its items are
// written in one transaction, and the branch cart is cleared afterwards.
func (s *Service) PlaceFromCart(ctx context.Context, userID uint, req *PlaceOrderRequest) (*Order, error) {
	lines, err := s.cartService.Lines(ctx, userID, req.BranchID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart for checkout: %w", err)
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	priceLines := make([]pricing.Line, len(lines))
	for i, line := range lines {
		priceLines[i] = pricing.Line{UnitPrice: line.UnitPrice, Quantity: line.Quantity}
	}
	totals := pricing.ComputeTotals(priceLines, s.config.Pricing.FreeDeliveryThreshold, s.config.Pricing.DeliveryFee)

	now := time.Now().UTC()
	o := Order{
		OrderNumber: newOrderNumber(),
		UserID:      userID,
		BranchID:    req.BranchID,
		Status:      OrderStatusPlaced,
		Subtotal:    totals.Subtotal,
		DeliveryFee: totals.DeliveryFee,
		Total:       totals.Total,
		Delivery: DeliveryDetails{
			Name:    req.Name,
			Phone:   req.Phone,
			Address: req.Address,
		},
		Notes:    req.Notes,
		PlacedAt: now,
	}

	for _, line := range lines {
		o.Items = append(o.Items, OrderItem{
			ItemID:    line.ItemID,
			Title:     lineTitle(line.Name, line.Size, line.Extras),
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
			Total:     line.UnitPrice * int64(line.Quantity),
		})
	}

	if err := s.db.WithContext(ctx).Create(&o).Error; err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	// The cart is only cleared once the order is durably stored
	if err := s.cartService.ClearBranch(ctx, userID, req.BranchID); err != nil {
		return nil, fmt.Errorf("order %s created but cart cleanup failed: %w", o.OrderNumber, err)
	}

	// Keep the delivery profile up to date for the next checkout
	if s.userService != nil {
		if err := s.userService.SaveProfileIfChanged(ctx, userID, req.Name, req.Phone, req.Address); err != nil {
			return nil, fmt.Errorf("order %s created but profile update failed: %w", o.OrderNumber, err)
		}
	}

	s.notifyStatus(ctx, o.ID, o.Status)
	return &o, nil
}

// Get returns one order with its items. Non-admin callers only see their own.
func (s *Service) Get(ctx context.Context, orderID uint, userID uint, isAdmin bool) (*Order, error) {
	query := s.db.WithContext(ctx).Preload("Items")
	if !isAdmin {
		query = query.Where("user_id = ?", userID)
	}

	var o Order
	err := query.First(&o, orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve order: %w", err)
	}
	return &o, nil
}

// ListByUser returns the user's orders, newest first.
func (s *Service) ListByUser(ctx context.Context, userID uint, req *ListRequest) (*ListResponse, error) {
	return s.list(ctx, req, func(query *gorm.DB) *gorm.DB {
		return query.Where("user_id = ?", userID)
	})
}

// ListAll returns every order for the admin dashboard, newest first.
func (s *Service) ListAll(ctx context.Context, req *ListRequest) (*ListResponse, error) {
	return s.list(ctx, req, func(query *gorm.DB) *gorm.DB { return query })
}

func (s *Service) list(ctx context.Context, req *ListRequest, scope func(*gorm.DB) *gorm.DB) (*ListResponse, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	limit := req.Limit
	if limit < 1 || limit > 100 {
		limit = 20
	}

	query := scope(s.db.WithContext(ctx).Model(&Order{}))
	if req.Status != "" {
		if !req.Status.IsValid() {
			return nil, fmt.Errorf("unknown order status %q", req.Status)
		}
		query = query.Where("status = ?", req.Status)
	}
	if req.BranchID != 0 {
		query = query.Where("branch_id = ?", req.BranchID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	var orders []Order
	err := query.Preload("Items").
		Order("placed_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve orders: %w", err)
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &ListResponse{
		Orders: orders,
		Pagination: Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
		},
	}, nil
}

// UpdateStatus moves an order along its lifecycle and notifies trackers.
func (s *Service) UpdateStatus(ctx context.Context, orderID uint, next OrderStatus) (*Order, error) {
	if !next.IsValid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, next)
	}

	var o Order
	err := s.db.WithContext(ctx).Preload("Items").First(&o, orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve order: %w", err)
	}

	if !o.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, next)
	}

	o.Status = next
	if err := s.db.WithContext(ctx).Model(&Order{}).
		Where("id = ?", o.ID).
		Update("status", next).Error; err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	s.notifyStatus(ctx, o.ID, next)
	return &o, nil
}

func (s *Service) notifyStatus(ctx context.Context, orderID uint, status OrderStatus) {
	if s.notifier == nil {
		return
	}
	// Tracking is best effort; a failed publish never fails the mutation
	_ = s.notifier.PublishStatus(ctx, StatusUpdate{
		OrderID:   orderID,
		Status:    status,
		UpdatedAt: time.Now().UTC(),
	})
}

// newOrderNumber produces a short human-readable order reference.
func newOrderNumber() string {
	return "PM-" + strings.ToUpper(uuid.New().String()[:8])
}
