// internal/domain/cart/service.go
package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/pizzamania/ordering-backend/internal/config"
	"gorm.io/gorm"
)

var (
	// ErrInvalidQuantity is returned when an add carries a non-positive quantity.
	ErrInvalidQuantity = errors.New("quantity must be positive")

	// ErrLineNotFound is returned when a quantity change targets a missing line.
	ErrLineNotFound = errors.New("cart line not found")

	// ErrDuplicateLine is returned when an insert hits the configuration
	// uniqueness constraint. It indicates a caller bypassed AddOrIncrement.
	ErrDuplicateLine = errors.New("duplicate cart line configuration")
)

// Service maintains per-branch cart lines with at-most-one-line-per-
// configuration and quantity accumulation. Mutations for the same cart are
// serialized with an in-process mutex so two near-simultaneous adds of the
// same configuration cannot both observe "absent" and insert twice.
type Service struct {
	db      *gorm.DB
	config  *config.Config
	hub     *watcherHub
	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

// NewService creates a new cart service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
		hub:    newWatcherHub(),
		locks:  make(map[string]*sync.Mutex),
	}
}

// AddLineRequest represents an add-to-cart request after price quoting
type AddLineRequest struct {
	ItemID    uint     `json:"item_id" binding:"required"`
	Name      string   `json:"name" binding:"required"`
	UnitPrice int64    `json:"unit_price" binding:"min=0"`
	Quantity  int      `json:"quantity" binding:"required,min=1"`
	ImageURL  string   `json:"image_url"`
	Size      string   `json:"size" binding:"required"`
	Extras    []string `json:"extras"`
}

// AddOrIncrement upserts a cart line keyed by (user, branch, item, size,
// extras). A missing line is inserted with the given quantity; an existing
// one gets its quantity incremented and its unit price refreshed to the
// newly quoted value (last write wins on price).
func (s *Service) AddOrIncrement(ctx context.Context, userID, branchID uint, req *AddLineRequest) error {
	if req.Quantity <= 0 {
		return ErrInvalidQuantity
	}

	descriptor := ExtrasDescriptor(req.Extras)

	lock := s.cartLock(userID, branchID)
	lock.Lock()
	defer lock.Unlock()

	var existing CartLine
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND branch_id = ? AND item_id = ? AND size = ? AND extras = ?",
			userID, branchID, req.ItemID, req.Size, descriptor).
		First(&existing).Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		line := CartLine{
			UserID:    userID,
			BranchID:  branchID,
			ItemID:    req.ItemID,
			Size:      req.Size,
			Extras:    descriptor,
			Name:      req.Name,
			UnitPrice: req.UnitPrice,
			Quantity:  req.Quantity,
			ImageURL:  req.ImageURL,
		}
		if err := s.db.WithContext(ctx).Create(&line).Error; err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: %v", ErrDuplicateLine, err)
			}
			return fmt.Errorf("failed to insert cart line: %w", err)
		}
	case err != nil:
		return fmt.Errorf("failed to look up cart line: %w", err)
	default:
		existing.Quantity += req.Quantity
		existing.UnitPrice = req.UnitPrice
		if err := s.db.WithContext(ctx).Save(&existing).Error; err != nil {
			return fmt.Errorf("failed to update cart line: %w", err)
		}
	}

	return s.publishSnapshot(ctx, userID, branchID)
}

// ChangeQuantity sets a line's quantity in place, deleting the line when the
// new quantity is zero or below. Repeated calls with the same target
// quantity are idempotent.
func (s *Service) ChangeQuantity(ctx context.Context, userID uint, lineID uint, newQuantity int) error {
	// The branch is only known after resolving the line, and the lock key
	// needs the branch; resolve it first, then repeat the read under the
	// lock so the quantity check never acts on a stale row.
	branchID, err := s.lineBranch(ctx, userID, lineID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if newQuantity <= 0 {
			// Deleting an already-deleted line stays idempotent
			return nil
		}
		return ErrLineNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to look up cart line: %w", err)
	}

	lock := s.cartLock(userID, branchID)
	lock.Lock()
	defer lock.Unlock()

	var line CartLine
	err = s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", lineID, userID).
		First(&line).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if newQuantity <= 0 {
			return nil
		}
		return ErrLineNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to look up cart line: %w", err)
	}

	if newQuantity <= 0 {
		if err := s.db.WithContext(ctx).Delete(&CartLine{}, line.ID).Error; err != nil {
			return fmt.Errorf("failed to delete cart line: %w", err)
		}
	} else if newQuantity != line.Quantity {
		if err := s.db.WithContext(ctx).Model(&CartLine{}).
			Where("id = ?", line.ID).
			Update("quantity", newQuantity).Error; err != nil {
			return fmt.Errorf("failed to update cart line quantity: %w", err)
		}
	}

	return s.publishSnapshot(ctx, userID, line.BranchID)
}

// lineBranch resolves the branch a cart line belongs to.
func (s *Service) lineBranch(ctx context.Context, userID, lineID uint) (uint, error) {
	var line CartLine
	err := s.db.WithContext(ctx).
		Select("branch_id").
		Where("id = ? AND user_id = ?", lineID, userID).
		First(&line).Error
	if err != nil {
		return 0, err
	}
	return line.BranchID, nil
}

// ClearBranch deletes every line in the user's cart for one branch. Used
// after successful order submission.
func (s *Service) ClearBranch(ctx context.Context, userID, branchID uint) error {
	lock := s.cartLock(userID, branchID)
	lock.Lock()
	defer lock.Unlock()

	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND branch_id = ?", userID, branchID).
		Delete(&CartLine{}).Error; err != nil {
		return fmt.Errorf("failed to clear branch cart: %w", err)
	}

	return s.publishSnapshot(ctx, userID, branchID)
}

// Lines returns the current cart snapshot for a branch, newest insert first.
func (s *Service) Lines(ctx context.Context, userID, branchID uint) ([]CartLine, error) {
	var lines []CartLine
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND branch_id = ?", userID, branchID).
		Order("id DESC").
		Find(&lines).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve cart lines: %w", err)
	}
	return lines, nil
}

// Observe streams full cart snapshots for a branch. The first snapshot is
// delivered immediately; every completed mutation afterwards produces a
// fresh one. The stream closes when ctx is cancelled.
//
// Registration, the initial read and its delivery all happen under the cart
// lock: no write can land between them, and the initial snapshot goes only
// to the new observer, so it can never displace a newer snapshot still
// buffered for an existing one.
func (s *Service) Observe(ctx context.Context, userID, branchID uint) (<-chan []CartLine, error) {
	lock := s.cartLock(userID, branchID)
	lock.Lock()
	defer lock.Unlock()

	sub := s.hub.Subscribe(ctx, userID, branchID)
	lines, err := s.Lines(ctx, userID, branchID)
	if err != nil {
		s.hub.unsubscribe(cartKey(userID, branchID), sub)
		return nil, err
	}

	s.hub.Deliver(userID, branchID, sub, lines)
	return sub.ch, nil
}

// publishSnapshot reloads the cart and notifies all active observers.
func (s *Service) publishSnapshot(ctx context.Context, userID, branchID uint) error {
	lines, err := s.Lines(ctx, userID, branchID)
	if err != nil {
		return err
	}
	s.hub.Publish(userID, branchID, lines)
	return nil
}

// cartLock returns the mutex serializing mutations for one (user, branch) cart.
func (s *Service) cartLock(userID, branchID uint) *sync.Mutex {
	key := cartKey(userID, branchID)

	s.locksMu.Lock()
	defer s.locksMu.Unlock()

	lock, ok := s.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[key] = lock
	}
	return lock
}

// isUniqueViolation reports whether the storage error came from the cart
// line configuration uniqueness constraint.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}
