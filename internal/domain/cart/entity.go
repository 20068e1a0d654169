// internal/domain/cart/entity.go
package cart

import (
	"sort"
	"strings"
	"time"
)

// CartLine represents one distinct orderable configuration in a branch cart.
// At most one line exists per (user, branch, item, size, extras) tuple; the
// composite unique index backs that invariant at the storage layer.
type CartLine struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_cart_line_config" json:"user_id"`
	BranchID  uint      `gorm:"not null;uniqueIndex:idx_cart_line_config" json:"branch_id"`
	ItemID    uint      `gorm:"not null;uniqueIndex:idx_cart_line_config" json:"item_id"`
	Size      string    `gorm:"not null;size:20;uniqueIndex:idx_cart_line_config" json:"size"`
	Extras    string    `gorm:"size:500;default:'';uniqueIndex:idx_cart_line_config" json:"extras"`
	Name      string    `gorm:"not null;size:255" json:"name"`
	UnitPrice int64     `gorm:"not null" json:"unit_price"` // In cents, last quoted value wins
	Quantity  int       `gorm:"not null" json:"quantity"`
	ImageURL  string    `gorm:"size:500" json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name
func (CartLine) TableName() string {
	return "cart_lines"
}

// ExtrasDescriptor canonicalizes a set of selected extras into the string
// used as part of the line identity key. Extras are trimmed, de-duplicated,
// sorted and comma-joined so selection order cannot split cart lines.
func ExtrasDescriptor(extras []string) string {
	seen := make(map[string]bool, len(extras))
	cleaned := make([]string, 0, len(extras))
	for _, extra := range extras {
		trimmed := strings.TrimSpace(extra)
		if trimmed == "" || seen[trimmed] {
			continue
		}
		seen[trimmed] = true
		cleaned = append(cleaned, trimmed)
	}

	sort.Strings(cleaned)
	return strings.Join(cleaned, ",")
}

// ExtrasCount returns the number of extras encoded in a descriptor.
func ExtrasCount(descriptor string) int {
	if descriptor == "" {
		return 0
	}
	return len(strings.Split(descriptor, ","))
}
