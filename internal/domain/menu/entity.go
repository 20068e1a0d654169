// internal/domain/menu/entity.go
package menu

import (
	"time"

	"gorm.io/gorm"
)

// Default values applied when legacy menu documents omit fields
const (
	DefaultTitle    = "Untitled"
	DefaultCategory = "pizza"
)

// MenuItem represents one orderable item on a branch menu. BasePrice is in
// cents; the displayed unit price is derived from it by the pricing rules
// (size multiplier plus per-extra surcharge).
type MenuItem struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	BranchID    uint           `gorm:"not null;index" json:"branch_id"`
	Title       string         `gorm:"not null;size:255" json:"title"`
	Description string         `gorm:"size:1000" json:"description"`
	BasePrice   int64          `gorm:"not null" json:"base_price"`
	Category    string         `gorm:"not null;size:50;default:'pizza'" json:"category"`
	Available   bool           `gorm:"default:false" json:"available"`
	ImageURL    string         `gorm:"size:500" json:"image_url"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides the table name
func (MenuItem) TableName() string {
	return "menu_items"
}
