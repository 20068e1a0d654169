// internal/domain/branch/entity.go
package branch

import (
	"time"

	"gorm.io/gorm"

	"github.com/pizzamania/ordering-backend/internal/pkg/geo"
)

// Branch represents a store location. Carts, menus and orders are scoped
// per branch.
type Branch struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"not null;size:255" json:"name"`
	Address   string         `gorm:"size:500" json:"address"`
	Phone     string         `gorm:"size:20" json:"phone"`
	Active    bool           `gorm:"default:true" json:"active"`
	Latitude  float64        `json:"latitude"`
	Longitude float64        `json:"longitude"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides the table name
func (Branch) TableName() string {
	return "branches"
}

// Location returns the branch coordinates as a geo point.
func (b *Branch) Location() geo.Point {
	return geo.Point{Latitude: b.Latitude, Longitude: b.Longitude}
}
