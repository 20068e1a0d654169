// internal/domain/order/entity.go
package order

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// OrderStatus represents the order status
type OrderStatus string

const (
	OrderStatusPlaced         OrderStatus = "placed"
	OrderStatusPreparing      OrderStatus = "preparing"
	OrderStatusOutForDelivery OrderStatus = "out_for_delivery"
	OrderStatusDelivered      OrderStatus = "delivered"
	OrderStatusCancelled      OrderStatus = "cancelled"
)

// validTransitions maps each status to the statuses it may move to.
// Regressions are rejected; cancellation is only possible before the order
// leaves the kitchen.
var validTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPlaced:         {OrderStatusPreparing, OrderStatusCancelled},
	OrderStatusPreparing:      {OrderStatusOutForDelivery, OrderStatusCancelled},
	OrderStatusOutForDelivery: {OrderStatusDelivered},
	OrderStatusDelivered:      {},
	OrderStatusCancelled:      {},
}

// IsValid reports whether the status is one of the known values.
func (s OrderStatus) IsValid() bool {
	_, ok := validTransitions[s]
	return ok
}

// CanTransitionTo reports whether the status may move to next.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// DeliveryDetails holds the recipient information captured at checkout
type DeliveryDetails struct {
	Name    string `gorm:"size:255" json:"name"`
	Phone   string `gorm:"size:20" json:"phone"`
	Address string `gorm:"size:500" json:"address"`
}

// Order represents a placed order, snapshotted from the branch cart at
// checkout time.
type Order struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	OrderNumber string      `gorm:"uniqueIndex;not null;size:50" json:"order_number"`
	UserID      uint        `gorm:"not null;index" json:"user_id"`
	BranchID    uint        `gorm:"not null;index" json:"branch_id"`
	Status      OrderStatus `gorm:"not null;default:'placed'" json:"status"`

	// Amounts in cents
	Subtotal    int64 `gorm:"not null" json:"subtotal"`
	DeliveryFee int64 `gorm:"default:0" json:"delivery_fee"`
	Total       int64 `gorm:"not null" json:"total"`

	Delivery DeliveryDetails `gorm:"embedded;embeddedPrefix:delivery_" json:"delivery"`
	Notes    string          `gorm:"type:text" json:"notes,omitempty"`

	PlacedAt  time.Time      `json:"placed_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
}

// OrderItem represents one line of a placed order. Title carries the full
// configuration, e.g. "Margherita (L) + cheese,olives".
type OrderItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OrderID   uint      `gorm:"not null;index" json:"order_id"`
	ItemID    uint      `gorm:"not null;index" json:"item_id"`
	Title     string    `gorm:"not null;size:500" json:"title"`
	UnitPrice int64     `gorm:"not null" json:"unit_price"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	Total     int64     `gorm:"not null" json:"total"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName overrides
func (Order) TableName() string     { return "orders" }
func (OrderItem) TableName() string { return "order_items" }

// StatusUpdate is the payload published when an order changes status.
type StatusUpdate struct {
	OrderID   uint        `json:"order_id"`
	Status    OrderStatus `json:"status"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// lineTitle renders a cart line configuration into an order item title.
func lineTitle(name, size, extras string) string {
	title := fmt.Sprintf("%s (%s)", name, size)
	if extras != "" {
		title += " + " + extras
	}
	return title
}
