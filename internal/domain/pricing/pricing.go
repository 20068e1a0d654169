// internal/domain/pricing/pricing.go
package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrUnknownSize is returned when a size label has no multiplier entry.
var ErrUnknownSize = fmt.Errorf("unknown size label")

// Line is the minimal view of a cart line needed for totals.
type Line struct {
	UnitPrice int64 `json:"unit_price"` // In cents
	Quantity  int   `json:"quantity"`
}

// OrderTotals represents aggregate amounts for a checkout snapshot
type OrderTotals struct {
	Subtotal    int64 `json:"subtotal"`
	DeliveryFee int64 `json:"delivery_fee"`
	Total       int64 `json:"total"`
}

// QuoteUnitPrice computes the unit price in cents for one configured item:
// base price scaled by the size multiplier plus a flat surcharge per selected
// extra, rounded half-up to whole cents.
func QuoteUnitPrice(basePrice int64, sizeLabel string, sizeMultipliers map[string]float64, extrasCount int, extraSurcharge int64) (int64, error) {
	if basePrice < 0 {
		return 0, fmt.Errorf("base price cannot be negative")
	}
	if extrasCount < 0 {
		return 0, fmt.Errorf("extras count cannot be negative")
	}
	if extraSurcharge < 0 {
		return 0, fmt.Errorf("extra surcharge cannot be negative")
	}

	multiplier, ok := sizeMultipliers[sizeLabel]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownSize, sizeLabel)
	}
	if multiplier <= 0 {
		return 0, fmt.Errorf("size multiplier for %q must be positive", sizeLabel)
	}

	base := decimal.NewFromInt(basePrice)
	extras := decimal.NewFromInt(extraSurcharge).Mul(decimal.NewFromInt(int64(extrasCount)))

	unit := base.Mul(decimal.NewFromFloat(multiplier)).Add(extras)

	// Round half-up to whole cents
	return unit.Round(0).IntPart(), nil
}

// ComputeTotals derives subtotal, delivery fee and total for a set of cart
// lines. The delivery fee is waived for empty carts and for subtotals at or
// above the free-delivery threshold (inclusive bound).
func ComputeTotals(lines []Line, freeDeliveryThreshold, deliveryFee int64) OrderTotals {
	var subtotal int64
	for _, line := range lines {
		subtotal += line.UnitPrice * int64(line.Quantity)
	}

	fee := int64(0)
	if len(lines) > 0 && subtotal < freeDeliveryThreshold {
		fee = deliveryFee
	}

	return OrderTotals{
		Subtotal:    subtotal,
		DeliveryFee: fee,
		Total:       subtotal + fee,
	}
}
