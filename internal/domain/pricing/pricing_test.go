// internal/domain/pricing/pricing_test.go
package pricing

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testMultipliers = map[string]float64{"S": 0.90, "M": 1.00, "L": 1.20}

func TestQuoteUnitPrice(t *testing.T) {
	tests := []struct {
		name        string
		basePrice   int64
		size        string
		extrasCount int
		surcharge   int64
		want        int64
	}{
		{"large with two extras", 1000, "L", 2, 80, 1360},
		{"medium no extras", 500, "M", 0, 80, 500},
		{"small rounds half up", 999, "S", 0, 80, 899}, // 899.1 -> 899
		{"half cent rounds up", 25, "S", 0, 80, 23},    // 22.5 -> 23
		{"zero base price", 0, "M", 3, 80, 240},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := QuoteUnitPrice(tt.basePrice, tt.size, testMultipliers, tt.extrasCount, tt.surcharge)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestQuoteUnitPriceIsDeterministic(t *testing.T) {
	first, err := QuoteUnitPrice(1337, "L", testMultipliers, 5, 80)
	require.NoError(t, err)

	second, err := QuoteUnitPrice(1337, "L", testMultipliers, 5, 80)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.GreaterOrEqual(t, first, int64(0))
}

func TestQuoteUnitPriceUnknownSize(t *testing.T) {
	_, err := QuoteUnitPrice(1000, "XL", testMultipliers, 0, 80)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownSize))
}

func TestQuoteUnitPriceRejectsNegativeInputs(t *testing.T) {
	_, err := QuoteUnitPrice(-1, "M", testMultipliers, 0, 80)
	assert.Error(t, err)

	_, err = QuoteUnitPrice(100, "M", testMultipliers, -1, 80)
	assert.Error(t, err)

	_, err = QuoteUnitPrice(100, "M", testMultipliers, 0, -80)
	assert.Error(t, err)
}

func TestComputeTotalsEmptyCart(t *testing.T) {
	totals := ComputeTotals(nil, 3000, 250)
	assert.Equal(t, OrderTotals{Subtotal: 0, DeliveryFee: 0, Total: 0}, totals)
}

func TestComputeTotalsBelowThreshold(t *testing.T) {
	lines := []Line{
		{UnitPrice: 500, Quantity: 2},
		{UnitPrice: 300, Quantity: 1},
		{UnitPrice: 1200, Quantity: 1},
	}

	totals := ComputeTotals(lines, 3000, 250)
	assert.Equal(t, int64(2500), totals.Subtotal)
	assert.Equal(t, int64(250), totals.DeliveryFee)
	assert.Equal(t, int64(2750), totals.Total)
}

func TestComputeTotalsThresholdIsInclusive(t *testing.T) {
	lines := []Line{
		{UnitPrice: 500, Quantity: 3},
		{UnitPrice: 300, Quantity: 1},
		{UnitPrice: 1200, Quantity: 1},
	}

	totals := ComputeTotals(lines, 3000, 250)
	assert.Equal(t, int64(3000), totals.Subtotal)
	assert.Equal(t, int64(0), totals.DeliveryFee)
	assert.Equal(t, int64(3000), totals.Total)
}

func TestComputeTotalsAboveThreshold(t *testing.T) {
	lines := []Line{{UnitPrice: 4000, Quantity: 1}}

	totals := ComputeTotals(lines, 3000, 250)
	assert.Equal(t, int64(4000), totals.Subtotal)
	assert.Equal(t, int64(0), totals.DeliveryFee)
	assert.Equal(t, int64(4000), totals.Total)
}
