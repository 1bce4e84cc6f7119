package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleLines() []Line {
	return []Line{
		{Name: "Kopi Sachet", UnitPrice: 10000, Quantity: 2},
		{Name: "Gula 1kg", UnitPrice: 5000, Quantity: 1},
	}
}

func TestComputePricing(t *testing.T) {
	tests := []struct {
		name     string
		lines    []Line
		spec     DiscountSpec
		expected Pricing
	}{
		{
			name:     "no discount",
			lines:    sampleLines(),
			spec:     NoDiscount,
			expected: Pricing{Subtotal: 25000, Discount: 0, Total: 25000},
		},
		{
			name:     "ten percent",
			lines:    sampleLines(),
			spec:     DiscountSpec{Kind: DiscountPercent, Value: 10},
			expected: Pricing{Subtotal: 25000, Discount: 2500, Total: 22500},
		},
		{
			name:     "fixed amount",
			lines:    sampleLines(),
			spec:     DiscountSpec{Kind: DiscountFixed, Value: 4000},
			expected: Pricing{Subtotal: 25000, Discount: 4000, Total: 21000},
		},
		{
			name:     "fixed exceeding subtotal clamps to free order",
			lines:    sampleLines(),
			spec:     DiscountSpec{Kind: DiscountFixed, Value: 30000},
			expected: Pricing{Subtotal: 25000, Discount: 25000, Total: 0},
		},
		{
			name:     "percent above 100 clamps to free order",
			lines:    sampleLines(),
			spec:     DiscountSpec{Kind: DiscountPercent, Value: 150},
			expected: Pricing{Subtotal: 25000, Discount: 25000, Total: 0},
		},
		{
			name:     "negative value clamps to zero",
			lines:    sampleLines(),
			spec:     DiscountSpec{Kind: DiscountFixed, Value: -5000},
			expected: Pricing{Subtotal: 25000, Discount: 0, Total: 25000},
		},
		{
			name:     "empty cart with percent discount",
			lines:    nil,
			spec:     DiscountSpec{Kind: DiscountPercent, Value: 50},
			expected: Pricing{Subtotal: 0, Discount: 0, Total: 0},
		},
		{
			name:     "empty cart with fixed discount",
			lines:    nil,
			spec:     DiscountSpec{Kind: DiscountFixed, Value: 10000},
			expected: Pricing{Subtotal: 0, Discount: 0, Total: 0},
		},
		{
			name:     "fractional percent rounds",
			lines:    []Line{{UnitPrice: 333, Quantity: 1}},
			spec:     DiscountSpec{Kind: DiscountPercent, Value: 10},
			expected: Pricing{Subtotal: 333, Discount: 33, Total: 300},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputePricing(tt.lines, tt.spec)
			assert.Equal(t, tt.expected, got)
			assert.GreaterOrEqual(t, got.Total, int64(0))
			assert.LessOrEqual(t, got.Total, got.Subtotal)
		})
	}
}

func TestComputePricingDeterministic(t *testing.T) {
	spec := DiscountSpec{Kind: DiscountPercent, Value: 12.5}
	first := ComputePricing(sampleLines(), spec)
	second := ComputePricing(sampleLines(), spec)
	assert.Equal(t, first, second)
}

func TestComputePricingOrderIndependent(t *testing.T) {
	forward := sampleLines()
	reversed := []Line{forward[1], forward[0]}

	spec := DiscountSpec{Kind: DiscountPercent, Value: 10}
	assert.Equal(t, ComputePricing(forward, spec), ComputePricing(reversed, spec))
}
