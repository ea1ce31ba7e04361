package pricing

import (
	"testing"

	"github.com/sapasaja/bukuku-api/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestShippingCost(t *testing.T) {
	testCases := []struct {
		name     string
		subtotal float64
		want     float64
	}{
		{"empty cart", 0, 15000},
		{"just below threshold", 199999, 15000},
		{"exactly at threshold", 200000, 0},
		{"well above threshold", 500000, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ShippingCost(tc.subtotal))
		})
	}
}

func TestFinalTotal(t *testing.T) {
	// 2x Laskar Pelangi (85000) + 1x Filosofi Teras (78000) = 248000,
	// which clears the free-shipping threshold.
	subtotal := 2*85000.0 + 78000.0
	assert.Equal(t, 248000.0, FinalTotal(subtotal))

	// A single cheap book pays the flat rate.
	assert.Equal(t, 85000.0+15000.0, FinalTotal(85000))
}

func TestCartTotals(t *testing.T) {
	lines := []models.CartLine{
		{BookID: 1, Price: 85000, Quantity: 2},
		{BookID: 3, Price: 78000, Quantity: 1},
	}

	totalItems, subtotal := CartTotals(lines)
	assert.Equal(t, 3, totalItems)
	assert.Equal(t, 248000.0, subtotal)
}

func TestCartTotalsEmpty(t *testing.T) {
	totalItems, subtotal := CartTotals(nil)
	assert.Equal(t, 0, totalItems)
	assert.Equal(t, 0.0, subtotal)
}

func TestCartTotalsUsesSnapshotPrice(t *testing.T) {
	// The line carries the price captured when the item was added;
	// totals must be computed from that, not any live price.
	lines := []models.CartLine{{BookID: 1, Price: 80000, Quantity: 1}}

	_, subtotal := CartTotals(lines)
	assert.Equal(t, 80000.0, subtotal)
}
