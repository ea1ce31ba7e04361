// Package pricing holds the checkout price rules. Everything here is a
// pure function of the cart subtotal so handlers can recompute it on
// every cart change without side effects.
package pricing

import "github.com/sapasaja/bukuku-api/internal/models"

const (
	// FreeShippingThreshold is the cart subtotal (IDR) at which
	// shipping becomes free.
	FreeShippingThreshold = 200000

	// FlatShippingCost applies below the threshold.
	FlatShippingCost = 15000
)

// ShippingCost returns 0 for subtotals at or above the free-shipping
// threshold, otherwise the flat rate.
func ShippingCost(subtotal float64) float64 {
	if subtotal >= FreeShippingThreshold {
		return 0
	}
	return FlatShippingCost
}

// FinalTotal is the amount the customer pays: subtotal plus shipping.
func FinalTotal(subtotal float64) float64 {
	return subtotal + ShippingCost(subtotal)
}

// CartTotals sums a cart: totalItems is the sum of quantities, subtotal
// is the sum of snapshot price times quantity.
func CartTotals(lines []models.CartLine) (totalItems int, subtotal float64) {
	for _, line := range lines {
		totalItems += line.Quantity
		subtotal += line.Price * float64(line.Quantity)
	}
	return totalItems, subtotal
}
