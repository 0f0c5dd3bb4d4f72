// Package pricing resolves the effective price of a product or variant
// given its base price and the discounts attached to the product.
package pricing

import (
	"math"
	"time"

	"dokan/models"
)

// ActiveDiscount returns the first discount that is flagged active and whose
// validity window contains asOf, or nil. When several windows overlap the
// first one in stored order wins; there is no priority field, so the stored
// order is the only tie-break available.
func ActiveDiscount(discounts []models.Discount, asOf time.Time) *models.Discount {
	for i := range discounts {
		d := &discounts[i]
		if d.IsActive && !d.ValidFrom.After(asOf) && !d.ValidTo.Before(asOf) {
			return d
		}
	}
	return nil
}

// FinalPrice applies the active discount (if any) to basePrice and rounds to
// the nearest whole unit, half up. Prices are in whole taka, so 99.50 must
// become 100 and 99.49 must become 99; this is not banker's rounding.
func FinalPrice(basePrice float64, discounts []models.Discount, asOf time.Time) float64 {
	pct := 0.0
	if d := ActiveDiscount(discounts, asOf); d != nil {
		pct = d.Percentage
	}
	raw := basePrice - (pct * basePrice / 100)
	return RoundHalfUp(raw)
}

// RoundHalfUp rounds to the nearest integer, fractions of exactly .5 going up.
func RoundHalfUp(v float64) float64 {
	floor := math.Floor(v)
	if v-floor >= 0.5 {
		return floor + 1
	}
	return floor
}
