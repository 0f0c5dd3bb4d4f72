package products

import (
	"errors"
	"fmt"
	"time"

	"dokan/models"

	"github.com/google/uuid"
)

var (
	ErrDuplicateDiscountCode = errors.New("products: duplicate discount code")
	ErrInvalidDiscountPeriod = errors.New("products: discount period invalid")
)

// NormalizeDiscounts validates a seller-submitted discount list and returns
// the canonical copies stored on the product: fresh ids, and IsActive derived
// from the requested flag and the validity window. Codes must be unique
// within one product; each window must end after it starts.
func NormalizeDiscounts(in []models.Discount, now time.Time) ([]models.Discount, error) {
	seen := make(map[string]bool, len(in))
	out := make([]models.Discount, 0, len(in))

	for _, d := range in {
		if seen[d.Code] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateDiscountCode, d.Code)
		}
		seen[d.Code] = true

		if !d.ValidTo.After(d.ValidFrom) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidDiscountPeriod, d.Code)
		}

		out = append(out, models.Discount{
			ID:         uuid.NewString(),
			Code:       d.Code,
			Percentage: d.Percentage,
			ValidFrom:  d.ValidFrom,
			ValidTo:    d.ValidTo,
			IsActive:   d.IsActive && !d.ValidTo.Before(now.UTC().Truncate(24*time.Hour)),
		})
	}
	return out, nil
}
