// Package shipping holds the flat-rate delivery cost table.
package shipping

import "strings"

// Delivery rates in taka. Dhaka city deliveries ride the in-house fleet and
// get the lower rate; everything else goes through a courier.
const (
	DhakaRate   = 70
	DefaultRate = 130
)

// Cost returns the flat shipping rate for a destination city. Matching is
// trimmed and case-insensitive.
func Cost(city string) float64 {
	if strings.EqualFold(strings.TrimSpace(city), "dhaka") {
		return DhakaRate
	}
	return DefaultRate
}
