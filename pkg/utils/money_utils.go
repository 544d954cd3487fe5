package utils

import "math"

// RoundCurrency rounds a monetary amount to two decimal places.
// All price arithmetic goes through this so that computed totals are
// reproducible (9.99 * 3 must come out as exactly 29.97, not 29.970000000000002).
func RoundCurrency(amount float64) float64 {
	return math.Round(amount*100) / 100
}
