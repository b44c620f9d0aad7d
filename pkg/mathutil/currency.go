// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/iwvelando/ratewise/pkg/constants"
	"github.com/shopspring/decimal"
)

// Round rounds a value to two decimals, i.e. to represent real currency.
// Halves round away from zero on the shortest decimal representation of val,
// so 1.005 becomes 1.01 rather than falling victim to binary representation.
// Non-finite values are returned unchanged.
func Round(val float64) float64 {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return val
	}
	rounded := decimal.NewFromFloat(val).Round(constants.DecimalPlaces).InexactFloat64()
	if rounded == 0 {
		// Avoid reporting -0.
		return 0
	}
	return rounded
}

// Negate returns -val, mapping zero to positive zero.
func Negate(val float64) float64 {
	if val == 0 {
		return 0
	}
	return -val
}

// IsZero checks if a value is effectively zero (within tolerance)
func IsZero(val float64) bool {
	return math.Abs(val) <= constants.CurrencyTolerance
}

// IsFinite reports whether val is neither NaN nor infinite.
func IsFinite(val float64) bool {
	return !math.IsNaN(val) && !math.IsInf(val, 0)
}

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}

// CalculatePercentage calculates what percentage value is of total
func CalculatePercentage(value, total float64) float64 {
	if total == 0 {
		return 0
	}
	return (value / total) * constants.PercentageMultiplier
}

// ApplyPercentage applies a percentage to a value
func ApplyPercentage(value, percentage float64) float64 {
	return value * (percentage / constants.PercentageMultiplier)
}

// PercentToDecimal converts a percentage such as 6.5 into 0.065.
func PercentToDecimal(percent float64) float64 {
	return percent / constants.PercentageMultiplier
}
