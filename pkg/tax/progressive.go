// Package tax implements the marginal-rate progressive tax engine shared by
// the salary calculators.
package tax

import (
	"fmt"
	"math"

	"github.com/iwvelando/ratewise/pkg/mathutil"
)

// Bracket is a half-open income interval [Min, Max) taxed at Rate percent.
// The last bracket of a schedule has Max = +Inf.
type Bracket struct {
	Min  float64 `json:"min" yaml:"min"`
	Max  float64 `json:"max" yaml:"max"`
	Rate float64 `json:"rate" yaml:"rate"`
}

// Unbounded reports whether the bracket has no upper limit.
func (b Bracket) Unbounded() bool {
	return math.IsInf(b.Max, 1)
}

// ProgressiveTax walks the brackets in order, taxing the slice of income that
// falls into each one at its rate. Brackets must be contiguous, ascending and
// end with an unbounded bracket; they are not checked here (see
// ValidateBrackets).
func ProgressiveTax(income float64, brackets []Bracket) float64 {
	tax := 0.0
	remaining := income

	for _, bracket := range brackets {
		if remaining <= 0 {
			break
		}
		taxableInBracket := math.Min(remaining, bracket.Max-bracket.Min)
		tax += mathutil.ApplyPercentage(taxableInBracket, bracket.Rate)
		remaining -= taxableInBracket
	}

	return mathutil.Round(tax)
}

// MarginalRate returns the rate of the highest bracket whose Min lies below
// income, or 0 when income does not exceed the first bracket's Min.
func MarginalRate(income float64, brackets []Bracket) float64 {
	rate := 0.0
	for _, bracket := range brackets {
		if income > bracket.Min {
			rate = bracket.Rate
		}
	}
	return rate
}

// ValidateBrackets checks that a schedule starts at zero, is contiguous and
// ascending, has rates within [0, 100], and ends unbounded.
func ValidateBrackets(brackets []Bracket) error {
	if len(brackets) == 0 {
		return fmt.Errorf("bracket schedule is empty")
	}
	if brackets[0].Min != 0 {
		return fmt.Errorf("first bracket must start at 0, got %g", brackets[0].Min)
	}
	for i, b := range brackets {
		if b.Rate < 0 || b.Rate > 100 || math.IsNaN(b.Rate) {
			return fmt.Errorf("bracket %d: rate %g outside [0, 100]", i, b.Rate)
		}
		if !(b.Max > b.Min) {
			return fmt.Errorf("bracket %d: max %g must exceed min %g", i, b.Max, b.Min)
		}
		if i > 0 && b.Min != brackets[i-1].Max {
			return fmt.Errorf("bracket %d: min %g does not continue previous max %g", i, b.Min, brackets[i-1].Max)
		}
	}
	if last := brackets[len(brackets)-1]; !last.Unbounded() {
		return fmt.Errorf("last bracket must be unbounded, got max %g", last.Max)
	}
	return nil
}
