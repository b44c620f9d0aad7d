// Package compound projects savings growth with monthly contributions.
package compound

import (
	"strings"

	"github.com/iwvelando/ratewise/pkg/constants"
	"github.com/iwvelando/ratewise/pkg/mathutil"
	"github.com/iwvelando/ratewise/pkg/validation"
)

// Frequency is how often interest is compounded.
type Frequency string

const (
	Daily     Frequency = "daily"
	Monthly   Frequency = "monthly"
	Quarterly Frequency = "quarterly"
	Annually  Frequency = "annually"
)

// PeriodsPerYear maps a frequency to its compounding periods per year.
// The empty frequency is treated as monthly.
func (f Frequency) PeriodsPerYear() (int, bool) {
	switch Frequency(strings.ToLower(string(f))) {
	case Daily:
		return constants.DailyPeriods, true
	case Monthly, "":
		return constants.MonthlyPeriods, true
	case Quarterly:
		return constants.QuarterlyPeriods, true
	case Annually:
		return constants.AnnualPeriods, true
	}
	return 0, false
}

// Input describes a projection. AnnualRate is a percentage.
type Input struct {
	Principal            float64   `json:"principal"`
	MonthlyContribution  float64   `json:"monthlyContribution"`
	AnnualRate           float64   `json:"annualRate"`
	Years                int       `json:"years"`
	CompoundingFrequency Frequency `json:"compoundingFrequency"`
}

// YearlyBreakdown is the cumulative position at the end of a year.
type YearlyBreakdown struct {
	Year          int     `json:"year"`
	Balance       float64 `json:"balance"`
	Contributions float64 `json:"contributions"`
	Interest      float64 `json:"interest"`
}

// Result is the position after Years plus one row per year.
type Result struct {
	FinalBalance       float64           `json:"finalBalance"`
	TotalContributions float64           `json:"totalContributions"`
	TotalInterest      float64           `json:"totalInterest"`
	YearlyBreakdown    []YearlyBreakdown `json:"yearlyBreakdown"`
}

// Calculate simulates the balance month by month. Each month the
// contribution is added first, then interest is applied: n/12 compounding
// steps per month for daily and monthly (a fractional count rounds up, so
// daily compounding takes 31 steps per month), and a single step at the end
// of each period for quarterly and annual compounding. Only reported figures
// are rounded.
func Calculate(in Input) (Result, error) {
	if err := validation.First(
		validation.NonNegative("principal", "Principal", in.Principal),
		validation.NonNegative("monthlyContribution", "Monthly contribution", in.MonthlyContribution),
		validation.NonNegative("annualRate", "Annual rate", in.AnnualRate),
	); err != nil {
		return Result{}, err
	}
	if in.Years < 0 || in.Years > constants.MaxCompoundingYears {
		return Result{}, validation.NewError("years", "Years must be between 0 and %d", constants.MaxCompoundingYears)
	}
	n, ok := in.CompoundingFrequency.PeriodsPerYear()
	if !ok {
		return Result{}, validation.NewError("compoundingFrequency",
			"Compounding frequency must be one of daily, monthly, quarterly or annually")
	}

	periodRate := mathutil.PercentToDecimal(in.AnnualRate) / float64(n)
	stepsPerMonth := float64(n) / constants.MonthsPerYear
	monthsPerPeriod := constants.MonthsPerYear / n

	balance := in.Principal
	contributions := in.Principal
	breakdown := make([]YearlyBreakdown, 0, in.Years)

	for year := 1; year <= in.Years; year++ {
		for month := 1; month <= constants.MonthsPerYear; month++ {
			balance += in.MonthlyContribution
			contributions += in.MonthlyContribution

			if n >= constants.MonthsPerYear {
				for step := 0; float64(step) < stepsPerMonth; step++ {
					balance *= 1 + periodRate
				}
			} else if month%monthsPerPeriod == 0 {
				balance *= 1 + periodRate
			}
		}
		if !mathutil.IsFinite(balance) {
			return Result{}, validation.NewError("annualRate", "Inputs overflow the projection in year %d", year)
		}

		breakdown = append(breakdown, YearlyBreakdown{
			Year:          year,
			Balance:       mathutil.Round(balance),
			Contributions: mathutil.Round(contributions),
			Interest:      mathutil.Round(balance - contributions),
		})
	}

	return Result{
		FinalBalance:       mathutil.Round(balance),
		TotalContributions: mathutil.Round(contributions),
		TotalInterest:      mathutil.Round(balance - contributions),
		YearlyBreakdown:    breakdown,
	}, nil
}
