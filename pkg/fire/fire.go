// Package fire projects progress towards financial independence.
package fire

import (
	"math"

	"github.com/iwvelando/ratewise/pkg/constants"
	"github.com/iwvelando/ratewise/pkg/mathutil"
	"github.com/iwvelando/ratewise/pkg/validation"
)

// Input describes a saver. SafeWithdrawalRate and ExpectedReturnRate are
// percentages.
type Input struct {
	AnnualExpenses     float64 `json:"annualExpenses"`
	SafeWithdrawalRate float64 `json:"safeWithdrawalRate"`
	CurrentSavings     float64 `json:"currentSavings"`
	AnnualContribution float64 `json:"annualContribution"`
	ExpectedReturnRate float64 `json:"expectedReturnRate"`
}

// Projection is the saver's position at the start of Year.
type Projection struct {
	Year     int     `json:"year"`
	Savings  float64 `json:"savings"`
	Target   float64 `json:"target"`
	Progress float64 `json:"progress"`
}

// Result holds the FIRE targets and a year-by-year projection. YearsToFire
// is -1 when the target is not reached within the projection horizon.
type Result struct {
	FireNumber         float64      `json:"fireNumber"`
	YearsToFire        int          `json:"yearsToFire"`
	TotalContributions float64      `json:"totalContributions"`
	TotalGrowth        float64      `json:"totalGrowth"`
	Projections        []Projection `json:"projections"`
	CoastFireNumber    float64      `json:"coastFireNumber"`
	LeanFireNumber     float64      `json:"leanFireNumber"`
	FatFireNumber      float64      `json:"fatFireNumber"`
}

// Reached reports whether the target is met within the horizon.
func (r Result) Reached() bool {
	return r.YearsToFire != constants.YearsToFireNotReached
}

// Calculate derives the FIRE number from expenses and the withdrawal rate
// and simulates years 0 through the horizon, growing savings by the return
// rate and adding the contribution after each recorded year.
func Calculate(in Input) (Result, error) {
	if err := validation.First(
		validation.Positive("annualExpenses", "Annual expenses", in.AnnualExpenses),
		validation.Positive("safeWithdrawalRate", "Safe withdrawal rate", in.SafeWithdrawalRate),
		validation.Between("safeWithdrawalRate", "Safe withdrawal rate", in.SafeWithdrawalRate, 0, constants.MaxPercentage),
		validation.NonNegative("currentSavings", "Current savings", in.CurrentSavings),
		validation.Finite("annualContribution", "Annual contribution", in.AnnualContribution),
		validation.NonNegative("expectedReturnRate", "Expected return rate", in.ExpectedReturnRate),
	); err != nil {
		return Result{}, err
	}

	withdrawal := mathutil.PercentToDecimal(in.SafeWithdrawalRate)
	fireNumber := in.AnnualExpenses / withdrawal
	leanFireNumber := in.AnnualExpenses * constants.LeanFireFactor / withdrawal
	fatFireNumber := in.AnnualExpenses * constants.FatFireFactor / withdrawal
	returnRate := mathutil.PercentToDecimal(in.ExpectedReturnRate)

	projections := make([]Projection, 0, constants.FireHorizonYears+1)
	savings := in.CurrentSavings
	yearsToFire := constants.YearsToFireNotReached

	for year := 0; year <= constants.FireHorizonYears; year++ {
		progress := math.Min(constants.PercentageMultiplier, savings/fireNumber*constants.PercentageMultiplier)
		projections = append(projections, Projection{
			Year:     year,
			Savings:  mathutil.Round(savings),
			Target:   mathutil.Round(fireNumber),
			Progress: mathutil.Round(progress),
		})

		if savings >= fireNumber && yearsToFire == constants.YearsToFireNotReached {
			yearsToFire = year
		}

		savings = savings*(1+returnRate) + in.AnnualContribution
		if !mathutil.IsFinite(savings) {
			return Result{}, validation.NewError("expectedReturnRate", "Inputs overflow the projection in year %d", year+1)
		}
	}

	totalContributions := in.CurrentSavings + in.AnnualContribution*float64(max(0, yearsToFire))
	coastFireNumber := fireNumber / math.Pow(1+returnRate, constants.CoastFireYears)

	return Result{
		FireNumber:         mathutil.Round(fireNumber),
		YearsToFire:        yearsToFire,
		TotalContributions: mathutil.Round(totalContributions),
		TotalGrowth:        mathutil.Round(fireNumber - totalContributions),
		Projections:        projections,
		CoastFireNumber:    mathutil.Round(coastFireNumber),
		LeanFireNumber:     mathutil.Round(leanFireNumber),
		FatFireNumber:      mathutil.Round(fatFireNumber),
	}, nil
}
