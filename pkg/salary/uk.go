package salary

import (
	"math"

	"github.com/iwvelando/ratewise/pkg/constants"
	"github.com/iwvelando/ratewise/pkg/mathutil"
	"github.com/iwvelando/ratewise/pkg/tax"
)

// UKBrackets is the England/Wales/NI income tax schedule.
var UKBrackets = []tax.Bracket{
	{Min: 0, Max: 12570, Rate: 0},
	{Min: 12570, Max: 50270, Rate: 20},
	{Min: 50270, Max: 125140, Rate: 40},
	{Min: 125140, Max: math.Inf(1), Rate: 45},
}

// NationalInsurance charges the main rate between the primary threshold and
// the upper earnings limit and the upper rate above it.
func NationalInsurance(income float64) float64 {
	if income <= constants.UKNIPrimaryThreshold {
		return 0
	}
	ni := mathutil.ApplyPercentage(math.Min(income, constants.UKNIUpperLimit)-constants.UKNIPrimaryThreshold, constants.UKNIMainRate)
	if income > constants.UKNIUpperLimit {
		ni += mathutil.ApplyPercentage(income-constants.UKNIUpperLimit, constants.UKNIUpperRate)
	}
	return ni
}

// CalculateUK computes income tax and National Insurance on pay after the
// pension contribution.
func CalculateUK(in Input) (Result, error) {
	if err := validateInput(in); err != nil {
		return Result{}, err
	}

	totalGross := in.GrossAnnual + in.Bonus
	pension := mathutil.ApplyPercentage(totalGross, in.PensionContribution)
	taxableIncome := math.Max(0, totalGross-pension)

	incomeTax := tax.ProgressiveTax(taxableIncome, UKBrackets)
	social := mathutil.Round(NationalInsurance(taxableIncome))

	result := summarize("GB", "GBP", totalGross, deductions{
		taxableIncome: taxableIncome,
		incomeTax:     incomeTax,
		social:        social,
		pension:       pension,
		brackets:      UKBrackets,
	})
	result.Breakdown = []LineItem{
		{Label: LabelGrossIncome, Amount: result.GrossAnnual},
		{Label: LabelPension, Amount: mathutil.Negate(mathutil.Round(pension))},
		{Label: LabelIncomeTax, Amount: mathutil.Negate(incomeTax)},
		{Label: LabelNationalInsurance, Amount: mathutil.Negate(social)},
		{Label: LabelNetTakeHome, Amount: result.NetAnnual},
	}
	return result, nil
}
