package salary

import (
	"math"

	"github.com/iwvelando/ratewise/pkg/constants"
	"github.com/iwvelando/ratewise/pkg/mathutil"
	"github.com/iwvelando/ratewise/pkg/tax"
)

// USBrackets is the 2024 federal schedule for a single filer.
var USBrackets = []tax.Bracket{
	{Min: 0, Max: 11600, Rate: 10},
	{Min: 11600, Max: 47150, Rate: 12},
	{Min: 47150, Max: 100525, Rate: 22},
	{Min: 100525, Max: 191950, Rate: 24},
	{Min: 191950, Max: 243725, Rate: 32},
	{Min: 243725, Max: 609350, Rate: 35},
	{Min: 609350, Max: math.Inf(1), Rate: 37},
}

// CalculateUS computes federal income tax after the standard deduction and
// pension, Social Security up to the wage base, and Medicare including the
// additional rate on pay above the threshold.
func CalculateUS(in Input) (Result, error) {
	if err := validateInput(in); err != nil {
		return Result{}, err
	}

	totalGross := in.GrossAnnual + in.Bonus
	rawPension := mathutil.ApplyPercentage(totalGross, in.PensionContribution)
	taxableIncome := math.Max(0, totalGross-constants.USStandardDeduction-rawPension)

	incomeTax := tax.ProgressiveTax(taxableIncome, USBrackets)

	socialSecurity := mathutil.ApplyPercentage(math.Min(totalGross, constants.USSocialSecurityWageBase), constants.USSocialSecurityRate)
	medicare := mathutil.ApplyPercentage(totalGross, constants.USMedicareRate)
	if totalGross > constants.USAdditionalMedicareThresh {
		medicare += mathutil.ApplyPercentage(totalGross-constants.USAdditionalMedicareThresh, constants.USAdditionalMedicareRate)
	}

	social := mathutil.Round(socialSecurity + medicare)
	pension := mathutil.Round(rawPension)

	result := summarize("US", "USD", totalGross, deductions{
		taxableIncome: taxableIncome,
		incomeTax:     incomeTax,
		social:        social,
		pension:       pension,
		brackets:      USBrackets,
	})
	result.Breakdown = []LineItem{
		{Label: LabelGrossIncome, Amount: result.GrossAnnual},
		{Label: LabelStandardDeduction, Amount: -constants.USStandardDeduction},
		{Label: LabelPension, Amount: mathutil.Negate(pension)},
		{Label: LabelFederalIncomeTax, Amount: mathutil.Negate(incomeTax)},
		{Label: LabelSocialSecurity, Amount: mathutil.Negate(mathutil.Round(socialSecurity))},
		{Label: LabelMedicare, Amount: mathutil.Negate(mathutil.Round(medicare))},
		{Label: LabelNetTakeHome, Amount: result.NetAnnual},
	}
	return result, nil
}
