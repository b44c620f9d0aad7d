package salary

import (
	"math"

	"github.com/iwvelando/ratewise/pkg/constants"
	"github.com/iwvelando/ratewise/pkg/mathutil"
	"github.com/iwvelando/ratewise/pkg/tax"
	"github.com/iwvelando/ratewise/pkg/validation"
)

// FallbackConfig is used for jurisdictions without a bracket table.
var FallbackConfig = GenericConfig{
	Brackets:   []tax.Bracket{{Min: 0, Max: math.Inf(1), Rate: constants.FallbackIncomeTaxRate}},
	SocialRate: constants.FallbackSocialRate,
	Currency:   constants.FallbackCurrency,
}

// CalculateGeneric applies cfg's brackets to pay after pension and a flat
// social rate to total gross pay.
func CalculateGeneric(in Input, cfg GenericConfig) (Result, error) {
	if err := validateInput(in); err != nil {
		return Result{}, err
	}
	if err := validation.NonNegative("socialRate", "Social contribution rate", cfg.SocialRate); err != nil {
		return Result{}, err
	}

	totalGross := in.GrossAnnual + in.Bonus
	pension := mathutil.ApplyPercentage(totalGross, in.PensionContribution)
	taxableIncome := math.Max(0, totalGross-pension)

	incomeTax := tax.ProgressiveTax(taxableIncome, cfg.Brackets)
	social := mathutil.Round(mathutil.ApplyPercentage(totalGross, cfg.SocialRate))

	result := summarize(in.CountryCode, cfg.Currency, totalGross, deductions{
		taxableIncome: taxableIncome,
		incomeTax:     incomeTax,
		social:        social,
		pension:       pension,
		brackets:      cfg.Brackets,
	})
	result.Breakdown = []LineItem{
		{Label: LabelGrossIncome, Amount: result.GrossAnnual},
		{Label: LabelPension, Amount: mathutil.Negate(mathutil.Round(pension))},
		{Label: LabelIncomeTax, Amount: mathutil.Negate(incomeTax)},
		{Label: LabelSocialContributions, Amount: mathutil.Negate(social)},
		{Label: LabelNetTakeHome, Amount: result.NetAnnual},
	}
	return result, nil
}
