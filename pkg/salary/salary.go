// Package salary computes annual take-home pay per jurisdiction on top of
// the progressive tax engine.
package salary

import (
	"strings"

	"github.com/iwvelando/ratewise/pkg/constants"
	"github.com/iwvelando/ratewise/pkg/mathutil"
	"github.com/iwvelando/ratewise/pkg/tax"
	"github.com/iwvelando/ratewise/pkg/validation"
)

// PayFrequency selects which net figure a caller displays.
type PayFrequency string

const (
	PayAnnual   PayFrequency = "annual"
	PayMonthly  PayFrequency = "monthly"
	PayBiweekly PayFrequency = "biweekly"
	PayWeekly   PayFrequency = "weekly"
)

// Breakdown labels. Consumers render these verbatim.
const (
	LabelGrossIncome         = "Gross Income"
	LabelStandardDeduction   = "Standard Deduction"
	LabelPension             = "Pension Contribution"
	LabelFederalIncomeTax    = "Federal Income Tax"
	LabelIncomeTax           = "Income Tax"
	LabelSocialSecurity      = "Social Security"
	LabelMedicare            = "Medicare"
	LabelNationalInsurance   = "National Insurance"
	LabelSocialContributions = "Social Contributions"
	LabelNetTakeHome         = "Net Take-Home"
)

// Input is shared by every jurisdiction. PensionContribution is a percentage
// of total gross pay.
type Input struct {
	GrossAnnual         float64      `json:"grossAnnual"`
	CountryCode         string       `json:"countryCode"`
	PayFrequency        PayFrequency `json:"payFrequency,omitempty"`
	PensionContribution float64      `json:"pensionContribution"`
	Bonus               float64      `json:"bonus"`
}

// LineItem is one row of the displayed breakdown. Deductions are negative.
type LineItem struct {
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

// Result is the take-home summary. The last Breakdown entry is always
// Net Take-Home.
type Result struct {
	CountryCode         string     `json:"countryCode"`
	Currency            string     `json:"currency"`
	GrossAnnual         float64    `json:"grossAnnual"`
	TaxableIncome       float64    `json:"taxableIncome"`
	IncomeTax           float64    `json:"incomeTax"`
	SocialContributions float64    `json:"socialContributions"`
	PensionDeduction    float64    `json:"pensionDeduction"`
	TotalDeductions     float64    `json:"totalDeductions"`
	NetAnnual           float64    `json:"netAnnual"`
	NetMonthly          float64    `json:"netMonthly"`
	NetBiweekly         float64    `json:"netBiweekly"`
	NetWeekly           float64    `json:"netWeekly"`
	EffectiveTaxRate    float64    `json:"effectiveTaxRate"`
	MarginalRate        float64    `json:"marginalRate"`
	Breakdown           []LineItem `json:"breakdown"`
}

// NetPay returns the net figure for the given pay frequency. Unknown or empty
// frequencies return the annual figure.
func (r Result) NetPay(freq PayFrequency) float64 {
	switch freq {
	case PayMonthly:
		return r.NetMonthly
	case PayBiweekly:
		return r.NetBiweekly
	case PayWeekly:
		return r.NetWeekly
	default:
		return r.NetAnnual
	}
}

// GenericConfig drives CalculateGeneric: a bracket table and a flat social
// contribution rate charged on total gross pay.
type GenericConfig struct {
	Brackets   []tax.Bracket `json:"brackets" yaml:"brackets"`
	SocialRate float64       `json:"socialRate" yaml:"socialRate"`
	Currency   string        `json:"currency" yaml:"currency"`
}

func validateInput(in Input) error {
	if err := validation.First(
		validation.NonNegative("grossAnnual", "Gross annual salary", in.GrossAnnual),
		validation.NonNegative("bonus", "Bonus", in.Bonus),
		validation.Between("pensionContribution", "Pension contribution", in.PensionContribution, 0, constants.MaxPercentage),
	); err != nil {
		return err
	}
	switch in.PayFrequency {
	case "", PayAnnual, PayMonthly, PayBiweekly, PayWeekly:
		return nil
	}
	return validation.NewError("payFrequency", "Pay frequency must be one of annual, monthly, biweekly or weekly")
}

// deductions are the per-jurisdiction figures fed into summarize.
type deductions struct {
	taxableIncome float64
	incomeTax     float64
	social        float64
	pension       float64
	brackets      []tax.Bracket
}

// summarize derives the totals, per-period net pay and rates shared by every
// jurisdiction. The caller fills in Breakdown.
func summarize(countryCode, currency string, totalGross float64, d deductions) Result {
	totalDeductions := mathutil.Round(d.incomeTax + d.social + d.pension)
	netAnnual := mathutil.Round(totalGross - totalDeductions)

	effective := 0.0
	if totalGross > 0 {
		effective = mathutil.Round(totalDeductions / totalGross * constants.PercentageMultiplier)
	}

	return Result{
		CountryCode:         strings.ToUpper(countryCode),
		Currency:            currency,
		GrossAnnual:         mathutil.Round(totalGross),
		TaxableIncome:       mathutil.Round(d.taxableIncome),
		IncomeTax:           d.incomeTax,
		SocialContributions: d.social,
		PensionDeduction:    mathutil.Round(d.pension),
		TotalDeductions:     totalDeductions,
		NetAnnual:           netAnnual,
		NetMonthly:          mathutil.Round(netAnnual / constants.MonthsPerYear),
		NetBiweekly:         mathutil.Round(netAnnual / constants.BiweeklyPeriodsPerYear),
		NetWeekly:           mathutil.Round(netAnnual / constants.WeeksPerYear),
		EffectiveTaxRate:    effective,
		MarginalRate:        tax.MarginalRate(d.taxableIncome, d.brackets),
	}
}
