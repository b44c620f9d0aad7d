// Package salestax computes US-style state plus local sales tax.
package salestax

import (
	"github.com/iwvelando/ratewise/pkg/mathutil"
	"github.com/iwvelando/ratewise/pkg/validation"
)

// Input holds the purchase amount and the two additive rate tiers.
type Input struct {
	Amount    float64 `json:"amount"`
	StateRate float64 `json:"stateRate"`
	LocalRate float64 `json:"localRate"`
}

// Result is the rounded tax breakdown for a purchase.
type Result struct {
	Subtotal      float64 `json:"subtotal"`
	StateTax      float64 `json:"stateTax"`
	LocalTax      float64 `json:"localTax"`
	TotalTax      float64 `json:"totalTax"`
	Total         float64 `json:"total"`
	EffectiveRate float64 `json:"effectiveRate"`
}

// Calculate applies the state and local rates to the same base; the tiers
// add rather than compound.
func Calculate(in Input) (Result, error) {
	if err := validation.First(
		validation.NonNegative("amount", "Amount", in.Amount),
		validation.NonNegative("stateRate", "State rate", in.StateRate),
		validation.NonNegative("localRate", "Local rate", in.LocalRate),
	); err != nil {
		return Result{}, err
	}

	rawState := mathutil.ApplyPercentage(in.Amount, in.StateRate)
	rawLocal := mathutil.ApplyPercentage(in.Amount, in.LocalRate)

	stateTax := mathutil.Round(rawState)
	localTax := mathutil.Round(rawLocal)
	// Summing the rounded tiers keeps TotalTax equal to StateTax + LocalTax.
	totalTax := mathutil.Round(stateTax + localTax)

	return Result{
		Subtotal:      mathutil.Round(in.Amount),
		StateTax:      stateTax,
		LocalTax:      localTax,
		TotalTax:      totalTax,
		Total:         mathutil.Round(in.Amount + totalTax),
		EffectiveRate: mathutil.Round(mathutil.CalculatePercentage(rawState+rawLocal, in.Amount)),
	}, nil
}
