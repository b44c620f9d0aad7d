// Package vat adds and removes value-added tax.
package vat

import (
	"github.com/iwvelando/ratewise/pkg/constants"
	"github.com/iwvelando/ratewise/pkg/mathutil"
	"github.com/iwvelando/ratewise/pkg/validation"
)

// Input describes a VAT calculation. When Inclusive is true Amount is the
// gross figure and VAT is extracted from it; otherwise Amount is net and VAT
// is added on top.
type Input struct {
	Amount    float64 `json:"amount"`
	Rate      float64 `json:"rate"`
	Inclusive bool    `json:"inclusive"`
}

// Result holds the net, VAT and gross figures, each rounded independently.
type Result struct {
	NetAmount   float64 `json:"netAmount"`
	VATAmount   float64 `json:"vatAmount"`
	GrossAmount float64 `json:"grossAmount"`
	Rate        float64 `json:"rate"`
}

// Calculate computes VAT in either direction.
func Calculate(in Input) (Result, error) {
	if err := validation.First(
		validation.NonNegative("amount", "Amount", in.Amount),
		validation.Between("rate", "Rate", in.Rate, 0, constants.MaxPercentage),
	); err != nil {
		return Result{}, err
	}

	var net, vat, gross float64
	if in.Inclusive {
		gross = in.Amount
		net = in.Amount / (1 + mathutil.PercentToDecimal(in.Rate))
		vat = gross - net
	} else {
		net = in.Amount
		vat = mathutil.ApplyPercentage(in.Amount, in.Rate)
		gross = net + vat
	}

	return Result{
		NetAmount:   mathutil.Round(net),
		VATAmount:   mathutil.Round(vat),
		GrossAmount: mathutil.Round(gross),
		Rate:        in.Rate,
	}, nil
}
