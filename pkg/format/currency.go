// Package format renders monetary amounts for display.
package format

import (
	"fmt"
	"math"
	"strings"
)

var currencySymbols = map[string]string{
	"USD": "$",
	"GBP": "£",
	"EUR": "€",
	"JPY": "¥",
	"INR": "₹",
	"CAD": "CA$",
	"AUD": "A$",
}

// Symbol returns the display symbol for an ISO 4217 currency code. Codes
// without a known symbol are returned followed by a space, e.g. "CHF ".
// An empty code means US dollars.
func Symbol(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return "$"
	}
	if symbol, ok := currencySymbols[code]; ok {
		return symbol
	}
	return code + " "
}

// Money returns amount in the given currency with its symbol and thousands
// separators (e.g., "-£1,234.56", "CHF 99.00").
func Money(amount float64, code string) string {
	formatted := formatPositiveCurrency(math.Abs(amount))
	if amount < 0 && formatted != "0.00" {
		return "-" + Symbol(code) + formatted
	}
	return Symbol(code) + formatted
}

func formatPositiveCurrency(value float64) string {
	formatted := fmt.Sprintf("%.2f", value)
	parts := strings.SplitN(formatted, ".", 2)
	intPart := parts[0]
	decPart := "00"
	if len(parts) == 2 {
		decPart = parts[1]
	}

	if len(intPart) > 3 {
		var builder strings.Builder
		for i, digit := range intPart {
			if i > 0 && (len(intPart)-i)%3 == 0 {
				builder.WriteByte(',')
			}
			builder.WriteRune(digit)
		}
		intPart = builder.String()
	}

	return intPart + "." + decPart
}
