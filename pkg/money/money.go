// Package money computes invoice totals from line-item amounts and a VAT
// percentage. All arithmetic stays in decimal form; rounding happens only at
// the presentation boundary via Display.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Totals holds the derived amounts of an invoice.
type Totals struct {
	Subtotal  decimal.Decimal
	VATAmount decimal.Decimal
	Total     decimal.Decimal
}

var oneHundred = decimal.NewFromInt(100)

// ComputeTotals derives subtotal, VAT amount and grand total from line-item
// amounts. It is pure and total: any input, including an empty list, yields a
// well-defined result. Intermediate values are never rounded.
func ComputeTotals(amounts []decimal.Decimal, vatPercentage decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, amount := range amounts {
		subtotal = subtotal.Add(amount)
	}

	vatAmount := subtotal.Mul(vatPercentage).Div(oneHundred)

	return Totals{
		Subtotal:  subtotal,
		VATAmount: vatAmount,
		Total:     subtotal.Add(vatAmount),
	}
}

// ParseAmount coerces a free-form amount field into a decimal. Malformed or
// empty input becomes zero rather than an error, so a half-typed form value
// can be recomputed on every edit.
func ParseAmount(raw string) decimal.Decimal {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return decimal.Zero
	}
	parsed, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero
	}
	return parsed
}

// Display formats an amount for presentation, truncated to two decimal
// places.
func Display(amount decimal.Decimal) string {
	return amount.Truncate(2).StringFixed(2)
}
