package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestComputeTotalsEmpty(t *testing.T) {
	for _, vat := range []string{"0", "18", "20", "99.5"} {
		totals := ComputeTotals(nil, dec(vat))
		assert.True(t, totals.Subtotal.IsZero(), "subtotal for vat %s", vat)
		assert.True(t, totals.VATAmount.IsZero(), "vat amount for vat %s", vat)
		assert.True(t, totals.Total.IsZero(), "total for vat %s", vat)
	}
}

func TestComputeTotalsSingleItem(t *testing.T) {
	totals := ComputeTotals([]decimal.Decimal{dec("100")}, dec("20"))

	assert.True(t, totals.Subtotal.Equal(dec("100")))
	assert.True(t, totals.VATAmount.Equal(dec("20")))
	assert.True(t, totals.Total.Equal(dec("120")))
}

func TestComputeTotalsInvoiceScenario(t *testing.T) {
	totals := ComputeTotals([]decimal.Decimal{dec("50"), dec("25")}, dec("18"))

	assert.Equal(t, "75.00", Display(totals.Subtotal))
	assert.Equal(t, "13.50", Display(totals.VATAmount))
	assert.Equal(t, "88.50", Display(totals.Total))
}

func TestComputeTotalsReorderInvariant(t *testing.T) {
	a := []decimal.Decimal{dec("1.01"), dec("2.50"), dec("99.99"), dec("0.33")}
	b := []decimal.Decimal{dec("0.33"), dec("99.99"), dec("1.01"), dec("2.50")}

	assert.True(t, ComputeTotals(a, dec("18")).Subtotal.Equal(ComputeTotals(b, dec("18")).Subtotal))
	assert.True(t, ComputeTotals(a, dec("18")).Total.Equal(ComputeTotals(b, dec("18")).Total))
}

func TestComputeTotalsNoIntermediateRounding(t *testing.T) {
	// 3 x 0.333 at 10% VAT: exact accumulation gives 0.999 + 0.0999.
	totals := ComputeTotals([]decimal.Decimal{dec("0.333"), dec("0.333"), dec("0.333")}, dec("10"))

	assert.True(t, totals.Subtotal.Equal(dec("0.999")))
	assert.True(t, totals.VATAmount.Equal(dec("0.0999")))
	assert.True(t, totals.Total.Equal(dec("1.0989")))
	assert.Equal(t, "1.09", Display(totals.Total), "display truncates, never rounds up")
}

func TestParseAmount(t *testing.T) {
	assert.True(t, ParseAmount("").IsZero())
	assert.True(t, ParseAmount("   ").IsZero())
	assert.True(t, ParseAmount("not-a-number").IsZero())
	assert.True(t, ParseAmount("12.34").Equal(dec("12.34")))
	assert.True(t, ParseAmount(" 7 ").Equal(dec("7")))
}
