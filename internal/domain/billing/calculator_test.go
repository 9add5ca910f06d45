package billing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func cartWith(t *testing.T, price string, qty int) *Cart {
	t.Helper()
	c := NewCart()
	e := entry("Item", price, qty)
	for i := 0; i < qty; i++ {
		require.NoError(t, c.AddItem(e))
	}
	return c
}

func TestCalculateTotals_DiscountAndTax(t *testing.T) {
	c := cartWith(t, "100", 2)

	got := CalculateTotals(c.Lines(), TotalsOptions{
		DiscountPercent: d("10"),
		TaxEnabled:      true,
		TaxRate:         DefaultTaxRate,
	})

	assert.True(t, got.Subtotal.Equal(d("200")), got.Subtotal.String())
	assert.True(t, got.DiscountAmount.Equal(d("20")))
	assert.True(t, got.TaxableAmount.Equal(d("180")))
	assert.True(t, got.TaxAmount.Equal(d("32.4")))
	assert.True(t, got.GrandTotal.Equal(d("212.4")))
}

func TestCalculateTotals_TaxDisabled(t *testing.T) {
	c := cartWith(t, "19.99", 3)

	got := CalculateTotals(c.Lines(), TotalsOptions{TaxEnabled: false, TaxRate: DefaultTaxRate})

	assert.True(t, got.TaxAmount.IsZero())
	assert.True(t, got.GrandTotal.Equal(got.TaxableAmount))
	assert.True(t, got.Subtotal.Equal(d("59.97")))
}

func TestCalculateTotals_TaxIsExactlyEighteenPercent(t *testing.T) {
	c := cartWith(t, "33.33", 3)

	got := CalculateTotals(c.Lines(), TotalsOptions{
		DiscountPercent: d("7.5"),
		TaxEnabled:      true,
		TaxRate:         DefaultTaxRate,
	})

	assert.True(t, got.TaxAmount.Equal(got.TaxableAmount.Mul(d("0.18"))))
	assert.True(t, got.GrandTotal.GreaterThanOrEqual(got.TaxableAmount))
	assert.False(t, got.TaxableAmount.IsNegative())
}

func TestCalculateTotals_ClampsDiscount(t *testing.T) {
	c := cartWith(t, "50", 1)

	over := CalculateTotals(c.Lines(), TotalsOptions{DiscountPercent: d("150")})
	assert.True(t, over.DiscountPercent.Equal(d("100")))
	assert.True(t, over.TaxableAmount.IsZero())
	assert.True(t, over.GrandTotal.IsZero())

	under := CalculateTotals(c.Lines(), TotalsOptions{DiscountPercent: d("-5")})
	assert.True(t, under.DiscountAmount.IsZero())
	assert.True(t, under.GrandTotal.Equal(d("50")))
}

func TestCalculateTotals_PercentMatchesStoredPrecision(t *testing.T) {
	c := cartWith(t, "1000", 1)

	got := CalculateTotals(c.Lines(), TotalsOptions{DiscountPercent: d("12.345")})
	assert.True(t, got.DiscountPercent.Equal(d("12.35")))
	assert.True(t, got.DiscountAmount.Equal(d("123.5")))

	// a bill reloaded with its stored percent reproduces the same amounts
	again := CalculateTotals(c.Lines(), TotalsOptions{DiscountPercent: got.DiscountPercent})
	assert.True(t, again.DiscountAmount.Equal(got.DiscountAmount))
	assert.True(t, again.GrandTotal.Equal(got.GrandTotal))
}

func TestCalculateTotals_IsIdempotent(t *testing.T) {
	c := cartWith(t, "12.345", 4)
	opts := TotalsOptions{DiscountPercent: d("12.5"), TaxEnabled: true, TaxRate: DefaultTaxRate}

	first := CalculateTotals(c.Lines(), opts)
	second := CalculateTotals(c.Lines(), opts)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, c.Len())
}

func TestCalculateTotals_EmptyCart(t *testing.T) {
	got := CalculateTotals(nil, TotalsOptions{TaxEnabled: true, TaxRate: DefaultTaxRate})
	assert.True(t, got.GrandTotal.IsZero())
}

func TestBillTotals_Rounded(t *testing.T) {
	c := cartWith(t, "0.333", 1)

	got := CalculateTotals(c.Lines(), TotalsOptions{TaxEnabled: true, TaxRate: DefaultTaxRate}).Rounded()

	assert.Equal(t, "0.33", got.Subtotal.StringFixed(2))
	assert.Equal(t, "0.06", got.TaxAmount.StringFixed(2))
}
