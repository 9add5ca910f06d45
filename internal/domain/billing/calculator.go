package billing

import "github.com/shopspring/decimal"

var (
	hundred = decimal.NewFromInt(100)

	// DefaultTaxRate is the flat sales tax percentage.
	DefaultTaxRate = decimal.NewFromInt(18)
)

// TotalsOptions are the bill-level adjustments applied on top of the lines.
type TotalsOptions struct {
	DiscountPercent decimal.Decimal
	TaxEnabled      bool
	TaxRate         decimal.Decimal
}

// BillTotals is derived from a cart on every read and never stored on its own.
type BillTotals struct {
	Subtotal        decimal.Decimal `json:"subtotal"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	TaxableAmount   decimal.Decimal `json:"taxable_amount"`
	TaxEnabled      bool            `json:"tax_enabled"`
	TaxRate         decimal.Decimal `json:"tax_rate"`
	TaxAmount       decimal.Decimal `json:"tax_amount"`
	GrandTotal      decimal.Decimal `json:"grand_total"`
}

// ClampPercent limits p to [0, 100] at two decimal places, the precision a
// bill stores its percentages with.
func ClampPercent(p decimal.Decimal) decimal.Decimal {
	if p.IsNegative() {
		return decimal.Zero
	}
	if p.GreaterThan(hundred) {
		return hundred
	}
	return p.Round(2)
}

// CalculateTotals computes the bill figures for lines. It is exact: the
// percentages are applied with decimal shifts, so the same input always
// yields the same output. The discount percent is clamped to [0, 100],
// both percentages are taken at two decimal places and a negative tax rate
// is treated as zero.
func CalculateTotals(lines []Line, opts TotalsOptions) BillTotals {
	subtotal := sumLines(lines)
	discountPercent := ClampPercent(opts.DiscountPercent)
	discountAmount := subtotal.Mul(discountPercent).Shift(-2)
	taxable := subtotal.Sub(discountAmount)

	rate := opts.TaxRate.Round(2)
	if rate.IsNegative() {
		rate = decimal.Zero
	}

	taxAmount := decimal.Zero
	if opts.TaxEnabled {
		taxAmount = taxable.Mul(rate).Shift(-2)
	}

	return BillTotals{
		Subtotal:        subtotal,
		DiscountPercent: discountPercent,
		DiscountAmount:  discountAmount,
		TaxableAmount:   taxable,
		TaxEnabled:      opts.TaxEnabled,
		TaxRate:         rate,
		TaxAmount:       taxAmount,
		GrandTotal:      taxable.Add(taxAmount),
	}
}

// Rounded returns a copy with every monetary amount rounded to 2 places.
func (t BillTotals) Rounded() BillTotals {
	t.Subtotal = t.Subtotal.Round(2)
	t.DiscountAmount = t.DiscountAmount.Round(2)
	t.TaxableAmount = t.TaxableAmount.Round(2)
	t.TaxAmount = t.TaxAmount.Round(2)
	t.GrandTotal = t.GrandTotal.Round(2)
	return t
}
