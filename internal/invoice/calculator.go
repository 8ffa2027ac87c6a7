package invoice

import "github.com/shopspring/decimal"

// TaxRate is the fixed GST rate applied to every invoice. Not configurable.
var TaxRate = decimal.NewFromFloat(0.18)

// Totals is the derived financial summary of one invoice. It is recomputed
// from the current selection and details on every change and never stored.
type Totals struct {
	Subtotal        decimal.Decimal
	DiscountAmount  decimal.Decimal
	ServiceCharges  decimal.Decimal
	TaxableAmount   decimal.Decimal
	Tax             decimal.Decimal
	Total           decimal.Decimal
	PartialAmount   decimal.Decimal
	RemainingAmount decimal.Decimal
	// ShowRemaining reports whether the partial/remaining pair is
	// meaningful for the invoice's payment status.
	ShowRemaining bool
}

// Calculate maps the selected lines and invoice details to a Totals record.
// Pure: identical inputs always produce identical totals, and it never
// fails. Negative money inputs are coerced to zero before use.
//
// Two clamps here go beyond the original behavior and are deliberate:
// the discount is capped at the subtotal so the taxable amount cannot go
// negative, and the partial payment is capped at the grand total at use
// time so the remaining amount cannot go negative even when the selection
// shrank after the partial amount was entered.
func Calculate(lines []SelectedLine, d Details) Totals {
	subtotal := decimal.Zero
	for _, line := range lines {
		if line.Quantity < 1 || line.Item.UnitPrice.IsNegative() {
			continue
		}
		subtotal = subtotal.Add(line.Amount())
	}

	discount := clampNonNegative(d.Discount)
	serviceCharges := clampNonNegative(d.ServiceCharges)

	var discountAmount decimal.Decimal
	if d.DiscountType == DiscountPercentage {
		discountAmount = subtotal.Mul(discount).Div(decimal.NewFromInt(100))
	} else {
		discountAmount = discount
	}
	if discountAmount.GreaterThan(subtotal) {
		discountAmount = subtotal
	}

	taxableAmount := subtotal.Sub(discountAmount).Add(serviceCharges)
	tax := taxableAmount.Mul(TaxRate)
	total := taxableAmount.Add(tax)

	partial := clampNonNegative(d.PartialAmount)
	if partial.GreaterThan(total) {
		partial = total
	}

	return Totals{
		Subtotal:        subtotal,
		DiscountAmount:  discountAmount,
		ServiceCharges:  serviceCharges,
		TaxableAmount:   taxableAmount,
		Tax:             tax,
		Total:           total,
		PartialAmount:   partial,
		RemainingAmount: total.Sub(partial),
		ShowRemaining:   d.PaymentStatus == StatusPartial || d.PaymentStatus == StatusAdvance,
	}
}

func clampNonNegative(v decimal.Decimal) decimal.Decimal {
	if v.IsNegative() {
		return decimal.Zero
	}
	return v
}
