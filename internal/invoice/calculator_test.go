package invoice

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

func testLines() []SelectedLine {
	return []SelectedLine{
		{Item: LineItem{ID: "a", Name: "Screen Assembly", UnitPrice: dec(100)}, Quantity: 2},
		{Item: LineItem{ID: "b", Name: "Battery", UnitPrice: dec(50)}, Quantity: 1},
	}
}

func assertMoney(t *testing.T, name string, got decimal.Decimal, want float64) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Errorf("%s = %s, want %v", name, got, want)
	}
}

func TestCalculatePercentageDiscount(t *testing.T) {
	totals := Calculate(testLines(), Details{
		Discount:     dec(10),
		DiscountType: DiscountPercentage,
	})

	assertMoney(t, "subtotal", totals.Subtotal, 250)
	assertMoney(t, "discountAmount", totals.DiscountAmount, 25)
	assertMoney(t, "taxableAmount", totals.TaxableAmount, 225)
	assertMoney(t, "tax", totals.Tax, 40.5)
	assertMoney(t, "total", totals.Total, 265.5)
}

func TestCalculateFixedDiscount(t *testing.T) {
	totals := Calculate(testLines(), Details{
		Discount:     dec(30),
		DiscountType: DiscountFixed,
	})

	assertMoney(t, "discountAmount", totals.DiscountAmount, 30)
	assertMoney(t, "taxableAmount", totals.TaxableAmount, 220)
	assertMoney(t, "tax", totals.Tax, 39.6)
	assertMoney(t, "total", totals.Total, 259.6)
}

func TestCalculateDiscountTypeSwitchChangesFormula(t *testing.T) {
	pct := Calculate(testLines(), Details{Discount: dec(10), DiscountType: DiscountPercentage})
	fixed := Calculate(testLines(), Details{Discount: dec(10), DiscountType: DiscountFixed})

	assertMoney(t, "percentage discountAmount", pct.DiscountAmount, 25)
	assertMoney(t, "fixed discountAmount", fixed.DiscountAmount, 10)
}

func TestCalculatePartialPayment(t *testing.T) {
	totals := Calculate(testLines(), Details{
		Discount:      dec(10),
		DiscountType:  DiscountPercentage,
		PaymentStatus: StatusPartial,
		PartialAmount: dec(100),
	})

	if !totals.ShowRemaining {
		t.Fatal("ShowRemaining should be true for Partial status")
	}
	assertMoney(t, "remainingAmount", totals.RemainingAmount, 165.5)
}

func TestCalculateRemainingHiddenForSettledStatuses(t *testing.T) {
	for _, status := range []PaymentStatus{StatusPaid, StatusPending, StatusOverdue, StatusCancelled} {
		totals := Calculate(testLines(), Details{PaymentStatus: status, PartialAmount: dec(100)})
		if totals.ShowRemaining {
			t.Errorf("ShowRemaining true for status %s", status)
		}
	}
}

func TestCalculateDeterminism(t *testing.T) {
	d := Details{
		Discount:       dec(12.5),
		DiscountType:   DiscountPercentage,
		ServiceCharges: dec(75),
		PaymentStatus:  StatusAdvance,
		PartialAmount:  dec(40),
	}

	first := Calculate(testLines(), d)
	for i := 0; i < 10; i++ {
		again := Calculate(testLines(), d)
		if !again.Total.Equal(first.Total) || !again.Tax.Equal(first.Tax) || !again.RemainingAmount.Equal(first.RemainingAmount) {
			t.Fatalf("run %d diverged: %+v vs %+v", i, again, first)
		}
	}
}

func TestCalculateServiceChargesEnterTaxableBase(t *testing.T) {
	totals := Calculate(testLines(), Details{ServiceCharges: dec(50)})

	assertMoney(t, "taxableAmount", totals.TaxableAmount, 300)
	assertMoney(t, "tax", totals.Tax, 54)
	assertMoney(t, "total", totals.Total, 354)
}

// The original never guarded against a discount larger than the goods
// value, letting the taxable amount go negative. We clamp the discount to
// the subtotal instead; this test pins that deliberate deviation.
func TestCalculateOversizedDiscountIsClamped(t *testing.T) {
	totals := Calculate(testLines(), Details{Discount: dec(10000), DiscountType: DiscountFixed})

	assertMoney(t, "discountAmount", totals.DiscountAmount, 250)
	assertMoney(t, "taxableAmount", totals.TaxableAmount, 0)
	assertMoney(t, "total", totals.Total, 0)
}

// The original clamped the partial amount only when it was typed, so
// removing an item afterwards could drive the remaining amount negative.
// We re-clamp at use time; this test pins that deliberate deviation.
func TestCalculateStalePartialAmountIsReclamped(t *testing.T) {
	totals := Calculate(testLines(), Details{
		PaymentStatus: StatusPartial,
		PartialAmount: dec(9999), // entered against a larger, since-shrunk selection
	})

	assertMoney(t, "partialAmount", totals.PartialAmount, 295)
	assertMoney(t, "remainingAmount", totals.RemainingAmount, 0)
}

func TestCalculateNegativeInputsCoerceToZero(t *testing.T) {
	totals := Calculate(testLines(), Details{
		Discount:       dec(-20),
		DiscountType:   DiscountFixed,
		ServiceCharges: dec(-5),
		PartialAmount:  dec(-1),
	})

	assertMoney(t, "discountAmount", totals.DiscountAmount, 0)
	assertMoney(t, "serviceCharges", totals.ServiceCharges, 0)
	assertMoney(t, "taxableAmount", totals.TaxableAmount, 250)
}

func TestCalculateEmptySelection(t *testing.T) {
	totals := Calculate(nil, Details{})
	assertMoney(t, "subtotal", totals.Subtotal, 0)
	assertMoney(t, "total", totals.Total, 0)
}
