package invoice

import "testing"

func TestFormatAmountIndianGrouping(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "INR 0.00"},
		{5, "INR 5.00"},
		{250, "INR 250.00"},
		{1234, "INR 1,234.00"},
		{99999, "INR 99,999.00"},
		{100000, "INR 1,00,000.00"},
		{1234567.891, "INR 12,34,567.89"},
		{12345678, "INR 1,23,45,678.00"},
		{265.5, "INR 265.50"},
		{-1234.5, "INR -1,234.50"},
	}

	for _, c := range cases {
		if got := FormatAmount(dec(c.in)); got != c.want {
			t.Errorf("FormatAmount(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFormatAmountAlwaysTwoFractionDigits(t *testing.T) {
	for _, in := range []float64{1, 1.1, 1.119, 1.999} {
		got := FormatAmount(dec(in))
		if len(got) < 4 || got[len(got)-3] != '.' {
			t.Errorf("FormatAmount(%v) = %q: fraction is not exactly two digits", in, got)
		}
	}
}
