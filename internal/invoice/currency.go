package invoice

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CurrencyCode is the single supported billing currency.
const CurrencyCode = "INR"

// FormatAmount renders a monetary amount as "INR 1,23,456.78" using Indian
// digit grouping: a separator before the last three integer digits, then
// before every two digits. Exactly two fraction digits are always printed.
func FormatAmount(amount decimal.Decimal) string {
	fixed := amount.StringFixed(2)

	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign = "-"
		fixed = fixed[1:]
	}

	intPart, fracPart, _ := strings.Cut(fixed, ".")
	return CurrencyCode + " " + sign + groupIndian(intPart) + "." + fracPart
}

// groupIndian inserts commas per the Indian numbering system
// (1,23,45,678 rather than 12,345,678).
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	head := digits[:len(digits)-3]
	tail := digits[len(digits)-3:]

	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}
	groups = append(groups, tail)

	return strings.Join(groups, ",")
}
