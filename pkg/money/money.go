package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatIDR renders an amount as Indonesian Rupiah with dot-grouped
// thousands and no fraction digits, e.g. "Rp 1.250.000". Negative amounts
// carry a leading minus sign.
func FormatIDR(amount decimal.Decimal) string {
	rounded := amount.Round(0)
	negative := rounded.IsNegative()
	digits := rounded.Abs().StringFixed(0)

	var b strings.Builder
	if negative {
		b.WriteByte('-')
	}
	b.WriteString("Rp ")

	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
		if len(digits) > lead {
			b.WriteByte('.')
		}
	}
	for i := lead; i < len(digits); i += 3 {
		b.WriteString(digits[i : i+3])
		if i+3 < len(digits) {
			b.WriteByte('.')
		}
	}
	return b.String()
}

// ParseAmount parses the backend's decimal-string money representation.
func ParseAmount(value string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.TrimSpace(value))
}
