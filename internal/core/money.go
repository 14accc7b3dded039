// Package core implements the document pipeline shared by the orders,
// invoices and dashboard views: payload normalization, due-window
// classification, monthly aggregation and list filtering.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultCurrency is assumed when the backend omits a currency code.
const DefaultCurrency = "MYR"

// ParseAmount coerces a loosely-typed backend value into a decimal amount.
//
// The ERP returns amounts as JSON numbers on some endpoints and as
// formatted strings ("RM 1,250.00") on others. Strings are stripped of
// currency symbols and thousands separators before parsing. Anything that
// still fails to parse becomes zero; the normalizer never errors on a bad
// amount.
func ParseAmount(v any) decimal.Decimal {
	switch n := v.(type) {
	case nil:
		return decimal.Zero
	case float64:
		return decimal.NewFromFloat(n)
	case float32:
		return decimal.NewFromFloat32(n)
	case int:
		return decimal.NewFromInt(int64(n))
	case int64:
		return decimal.NewFromInt(n)
	case string:
		return parseAmountString(n)
	default:
		return decimal.Zero
	}
}

func parseAmountString(s string) decimal.Decimal {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r == '.':
			b.WriteRune(r)
		case r == '-' && b.Len() == 0:
			b.WriteRune(r)
		}
		// Everything else (currency symbols, commas, spaces) is dropped.
	}
	d, err := decimal.NewFromString(b.String())
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Remaining returns the unpaid balance, floored at zero so overpaid
// documents never show a negative amount due.
func Remaining(total, paidToDate decimal.Decimal) decimal.Decimal {
	rem := total.Sub(paidToDate)
	if rem.IsNegative() {
		return decimal.Zero
	}
	return rem
}

// FormatAmount renders an amount with the currency code and thousands
// grouping, e.g. "MYR 12,345.60".
func FormatAmount(amount decimal.Decimal, currency string) string {
	if currency == "" {
		currency = DefaultCurrency
	}
	neg := amount.IsNegative()
	fixed := amount.Abs().StringFixed(2)

	intPart, fracPart, _ := strings.Cut(fixed, ".")
	var b strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}

	out := currency + " " + b.String() + "." + fracPart
	if neg {
		out = "-" + out
	}
	return out
}
