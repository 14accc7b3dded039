package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{name: "plain float", in: 1250.5, want: "1250.5"},
		{name: "int", in: 80, want: "80"},
		{name: "plain string", in: "1250.50", want: "1250.5"},
		{name: "currency symbol", in: "RM 1,250.00", want: "1250"},
		{name: "thousands separators", in: "12,345,678.90", want: "12345678.9"},
		{name: "negative string", in: "-42.10", want: "-42.1"},
		{name: "garbage", in: "n/a", want: "0"},
		{name: "empty string", in: "", want: "0"},
		{name: "nil", in: nil, want: "0"},
		{name: "unsupported type", in: []string{"1"}, want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseAmount(tt.in)
			if got.String() != tt.want {
				t.Errorf("ParseAmount(%v) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestRemaining(t *testing.T) {
	tests := []struct {
		name  string
		total string
		paid  string
		want  string
	}{
		{name: "partially paid", total: "100", paid: "40", want: "60"},
		{name: "fully paid", total: "50", paid: "50", want: "0"},
		{name: "unpaid", total: "80", paid: "0", want: "80"},
		{name: "overpaid is never negative", total: "30", paid: "45", want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			total := decimal.RequireFromString(tt.total)
			paid := decimal.RequireFromString(tt.paid)
			if got := Remaining(total, paid); got.String() != tt.want {
				t.Errorf("Remaining(%s, %s) = %s, want %s", tt.total, tt.paid, got, tt.want)
			}
		})
	}
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		currency string
		want     string
	}{
		{name: "grouping", amount: "12345.6", currency: "MYR", want: "MYR 12,345.60"},
		{name: "no grouping needed", amount: "999.99", currency: "MYR", want: "MYR 999.99"},
		{name: "millions", amount: "1234567", currency: "USD", want: "USD 1,234,567.00"},
		{name: "negative", amount: "-1500", currency: "MYR", want: "-MYR 1,500.00"},
		{name: "default currency", amount: "10", currency: "", want: "MYR 10.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatAmount(decimal.RequireFromString(tt.amount), tt.currency)
			if got != tt.want {
				t.Errorf("FormatAmount(%s, %q) = %q, want %q", tt.amount, tt.currency, got, tt.want)
			}
		})
	}
}
