package core

import "testing"

func TestFormatCurrency(t *testing.T) {
	cases := []struct {
		amount float64
		symbol string
		want   string
	}{
		{0, "₹", "₹0"},
		{5, "₹", "₹5"},
		{999, "₹", "₹999"},
		{1000, "₹", "₹1,000"},
		{15000, "₹", "₹15,000"},
		{100000, "₹", "₹1,00,000"},
		{1234567, "₹", "₹12,34,567"},
		{12345678, "₹", "₹1,23,45,678"},
		{1499.5, "₹", "₹1,500"}, // rounds half up
		{1499.4, "₹", "₹1,499"},
		{-2500, "₹", "-₹2,500"},
		{1000, "$", "$1,000"},
	}
	for _, tc := range cases {
		if got := FormatCurrency(tc.amount, tc.symbol); got != tc.want {
			t.Errorf("FormatCurrency(%v, %q) = %q, want %q", tc.amount, tc.symbol, got, tc.want)
		}
	}
}
