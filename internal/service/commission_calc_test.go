package service

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestCalculateCommission(t *testing.T) {
	cases := []struct {
		base string
		rate string
		want string
	}{
		{"50000", "15", "7500.00"},
		{"1000", "10", "100.00"},
		{"100000", "15", "15000.00"},
		{"333.33", "10", "33.33"},
		{"10000", "0.5", "50.00"},
		{"0", "10", "0.00"},
	}
	for _, tc := range cases {
		base, err := decimal.NewFromString(tc.base)
		if err != nil {
			t.Fatalf("bad base %q: %v", tc.base, err)
		}
		rate, err := decimal.NewFromString(tc.rate)
		if err != nil {
			t.Fatalf("bad rate %q: %v", tc.rate, err)
		}
		if got := CalculateCommission(base, rate).StringFixed(2); got != tc.want {
			t.Fatalf("CalculateCommission(%s, %s) = %s, want %s", tc.base, tc.rate, got, tc.want)
		}
	}
}

func TestExtractBaseAmount(t *testing.T) {
	fallback := decimal.NewFromInt(1000)
	cases := []struct {
		raw  string
		want string
	}{
		{"$50,000 - $100,000", "50000"},
		{"$100,000 - $250,000", "100000"},
		{"50000", "50000"},
		{"about 25k", "25"},
		{"USD 75,500.50", "75500.5"},
		{"", "1000"},
		{"to be discussed", "1000"},
		{"$ - ", "1000"},
	}
	for _, tc := range cases {
		want, err := decimal.NewFromString(tc.want)
		if err != nil {
			t.Fatalf("bad want %q: %v", tc.want, err)
		}
		if got := ExtractBaseAmount(tc.raw, fallback); !got.Equal(want) {
			t.Fatalf("ExtractBaseAmount(%q) = %s, want %s", tc.raw, got.String(), want.String())
		}
	}
}

func TestExtractBaseAmountIgnoresZeroToken(t *testing.T) {
	fallback := decimal.NewFromInt(1000)
	// A zero first token is not a usable base; the next token wins.
	got := ExtractBaseAmount("0 or 5000", fallback)
	if !got.Equal(decimal.NewFromInt(5000)) {
		t.Fatalf("expected 5000, got %s", got.String())
	}
}
