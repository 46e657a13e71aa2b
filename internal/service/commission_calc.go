package service

import (
	"strings"

	"github.com/shopspring/decimal"
)

var commissionDivisor = decimal.NewFromInt(100)

// CalculateCommission prices a commission from a base amount and a percentage
// rate, rounded to 2 places.
func CalculateCommission(baseAmount, rate decimal.Decimal) decimal.Decimal {
	return baseAmount.Mul(rate.Round(2)).Div(commissionDivisor).Round(2)
}

// ExtractBaseAmount pulls the first numeric token out of a free-text funding
// amount such as "$50,000 - $100,000". Thousands separators are dropped and
// currency symbols ignored. fallback is returned when no token parses.
func ExtractBaseAmount(raw string, fallback decimal.Decimal) decimal.Decimal {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	var token strings.Builder
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			token.WriteRune(r)
		case r == '.' && token.Len() > 0:
			token.WriteRune(r)
		case r == ',' && token.Len() > 0:
			// thousands separator inside a number
		default:
			if token.Len() > 0 {
				if amount, ok := parseBaseToken(token.String()); ok {
					return amount
				}
				token.Reset()
			}
		}
	}
	if token.Len() > 0 {
		if amount, ok := parseBaseToken(token.String()); ok {
			return amount
		}
	}
	return fallback
}

func parseBaseToken(token string) (decimal.Decimal, bool) {
	token = strings.TrimSuffix(token, ".")
	if token == "" {
		return decimal.Zero, false
	}
	amount, err := decimal.NewFromString(token)
	if err != nil || !amount.IsPositive() {
		return decimal.Zero, false
	}
	return amount.Round(2), true
}
