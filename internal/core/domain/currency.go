package domain

import (
	"strings"

	"github.com/Rhymond/go-money"
)

// ResolveCurrency returns the ISO 4217 currency for code. Unknown or empty
// codes resolve to USD.
func ResolveCurrency(code string) *money.Currency {
	if cur := money.GetCurrency(strings.ToUpper(strings.TrimSpace(code))); cur != nil {
		return cur
	}
	return money.GetCurrency(money.USD)
}

// AmountScale is the number of fractional digits amounts in code may carry.
func AmountScale(code string) int32 {
	return int32(ResolveCurrency(code).Fraction)
}
