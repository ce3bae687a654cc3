package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// MaxItemPrice is the sanity bound for a single line item.
var MaxItemPrice = decimal.NewFromInt(10000)

func ValidItemName(name string) bool {
	return strings.TrimSpace(name) != ""
}

// ValidPrice accepts non-negative amounts up to MaxItemPrice with at most
// two decimal places (currency scale).
func ValidPrice(price decimal.Decimal) bool {
	if price.IsNegative() || price.GreaterThan(MaxItemPrice) {
		return false
	}
	return price.Exponent() >= -2 || price.Equal(price.Round(2))
}
