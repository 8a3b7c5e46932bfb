package entity

import (
	"fmt"
	"strings"
)

// Currency is an ISO 4217 code from the closed set the service supports
type Currency string

const (
	PLN Currency = "PLN"
	USD Currency = "USD"
	EUR Currency = "EUR"
	GBP Currency = "GBP"
	CHF Currency = "CHF"
)

var supportedCurrencies = map[Currency]struct{}{
	PLN: {},
	USD: {},
	EUR: {},
	GBP: {},
	CHF: {},
}

// ParseCurrency validates a currency code at the system boundary.
// Codes are matched case-insensitively after trimming.
func ParseCurrency(code string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(code)))
	if !c.IsSupported() {
		return "", fmt.Errorf("%w: %q", ErrInvalidCurrency, code)
	}
	return c, nil
}

// IsSupported reports whether c belongs to the supported set
func (c Currency) IsSupported() bool {
	_, ok := supportedCurrencies[c]
	return ok
}

func (c Currency) String() string {
	return string(c)
}
