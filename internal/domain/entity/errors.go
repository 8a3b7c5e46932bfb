package entity

import (
	"errors"
	"fmt"
)

var (
	// ErrAccountNotFound indicates no account exists for the requested identifier
	ErrAccountNotFound = errors.New("account not found")

	// ErrInvalidCurrency indicates a currency code outside the supported set
	ErrInvalidCurrency = errors.New("invalid currency")

	// ErrInvalidCurrencyForAccount indicates a currency that is neither the account's base nor target
	ErrInvalidCurrencyForAccount = errors.New("currency not supported by this account")

	// ErrUnsupportedCurrencyPair indicates an exchange where neither leg is the default base currency
	ErrUnsupportedCurrencyPair = errors.New("unsupported currency pair")

	// ErrInsufficientBalance indicates the source leg holds less than the requested amount
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrInvalidDirection indicates a pair that is not base->target or target->base
	ErrInvalidDirection = errors.New("invalid exchange direction for this account")

	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidRate   = errors.New("invalid exchange rate")

	// ErrRateUnavailable indicates the upstream rate source could not be reached
	ErrRateUnavailable = errors.New("exchange rate unavailable")

	// ErrInvalidRateData indicates the upstream rate source returned no usable rate
	ErrInvalidRateData = errors.New("invalid exchange rate data")

	// ErrConcurrentUpdate indicates the stored account changed since it was loaded
	ErrConcurrentUpdate = errors.New("account was modified concurrently")

	// ErrBaseCurrencyMismatch indicates an account whose base differs from the configured default base
	ErrBaseCurrencyMismatch = errors.New("account base currency differs from default base currency")
)

// InsufficientBalanceError names the currency whose balance was too low
type InsufficientBalanceError struct {
	Currency Currency
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient %s balance", e.Currency)
}

// Is lets errors.Is match ErrInsufficientBalance
func (e *InsufficientBalanceError) Is(target error) bool {
	return target == ErrInsufficientBalance
}
