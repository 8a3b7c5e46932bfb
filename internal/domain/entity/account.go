package entity

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Account holds a customer's balances in a base currency and a single target currency
type Account struct {
	ID             string          `json:"id"`
	FirstName      string          `json:"firstName"`
	LastName       string          `json:"lastName"`
	BaseCurrency   Currency        `json:"baseCurrency"`
	TargetCurrency Currency        `json:"targetCurrency"`
	BaseAmount     decimal.Decimal `json:"baseAmount"`
	TargetAmount   decimal.Decimal `json:"targetAmount"`
	Version        uint64          `json:"version"`
}

// NewAccount builds an unsaved account with a zero target balance
func NewAccount(firstName, lastName string, base, target Currency, initialBaseAmount decimal.Decimal) Account {
	return Account{
		FirstName:      firstName,
		LastName:       lastName,
		BaseCurrency:   base,
		TargetCurrency: target,
		BaseAmount:     initialBaseAmount,
		TargetAmount:   decimal.Zero,
	}
}

// Holds reports whether c is the account's base or target currency
func (a Account) Holds(c Currency) bool {
	return c == a.BaseCurrency || c == a.TargetCurrency
}

// Exchange moves amount out of the from leg and credits amount*rate to the to leg.
// The receiver is left untouched; the updated account is returned.
// The product is kept at full precision.
func (a Account) Exchange(from, to Currency, amount, rate decimal.Decimal) (Account, error) {
	if !amount.IsPositive() {
		return a, fmt.Errorf("%w: amount must be positive, got %s", ErrInvalidAmount, amount)
	}
	if !rate.IsPositive() {
		return a, fmt.Errorf("%w: rate must be positive, got %s", ErrInvalidRate, rate)
	}

	converted := amount.Mul(rate)
	next := a

	switch {
	case from == a.BaseCurrency && to == a.TargetCurrency:
		if a.BaseAmount.LessThan(amount) {
			return a, &InsufficientBalanceError{Currency: from}
		}
		next.BaseAmount = a.BaseAmount.Sub(amount)
		next.TargetAmount = a.TargetAmount.Add(converted)
	case from == a.TargetCurrency && to == a.BaseCurrency:
		if a.TargetAmount.LessThan(amount) {
			return a, &InsufficientBalanceError{Currency: from}
		}
		next.TargetAmount = a.TargetAmount.Sub(amount)
		next.BaseAmount = a.BaseAmount.Add(converted)
	default:
		return a, fmt.Errorf("%w: %s -> %s", ErrInvalidDirection, from, to)
	}

	return next, nil
}
