package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate is the number of base currency units per one unit of Currency,
// as published on EffectiveDate
type ExchangeRate struct {
	Currency      Currency        `json:"currency"`
	EffectiveDate time.Time       `json:"effectiveDate"`
	Rate          decimal.Decimal `json:"rate"`
}
