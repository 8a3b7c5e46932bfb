package service

import (
	"context"

	"github.com/damon-houk/currency-account-service/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ExchangeRateProvider resolves how many units of the default base currency one unit of
// currency is worth. Implementations return a positive rate, or an error wrapping
// entity.ErrRateUnavailable or entity.ErrInvalidRateData.
type ExchangeRateProvider interface {
	GetExchangeRate(ctx context.Context, currency entity.Currency) (decimal.Decimal, error)
}
