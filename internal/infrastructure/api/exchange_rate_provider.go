// Package api reaches the NBP exchange rate source
package api

import (
	"context"
	"fmt"

	"github.com/damon-houk/currency-account-service/internal/domain/entity"
	"github.com/damon-houk/currency-account-service/internal/infrastructure/logger"
	"github.com/shopspring/decimal"
)

const (
	// nbpQuoteCurrency is the currency every NBP table A mid is expressed in
	nbpQuoteCurrency = entity.PLN

	// crossRatePlaces is the scale of a rate derived from two NBP mids
	crossRatePlaces = 8
)

// MidRateFetcher defines an interface for sources of NBP mid rates
type MidRateFetcher interface {
	FetchMidRate(ctx context.Context, currency entity.Currency) (*entity.ExchangeRate, error)
}

// NBPExchangeRateProvider implements the domain ExchangeRateProvider on top of NBP table A
type NBPExchangeRateProvider struct {
	fetcher     MidRateFetcher
	defaultBase entity.Currency
	logger      logger.Logger
}

// NewNBPExchangeRateProvider creates a rate provider quoting against defaultBase
func NewNBPExchangeRateProvider(fetcher MidRateFetcher, defaultBase entity.Currency, log logger.Logger) *NBPExchangeRateProvider {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &NBPExchangeRateProvider{
		fetcher:     fetcher,
		defaultBase: defaultBase,
		logger:      log,
	}
}

// GetExchangeRate returns the number of default base units per one unit of currency.
// NBP quotes every currency in PLN, so for any other default base the rate is the
// cross rate mid(currency)/mid(base).
func (p *NBPExchangeRateProvider) GetExchangeRate(ctx context.Context, currency entity.Currency) (decimal.Decimal, error) {
	if currency == p.defaultBase {
		return decimal.NewFromInt(1), nil
	}

	quote, err := p.plnPerUnit(ctx, currency)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if p.defaultBase == nbpQuoteCurrency {
		return quote, nil
	}

	base, err := p.plnPerUnit(ctx, p.defaultBase)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return quote.DivRound(base, crossRatePlaces), nil
}

// plnPerUnit returns the NBP mid for currency, or 1 for PLN itself
func (p *NBPExchangeRateProvider) plnPerUnit(ctx context.Context, currency entity.Currency) (decimal.Decimal, error) {
	if currency == nbpQuoteCurrency {
		return decimal.NewFromInt(1), nil
	}

	rate, err := p.fetcher.FetchMidRate(ctx, currency)
	if err != nil {
		p.logger.Error("Failed to retrieve exchange rate", map[string]interface{}{
			"currency": currency,
			"error":    err.Error(),
		})
		return decimal.Decimal{}, fmt.Errorf("failed to retrieve exchange rate: %w", err)
	}
	if !rate.Rate.IsPositive() {
		return decimal.Decimal{}, fmt.Errorf("%w: non-positive mid %s for %s", entity.ErrInvalidRateData, rate.Rate, currency)
	}

	p.logger.Debug("Exchange rate found", map[string]interface{}{
		"currency":       currency,
		"rate":           rate.Rate,
		"effective_date": rate.EffectiveDate.Format("2006-01-02"),
	})

	return rate.Rate, nil
}
