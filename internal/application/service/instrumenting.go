package service

import (
	"context"
	"time"

	"github.com/damon-houk/currency-account-service/internal/domain/entity"
	domainservice "github.com/damon-houk/currency-account-service/internal/domain/service"
	"github.com/damon-houk/currency-account-service/internal/infrastructure/metrics"
	"github.com/shopspring/decimal"
)

// instrumentingService decorates an AccountService with Prometheus metrics
type instrumentingService struct {
	metrics *metrics.Metrics
	next    AccountService
}

// NewInstrumentingService returns an AccountService that records metrics for s
func NewInstrumentingService(m *metrics.Metrics, s AccountService) AccountService {
	return &instrumentingService{metrics: m, next: s}
}

func (s *instrumentingService) CreateAccount(ctx context.Context, firstName, lastName string, targetCurrency entity.Currency, initialBaseAmount decimal.Decimal) (entity.Account, error) {
	account, err := s.next.CreateAccount(ctx, firstName, lastName, targetCurrency, initialBaseAmount)
	s.metrics.AccountsCreatedTotal.WithLabelValues(targetCurrency.String(), metrics.Result(err)).Inc()
	return account, err
}

func (s *instrumentingService) GetAccount(ctx context.Context, id string) (entity.Account, error) {
	return s.next.GetAccount(ctx, id)
}

func (s *instrumentingService) ExchangeCurrency(ctx context.Context, id string, from, to entity.Currency, amount decimal.Decimal) (entity.Account, error) {
	account, err := s.next.ExchangeCurrency(ctx, id, from, to, amount)
	s.metrics.ExchangesTotal.WithLabelValues(from.String(), to.String(), metrics.Result(err)).Inc()
	if err == nil {
		s.metrics.ExchangedAmountTotal.WithLabelValues(from.String()).Add(amount.InexactFloat64())
	}
	return account, err
}

// instrumentingRateProvider times every rate lookup
type instrumentingRateProvider struct {
	metrics *metrics.Metrics
	next    domainservice.ExchangeRateProvider
}

// NewInstrumentingRateProvider returns an ExchangeRateProvider that records lookup latency
func NewInstrumentingRateProvider(m *metrics.Metrics, p domainservice.ExchangeRateProvider) domainservice.ExchangeRateProvider {
	return &instrumentingRateProvider{metrics: m, next: p}
}

func (p *instrumentingRateProvider) GetExchangeRate(ctx context.Context, currency entity.Currency) (decimal.Decimal, error) {
	begin := time.Now()
	rate, err := p.next.GetExchangeRate(ctx, currency)
	p.metrics.RateLookupDuration.WithLabelValues(currency.String(), metrics.Result(err)).Observe(time.Since(begin).Seconds())
	return rate, err
}
