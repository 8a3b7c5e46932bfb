// Package service implements the account use cases
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/damon-houk/currency-account-service/internal/domain/entity"
	"github.com/damon-houk/currency-account-service/internal/domain/repository"
	domainservice "github.com/damon-houk/currency-account-service/internal/domain/service"
	"github.com/shopspring/decimal"
)

// inverseRatePlaces is the scale of a rate derived as 1/rate
const inverseRatePlaces = 4

// DefaultMaxAttempts bounds how often an exchange is re-applied after a concurrent update
const DefaultMaxAttempts = 3

// AccountService creates accounts and exchanges between their two currencies
type AccountService interface {
	CreateAccount(ctx context.Context, firstName, lastName string, targetCurrency entity.Currency, initialBaseAmount decimal.Decimal) (entity.Account, error)
	GetAccount(ctx context.Context, id string) (entity.Account, error)
	ExchangeCurrency(ctx context.Context, id string, from, to entity.Currency, amount decimal.Decimal) (entity.Account, error)
}

type accountService struct {
	repo        repository.AccountRepository
	rates       domainservice.ExchangeRateProvider
	defaultBase entity.Currency
	maxAttempts int
}

// NewAccountService creates the account service. Every account it creates uses
// defaultBase as its base currency. maxAttempts below 1 falls back to DefaultMaxAttempts.
func NewAccountService(repo repository.AccountRepository, rates domainservice.ExchangeRateProvider, defaultBase entity.Currency, maxAttempts int) AccountService {
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxAttempts
	}

	return &accountService{
		repo:        repo,
		rates:       rates,
		defaultBase: defaultBase,
		maxAttempts: maxAttempts,
	}
}

// CreateAccount stores a new account holding initialBaseAmount in the default base currency
func (s *accountService) CreateAccount(ctx context.Context, firstName, lastName string, targetCurrency entity.Currency, initialBaseAmount decimal.Decimal) (entity.Account, error) {
	if !targetCurrency.IsSupported() {
		return entity.Account{}, fmt.Errorf("%w: %q", entity.ErrInvalidCurrency, targetCurrency)
	}
	if initialBaseAmount.IsNegative() {
		return entity.Account{}, fmt.Errorf("%w: initial base amount must not be negative", entity.ErrInvalidAmount)
	}

	account := entity.NewAccount(firstName, lastName, s.defaultBase, targetCurrency, initialBaseAmount)

	saved, err := s.repo.Save(ctx, account)
	if err != nil {
		return entity.Account{}, fmt.Errorf("failed to save account: %w", err)
	}

	return saved, nil
}

// GetAccount retrieves an account by ID
func (s *accountService) GetAccount(ctx context.Context, id string) (entity.Account, error) {
	account, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return entity.Account{}, fmt.Errorf("failed to retrieve account %s: %w", id, err)
	}
	return account, nil
}

// ExchangeCurrency converts amount from one of the account's currencies into the other.
// When the save loses a race with another writer the whole cycle is re-applied
// to the fresh state, at most maxAttempts times.
func (s *accountService) ExchangeCurrency(ctx context.Context, id string, from, to entity.Currency, amount decimal.Decimal) (entity.Account, error) {
	var err error
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		var account entity.Account
		account, err = s.exchangeOnce(ctx, id, from, to, amount)
		if err == nil {
			return account, nil
		}
		if !errors.Is(err, entity.ErrConcurrentUpdate) {
			return entity.Account{}, err
		}
	}

	return entity.Account{}, fmt.Errorf("exchange abandoned after %d attempts: %w", s.maxAttempts, err)
}

func (s *accountService) exchangeOnce(ctx context.Context, id string, from, to entity.Currency, amount decimal.Decimal) (entity.Account, error) {
	account, err := s.GetAccount(ctx, id)
	if err != nil {
		return entity.Account{}, err
	}

	if !account.Holds(from) {
		return entity.Account{}, fmt.Errorf("%w: source currency %s", entity.ErrInvalidCurrencyForAccount, from)
	}
	if !account.Holds(to) {
		return entity.Account{}, fmt.Errorf("%w: target currency %s", entity.ErrInvalidCurrencyForAccount, to)
	}

	// Rates are quoted against the default base, so an account on another base
	// would be converted at the wrong rate.
	if account.BaseCurrency != s.defaultBase {
		return entity.Account{}, fmt.Errorf("%w: account base %s, default base %s",
			entity.ErrBaseCurrencyMismatch, account.BaseCurrency, s.defaultBase)
	}

	rate, err := s.resolveRate(ctx, from, to)
	if err != nil {
		return entity.Account{}, err
	}

	updated, err := account.Exchange(from, to, amount, rate)
	if err != nil {
		return entity.Account{}, err
	}

	saved, err := s.repo.Save(ctx, updated)
	if err != nil {
		return entity.Account{}, fmt.Errorf("failed to save account: %w", err)
	}

	return saved, nil
}

// resolveRate returns the rate to apply when converting from into to.
// Buying a foreign currency uses the quoted rate directly; selling it uses the
// inverse rounded half-up to four places.
func (s *accountService) resolveRate(ctx context.Context, from, to entity.Currency) (decimal.Decimal, error) {
	switch {
	case from == s.defaultBase:
		return s.lookupRate(ctx, to)
	case to == s.defaultBase:
		rate, err := s.lookupRate(ctx, from)
		if err != nil {
			return decimal.Decimal{}, err
		}
		return decimal.NewFromInt(1).DivRound(rate, inverseRatePlaces), nil
	default:
		return decimal.Decimal{}, fmt.Errorf("%w: exchange between %s and %s", entity.ErrUnsupportedCurrencyPair, from, to)
	}
}

func (s *accountService) lookupRate(ctx context.Context, currency entity.Currency) (decimal.Decimal, error) {
	rate, err := s.rates.GetExchangeRate(ctx, currency)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("failed to get exchange rate for %s: %w", currency, err)
	}
	if !rate.IsPositive() {
		return decimal.Decimal{}, fmt.Errorf("%w: non-positive rate %s for %s", entity.ErrInvalidRateData, rate, currency)
	}
	return rate, nil
}
