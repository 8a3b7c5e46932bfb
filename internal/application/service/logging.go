package service

import (
	"context"
	"time"

	"github.com/damon-houk/currency-account-service/internal/domain/entity"
	"github.com/damon-houk/currency-account-service/internal/infrastructure/logger"
	"github.com/damon-houk/currency-account-service/internal/requestid"
	"github.com/shopspring/decimal"
)

// loggingService decorates an AccountService with logging
type loggingService struct {
	logger logger.Logger
	next   AccountService
}

// NewLoggingService returns an AccountService that logs every call made to s
func NewLoggingService(log logger.Logger, s AccountService) AccountService {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &loggingService{
		logger: log,
		next:   s,
	}
}

func (s *loggingService) CreateAccount(ctx context.Context, firstName, lastName string, targetCurrency entity.Currency, initialBaseAmount decimal.Decimal) (account entity.Account, err error) {
	defer func(begin time.Time) {
		fields := map[string]interface{}{
			"request_id":          requestid.FromContext(ctx),
			"method":              "create_account",
			"target_currency":     targetCurrency,
			"initial_base_amount": initialBaseAmount,
			"took":                time.Since(begin).String(),
		}
		if err != nil {
			fields["error"] = err.Error()
			s.logger.Error("Account creation failed", fields)
			return
		}
		fields["id"] = account.ID
		s.logger.Info("Account created", fields)
	}(time.Now())

	return s.next.CreateAccount(ctx, firstName, lastName, targetCurrency, initialBaseAmount)
}

func (s *loggingService) GetAccount(ctx context.Context, id string) (account entity.Account, err error) {
	defer func(begin time.Time) {
		fields := map[string]interface{}{
			"request_id": requestid.FromContext(ctx),
			"method":     "get_account",
			"id":         id,
			"took":       time.Since(begin).String(),
		}
		if err != nil {
			fields["error"] = err.Error()
			s.logger.Warn("Account lookup failed", fields)
			return
		}
		s.logger.Debug("Account retrieved", fields)
	}(time.Now())

	return s.next.GetAccount(ctx, id)
}

func (s *loggingService) ExchangeCurrency(ctx context.Context, id string, from, to entity.Currency, amount decimal.Decimal) (account entity.Account, err error) {
	defer func(begin time.Time) {
		fields := map[string]interface{}{
			"request_id":    requestid.FromContext(ctx),
			"method":        "exchange_currency",
			"id":            id,
			"from_currency": from,
			"to_currency":   to,
			"amount":        amount,
			"took":          time.Since(begin).String(),
		}
		if err != nil {
			fields["error"] = err.Error()
			s.logger.Error("Exchange failed", fields)
			return
		}
		fields["base_amount"] = account.BaseAmount
		fields["target_amount"] = account.TargetAmount
		s.logger.Info("Exchange completed", fields)
	}(time.Now())

	return s.next.ExchangeCurrency(ctx, id, from, to, amount)
}
