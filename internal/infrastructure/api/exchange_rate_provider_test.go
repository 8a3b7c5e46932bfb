package api

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/damon-houk/currency-account-service/internal/domain/entity"
	"github.com/damon-houk/currency-account-service/internal/infrastructure/logger"
	"github.com/damon-houk/currency-account-service/internal/mocks"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestNBPExchangeRateProvider(t *testing.T) {
	fetcher := new(mocks.MockMidRateFetcher)
	log := logger.NewJSONLogger(nil, logger.ErrorLevel)
	provider := NewNBPExchangeRateProvider(fetcher, entity.PLN, log)
	ctx := context.Background()

	t.Run("Successful rate retrieval", func(t *testing.T) {
		fetcher.On("FetchMidRate", ctx, entity.USD).Return(&entity.ExchangeRate{
			Currency:      entity.USD,
			EffectiveDate: time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC),
			Rate:          decimal.RequireFromString("3.9512"),
		}, nil).Once()

		rate, err := provider.GetExchangeRate(ctx, entity.USD)

		assert.NoError(t, err)
		assert.Equal(t, "3.9512", rate.String())
		fetcher.AssertExpectations(t)
	})

	t.Run("Default base is one", func(t *testing.T) {
		rate, err := provider.GetExchangeRate(ctx, entity.PLN)

		assert.NoError(t, err)
		assert.True(t, rate.Equal(decimal.NewFromInt(1)))
		fetcher.AssertNotCalled(t, "FetchMidRate", mock.Anything, entity.PLN)
	})

	t.Run("Upstream error keeps its kind", func(t *testing.T) {
		fetcher.On("FetchMidRate", ctx, entity.EUR).
			Return(nil, fmt.Errorf("%w: connection refused", entity.ErrRateUnavailable)).Once()

		_, err := provider.GetExchangeRate(ctx, entity.EUR)

		assert.Error(t, err)
		assert.True(t, errors.Is(err, entity.ErrRateUnavailable))
		assert.Contains(t, err.Error(), "failed to retrieve exchange rate")
		fetcher.AssertExpectations(t)
	})
}

func TestNBPExchangeRateProviderCrossRate(t *testing.T) {
	ctx := context.Background()
	log := logger.NewJSONLogger(nil, logger.ErrorLevel)
	mid := func(c entity.Currency, v string) *entity.ExchangeRate {
		return &entity.ExchangeRate{Currency: c, Rate: decimal.RequireFromString(v)}
	}

	t.Run("Foreign currency against a non-PLN base", func(t *testing.T) {
		fetcher := new(mocks.MockMidRateFetcher)
		fetcher.On("FetchMidRate", ctx, entity.USD).Return(mid(entity.USD, "3.85"), nil).Once()
		fetcher.On("FetchMidRate", ctx, entity.EUR).Return(mid(entity.EUR, "4.20"), nil).Once()
		provider := NewNBPExchangeRateProvider(fetcher, entity.EUR, log)

		rate, err := provider.GetExchangeRate(ctx, entity.USD)

		assert.NoError(t, err)
		// EUR per USD, not the PLN quote
		assert.Equal(t, "0.91666667", rate.String())
		fetcher.AssertExpectations(t)
	})

	t.Run("PLN against a non-PLN base", func(t *testing.T) {
		fetcher := new(mocks.MockMidRateFetcher)
		fetcher.On("FetchMidRate", ctx, entity.EUR).Return(mid(entity.EUR, "4.20"), nil).Once()
		provider := NewNBPExchangeRateProvider(fetcher, entity.EUR, log)

		rate, err := provider.GetExchangeRate(ctx, entity.PLN)

		assert.NoError(t, err)
		assert.Equal(t, "0.23809524", rate.String())
		fetcher.AssertNotCalled(t, "FetchMidRate", mock.Anything, entity.PLN)
	})

	t.Run("Base currency lookup failure", func(t *testing.T) {
		fetcher := new(mocks.MockMidRateFetcher)
		fetcher.On("FetchMidRate", ctx, entity.USD).Return(mid(entity.USD, "3.85"), nil).Once()
		fetcher.On("FetchMidRate", ctx, entity.GBP).
			Return(nil, fmt.Errorf("%w: status 503", entity.ErrRateUnavailable)).Once()
		provider := NewNBPExchangeRateProvider(fetcher, entity.GBP, log)

		_, err := provider.GetExchangeRate(ctx, entity.USD)

		assert.True(t, errors.Is(err, entity.ErrRateUnavailable))
	})

	t.Run("Zero base mid is invalid data", func(t *testing.T) {
		fetcher := new(mocks.MockMidRateFetcher)
		fetcher.On("FetchMidRate", ctx, entity.USD).Return(mid(entity.USD, "3.85"), nil).Once()
		fetcher.On("FetchMidRate", ctx, entity.CHF).Return(mid(entity.CHF, "0"), nil).Once()
		provider := NewNBPExchangeRateProvider(fetcher, entity.CHF, log)

		_, err := provider.GetExchangeRate(ctx, entity.USD)

		assert.True(t, errors.Is(err, entity.ErrInvalidRateData))
	})
}
