package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/damon-houk/currency-account-service/internal/domain/entity"
	"github.com/damon-houk/currency-account-service/internal/infrastructure/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const usdResponse = `{
	"table": "A",
	"currency": "dolar amerykański",
	"code": "USD",
	"rates": [
		{"no": "090/A/NBP/2024", "effectiveDate": "2024-05-10", "mid": 3.9512}
	]
}`

func newTestClient(serverURL string) *NBPAPIClient {
	return NewNBPAPIClient(ClientOptions{
		BaseURL:    serverURL,
		MaxRetries: 3,
		Backoff:    time.Millisecond,
	}, logger.NewJSONLogger(nil, logger.ErrorLevel))
}

func TestFetchMidRate(t *testing.T) {
	t.Run("Successful request is cached", func(t *testing.T) {
		var hits int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&hits, 1)
			assert.Equal(t, "/rates/A/USD", r.URL.Path)
			assert.Equal(t, "json", r.URL.Query().Get("format"))
			assert.Equal(t, "application/json", r.Header.Get("Accept"))

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(usdResponse))
		}))
		defer server.Close()

		client := newTestClient(server.URL)
		ctx := context.Background()

		rate, err := client.FetchMidRate(ctx, entity.USD)
		require.NoError(t, err)
		assert.Equal(t, entity.USD, rate.Currency)
		assert.Equal(t, "3.9512", rate.Rate.String())
		assert.Equal(t, time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC), rate.EffectiveDate)

		_, err = client.FetchMidRate(ctx, entity.USD)
		require.NoError(t, err)
		assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
	})

	t.Run("Unknown currency", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "404 NotFound - Not Found - Brak danych", http.StatusNotFound)
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).FetchMidRate(context.Background(), entity.CHF)

		assert.True(t, errors.Is(err, entity.ErrInvalidRateData))
	})

	t.Run("Empty rates", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"table":"A","code":"EUR","rates":[]}`))
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).FetchMidRate(context.Background(), entity.EUR)

		assert.True(t, errors.Is(err, entity.ErrInvalidRateData))
		assert.Contains(t, err.Error(), "empty response")
	})

	t.Run("Malformed body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`not json`))
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).FetchMidRate(context.Background(), entity.EUR)

		assert.True(t, errors.Is(err, entity.ErrInvalidRateData))
	})

	t.Run("Non-positive mid", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"table":"A","code":"EUR","rates":[{"no":"1","effectiveDate":"2024-05-10","mid":0}]}`))
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).FetchMidRate(context.Background(), entity.EUR)

		assert.True(t, errors.Is(err, entity.ErrInvalidRateData))
	})

	t.Run("Server errors are retried", func(t *testing.T) {
		var hits int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if atomic.AddInt32(&hits, 1) < 3 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			w.Write([]byte(usdResponse))
		}))
		defer server.Close()

		rate, err := newTestClient(server.URL).FetchMidRate(context.Background(), entity.USD)

		require.NoError(t, err)
		assert.Equal(t, "3.9512", rate.Rate.String())
		assert.Equal(t, int32(3), atomic.LoadInt32(&hits))
	})

	t.Run("Persistent server errors", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).FetchMidRate(context.Background(), entity.USD)

		assert.True(t, errors.Is(err, entity.ErrRateUnavailable))
		assert.Contains(t, err.Error(), "after 3 attempts")
	})

	t.Run("Unreachable host", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		serverURL := server.URL
		server.Close()

		_, err := newTestClient(serverURL).FetchMidRate(context.Background(), entity.USD)

		assert.True(t, errors.Is(err, entity.ErrRateUnavailable))
	})

	t.Run("Client errors are not retried", func(t *testing.T) {
		var hits int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&hits, 1)
			w.WriteHeader(http.StatusBadRequest)
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).FetchMidRate(context.Background(), entity.USD)

		assert.True(t, errors.Is(err, entity.ErrRateUnavailable))
		assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
	})
}
