package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/damon-houk/currency-account-service/internal/domain/entity"
	"github.com/damon-houk/currency-account-service/internal/infrastructure/cache"
	"github.com/damon-houk/currency-account-service/internal/infrastructure/logger"
	"github.com/shopspring/decimal"
)

const (
	// DefaultBaseURL is the public NBP exchange rate API
	DefaultBaseURL = "https://api.nbp.pl/api/exchangerates"

	defaultTimeout    = 10 * time.Second
	defaultMaxRetries = 3
	defaultBackoff    = time.Second
)

// ClientOptions configures an NBPAPIClient. Zero values fall back to defaults.
type ClientOptions struct {
	BaseURL    string
	HTTPClient *http.Client
	Cache      *cache.ExchangeRateCache
	MaxRetries int
	// Backoff is scaled by attempt² between retries
	Backoff time.Duration
}

// NBPAPIClient fetches table A mid rates from the NBP API
type NBPAPIClient struct {
	baseURL    string
	httpClient *http.Client
	cache      *cache.ExchangeRateCache
	maxRetries int
	backoff    time.Duration
	logger     logger.Logger
}

// NewNBPAPIClient creates a new NBP API client
func NewNBPAPIClient(opts ClientOptions, log logger.Logger) *NBPAPIClient {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: defaultTimeout}
	}
	if opts.Cache == nil {
		opts.Cache = cache.NewExchangeRateCache(cache.DefaultExpiration)
	}
	if opts.MaxRetries < 1 {
		opts.MaxRetries = defaultMaxRetries
	}
	if opts.Backoff <= 0 {
		opts.Backoff = defaultBackoff
	}
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &NBPAPIClient{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		httpClient: opts.HTTPClient,
		cache:      opts.Cache,
		maxRetries: opts.MaxRetries,
		backoff:    opts.Backoff,
		logger:     log,
	}
}

// NBPResponse represents a single-currency table A response
type NBPResponse struct {
	Table    string    `json:"table"`
	Currency string    `json:"currency"`
	Code     string    `json:"code"`
	Rates    []NBPRate `json:"rates"`
}

// NBPRate is one published mid rate
type NBPRate struct {
	No            string          `json:"no"`
	EffectiveDate string          `json:"effectiveDate"`
	Mid           decimal.Decimal `json:"mid"`
}

// FetchMidRate retrieves the latest published mid rate of currency in PLN
func (c *NBPAPIClient) FetchMidRate(ctx context.Context, currency entity.Currency) (*entity.ExchangeRate, error) {
	if cached := c.cache.Get(currency); cached != nil {
		return cached, nil
	}

	reqURL := fmt.Sprintf("%s/rates/A/%s?format=json", c.baseURL, url.PathEscape(currency.String()))

	c.logger.Debug("NBP API request", map[string]interface{}{
		"currency": currency,
		"url":      reqURL,
	})

	status, body, err := c.get(ctx, reqURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrRateUnavailable, err)
	}

	switch {
	case status == http.StatusNotFound:
		return nil, fmt.Errorf("%w: no rate published for %s", entity.ErrInvalidRateData, currency)
	case status < 200 || status >= 300:
		return nil, fmt.Errorf("%w: API returned error status: %d, body: %s", entity.ErrRateUnavailable, status, body)
	}

	var nbpResp NBPResponse
	if err := json.Unmarshal(body, &nbpResp); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", entity.ErrInvalidRateData, err)
	}

	if len(nbpResp.Rates) == 0 {
		return nil, fmt.Errorf("%w: empty response for %s", entity.ErrInvalidRateData, currency)
	}

	rateData := nbpResp.Rates[0]
	if !rateData.Mid.IsPositive() {
		return nil, fmt.Errorf("%w: invalid exchange rate value: %s", entity.ErrInvalidRateData, rateData.Mid)
	}

	effectiveDate, err := time.Parse("2006-01-02", rateData.EffectiveDate)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse effective date '%s': %v", entity.ErrInvalidRateData, rateData.EffectiveDate, err)
	}

	exchangeRate := &entity.ExchangeRate{
		Currency:      currency,
		EffectiveDate: effectiveDate,
		Rate:          rateData.Mid,
	}

	c.cache.Put(exchangeRate)

	return exchangeRate, nil
}

// get performs the request, retrying transport failures and 5xx responses
// with quadratic backoff
func (c *NBPAPIClient) get(ctx context.Context, reqURL string) (int, []byte, error) {
	var lastErr error

	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		status, body, err := c.do(ctx, reqURL)
		switch {
		case err == nil && status < http.StatusInternalServerError:
			return status, body, nil
		case err == nil:
			lastErr = fmt.Errorf("API returned error status: %d", status)
		default:
			lastErr = err
		}

		if attempt == c.maxRetries {
			break
		}

		wait := time.Duration(attempt*attempt) * c.backoff
		c.logger.Warn("NBP API request failed, retrying", map[string]interface{}{
			"attempt":      attempt,
			"max_attempts": c.maxRetries,
			"error":        lastErr.Error(),
			"backoff":      wait.String(),
		})

		select {
		case <-ctx.Done():
			return 0, nil, ctx.Err()
		case <-time.After(wait):
		}
	}

	return 0, nil, fmt.Errorf("failed to execute request after %d attempts: %w", c.maxRetries, lastErr)
}

func (c *NBPAPIClient) do(ctx context.Context, reqURL string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Add("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Warn("Error closing response body", map[string]interface{}{
				"error": closeErr.Error(),
			})
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return resp.StatusCode, body, nil
}
