// Package cache keeps recently fetched exchange rates in memory
package cache

import (
	"sync"
	"time"

	"github.com/damon-houk/currency-account-service/internal/domain/entity"
)

// DefaultExpiration is used when no positive TTL is configured
const DefaultExpiration = time.Hour

type cachedRate struct {
	rate      *entity.ExchangeRate
	expiresAt time.Time
}

// ExchangeRateCache holds the latest fetched rate per currency until its TTL elapses.
// Entries are only replaced, never swept: the key set is the closed currency set.
type ExchangeRateCache struct {
	mu    sync.RWMutex
	rates map[entity.Currency]cachedRate
	ttl   time.Duration
	now   func() time.Time
}

// NewExchangeRateCache creates a cache whose entries live for ttl
func NewExchangeRateCache(ttl time.Duration) *ExchangeRateCache {
	if ttl <= 0 {
		ttl = DefaultExpiration
	}

	return &ExchangeRateCache{
		rates: make(map[entity.Currency]cachedRate),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Get returns the cached rate for currency, or nil when absent or expired
func (c *ExchangeRateCache) Get(currency entity.Currency) *entity.ExchangeRate {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.rates[currency]
	if !ok || !c.now().Before(entry.expiresAt) {
		return nil
	}
	return entry.rate
}

// Put stores rate, replacing any earlier rate for the same currency
func (c *ExchangeRateCache) Put(rate *entity.ExchangeRate) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.rates[rate.Currency] = cachedRate{
		rate:      rate,
		expiresAt: c.now().Add(c.ttl),
	}
}
