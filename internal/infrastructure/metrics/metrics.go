// Package metrics holds the Prometheus collectors exported by the service
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "currency_account"

// Metrics groups every collector the service records
type Metrics struct {
	// Account operations
	AccountsCreatedTotal *prometheus.CounterVec
	ExchangesTotal       *prometheus.CounterVec
	ExchangedAmountTotal *prometheus.CounterVec

	// Upstream rate source
	RateLookupDuration *prometheus.HistogramVec

	// HTTP boundary
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// New registers the collectors with reg. Passing a fresh registry keeps tests isolated.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		AccountsCreatedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "accounts_created_total",
				Help:      "Number of accounts created, by target currency and result",
			},
			[]string{"target_currency", "result"},
		),

		ExchangesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "exchanges_total",
				Help:      "Number of exchange requests, by direction and result",
			},
			[]string{"from_currency", "to_currency", "result"},
		),

		ExchangedAmountTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "exchanged_amount_total",
				Help:      "Sum of successfully exchanged amounts in the source currency",
			},
			[]string{"from_currency"},
		),

		RateLookupDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "rate_lookup_duration_seconds",
				Help:      "Time spent resolving an exchange rate",
				Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
			},
			[]string{"currency", "result"},
		),

		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Number of HTTP requests, by method, route and status",
			},
			[]string{"method", "route", "status"},
		),

		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}
}

// Result labels an outcome for the result dimension
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
