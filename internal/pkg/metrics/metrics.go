// Package metrics provides Prometheus metrics for the dashboard.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Portfolio aggregator
	PortfolioFetches       *prometheus.CounterVec
	PortfolioFetchDuration prometheus.Histogram
	StaleResponsesDropped  prometheus.Counter
	ActiveSessions         prometheus.Gauge

	// Address resolver
	AddressResolutions *prometheus.CounterVec

	// Solana RPC
	RPCCallDuration *prometheus.HistogramVec

	// HTTP
	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// NewMetrics creates a Metrics instance registered on reg.
// A nil reg uses the default Prometheus registerer.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = "portfolio_dashboard"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		PortfolioFetches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "portfolio",
			Name:      "fetches_total",
			Help:      "Portfolio fetches by outcome.",
		}, []string{"outcome"}),
		PortfolioFetchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "portfolio",
			Name:      "fetch_duration_seconds",
			Help:      "Duration of portfolio data source calls.",
			Buckets:   prometheus.DefBuckets,
		}),
		StaleResponsesDropped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "portfolio",
			Name:      "stale_responses_dropped_total",
			Help:      "Fetch results discarded because a newer fetch superseded them.",
		}),
		ActiveSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "portfolio",
			Name:      "active_sessions",
			Help:      "Accounts with a live aggregator.",
		}),
		AddressResolutions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "resolver",
			Name:      "resolutions_total",
			Help:      "Address resolutions by result (absent, valid, invalid).",
		}, []string{"result"}),
		RPCCallDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "rpc",
			Name:      "call_duration_seconds",
			Help:      "Solana JSON-RPC call latency by method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status.",
		}, []string{"route", "status"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}
}

// NewNopMetrics returns metrics bound to a private registry, for tests and tools.
func NewNopMetrics() *Metrics {
	return NewMetrics("", prometheus.NewRegistry())
}
