package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "nft_storefront"

// Metrics groups the storefront collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
	scanDuration  *prometheus.HistogramVec
	scanOutcomes  *prometheus.CounterVec
	transactions  *prometheus.CounterVec
	scannedTokens *prometheus.HistogramVec
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		httpRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		scanDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "scan_duration_seconds",
				Help:      "Duration of collection and marketplace scans in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10), // 50ms to ~25s
			},
			[]string{"scanner"},
		),
		scanOutcomes: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "scans_total",
				Help:      "Scans by outcome",
			},
			[]string{"scanner", "status", "failure"},
		),
		transactions: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transactions_total",
				Help:      "Submitted write transactions by kind and final status",
			},
			[]string{"kind", "status"},
		),
		scannedTokens: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "scan_items",
				Help:      "Number of items returned per scan",
				Buckets:   []float64{0, 1, 2, 5, 10, 20, 50},
			},
			[]string{"scanner"},
		),
	}
}

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(method, route, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, status).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveScan records a finished scan.
func (m *Metrics) ObserveScan(scanner, status, failure string, items int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.scanDuration.WithLabelValues(scanner).Observe(elapsed.Seconds())
	m.scanOutcomes.WithLabelValues(scanner, status, failure).Inc()
	m.scannedTokens.WithLabelValues(scanner).Observe(float64(items))
}

// ObserveTransaction records the final status of a write flow.
func (m *Metrics) ObserveTransaction(kind, status string) {
	if m == nil {
		return
	}
	m.transactions.WithLabelValues(kind, status).Inc()
}
