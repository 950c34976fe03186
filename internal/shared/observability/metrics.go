// # internal/shared/observability/metrics.go
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	ParseDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "relight_parse_seconds",
		Help:    "Time spent parsing and lowering a source file.",
		Buckets: prometheus.DefBuckets,
	})

	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "relight_requests_total",
		Help: "Highlight requests by the feature that served them.",
	}, []string{"feature"})

	RequestErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "relight_request_errors_total",
		Help: "Highlight requests that failed before reaching the engine, by error code.",
	}, []string{"code"})

	RequestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "relight_request_seconds",
		Help:    "End-to-end latency of a highlight request.",
		Buckets: prometheus.DefBuckets,
	})

	ResultsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "relight_results_total",
		Help: "Total number of highlighted ranges returned.",
	})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "relight_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})

	WatcherThrottledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "relight_watcher_throttled_total",
		Help: "Change notifications dropped by the watch rate limiter.",
	})
)
