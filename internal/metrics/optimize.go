package metrics

import "github.com/prometheus/client_golang/prometheus"

// Optimization engine Prometheus metrics.
var (
	OptimizeRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "kbopt",
			Name:      "optimize_requests_total",
			Help:      "Total number of optimization requests",
		},
		[]string{"mode", "status"},
	)

	OptimizeDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "kbopt",
			Name:      "optimize_duration_seconds",
			Help:      "End-to-end optimization duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"mode"},
	)

	ResultCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "kbopt",
			Name:      "result_cache_total",
			Help:      "Result cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	FetchRetriesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "kbopt",
			Name:      "fetch_retries_total",
			Help:      "Total keyword fetch retries after transient failures",
		},
	)

	FetchFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "kbopt",
			Name:      "fetch_failures_total",
			Help:      "Keywords that yielded no documents after all retries",
		},
	)

	RateLimitCooldownsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "kbopt",
			Name:      "rate_limit_cooldowns_total",
			Help:      "Shared cooldown activations triggered by backend rate limiting",
		},
	)

	DocumentsTruncatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "kbopt",
			Name:      "documents_truncated_total",
			Help:      "Documents truncated by the budget allocator",
		},
	)

	EstimatedTokens = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "kbopt",
			Name:      "estimated_tokens",
			Help:      "Estimated token size of assembled results",
			Buckets:   []float64{1000, 5000, 15000, 30000, 50000, 75000, 100000, 150000},
		},
	)
)

var optMetricsRegistered bool

// RegisterOptimizeMetrics registers engine metrics. Must be called once from main.
func RegisterOptimizeMetrics() {
	if optMetricsRegistered {
		return
	}
	prometheus.MustRegister(OptimizeRequestsTotal)
	prometheus.MustRegister(OptimizeDuration)
	prometheus.MustRegister(ResultCacheTotal)
	prometheus.MustRegister(FetchRetriesTotal)
	prometheus.MustRegister(FetchFailuresTotal)
	prometheus.MustRegister(RateLimitCooldownsTotal)
	prometheus.MustRegister(DocumentsTruncatedTotal)
	prometheus.MustRegister(EstimatedTokens)
	optMetricsRegistered = true
}
