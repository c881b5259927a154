// Package metrics provides Prometheus collectors for the nutrition service.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Normalization outcomes.
const (
	OutcomeParsed      = "parsed"
	OutcomePlaceholder = "placeholder"
)

const unmatchedPath = "unmatched"

var (
	// HTTPRequestDuration tracks HTTP request duration by method, route and status code.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status_code"},
	)

	// HTTPRequestTotal counts HTTP requests by method, route and status code.
	HTTPRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)

	// NormalizationsTotal counts summaries by input source and outcome.
	NormalizationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nutrition_normalizations_total",
			Help: "Total number of nutrition normalizations",
		},
		[]string{"source", "outcome"},
	)

	// NormalizationDuration tracks time spent building a summary.
	NormalizationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "nutrition_normalization_duration_seconds",
			Help:    "Nutrition normalization duration in seconds",
			Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01},
		},
	)

	// IngredientsPerResult tracks how many ingredients each summary carries.
	IngredientsPerResult = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "nutrition_ingredients_per_result",
			Help:    "Number of ingredients per normalized result",
			Buckets: []float64{1, 2, 3, 4, 6, 8, 12, 16, 24},
		},
	)

	// AnalyzerRequestsTotal counts upstream analyzer calls by status.
	AnalyzerRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analyzer_requests_total",
			Help: "Total number of upstream analyzer requests",
		},
		[]string{"status"},
	)

	// AnalyzerRequestDuration tracks upstream analyzer latency.
	AnalyzerRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "analyzer_request_duration_seconds",
			Help:    "Upstream analyzer request duration in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 30},
		},
	)

	// CircuitBreakerState exposes breaker state (0 closed, 1 open, 2 half-open) by name.
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state: 0 closed, 1 open, 2 half-open",
		},
		[]string{"name"},
	)

	// CacheOperationsTotal counts summary cache operations.
	CacheOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_operations_total",
			Help: "Total number of cache operations",
		},
		[]string{"operation", "result"},
	)

	// CacheSize tracks current summary cache size.
	CacheSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cache_size",
			Help: "Current cache size",
		},
	)

	// CacheCapacity tracks summary cache capacity.
	CacheCapacity = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cache_capacity",
			Help: "Cache capacity",
		},
	)
)

// PrometheusMiddleware returns a Gin middleware that collects HTTP metrics.
// Requests that match no route share a single path label.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = unmatchedPath
		}
		statusCode := strconv.Itoa(c.Writer.Status())
		method := c.Request.Method

		HTTPRequestDuration.WithLabelValues(method, path, statusCode).Observe(time.Since(start).Seconds())
		HTTPRequestTotal.WithLabelValues(method, path, statusCode).Inc()
	}
}

// RecordNormalization records one summary build.
func RecordNormalization(source string, placeholder bool, ingredients int, duration time.Duration) {
	outcome := OutcomeParsed
	if placeholder {
		outcome = OutcomePlaceholder
	}
	NormalizationsTotal.WithLabelValues(source, outcome).Inc()
	NormalizationDuration.Observe(duration.Seconds())
	IngredientsPerResult.Observe(float64(ingredients))
}

// RecordAnalyzerRequest records one upstream analyzer call.
func RecordAnalyzerRequest(status string, duration time.Duration) {
	AnalyzerRequestsTotal.WithLabelValues(status).Inc()
	AnalyzerRequestDuration.Observe(duration.Seconds())
}

// SetCircuitBreakerState publishes a breaker state as a gauge value.
func SetCircuitBreakerState(name string, state int) {
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}

// RecordCacheOperation records metrics for a cache operation.
func RecordCacheOperation(operation, result string) {
	CacheOperationsTotal.WithLabelValues(operation, result).Inc()
}

// UpdateCacheMetrics updates cache size and capacity gauges.
func UpdateCacheMetrics(size, capacity int) {
	CacheSize.Set(float64(size))
	CacheCapacity.Set(float64(capacity))
}
