// Package metrics provides Prometheus metrics for newsdesk.
package metrics

import (
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"newsdesk/internal/domain"
)

const namespace = "newsdesk"

var (
	// ArticleOperationsTotal counts facade operations by outcome.
	ArticleOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "article_operations_total",
			Help:      "Total number of article operations",
		},
		[]string{"operation", "status"},
	)

	// ArticleOperationDuration measures facade operation latency.
	ArticleOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "article_operation_duration_seconds",
			Help:      "Duration of article operations in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// BulkSize observes how many ids each bulk request carried.
	BulkSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "bulk_operation_size",
			Help:      "Distribution of bulk operation sizes",
			Buckets:   []float64{1, 5, 10, 25, 50},
		},
		[]string{"action"},
	)

	// StatsCacheTotal counts stats cache lookups.
	StatsCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stats_cache_total",
			Help:      "Stats cache lookups by result (hit, miss, error)",
		},
		[]string{"result"},
	)

	// HTTPRequestsTotal counts HTTP requests.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "code"},
	)

	// HTTPRequestDuration measures HTTP latency.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// Status classifies an operation error into a low-cardinality label
func Status(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrValidation):
		return "validation"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrConflict):
		return "conflict"
	case errors.Is(err, domain.ErrNotImplemented):
		return "not_implemented"
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrForbidden):
		return "denied"
	default:
		return "error"
	}
}

// RecordOperation records one facade call
func RecordOperation(operation string, start time.Time, err error) {
	ArticleOperationsTotal.WithLabelValues(operation, Status(err)).Inc()
	ArticleOperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// RecordBulkSize records the id count of a bulk request
func RecordBulkSize(action string, n int) {
	BulkSize.WithLabelValues(action).Observe(float64(n))
}

// RecordStatsCache records a cache lookup result
func RecordStatsCache(result string) {
	StatsCacheTotal.WithLabelValues(result).Inc()
}

// RecordHTTP records one HTTP request
func RecordHTTP(method, route string, code int, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}
