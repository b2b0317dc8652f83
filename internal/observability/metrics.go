// Package observability provides metrics and tracing for the application.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gorm.io/gorm"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hublish_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "hublish_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// CacheRequests counts cache lookups by entity and outcome (hit/miss).
	CacheRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hublish_cache_requests_total",
		Help: "Total number of cache lookups by entity and outcome",
	}, []string{"entity", "outcome"})

	// ListingQueries counts aggregation pipeline runs by filter mode.
	ListingQueries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hublish_listing_queries_total",
		Help: "Total number of article listing queries by filter mode",
	}, []string{"mode"})

	// FavouriteToggles counts favourite/unfavourite operations by action and outcome.
	FavouriteToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hublish_favourite_toggles_total",
		Help: "Total number of favourite toggle operations by action and outcome",
	}, []string{"action", "outcome"})

	// EventsPublished counts domain events published to Redis by event type.
	EventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hublish_events_published_total",
		Help: "Total number of domain events published by type",
	}, []string{"event"})
)

// DatabaseMetrics wraps DB access for recording query latency.
type DatabaseMetrics struct {
	db *gorm.DB
}

// NewDatabaseMetrics returns a new DatabaseMetrics instance.
func NewDatabaseMetrics(db *gorm.DB) *DatabaseMetrics {
	return &DatabaseMetrics{db: db}
}

// ObserveQuery records the latency of a database query.
func (m *DatabaseMetrics) ObserveQuery(operation, table string, start time.Time) {
	latency := time.Since(start).Seconds()
	DatabaseQueryLatency.WithLabelValues(operation, table).Observe(latency)
}

// TrackQuery returns a function that records query latency when called (e.g. defer).
func (m *DatabaseMetrics) TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		m.ObserveQuery(operation, table, start)
	}
}
