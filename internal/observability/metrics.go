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
		Name: "stream_service_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "stream_service_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// ProviderRequestLatency records upstream video provider call latency by endpoint and status.
	ProviderRequestLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "stream_service_provider_request_latency_seconds",
		Help:    "Video provider API call latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint", "status"})

	// ProviderErrorsTotal counts failed upstream video provider calls by endpoint.
	ProviderErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stream_service_provider_errors_total",
		Help: "Total number of failed video provider API calls",
	}, []string{"endpoint"})

	// StreamsCreatedTotal counts live streams created through the provider.
	StreamsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stream_service_streams_created_total",
		Help: "Total number of live streams created",
	})

	// StreamTransitionsTotal counts stream lifecycle transitions by kind and source.
	StreamTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stream_service_stream_transitions_total",
		Help: "Total stream lifecycle transitions by kind and source (api or webhook)",
	}, []string{"transition", "source"})

	// WebhooksReceivedTotal counts inbound provider webhooks by type.
	WebhooksReceivedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stream_service_webhooks_received_total",
		Help: "Total inbound provider webhooks by event type",
	}, []string{"type"})

	// FeedbackSubmittedTotal counts feedback submissions by kind (stream or theme).
	FeedbackSubmittedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stream_service_feedback_submitted_total",
		Help: "Total feedback submissions by kind",
	}, []string{"kind"})

	// PlannedLessonsSweptTotal counts planned lessons removed by the sweeper.
	PlannedLessonsSweptTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stream_service_planned_lessons_swept_total",
		Help: "Total number of expired planned lessons removed by the sweeper",
	})
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

// ObserveProviderCall records latency and errors for an upstream provider call.
func ObserveProviderCall(endpoint, status string, start time.Time, err error) {
	ProviderRequestLatency.WithLabelValues(endpoint, status).Observe(time.Since(start).Seconds())
	if err != nil {
		ProviderErrorsTotal.WithLabelValues(endpoint).Inc()
	}
}
