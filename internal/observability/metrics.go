package observability

import (
	"sync"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by command.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tally_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"command"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tally_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// ActivityIncrements counts successful counter increments.
	ActivityIncrements = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tally_activity_increments_total",
		Help: "Total number of daily counter increments",
	})

	// FriendRequestTransitions counts friend-request state changes.
	FriendRequestTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tally_friend_request_transitions_total",
		Help: "Friend request state transitions by kind (sent, accepted, rejected, removed)",
	}, []string{"transition"})

	// AuthEvents counts registration and login outcomes.
	AuthEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tally_auth_events_total",
		Help: "Authentication events by kind and outcome",
	}, []string{"event", "outcome"})
)

var (
	httpMetricsOnce sync.Once
	httpMetrics     *fiberprometheus.FiberPrometheus
)

// HTTPMetrics returns the process-wide Fiber Prometheus middleware.
// fiberprometheus registers its collectors globally, so it is built once.
func HTTPMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	httpMetricsOnce.Do(func() {
		httpMetrics = fiberprometheus.New(serviceName)
	})
	return httpMetrics
}

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
