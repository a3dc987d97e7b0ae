// Package metrics defines the Prometheus instrumentation for the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Feed engine metrics
var (
	// SwipesTotal tracks committed swipe decisions by verdict
	SwipesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_swipes_total",
			Help: "Total committed swipe decisions by verdict",
		},
		[]string{"verdict"},
	)

	// VerdictsDropped tracks verdicts ignored because a commit was in flight
	VerdictsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "feed_verdicts_dropped_total",
			Help: "Total verdicts dropped during an in-flight commit",
		},
	)

	// FetchesTotal tracks look-ahead page fetches by outcome
	FetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_fetches_total",
			Help: "Total catalog page fetches by status (ok/error/stale)",
		},
		[]string{"status"},
	)

	// FetchDuration tracks catalog page fetch latency in seconds
	FetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "feed_fetch_duration_seconds",
			Help:    "Catalog page fetch duration in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		},
	)

	// BufferDepth tracks undecided items remaining ahead of the cursor,
	// summed across active sessions
	BufferDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "feed_buffer_depth",
			Help: "Buffered items ahead of the cursor across active feed sessions",
		},
	)

	// ActiveFeedSessions tracks the number of live feed sessions
	ActiveFeedSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "feed_active_sessions",
			Help: "Number of active feed sessions",
		},
	)

	// EngineCommandChannelDepth tracks the engine actor's command backlog
	EngineCommandChannelDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "feed_engine_command_channel_depth",
			Help: "Current depth of the feed engine command channel",
		},
	)
)

// Decision store metrics
var (
	// DecisionsRecorded tracks recorded decisions by kind
	DecisionsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "decisions_recorded_total",
			Help: "Total decisions recorded by decision",
		},
		[]string{"decision"},
	)

	// PersistenceFailures tracks write-through failures to the KV store
	PersistenceFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "decision_persistence_failures_total",
			Help: "Total decision write-through failures by key kind",
		},
		[]string{"key"},
	)

	// PersistenceDuration tracks KV write-through latency in seconds
	PersistenceDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "decision_persistence_duration_seconds",
			Help:    "Decision write-through duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
	)
)

// Redis metrics
var (
	// RedisOpsTotal tracks total Redis operations by operation type and status
	RedisOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "redis_operations_total",
			Help: "Total Redis operations by operation and status",
		},
		[]string{"operation", "status"},
	)

	// RedisOpDuration tracks Redis operation latency in seconds
	RedisOpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "redis_operation_duration_seconds",
			Help:    "Redis operation duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"operation"},
	)
)
