package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Event log metrics
	EventsAppendedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bistro_events_appended_total",
			Help: "Total number of events appended by decider",
		},
		[]string{"decider"},
	)

	VersionConflictsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bistro_version_conflicts_total",
			Help: "Total number of optimistic concurrency conflicts by decider",
		},
		[]string{"decider"},
	)

	EventLogAppendDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bistro_eventlog_append_duration_seconds",
			Help:    "Time taken to append a batch of events to the log",
			Buckets: prometheus.DefBuckets,
		},
	)

	RaftApplyDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bistro_raft_apply_duration_seconds",
			Help:    "Time taken for a Raft Apply to commit",
			Buckets: prometheus.DefBuckets,
		},
	)

	RaftLeader = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "bistro_raft_is_leader",
			Help: "Whether this node is the Raft leader (1 = leader, 0 = follower)",
		},
	)

	// Aggregate / command handler metrics
	CommandHandleDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bistro_command_handle_duration_seconds",
			Help:    "Time taken to decide and append the effect of one command",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"decider"},
	)

	CommandsHandledTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bistro_commands_handled_total",
			Help: "Total number of commands handled by decider and outcome",
		},
		[]string{"decider", "outcome"},
	)

	// Dispatcher metrics
	DispatcherLeasesAcquiredTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bistro_dispatcher_leases_acquired_total",
			Help: "Total number of stream leases acquired by subscriber",
		},
		[]string{"subscriber"},
	)

	DispatcherLeasesExpiredTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bistro_dispatcher_leases_expired_total",
			Help: "Total number of stream leases that expired unacked and were reclaimed",
		},
		[]string{"subscriber"},
	)

	DispatcherHandleDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bistro_dispatcher_handle_duration_seconds",
			Help:    "Time taken for a subscriber's handler to process one event",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"subscriber"},
	)

	DispatcherNacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bistro_dispatcher_nacks_total",
			Help: "Total number of events nacked by subscriber",
		},
		[]string{"subscriber"},
	)

	// View metrics
	ViewUpsertsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bistro_view_upserts_total",
			Help: "Total number of projection upserts by view name",
		},
		[]string{"view"},
	)

	// Saga metrics
	SagaDispatchedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bistro_saga_commands_dispatched_total",
			Help: "Total number of commands dispatched by a saga's react step",
		},
		[]string{"saga"},
	)

	// API metrics
	APIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bistro_api_requests_total",
			Help: "Total number of API requests by method and status",
		},
		[]string{"method", "status"},
	)

	APIRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bistro_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)
)

func init() {
	prometheus.MustRegister(EventsAppendedTotal)
	prometheus.MustRegister(VersionConflictsTotal)
	prometheus.MustRegister(EventLogAppendDuration)
	prometheus.MustRegister(RaftApplyDuration)
	prometheus.MustRegister(RaftLeader)

	prometheus.MustRegister(CommandHandleDuration)
	prometheus.MustRegister(CommandsHandledTotal)

	prometheus.MustRegister(DispatcherLeasesAcquiredTotal)
	prometheus.MustRegister(DispatcherLeasesExpiredTotal)
	prometheus.MustRegister(DispatcherHandleDuration)
	prometheus.MustRegister(DispatcherNacksTotal)

	prometheus.MustRegister(ViewUpsertsTotal)
	prometheus.MustRegister(SagaDispatchedTotal)

	prometheus.MustRegister(APIRequestsTotal)
	prometheus.MustRegister(APIRequestDuration)
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer is a helper for timing operations.
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ObserveDuration records the duration to a histogram.
func (t *Timer) ObserveDuration(histogram prometheus.Histogram) {
	histogram.Observe(time.Since(t.start).Seconds())
}

// ObserveDurationVec records the duration to a histogram vec with labels.
func (t *Timer) ObserveDurationVec(histogram prometheus.ObserverVec, labels ...string) {
	histogram.WithLabelValues(labels...).Observe(time.Since(t.start).Seconds())
}

// Duration returns the elapsed time since the timer started.
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
