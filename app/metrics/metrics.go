package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the prometheus collectors the services record into.
type Metrics struct {
	GamesRecorded    prometheus.Counter
	GamesUndone      prometheus.Counter
	SeasonsCompleted prometheus.Counter
	SeasonResets     prometheus.Counter

	OperationDuration *prometheus.HistogramVec
	OperationFailures *prometheus.CounterVec
}

// New creates and registers the application metrics.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		GamesRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "league",
			Name:      "games_recorded_total",
			Help:      "Number of games recorded.",
		}),
		GamesUndone: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "league",
			Name:      "games_undone_total",
			Help:      "Number of games undone.",
		}),
		SeasonsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "league",
			Name:      "seasons_completed_total",
			Help:      "Number of seasons rolled over (automatic and manual).",
		}),
		SeasonResets: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "league",
			Name:      "season_resets_total",
			Help:      "Number of manual season resets.",
		}),
		OperationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "league",
			Name:      "operation_duration_seconds",
			Help:      "Duration of service operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		OperationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "league",
			Name:      "operation_failures_total",
			Help:      "Number of failed service operations.",
		}, []string{"operation"}),
	}

	reg.MustRegister(
		m.GamesRecorded,
		m.GamesUndone,
		m.SeasonsCompleted,
		m.SeasonResets,
		m.OperationDuration,
		m.OperationFailures,
	)
	return m
}

// NewUnregistered creates metrics backed by a throwaway registry, for tests.
func NewUnregistered() *Metrics {
	return New(prometheus.NewRegistry())
}

// ObserveDuration records an operation duration.
func (m *Metrics) ObserveDuration(operation string, start time.Time) {
	m.OperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// ObserveFailure counts a failed operation.
func (m *Metrics) ObserveFailure(operation string) {
	m.OperationFailures.WithLabelValues(operation).Inc()
}
