package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ScheduleMutations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "admus_schedule_mutations_total",
			Help: "Schedule mutations by operation and outcome",
		},
		[]string{"operation", "status"},
	)

	BulkAssignDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "admus_bulk_assign_duration_seconds",
			Help:    "Time spent running a bulk assignment",
			Buckets: prometheus.DefBuckets,
		},
	)

	ComposeDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "admus_week_compose_duration_seconds",
			Help:    "Time spent composing a weekly matrix",
			Buckets: prometheus.DefBuckets,
		},
	)

	WebsocketClients = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "admus_websocket_clients",
			Help: "Connected schedule websocket clients",
		},
	)
)

func init() {
	prometheus.MustRegister(ScheduleMutations, BulkAssignDuration, ComposeDuration, WebsocketClients)
}

// Observe records the outcome of a schedule mutation.
func Observe(operation string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	ScheduleMutations.WithLabelValues(operation, status).Inc()
}
