package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	telemetryEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reflection_telemetry_events_total",
			Help: "Total number of tracked operation events",
		},
		[]string{"event"},
	)

	telemetryExceptions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reflection_telemetry_exceptions_total",
			Help: "Total number of tracked exceptions",
		},
	)
)

// RecordEvent increments the counter for a tracked event
func RecordEvent(name string) {
	telemetryEvents.WithLabelValues(name).Inc()
}

// RecordException increments the tracked exception counter
func RecordException() {
	telemetryExceptions.Inc()
}
