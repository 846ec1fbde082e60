package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var breakerState = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "reflection_circuit_breaker_state",
		Help: "Circuit breaker state per breaker (0 closed, 1 open, 2 half-open)",
	},
	[]string{"breaker"},
)

// RecordBreakerState records the current state of a named circuit breaker
func RecordBreakerState(name string, state int) {
	breakerState.WithLabelValues(name).Set(float64(state))
}
