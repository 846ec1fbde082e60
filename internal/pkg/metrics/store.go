package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// SlowScanThreshold marks a partition scan as slow
const SlowScanThreshold = 250 * time.Millisecond

var (
	storeQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reflection_store_query_duration_seconds",
			Help:    "Table store query duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"backend", "operation"},
	)

	storeQueryTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reflection_store_queries_total",
			Help: "Total number of table store queries",
		},
		[]string{"backend", "operation"},
	)

	storeQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reflection_store_query_errors_total",
			Help: "Total number of table store query errors",
		},
		[]string{"backend", "operation"},
	)

	storeSlowQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reflection_store_slow_queries_total",
			Help: "Total number of slow table store queries",
		},
		[]string{"backend", "operation"},
	)

	partitionRows = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "reflection_store_partition_rows",
			Help: "Rows returned by the last scan of a partition",
		},
		[]string{"backend", "table"},
	)
)

// RecordDBQuery records table store query metrics
func RecordDBQuery(backend, operation string, duration time.Duration) {
	storeQueryTotal.WithLabelValues(backend, operation).Inc()
	storeQueryDuration.WithLabelValues(backend, operation).Observe(duration.Seconds())

	if duration > SlowScanThreshold {
		storeSlowQueries.WithLabelValues(backend, operation).Inc()
	}
}

// RecordDBError records a table store query error
func RecordDBError(backend, operation string) {
	storeQueryErrors.WithLabelValues(backend, operation).Inc()
}

// RecordPartitionRows records the row count of a completed partition scan
func RecordPartitionRows(backend, table string, rows int) {
	partitionRows.WithLabelValues(backend, table).Set(float64(rows))
}
