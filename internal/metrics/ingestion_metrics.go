// Package metrics defines ingestion-specific metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Ingestion counter vectors
var (
	IngestionRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pitch_edge",
		Name:      "ingestion_runs_total",
		Help:      "Total number of ingestion runs by source and status",
	}, []string{"source", "status"})

	IngestionErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pitch_edge",
		Name:      "ingestion_errors_total",
		Help:      "Total number of ingestion errors by source and kind",
	}, []string{"source", "kind"})
)

// Ingestion histogram vectors
var (
	IngestionDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "pitch_edge",
		Name:      "ingestion_duration_seconds",
		Help:      "Duration of ingestion runs in seconds by source",
		Buckets:   []float64{0.5, 1, 5, 10, 30, 60, 300},
	}, []string{"source"})
)

// RecordIngestionRun records an ingestion run event.
// status should be one of: "success", "failure"
func RecordIngestionRun(source, status string, durationSeconds float64) {
	IngestionRunsTotal.WithLabelValues(source, status).Inc()
	IngestionDuration.WithLabelValues(source).Observe(durationSeconds)
}

// RecordIngestionError records an ingestion error by kind.
func RecordIngestionError(source, kind string) {
	IngestionErrorsTotal.WithLabelValues(source, kind).Inc()
}
