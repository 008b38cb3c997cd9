// Package metrics provides the centralized Prometheus metrics registry for the pipeline.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	MatchesIngestedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pitch_edge",
		Name:      "matches_ingested_total",
		Help:      "Total number of matches ingested",
	})
	PredictionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pitch_edge",
		Name:      "predictions_total",
		Help:      "Total number of predictions produced",
	})
	PredictionCacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pitch_edge",
		Name:      "prediction_cache_hits_total",
		Help:      "Total number of prediction cache hits",
	})
	PredictionCacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pitch_edge",
		Name:      "prediction_cache_misses_total",
		Help:      "Total number of prediction cache misses",
	})
)

// Gauge metrics
var (
	CurrentBankroll = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "pitch_edge",
		Name:      "current_bankroll",
		Help:      "Current simulated bankroll in currency units",
	})
	LastIngestionTimestamp = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "pitch_edge",
		Name:      "last_ingestion_timestamp_seconds",
		Help:      "Unix timestamp of the last completed ingestion run",
	})
)

// Histogram metrics
var (
	PredictionLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "pitch_edge",
		Name:      "prediction_latency_seconds",
		Help:      "Latency of prediction requests in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	BacktestDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "pitch_edge",
		Name:      "backtest_duration_seconds",
		Help:      "Duration of backtest runs in seconds",
		Buckets:   []float64{1, 5, 10, 30, 60, 300, 600, 1800},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		// Register counter metrics
		registry.MustRegister(MatchesIngestedTotal)
		registry.MustRegister(PredictionsTotal)
		registry.MustRegister(PredictionCacheHitsTotal)
		registry.MustRegister(PredictionCacheMissesTotal)

		// Register gauge metrics
		registry.MustRegister(CurrentBankroll)
		registry.MustRegister(LastIngestionTimestamp)

		// Register histogram metrics
		registry.MustRegister(PredictionLatency)
		registry.MustRegister(BacktestDuration)

		// Register backtest metrics
		registry.MustRegister(BacktestRunsTotal)
		registry.MustRegister(BacktestFinalBankroll)
		registry.MustRegister(BacktestMatchesProcessed)

		// Register ingestion metrics
		registry.MustRegister(IngestionRunsTotal)
		registry.MustRegister(IngestionErrorsTotal)
		registry.MustRegister(IngestionDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordMatchIngested records a single ingested match.
func RecordMatchIngested() {
	MatchesIngestedTotal.Inc()
}

// RecordPrediction records a prediction event and its latency.
func RecordPrediction(durationSeconds float64) {
	PredictionsTotal.Inc()
	PredictionLatency.Observe(durationSeconds)
}

// RecordPredictionCacheHit records a prediction cache hit.
func RecordPredictionCacheHit() {
	PredictionCacheHitsTotal.Inc()
}

// RecordPredictionCacheMiss records a prediction cache miss.
func RecordPredictionCacheMiss() {
	PredictionCacheMissesTotal.Inc()
}

// UpdateBankroll updates the current bankroll gauge.
func UpdateBankroll(amount float64) {
	CurrentBankroll.Set(amount)
}

// RecordBacktestDuration records backtest duration.
func RecordBacktestDuration(durationSeconds float64) {
	BacktestDuration.Observe(durationSeconds)
}
