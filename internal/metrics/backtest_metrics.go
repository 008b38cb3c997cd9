// Package metrics defines backtesting-specific metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Backtest counter vectors
var (
	BacktestRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pitch_edge",
		Name:      "backtest_runs_total",
		Help:      "Total number of backtest runs by strategy and status",
	}, []string{"strategy", "status"})
)

// Backtest gauge vectors
var (
	BacktestFinalBankroll = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "pitch_edge",
		Name:      "backtest_final_bankroll",
		Help:      "Final bankroll for the most recent backtest run of each strategy",
	}, []string{"strategy"})

	BacktestMatchesProcessed = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "pitch_edge",
		Name:      "backtest_matches_processed",
		Help:      "Matches processed in the most recent backtest run of each strategy",
	}, []string{"strategy"})
)

// RecordBacktestRun records a backtest run event.
// status should be one of: "success", "failure"
func RecordBacktestRun(strategy, status string) {
	BacktestRunsTotal.WithLabelValues(strategy, status).Inc()
}

// RecordBacktestOutcome records the headline numbers of a completed run.
func RecordBacktestOutcome(strategy string, finalBankroll float64, matches int) {
	BacktestFinalBankroll.WithLabelValues(strategy).Set(finalBankroll)
	BacktestMatchesProcessed.WithLabelValues(strategy).Set(float64(matches))
}
