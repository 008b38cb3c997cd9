// Package logger provides backtest-specific logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// BacktestLogger provides dedicated logging for backtest operations.
type BacktestLogger struct {
	*logrus.Entry
}

// NewBacktestLogger creates a new backtest logger.
func NewBacktestLogger(baseLogger *logrus.Logger) *BacktestLogger {
	return &BacktestLogger{
		Entry: baseLogger.WithField("component", "backtest"),
	}
}

// LogRunStarted logs the start of a backtest run.
func (bl *BacktestLogger) LogRunStarted(strategyName string, matches int, initialBankroll float64) {
	bl.WithFields(logrus.Fields{
		"strategy_name":    strategyName,
		"matches":          matches,
		"initial_bankroll": initialBankroll,
		"event_type":       "run_started",
	}).Info("Backtest run started")
}

// LogRunCompleted logs a completed backtest run.
func (bl *BacktestLogger) LogRunCompleted(strategyName string, matchesProcessed, matchesStaked int, finalBankroll, totalReturn float64, durationMs float64) {
	bl.WithFields(logrus.Fields{
		"strategy_name":     strategyName,
		"matches_processed": matchesProcessed,
		"matches_staked":    matchesStaked,
		"final_bankroll":    finalBankroll,
		"total_return":      totalReturn,
		"duration_ms":       durationMs,
		"event_type":        "run_completed",
	}).Info("Backtest run completed")
}

// LogRunFailed logs a failed backtest run.
func (bl *BacktestLogger) LogRunFailed(strategyName, matchID, reason string, matchesProcessed int) {
	bl.WithFields(logrus.Fields{
		"strategy_name":     strategyName,
		"match_id":          matchID,
		"reason":            reason,
		"matches_processed": matchesProcessed,
		"event_type":        "run_failed",
	}).Error("Backtest run failed")
}

// LogStakeClamped logs a stake decision that exceeded the available bankroll.
func (bl *BacktestLogger) LogStakeClamped(strategyName, matchID string, requestedStake, bankroll float64) {
	bl.WithFields(logrus.Fields{
		"strategy_name":   strategyName,
		"match_id":        matchID,
		"requested_stake": requestedStake,
		"bankroll":        bankroll,
		"event_type":      "stake_clamped",
	}).Warn("Stake exceeded bankroll and was clamped to zero")
}

// LogDrawdown logs a drawdown threshold breach during a run.
func (bl *BacktestLogger) LogDrawdown(strategyName string, drawdownPercent, peakBankroll, currentBankroll float64) {
	bl.WithFields(logrus.Fields{
		"strategy_name":    strategyName,
		"drawdown_percent": drawdownPercent,
		"peak_bankroll":    peakBankroll,
		"current_bankroll": currentBankroll,
	}).Warn("Drawdown threshold exceeded")
}

// LogCheckpointSaved logs a checkpoint write.
func (bl *BacktestLogger) LogCheckpointSaved(strategyName string, entries int, bankroll float64, path string) {
	bl.WithFields(logrus.Fields{
		"strategy_name": strategyName,
		"entries":       entries,
		"bankroll":      bankroll,
		"path":          path,
		"event_type":    "checkpoint_saved",
	}).Info("Backtest checkpoint saved")
}
