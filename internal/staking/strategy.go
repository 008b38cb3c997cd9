// Package staking implements bet-sizing strategies for the backtest engine.
package staking

import (
	"fmt"

	"github.com/yourusername/pitch-edge/internal/config"
	"github.com/yourusername/pitch-edge/internal/models"
)

// Strategy sizes bets from a prediction, the market odds and the current
// bankroll. Implementations must be pure: no hidden state, no side
// effects, no reads of global state. The engine re-validates every
// decision, so a strategy may assume nothing about enforcement.
type Strategy interface {
	Name() string
	Stakes(prediction models.Prediction, odds models.OddsLine, bankroll float64) models.StakeDecision
	Parameters() map[string]any
}

// New builds a strategy from configuration. The set of recognized types
// is closed; unknown types are an error rather than a silent default.
func New(cfg *config.StakingConfig) (Strategy, error) {
	if cfg == nil {
		return nil, fmt.Errorf("staking config is required")
	}
	switch cfg.Type {
	case "flat":
		return NewFlatStake(cfg.Fraction)
	case "kelly":
		return NewKellyStake(cfg.KellyMultiplier)
	default:
		return nil, fmt.Errorf("unknown staking strategy type: %q", cfg.Type)
	}
}
