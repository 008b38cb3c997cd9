package staking

import (
	"fmt"

	"github.com/yourusername/pitch-edge/internal/models"
)

// FlatStake stakes a fixed fraction of the bankroll on the single outcome
// with the highest predicted probability, and only when that outcome's
// implied market probability is below the prediction (positive edge).
// Ties on predicted probability resolve in canonical order HOME, DRAW,
// AWAY.
type FlatStake struct {
	Fraction float64
}

// NewFlatStake validates the fraction and builds the strategy
func NewFlatStake(fraction float64) (*FlatStake, error) {
	if fraction <= 0 || fraction > 1 {
		return nil, fmt.Errorf("flat stake fraction must be in (0,1], got %v", fraction)
	}
	return &FlatStake{Fraction: fraction}, nil
}

// Name returns the strategy name
func (s *FlatStake) Name() string {
	return "flat"
}

// Stakes sizes the bet for one match
func (s *FlatStake) Stakes(prediction models.Prediction, odds models.OddsLine, bankroll float64) models.StakeDecision {
	stakes := models.StakeDecision{}
	if bankroll <= 0 {
		return stakes
	}

	best := prediction.Best()
	if prediction.Prob(best) <= odds.Implied(best) {
		return stakes
	}

	stakes[best] = bankroll * s.Fraction
	return stakes
}

// Parameters returns strategy parameters for reporting
func (s *FlatStake) Parameters() map[string]any {
	return map[string]any{"fraction": s.Fraction}
}
