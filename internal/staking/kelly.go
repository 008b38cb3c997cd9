package staking

import (
	"fmt"

	"github.com/yourusername/pitch-edge/internal/models"
)

// KellyStake sizes each outcome by its Kelly fraction (p*o - 1) / (o - 1),
// scaled by a de-risking multiplier. Outcomes with zero or negative edge
// stake nothing. When the positive fractions together exceed the whole
// bankroll they are scaled down proportionally; below that cap they are
// left as computed, with no renormalization.
type KellyStake struct {
	Multiplier float64
}

// NewKellyStake validates the multiplier and builds the strategy
func NewKellyStake(multiplier float64) (*KellyStake, error) {
	if multiplier <= 0 || multiplier > 1 {
		return nil, fmt.Errorf("kelly multiplier must be in (0,1], got %v", multiplier)
	}
	return &KellyStake{Multiplier: multiplier}, nil
}

// Name returns the strategy name
func (s *KellyStake) Name() string {
	return "kelly"
}

// Stakes sizes the bets for one match
func (s *KellyStake) Stakes(prediction models.Prediction, odds models.OddsLine, bankroll float64) models.StakeDecision {
	stakes := models.StakeDecision{}
	if bankroll <= 0 {
		return stakes
	}

	fractions := [len(models.Outcomes)]float64{}
	total := 0.0
	for i, outcome := range models.Outcomes {
		o := odds[outcome]
		if o <= 1 {
			continue
		}
		p := prediction.Prob(outcome)
		fraction := (p*o - 1.0) / (o - 1.0)
		if fraction <= 0 {
			continue
		}
		fractions[i] = fraction
		total += fraction
	}
	if total == 0 {
		return stakes
	}

	// Simultaneous bets share one bankroll: cap the combined fraction at 1.
	scale := 1.0
	if total > 1 {
		scale = 1.0 / total
	}

	for i, outcome := range models.Outcomes {
		if fractions[i] == 0 {
			continue
		}
		stakes[outcome] = bankroll * fractions[i] * scale * s.Multiplier
	}
	return stakes
}

// Parameters returns strategy parameters for reporting
func (s *KellyStake) Parameters() map[string]any {
	return map[string]any{"kelly_multiplier": s.Multiplier}
}
