package models

import (
	"fmt"
	"math"
)

// ProbabilityTolerance is the accepted deviation of a probability triple from 1.0
const ProbabilityTolerance = 1e-6

// Prediction is a probability distribution over the three match outcomes
type Prediction struct {
	Home float64 `json:"p_home"`
	Draw float64 `json:"p_draw"`
	Away float64 `json:"p_away"`
}

// Prob returns the predicted probability for an outcome
func (p Prediction) Prob(outcome Outcome) float64 {
	switch outcome {
	case OutcomeHome:
		return p.Home
	case OutcomeDraw:
		return p.Draw
	case OutcomeAway:
		return p.Away
	}
	return 0
}

// Validate checks each probability is in [0,1] and the triple sums to 1
// within ProbabilityTolerance
func (p Prediction) Validate() error {
	for _, outcome := range Outcomes {
		prob := p.Prob(outcome)
		if math.IsNaN(prob) || prob < 0 || prob > 1 {
			return fmt.Errorf("probability for %s out of range: %v", outcome, prob)
		}
	}
	sum := p.Home + p.Draw + p.Away
	if math.Abs(sum-1.0) > ProbabilityTolerance {
		return fmt.Errorf("probabilities sum to %v, expected 1.0", sum)
	}
	return nil
}

// Best returns the outcome with the highest predicted probability.
// Ties resolve in canonical order HOME, DRAW, AWAY.
func (p Prediction) Best() Outcome {
	best := Outcomes[0]
	for _, outcome := range Outcomes[1:] {
		if p.Prob(outcome) > p.Prob(best) {
			best = outcome
		}
	}
	return best
}

// StakeDecision maps outcomes to non-negative stake amounts. Absent
// outcomes stake zero. The engine never trusts totals from a strategy;
// it re-validates against the current bankroll.
type StakeDecision map[Outcome]float64

// Total sums stakes in canonical outcome order
func (s StakeDecision) Total() float64 {
	total := 0.0
	for _, outcome := range Outcomes {
		total += s[outcome]
	}
	return total
}

// IsZero reports whether no outcome carries a stake
func (s StakeDecision) IsZero() bool {
	for _, outcome := range Outcomes {
		if s[outcome] != 0 {
			return false
		}
	}
	return true
}
