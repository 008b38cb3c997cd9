package models

import (
	"time"
)

// Outcome represents the full-time result of a football match
type Outcome string

const (
	OutcomeHome Outcome = "HOME"
	OutcomeDraw Outcome = "DRAW"
	OutcomeAway Outcome = "AWAY"
)

// Outcomes lists all outcomes in canonical order. Every component that
// iterates an odds line or stake decision must use this order so that
// floating point accumulation is reproducible across runs.
var Outcomes = [3]Outcome{OutcomeHome, OutcomeDraw, OutcomeAway}

// IsValid checks the outcome is one of the three recognized values
func (o Outcome) IsValid() bool {
	switch o {
	case OutcomeHome, OutcomeDraw, OutcomeAway:
		return true
	}
	return false
}

// OddsLine holds decimal odds per outcome as quoted by the bookmaker
type OddsLine map[Outcome]float64

// Complete reports whether the line quotes all three outcomes with odds >= 1.0
func (l OddsLine) Complete() bool {
	for _, outcome := range Outcomes {
		odds, ok := l[outcome]
		if !ok || odds < 1.0 {
			return false
		}
	}
	return true
}

// MissingOutcome returns the first outcome (canonical order) without a valid quote
func (l OddsLine) MissingOutcome() (Outcome, bool) {
	for _, outcome := range Outcomes {
		odds, ok := l[outcome]
		if !ok || odds < 1.0 {
			return outcome, true
		}
	}
	return "", false
}

// Implied returns the market-implied probability 1/odds for an outcome
func (l OddsLine) Implied(outcome Outcome) float64 {
	odds := l[outcome]
	if odds <= 0 {
		return 0
	}
	return 1.0 / odds
}

// Overround returns the bookmaker margin: sum of implied probabilities minus one
func (l OddsLine) Overround() float64 {
	total := 0.0
	for _, outcome := range Outcomes {
		total += l.Implied(outcome)
	}
	return total - 1.0
}

// MatchRecord represents a finalized football match with its closing odds.
// Records are immutable once loaded; the backtest engine only reads them.
type MatchRecord struct {
	MatchID     string    `db:"match_id" json:"match_id" validate:"required"`
	Date        time.Time `db:"date" json:"date" validate:"required"`
	Competition string    `db:"competition" json:"competition"`
	Season      string    `db:"season" json:"season"`
	HomeTeam    string    `db:"home_team" json:"home_team" validate:"required"`
	AwayTeam    string    `db:"away_team" json:"away_team" validate:"required"`
	HomeGoals   int       `db:"home_goals" json:"home_goals" validate:"gte=0"`
	AwayGoals   int       `db:"away_goals" json:"away_goals" validate:"gte=0"`
	HomeXG      *float64  `db:"home_xg" json:"home_xg,omitempty"`
	AwayXG      *float64  `db:"away_xg" json:"away_xg,omitempty"`
	TrueOutcome Outcome   `db:"result" json:"result" validate:"required,oneof=HOME DRAW AWAY"`
	Odds        OddsLine  `json:"odds"`
	Features    []float64 `db:"features" json:"features"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// Before reports whether m sorts strictly before other by (date, match_id)
func (m *MatchRecord) Before(other *MatchRecord) bool {
	if m.Date.Before(other.Date) {
		return true
	}
	if m.Date.After(other.Date) {
		return false
	}
	return m.MatchID < other.MatchID
}

// OutcomeFromScore derives the full-time outcome from a scoreline
func OutcomeFromScore(homeGoals, awayGoals int) Outcome {
	switch {
	case homeGoals > awayGoals:
		return OutcomeHome
	case homeGoals < awayGoals:
		return OutcomeAway
	default:
		return OutcomeDraw
	}
}
