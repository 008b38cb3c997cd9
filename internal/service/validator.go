package service

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/pitch-edge/internal/models"
)

// Odds below this are not quotable prices for a three-way market.
const minQuotableOdds = 1.01

// DataValidator validates match records before they are persisted
type DataValidator struct {
	logger *logrus.Logger
}

// NewDataValidator creates a new data validator
func NewDataValidator(logger *logrus.Logger) *DataValidator {
	return &DataValidator{logger: logger}
}

// ValidateMatch validates a match record for required fields and constraints
func (v *DataValidator) ValidateMatch(match *models.MatchRecord) []string {
	var errors []string

	// Check required fields
	if match.MatchID == "" {
		errors = append(errors, "match_id is required")
	}

	if match.Date.IsZero() {
		errors = append(errors, "date is required")
	}

	if match.HomeTeam == "" {
		errors = append(errors, "home_team is required")
	}

	if match.AwayTeam == "" {
		errors = append(errors, "away_team is required")
	}

	if match.HomeTeam != "" && match.HomeTeam == match.AwayTeam {
		errors = append(errors, fmt.Sprintf("home and away team are identical: %s", match.HomeTeam))
	}

	if match.HomeGoals < 0 || match.AwayGoals < 0 {
		errors = append(errors, fmt.Sprintf("goals cannot be negative, got %d-%d", match.HomeGoals, match.AwayGoals))
	}

	if !match.TrueOutcome.IsValid() {
		errors = append(errors, fmt.Sprintf("invalid result: %s", match.TrueOutcome))
	} else if match.TrueOutcome != models.OutcomeFromScore(match.HomeGoals, match.AwayGoals) {
		errors = append(errors, fmt.Sprintf("result %s inconsistent with score %d-%d",
			match.TrueOutcome, match.HomeGoals, match.AwayGoals))
	}

	// Only finished matches are stored, so the date must not be in the future
	if match.Date.After(time.Now().Add(24 * time.Hour)) {
		errors = append(errors, "match date is in the future")
	}

	// Odds may be partially absent, but quoted prices must be plausible
	for _, outcome := range models.Outcomes {
		if odds, ok := match.Odds[outcome]; ok && odds < minQuotableOdds {
			errors = append(errors, fmt.Sprintf("odds for %s below minimum: %f", outcome, odds))
		}
	}

	// Expected goals, when present, must be non-negative
	if match.HomeXG != nil && *match.HomeXG < 0 {
		errors = append(errors, "home_xg cannot be negative")
	}
	if match.AwayXG != nil && *match.AwayXG < 0 {
		errors = append(errors, "away_xg cannot be negative")
	}

	return errors
}
