package service

import (
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/yourusername/pitch-edge/internal/models"
)

func testValidator() *DataValidator {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewDataValidator(logger)
}

func validMatch() *models.MatchRecord {
	return &models.MatchRecord{
		MatchID:     "E0-2023-09-16-arsenal",
		Date:        time.Date(2023, 9, 16, 0, 0, 0, 0, time.UTC),
		HomeTeam:    "Arsenal",
		AwayTeam:    "Manchester United",
		HomeGoals:   3,
		AwayGoals:   1,
		TrueOutcome: models.OutcomeHome,
		Odds: models.OddsLine{
			models.OutcomeHome: 1.85,
			models.OutcomeDraw: 3.80,
			models.OutcomeAway: 4.20,
		},
	}
}

func TestValidateMatchAcceptsValidRecord(t *testing.T) {
	assert.Empty(t, testValidator().ValidateMatch(validMatch()))
}

func TestValidateMatchRequiredFields(t *testing.T) {
	match := validMatch()
	match.MatchID = ""
	match.HomeTeam = ""
	problems := testValidator().ValidateMatch(match)
	assert.Len(t, problems, 2)
}

func TestValidateMatchIdenticalTeams(t *testing.T) {
	match := validMatch()
	match.AwayTeam = match.HomeTeam
	assert.NotEmpty(t, testValidator().ValidateMatch(match))
}

func TestValidateMatchOutcomeMustMatchScore(t *testing.T) {
	match := validMatch()
	match.TrueOutcome = models.OutcomeAway
	problems := testValidator().ValidateMatch(match)
	assert.Len(t, problems, 1)
	assert.Contains(t, problems[0], "inconsistent")
}

func TestValidateMatchRejectsUnknownOutcome(t *testing.T) {
	match := validMatch()
	match.TrueOutcome = "VOID"
	assert.NotEmpty(t, testValidator().ValidateMatch(match))
}

func TestValidateMatchFutureDate(t *testing.T) {
	match := validMatch()
	match.Date = time.Now().Add(72 * time.Hour)
	assert.NotEmpty(t, testValidator().ValidateMatch(match))
}

func TestValidateMatchImplausibleOdds(t *testing.T) {
	match := validMatch()
	match.Odds[models.OutcomeDraw] = 1.0
	problems := testValidator().ValidateMatch(match)
	assert.Len(t, problems, 1)
	assert.Contains(t, problems[0], "below minimum")
}

func TestValidateMatchPartialOddsAllowed(t *testing.T) {
	match := validMatch()
	delete(match.Odds, models.OutcomeAway)
	assert.Empty(t, testValidator().ValidateMatch(match))
}

func TestValidateMatchNegativeXG(t *testing.T) {
	match := validMatch()
	xg := -0.2
	match.HomeXG = &xg
	assert.NotEmpty(t, testValidator().ValidateMatch(match))
}
