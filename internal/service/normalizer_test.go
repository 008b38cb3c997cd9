package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/pitch-edge/internal/datasource"
	"github.com/yourusername/pitch-edge/internal/models"
)

func intPtr(v int) *int { return &v }

func decPtr(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

func TestCanonicalTeamName(t *testing.T) {
	n := NewDataNormalizer()

	assert.Equal(t, "Manchester United", n.CanonicalTeamName("Man United"))
	assert.Equal(t, "Manchester United", n.CanonicalTeamName("Man Utd"))
	assert.Equal(t, "Tottenham", n.CanonicalTeamName("Spurs"))
	assert.Equal(t, "Arsenal", n.CanonicalTeamName("Arsenal"))
	assert.Equal(t, "Arsenal", n.CanonicalTeamName("  Arsenal  "))
}

func TestCanonicalCompetition(t *testing.T) {
	n := NewDataNormalizer()

	assert.Equal(t, "E0", n.CanonicalCompetition("EPL"))
	assert.Equal(t, "E0", n.CanonicalCompetition("E0"))
	assert.Equal(t, "SP1", n.CanonicalCompetition("La_liga"))
}

func TestMatchKeyIsStableAcrossProviders(t *testing.T) {
	n := NewDataNormalizer()
	date := time.Date(2023, 9, 16, 0, 0, 0, 0, time.UTC)

	resultsKey := n.MatchKey(n.CanonicalCompetition("E0"), date, n.CanonicalTeamName("Man United"))
	xgKey := n.MatchKey(n.CanonicalCompetition("EPL"), date, n.CanonicalTeamName("Manchester United"))

	assert.Equal(t, resultsKey, xgKey)
	assert.Equal(t, "E0-2023-09-16-manchester-united", resultsKey)
}

func TestNormalizeMatchRejectsUnplayed(t *testing.T) {
	n := NewDataNormalizer()

	_, err := n.NormalizeMatch(&datasource.MatchData{
		SourceID: "understat-123",
		HomeTeam: "Arsenal",
		AwayTeam: "Chelsea",
		Date:     time.Now(),
	})
	assert.Error(t, err)
}

func TestNormalizeMatchBuildsRecord(t *testing.T) {
	n := NewDataNormalizer()

	record, err := n.NormalizeMatch(&datasource.MatchData{
		SourceID:    "E0-2324-arsenal-20230916",
		Competition: "EPL",
		Season:      "2324",
		Date:        time.Date(2023, 9, 16, 15, 0, 0, 0, time.UTC),
		HomeTeam:    "Arsenal",
		AwayTeam:    "Man United",
		HomeGoals:   intPtr(3),
		AwayGoals:   intPtr(1),
		HomeXG:      decPtr("2.45"),
		HomeOdds:    decPtr("1.85"),
		DrawOdds:    decPtr("3.80"),
		AwayOdds:    decPtr("4.20"),
	})
	require.NoError(t, err)

	assert.Equal(t, "E0-2023-09-16-arsenal", record.MatchID)
	assert.Equal(t, "E0", record.Competition)
	assert.Equal(t, "Manchester United", record.AwayTeam)
	assert.Equal(t, models.OutcomeHome, record.TrueOutcome)
	// kickoff time truncated so providers with different timestamps merge
	assert.Equal(t, time.Date(2023, 9, 16, 0, 0, 0, 0, time.UTC), record.Date)
	require.NotNil(t, record.HomeXG)
	assert.InDelta(t, 2.45, *record.HomeXG, 1e-9)
	assert.Nil(t, record.AwayXG)
	assert.InDelta(t, 1.85, record.Odds[models.OutcomeHome], 1e-9)
}

func TestMergePrimaryWinsXGFillsIn(t *testing.T) {
	n := NewDataNormalizer()
	xg := 1.7

	primary := &models.MatchRecord{
		MatchID: "E0-2023-09-16-arsenal",
		Odds:    models.OddsLine{models.OutcomeHome: 1.85},
	}
	secondary := &models.MatchRecord{
		MatchID: "E0-2023-09-16-arsenal",
		HomeXG:  &xg,
		Odds:    models.OddsLine{models.OutcomeHome: 1.90, models.OutcomeDraw: 3.80},
	}

	merged := n.Merge(primary, secondary)

	assert.InDelta(t, 1.85, merged.Odds[models.OutcomeHome], 1e-9, "primary odds must win")
	assert.InDelta(t, 3.80, merged.Odds[models.OutcomeDraw], 1e-9, "missing odds fill in")
	require.NotNil(t, merged.HomeXG)
	assert.InDelta(t, 1.7, *merged.HomeXG, 1e-9)
}
