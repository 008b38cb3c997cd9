package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/yourusername/pitch-edge/internal/datasource"
	"github.com/yourusername/pitch-edge/internal/models"
)

// teamAliases maps provider-specific team names onto canonical names. Results
// feeds and xG feeds disagree on naming, so merging depends on this table.
var teamAliases = map[string]string{
	"Man United":              "Manchester United",
	"Man Utd":                 "Manchester United",
	"Man City":                "Manchester City",
	"Spurs":                   "Tottenham",
	"Tottenham Hotspur":       "Tottenham",
	"Newcastle United":        "Newcastle",
	"Newcastle Utd":           "Newcastle",
	"Wolverhampton Wanderers": "Wolves",
	"Nott'm Forest":           "Nottingham Forest",
	"Sheffield Utd":           "Sheffield United",
	"West Brom":               "West Bromwich Albion",
	"Leeds":                   "Leeds United",
	"Leicester":               "Leicester City",
	"Brighton":                "Brighton and Hove Albion",
	"Brighton & Hove Albion":  "Brighton and Hove Albion",
}

// competitionAliases maps provider competition codes onto the canonical
// football-data.co.uk division codes.
var competitionAliases = map[string]string{
	"EPL":        "E0",
	"La_liga":    "SP1",
	"Bundesliga": "D1",
	"Serie_A":    "I1",
	"Ligue_1":    "F1",
}

// DataNormalizer converts provider match data into canonical match records.
type DataNormalizer struct{}

// NewDataNormalizer creates a new data normalizer
func NewDataNormalizer() *DataNormalizer {
	return &DataNormalizer{}
}

// CanonicalTeamName resolves a provider team name to its canonical form.
func (n *DataNormalizer) CanonicalTeamName(name string) string {
	name = strings.TrimSpace(name)
	if canonical, ok := teamAliases[name]; ok {
		return canonical
	}
	return name
}

// CanonicalCompetition resolves a provider competition code to its canonical form.
func (n *DataNormalizer) CanonicalCompetition(code string) string {
	if canonical, ok := competitionAliases[code]; ok {
		return canonical
	}
	return code
}

// MatchKey builds the canonical match identifier from competition, date and
// the home side. One fixture per home team per day is assumed, which holds
// for league football.
func (n *DataNormalizer) MatchKey(competition string, date time.Time, homeTeam string) string {
	return fmt.Sprintf("%s-%s-%s", competition, date.Format("2006-01-02"), teamSlug(homeTeam))
}

// NormalizeMatch converts provider data into a canonical match record.
// Records without a final score are rejected: the pipeline only stores
// finished matches.
func (n *DataNormalizer) NormalizeMatch(data *datasource.MatchData) (*models.MatchRecord, error) {
	if data.HomeGoals == nil || data.AwayGoals == nil {
		return nil, fmt.Errorf("match %s has no final score", data.SourceID)
	}

	homeTeam := n.CanonicalTeamName(data.HomeTeam)
	awayTeam := n.CanonicalTeamName(data.AwayTeam)
	competition := n.CanonicalCompetition(data.Competition)
	date := data.Date.UTC().Truncate(24 * time.Hour)

	record := &models.MatchRecord{
		MatchID:     n.MatchKey(competition, date, homeTeam),
		Date:        date,
		Competition: competition,
		Season:      data.Season,
		HomeTeam:    homeTeam,
		AwayTeam:    awayTeam,
		HomeGoals:   *data.HomeGoals,
		AwayGoals:   *data.AwayGoals,
		TrueOutcome: models.OutcomeFromScore(*data.HomeGoals, *data.AwayGoals),
		Odds:        models.OddsLine{},
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.CreatedAt,
	}

	if data.HomeXG != nil {
		v, _ := data.HomeXG.Float64()
		record.HomeXG = &v
	}
	if data.AwayXG != nil {
		v, _ := data.AwayXG.Float64()
		record.AwayXG = &v
	}

	if data.HomeOdds != nil {
		record.Odds[models.OutcomeHome], _ = data.HomeOdds.Float64()
	}
	if data.DrawOdds != nil {
		record.Odds[models.OutcomeDraw], _ = data.DrawOdds.Float64()
	}
	if data.AwayOdds != nil {
		record.Odds[models.OutcomeAway], _ = data.AwayOdds.Float64()
	}

	return record, nil
}

// Merge folds a secondary record into a primary one. Results and odds from
// the primary win; expected goals fill in from whichever side has them.
func (n *DataNormalizer) Merge(primary, secondary *models.MatchRecord) *models.MatchRecord {
	if primary.HomeXG == nil {
		primary.HomeXG = secondary.HomeXG
	}
	if primary.AwayXG == nil {
		primary.AwayXG = secondary.AwayXG
	}
	for _, outcome := range models.Outcomes {
		if _, ok := primary.Odds[outcome]; !ok {
			if v, ok := secondary.Odds[outcome]; ok {
				primary.Odds[outcome] = v
			}
		}
	}
	return primary
}

func teamSlug(name string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", "-"))
}
