package service

import (
	"sort"

	"github.com/yourusername/pitch-edge/internal/models"
)

const (
	// Rolling window of past matches used per team.
	featureWindow = 10

	// Strength assigned to a team with no history yet.
	neutralStrength = 1.0

	// Blend weight given to expected goals over actual goals when both exist.
	xgBlendWeight = 0.6
)

// FeatureBuilder derives model feature vectors from match history. Features
// for a match are computed exclusively from matches that finished before it,
// so feeding them to a predictor introduces no lookahead.
type FeatureBuilder struct {
	window int
}

// NewFeatureBuilder creates a feature builder with the default window.
func NewFeatureBuilder() *FeatureBuilder {
	return &FeatureBuilder{window: featureWindow}
}

// teamForm accumulates a team's recent scoring record.
type teamForm struct {
	scored   []float64 // goals scored per match, xG-blended where available
	conceded []float64
}

func (f *teamForm) record(scored, conceded float64, window int) {
	f.scored = append(f.scored, scored)
	f.conceded = append(f.conceded, conceded)
	if len(f.scored) > window {
		f.scored = f.scored[1:]
		f.conceded = f.conceded[1:]
	}
}

func (f *teamForm) attack(leagueAvg float64) float64 {
	if f == nil || len(f.scored) == 0 || leagueAvg <= 0 {
		return neutralStrength
	}
	return mean(f.scored) / leagueAvg
}

func (f *teamForm) defence(leagueAvg float64) float64 {
	if f == nil || len(f.conceded) == 0 || leagueAvg <= 0 {
		return neutralStrength
	}
	return mean(f.conceded) / leagueAvg
}

// BuildFeatures computes feature vectors for every match and writes them onto
// the records in place. Matches are processed in (date, match_id) order; each
// vector reflects only history strictly before the match.
//
// The layout is [homeAttack, homeDefence, awayAttack, awayDefence], strength
// multipliers relative to the rolling league average.
func (b *FeatureBuilder) BuildFeatures(matches []*models.MatchRecord) {
	ordered := make([]*models.MatchRecord, len(matches))
	copy(ordered, matches)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Before(ordered[j])
	})

	forms := make(map[string]*teamForm)
	var leagueGoals []float64

	for _, match := range ordered {
		leagueAvg := neutralStrength
		if len(leagueGoals) > 0 {
			leagueAvg = mean(leagueGoals)
		}

		home := forms[match.HomeTeam]
		away := forms[match.AwayTeam]

		match.Features = []float64{
			home.attack(leagueAvg),
			home.defence(leagueAvg),
			away.attack(leagueAvg),
			away.defence(leagueAvg),
		}

		// Fold the finished match into the rolling state for later fixtures.
		homeScored := blendGoals(float64(match.HomeGoals), match.HomeXG)
		awayScored := blendGoals(float64(match.AwayGoals), match.AwayXG)

		if home == nil {
			home = &teamForm{}
			forms[match.HomeTeam] = home
		}
		if away == nil {
			away = &teamForm{}
			forms[match.AwayTeam] = away
		}
		home.record(homeScored, awayScored, b.window)
		away.record(awayScored, homeScored, b.window)

		leagueGoals = append(leagueGoals, homeScored, awayScored)
		if len(leagueGoals) > 2*b.window*20 {
			leagueGoals = leagueGoals[2:]
		}
	}
}

// blendGoals mixes actual goals with expected goals when xG is available.
// xG is a less noisy signal of performance than the scoreline alone.
func blendGoals(goals float64, xg *float64) float64 {
	if xg == nil {
		return goals
	}
	return xgBlendWeight**xg + (1-xgBlendWeight)*goals
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total / float64(len(values))
}
