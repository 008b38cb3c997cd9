package staking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/pitch-edge/internal/config"
	"github.com/yourusername/pitch-edge/internal/models"
)

func fairOdds() models.OddsLine {
	return models.OddsLine{
		models.OutcomeHome: 2.5,
		models.OutcomeDraw: 3.3,
		models.OutcomeAway: 3.0,
	}
}

func TestNewBuildsConfiguredStrategy(t *testing.T) {
	flat, err := New(&config.StakingConfig{Type: "flat", Fraction: 0.02})
	require.NoError(t, err)
	assert.Equal(t, "flat", flat.Name())

	kelly, err := New(&config.StakingConfig{Type: "kelly", KellyMultiplier: 0.5})
	require.NoError(t, err)
	assert.Equal(t, "kelly", kelly.Name())

	_, err = New(&config.StakingConfig{Type: "martingale"})
	assert.Error(t, err)
}

func TestNewFlatStakeValidatesFraction(t *testing.T) {
	_, err := NewFlatStake(0)
	assert.Error(t, err)
	_, err = NewFlatStake(1.5)
	assert.Error(t, err)
	_, err = NewFlatStake(1.0)
	assert.NoError(t, err)
}

func TestFlatStakeSizesBestOutcome(t *testing.T) {
	strat, err := NewFlatStake(0.05)
	require.NoError(t, err)

	// Home probability 0.5 beats the implied 1/2.5 = 0.4.
	prediction := models.Prediction{Home: 0.5, Draw: 0.3, Away: 0.2}
	stakes := strat.Stakes(prediction, fairOdds(), 200)

	assert.InDelta(t, 10.0, stakes[models.OutcomeHome], 1e-9)
	assert.Zero(t, stakes[models.OutcomeDraw])
	assert.Zero(t, stakes[models.OutcomeAway])
}

func TestFlatStakePassesWithoutEdge(t *testing.T) {
	strat, err := NewFlatStake(0.05)
	require.NoError(t, err)

	// Home probability 0.4 equals the implied probability: no edge.
	prediction := models.Prediction{Home: 0.4, Draw: 0.35, Away: 0.25}
	stakes := strat.Stakes(prediction, fairOdds(), 200)
	assert.True(t, stakes.IsZero())
}

func TestFlatStakeZeroBankroll(t *testing.T) {
	strat, err := NewFlatStake(0.05)
	require.NoError(t, err)

	prediction := models.Prediction{Home: 0.6, Draw: 0.25, Away: 0.15}
	assert.True(t, strat.Stakes(prediction, fairOdds(), 0).IsZero())
}

func TestNewKellyStakeValidatesMultiplier(t *testing.T) {
	_, err := NewKellyStake(0)
	assert.Error(t, err)
	_, err = NewKellyStake(1.1)
	assert.Error(t, err)
	_, err = NewKellyStake(1.0)
	assert.NoError(t, err)
}

func TestKellyStakeFraction(t *testing.T) {
	strat, err := NewKellyStake(1.0)
	require.NoError(t, err)

	// Only HOME has edge: f = (0.5*2.5 - 1) / (2.5 - 1) = 1/6.
	prediction := models.Prediction{Home: 0.5, Draw: 0.3, Away: 0.2}
	stakes := strat.Stakes(prediction, fairOdds(), 600)

	assert.InDelta(t, 100.0, stakes[models.OutcomeHome], 1e-9)
	assert.Zero(t, stakes[models.OutcomeDraw])
	assert.Zero(t, stakes[models.OutcomeAway])
}

func TestKellyStakeMultiplierScalesDown(t *testing.T) {
	full, err := NewKellyStake(1.0)
	require.NoError(t, err)
	half, err := NewKellyStake(0.5)
	require.NoError(t, err)

	prediction := models.Prediction{Home: 0.5, Draw: 0.3, Away: 0.2}
	fullStakes := full.Stakes(prediction, fairOdds(), 600)
	halfStakes := half.Stakes(prediction, fairOdds(), 600)

	assert.InDelta(t, fullStakes[models.OutcomeHome]/2, halfStakes[models.OutcomeHome], 1e-9)
}

func TestKellyStakeCapsCombinedFractionAtBankroll(t *testing.T) {
	strat, err := NewKellyStake(1.0)
	require.NoError(t, err)

	// An overconfident distribution can request more than the whole
	// bankroll; the combined fractions scale down proportionally.
	odds := models.OddsLine{
		models.OutcomeHome: 2.0,
		models.OutcomeDraw: 2.0,
		models.OutcomeAway: 2.0,
	}
	prediction := models.Prediction{Home: 0.9, Draw: 0.9, Away: 0}
	stakes := strat.Stakes(prediction, odds, 100)

	assert.InDelta(t, 100.0, stakes.Total(), 1e-9)
	assert.InDelta(t, stakes[models.OutcomeHome], stakes[models.OutcomeDraw], 1e-9)
}

func TestKellyStakeNoEdgeNoBet(t *testing.T) {
	strat, err := NewKellyStake(1.0)
	require.NoError(t, err)

	// Probabilities exactly at the implied values carry zero edge.
	prediction := models.Prediction{
		Home: 1 / 2.5,
		Draw: 1 / 3.3,
		Away: 1 - 1/2.5 - 1/3.3,
	}
	stakes := strat.Stakes(prediction, fairOdds(), 100)
	assert.True(t, stakes.IsZero())
}

func TestKellyStakeIgnoresUnquotableOdds(t *testing.T) {
	strat, err := NewKellyStake(1.0)
	require.NoError(t, err)

	odds := models.OddsLine{
		models.OutcomeHome: 1.0, // no payout over stake, no Kelly fraction
		models.OutcomeDraw: 3.3,
		models.OutcomeAway: 3.0,
	}
	prediction := models.Prediction{Home: 0.9, Draw: 0.05, Away: 0.05}
	stakes := strat.Stakes(prediction, odds, 100)
	assert.Zero(t, stakes[models.OutcomeHome])
}

func TestParametersRoundTrip(t *testing.T) {
	flat, err := NewFlatStake(0.02)
	require.NoError(t, err)
	assert.InDelta(t, 0.02, flat.Parameters()["fraction"].(float64), 1e-12)

	kelly, err := NewKellyStake(0.25)
	require.NoError(t, err)
	assert.InDelta(t, 0.25, kelly.Parameters()["kelly_multiplier"].(float64), 1e-12)
}

func TestKellyFractionFormula(t *testing.T) {
	// Spot-check the fraction against the closed form at a second point:
	// p=0.6, o=2.0 -> f = (1.2-1)/(1.0) = 0.2.
	strat, err := NewKellyStake(1.0)
	require.NoError(t, err)

	odds := models.OddsLine{
		models.OutcomeHome: 2.0,
		models.OutcomeDraw: 2.0,
		models.OutcomeAway: 2.0,
	}
	prediction := models.Prediction{Home: 0.6, Draw: 0.2, Away: 0.2}
	stakes := strat.Stakes(prediction, odds, 100)

	assert.InDelta(t, 20.0, stakes[models.OutcomeHome], 1e-9)
	assert.Zero(t, stakes[models.OutcomeDraw])
	assert.Zero(t, stakes[models.OutcomeAway])
}
