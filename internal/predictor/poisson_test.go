package predictor

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoissonPredictValidDistribution(t *testing.T) {
	pred := NewPoissonPredictor(0, 0)

	prediction, err := pred.Predict(context.Background(), []float64{1.1, 0.9, 1.0, 1.0})
	require.NoError(t, err)
	require.NoError(t, prediction.Validate())

	sum := prediction.Home + prediction.Draw + prediction.Away
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestPoissonPredictHomeAdvantage(t *testing.T) {
	pred := NewPoissonPredictor(1.3, 10)

	// Evenly matched teams: the home advantage multiplier alone should
	// tilt the distribution toward a home win.
	prediction, err := pred.Predict(context.Background(), []float64{1.0, 1.0, 1.0, 1.0})
	require.NoError(t, err)
	assert.Greater(t, prediction.Home, prediction.Away)
}

func TestPoissonPredictStrongAwaySide(t *testing.T) {
	pred := NewPoissonPredictor(1.3, 10)

	// Away attack far above home attack, weak home defence.
	prediction, err := pred.Predict(context.Background(), []float64{0.6, 1.8, 2.0, 0.6})
	require.NoError(t, err)
	assert.Greater(t, prediction.Away, prediction.Home)
}

func TestPoissonPredictIsDeterministic(t *testing.T) {
	pred := NewPoissonPredictor(1.3, 10)
	features := []float64{1.2, 0.8, 0.9, 1.1}

	first, err := pred.Predict(context.Background(), features)
	require.NoError(t, err)
	second, err := pred.Predict(context.Background(), features)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestPoissonPredictRejectsMalformedFeatures(t *testing.T) {
	pred := NewPoissonPredictor(0, 0)
	ctx := context.Background()

	cases := [][]float64{
		nil,
		{1.0, 1.0},
		{1.0, 1.0, 1.0, 0},
		{1.0, 1.0, 1.0, -0.5},
		{1.0, 1.0, 1.0, math.NaN()},
		{1.0, 1.0, 1.0, math.Inf(1)},
	}
	for _, features := range cases {
		_, err := pred.Predict(ctx, features)
		assert.ErrorIs(t, err, ErrMalformedFeatures, "features %v", features)
	}
}

func TestPoissonPMF(t *testing.T) {
	// P(X=0) for lambda=1 is e^-1.
	assert.InDelta(t, math.Exp(-1), poissonPMF(1, 0), 1e-12)
	// P(X=2) for lambda=2 is 2e^-2.
	assert.InDelta(t, 2*math.Exp(-2), poissonPMF(2, 2), 1e-12)
}

func TestErrorsUnwrap(t *testing.T) {
	pred := NewPoissonPredictor(0, 0)
	_, err := pred.Predict(context.Background(), []float64{1})
	assert.True(t, errors.Is(err, ErrMalformedFeatures))
}
