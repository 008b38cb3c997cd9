package predictor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/pitch-edge/internal/models"
)

type countingPredictor struct {
	calls int
	err   error
}

func (p *countingPredictor) Name() string { return "counting" }

func (p *countingPredictor) Predict(ctx context.Context, features []float64) (models.Prediction, error) {
	p.calls++
	if p.err != nil {
		return models.Prediction{}, p.err
	}
	return models.Prediction{Home: 0.5, Draw: 0.3, Away: 0.2}, nil
}

func TestCachedPredictorReusesResult(t *testing.T) {
	inner := &countingPredictor{}
	cached := NewCachedPredictor(inner, time.Minute)
	features := []float64{1.1, 0.9, 1.0, 1.0}

	first, err := cached.Predict(context.Background(), features)
	require.NoError(t, err)
	second, err := cached.Predict(context.Background(), features)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.calls)
}

func TestCachedPredictorDistinctFeaturesMiss(t *testing.T) {
	inner := &countingPredictor{}
	cached := NewCachedPredictor(inner, time.Minute)

	_, err := cached.Predict(context.Background(), []float64{1.1, 0.9, 1.0, 1.0})
	require.NoError(t, err)
	_, err = cached.Predict(context.Background(), []float64{1.1, 0.9, 1.0, 1.2})
	require.NoError(t, err)

	assert.Equal(t, 2, inner.calls)
}

func TestCachedPredictorNeverCachesErrors(t *testing.T) {
	inner := &countingPredictor{err: errors.New("service down")}
	cached := NewCachedPredictor(inner, time.Minute)
	features := []float64{1.0, 1.0, 1.0, 1.0}

	_, err := cached.Predict(context.Background(), features)
	assert.Error(t, err)
	_, err = cached.Predict(context.Background(), features)
	assert.Error(t, err)

	assert.Equal(t, 2, inner.calls)
}

func TestFeatureKeyStability(t *testing.T) {
	a := []float64{1.1, 0.9, 1.0, 1.0}
	b := []float64{1.1, 0.9, 1.0, 1.0}
	assert.Equal(t, featureKey(a), featureKey(b))

	// Length participates in the key, so a prefix never collides with the
	// full vector.
	assert.NotEqual(t, featureKey(a), featureKey(a[:3]))
	assert.NotEqual(t, featureKey(a), featureKey([]float64{1.1, 0.9, 1.0, 1.0000001}))
}

func TestCachedPredictorName(t *testing.T) {
	cached := NewCachedPredictor(&countingPredictor{}, 0)
	assert.Equal(t, "counting", cached.Name())
}
