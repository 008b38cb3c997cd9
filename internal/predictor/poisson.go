package predictor

import (
	"context"
	"fmt"
	"math"

	"github.com/yourusername/pitch-edge/internal/models"
)

const (
	defaultHomeAdvantage = 1.3
	defaultMaxGoals      = 10

	// Feature vector layout consumed by the Poisson model.
	featureHomeAttack  = 0
	featureHomeDefence = 1
	featureAwayAttack  = 2
	featureAwayDefence = 3
	poissonFeatureLen  = 4
)

// PoissonPredictor estimates outcome probabilities from team attack and
// defence strengths using independent Poisson goal distributions. It serves
// as the offline baseline when no model service is configured.
type PoissonPredictor struct {
	homeAdvantage float64
	maxGoals      int
}

// NewPoissonPredictor creates a Poisson predictor. Zero values select the
// defaults for home advantage and goal grid size.
func NewPoissonPredictor(homeAdvantage float64, maxGoals int) *PoissonPredictor {
	if homeAdvantage <= 0 {
		homeAdvantage = defaultHomeAdvantage
	}
	if maxGoals <= 0 {
		maxGoals = defaultMaxGoals
	}
	return &PoissonPredictor{
		homeAdvantage: homeAdvantage,
		maxGoals:      maxGoals,
	}
}

// Name identifies the predictor implementation.
func (p *PoissonPredictor) Name() string {
	return "poisson"
}

// Predict computes outcome probabilities over a goal grid. The feature vector
// is [homeAttack, homeDefence, awayAttack, awayDefence], each a positive
// strength multiplier around 1.0.
func (p *PoissonPredictor) Predict(_ context.Context, features []float64) (models.Prediction, error) {
	if len(features) < poissonFeatureLen {
		return models.Prediction{}, fmt.Errorf("%w: expected %d features, got %d",
			ErrMalformedFeatures, poissonFeatureLen, len(features))
	}
	for i := 0; i < poissonFeatureLen; i++ {
		if math.IsNaN(features[i]) || math.IsInf(features[i], 0) || features[i] <= 0 {
			return models.Prediction{}, fmt.Errorf("%w: feature %d is not a positive finite number",
				ErrMalformedFeatures, i)
		}
	}

	lambdaHome := features[featureHomeAttack] * features[featureAwayDefence] * p.homeAdvantage
	lambdaAway := features[featureAwayAttack] * features[featureHomeDefence]

	var home, draw, away float64
	for h := 0; h <= p.maxGoals; h++ {
		ph := poissonPMF(lambdaHome, h)
		for a := 0; a <= p.maxGoals; a++ {
			pa := poissonPMF(lambdaAway, a)
			joint := ph * pa
			switch {
			case h > a:
				home += joint
			case h == a:
				draw += joint
			default:
				away += joint
			}
		}
	}

	// The truncated grid leaves a small tail unaccounted for; renormalize so
	// the distribution sums to one.
	total := home + draw + away
	if total <= 0 {
		return models.Prediction{}, fmt.Errorf("%w: degenerate goal distribution", ErrMalformedFeatures)
	}

	prediction := models.Prediction{
		Home: home / total,
		Draw: draw / total,
		Away: away / total,
	}
	if err := prediction.Validate(); err != nil {
		return models.Prediction{}, err
	}
	return prediction, nil
}

// poissonPMF returns P(X = k) for X ~ Poisson(lambda).
func poissonPMF(lambda float64, k int) float64 {
	return math.Exp(-lambda) * math.Pow(lambda, float64(k)) / factorial(k)
}

func factorial(n int) float64 {
	result := 1.0
	for i := 2; i <= n; i++ {
		result *= float64(i)
	}
	return result
}
