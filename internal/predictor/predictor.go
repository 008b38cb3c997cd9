// Package predictor produces outcome probability estimates for matches.
package predictor

import (
	"context"
	"errors"

	"github.com/yourusername/pitch-edge/internal/models"
)

// Common predictor errors
var (
	// ErrMalformedFeatures indicates a feature vector the predictor cannot consume.
	ErrMalformedFeatures = errors.New("malformed feature vector")

	// ErrServiceUnavailable indicates the model service is not reachable or unhealthy.
	ErrServiceUnavailable = errors.New("prediction service unavailable")

	// ErrConnectionFailed indicates a transport-level failure talking to the model service.
	ErrConnectionFailed = errors.New("connection to prediction service failed")
)

// Predictor produces an outcome probability distribution from a feature vector.
//
// Implementations must be safe for concurrent use: backtest sweeps share a
// single Predictor across goroutines. Implementations must also be
// deterministic for a given feature vector, as backtests rely on reproducible
// predictions.
type Predictor interface {
	// Predict returns outcome probabilities for the given feature vector.
	Predict(ctx context.Context, features []float64) (models.Prediction, error)

	// Name identifies the predictor implementation.
	Name() string
}
