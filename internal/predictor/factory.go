package predictor

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/pitch-edge/internal/config"
)

// New builds the predictor selected by configuration. Service predictors are
// wrapped with a cache; the Poisson baseline is cheap enough to run uncached.
func New(cfg *config.PredictorConfig, logger *logrus.Logger) (Predictor, error) {
	switch cfg.Provider {
	case "poisson":
		return NewPoissonPredictor(cfg.HomeAdvantage, cfg.MaxGoals), nil
	case "service":
		if cfg.URL == "" {
			return nil, fmt.Errorf("predictor provider 'service' requires a url")
		}
		client := NewServiceClient(cfg, logger)
		ttl := time.Duration(cfg.CacheTTLSeconds) * time.Second
		return NewCachedPredictor(client, ttl), nil
	default:
		return nil, fmt.Errorf("unknown predictor provider: %s", cfg.Provider)
	}
}
