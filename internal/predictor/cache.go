package predictor

import (
	"context"
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"math"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/yourusername/pitch-edge/internal/metrics"
	"github.com/yourusername/pitch-edge/internal/models"
)

const (
	defaultCacheTTL      = 15 * time.Minute
	cacheCleanupInterval = 30 * time.Minute
)

// CachedPredictor wraps another predictor with an in-memory cache keyed by
// the feature vector. Identical feature vectors are common across sweep runs,
// so caching avoids redundant model calls without affecting determinism.
type CachedPredictor struct {
	inner Predictor
	cache *gocache.Cache
}

// NewCachedPredictor wraps a predictor with a TTL cache. A non-positive TTL
// selects the default.
func NewCachedPredictor(inner Predictor, ttl time.Duration) *CachedPredictor {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &CachedPredictor{
		inner: inner,
		cache: gocache.New(ttl, cacheCleanupInterval),
	}
}

// Name identifies the predictor implementation.
func (c *CachedPredictor) Name() string {
	return c.inner.Name()
}

// Predict returns a cached prediction when available, otherwise delegates to
// the wrapped predictor and caches the result. Errors are never cached.
func (c *CachedPredictor) Predict(ctx context.Context, features []float64) (models.Prediction, error) {
	key := featureKey(features)

	if cached, found := c.cache.Get(key); found {
		metrics.RecordPredictionCacheHit()
		return cached.(models.Prediction), nil
	}
	metrics.RecordPredictionCacheMiss()

	prediction, err := c.inner.Predict(ctx, features)
	if err != nil {
		return models.Prediction{}, err
	}

	c.cache.SetDefault(key, prediction)
	return prediction, nil
}

// featureKey hashes a feature vector into a stable cache key.
func featureKey(features []float64) string {
	h := fnv.New64a()
	var buf [8]byte
	for _, f := range features {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(f))
		_, _ = h.Write(buf[:])
	}
	return fmt.Sprintf("%d:%x", len(features), h.Sum64())
}
