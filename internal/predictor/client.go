package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/pitch-edge/internal/config"
	"github.com/yourusername/pitch-edge/internal/metrics"
	"github.com/yourusername/pitch-edge/internal/models"
)

// ServiceClient calls an external model service over HTTP for predictions.
type ServiceClient struct {
	client  *http.Client
	baseURL string
	logger  *logrus.Logger
}

// NewServiceClient creates an HTTP client for the model service.
func NewServiceClient(cfg *config.PredictorConfig, logger *logrus.Logger) *ServiceClient {
	timeout := time.Duration(cfg.RequestTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ServiceClient{
		client: &http.Client{
			Timeout: timeout,
		},
		baseURL: cfg.URL,
		logger:  logger,
	}
}

// predictRequest represents the prediction request payload
type predictRequest struct {
	Features []float64 `json:"features"`
}

// predictResponse represents the prediction response payload
type predictResponse struct {
	Home float64 `json:"home"`
	Draw float64 `json:"draw"`
	Away float64 `json:"away"`
}

// Name identifies the predictor implementation.
func (c *ServiceClient) Name() string {
	return "service"
}

// Predict requests outcome probabilities from the model service.
func (c *ServiceClient) Predict(ctx context.Context, features []float64) (models.Prediction, error) {
	start := time.Now()

	if len(features) == 0 {
		return models.Prediction{}, fmt.Errorf("%w: empty feature vector", ErrMalformedFeatures)
	}

	jsonData, err := json.Marshal(predictRequest{Features: features})
	if err != nil {
		return models.Prediction{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/api/v1/predict", bytes.NewBuffer(jsonData))
	if err != nil {
		return models.Prediction{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return models.Prediction{}, fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnprocessableEntity || resp.StatusCode == http.StatusBadRequest {
		body, _ := io.ReadAll(resp.Body)
		return models.Prediction{}, fmt.Errorf("%w: %s", ErrMalformedFeatures, string(body))
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return models.Prediction{}, fmt.Errorf("prediction request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var predResp predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&predResp); err != nil {
		return models.Prediction{}, fmt.Errorf("failed to decode response: %w", err)
	}

	prediction := models.Prediction{
		Home: predResp.Home,
		Draw: predResp.Draw,
		Away: predResp.Away,
	}
	if err := prediction.Validate(); err != nil {
		return models.Prediction{}, fmt.Errorf("service returned invalid distribution: %w", err)
	}

	metrics.RecordPrediction(time.Since(start).Seconds())

	c.logger.WithFields(logrus.Fields{
		"features": len(features),
		"duration": time.Since(start),
	}).Debug("Prediction received")

	return prediction, nil
}

// HealthCheck checks model service health
func (c *ServiceClient) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/health", nil)
	if err != nil {
		return err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrServiceUnavailable, resp.StatusCode)
	}

	return nil
}
