package datasource

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/pitch-edge/internal/config"
)

// Factory creates DataSource implementations based on configuration
type Factory struct {
	logger *logrus.Logger
}

// NewFactory creates a new data source factory
func NewFactory(logger *logrus.Logger) *Factory {
	return &Factory{
		logger: logger,
	}
}

// NewDataSource creates a new DataSource based on the provided configuration
func (f *Factory) NewDataSource(cfg config.SourceConfig, httpClient *RateLimitedHTTPClient) (DataSource, error) {
	if httpClient == nil {
		return nil, fmt.Errorf("HTTP client is required")
	}

	switch cfg.Name {
	case "football_data":
		return NewFootballDataClient(httpClient, cfg.BaseURL, nil, cfg.Enabled, f.logger), nil

	case "understat":
		return NewUnderstatClient(httpClient, cfg.BaseURL, nil, cfg.Enabled, f.logger), nil

	default:
		return nil, fmt.Errorf("unknown data source: %s", cfg.Name)
	}
}

// NewDataSources creates all enabled data sources from configuration
func (f *Factory) NewDataSources(ingestionCfg config.IngestionConfig, httpClient *RateLimitedHTTPClient) ([]DataSource, error) {
	var sources []DataSource

	for _, srcCfg := range ingestionCfg.Sources {
		if !srcCfg.Enabled {
			if f.logger != nil {
				f.logger.WithField("source", srcCfg.Name).Info("Skipping disabled data source")
			}
			continue
		}

		source, err := f.NewDataSource(srcCfg, httpClient)
		if err != nil {
			return nil, fmt.Errorf("failed to create data source %s: %w", srcCfg.Name, err)
		}

		sources = append(sources, source)
		if f.logger != nil {
			f.logger.WithField("source", srcCfg.Name).Info("Created data source")
		}
	}

	if len(sources) == 0 {
		return nil, fmt.Errorf("no enabled data sources configured")
	}

	return sources, nil
}
