// Package config provides configuration management for the Pitch Edge application.
package config

import (
	"fmt"
)

// Config represents the complete application configuration
type Config struct {
	App       AppConfig       `mapstructure:"app" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database" validate:"required"`
	Predictor PredictorConfig `mapstructure:"predictor" validate:"required"`
	Staking   StakingConfig   `mapstructure:"staking" validate:"required"`
	Backtest  BacktestConfig  `mapstructure:"backtest" validate:"required"`
	Ingestion IngestionConfig `mapstructure:"ingestion" validate:"required"`
	Metrics   MetricsConfig   `mapstructure:"metrics" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host           string `mapstructure:"host" validate:"required"`
	Port           int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name           string `mapstructure:"name" validate:"required"`
	User           string `mapstructure:"user" validate:"required"`
	Password       string `mapstructure:"password" validate:"required"`
	SSLMode        string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections int    `mapstructure:"max_connections" validate:"required,gt=0"`
}

// PredictorConfig represents prediction provider configuration
type PredictorConfig struct {
	Provider              string  `mapstructure:"provider" validate:"required,oneof=service poisson"`
	URL                   string  `mapstructure:"url" validate:"omitempty,url"`
	RequestTimeoutSeconds int     `mapstructure:"request_timeout_seconds" validate:"omitempty,gt=0"`
	CacheTTLSeconds       int     `mapstructure:"cache_ttl_seconds" validate:"omitempty,gt=0"`
	HomeAdvantage         float64 `mapstructure:"home_advantage" validate:"omitempty,gt=0"`
	MaxGoals              int     `mapstructure:"max_goals" validate:"omitempty,gt=0"`
}

// StakingConfig represents staking strategy configuration
type StakingConfig struct {
	Type            string  `mapstructure:"type" validate:"required,oneof=flat kelly"`
	Fraction        float64 `mapstructure:"fraction" validate:"omitempty,gt=0,lte=1"`
	KellyMultiplier float64 `mapstructure:"kelly_multiplier" validate:"omitempty,gt=0,lte=1"`
}

// BacktestConfig represents backtesting configuration
type BacktestConfig struct {
	StartDate            string  `mapstructure:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate              string  `mapstructure:"end_date" validate:"required,datetime=2006-01-02"`
	InitialBankroll      float64 `mapstructure:"initial_bankroll" validate:"required,gt=0"`
	MonteCarloIterations int     `mapstructure:"monte_carlo_iterations" validate:"gte=0"`
	OutputPath           string  `mapstructure:"output_path" validate:"required"`
}

// IngestionConfig represents data ingestion configuration
type IngestionConfig struct {
	Sources   []SourceConfig `mapstructure:"sources" validate:"required,min=1"`
	BatchSize int            `mapstructure:"batch_size" validate:"omitempty,gt=0"`
	Schedule  ScheduleConfig `mapstructure:"schedule" validate:"required"`
}

// SourceConfig represents a single data source configuration
type SourceConfig struct {
	Name      string  `mapstructure:"name" validate:"required"`
	Enabled   bool    `mapstructure:"enabled"`
	BaseURL   string  `mapstructure:"base_url" validate:"omitempty,url"`
	APIKey    string  `mapstructure:"api_key"`
	RateLimit float64 `mapstructure:"rate_limit" validate:"omitempty,gt=0"`
}

// ScheduleConfig represents ingestion scheduling
type ScheduleConfig struct {
	DailySync  string `mapstructure:"daily_sync" validate:"required"`
	HealthPort int    `mapstructure:"health_port" validate:"omitempty,min=1,max=65535"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
