package backtest

import (
	"fmt"
	"time"

	"github.com/yourusername/pitch-edge/internal/config"
)

// Config holds the parameters of one backtest run
type Config struct {
	StartDate            time.Time
	EndDate              time.Time
	InitialBankroll      float64
	MonteCarloIterations int
	OutputPath           string
}

// FromConfig converts app config to backtest config
func FromConfig(cfg *config.BacktestConfig) (Config, error) {
	if cfg == nil {
		return Config{}, fmt.Errorf("backtest config is required")
	}
	start, err := time.Parse("2006-01-02", cfg.StartDate)
	if err != nil {
		return Config{}, fmt.Errorf("invalid start date: %w", err)
	}
	end, err := time.Parse("2006-01-02", cfg.EndDate)
	if err != nil {
		return Config{}, fmt.Errorf("invalid end date: %w", err)
	}

	bt := Config{
		StartDate:            start,
		EndDate:              end,
		InitialBankroll:      cfg.InitialBankroll,
		MonteCarloIterations: cfg.MonteCarloIterations,
		OutputPath:           cfg.OutputPath,
	}

	return bt, bt.Validate()
}

// Validate validates backtest config parameters
func (c Config) Validate() error {
	if c.StartDate.After(c.EndDate) {
		return fmt.Errorf("start date must be before end date")
	}
	if c.InitialBankroll <= 0 {
		return fmt.Errorf("initial bankroll must be positive")
	}
	if c.MonteCarloIterations < 0 {
		return fmt.Errorf("monte carlo iterations cannot be negative")
	}
	return nil
}
