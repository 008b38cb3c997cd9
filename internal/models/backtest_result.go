package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// BacktestResult represents a persisted backtest run summary
type BacktestResult struct {
	ID              uuid.UUID       `db:"id" json:"id"`
	StrategyName    string          `db:"strategy_name" json:"strategy_name"`
	StrategyParams  json.RawMessage `db:"strategy_params" json:"strategy_params"`
	RunDate         time.Time       `db:"run_date" json:"run_date"`
	StartDate       time.Time       `db:"start_date" json:"start_date"`
	EndDate         time.Time       `db:"end_date" json:"end_date"`
	InitialBankroll float64         `db:"initial_bankroll" json:"initial_bankroll"`
	FinalBankroll   float64         `db:"final_bankroll" json:"final_bankroll"`
	TotalReturn     float64         `db:"total_return" json:"total_return"`
	SharpeRatio     float64         `db:"sharpe_ratio" json:"sharpe_ratio"`
	MaxDrawdown     float64         `db:"max_drawdown" json:"max_drawdown"`
	HitRate         float64         `db:"hit_rate" json:"hit_rate"`
	MatchesTotal    int             `db:"matches_total" json:"matches_total"`
	MatchesStaked   int             `db:"matches_staked" json:"matches_staked"`
	FullReport      json.RawMessage `db:"full_report" json:"full_report"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
}
