package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/yourusername/pitch-edge/internal/database"
	"github.com/yourusername/pitch-edge/internal/models"
)

const errScanBacktestResult = "failed to scan backtest result: %w"

const backtestResultColumns = `
	id, strategy_name, strategy_params, run_date, start_date, end_date,
	initial_bankroll, final_bankroll, total_return, sharpe_ratio, max_drawdown,
	hit_rate, matches_total, matches_staked, full_report, created_at
`

// PostgresBacktestResultRepository implements BacktestResultRepository for PostgreSQL
type PostgresBacktestResultRepository struct {
	db *database.DB
}

// NewPostgresBacktestResultRepository creates a new backtest result repository
func NewPostgresBacktestResultRepository(db *database.DB) BacktestResultRepository {
	return &PostgresBacktestResultRepository{db: db}
}

// SaveResult inserts a backtest result
func (r *PostgresBacktestResultRepository) SaveResult(ctx context.Context, result *models.BacktestResult) error {
	query := `
		INSERT INTO backtest_results (
			id, strategy_name, strategy_params, run_date, start_date, end_date,
			initial_bankroll, final_bankroll, total_return, sharpe_ratio, max_drawdown,
			hit_rate, matches_total, matches_staked, full_report, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		result.ID, result.StrategyName, result.StrategyParams, result.RunDate, result.StartDate, result.EndDate,
		result.InitialBankroll, result.FinalBankroll, result.TotalReturn, result.SharpeRatio, result.MaxDrawdown,
		result.HitRate, result.MatchesTotal, result.MatchesStaked, result.FullReport, result.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save backtest result: %w", err)
	}
	return nil
}

// GetByID retrieves a backtest result by ID
func (r *PostgresBacktestResultRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.BacktestResult, error) {
	query := `SELECT ` + backtestResultColumns + ` FROM backtest_results WHERE id = $1`

	result := &models.BacktestResult{}
	err := r.db.GetPool().QueryRow(ctx, query, id).Scan(
		&result.ID, &result.StrategyName, &result.StrategyParams, &result.RunDate, &result.StartDate, &result.EndDate,
		&result.InitialBankroll, &result.FinalBankroll, &result.TotalReturn, &result.SharpeRatio, &result.MaxDrawdown,
		&result.HitRate, &result.MatchesTotal, &result.MatchesStaked, &result.FullReport, &result.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf(errScanBacktestResult, err)
	}
	return result, nil
}

// GetByStrategyName retrieves backtest results for a strategy, newest first
func (r *PostgresBacktestResultRepository) GetByStrategyName(ctx context.Context, strategyName string) ([]*models.BacktestResult, error) {
	query := `SELECT ` + backtestResultColumns + `
		FROM backtest_results WHERE strategy_name = $1 ORDER BY run_date DESC`

	rows, err := r.db.GetPool().Query(ctx, query, strategyName)
	if err != nil {
		return nil, fmt.Errorf("failed to query backtest results: %w", err)
	}
	defer rows.Close()

	return scanBacktestResults(rows)
}

// GetLatest retrieves the most recent backtest results
func (r *PostgresBacktestResultRepository) GetLatest(ctx context.Context, limit int) ([]*models.BacktestResult, error) {
	query := `SELECT ` + backtestResultColumns + `
		FROM backtest_results ORDER BY run_date DESC LIMIT $1`

	rows, err := r.db.GetPool().Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest backtest results: %w", err)
	}
	defer rows.Close()

	return scanBacktestResults(rows)
}

func scanBacktestResults(rows pgx.Rows) ([]*models.BacktestResult, error) {
	var results []*models.BacktestResult
	for rows.Next() {
		result := &models.BacktestResult{}
		if err := rows.Scan(
			&result.ID, &result.StrategyName, &result.StrategyParams, &result.RunDate, &result.StartDate, &result.EndDate,
			&result.InitialBankroll, &result.FinalBankroll, &result.TotalReturn, &result.SharpeRatio, &result.MaxDrawdown,
			&result.HitRate, &result.MatchesTotal, &result.MatchesStaked, &result.FullReport, &result.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf(errScanBacktestResult, err)
		}
		results = append(results, result)
	}
	return results, rows.Err()
}
