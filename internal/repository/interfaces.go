// Package repository provides data access interfaces and PostgreSQL implementations.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/pitch-edge/internal/models"
)

// MatchRepository defines data access operations for match records
type MatchRepository interface {
	// Upsert inserts a match record or updates it when the match ID exists
	Upsert(ctx context.Context, match *models.MatchRecord) error

	// UpsertBatch inserts or updates a batch of match records in one transaction
	UpsertBatch(ctx context.Context, matches []*models.MatchRecord) (int, error)

	// GetByID retrieves a match by its ID
	GetByID(ctx context.Context, matchID string) (*models.MatchRecord, error)

	// GetByDateRange retrieves matches within a date range, ordered by
	// (date, match_id) ascending. This ordering is what downstream replay
	// consumers depend on.
	GetByDateRange(ctx context.Context, startDate, endDate time.Time) ([]*models.MatchRecord, error)

	// UpdateFeatures replaces the stored feature vector for a match
	UpdateFeatures(ctx context.Context, matchID string, features []float64) error

	// Count returns the number of stored matches
	Count(ctx context.Context) (int, error)
}

// BacktestResultRepository defines data access operations for backtest results
type BacktestResultRepository interface {
	// SaveResult inserts a backtest result
	SaveResult(ctx context.Context, result *models.BacktestResult) error

	// GetByID retrieves a backtest result by ID
	GetByID(ctx context.Context, id uuid.UUID) (*models.BacktestResult, error)

	// GetByStrategyName retrieves backtest results for a strategy, newest first
	GetByStrategyName(ctx context.Context, strategyName string) ([]*models.BacktestResult, error)

	// GetLatest retrieves the most recent backtest results
	GetLatest(ctx context.Context, limit int) ([]*models.BacktestResult, error)
}
