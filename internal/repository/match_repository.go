package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/yourusername/pitch-edge/internal/database"
	"github.com/yourusername/pitch-edge/internal/models"
)

const errScanMatch = "failed to scan match: %w"

const matchColumns = `
	match_id, date, competition, season, home_team, away_team,
	home_goals, away_goals, home_xg, away_xg, result,
	home_odds, draw_odds, away_odds, features, created_at, updated_at
`

// PostgresMatchRepository implements MatchRepository for PostgreSQL
type PostgresMatchRepository struct {
	db *database.DB
}

// NewPostgresMatchRepository creates a new match repository
func NewPostgresMatchRepository(db *database.DB) MatchRepository {
	return &PostgresMatchRepository{db: db}
}

// Upsert inserts a match record or updates it when the match ID exists
func (r *PostgresMatchRepository) Upsert(ctx context.Context, match *models.MatchRecord) error {
	query := `
		INSERT INTO matches (
			match_id, date, competition, season, home_team, away_team,
			home_goals, away_goals, home_xg, away_xg, result,
			home_odds, draw_odds, away_odds, features, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
		ON CONFLICT (match_id) DO UPDATE SET
			home_goals = EXCLUDED.home_goals,
			away_goals = EXCLUDED.away_goals,
			home_xg = COALESCE(EXCLUDED.home_xg, matches.home_xg),
			away_xg = COALESCE(EXCLUDED.away_xg, matches.away_xg),
			result = EXCLUDED.result,
			home_odds = COALESCE(EXCLUDED.home_odds, matches.home_odds),
			draw_odds = COALESCE(EXCLUDED.draw_odds, matches.draw_odds),
			away_odds = COALESCE(EXCLUDED.away_odds, matches.away_odds),
			features = EXCLUDED.features,
			updated_at = EXCLUDED.updated_at
	`

	homeOdds, drawOdds, awayOdds := oddsToDecimals(match.Odds)
	_, err := r.db.GetPool().Exec(ctx, query,
		match.MatchID, match.Date, match.Competition, match.Season, match.HomeTeam, match.AwayTeam,
		match.HomeGoals, match.AwayGoals, floatPtrToNullDecimal(match.HomeXG), floatPtrToNullDecimal(match.AwayXG), string(match.TrueOutcome),
		homeOdds, drawOdds, awayOdds, match.Features, match.CreatedAt, match.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert match: %w", err)
	}
	return nil
}

// UpsertBatch inserts or updates a batch of match records in one transaction
func (r *PostgresMatchRepository) UpsertBatch(ctx context.Context, matches []*models.MatchRecord) (int, error) {
	stored := 0
	err := r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		for _, match := range matches {
			homeOdds, drawOdds, awayOdds := oddsToDecimals(match.Odds)
			_, err := tx.Exec(ctx, `
				INSERT INTO matches (
					match_id, date, competition, season, home_team, away_team,
					home_goals, away_goals, home_xg, away_xg, result,
					home_odds, draw_odds, away_odds, features, created_at, updated_at
				) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
				ON CONFLICT (match_id) DO UPDATE SET
					home_goals = EXCLUDED.home_goals,
					away_goals = EXCLUDED.away_goals,
					home_xg = COALESCE(EXCLUDED.home_xg, matches.home_xg),
					away_xg = COALESCE(EXCLUDED.away_xg, matches.away_xg),
					result = EXCLUDED.result,
					home_odds = COALESCE(EXCLUDED.home_odds, matches.home_odds),
					draw_odds = COALESCE(EXCLUDED.draw_odds, matches.draw_odds),
					away_odds = COALESCE(EXCLUDED.away_odds, matches.away_odds),
					features = EXCLUDED.features,
					updated_at = EXCLUDED.updated_at
			`,
				match.MatchID, match.Date, match.Competition, match.Season, match.HomeTeam, match.AwayTeam,
				match.HomeGoals, match.AwayGoals, floatPtrToNullDecimal(match.HomeXG), floatPtrToNullDecimal(match.AwayXG), string(match.TrueOutcome),
				homeOdds, drawOdds, awayOdds, match.Features, match.CreatedAt, match.UpdatedAt,
			)
			if err != nil {
				return fmt.Errorf("failed to upsert match %s: %w", match.MatchID, err)
			}
			stored++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return stored, nil
}

// GetByID retrieves a match by its ID
func (r *PostgresMatchRepository) GetByID(ctx context.Context, matchID string) (*models.MatchRecord, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE match_id = $1`

	row := r.db.GetPool().QueryRow(ctx, query, matchID)
	match, err := scanMatch(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf(errScanMatch, err)
	}
	return match, nil
}

// GetByDateRange retrieves matches within a date range ordered by (date, match_id)
func (r *PostgresMatchRepository) GetByDateRange(ctx context.Context, startDate, endDate time.Time) ([]*models.MatchRecord, error) {
	query := `SELECT ` + matchColumns + `
		FROM matches
		WHERE date >= $1 AND date <= $2
		ORDER BY date ASC, match_id ASC`

	rows, err := r.db.GetPool().Query(ctx, query, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches by date range: %w", err)
	}
	defer rows.Close()

	var matches []*models.MatchRecord
	for rows.Next() {
		match, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf(errScanMatch, err)
		}
		matches = append(matches, match)
	}
	return matches, rows.Err()
}

// UpdateFeatures replaces the stored feature vector for a match
func (r *PostgresMatchRepository) UpdateFeatures(ctx context.Context, matchID string, features []float64) error {
	tag, err := r.db.GetPool().Exec(ctx,
		`UPDATE matches SET features = $2, updated_at = NOW() WHERE match_id = $1`,
		matchID, features,
	)
	if err != nil {
		return fmt.Errorf("failed to update features: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// Count returns the number of stored matches
func (r *PostgresMatchRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetPool().QueryRow(ctx, `SELECT COUNT(*) FROM matches`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count matches: %w", err)
	}
	return count, nil
}

// scanMatch reads one match row. Odds and expected goals are stored as
// NUMERIC and converted at this boundary into the float64 values the
// backtest engine works with.
func scanMatch(row pgx.Row) (*models.MatchRecord, error) {
	match := &models.MatchRecord{}
	var (
		result   string
		homeXG   decimal.NullDecimal
		awayXG   decimal.NullDecimal
		homeOdds decimal.NullDecimal
		drawOdds decimal.NullDecimal
		awayOdds decimal.NullDecimal
	)

	if err := row.Scan(
		&match.MatchID, &match.Date, &match.Competition, &match.Season, &match.HomeTeam, &match.AwayTeam,
		&match.HomeGoals, &match.AwayGoals, &homeXG, &awayXG, &result,
		&homeOdds, &drawOdds, &awayOdds, &match.Features, &match.CreatedAt, &match.UpdatedAt,
	); err != nil {
		return nil, err
	}

	match.TrueOutcome = models.Outcome(result)
	match.HomeXG = nullDecimalToFloatPtr(homeXG)
	match.AwayXG = nullDecimalToFloatPtr(awayXG)

	odds := models.OddsLine{}
	if homeOdds.Valid {
		odds[models.OutcomeHome], _ = homeOdds.Decimal.Float64()
	}
	if drawOdds.Valid {
		odds[models.OutcomeDraw], _ = drawOdds.Decimal.Float64()
	}
	if awayOdds.Valid {
		odds[models.OutcomeAway], _ = awayOdds.Decimal.Float64()
	}
	match.Odds = odds

	return match, nil
}

// oddsToDecimals converts an odds line into nullable decimals for storage.
func oddsToDecimals(odds models.OddsLine) (decimal.NullDecimal, decimal.NullDecimal, decimal.NullDecimal) {
	toNull := func(outcome models.Outcome) decimal.NullDecimal {
		v, ok := odds[outcome]
		if !ok {
			return decimal.NullDecimal{}
		}
		return decimal.NullDecimal{Decimal: decimal.NewFromFloat(v), Valid: true}
	}
	return toNull(models.OutcomeHome), toNull(models.OutcomeDraw), toNull(models.OutcomeAway)
}

func floatPtrToNullDecimal(f *float64) decimal.NullDecimal {
	if f == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: decimal.NewFromFloat(*f), Valid: true}
}

func nullDecimalToFloatPtr(d decimal.NullDecimal) *float64 {
	if !d.Valid {
		return nil
	}
	f, _ := d.Decimal.Float64()
	return &f
}
