package datasource

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// DataSource defines the interface for fetching match data from external providers
type DataSource interface {
	// FetchMatches retrieves matches within the specified date range
	FetchMatches(ctx context.Context, startDate, endDate time.Time) ([]MatchData, error)

	// Name returns the name of the data source
	Name() string

	// IsEnabled returns whether this data source is currently enabled
	IsEnabled() bool
}

// MatchData represents normalized match data from any data source.
// Odds and expected goals are carried as decimals at the ingestion boundary
// so provider values round-trip exactly into storage.
type MatchData struct {
	SourceID    string           `json:"source_id"`   // Provider's unique match ID
	Competition string           `json:"competition"` // Competition code (e.g., "E0")
	Season      string           `json:"season"`      // Season label (e.g., "2324")
	Date        time.Time        `json:"date"`        // Kickoff date UTC
	HomeTeam    string           `json:"home_team"`   // Home team name as reported by provider
	AwayTeam    string           `json:"away_team"`   // Away team name as reported by provider
	HomeGoals   *int             `json:"home_goals"`  // Full-time home goals, nil if unplayed
	AwayGoals   *int             `json:"away_goals"`  // Full-time away goals, nil if unplayed
	HomeXG      *decimal.Decimal `json:"home_xg"`     // Expected goals for home side, if available
	AwayXG      *decimal.Decimal `json:"away_xg"`     // Expected goals for away side, if available
	HomeOdds    *decimal.Decimal `json:"home_odds"`   // Closing odds for home win
	DrawOdds    *decimal.Decimal `json:"draw_odds"`   // Closing odds for draw
	AwayOdds    *decimal.Decimal `json:"away_odds"`   // Closing odds for away win
	CreatedAt   time.Time        `json:"created_at"`  // When data was fetched
}

// DataSourceError represents errors from data source operations
type DataSourceError struct {
	Source  string // Data source name
	Code    string // Error code (e.g., "rate_limit_exceeded")
	Message string // Error message
	Err     error  // Underlying error
}

func (e DataSourceError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Source + ": " + e.Code + ": " + e.Message
}

func (e DataSourceError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeRateLimitExceeded    = "rate_limit_exceeded"
	ErrCodeAuthenticationFailed = "authentication_failed"
	ErrCodeNotFound             = "not_found"
	ErrCodeInvalidData          = "invalid_data"
	ErrCodeNetworkError         = "network_error"
	ErrCodeServerError          = "server_error"
	ErrCodeUnknown              = "unknown"
)

// Error constructors
var (
	ErrRateLimitExceeded    = errors.New("rate limit exceeded")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrNotFound             = errors.New("data not found")
	ErrInvalidData          = errors.New("invalid data format")
	ErrNetworkError         = errors.New("network error")
	ErrServerError          = errors.New("server error")
)

// NewDataSourceError creates a new data source error
func NewDataSourceError(source, code, message string, err error) DataSourceError {
	return DataSourceError{
		Source:  source,
		Code:    code,
		Message: message,
		Err:     err,
	}
}
