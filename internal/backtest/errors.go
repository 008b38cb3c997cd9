package backtest

import "fmt"

// OrderingError reports a match sequence that is not sorted ascending by
// (date, match_id). It is fatal and raised before any ledger entry is
// produced; the caller owns the ordering contract and silently re-sorting
// would hide the upstream bug.
type OrderingError struct {
	MatchID  string
	Position int
}

func (e *OrderingError) Error() string {
	return fmt.Sprintf("match sequence out of order at position %d (match %s)", e.Position, e.MatchID)
}

// PredictionError reports a predictor failure for a specific match. It is
// fatal to the run; the ledger accumulated so far is still returned so the
// caller can resume after fixing the input.
type PredictionError struct {
	MatchID string
	Err     error
}

func (e *PredictionError) Error() string {
	return fmt.Sprintf("prediction failed for match %s: %v", e.MatchID, e.Err)
}

func (e *PredictionError) Unwrap() error {
	return e.Err
}

// InvalidOddsError reports a match whose odds line is missing a required
// outcome. The engine skips the match rather than aborting the run.
type InvalidOddsError struct {
	MatchID string
	Missing string
}

func (e *InvalidOddsError) Error() string {
	return fmt.Sprintf("match %s has no valid odds for outcome %s", e.MatchID, e.Missing)
}
