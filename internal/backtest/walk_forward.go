package backtest

import (
	"context"
	"fmt"
	"time"

	"github.com/yourusername/pitch-edge/internal/models"
)

// WalkForwardConfig configures rolling-window evaluation
type WalkForwardConfig struct {
	WindowDays          int
	StepDays            int
	MinMatchesPerWindow int
}

// WalkForwardWindow represents one evaluation window
type WalkForwardWindow struct {
	WindowID int       `json:"window_id"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Report   Report    `json:"report"`
}

// WalkForwardResult represents rolling-window evaluation results
type WalkForwardResult struct {
	Windows          []WalkForwardWindow `json:"windows"`
	MeanReturn       float64             `json:"mean_return"`
	MeanDrawdown     float64             `json:"mean_drawdown"`
	ConsistencyScore float64             `json:"consistency_score"`
}

// RunWalkForward evaluates the strategy over successive date windows,
// each window starting from a fresh bankroll. It surfaces strategies
// whose historical profit comes from a single lucky stretch.
func RunWalkForward(ctx context.Context, engine *Engine, matches []*models.MatchRecord, cfg WalkForwardConfig) (WalkForwardResult, error) {
	if engine == nil {
		return WalkForwardResult{}, fmt.Errorf("engine is required")
	}
	if cfg.WindowDays <= 0 {
		cfg.WindowDays = 90
	}
	if cfg.StepDays <= 0 {
		cfg.StepDays = cfg.WindowDays
	}
	if len(matches) == 0 {
		return WalkForwardResult{}, nil
	}

	start := engine.Config().StartDate
	end := engine.Config().EndDate
	windows := []WalkForwardWindow{}
	windowID := 0

	for current := start; current.Before(end); current = current.AddDate(0, 0, cfg.StepDays) {
		windowEnd := current.AddDate(0, 0, cfg.WindowDays)
		if windowEnd.After(end) {
			windowEnd = end
		}

		slice := matchesInWindow(matches, current, windowEnd)
		if len(slice) < cfg.MinMatchesPerWindow {
			continue
		}

		ledger, err := engine.Run(ctx, slice)
		if err != nil {
			return WalkForwardResult{}, fmt.Errorf("window starting %s: %w", current.Format("2006-01-02"), err)
		}

		windowID++
		windows = append(windows, WalkForwardWindow{
			WindowID: windowID,
			Start:    current,
			End:      windowEnd,
			Report:   Summarize(ledger, engine.Config().InitialBankroll),
		})
	}

	return aggregateWindows(windows), nil
}

func matchesInWindow(matches []*models.MatchRecord, start, end time.Time) []*models.MatchRecord {
	slice := make([]*models.MatchRecord, 0)
	for _, match := range matches {
		if match.Date.Before(start) || !match.Date.Before(end) {
			continue
		}
		slice = append(slice, match)
	}
	return slice
}

func aggregateWindows(windows []WalkForwardWindow) WalkForwardResult {
	result := WalkForwardResult{Windows: windows}
	if len(windows) == 0 {
		return result
	}
	profitable := 0
	for _, w := range windows {
		result.MeanReturn += w.Report.TotalReturn
		result.MeanDrawdown += w.Report.MaxDrawdown
		if w.Report.TotalReturn > 0 {
			profitable++
		}
	}
	result.MeanReturn /= float64(len(windows))
	result.MeanDrawdown /= float64(len(windows))
	result.ConsistencyScore = float64(profitable) / float64(len(windows))
	return result
}
