package backtest

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/pitch-edge/internal/models"
	"github.com/yourusername/pitch-edge/internal/predictor"
	"github.com/yourusername/pitch-edge/internal/staking"
)

// SweepSpec names one strategy variant to evaluate
type SweepSpec struct {
	Name     string
	Strategy staking.Strategy
}

// SweepResult pairs a spec with its run outcome
type SweepResult struct {
	Name   string
	Report Report
	Err    error
}

// RunSweep backtests independent strategy variants concurrently. Each run
// owns an isolated engine and bankroll state; results come back in spec
// order regardless of completion order, so a sweep over deterministic
// inputs is itself deterministic.
func RunSweep(ctx context.Context, cfg Config, pred predictor.Predictor, matches []*models.MatchRecord, specs []SweepSpec, logger *logrus.Logger) []SweepResult {
	results := make([]SweepResult, len(specs))

	var wg sync.WaitGroup
	for i, spec := range specs {
		wg.Add(1)
		go func(i int, spec SweepSpec) {
			defer wg.Done()

			engine, err := NewEngine(cfg, pred, spec.Strategy, logger)
			if err != nil {
				results[i] = SweepResult{Name: spec.Name, Err: err}
				return
			}
			ledger, err := engine.Run(ctx, matches)
			if err != nil {
				results[i] = SweepResult{Name: spec.Name, Err: err}
				return
			}
			results[i] = SweepResult{
				Name:   spec.Name,
				Report: Summarize(ledger, cfg.InitialBankroll),
			}
		}(i, spec)
	}
	wg.Wait()

	return results
}
