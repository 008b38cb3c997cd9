package backtest

import (
	"context"
	"math"
	"math/rand"

	"github.com/yourusername/pitch-edge/internal/models"
)

// MonteCarloConfig configures bootstrap resampling of a finished run
type MonteCarloConfig struct {
	Iterations      int
	Seed            int64
	InitialBankroll float64
}

// MonteCarloResult represents resampled outcome distributions
type MonteCarloResult struct {
	Iterations          int       `json:"iterations"`
	MeanReturn          float64   `json:"mean_return"`
	StdReturn           float64   `json:"std_return"`
	VaR95               float64   `json:"var_95"`
	VaR99               float64   `json:"var_99"`
	ProbabilityOfProfit float64   `json:"probability_of_profit"`
	ProbabilityOfRuin   float64   `json:"probability_of_ruin"`
	Distribution        []float64 `json:"distribution"`
}

// RunMonteCarlo resamples a ledger's staked matches using the model's own
// outcome probabilities to estimate the spread of final bankrolls around
// the single realized path. A fixed seed makes the simulation
// reproducible.
func RunMonteCarlo(ctx context.Context, ledger Ledger, cfg MonteCarloConfig) (MonteCarloResult, error) {
	if cfg.Iterations <= 0 {
		cfg.Iterations = 1000
	}
	if cfg.Seed == 0 {
		cfg.Seed = 1
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	distribution := make([]float64, cfg.Iterations)

	for i := 0; i < cfg.Iterations; i++ {
		select {
		case <-ctx.Done():
			return MonteCarloResult{}, ctx.Err()
		default:
		}

		bankroll := cfg.InitialBankroll
		for _, entry := range ledger {
			if entry.TotalStake <= 0 || bankroll <= 0 {
				continue
			}
			// Scale the historical stake to the simulated bankroll so
			// sizing stays proportional along the resampled path.
			scale := 1.0
			if entry.BankrollBefore > 0 {
				scale = bankroll / entry.BankrollBefore
			}
			draw := rng.Float64()
			cumulative := 0.0
			for _, outcome := range models.Outcomes {
				cumulative += entry.Prediction.Prob(outcome)
				if draw < cumulative {
					stake := entry.Stakes[outcome] * scale
					total := entry.TotalStake * scale
					// Mirror the engine's clamp: a stake past the
					// bankroll is skipped, not charged.
					if total > bankroll {
						break
					}
					bankroll = bankroll - total + stake*entry.Odds[outcome]
					break
				}
			}
			if bankroll < 0 {
				bankroll = 0
			}
		}
		distribution[i] = bankroll
	}

	mean, std := meanStd(distribution)
	result := MonteCarloResult{
		Iterations:          cfg.Iterations,
		Distribution:        distribution,
		ProbabilityOfProfit: probabilityAbove(distribution, cfg.InitialBankroll),
		ProbabilityOfRuin:   probabilityAtOrBelow(distribution, 0),
	}
	if cfg.InitialBankroll > 0 {
		result.MeanReturn = (mean - cfg.InitialBankroll) / cfg.InitialBankroll
		result.StdReturn = std / cfg.InitialBankroll
		result.VaR95 = (percentile(distribution, 0.05) - cfg.InitialBankroll) / cfg.InitialBankroll
		result.VaR99 = (percentile(distribution, 0.01) - cfg.InitialBankroll) / cfg.InitialBankroll
	}

	return result, nil
}

func meanStd(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	mean := average(values)
	variance := 0.0
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}
	variance /= float64(len(values))
	return mean, math.Sqrt(variance)
}

func percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64{}, values...)
	sortFloats(sorted)
	idx := int(math.Floor(p * float64(len(sorted)-1)))
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func probabilityAbove(values []float64, threshold float64) float64 {
	if len(values) == 0 {
		return 0
	}
	count := 0
	for _, v := range values {
		if v > threshold {
			count++
		}
	}
	return float64(count) / float64(len(values))
}

func probabilityAtOrBelow(values []float64, threshold float64) float64 {
	if len(values) == 0 {
		return 0
	}
	count := 0
	for _, v := range values {
		if v <= threshold {
			count++
		}
	}
	return float64(count) / float64(len(values))
}

func sortFloats(values []float64) {
	for i := 0; i < len(values); i++ {
		for j := i + 1; j < len(values); j++ {
			if values[j] < values[i] {
				values[i], values[j] = values[j], values[i]
			}
		}
	}
}
