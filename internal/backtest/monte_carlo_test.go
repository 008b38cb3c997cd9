package backtest

import (
	"context"
	"testing"
)

func monteCarloLedger() Ledger {
	return Ledger{
		ledgerEntry("m1", 1, 10, 20, 100, FlagNone),
		ledgerEntry("m2", 2, 10, 0, 110, FlagNone),
		ledgerEntry("m3", 3, 10, 20, 100, FlagNone),
	}
}

func TestRunMonteCarloDistributionSize(t *testing.T) {
	result, err := RunMonteCarlo(context.Background(), monteCarloLedger(), MonteCarloConfig{
		Iterations:      500,
		Seed:            42,
		InitialBankroll: 100,
	})
	if err != nil {
		t.Fatalf("RunMonteCarlo failed: %v", err)
	}
	if result.Iterations != 500 {
		t.Fatalf("expected 500 iterations, got %d", result.Iterations)
	}
	if len(result.Distribution) != 500 {
		t.Fatalf("expected distribution length 500, got %d", len(result.Distribution))
	}
	for i, bankroll := range result.Distribution {
		if bankroll < 0 {
			t.Fatalf("simulated path %d ended with negative bankroll %v", i, bankroll)
		}
	}
}

func TestRunMonteCarloSeedIsReproducible(t *testing.T) {
	cfg := MonteCarloConfig{Iterations: 200, Seed: 7, InitialBankroll: 100}

	first, err := RunMonteCarlo(context.Background(), monteCarloLedger(), cfg)
	if err != nil {
		t.Fatalf("first simulation failed: %v", err)
	}
	second, err := RunMonteCarlo(context.Background(), monteCarloLedger(), cfg)
	if err != nil {
		t.Fatalf("second simulation failed: %v", err)
	}

	for i := range first.Distribution {
		if first.Distribution[i] != second.Distribution[i] {
			t.Fatalf("distributions diverge at index %d: %v vs %v", i, first.Distribution[i], second.Distribution[i])
		}
	}
}

func TestRunMonteCarloSkipsUnstakedEntries(t *testing.T) {
	ledger := Ledger{ledgerEntry("m1", 1, 0, 0, 100, FlagInvalidOdds)}

	result, err := RunMonteCarlo(context.Background(), ledger, MonteCarloConfig{
		Iterations:      50,
		Seed:            1,
		InitialBankroll: 100,
	})
	if err != nil {
		t.Fatalf("RunMonteCarlo failed: %v", err)
	}
	for _, bankroll := range result.Distribution {
		if bankroll != 100 {
			t.Fatalf("unstaked ledger must leave the bankroll untouched, got %v", bankroll)
		}
	}
	if result.MeanReturn != 0 {
		t.Fatalf("expected zero mean return, got %v", result.MeanReturn)
	}
}

func TestRunMonteCarloSkipsStakeExceedingSimulatedBankroll(t *testing.T) {
	// Rescaled stake is TotalStake * bankroll / BankrollBefore, so a
	// stake above BankrollBefore always overshoots the simulated
	// bankroll. The bet must be skipped, not charged as a total loss.
	ledger := Ledger{ledgerEntry("m1", 1, 150, 300, 100, FlagNone)}

	result, err := RunMonteCarlo(context.Background(), ledger, MonteCarloConfig{
		Iterations:      100,
		Seed:            3,
		InitialBankroll: 100,
	})
	if err != nil {
		t.Fatalf("RunMonteCarlo failed: %v", err)
	}
	for _, bankroll := range result.Distribution {
		if bankroll != 100 {
			t.Fatalf("oversized stake must be skipped, got bankroll %v", bankroll)
		}
	}
	if result.ProbabilityOfRuin != 0 {
		t.Fatalf("expected zero ruin probability, got %v", result.ProbabilityOfRuin)
	}
}

func TestRunMonteCarloHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := RunMonteCarlo(ctx, monteCarloLedger(), MonteCarloConfig{Iterations: 10, InitialBankroll: 100}); err == nil {
		t.Fatal("expected context error")
	}
}

func TestPercentile(t *testing.T) {
	values := []float64{50, 10, 40, 30, 20}
	if p := percentile(values, 0.0); p != 10 {
		t.Fatalf("expected 10, got %v", p)
	}
	if p := percentile(values, 1.0); p != 50 {
		t.Fatalf("expected 50, got %v", p)
	}
	if p := percentile(values, 0.5); p != 30 {
		t.Fatalf("expected 30, got %v", p)
	}
	// input must stay unsorted
	if values[0] != 50 {
		t.Fatal("percentile must not mutate its input")
	}
}

func TestProbabilityThresholds(t *testing.T) {
	values := []float64{0, 50, 100, 150}
	if p := probabilityAbove(values, 100); p != 0.25 {
		t.Fatalf("expected 0.25, got %v", p)
	}
	if p := probabilityAtOrBelow(values, 0); p != 0.25 {
		t.Fatalf("expected 0.25, got %v", p)
	}
}
