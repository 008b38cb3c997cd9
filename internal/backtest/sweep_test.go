package backtest

import (
	"context"
	"testing"

	"github.com/yourusername/pitch-edge/internal/staking"
)

func TestRunSweepResultsInSpecOrder(t *testing.T) {
	matches := buildMatches(30)
	specs := []SweepSpec{
		{Name: "tiny", Strategy: stubStrategy{stake: 1}},
		{Name: "small", Strategy: stubStrategy{stake: 2}},
		{Name: "large", Strategy: stubStrategy{stake: 5}},
	}

	results := RunSweep(context.Background(), testConfig(), &stubPredictor{}, matches, specs, quietLogger())
	if len(results) != len(specs) {
		t.Fatalf("expected %d results, got %d", len(specs), len(results))
	}
	for i, result := range results {
		if result.Name != specs[i].Name {
			t.Fatalf("result %d is %q, expected %q", i, result.Name, specs[i].Name)
		}
		if result.Err != nil {
			t.Fatalf("variant %q failed: %v", result.Name, result.Err)
		}
		if result.Report.MatchesTotal != len(matches) {
			t.Fatalf("variant %q settled %d matches, expected %d", result.Name, result.Report.MatchesTotal, len(matches))
		}
	}
}

func TestRunSweepIsDeterministic(t *testing.T) {
	matches := buildMatches(25)
	flat, err := staking.NewFlatStake(0.02)
	if err != nil {
		t.Fatalf("NewFlatStake failed: %v", err)
	}
	kelly, err := staking.NewKellyStake(0.5)
	if err != nil {
		t.Fatalf("NewKellyStake failed: %v", err)
	}
	specs := []SweepSpec{
		{Name: "flat-0.02", Strategy: flat},
		{Name: "kelly-0.5", Strategy: kelly},
	}

	first := RunSweep(context.Background(), testConfig(), &stubPredictor{}, matches, specs, quietLogger())
	second := RunSweep(context.Background(), testConfig(), &stubPredictor{}, matches, specs, quietLogger())

	for i := range first {
		if first[i].Report.FinalBankroll != second[i].Report.FinalBankroll {
			t.Fatalf("variant %q not reproducible: %v vs %v",
				first[i].Name, first[i].Report.FinalBankroll, second[i].Report.FinalBankroll)
		}
	}
}

func TestRunSweepIsolatesFailures(t *testing.T) {
	matches := buildMatches(10)
	specs := []SweepSpec{
		{Name: "ok", Strategy: stubStrategy{stake: 1}},
		{Name: "broken", Strategy: nil},
	}

	results := RunSweep(context.Background(), testConfig(), &stubPredictor{}, matches, specs, quietLogger())
	if results[0].Err != nil {
		t.Fatalf("healthy variant failed: %v", results[0].Err)
	}
	if results[1].Err == nil {
		t.Fatal("expected the nil strategy variant to fail")
	}
}
