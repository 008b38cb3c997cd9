package backtest

import (
	"context"
	"testing"
)

func TestRunWalkForwardProducesWindows(t *testing.T) {
	engine := newTestEngine(t, &stubPredictor{}, stubStrategy{stake: 2})
	matches := buildMatches(120)

	result, err := RunWalkForward(context.Background(), engine, matches, WalkForwardConfig{
		WindowDays:          30,
		StepDays:            30,
		MinMatchesPerWindow: 5,
	})
	if err != nil {
		t.Fatalf("RunWalkForward failed: %v", err)
	}
	if len(result.Windows) == 0 {
		t.Fatal("expected at least one window")
	}
	for _, window := range result.Windows {
		if window.Report.InitialBankroll != engine.Config().InitialBankroll {
			t.Fatalf("window %d did not start from a fresh bankroll", window.WindowID)
		}
		if !window.Start.Before(window.End) {
			t.Fatalf("window %d has inverted bounds", window.WindowID)
		}
	}
	if result.ConsistencyScore < 0 || result.ConsistencyScore > 1 {
		t.Fatalf("consistency score out of range: %v", result.ConsistencyScore)
	}
}

func TestRunWalkForwardSkipsSparseWindows(t *testing.T) {
	engine := newTestEngine(t, &stubPredictor{}, stubStrategy{stake: 2})
	matches := buildMatches(3)

	result, err := RunWalkForward(context.Background(), engine, matches, WalkForwardConfig{
		WindowDays:          30,
		StepDays:            30,
		MinMatchesPerWindow: 50,
	})
	if err != nil {
		t.Fatalf("RunWalkForward failed: %v", err)
	}
	if len(result.Windows) != 0 {
		t.Fatalf("expected no windows below the match threshold, got %d", len(result.Windows))
	}
}

func TestRunWalkForwardRequiresEngine(t *testing.T) {
	if _, err := RunWalkForward(context.Background(), nil, buildMatches(1), WalkForwardConfig{}); err == nil {
		t.Fatal("expected error for nil engine")
	}
}

func TestRunWalkForwardEmptyMatches(t *testing.T) {
	engine := newTestEngine(t, &stubPredictor{}, stubStrategy{stake: 2})
	result, err := RunWalkForward(context.Background(), engine, nil, WalkForwardConfig{})
	if err != nil {
		t.Fatalf("RunWalkForward failed: %v", err)
	}
	if len(result.Windows) != 0 {
		t.Fatal("expected no windows for empty input")
	}
}
