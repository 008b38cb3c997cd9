package backtest

import (
	"strings"
	"testing"
)

func TestLedgerFinalBankroll(t *testing.T) {
	if final := (Ledger{}).FinalBankroll(250); final != 250 {
		t.Fatalf("empty ledger must return the initial bankroll, got %v", final)
	}

	ledger := Ledger{
		ledgerEntry("m1", 1, 10, 20, 100, FlagNone),
		ledgerEntry("m2", 2, 10, 0, 110, FlagNone),
	}
	if final := ledger.FinalBankroll(100); final != 100 {
		t.Fatalf("expected final bankroll 100, got %v", final)
	}
}

func TestLedgerReturnsZeroOnZeroBankroll(t *testing.T) {
	ledger := Ledger{ledgerEntry("m1", 1, 0, 0, 0, FlagNone)}
	returns := ledger.Returns()
	if len(returns) != 1 || returns[0] != 0 {
		t.Fatalf("zero bankroll entry must yield zero return, got %v", returns)
	}
}

func TestLedgerCheckpointCopiesEntries(t *testing.T) {
	ledger := Ledger{ledgerEntry("m1", 1, 10, 20, 100, FlagNone)}
	checkpoint := ledger.Checkpoint(100)

	if checkpoint.Bankroll != 110 {
		t.Fatalf("expected checkpoint bankroll 110, got %v", checkpoint.Bankroll)
	}

	ledger[0].MatchID = "mutated"
	if checkpoint.Entries[0].MatchID != "m1" {
		t.Fatal("checkpoint must hold an independent copy of the ledger")
	}
}

func TestLedgerToCSVHeaderAndRows(t *testing.T) {
	ledger := Ledger{ledgerEntry("m1", 1, 10, 20, 100, FlagStakeClamped)}
	csv := ledger.ToCSV()

	lines := strings.Split(strings.TrimSpace(csv), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header plus one row, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "match_id,date,") {
		t.Fatalf("unexpected header %q", lines[0])
	}
	if !strings.Contains(lines[1], "stake_clamped") {
		t.Fatalf("row must carry the entry flag, got %q", lines[1])
	}
}

func TestEquityCurveTracksDrawdown(t *testing.T) {
	ledger := Ledger{
		ledgerEntry("m1", 1, 10, 30, 100, FlagNone), // 100 -> 120
		ledgerEntry("m2", 2, 60, 0, 120, FlagNone),  // 120 -> 60
	}
	curve := ledger.EquityCurve(100)

	if len(curve) != 3 {
		t.Fatalf("expected anchor point plus two entries, got %d", len(curve))
	}
	if curve[0].Value != 100 || curve[0].Drawdown != 0 {
		t.Fatal("curve must anchor at the initial bankroll")
	}
	if curve[2].Drawdown != 0.5 {
		t.Fatalf("expected drawdown 0.5 at the trough, got %v", curve[2].Drawdown)
	}

	returns := curve.GetReturns()
	if len(returns) != 2 {
		t.Fatalf("expected 2 returns, got %d", len(returns))
	}
	if curve.GetVolatility() <= 0 {
		t.Fatal("expected positive volatility for a moving curve")
	}
}
