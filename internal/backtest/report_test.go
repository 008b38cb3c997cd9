package backtest

import (
	"math"
	"testing"
	"time"

	"github.com/yourusername/pitch-edge/internal/models"
)

func ledgerEntry(id string, day int, stake, payout, before float64, flag EntryFlag) LedgerEntry {
	after := before - stake + payout
	if after < 0 {
		after = 0
	}
	return LedgerEntry{
		MatchID:        id,
		Date:           time.Date(2023, 9, day, 0, 0, 0, 0, time.UTC),
		Prediction:     models.Prediction{Home: 0.5, Draw: 0.3, Away: 0.2},
		Odds:           models.OddsLine{models.OutcomeHome: 2.0, models.OutcomeDraw: 3.3, models.OutcomeAway: 4.0},
		Stakes:         models.StakeDecision{models.OutcomeHome: stake},
		TotalStake:     stake,
		Payout:         payout,
		TrueOutcome:    models.OutcomeHome,
		BankrollBefore: before,
		BankrollAfter:  after,
		Flag:           flag,
	}
}

func TestSummarizeEmptyLedger(t *testing.T) {
	report := Summarize(Ledger{}, 100)
	if report.FinalBankroll != 100 {
		t.Fatalf("expected final bankroll 100, got %v", report.FinalBankroll)
	}
	if report.TotalReturn != 0 || report.MatchesTotal != 0 {
		t.Fatal("empty ledger must report zero activity")
	}
}

func TestSummarizeCountsAndReturn(t *testing.T) {
	ledger := Ledger{
		ledgerEntry("m1", 1, 10, 20, 100, FlagNone), // win: 100 -> 110
		ledgerEntry("m2", 2, 10, 0, 110, FlagNone),  // loss: 110 -> 100
		ledgerEntry("m3", 3, 0, 0, 100, FlagInvalidOdds),
		ledgerEntry("m4", 4, 0, 0, 100, FlagStakeClamped),
	}
	report := Summarize(ledger, 100)

	if report.MatchesTotal != 4 {
		t.Fatalf("expected 4 matches, got %d", report.MatchesTotal)
	}
	if report.MatchesStaked != 2 {
		t.Fatalf("expected 2 staked, got %d", report.MatchesStaked)
	}
	if report.MatchesSkipped != 1 || report.StakesClamped != 1 {
		t.Fatalf("expected 1 skipped and 1 clamped, got %d and %d", report.MatchesSkipped, report.StakesClamped)
	}
	if report.HitRate != 0.5 {
		t.Fatalf("expected hit rate 0.5, got %v", report.HitRate)
	}
	if report.TotalReturn != 0 {
		t.Fatalf("expected flat total return, got %v", report.TotalReturn)
	}
	if report.FinalBankroll != 100 {
		t.Fatalf("expected final bankroll 100, got %v", report.FinalBankroll)
	}
}

func TestSummarizeMaxDrawdownIsCausal(t *testing.T) {
	// Peak 120 then trough 60: drawdown 50%. Later recovery must not
	// shrink the recorded maximum.
	ledger := Ledger{
		ledgerEntry("m1", 1, 10, 30, 100, FlagNone), // 100 -> 120
		ledgerEntry("m2", 2, 60, 0, 120, FlagNone),  // 120 -> 60
		ledgerEntry("m3", 3, 10, 90, 60, FlagNone),  // 60 -> 140
	}
	report := Summarize(ledger, 100)

	if math.Abs(report.MaxDrawdown-0.5) > 1e-9 {
		t.Fatalf("expected max drawdown 0.5, got %v", report.MaxDrawdown)
	}
}

func TestSummarizeCalibrationBuckets(t *testing.T) {
	ledger := Ledger{
		ledgerEntry("m1", 1, 10, 20, 100, FlagNone),
		ledgerEntry("m2", 2, 10, 20, 110, FlagNone),
	}
	report := Summarize(ledger, 100)

	// Home prob 0.5 falls in [0.5,0.6) and HOME was realized both times.
	bucket := report.Calibration[5]
	if bucket.Count != 2 {
		t.Fatalf("expected 2 home predictions in bucket, got %d", bucket.Count)
	}
	if bucket.Observed != 1.0 {
		t.Fatalf("expected observed frequency 1.0, got %v", bucket.Observed)
	}
	if math.Abs(bucket.Predicted-0.5) > 1e-9 {
		t.Fatalf("expected mean predicted 0.5, got %v", bucket.Predicted)
	}

	// Skipped matches carry no prediction and must stay out of calibration.
	withSkip := append(Ledger{}, ledger...)
	withSkip = append(withSkip, ledgerEntry("m3", 3, 0, 0, 120, FlagInvalidOdds))
	if Summarize(withSkip, 100).Calibration[5].Count != 2 {
		t.Fatal("invalid odds entries must not enter calibration")
	}
}

func TestSummarizeSharpeZeroForConstantReturns(t *testing.T) {
	ledger := Ledger{
		ledgerEntry("m1", 1, 0, 0, 100, FlagNone),
		ledgerEntry("m2", 2, 0, 0, 100, FlagNone),
	}
	if sharpe := Summarize(ledger, 100).SharpeRatio; sharpe != 0 {
		t.Fatalf("expected zero sharpe for flat returns, got %v", sharpe)
	}
}

func TestProfitFactorEdgeCases(t *testing.T) {
	if pf := profitFactor(0, 0); pf != 0 {
		t.Fatalf("expected 0, got %v", pf)
	}
	if pf := profitFactor(50, 0); pf != 999 {
		t.Fatalf("expected capped profit factor, got %v", pf)
	}
	if pf := profitFactor(50, 25); pf != 2 {
		t.Fatalf("expected 2, got %v", pf)
	}
}

func TestWriteJSONReportRequiresPath(t *testing.T) {
	if err := WriteJSONReport(Report{}, ""); err == nil {
		t.Fatal("expected error for empty output path")
	}
}

func TestWriteJSONReportWritesFile(t *testing.T) {
	path := t.TempDir() + "/reports/backtest.json"
	report := Summarize(Ledger{ledgerEntry("m1", 1, 10, 20, 100, FlagNone)}, 100)

	if err := WriteJSONReport(report, path); err != nil {
		t.Fatalf("WriteJSONReport failed: %v", err)
	}
}
