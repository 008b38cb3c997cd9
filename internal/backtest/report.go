package backtest

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/yourusername/pitch-edge/internal/models"
)

// CalibrationBucket aggregates predicted probability against realized
// frequency for one decile
type CalibrationBucket struct {
	Low       float64 `json:"low"`
	High      float64 `json:"high"`
	Count     int     `json:"count"`
	Predicted float64 `json:"predicted"`
	Observed  float64 `json:"observed"`
}

// Report summarizes the performance of one backtest run
type Report struct {
	InitialBankroll float64             `json:"initial_bankroll"`
	FinalBankroll   float64             `json:"final_bankroll"`
	TotalReturn     float64             `json:"total_return"`
	MaxDrawdown     float64             `json:"max_drawdown"`
	SharpeRatio     float64             `json:"sharpe_ratio"`
	HitRate         float64             `json:"hit_rate"`
	ProfitFactor    float64             `json:"profit_factor"`
	Expectancy      float64             `json:"expectancy"`
	LargestWin      float64             `json:"largest_win"`
	LargestLoss     float64             `json:"largest_loss"`
	MatchesTotal    int                 `json:"matches_total"`
	MatchesStaked   int                 `json:"matches_staked"`
	MatchesSkipped  int                 `json:"matches_skipped"`
	StakesClamped   int                 `json:"stakes_clamped"`
	Returns         []float64           `json:"returns"`
	Calibration     []CalibrationBucket `json:"calibration"`
	StartDate       time.Time           `json:"start_date"`
	EndDate         time.Time           `json:"end_date"`
}

// Summarize aggregates a ledger into summary statistics in a single
// forward pass. Every metric is causal: drawdown uses only the
// peak-to-date, never future entries.
func Summarize(ledger Ledger, initialBankroll float64) Report {
	report := Report{
		InitialBankroll: initialBankroll,
		FinalBankroll:   initialBankroll,
		Returns:         make([]float64, 0, len(ledger)),
		Calibration:     newCalibrationBuckets(),
	}
	if len(ledger) == 0 {
		return report
	}

	report.StartDate = ledger[0].Date
	report.EndDate = ledger[len(ledger)-1].Date

	peak := initialBankroll
	wins := 0
	grossProfit := 0.0
	grossLoss := 0.0
	netPnL := 0.0
	calSums := make([]float64, calibrationBuckets)
	calHits := make([]int, calibrationBuckets)
	calCounts := make([]int, calibrationBuckets)

	for _, entry := range ledger {
		report.MatchesTotal++
		if entry.Flag == FlagInvalidOdds {
			report.MatchesSkipped++
		}
		if entry.Flag == FlagStakeClamped {
			report.StakesClamped++
		}

		if entry.BankrollBefore > 0 {
			report.Returns = append(report.Returns, (entry.BankrollAfter-entry.BankrollBefore)/entry.BankrollBefore)
		} else {
			report.Returns = append(report.Returns, 0)
		}

		if entry.BankrollAfter > peak {
			peak = entry.BankrollAfter
		}
		if peak > 0 {
			drawdown := (peak - entry.BankrollAfter) / peak
			if drawdown > report.MaxDrawdown {
				report.MaxDrawdown = drawdown
			}
		}

		pnl := entry.BankrollAfter - entry.BankrollBefore
		netPnL += pnl
		if entry.TotalStake > 0 {
			report.MatchesStaked++
			if entry.Won() {
				wins++
			}
			if pnl > 0 {
				grossProfit += pnl
				if pnl > report.LargestWin {
					report.LargestWin = pnl
				}
			} else if pnl < 0 {
				grossLoss += -pnl
				if pnl < report.LargestLoss {
					report.LargestLoss = pnl
				}
			}
		}

		if entry.Flag != FlagInvalidOdds {
			for _, outcome := range models.Outcomes {
				prob := entry.Prediction.Prob(outcome)
				bucket := calibrationBucket(prob)
				calSums[bucket] += prob
				calCounts[bucket]++
				if outcome == entry.TrueOutcome {
					calHits[bucket]++
				}
			}
		}

		report.FinalBankroll = entry.BankrollAfter
	}

	if initialBankroll > 0 {
		report.TotalReturn = (report.FinalBankroll - initialBankroll) / initialBankroll
	}
	if report.MatchesStaked > 0 {
		report.HitRate = float64(wins) / float64(report.MatchesStaked)
		report.Expectancy = netPnL / float64(report.MatchesStaked)
	}
	report.ProfitFactor = profitFactor(grossProfit, grossLoss)
	report.SharpeRatio = sharpeRatio(report.Returns)

	for i := range report.Calibration {
		if calCounts[i] == 0 {
			continue
		}
		report.Calibration[i].Count = calCounts[i]
		report.Calibration[i].Predicted = calSums[i] / float64(calCounts[i])
		report.Calibration[i].Observed = float64(calHits[i]) / float64(calCounts[i])
	}

	return report
}

const calibrationBuckets = 10

func newCalibrationBuckets() []CalibrationBucket {
	buckets := make([]CalibrationBucket, calibrationBuckets)
	for i := range buckets {
		buckets[i].Low = float64(i) / calibrationBuckets
		buckets[i].High = float64(i+1) / calibrationBuckets
	}
	return buckets
}

func calibrationBucket(prob float64) int {
	bucket := int(prob * calibrationBuckets)
	if bucket < 0 {
		return 0
	}
	if bucket >= calibrationBuckets {
		return calibrationBuckets - 1
	}
	return bucket
}

func profitFactor(grossProfit, grossLoss float64) float64 {
	if grossLoss == 0 {
		if grossProfit > 0 {
			return 999
		}
		return 0
	}
	return grossProfit / grossLoss
}

// sharpeRatio computes the ratio of mean to standard deviation of the
// per-match return series. Per-match returns are not annualized.
func sharpeRatio(returns []float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	mean := average(returns)
	std := stddev(returns)
	if std == 0 {
		return 0
	}
	return mean / std
}

func average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	return mean / float64(len(values))
}

func stddev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := average(values)
	variance := 0.0
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}
	variance /= float64(len(values))
	return math.Sqrt(variance)
}

// GenerateConsoleReport formats a report for terminal output
func GenerateConsoleReport(report Report) string {
	var builder strings.Builder
	builder.WriteString("Backtest Report\n")
	builder.WriteString("================\n")
	builder.WriteString(fmt.Sprintf("Final Bankroll: %.2f\n", report.FinalBankroll))
	builder.WriteString(fmt.Sprintf("Total Return: %.2f%%\n", report.TotalReturn*100))
	builder.WriteString(fmt.Sprintf("Sharpe Ratio: %.2f\n", report.SharpeRatio))
	builder.WriteString(fmt.Sprintf("Max Drawdown: %.2f%%\n", report.MaxDrawdown*100))
	builder.WriteString(fmt.Sprintf("Hit Rate: %.2f%%\n", report.HitRate*100))
	builder.WriteString(fmt.Sprintf("Profit Factor: %.2f\n", report.ProfitFactor))
	builder.WriteString(fmt.Sprintf("Matches: %d total, %d staked, %d skipped\n",
		report.MatchesTotal, report.MatchesStaked, report.MatchesSkipped))
	builder.WriteString("Calibration (predicted vs observed):\n")
	for _, bucket := range report.Calibration {
		if bucket.Count == 0 {
			continue
		}
		builder.WriteString(fmt.Sprintf("  [%.1f-%.1f) n=%d predicted=%.3f observed=%.3f\n",
			bucket.Low, bucket.High, bucket.Count, bucket.Predicted, bucket.Observed))
	}
	return builder.String()
}

// WriteJSONReport writes the report as indented JSON
func WriteJSONReport(report Report, outputPath string) error {
	if outputPath == "" {
		return fmt.Errorf("output path is required")
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	return os.WriteFile(outputPath, data, 0o644)
}

// WriteCSVReport exports key metrics for spreadsheets
func WriteCSVReport(report Report, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	csv := "metric,value\n" +
		fmt.Sprintf("final_bankroll,%.4f\n", report.FinalBankroll) +
		fmt.Sprintf("total_return,%.4f\n", report.TotalReturn) +
		fmt.Sprintf("sharpe_ratio,%.4f\n", report.SharpeRatio) +
		fmt.Sprintf("max_drawdown,%.4f\n", report.MaxDrawdown) +
		fmt.Sprintf("hit_rate,%.4f\n", report.HitRate) +
		fmt.Sprintf("profit_factor,%.4f\n", report.ProfitFactor) +
		fmt.Sprintf("matches_staked,%d\n", report.MatchesStaked)
	return os.WriteFile(outputPath, []byte(csv), 0o644)
}
