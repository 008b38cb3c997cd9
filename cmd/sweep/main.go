// Package main provides the entry point for the strategy sweep CLI tool.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/pitch-edge/internal/backtest"
	"github.com/yourusername/pitch-edge/internal/config"
	"github.com/yourusername/pitch-edge/internal/database"
	"github.com/yourusername/pitch-edge/internal/logger"
	"github.com/yourusername/pitch-edge/internal/predictor"
	"github.com/yourusername/pitch-edge/internal/repository"
	"github.com/yourusername/pitch-edge/internal/staking"
)

func main() {
	var (
		configPath = flag.String("config", "config/config.yaml", "Path to config file")
		flatGrid   = flag.String("flat-fractions", "0.01,0.02,0.05", "Comma-separated flat stake fractions")
		kellyGrid  = flag.String("kelly-multipliers", "0.25,0.5,1.0", "Comma-separated Kelly multipliers")
		sortByROI  = flag.Bool("sort", true, "Sort results by total return, best first")
		reportsDir = flag.String("reports-dir", "", "Write a JSON report per variant into this directory")
	)
	flag.Parse()

	cfg := loadConfigWithSecrets(*configPath)
	log := logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)
	ctx := context.Background()

	btConfig, err := backtest.FromConfig(&cfg.Backtest)
	if err != nil {
		log.Fatalf("Invalid backtest config: %v", err)
	}
	pred, err := predictor.New(&cfg.Predictor, log)
	if err != nil {
		log.Fatalf("Failed to build predictor: %v", err)
	}

	specs, err := buildSpecs(*flatGrid, *kellyGrid)
	if err != nil {
		log.Fatalf("Invalid sweep grid: %v", err)
	}

	db, err := database.NewDB(ctx, &cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	repos, err := repository.NewRepositories(db)
	if err != nil {
		log.Fatalf("Failed to initialize repositories: %v", err)
	}

	matches, err := repos.Match.GetByDateRange(ctx, btConfig.StartDate, btConfig.EndDate)
	if err != nil {
		log.Fatalf("Failed to load matches: %v", err)
	}
	if len(matches) == 0 {
		log.Fatal("No matches in the configured date range; run the ingest command first")
	}

	log.WithFields(logrus.Fields{
		"variants": len(specs),
		"matches":  len(matches),
	}).Info("Starting strategy sweep")

	results := backtest.RunSweep(ctx, btConfig, pred, matches, specs, log)

	if *sortByROI {
		sort.SliceStable(results, func(i, j int) bool {
			if results[i].Err != nil {
				return false
			}
			if results[j].Err != nil {
				return true
			}
			return results[i].Report.TotalReturn > results[j].Report.TotalReturn
		})
	}

	printSummaryTable(results)

	if *reportsDir != "" {
		if err := writeReports(results, *reportsDir); err != nil {
			log.Fatalf("Failed to write reports: %v", err)
		}
		log.WithField("dir", *reportsDir).Info("Variant reports written")
	}
}

func loadConfigWithSecrets(path string) *config.Config {
	bootstrap := logrus.New()

	cfg, err := config.Load(path)
	if err != nil {
		bootstrap.Fatalf("Failed to load config: %v", err)
	}
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			bootstrap.Fatal("AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			bootstrap.Fatalf("Failed to load secrets: %v", err)
		}
	}
	if err := config.Validate(cfg); err != nil {
		bootstrap.Fatalf("Invalid configuration: %v", err)
	}
	return cfg
}

// buildSpecs expands the two parameter grids into named strategy variants.
func buildSpecs(flatGrid, kellyGrid string) ([]backtest.SweepSpec, error) {
	var specs []backtest.SweepSpec

	fractions, err := parseGrid(flatGrid)
	if err != nil {
		return nil, fmt.Errorf("flat fractions: %w", err)
	}
	for _, fraction := range fractions {
		strat, err := staking.NewFlatStake(fraction)
		if err != nil {
			return nil, err
		}
		specs = append(specs, backtest.SweepSpec{
			Name:     fmt.Sprintf("flat-%.3f", fraction),
			Strategy: strat,
		})
	}

	multipliers, err := parseGrid(kellyGrid)
	if err != nil {
		return nil, fmt.Errorf("kelly multipliers: %w", err)
	}
	for _, multiplier := range multipliers {
		strat, err := staking.NewKellyStake(multiplier)
		if err != nil {
			return nil, err
		}
		specs = append(specs, backtest.SweepSpec{
			Name:     fmt.Sprintf("kelly-%.2f", multiplier),
			Strategy: strat,
		})
	}

	if len(specs) == 0 {
		return nil, fmt.Errorf("no strategy variants configured")
	}
	return specs, nil
}

func parseGrid(grid string) ([]float64, error) {
	var values []float64
	for _, raw := range strings.Split(grid, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid value %q: %w", raw, err)
		}
		values = append(values, value)
	}
	return values, nil
}

func printSummaryTable(results []backtest.SweepResult) {
	fmt.Printf("%-16s %12s %12s %10s %10s %8s\n",
		"VARIANT", "FINAL", "RETURN", "SHARPE", "DRAWDOWN", "HITRATE")
	for _, result := range results {
		if result.Err != nil {
			fmt.Printf("%-16s failed: %v\n", result.Name, result.Err)
			continue
		}
		r := result.Report
		fmt.Printf("%-16s %12.2f %11.2f%% %10.3f %9.2f%% %7.1f%%\n",
			result.Name,
			r.FinalBankroll,
			r.TotalReturn*100,
			r.SharpeRatio,
			r.MaxDrawdown*100,
			r.HitRate*100)
	}
}

func writeReports(results []backtest.SweepResult, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, result := range results {
		if result.Err != nil {
			continue
		}
		path := fmt.Sprintf("%s/%s.json", dir, result.Name)
		if err := backtest.WriteJSONReport(result.Report, path); err != nil {
			return err
		}
	}
	return nil
}
