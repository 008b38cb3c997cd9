// Package main provides the entry point for the backtesting CLI tool.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/pitch-edge/internal/backtest"
	"github.com/yourusername/pitch-edge/internal/config"
	"github.com/yourusername/pitch-edge/internal/database"
	"github.com/yourusername/pitch-edge/internal/logger"
	"github.com/yourusername/pitch-edge/internal/models"
	"github.com/yourusername/pitch-edge/internal/predictor"
	"github.com/yourusername/pitch-edge/internal/repository"
	"github.com/yourusername/pitch-edge/internal/staking"
)

func main() {
	var (
		configPath = flag.String("config", "config/config.yaml", "Path to config file")
		startDate  = flag.String("start-date", "", "Override start date (YYYY-MM-DD)")
		endDate    = flag.String("end-date", "", "Override end date (YYYY-MM-DD)")
		mode       = flag.String("mode", "all", "Backtest mode: historical, monte-carlo, walk-forward, all")
		output     = flag.String("output", "", "Override output path for the JSON report")
		resumePath = flag.String("resume", "", "Resume from a checkpoint file")
		checkpoint = flag.String("checkpoint", "", "Write a checkpoint file when the run aborts")
		equityPath = flag.String("equity", "", "Write the equity curve CSV to this path")
		save       = flag.Bool("save", false, "Persist the run summary to the database")
	)
	flag.Parse()

	cfg := loadConfigWithSecrets(*configPath)
	log := logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)
	ctx := context.Background()

	btConfig := buildBacktestConfig(cfg, *output, *startDate, *endDate, log)
	strat, err := staking.New(&cfg.Staking)
	if err != nil {
		log.Fatalf("Failed to build staking strategy: %v", err)
	}
	pred, err := predictor.New(&cfg.Predictor, log)
	if err != nil {
		log.Fatalf("Failed to build predictor: %v", err)
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

	engine, err := backtest.NewEngine(btConfig, pred, strat, log)
	if err != nil {
		log.Fatalf("Failed to create engine: %v", err)
	}

	log.WithFields(logrus.Fields{
		"mode":     *mode,
		"strategy": strat.Name(),
		"matches":  len(matches),
	}).Info("Starting backtest")

	ledger := runHistorical(ctx, engine, matches, *resumePath, *checkpoint, strat.Name(), log)
	report := backtest.Summarize(ledger, btConfig.InitialBankroll)

	switch *mode {
	case "historical":
		// Nothing beyond the historical replay.
	case "monte-carlo":
		runMonteCarlo(ctx, ledger, btConfig, log)
	case "walk-forward":
		runWalkForward(ctx, engine, matches, log)
	case "all":
		runMonteCarlo(ctx, ledger, btConfig, log)
		runWalkForward(ctx, engine, matches, log)
	default:
		log.Fatalf("Unsupported mode: %s", *mode)
	}

	os.Stdout.WriteString(backtest.GenerateConsoleReport(report))

	if btConfig.OutputPath != "" {
		if err := backtest.WriteJSONReport(report, btConfig.OutputPath); err != nil {
			log.Fatalf("Failed to write report: %v", err)
		}
		log.WithField("path", btConfig.OutputPath).Info("Report written")
	}

	if *equityPath != "" {
		curve := ledger.EquityCurve(btConfig.InitialBankroll)
		if err := os.WriteFile(*equityPath, []byte(curve.ToCSV()), 0o644); err != nil {
			log.Fatalf("Failed to write equity curve: %v", err)
		}
		log.WithFields(logrus.Fields{
			"path":       *equityPath,
			"points":     len(curve),
			"volatility": curve.GetVolatility(),
		}).Info("Equity curve written")
	}

	if *save {
		if err := persistResult(ctx, repos.BacktestResult, strat, btConfig, report); err != nil {
			log.Fatalf("Failed to persist backtest result: %v", err)
		}
		log.Info("Backtest result persisted")
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

func buildBacktestConfig(cfg *config.Config, output, startOverride, endOverride string, log *logrus.Logger) backtest.Config {
	btConfig, err := backtest.FromConfig(&cfg.Backtest)
	if err != nil {
		log.Fatalf("Invalid backtest config: %v", err)
	}
	if output != "" {
		btConfig.OutputPath = output
	}
	if startOverride != "" {
		parsed, err := time.Parse("2006-01-02", startOverride)
		if err != nil {
			log.Fatalf("Invalid start date: %v", err)
		}
		btConfig.StartDate = parsed
	}
	if endOverride != "" {
		parsed, err := time.Parse("2006-01-02", endOverride)
		if err != nil {
			log.Fatalf("Invalid end date: %v", err)
		}
		btConfig.EndDate = parsed
	}
	return btConfig
}

// runHistorical replays the match history, optionally resuming from a
// checkpoint. An aborted run writes its partial ledger as a checkpoint when
// a checkpoint path is configured.
func runHistorical(ctx context.Context, engine *backtest.Engine, matches []*models.MatchRecord, resumePath, checkpointPath, strategyName string, log *logrus.Logger) backtest.Ledger {
	var (
		ledger backtest.Ledger
		err    error
	)

	if resumePath != "" {
		cp, loadErr := loadCheckpoint(resumePath)
		if loadErr != nil {
			log.Fatalf("Failed to load checkpoint: %v", loadErr)
		}
		remaining := matchesAfter(matches, cp.Entries)
		log.WithFields(logrus.Fields{
			"settled":   len(cp.Entries),
			"remaining": len(remaining),
		}).Info("Resuming from checkpoint")
		ledger, err = engine.ResumeFrom(ctx, cp, remaining)
	} else {
		ledger, err = engine.Run(ctx, matches)
	}

	if err != nil {
		if checkpointPath != "" && len(ledger) > 0 {
			cp := ledger.Checkpoint(engine.Config().InitialBankroll)
			if saveErr := saveCheckpoint(cp, checkpointPath); saveErr != nil {
				log.WithError(saveErr).Error("Failed to write checkpoint")
			} else {
				logger.NewBacktestLogger(log).LogCheckpointSaved(strategyName, len(cp.Entries), cp.Bankroll, checkpointPath)
			}
		}
		log.Fatalf("Backtest failed: %v", err)
	}

	return ledger
}

func runMonteCarlo(ctx context.Context, ledger backtest.Ledger, cfg backtest.Config, log *logrus.Logger) {
	result, err := backtest.RunMonteCarlo(ctx, ledger, backtest.MonteCarloConfig{
		Iterations:      cfg.MonteCarloIterations,
		InitialBankroll: cfg.InitialBankroll,
	})
	if err != nil {
		log.Fatalf("Monte Carlo failed: %v", err)
	}
	log.WithFields(logrus.Fields{
		"mean_return":           result.MeanReturn,
		"var_95":                result.VaR95,
		"probability_of_profit": result.ProbabilityOfProfit,
	}).Info("Monte Carlo completed")
}

func runWalkForward(ctx context.Context, engine *backtest.Engine, matches []*models.MatchRecord, log *logrus.Logger) {
	result, err := backtest.RunWalkForward(ctx, engine, matches, backtest.WalkForwardConfig{
		WindowDays:          90,
		StepDays:            30,
		MinMatchesPerWindow: 20,
	})
	if err != nil {
		log.Fatalf("Walk-forward failed: %v", err)
	}
	log.WithFields(logrus.Fields{
		"windows":     len(result.Windows),
		"consistency": result.ConsistencyScore,
	}).Info("Walk-forward completed")
}

func persistResult(ctx context.Context, repo repository.BacktestResultRepository, strat staking.Strategy, cfg backtest.Config, report backtest.Report) error {
	params, err := json.Marshal(strat.Parameters())
	if err != nil {
		return err
	}
	fullReport, err := json.Marshal(report)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	return repo.SaveResult(ctx, &models.BacktestResult{
		ID:              uuid.New(),
		StrategyName:    strat.Name(),
		StrategyParams:  params,
		RunDate:         now,
		StartDate:       cfg.StartDate,
		EndDate:         cfg.EndDate,
		InitialBankroll: cfg.InitialBankroll,
		FinalBankroll:   report.FinalBankroll,
		TotalReturn:     report.TotalReturn,
		SharpeRatio:     report.SharpeRatio,
		MaxDrawdown:     report.MaxDrawdown,
		HitRate:         report.HitRate,
		MatchesTotal:    report.MatchesTotal,
		MatchesStaked:   report.MatchesStaked,
		FullReport:      fullReport,
		CreatedAt:       now,
	})
}

func loadCheckpoint(path string) (backtest.Checkpoint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return backtest.Checkpoint{}, err
	}
	var cp backtest.Checkpoint
	if err := json.Unmarshal(data, &cp); err != nil {
		return backtest.Checkpoint{}, err
	}
	return cp, nil
}

func saveCheckpoint(cp backtest.Checkpoint, path string) error {
	data, err := json.MarshalIndent(cp, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// matchesAfter drops matches already settled in the checkpoint. Settled
// entries and the match history share (date, match_id) order, so one pass
// over the settled IDs suffices.
func matchesAfter(matches []*models.MatchRecord, settled backtest.Ledger) []*models.MatchRecord {
	done := make(map[string]struct{}, len(settled))
	for _, entry := range settled {
		done[entry.MatchID] = struct{}{}
	}
	remaining := make([]*models.MatchRecord, 0, len(matches))
	for _, match := range matches {
		if _, ok := done[match.MatchID]; ok {
			continue
		}
		remaining = append(remaining, match)
	}
	return remaining
}
