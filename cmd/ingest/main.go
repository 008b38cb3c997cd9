// Package main provides the entry point for the data ingestion CLI tool.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/pitch-edge/internal/config"
	"github.com/yourusername/pitch-edge/internal/database"
	"github.com/yourusername/pitch-edge/internal/datasource"
	"github.com/yourusername/pitch-edge/internal/health"
	applogger "github.com/yourusername/pitch-edge/internal/logger"
	"github.com/yourusername/pitch-edge/internal/metrics"
	"github.com/yourusername/pitch-edge/internal/repository"
	"github.com/yourusername/pitch-edge/internal/scheduler"
	"github.com/yourusername/pitch-edge/internal/service"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

var (
	configFile   string
	fromDate     string
	toDate       string
	sourceName   string
	historyYears int
	rebuildCron  string

	logger    *logrus.Logger
	cfg       *config.Config
	db        *database.DB
	repos     *repository.Repositories
	ingestion *service.IngestionService
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	syncCmd.Flags().StringVar(&fromDate, "from", "", "Start of the sync window (YYYY-MM-DD, default 7 days ago)")
	syncCmd.Flags().StringVar(&toDate, "to", "", "End of the sync window (YYYY-MM-DD, default today)")
	syncCmd.Flags().StringVar(&sourceName, "source", "", "Sync a single named source instead of all enabled sources")
	rebuildCmd.Flags().IntVar(&historyYears, "history-years", 5, "Years of history to rebuild features over")
	daemonCmd.Flags().StringVar(&rebuildCron, "rebuild-cron", "0 3 * * 0", "Cron expression for the weekly feature rebuild")
}

var rootCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Fetch and store match results, odds and expected goals",
	Long:  `Fetch match data from the configured sources, normalize and merge it, derive team form features and store everything in PostgreSQL.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := setupDependencies(cmd.Context()); err != nil {
			return fmt.Errorf("failed to setup dependencies: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if db != nil {
			db.Close()
		}
	},
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run a one-shot sync",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSync(cmd.Context())
	},
}

var rebuildCmd = &cobra.Command{
	Use:   "rebuild-features",
	Short: "Recompute team form features from stored matches",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRebuild(cmd.Context())
	},
}

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run the scheduled sync daemon",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDaemon(cmd.Context())
	},
}

func main() {
	rootCmd.AddCommand(syncCmd, rebuildCmd, daemonCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func loadConfig() error {
	var err error
	cfg, err = config.Load(configFile)
	if err != nil {
		return err
	}
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			return fmt.Errorf("AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			return fmt.Errorf("failed to load secrets: %w", err)
		}
	}
	return config.Validate(cfg)
}

func setupDependencies(ctx context.Context) error {
	logger = applogger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)
	metrics.InitRegistry()

	var err error
	db, err = database.NewDB(ctx, &cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	repos, err = repository.NewRepositories(db)
	if err != nil {
		return fmt.Errorf("failed to initialize repositories: %w", err)
	}

	httpClient := datasource.NewRateLimitedHTTPClient(datasource.DefaultHTTPClientConfig(), logger)
	sources, err := datasource.NewFactory(logger).NewDataSources(cfg.Ingestion, httpClient)
	if err != nil {
		return fmt.Errorf("failed to build data sources: %w", err)
	}

	ingestion = service.NewIngestionService(
		sources,
		repos.Match,
		service.NewDataValidator(logger),
		service.NewDataNormalizer(),
		logger,
		cfg.Ingestion.BatchSize,
	)

	return nil
}

func runSync(ctx context.Context) error {
	startDate, endDate, err := resolveWindow()
	if err != nil {
		return err
	}

	var ingestMetrics *service.IngestionMetrics
	if sourceName != "" {
		ingestMetrics, err = ingestion.SyncSource(ctx, sourceName, startDate, endDate)
	} else {
		ingestMetrics, err = ingestion.SyncAll(ctx, startDate, endDate)
	}
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	fmt.Println(ingestMetrics.String())
	return nil
}

func runRebuild(ctx context.Context) error {
	endDate := time.Now().UTC()
	startDate := endDate.AddDate(-historyYears, 0, 0)

	updated, err := ingestion.RebuildFeatures(ctx, startDate, endDate)
	if err != nil {
		return fmt.Errorf("feature rebuild failed: %w", err)
	}

	fmt.Printf("Rebuilt features for %d matches\n", updated)
	return nil
}

func runDaemon(ctx context.Context) error {
	sched := scheduler.NewScheduler(ingestion, logger)
	if err := sched.ScheduleDailySync(cfg.Ingestion.Schedule.DailySync); err != nil {
		return fmt.Errorf("failed to schedule daily sync: %w", err)
	}
	if err := sched.ScheduleFeatureRebuild(rebuildCron, historyYears); err != nil {
		return fmt.Errorf("failed to schedule feature rebuild: %w", err)
	}

	healthServer := health.NewServer(health.Config{
		ServiceName: cfg.App.Name,
		Version:     Version,
		Commit:      GitCommit,
		Port:        fmt.Sprintf("%d", cfg.Ingestion.Schedule.HealthPort),
		Logger:      logger,
		DB:          db,
		Scheduler:   sched,
	})

	daemonCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := healthServer.Start(daemonCtx); err != nil {
		return fmt.Errorf("failed to start health server: %w", err)
	}
	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	healthServer.SetReady(true)

	logger.WithFields(logrus.Fields{
		"daily_sync":   cfg.Ingestion.Schedule.DailySync,
		"rebuild_cron": rebuildCron,
		"next_run":     sched.GetNextRun().Format(time.RFC3339),
	}).Info("Ingestion daemon started")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.WithField("signal", sig.String()).Info("Shutting down")
	case <-daemonCtx.Done():
	}

	healthServer.SetReady(false)
	if err := sched.Stop(); err != nil {
		logger.WithError(err).Warn("Scheduler did not stop cleanly")
	}
	return nil
}

// resolveWindow applies the flag overrides on top of a trailing 7 day
// default window.
func resolveWindow() (time.Time, time.Time, error) {
	endDate := time.Now().UTC().Truncate(24 * time.Hour)
	startDate := endDate.AddDate(0, 0, -7)

	if fromDate != "" {
		parsed, err := time.Parse("2006-01-02", fromDate)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --from date: %w", err)
		}
		startDate = parsed
	}
	if toDate != "" {
		parsed, err := time.Parse("2006-01-02", toDate)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --to date: %w", err)
		}
		endDate = parsed
	}
	if endDate.Before(startDate) {
		return time.Time{}, time.Time{}, fmt.Errorf("--to must not be before --from")
	}
	return startDate, endDate, nil
}
