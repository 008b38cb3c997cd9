package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/pitch-edge/internal/datasource"
	"github.com/yourusername/pitch-edge/internal/logger"
	"github.com/yourusername/pitch-edge/internal/metrics"
	"github.com/yourusername/pitch-edge/internal/models"
	"github.com/yourusername/pitch-edge/internal/repository"
)

// IngestionService handles the data ingestion workflow: fetch from providers,
// normalize and merge into canonical records, validate, persist, and rebuild
// feature vectors.
type IngestionService struct {
	sources    []datasource.DataSource
	matchRepo  repository.MatchRepository
	validator  *DataValidator
	normalizer *DataNormalizer
	features   *FeatureBuilder
	metrics    *IngestionMetrics
	logger     *logger.IngestionLogger
	batchSize  int
}

// NewIngestionService creates a new ingestion service
func NewIngestionService(
	sources []datasource.DataSource,
	matchRepo repository.MatchRepository,
	validator *DataValidator,
	normalizer *DataNormalizer,
	baseLogger *logrus.Logger,
	batchSize int,
) *IngestionService {
	if batchSize <= 0 {
		batchSize = 100
	}

	return &IngestionService{
		sources:    sources,
		matchRepo:  matchRepo,
		validator:  validator,
		normalizer: normalizer,
		features:   NewFeatureBuilder(),
		metrics:    NewIngestionMetrics(),
		logger:     logger.NewIngestionLogger(baseLogger),
		batchSize:  batchSize,
	}
}

// SyncSource fetches and ingests data from a single named source.
func (s *IngestionService) SyncSource(ctx context.Context, sourceName string, startDate, endDate time.Time) (*IngestionMetrics, error) {
	source := s.findSource(sourceName)
	if source == nil {
		return nil, fmt.Errorf("data source not found: %s", sourceName)
	}
	return s.syncSources(ctx, []datasource.DataSource{source}, startDate, endDate)
}

// SyncAll fetches and ingests data from every enabled source, merging records
// that describe the same fixture.
func (s *IngestionService) SyncAll(ctx context.Context, startDate, endDate time.Time) (*IngestionMetrics, error) {
	return s.syncSources(ctx, s.sources, startDate, endDate)
}

func (s *IngestionService) syncSources(ctx context.Context, sources []datasource.DataSource, startDate, endDate time.Time) (*IngestionMetrics, error) {
	s.metrics.Reset()
	startTime := time.Now()

	// Records keyed by match ID across all sources. Results feeds take
	// priority; xG-only feeds fill in what they can.
	records := make(map[string]*models.MatchRecord)
	var order []string

	for _, source := range sources {
		if !source.IsEnabled() {
			continue
		}
		sourceStart := time.Now()
		s.logger.LogSyncStarted(source.Name(), "", "")

		data, err := source.FetchMatches(ctx, startDate, endDate)
		if err != nil {
			s.metrics.RecordError()
			s.logger.LogSyncFailed(source.Name(), err.Error())
			metrics.RecordIngestionRun(source.Name(), "failure", time.Since(sourceStart).Seconds())
			metrics.RecordIngestionError(source.Name(), errorKind(err))
			return s.metrics, fmt.Errorf("failed to fetch from %s: %w", source.Name(), err)
		}
		s.metrics.RecordFetched(len(data))

		for i := range data {
			record, err := s.normalizer.NormalizeMatch(&data[i])
			if err != nil {
				s.logger.LogRecordRejected(source.Name(), data[i].SourceID, err.Error())
				s.metrics.RecordValidationError()
				continue
			}

			if existing, ok := records[record.MatchID]; ok {
				records[record.MatchID] = s.normalizer.Merge(existing, record)
				s.metrics.RecordMerge()
			} else {
				records[record.MatchID] = record
				order = append(order, record.MatchID)
			}
		}

		metrics.RecordIngestionRun(source.Name(), "success", time.Since(sourceStart).Seconds())
	}

	// Validate and collect in first-seen order so batches are stable.
	var valid []*models.MatchRecord
	for _, id := range order {
		record := records[id]
		if validationErrors := s.validator.ValidateMatch(record); len(validationErrors) > 0 {
			s.logger.LogRecordRejected("merged", record.MatchID, strings.Join(validationErrors, "; "))
			s.metrics.RecordValidationError()
			continue
		}
		valid = append(valid, record)
	}

	// Feature vectors depend on chronological history, so rebuild them over
	// the validated set before persisting.
	s.features.BuildFeatures(valid)

	stored := 0
	for i := 0; i < len(valid); i += s.batchSize {
		end := i + s.batchSize
		if end > len(valid) {
			end = len(valid)
		}
		n, err := s.matchRepo.UpsertBatch(ctx, valid[i:end])
		if err != nil {
			s.metrics.RecordError()
			return s.metrics, fmt.Errorf("failed to store batch: %w", err)
		}
		stored += n
	}
	s.metrics.RecordStored(stored)
	for i := 0; i < stored; i++ {
		metrics.RecordMatchIngested()
	}
	metrics.LastIngestionTimestamp.Set(float64(time.Now().Unix()))

	s.metrics.mu.Lock()
	s.metrics.Duration = time.Since(startTime)
	s.metrics.mu.Unlock()

	s.logger.LogSyncCompleted("all", s.metrics.TotalFetched, stored,
		s.metrics.TotalFetched-stored, float64(s.metrics.Duration.Milliseconds()))

	return s.metrics, nil
}

// RebuildFeatures recomputes feature vectors across the stored history and
// writes them back. Used after backfills that change past matches.
func (s *IngestionService) RebuildFeatures(ctx context.Context, startDate, endDate time.Time) (int, error) {
	matches, err := s.matchRepo.GetByDateRange(ctx, startDate, endDate)
	if err != nil {
		return 0, fmt.Errorf("failed to load matches: %w", err)
	}

	s.features.BuildFeatures(matches)

	updated := 0
	for _, match := range matches {
		if err := s.matchRepo.UpdateFeatures(ctx, match.MatchID, match.Features); err != nil {
			s.metrics.RecordError()
			return updated, fmt.Errorf("failed to update features for %s: %w", match.MatchID, err)
		}
		updated++
	}
	return updated, nil
}

// GetMetrics returns current ingestion metrics
func (s *IngestionService) GetMetrics() *IngestionMetrics {
	return s.metrics
}

func (s *IngestionService) findSource(name string) datasource.DataSource {
	for _, src := range s.sources {
		if src.Name() == name {
			return src
		}
	}
	return nil
}

// errorKind maps a fetch error onto a coarse metric label.
func errorKind(err error) string {
	var dsErr datasource.DataSourceError
	if errors.As(err, &dsErr) {
		return dsErr.Code
	}
	return datasource.ErrCodeUnknown
}
