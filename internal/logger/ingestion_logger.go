// Package logger provides ingestion-specific logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// IngestionLogger provides dedicated logging for data ingestion operations.
type IngestionLogger struct {
	*logrus.Entry
}

// NewIngestionLogger creates a new ingestion logger.
func NewIngestionLogger(baseLogger *logrus.Logger) *IngestionLogger {
	return &IngestionLogger{
		Entry: baseLogger.WithField("component", "ingestion"),
	}
}

// LogSyncStarted logs the start of a source sync.
func (il *IngestionLogger) LogSyncStarted(source, competition, season string) {
	il.WithFields(logrus.Fields{
		"source":      source,
		"competition": competition,
		"season":      season,
		"event_type":  "sync_started",
	}).Info("Source sync started")
}

// LogSyncCompleted logs a completed source sync.
func (il *IngestionLogger) LogSyncCompleted(source string, fetched, stored, skipped int, durationMs float64) {
	il.WithFields(logrus.Fields{
		"source":      source,
		"fetched":     fetched,
		"stored":      stored,
		"skipped":     skipped,
		"duration_ms": durationMs,
		"event_type":  "sync_completed",
	}).Info("Source sync completed")
}

// LogSyncFailed logs a failed source sync.
func (il *IngestionLogger) LogSyncFailed(source, reason string) {
	il.WithFields(logrus.Fields{
		"source":     source,
		"reason":     reason,
		"event_type": "sync_failed",
	}).Error("Source sync failed")
}

// LogRecordRejected logs a record dropped by validation.
func (il *IngestionLogger) LogRecordRejected(source, matchID, reason string) {
	il.WithFields(logrus.Fields{
		"source":     source,
		"match_id":   matchID,
		"reason":     reason,
		"event_type": "record_rejected",
	}).Warn("Record rejected during ingestion")
}
