package service

import (
	"fmt"
	"sync"
	"time"
)

// IngestionMetrics tracks statistics about data ingestion
type IngestionMetrics struct {
	mu               sync.RWMutex
	StartTime        time.Time
	Duration         time.Duration
	TotalFetched     int
	StoredMatches    int
	MergedRecords    int
	ValidationErrors int
	Errors           int
}

// NewIngestionMetrics creates a new metrics tracker
func NewIngestionMetrics() *IngestionMetrics {
	return &IngestionMetrics{
		StartTime: time.Now(),
	}
}

// Reset resets all metrics
func (m *IngestionMetrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.StartTime = time.Now()
	m.Duration = 0
	m.TotalFetched = 0
	m.StoredMatches = 0
	m.MergedRecords = 0
	m.ValidationErrors = 0
	m.Errors = 0
}

// RecordFetched adds to the fetched count
func (m *IngestionMetrics) RecordFetched(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TotalFetched += n
}

// RecordStored adds to the stored count
func (m *IngestionMetrics) RecordStored(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StoredMatches += n
}

// RecordMerge increments the merged record count
func (m *IngestionMetrics) RecordMerge() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MergedRecords++
}

// RecordError increments error count
func (m *IngestionMetrics) RecordError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Errors++
}

// RecordValidationError increments validation error count
func (m *IngestionMetrics) RecordValidationError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ValidationErrors++
}

// String returns a formatted string representation of metrics
func (m *IngestionMetrics) String() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	storeRate := float64(0)
	if m.TotalFetched > 0 {
		storeRate = float64(m.StoredMatches) / float64(m.TotalFetched) * 100
	}

	return fmt.Sprintf(
		"IngestionMetrics{Fetched=%d, Stored=%d (%.1f%%), Merged=%d, ValidationErrors=%d, Errors=%d, Duration=%v}",
		m.TotalFetched,
		m.StoredMatches,
		storeRate,
		m.MergedRecords,
		m.ValidationErrors,
		m.Errors,
		m.Duration,
	)
}
