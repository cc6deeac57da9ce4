// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/huangsam/hirecast/schema"
)

// RecordSource defines the read operations the pipelines need from the recruiting database.
// This allows the core analytics logic to be tested without a real database.
type RecordSource interface {
	// ListApplications returns applications submitted at or after since, oldest first.
	ListApplications(ctx context.Context, since time.Time) ([]schema.ApplicationRecord, error)

	// ListRoles returns the job role catalog.
	ListRoles(ctx context.Context) ([]schema.RoleRecord, error)

	// Fingerprint returns a cheap summary of the rows visible after since.
	// Two equal fingerprints mean a cached result can be reused.
	Fingerprint(ctx context.Context, since time.Time) (string, error)

	// Close closes the underlying connection
	Close() error
}

// RecordWriter defines the write path used by the synthetic data seeder.
type RecordWriter interface {
	InsertRoles(ctx context.Context, roles []schema.RoleRecord) error
	InsertApplications(ctx context.Context, apps []schema.ApplicationRecord) error
}

// CacheManager defines the interface for managing cache stores.
// This allows the cache layer to be mocked for testing.
type CacheManager interface {
	GetResultStore() CacheStore
	GetHistoryStore() HistoryStore
}

// CacheStore defines the interface for cache data storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// HistoryStore defines the interface for tracking pipeline runs and their series.
type HistoryStore interface {
	// BeginRun creates a new run and returns its unique ID
	BeginRun(startTime time.Time, pipeline schema.Pipeline, referenceTime time.Time, configParams map[string]any) (int64, error)

	// RecordSeries stores the flattened series points of a run
	RecordSeries(runID int64, points []schema.SeriesPoint) error

	// EndRun updates the run with completion data
	EndRun(runID int64, endTime time.Time, totalPoints int) error

	// GetStatus returns status information about the history store
	GetStatus() (schema.HistoryStatus, error)

	// GetAllRuns returns every recorded run, oldest first
	GetAllRuns() ([]schema.RunRecord, error)

	// GetAllSeriesPoints returns every recorded series point
	GetAllSeriesPoints() ([]schema.SeriesPointRecord, error)

	// Close closes the underlying connection
	Close() error
}
