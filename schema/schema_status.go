package schema

import "time"

// CacheStatus represents the status of the result cache store.
type CacheStatus struct {
	Backend         string    `json:"backend"`
	Connected       bool      `json:"connected"`
	TotalEntries    int       `json:"total_entries"`
	LastEntryTime   time.Time `json:"last_entry_time"`
	OldestEntryTime time.Time `json:"oldest_entry_time"`
	TableSizeBytes  int64     `json:"table_size_bytes"`
}

// HistoryStatus represents the status of the run history store.
type HistoryStatus struct {
	Backend       string           `json:"backend"`
	Connected     bool             `json:"connected"`
	TotalRuns     int              `json:"total_runs"`
	LastRunID     int64            `json:"last_run_id"`
	LastRunTime   time.Time        `json:"last_run_time"`
	OldestRunTime time.Time        `json:"oldest_run_time"`
	TotalPoints   int              `json:"total_points"`
	TableSizes    map[string]int64 `json:"table_sizes"`
}

// RecordsStatus represents the contents of a record source.
type RecordsStatus struct {
	Backend          string `json:"backend"`
	Applications     int    `json:"applications"`
	Roles            int    `json:"roles"`
	OldestAppliedAt  string `json:"oldest_applied_at"`
	NewestAppliedAt  string `json:"newest_applied_at"`
	WithTestScores   int    `json:"with_test_scores"`
	WithMatchedSkill int    `json:"with_matched_skills"`
}
