package schema

import "time"

// RunRecord represents a row from the hirecast_runs table.
type RunRecord struct {
	RunID         int64
	Pipeline      string
	ReferenceTime time.Time
	StartTime     time.Time
	EndTime       *time.Time
	RunDurationMs *int64
	TotalPoints   *int
	ConfigParams  *string
}

// SeriesPointRecord represents a row from the hirecast_series_points table.
type SeriesPointRecord struct {
	RunID int64
	SeriesPoint
}
