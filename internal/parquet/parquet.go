// Package parquet provides data structures and functions for exporting hirecast
// results and run history to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/hirecast/schema"
	"github.com/parquet-go/parquet-go"
)

// Run represents a single pipeline run with metadata.
// This struct maps to the hirecast_runs database table.
type Run struct {
	// RunID is the unique identifier for this run
	RunID int64 `parquet:"run_id,snappy"`

	// Pipeline names the pipeline that was executed
	Pipeline string `parquet:"pipeline,snappy,dict"`

	// ReferenceTime is the "now" the pipeline windows were computed from
	ReferenceTime time.Time `parquet:"reference_time,snappy"`

	// StartTime is when the run began
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the run completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the run in milliseconds (nullable)
	RunDurationMs *int64 `parquet:"run_duration_ms,optional,snappy"`

	// TotalPoints is the number of series points recorded (nullable)
	TotalPoints *int32 `parquet:"total_points,optional,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// SeriesPoint is one flattened value recorded by a run.
// This struct maps to the hirecast_series_points database table.
type SeriesPoint struct {
	RunID      int64   `parquet:"run_id,snappy"`
	Pipeline   string  `parquet:"pipeline,snappy,dict"`
	Series     string  `parquet:"series,snappy,dict"`
	Period     string  `parquet:"period,snappy"`
	Index      int32   `parquet:"point_index,snappy"`
	Value      float64 `parquet:"value,snappy"`
	IsForecast bool    `parquet:"is_forecast,snappy"`
}

// ResultPoint is one flattened value of a pipeline result written by --output parquet.
type ResultPoint struct {
	Pipeline   string  `parquet:"pipeline,snappy,dict"`
	Series     string  `parquet:"series,snappy,dict"`
	Period     string  `parquet:"period,snappy"`
	Index      int32   `parquet:"point_index,snappy"`
	Value      float64 `parquet:"value,snappy"`
	IsForecast bool    `parquet:"is_forecast,snappy"`
}

// Write writes rows to w using the schema inferred from the struct tags of T.
func Write[T any](w io.Writer, data []T) error {
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// WriteFile creates outputPath and writes rows to it.
func WriteFile[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := Write(file, data); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// WriteRunsParquet writes a slice of Run structs to a Parquet file.
func WriteRunsParquet(data []Run, outputPath string) error {
	return WriteFile(data, outputPath)
}

// WriteSeriesPointsParquet writes a slice of SeriesPoint structs to a Parquet file.
func WriteSeriesPointsParquet(data []SeriesPoint, outputPath string) error {
	return WriteFile(data, outputPath)
}

// ConvertRunRecords converts schema.RunRecord to Run for Parquet export.
func ConvertRunRecords(records []schema.RunRecord) []Run {
	result := make([]Run, len(records))
	for i, record := range records {
		var totalPoints *int32
		if record.TotalPoints != nil {
			n := int32(*record.TotalPoints)
			totalPoints = &n
		}
		result[i] = Run{
			RunID:         record.RunID,
			Pipeline:      record.Pipeline,
			ReferenceTime: record.ReferenceTime,
			StartTime:     record.StartTime,
			EndTime:       record.EndTime,
			RunDurationMs: record.RunDurationMs,
			TotalPoints:   totalPoints,
			ConfigParams:  record.ConfigParams,
		}
	}
	return result
}

// ConvertSeriesPointRecords converts schema.SeriesPointRecord to SeriesPoint for Parquet export.
func ConvertSeriesPointRecords(records []schema.SeriesPointRecord) []SeriesPoint {
	result := make([]SeriesPoint, len(records))
	for i, record := range records {
		result[i] = SeriesPoint{
			RunID:      record.RunID,
			Pipeline:   string(record.Pipeline),
			Series:     record.Series,
			Period:     record.Period,
			Index:      int32(record.Index),
			Value:      record.Value,
			IsForecast: record.IsForecast,
		}
	}
	return result
}

// ConvertResultPoints converts the flattened points of a pipeline result for Parquet output.
func ConvertResultPoints(points []schema.SeriesPoint) []ResultPoint {
	result := make([]ResultPoint, len(points))
	for i, p := range points {
		result[i] = ResultPoint{
			Pipeline:   string(p.Pipeline),
			Series:     p.Series,
			Period:     p.Period,
			Index:      int32(p.Index),
			Value:      p.Value,
			IsForecast: p.IsForecast,
		}
	}
	return result
}
