package iocache

import (
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/hirecast/internal/contract"
	"github.com/huangsam/hirecast/internal/parquet"
)

// ExecuteHistoryExport writes all runs and series points of the history store to Parquet files
// named after outputFile.
func ExecuteHistoryExport(w io.Writer, store contract.HistoryStore, outputFile string) error {
	// Validate that output file is specified
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("run history is disabled. Set --history-backend to export runs")
	}

	// Check if there's any data to export
	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no run history found to export")
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Total runs: %d\n", status.TotalRuns)
	_, _ = fmt.Fprintf(w, "Total series points: %d\n", status.TableSizes[seriesPointsTable])

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve runs: %w", err)
	}
	points, err := store.GetAllSeriesPoints()
	if err != nil {
		return fmt.Errorf("failed to retrieve series points: %w", err)
	}

	runsFile := outputFile + ".runs.parquet"
	parquetRuns := parquet.ConvertRunRecords(runs)
	if err := parquet.WriteRunsParquet(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write runs: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d runs to: %s\n", len(parquetRuns), runsFile)

	pointsFile := outputFile + ".series_points.parquet"
	parquetPoints := parquet.ConvertSeriesPointRecords(points)
	if err := parquet.WriteSeriesPointsParquet(parquetPoints, pointsFile); err != nil {
		return fmt.Errorf("failed to write series points: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d series points to: %s\n", len(parquetPoints), pointsFile)

	return nil
}
