package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/huangsam/hirecast/internal/contract"
	"github.com/huangsam/hirecast/internal/parquet"
	"github.com/huangsam/hirecast/schema"
)

// seriesHeader is the CSV header shared by every pipeline.
var seriesHeader = []string{"pipeline", "series", "period", "index", "value", "is_forecast"}

// writeWithFile handles the common pattern of opening a file, writing to it, and cleaning up.
// It accepts a writer function that takes an io.Writer and returns an error.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	// Only close if it's not stdout
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	}
	return nil
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSVWithHeader handles the common pattern of creating a CSV writer,
// writing a header, and writing data rows.
func writeCSVWithHeader(w io.Writer, header []string, writeRows func(*csv.Writer) error) error {
	csvWriter := csv.NewWriter(w)
	defer csvWriter.Flush()

	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	if err := writeRows(csvWriter); err != nil {
		return err
	}

	return nil
}

// writeSeriesCSV writes flattened series points, one row per value.
func writeSeriesCSV(w io.Writer, points []schema.SeriesPoint, fmtFloat func(float64) string) error {
	return writeCSVWithHeader(w, seriesHeader, func(cw *csv.Writer) error {
		for _, p := range points {
			row := []string{
				string(p.Pipeline),
				p.Series,
				p.Period,
				strconv.Itoa(p.Index),
				fmtFloat(p.Value),
				strconv.FormatBool(p.IsForecast),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

// createFormatters creates the common formatter closures used across multiple output types.
func createFormatters(precision int) (fmtFloat func(float64) string, intFmt string) {
	numFmt := "%.*f"
	intFmt = "%d"
	fmtFloat = func(v float64) string {
		return fmt.Sprintf(numFmt, precision, v)
	}
	return fmtFloat, intFmt
}

// writeResult dispatches on the configured output format. Text output is delegated to table.
func writeResult(w io.Writer, cfg *contract.Config, data any, points []schema.SeriesPoint, table func(io.Writer) error) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeJSON(w, data); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeSeriesCSV(w, points, fmtFloat); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := parquet.Write(w, parquet.ConvertResultPoints(points)); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		// Default to human-readable table
		if err := table(w); err != nil {
			return fmt.Errorf("error writing table output: %w", err)
		}
	}
	return nil
}
