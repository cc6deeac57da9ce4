package outwriter

import (
	"fmt"
	"io"
	"time"

	"github.com/huangsam/hirecast/internal/contract"
	"github.com/huangsam/hirecast/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteVolumeResults outputs the application forecast, dispatching based on the output format configured.
func WriteVolumeResults(w io.Writer, result schema.ApplicationForecastResult, cfg *contract.Config, duration time.Duration) error {
	return writeResult(w, cfg, result, result.SeriesPoints(), func(w io.Writer) error {
		return writeVolumeTable(w, result, cfg, duration)
	})
}

// writeVolumeTable prints one row per day, historical days first.
func writeVolumeTable(w io.Writer, result schema.ApplicationForecastResult, cfg *contract.Config, duration time.Duration) error {
	_, intFmt := createFormatters(cfg.Precision)
	labels := newLabelers(cfg)

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Date", "Day", "Type", "Applications"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	historical := 0
	for _, p := range result.Data {
		row := []string{
			p.Date,
			fmt.Sprintf(intFmt, p.DayIndex),
			rowKind(p.IsForecast),
			fmt.Sprintf(intFmt, p.Count),
		}
		if p.IsForecast {
			for i := range row {
				row[i] = labels.forecast(row[i])
			}
		} else {
			historical += p.Count
		}
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(w, "Applications in the last %d days: %d. Forecast horizon: %d days\n",
		result.Metadata.HistoricalDays, historical, result.Metadata.ForecastDays)
	writeFooter(w, schema.VolumePipeline, cfg, duration)
	return nil
}
