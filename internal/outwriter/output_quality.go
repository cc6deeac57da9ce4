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

// WriteQualityResults outputs the quality distribution, dispatching based on the output format configured.
func WriteQualityResults(w io.Writer, result schema.QualityDistributionResult, cfg *contract.Config, duration time.Duration) error {
	return writeResult(w, cfg, result, result.SeriesPoints(), func(w io.Writer) error {
		return writeQualityTable(w, result, cfg, duration)
	})
}

// writeQualityTable prints one row per month with the tier tallies.
func writeQualityTable(w io.Writer, result schema.QualityDistributionResult, cfg *contract.Config, duration time.Duration) error {
	_, intFmt := createFormatters(cfg.Precision)
	labels := newLabelers(cfg)

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Month", "Type", "Excellent", "Good", "Poor", "Total"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, b := range result.Data {
		row := []string{
			b.Month,
			rowKind(b.IsForecast),
			fmt.Sprintf(intFmt, b.Excellent),
			fmt.Sprintf(intFmt, b.Good),
			fmt.Sprintf(intFmt, b.Poor),
			fmt.Sprintf(intFmt, b.Total),
		}
		if b.IsForecast {
			for i := range row {
				row[i] = labels.forecast(row[i])
			}
		}
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	d := result.CurrentDistribution
	_, _ = fmt.Fprintf(w, "Current distribution: excellent %d%%, good %d%%, poor %d%%\n", d.Excellent, d.Good, d.Poor)
	writeFooter(w, schema.QualityPipeline, cfg, duration)
	return nil
}
