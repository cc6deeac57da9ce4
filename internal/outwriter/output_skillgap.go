package outwriter

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/hirecast/internal/contract"
	"github.com/huangsam/hirecast/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteSkillGapResults outputs the skill-gap result, dispatching based on the output format configured.
func WriteSkillGapResults(w io.Writer, result schema.SkillGapResult, cfg *contract.Config, duration time.Duration) error {
	return writeResult(w, cfg, result, result.SeriesPoints(), func(w io.Writer) error {
		return writeSkillGapTable(w, result, cfg, duration)
	})
}

// writeSkillGapTable prints the ranking followed by the monthly timeline of the ranked skills.
func writeSkillGapTable(w io.Writer, result schema.SkillGapResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)
	labels := newLabelers(cfg)
	maxWidth := GetMaxTableLabelWidth(cfg, 45)

	// --- 1. Ranking table ---
	ranking := tablewriter.NewWriter(w)
	ranking.Header([]string{"Rank", "Skill", "Demand", "Avg Gap", "Status"})
	ranking.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for i, r := range result.Rankings {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			truncateLabel(r.Skill, maxWidth),
			fmt.Sprintf(intFmt, r.Demand),
			fmtFloat(r.AverageGap),
			labels.gap(r.AverageGap),
		})
	}
	if err := ranking.Bulk(data); err != nil {
		return err
	}
	if err := ranking.Render(); err != nil {
		return err
	}

	// --- 2. Timeline table, one column per ranked skill ---
	if len(result.Data) > 0 && len(result.Skills) > 0 {
		timeline := tablewriter.NewWriter(w)
		headers := []string{"Month", "Type"}
		for _, skill := range result.Skills {
			headers = append(headers, truncateLabel(skill, maxWidth))
		}
		timeline.Header(headers)
		timeline.Configure(func(cfg *tablewriter.Config) {
			cfg.Row.Alignment.Global = tw.AlignRight
		})

		var rows [][]string
		for _, row := range result.Data {
			values := row.Actual
			if row.IsForecast {
				values = row.Forecast
			}
			cells := []string{row.Month, rowKind(row.IsForecast)}
			for _, skill := range result.Skills {
				cell := "-"
				if v, ok := values[skill]; ok {
					cell = fmtFloat(v)
				}
				if row.IsForecast {
					cell = labels.forecast(cell)
				}
				cells = append(cells, cell)
			}
			rows = append(rows, cells)
		}
		if err := timeline.Bulk(rows); err != nil {
			return err
		}
		if err := timeline.Render(); err != nil {
			return err
		}
	}

	_, _ = fmt.Fprintf(w, "%s. Forecast: %s. Window start: %s\n",
		result.Metadata.Description, result.Metadata.ForecastPeriod, result.Metadata.WindowStart)
	writeFooter(w, schema.SkillGapPipeline, cfg, duration)
	return nil
}
