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

// WriteSkillDemandResults outputs the skill demand result, dispatching based on the output format configured.
func WriteSkillDemandResults(w io.Writer, result schema.SkillDemandResult, cfg *contract.Config, duration time.Duration) error {
	return writeResult(w, cfg, result, result.SeriesPoints(), func(w io.Writer) error {
		return writeSkillDemandTable(w, result, cfg, duration)
	})
}

// writeSkillDemandTable prints the ranked skills with their growth between the two halves of the window.
func writeSkillDemandTable(w io.Writer, result schema.SkillDemandResult, cfg *contract.Config, duration time.Duration) error {
	_, intFmt := createFormatters(cfg.Precision)
	labels := newLabelers(cfg)
	maxWidth := GetMaxTableLabelWidth(cfg, 55)

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rank", "Skill", "Previous", "Recent", "Growth", "Trend"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for i, s := range result.Skills {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			truncateLabel(s.Skill, maxWidth),
			fmt.Sprintf(intFmt, s.PreviousCount),
			fmt.Sprintf(intFmt, s.RecentCount),
			fmt.Sprintf("%+d%%", s.GrowthRate),
			labels.trend(s.Trend),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(w, "%s. %s. Split at %s\n",
		result.Metadata.Description, result.Metadata.Calculation, result.Metadata.SplitTime)
	writeFooter(w, schema.SkillDemandPipeline, cfg, duration)
	return nil
}
