package cmd

import (
	"context"

	"github.com/huangsam/hirecast/core"
	"github.com/huangsam/hirecast/internal/contract"
	"github.com/spf13/cobra"
)

// executorFunc is the signature shared by the pipeline entry points in core.
type executorFunc func(ctx context.Context, cfg *contract.Config, src contract.RecordSource, mgr contract.CacheManager) error

// runExecutor runs one pipeline against the shared record source and exits on failure.
func runExecutor(name string, executeFunc executorFunc) {
	if err := executeFunc(rootCtx, cfg, recordSource, cacheManager); err != nil {
		contract.LogFatal("Cannot run "+name+" pipeline", err)
	}
}

// skillGapCmd ranks the skills roles ask for that applicants lack.
var skillGapCmd = &cobra.Command{
	Use:   "skill-gap",
	Short: "Rank skills by demand/supply gap and forecast the gap ratios",
	Long: `Compare the skills job roles require against the skills applicants bring, month by month.

For every month in the window, each skill's gap ratio is role demand divided by
applicant supply, capped at a fixed ratio that also marks skills no applicant has.
The skills with the largest average gap are ranked and their ratios forecast.

Examples:
  # Top 5 short-supplied skills over the last 6 months
  hirecast skill-gap

  # Top 10 skills with a 6 month forecast as JSON
  hirecast skill-gap --skill-gap-top 10 --skill-gap-horizon 6 --output json`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		runExecutor("skill-gap", core.ExecuteSkillGap)
	},
}

// qualityCmd buckets candidates by score tier.
var qualityCmd = &cobra.Command{
	Use:   "quality",
	Short: "Count excellent, good and poor candidates per month",
	Long: `Classify every application by its scores and count the tiers per month.

Candidates are judged on the better of their AI score and their test score,
when they took the test. The mix of the recent months drives the forecast of
the next months.

Examples:
  # Quality mix as CSV for a spreadsheet
  hirecast quality --output csv --output-file quality.csv

  # As if it were the start of the year
  hirecast quality --now 2024-01-01T00:00:00Z`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		runExecutor("quality", core.ExecuteQuality)
	},
}

// volumeCmd forecasts daily application counts.
var volumeCmd = &cobra.Command{
	Use:   "volume",
	Short: "Forecast daily application volume",
	Long: `Count applications per day over the trailing window and extend the linear trend.

Days without applications are skipped unless --volume-fill-gaps is set.

Examples:
  # 30 day forecast from the last 90 days
  hirecast volume

  # Two week forecast written to Parquet
  hirecast volume --volume-horizon 14 --output parquet --output-file volume.parquet`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		runExecutor("volume", core.ExecuteVolume)
	},
}

// skillDemandCmd reports growing and shrinking skills among applicants.
var skillDemandCmd = &cobra.Command{
	Use:   "skill-demand",
	Short: "Show skills whose applicant demand is growing or shrinking",
	Long: `Compare how often each skill appears among applicants in the recent part of
the window against the earlier part, and rank skills by growth.

Examples:
  # Top 10 emerging skills
  hirecast skill-demand

  # Compare the last 2 months against the 4 before
  hirecast skill-demand --split-months 2`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		runExecutor("skill-demand", core.ExecuteSkillDemand)
	},
}
