// Package cmd defines the command-line interface for hirecast.
package cmd

import (
	"github.com/huangsam/hirecast/internal/contract"
	"github.com/huangsam/hirecast/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(skillGapCmd)
	rootCmd.AddCommand(qualityCmd)
	rootCmd.AddCommand(volumeCmd)
	rootCmd.AddCommand(skillDemandCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(recordsCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the records subcommands to the parent records command
	recordsCmd.AddCommand(recordsStatusCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("now", "", "Reference time in ISO8601 or time ago (default: current time)")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("log-level", contract.DefaultLogLevel, "Log level: debug or info or warn or error")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("records-backend", string(schema.SQLiteBackend), "Records backend: sqlite or mysql or postgresql")
	rootCmd.PersistentFlags().String("records-db-connect", "", "Connection string of the recruiting database (default: ~/.hirecast_records.db)")
	rootCmd.PersistentFlags().String("roles-file", "", "YAML role catalog used instead of the job_roles table")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("history-backend", string(schema.NoneBackend), "Run history backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("history-db-connect", "", "Database connection string for run history (must differ from cache-db-connect)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Pipeline flags live under the pipelines section of the config file
	defaults := contract.DefaultPipelineSettings()
	pipelineFlags := rootCmd.PersistentFlags()
	pipelineFlags.Int("window-months", defaults.WindowMonths, "Months of applications each monthly pipeline looks back")
	pipelineFlags.Int("split-months", defaults.SplitMonths, "Recent months compared against the rest of the window by skill-demand")
	pipelineFlags.Int("skill-gap-top", defaults.SkillGapTop, "Number of skills ranked by skill-gap")
	pipelineFlags.Int("skill-gap-horizon", defaults.SkillGapHorizon, "Months forecast by skill-gap")
	pipelineFlags.Int("quality-recent-months", defaults.QualityRecentMonths, "Recent months that set the quality forecast mix")
	pipelineFlags.Int("quality-horizon", defaults.QualityHorizon, "Months forecast by quality")
	pipelineFlags.Int("volume-days", defaults.VolumeDays, "Days of applications counted by volume")
	pipelineFlags.Int("volume-horizon", defaults.VolumeHorizon, "Days forecast by volume")
	pipelineFlags.Bool("volume-fill-gaps", defaults.VolumeFillGaps, "Report days without applications as zero counts")
	pipelineFlags.Int("demand-top", defaults.DemandTop, "Number of skills returned by skill-demand")
	for _, name := range []string{
		"window-months", "split-months", "skill-gap-top", "skill-gap-horizon", "quality-recent-months",
		"quality-horizon", "volume-days", "volume-horizon", "volume-fill-gaps", "demand-top",
	} {
		if err := viper.BindPFlag("pipelines."+name, pipelineFlags.Lookup(name)); err != nil {
			contract.LogFatal("Error binding pipeline flags", err)
		}
	}

	// Bind all flags of serveCmd to Viper
	serveCmd.Flags().String("addr", contract.DefaultAddr, "Listen address of the HTTP API")
	if err := viper.BindPFlags(serveCmd.Flags()); err != nil {
		contract.LogFatal("Error binding serve flags", err)
	}

	// Bind all flags of seedCmd to Viper
	seedDefaults := defaultSeedOptions()
	seedCmd.Flags().Int("count", seedDefaults.Count, "Number of applications to generate")
	seedCmd.Flags().Int("months", seedDefaults.Months, "Spread applications over this many months before --now")
	seedCmd.Flags().Uint64("seed", seedDefaults.Seed, "Random seed; the same seed yields the same applications")
	if err := viper.BindPFlags(seedCmd.Flags()); err != nil {
		contract.LogFatal("Error binding seed flags", err)
	}

	// Bind all flags of historyMigrateCmd to Viper
	historyMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(historyMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history migrate flags", err)
	}
}
