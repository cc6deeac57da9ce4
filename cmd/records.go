package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/hirecast/internal/contract"
	"github.com/huangsam/hirecast/internal/iocache"
	"github.com/huangsam/hirecast/internal/records"
	"github.com/huangsam/hirecast/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// defaultSeedOptions returns the seeding defaults used for flag registration.
func defaultSeedOptions() records.SeedOptions {
	return records.DefaultSeedOptions(time.Time{})
}

// seedRoles returns the role catalog to seed: the roles file when given, the bundled catalog otherwise.
func seedRoles() ([]schema.RoleRecord, error) {
	if cfg.RolesFile != "" {
		return records.LoadRoles(cfg.RolesFile)
	}
	return records.DefaultRoles()
}

// seedCmd fills the recruiting database with synthetic data.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Generate synthetic job applications into the records database",
	Long: `Insert the role catalog and a batch of generated applications into the records database.

Each application picks a role, a random subset of the role's skills and an AI score.
Strong candidates also get a test score close to their AI score. The same --seed
always yields the same applications, which makes demos and tests reproducible.

Examples:
  # 500 applications over the last 6 months into ~/.hirecast_records.db
  hirecast seed

  # A larger data set with a custom catalog
  hirecast seed --count 5000 --months 12 --roles-file roles.yaml`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		roles, err := seedRoles()
		if err != nil {
			contract.LogFatal("Failed to load role catalog", err)
		}

		opts := records.SeedOptions{
			Count:  viper.GetInt("count"),
			Months: viper.GetInt("months"),
			Seed:   viper.GetUint64("seed"),
			Now:    cfg.ReferenceTime,
		}
		n, err := records.Seed(rootCtx, recordSource, roles, opts)
		if err != nil {
			contract.LogFatal("Failed to seed records", err)
		}
		fmt.Printf("Seeded %d roles and %d applications.\n", len(roles), n)
	},
}

// recordsCmd focused on the recruiting database.
var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "Inspect the recruiting database the pipelines read from",
	Long: `Inspect the applications and job_roles tables the pipelines read from.

Supported backends: SQLite (default), MySQL, PostgreSQL

Subcommands:
  status - Show row counts and the applied_at range

Examples:
  # Check the default SQLite database
  hirecast records status

  # Check a PostgreSQL database
  HIRECAST_RECORDS_BACKEND=postgresql HIRECAST_RECORDS_DB_CONNECT="..." hirecast records status`,
}

// recordsStatusCmd shows record counts.
var recordsStatusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Display record counts and connection details",
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := recordSource.GetStatus(rootCtx)
		if err != nil {
			contract.LogFatal("Failed to get records status", err)
		}
		iocache.PrintRecordsStatus(os.Stdout, status)
	},
}
