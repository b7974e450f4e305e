package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/skillsift/skillsift/core"
	"github.com/skillsift/skillsift/internal/contract"
	"github.com/skillsift/skillsift/internal/projstore"
)

// storeCmd is focused on project store management.
var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage the project store and exports",
	Long: `Manage the database that holds analyzed project records.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show store statistics and connection details
  migrate - Run database schema migrations

Examples:
  # Check store status
  skillsift store status`,
}

// storeStatusCmd shows project store statistics.
var storeStatusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Display project store statistics and connection details",
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteStoreStatus(cfg); err != nil {
			contract.LogFatal("cannot get store status: %v", err)
		}
	},
}

// storeMigrateCmd runs schema migrations on the project store.
//
// Note: This command does not open the regular store first, so migrations
// can run against a fresh database before any table exists.
var storeMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations for the project store",
	Long: `Run schema migrations against the configured store backend.

The target version controls the direction:
  -1  migrate up to the latest version (default)
   0  roll back all migrations
   N  migrate to version N

Examples:
  # Bring the schema up to date
  skillsift store migrate

  # Roll everything back
  skillsift store migrate --target-version 0`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		target := viper.GetInt("target-version")
		if err := projstore.Migrate(cfg.Backend, cfg.DBConnect, target); err != nil {
			contract.LogFatal("cannot run migrations: %v", err)
		}
	},
}
