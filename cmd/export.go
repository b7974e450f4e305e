package cmd

import (
	"github.com/spf13/cobra"

	"github.com/skillsift/skillsift/core"
	"github.com/skillsift/skillsift/internal/contract"
)

// exportCmd dumps all stored project records.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all stored projects in the configured output format.",
	Long: `Export every stored project record. Unlike 'projects', export is a
complete dump: the display limit does not apply.

Parquet output requires --output-file and can be consumed by Spark,
Pandas (via pyarrow), DuckDB, or any other Parquet-compatible tool.

Examples:
  # Full JSON dump to stdout
  skillsift export --output json

  # CSV for spreadsheets
  skillsift export --output csv --output-file projects.csv

  # Parquet for analytics
  skillsift export --output parquet --output-file projects.parquet`,
	Args:    cobra.NoArgs,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteExport(cfg); err != nil {
			contract.LogFatal("cannot export projects: %v", err)
		}
	},
}
