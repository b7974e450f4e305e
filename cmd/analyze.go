package cmd

import (
	"github.com/spf13/cobra"

	"github.com/skillsift/skillsift/core"
	"github.com/skillsift/skillsift/internal/contract"
)

// analyzeCmd runs the full analysis pipeline over one or more project roots.
var analyzeCmd = &cobra.Command{
	Use:   "analyze [project-root...]",
	Short: "Analyze extracted project directories and rank them.",
	Long: `Analyze one or more extracted project directories and derive a complete
record per project: file categories, language shares, code metrics, skill
profile with confidence and proficiency, contribution history, and a
composite resume score.

Each root is analyzed independently, so one broken project never stops
the others. Results are persisted to the configured store backend and
printed ranked by score.

Examples:
  # Analyze the current directory
  skillsift analyze

  # Analyze several extracted projects at once
  skillsift analyze ~/projects/api ~/projects/webapp --workers 4

  # Skip git history and print machine-readable output
  skillsift analyze ~/projects/api --skip-git --output json

  # Export findings to CSV for tracking
  skillsift analyze ~/projects/api --output csv --output-file projects.csv`,
	Args:    cobra.ArbitraryArgs,
	PreRunE: analyzeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteAnalyze(rootCtx, cfg); err != nil {
			contract.LogFatal("cannot run analysis: %v", err)
		}
	},
}
