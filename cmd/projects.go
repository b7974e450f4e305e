package cmd

import (
	"github.com/spf13/cobra"

	"github.com/skillsift/skillsift/core"
	"github.com/skillsift/skillsift/internal/contract"
)

// projectsCmd lists previously analyzed projects.
var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List stored projects ranked by resume score.",
	Long: `List previously analyzed projects from the configured store backend,
ranked by their composite resume score.

Examples:
  # Show the stored ranking
  skillsift projects

  # Show the full record for one project
  skillsift projects show webapp`,
	Args:    cobra.NoArgs,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteProjectsList(cfg); err != nil {
			contract.LogFatal("cannot list projects: %v", err)
		}
	},
}

// projectsShowCmd prints the full stored record for one project.
var projectsShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show the full stored record for one project.",
	Long: `Show everything stored about one analyzed project: summary and resume
bullets, quality dimensions, the skill profile with confidence and
proficiency, and the contribution rollup.

Examples:
  # Human-readable breakdown
  skillsift projects show webapp

  # Full record as JSON
  skillsift projects show webapp --output json`,
	Args:    cobra.ExactArgs(1),
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		if err := core.ExecuteProjectsShow(cfg, args[0]); err != nil {
			contract.LogFatal("cannot show project: %v", err)
		}
	},
}
