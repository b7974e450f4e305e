// Package outwriter has output and writer logic.
package outwriter

import (
	"os"
	"time"

	"golang.org/x/term"

	"github.com/skillsift/skillsift/internal/contract"
	"github.com/skillsift/skillsift/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

var _ contract.ResultWriter = &OutWriter{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteProjects prints ranked project results using the configured output format.
func (ow *OutWriter) WriteProjects(projects []*schema.Project, cfg *contract.Config, duration time.Duration) error {
	return WriteProjectResults(projects, cfg, duration)
}

// WriteProjectDetail prints the full record for a single project.
func (ow *OutWriter) WriteProjectDetail(project *schema.Project, cfg *contract.Config) error {
	return WriteProjectDetailResult(project, cfg)
}

// getMaxTableNameWidth calculates the maximum width for project names in table
// output based on terminal width and table configuration.
func getMaxTableNameWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			// Fallback to conservative default if terminal size can't be detected
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Reserve space for the fixed columns: rank, score, LOC, the two
	// dimension labels, and the languages/skills columns with padding.
	baseWidth := 70

	available := termWidth - baseWidth
	if available < 12 {
		// Minimum reasonable name width
		return 12
	}
	if available > 40 {
		// Maximum name width to keep rows compact
		return 40
	}
	return available
}
