package outwriter

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/skillsift/skillsift/internal/contract"
	"github.com/skillsift/skillsift/schema"
)

// writeWithFile handles the common pattern of opening a file, writing to it, and cleaning up.
// It accepts a writer function that takes an io.Writer and returns an error.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, cleanup, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		fmt.Fprintf(os.Stderr, "%s to %s\n", successMsg, outputFile)
	}
	return nil
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// createFormatters creates the common formatter closures used across output types.
func createFormatters() (fmtFloat func(float64) string, intFmt string) {
	fmtFloat = func(v float64) string {
		return fmt.Sprintf("%.2f", v)
	}
	return fmtFloat, "%d"
}

// labelFunc returns the level formatter matching the color configuration.
func labelFunc(cfg *contract.Config) func(schema.DimensionLevel) string {
	if cfg.UseColors {
		return contract.GetColorLabel
	}
	return contract.GetPlainLabel
}

// dimensionLevel looks up the level of one quality dimension, defaulting
// to needs_improvement when the ranker never ran.
func dimensionLevel(p *schema.Project, name string) schema.DimensionLevel {
	if dim, ok := p.Dimensions[name]; ok {
		return dim.Level
	}
	return schema.NeedsImprovementLevel
}

// topItems joins up to n leading entries of a ranked list.
func topItems(items []string, n int) string {
	if len(items) > n {
		items = items[:n]
	}
	return strings.Join(items, ", ")
}
