package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/skillsift/skillsift/internal/contract"
	"github.com/skillsift/skillsift/schema"
)

// WriteProjectResults outputs ranked projects, dispatching based on the output format configured.
func WriteProjectResults(projects []*schema.Project, cfg *contract.Config, duration time.Duration) error {
	if len(projects) > cfg.ResultLimit {
		projects = projects[:cfg.ResultLimit]
	}
	fmtFloat, intFmt := createFormatters()

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeProjectJSONResults(projects, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeProjectCSVResults(projects, cfg, fmtFloat, intFmt); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := writeProjectParquetResults(projects, cfg); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeProjectTable(projects, cfg, fmtFloat, duration, w)
		}, "Wrote table")
	}
	return nil
}

// writeProjectJSONResults handles opening the file and calling the JSON writer.
func writeProjectJSONResults(projects []*schema.Project, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSONResultsForProjects(w, projects)
	}, "Wrote JSON")
}

// writeProjectCSVResults handles opening the file and calling the CSV writer.
func writeProjectCSVResults(projects []*schema.Project, cfg *contract.Config, fmtFloat func(float64) string, intFmt string) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		csvWriter := csv.NewWriter(w)
		defer csvWriter.Flush()
		return writeCSVResultsForProjects(csvWriter, projects, fmtFloat, intFmt)
	}, "Wrote CSV")
}

// writeProjectTable generates and writes the human-readable ranking table.
func writeProjectTable(projects []*schema.Project, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)
	label := labelFunc(cfg)

	// 1. Define Headers
	headers := []string{"Rank", "Name", "Score", "Languages", "Skills", "LOC", "Testing", "Docs"}
	table.Header(headers)

	// 2. Configure Separators/Borders to match a minimal look
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	// 3. Populate Rows
	var data [][]string
	for i, p := range projects {
		row := []string{
			strconv.Itoa(i + 1), // Rank
			contract.TruncatePath(p.Name, getMaxTableNameWidth(cfg)),
			fmtFloat(p.ResumeScore),
			topItems(p.Languages, 3),
			topItems(p.SkillsUsed, 3),
			strconv.Itoa(p.TotalLOC),
			label(dimensionLevel(p, schema.TestingDisciplineDimension)),
			label(dimensionLevel(p, schema.DocumentationHabitsDimension)),
		}
		data = append(data, row)
	}

	// 4. Render the table
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	// Compute summary stats
	totalLOC := 0
	collaborative := 0
	for _, p := range projects {
		totalLOC += p.TotalLOC
		if p.CollaborationStatus == schema.CollaborativeStatus {
			collaborative++
		}
	}
	if _, err := fmt.Fprintf(writer, "Showing %d projects (total LOC: %d, collaborative: %d)\n", len(projects), totalLOC, collaborative); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Analysis completed in %v with %d workers. Store backend: %s\n", duration, cfg.Workers, cfg.Backend); err != nil {
		return err
	}
	return nil
}

// writeCSVResultsForProjects writes ranked projects in CSV format.
func writeCSVResultsForProjects(w *csv.Writer, projects []*schema.Project, fmtFloat func(float64) string, intFmt string) error {
	// CSV header
	header := []string{
		"rank",
		"name",
		"score",
		"languages",
		"skills",
		"frameworks",
		"total_loc",
		"comment_ratio",
		"test_file_ratio",
		"authors",
		"collaboration",
		"testing",
		"documentation",
		"modularity",
		"language_depth",
		"last_modified",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for i, p := range projects {
		rec := []string{
			strconv.Itoa(i + 1), // Rank
			p.Name,
			fmtFloat(p.ResumeScore),
			strings.Join(p.Languages, "|"),
			strings.Join(p.SkillsUsed, "|"),
			strings.Join(p.Frameworks, "|"),
			fmt.Sprintf(intFmt, p.TotalLOC),
			fmtFloat(p.CommentRatio),
			fmtFloat(p.TestFileRatio),
			fmt.Sprintf(intFmt, p.AuthorCount),
			string(p.CollaborationStatus),
			string(dimensionLevel(p, schema.TestingDisciplineDimension)),
			string(dimensionLevel(p, schema.DocumentationHabitsDimension)),
			string(dimensionLevel(p, schema.ModularityDimension)),
			string(dimensionLevel(p, schema.LanguageDepthDimension)),
			formatOptionalTime(p.LastModified),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

// writeJSONResultsForProjects writes ranked projects in JSON format.
func writeJSONResultsForProjects(w io.Writer, projects []*schema.Project) error {
	// 1. Prepare the data structure for JSON with rank added
	type JSONProjectResult struct {
		Rank int `json:"rank"`
		*schema.Project
	}

	output := make([]JSONProjectResult, len(projects))
	for i, p := range projects {
		output[i] = JSONProjectResult{
			Rank:    i + 1,
			Project: p,
		}
	}

	// 2. Use the generic JSON writer
	return writeJSON(w, output)
}

// formatOptionalTime renders a timestamp, or empty when it was never set.
func formatOptionalTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(contract.DateTimeFormat)
}
