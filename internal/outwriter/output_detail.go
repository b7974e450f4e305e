package outwriter

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/skillsift/skillsift/internal/contract"
	"github.com/skillsift/skillsift/schema"
)

// WriteProjectDetailResult outputs the full record for one project,
// dispatching based on the output format configured.
func WriteProjectDetailResult(project *schema.Project, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, project)
		}, "Wrote JSON")
	case schema.CSVOut, schema.ParquetOut:
		// Flat formats reuse the ranking writers with a single row.
		return WriteProjectResults([]*schema.Project{project}, cfg, 0)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeProjectDetailText(project, cfg, w)
		}, "Wrote detail")
	}
}

// writeProjectDetailText renders the human-readable project breakdown.
func writeProjectDetailText(p *schema.Project, cfg *contract.Config, w io.Writer) error {
	fmtFloat, _ := createFormatters()
	label := labelFunc(cfg)

	fmt.Fprintf(w, "Project: %s\n", p.Name)
	fmt.Fprintf(w, "Path:    %s\n", p.RootPath)
	if p.Summary != "" {
		fmt.Fprintf(w, "Summary: %s\n", p.Summary)
	}
	fmt.Fprintf(w, "Score:   %s\n", fmtFloat(p.ResumeScore))
	fmt.Fprintln(w)

	if len(p.Bullets) > 0 {
		fmt.Fprintln(w, "Highlights:")
		for _, b := range p.Bullets {
			fmt.Fprintf(w, "  - %s\n", b)
		}
		fmt.Fprintln(w)
	}

	if err := writeDimensionsTable(p, label, fmtFloat, w); err != nil {
		return err
	}
	if err := writeSkillProfileTable(p, fmtFloat, w); err != nil {
		return err
	}
	writeContributionSummary(p, w)
	return nil
}

// writeDimensionsTable renders the four quality dimensions with labels.
func writeDimensionsTable(p *schema.Project, label func(schema.DimensionLevel) string, fmtFloat func(float64) string, w io.Writer) error {
	if len(p.Dimensions) == 0 {
		return nil
	}
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Dimension", "Score", "Level"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	names := make([]string, 0, len(p.Dimensions))
	for name := range p.Dimensions {
		names = append(names, name)
	}
	sort.Strings(names)

	var data [][]string
	for _, name := range names {
		dim := p.Dimensions[name]
		data = append(data, []string{name, fmtFloat(dim.Score), label(dim.Level)})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// writeSkillProfileTable renders aggregated skills with their scores.
func writeSkillProfileTable(p *schema.Project, fmtFloat func(float64) string, w io.Writer) error {
	if len(p.SkillProfile) == 0 {
		return nil
	}
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Skill", "Confidence", "Proficiency", "Evidence"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, item := range p.SkillProfile {
		data = append(data, []string{
			item.Skill,
			fmtFloat(item.Confidence),
			fmtFloat(item.Proficiency),
			strconv.Itoa(len(item.Evidence)),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// writeContributionSummary prints the git history rollup when one exists.
func writeContributionSummary(p *schema.Project, w io.Writer) {
	if p.TotalContribution == nil {
		return
	}
	fmt.Fprintf(w, "Contributions: %d commits by %d author(s), +%d/-%d lines (%s)\n",
		p.TotalContribution.TotalCommits,
		p.AuthorCount,
		p.TotalContribution.LinesAdded,
		p.TotalContribution.LinesDeleted,
		p.CollaborationStatus)
}
