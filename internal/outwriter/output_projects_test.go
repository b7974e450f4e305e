package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillsift/skillsift/internal/contract"
	"github.com/skillsift/skillsift/schema"
)

func sampleProject(name string, score float64) *schema.Project {
	p := schema.NewProject("id-"+name, name, "/tmp/"+name)
	p.Languages = []string{"Python", "TypeScript"}
	p.LanguageShare = map[string]float64{"Python": 70, "TypeScript": 30}
	p.SkillsUsed = []string{"Python", "Django"}
	p.Frameworks = []string{"Django"}
	p.TotalLOC = 1200
	p.CommentRatio = 0.15
	p.TestFileRatio = 0.25
	p.AuthorCount = 2
	p.CollaborationStatus = schema.CollaborativeStatus
	p.Dimensions = map[string]schema.Dimension{
		schema.TestingDisciplineDimension:   {Score: 0.8, Level: schema.StrongLevel},
		schema.DocumentationHabitsDimension: {Score: 0.6, Level: schema.GoodLevel},
		schema.ModularityDimension:          {Score: 0.5, Level: schema.GoodLevel},
		schema.LanguageDepthDimension:       {Score: 1.0, Level: schema.StrongLevel},
	}
	p.ResumeScore = score
	p.LastModified = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	return p
}

func textConfig() *contract.Config {
	return &contract.Config{
		Output:      schema.TextOut,
		ResultLimit: 25,
		Workers:     2,
		Backend:     schema.NoneBackend,
		Width:       120,
	}
}

func TestWriteJSONResultsForProjects(t *testing.T) {
	projects := []*schema.Project{sampleProject("alpha", 72.5)}

	var buf bytes.Buffer
	err := writeJSONResultsForProjects(&buf, projects)
	require.NoError(t, err)

	// Parse the JSON to verify structure
	var result []map[string]any
	err = json.Unmarshal(buf.Bytes(), &result)
	require.NoError(t, err)
	require.Len(t, result, 1)

	assert.Equal(t, float64(1), result[0]["rank"])
	assert.Equal(t, "alpha", result[0]["name"])
	assert.Equal(t, 72.5, result[0]["resume_score"])
	assert.Equal(t, "collaborative", result[0]["collaboration_status"])
}

func TestWriteCSVResultsForProjects(t *testing.T) {
	fmtFloat, intFmt := createFormatters()
	projects := []*schema.Project{sampleProject("beta", 55.75)}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	err := writeCSVResultsForProjects(w, projects, fmtFloat, intFmt)
	require.NoError(t, err)
	w.Flush()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2) // header + 1 row

	// Check header
	assert.Contains(t, lines[0], "rank")
	assert.Contains(t, lines[0], "name")
	assert.Contains(t, lines[0], "score")

	// Check data row
	assert.Contains(t, lines[1], "beta")
	assert.Contains(t, lines[1], "55.75")
	assert.Contains(t, lines[1], "Python|TypeScript")
	assert.Contains(t, lines[1], "strong")
	assert.Contains(t, lines[1], "collaborative")
}

func TestWriteProjectTable(t *testing.T) {
	fmtFloat, _ := createFormatters()
	projects := []*schema.Project{
		sampleProject("gamma", 80),
		sampleProject("delta", 40),
	}

	var buf bytes.Buffer
	err := writeProjectTable(projects, textConfig(), fmtFloat, 2*time.Second, &buf)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "gamma")
	assert.Contains(t, out, "delta")
	assert.Contains(t, out, "Strong")
	assert.Contains(t, out, "Showing 2 projects")
	assert.Contains(t, out, "collaborative: 2")
}

func TestWriteProjectResultsHonorsLimit(t *testing.T) {
	cfg := textConfig()
	cfg.ResultLimit = 1
	projects := []*schema.Project{
		sampleProject("first", 90),
		sampleProject("second", 10),
	}

	fmtFloat, _ := createFormatters()
	var buf bytes.Buffer
	err := writeProjectTable(projects[:cfg.ResultLimit], cfg, fmtFloat, time.Second, &buf)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "first")
	assert.NotContains(t, out, "second")
}

func TestWriteProjectDetailText(t *testing.T) {
	p := sampleProject("detail", 66)
	p.Summary = "A collaborative Python project."
	p.Bullets = []string{"Developed a project using Python."}
	p.SkillProfile = []schema.SkillProfileItem{
		{Skill: "Python", Confidence: 0.92, Proficiency: 0.7, Evidence: []schema.Evidence{{Skill: "Python"}}},
	}
	p.TotalContribution = &schema.ContributionStats{TotalCommits: 12, LinesAdded: 300, LinesDeleted: 80}

	var buf bytes.Buffer
	err := writeProjectDetailText(p, textConfig(), &buf)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Project: detail")
	assert.Contains(t, out, "A collaborative Python project.")
	assert.Contains(t, out, "Developed a project using Python.")
	assert.Contains(t, out, "testing_discipline")
	assert.Contains(t, out, "Python")
	assert.Contains(t, out, "12 commits by 2 author(s)")
}

// The facade satisfies contract.ResultWriter and dispatches both batch
// and detail output through the configured format.
func TestOutWriterDispatch(t *testing.T) {
	var ow contract.ResultWriter = NewOutWriter()

	cfg := textConfig()
	cfg.Output = schema.JSONOut
	cfg.OutputFile = filepath.Join(t.TempDir(), "projects.json")
	err := ow.WriteProjects([]*schema.Project{sampleProject("batch", 50)}, cfg, time.Second)
	require.NoError(t, err)

	content, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"rank": 1`)
	assert.Contains(t, string(content), `"name": "batch"`)

	cfg.OutputFile = filepath.Join(t.TempDir(), "detail.json")
	err = ow.WriteProjectDetail(sampleProject("solo", 40), cfg)
	require.NoError(t, err)

	content, err = os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"name": "solo"`)
	assert.NotContains(t, string(content), `"rank"`)
}

func TestGetMaxTableNameWidth(t *testing.T) {
	cfg := textConfig()

	cfg.Width = 200
	assert.Equal(t, 40, getMaxTableNameWidth(cfg)) // Capped at maximum

	cfg.Width = 60
	assert.Equal(t, 12, getMaxTableNameWidth(cfg)) // Floored at minimum

	cfg.Width = 100
	assert.Equal(t, 30, getMaxTableNameWidth(cfg))
}

func TestTopItems(t *testing.T) {
	assert.Equal(t, "a, b, c", topItems([]string{"a", "b", "c", "d"}, 3))
	assert.Equal(t, "a", topItems([]string{"a"}, 3))
	assert.Equal(t, "", topItems(nil, 3))
}

func TestDimensionLevelMissing(t *testing.T) {
	p := schema.NewProject("id", "bare", "/tmp/bare")
	assert.Equal(t, schema.NeedsImprovementLevel, dimensionLevel(p, schema.ModularityDimension))
}
