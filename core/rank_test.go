package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillsift/skillsift/schema"
)

func rankerAt(now time.Time) *ProjectRanker {
	return &ProjectRanker{now: func() time.Time { return now }}
}

func TestRankDimensions(t *testing.T) {
	project := schema.NewProject("id", "demo", "/tmp/demo")
	project.TestFileRatio = 0.4
	project.CommentRatio = 0.15
	project.AvgFunctionsPerFile = 4
	project.MaxFunctionLength = 40
	project.LanguageLOC = map[string]int{"Python": 800, "TypeScript": 600}

	NewProjectRanker().Rank(project)

	testDim := project.Dimensions[schema.TestingDisciplineDimension]
	assert.Equal(t, 1.0, testDim.Score)
	assert.Equal(t, schema.StrongLevel, testDim.Level)

	docs := project.Dimensions[schema.DocumentationHabitsDimension]
	assert.InDelta(t, 0.75, docs.Score, 0.0001)
	assert.Equal(t, schema.StrongLevel, docs.Level)

	modularity := project.Dimensions[schema.ModularityDimension]
	assert.Equal(t, 1.0, modularity.Score)

	depth := project.Dimensions[schema.LanguageDepthDimension]
	assert.Equal(t, 1.0, depth.Score)
	assert.Equal(t, schema.StrongLevel, depth.Level)
}

func TestRankModularityPartialCredit(t *testing.T) {
	project := schema.NewProject("id", "demo", "/tmp/demo")
	project.AvgFunctionsPerFile = 1
	project.MaxFunctionLength = 80

	NewProjectRanker().Rank(project)
	assert.Equal(t, 0.25, project.Dimensions[schema.ModularityDimension].Score)
}

func TestRankZeroInputsZeroScore(t *testing.T) {
	project := schema.NewProject("id", "empty", "/tmp/empty")
	NewProjectRanker().Rank(project)
	assert.Zero(t, project.ResumeScore)
	for _, dim := range project.Dimensions {
		assert.Equal(t, schema.NeedsImprovementLevel, dim.Level)
	}
}

func TestResumeScoreComposition(t *testing.T) {
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	project := schema.NewProject("id", "demo", "/tmp/demo")
	project.TotalLOC = 10000
	project.TestFileRatio = 0.2 // dimension 0.5, plus the healthy-band bonus
	project.CommentRatio = 0.15 // dimension 0.75, plus the healthy-band bonus
	project.AvgFunctionsPerFile = 4
	project.MaxFunctionLength = 40
	project.LanguageLOC = map[string]int{"Python": 10000}
	project.CollaborationStatus = schema.CollaborativeStatus
	project.LastModified = now.AddDate(0, 0, -100)

	rankerAt(now).Rank(project)

	// Dimensions: 10*(0.5 + 0.75 + 1.0 + 1.0) = 32.5
	// LOC: 5*log10(10000) = 20. Collaboration: 10.
	// Recency: 10 - 100/109.5 = 9.0868. Band bonuses: 5 + 5.
	assert.InDelta(t, 81.59, project.ResumeScore, 0.01)
}

func TestRankerBounds(t *testing.T) {
	project := schema.NewProject("id", "demo", "/tmp/demo")
	project.LastModified = time.Now().AddDate(-20, 0, 0) // recency fully decayed
	NewProjectRanker().Rank(project)
	assert.GreaterOrEqual(t, project.ResumeScore, 0.0)
}

func TestRankProjects(t *testing.T) {
	a := schema.NewProject("1", "alpha", "/a")
	a.ResumeScore = 50
	b := schema.NewProject("2", "beta", "/b")
	b.ResumeScore = 70
	c := schema.NewProject("3", "gamma", "/c")
	c.ResumeScore = 50

	projects := []*schema.Project{a, b, c}
	RankProjects(projects)

	require.Len(t, projects, 3)
	assert.Equal(t, "beta", projects[0].Name)
	assert.Equal(t, "alpha", projects[1].Name)
	assert.Equal(t, "gamma", projects[2].Name)
}

func TestLevelForScore(t *testing.T) {
	assert.Equal(t, schema.StrongLevel, schema.LevelForScore(0.75))
	assert.Equal(t, schema.GoodLevel, schema.LevelForScore(0.6))
	assert.Equal(t, schema.OkLevel, schema.LevelForScore(0.3))
	assert.Equal(t, schema.NeedsImprovementLevel, schema.LevelForScore(0.1))
}
