package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillsift/skillsift/schema"
)

func profile(items ...schema.SkillProfileItem) []schema.SkillProfileItem {
	return items
}

func TestEstimateDockerSophistication(t *testing.T) {
	stats := &CodeStats{
		Docker: DockerStats{Dockerfiles: 1, ComposeFiles: 1, Multistage: 1, Healthchecks: 1},
	}
	items := profile(schema.SkillProfileItem{Skill: "Docker"})
	NewProficiencyEstimator(stats).Estimate(items)

	// 0.35 base + 0.25 multistage + 0.15 healthcheck + 0.15 compose.
	assert.InDelta(t, 0.90, items[0].Proficiency, 0.0001)
}

func TestEstimateDockerAbsent(t *testing.T) {
	items := profile(schema.SkillProfileItem{Skill: "Docker"})
	NewProficiencyEstimator(&CodeStats{}).Estimate(items)
	assert.Zero(t, items[0].Proficiency)
}

func TestEstimateDockerBuildEvidenceBonus(t *testing.T) {
	stats := &CodeStats{Docker: DockerStats{Dockerfiles: 1}}
	items := profile(schema.SkillProfileItem{
		Skill:    "Docker",
		Evidence: []schema.Evidence{ev("Docker", schema.BuildToolSource, 0.80)},
	})
	NewProficiencyEstimator(stats).Estimate(items)
	assert.InDelta(t, 0.40, items[0].Proficiency, 0.0001)
}

func TestEstimateFrameworkStepMap(t *testing.T) {
	tests := []struct {
		name     string
		evidence []schema.Evidence
		want     float64
	}{
		{"no hits", nil, 0.0},
		{"one hit", []schema.Evidence{ev("React", schema.DependencySource, 0.8)}, 0.45},
		{"two hits", []schema.Evidence{
			ev("React", schema.DependencySource, 0.8),
			ev("React", schema.ImportStatementSource, 0.7),
		}, 0.62},
		{"three hits", []schema.Evidence{
			ev("React", schema.DependencySource, 0.8),
			ev("React", schema.ImportStatementSource, 0.7),
			ev("React", schema.FrameworkConventionSource, 0.8),
		}, 0.75},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := profile(schema.SkillProfileItem{Skill: "React", Evidence: tt.evidence})
			NewProficiencyEstimator(&CodeStats{}).Estimate(items)
			assert.Equal(t, tt.want, items[0].Proficiency)
		})
	}
}

func TestEstimateTestTools(t *testing.T) {
	manyTests := &CodeStats{Python: PythonStats{TestFiles: 3}}
	items := profile(schema.SkillProfileItem{Skill: "PyTest"})
	NewProficiencyEstimator(manyTests).Estimate(items)
	assert.Equal(t, 0.72, items[0].Proficiency)

	oneTest := &CodeStats{Python: PythonStats{TestFiles: 1}}
	items = profile(schema.SkillProfileItem{Skill: "JUnit"})
	NewProficiencyEstimator(oneTest).Estimate(items)
	assert.Equal(t, 0.55, items[0].Proficiency)

	items = profile(schema.SkillProfileItem{
		Skill:    "Jest",
		Evidence: []schema.Evidence{ev("Jest", schema.TestFrameworkSource, 0.7)},
	})
	NewProficiencyEstimator(&CodeStats{}).Estimate(items)
	assert.Equal(t, 0.40, items[0].Proficiency)

	items = profile(schema.SkillProfileItem{Skill: "Cypress"})
	NewProficiencyEstimator(&CodeStats{}).Estimate(items)
	assert.Equal(t, 0.20, items[0].Proficiency)
}

func TestEstimateDBCloudStepMap(t *testing.T) {
	items := profile(schema.SkillProfileItem{
		Skill: "PostgreSQL",
		Evidence: []schema.Evidence{
			ev("PostgreSQL", schema.DependencySource, 0.8),
			ev("PostgreSQL", schema.BuildToolSource, 0.6),
		},
	})
	NewProficiencyEstimator(&CodeStats{}).Estimate(items)
	assert.Equal(t, 0.50, items[0].Proficiency)
}

func TestEstimateDefaultBySourceDiversity(t *testing.T) {
	items := profile(schema.SkillProfileItem{
		Skill: "GraphQL",
		Evidence: []schema.Evidence{
			ev("GraphQL", schema.DependencySource, 0.8),
			ev("GraphQL", schema.DependencySource, 0.8),
			ev("GraphQL", schema.ImportStatementSource, 0.7),
		},
	})
	NewProficiencyEstimator(&CodeStats{}).Estimate(items)
	// Two distinct sources.
	assert.Equal(t, 0.45, items[0].Proficiency)
}

func TestEstimatePythonWellTypedAndTested(t *testing.T) {
	stats := &CodeStats{
		Python: PythonStats{
			Files: 4, Lines: 400, Defs: 10, AsyncDefs: 2, Classes: 4,
			WithBlocks: 4, DocQuotes: 12, TypeArrows: 8, TypedParams: 7,
			TestFiles: 2,
		},
	}
	items := profile(
		schema.SkillProfileItem{Skill: "Python"},
		schema.SkillProfileItem{Skill: "PyTest"},
	)
	NewProficiencyEstimator(stats).Estimate(items)

	python := items[0]
	require.Equal(t, "Python", python.Skill)
	// usage: sigma(10/4) = 1/(1+e^(-3*2.0)) ~= 0.9975
	// typing: (8+7)/15 = 1.0; doc: 12/12 = 1.0; test: 2/4 = 0.5
	want := 0.40*0.99752 + 0.25 + 0.20 + 0.15*0.5 + 0.05
	assert.InDelta(t, want, python.Proficiency, 0.001)
	assert.LessOrEqual(t, python.Proficiency, schema.MaxConfidence)
}

func TestEstimateBoundsAlwaysHold(t *testing.T) {
	stats := &CodeStats{Python: PythonStats{Files: 1, Lines: 10, Defs: 1}}
	items := profile(
		schema.SkillProfileItem{Skill: "Python"},
		schema.SkillProfileItem{Skill: "Docker"},
		schema.SkillProfileItem{Skill: "React"},
	)
	NewProficiencyEstimator(stats).Estimate(items)
	for _, item := range items {
		assert.GreaterOrEqual(t, item.Proficiency, 0.0)
		assert.LessOrEqual(t, item.Proficiency, schema.MaxConfidence)
	}
}
