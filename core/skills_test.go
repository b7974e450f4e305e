package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillsift/skillsift/schema"
)

func ev(skill string, source schema.EvidenceSource, weight float64) schema.Evidence {
	return schema.Evidence{Skill: skill, Source: source, Raw: skill, Path: "x", Weight: weight}
}

func TestAggregateFold(t *testing.T) {
	agg := NewSkillAggregator(loadTables(t))

	items := agg.Aggregate([]schema.Evidence{
		ev("Python", schema.FileExtensionSource, 0.60),
		ev("Python", schema.DependencySource, 0.80),
	})
	require.Len(t, items, 1)
	// 0.6 + (1-0.6)*0.8*0.8
	assert.InDelta(t, 0.856, items[0].Confidence, 0.0001)
	assert.Len(t, items[0].Evidence, 2)
}

func TestAggregateCapsAtMax(t *testing.T) {
	agg := NewSkillAggregator(loadTables(t))

	evidence := make([]schema.Evidence, 0, 50)
	for range 50 {
		evidence = append(evidence, ev("Python", schema.FileExtensionSource, 0.9))
	}
	items := agg.Aggregate(evidence)
	require.Len(t, items, 1)
	assert.LessOrEqual(t, items[0].Confidence, schema.MaxConfidence)
}

// Adding evidence for a skill never lowers its confidence.
func TestAggregateMonotonic(t *testing.T) {
	agg := NewSkillAggregator(loadTables(t))

	base := []schema.Evidence{ev("Go", schema.BuildToolSource, 0.60)}
	before := agg.Aggregate(base)[0].Confidence

	extended := append(base, ev("Go", schema.SnippetPatternSource, 0.05))
	after := agg.Aggregate(extended)[0].Confidence
	assert.GreaterOrEqual(t, after, before)
}

func TestAggregateDropsUnknownSkills(t *testing.T) {
	agg := NewSkillAggregator(loadTables(t))
	items := agg.Aggregate([]schema.Evidence{ev("NotARealSkill", schema.HeuristicSource, 0.9)})
	assert.Empty(t, items)
}

func TestAggregatePairBonus(t *testing.T) {
	agg := NewSkillAggregator(loadTables(t))

	solo := agg.Aggregate([]schema.Evidence{ev("Python", schema.FileExtensionSource, 0.60)})
	paired := agg.Aggregate([]schema.Evidence{
		ev("Python", schema.FileExtensionSource, 0.60),
		ev("Django", schema.DependencySource, 0.80),
	})

	var pythonSolo, pythonPaired float64
	pythonSolo = solo[0].Confidence
	for _, item := range paired {
		if item.Skill == "Python" {
			pythonPaired = item.Confidence
		}
	}
	assert.InDelta(t, pythonSolo+pairBonus, pythonPaired, 0.0001)
}

func TestAggregateOrdering(t *testing.T) {
	agg := NewSkillAggregator(loadTables(t))

	items := agg.Aggregate([]schema.Evidence{
		ev("Rust", schema.BuildToolSource, 0.60),
		ev("Go", schema.BuildToolSource, 0.60),
		ev("Python", schema.DependencySource, 0.80),
	})
	require.Len(t, items, 3)
	assert.Equal(t, "Python", items[0].Skill)
	// Equal confidence: alphabetical.
	assert.Equal(t, "Go", items[1].Skill)
	assert.Equal(t, "Rust", items[2].Skill)
}

func TestLanguageUsageEvidence(t *testing.T) {
	analyses := []schema.CodeFileAnalysis{
		{Language: "Python", TotalLines: 1000},
		{Language: "TypeScript", TotalLines: 500},
		{Language: "Unknown", TotalLines: 50},
	}
	evidence := LanguageUsageEvidence(analyses)
	require.Len(t, evidence, 2)

	byskill := make(map[string]schema.Evidence)
	for _, e := range evidence {
		byskill[e.Skill] = e
	}
	assert.InDelta(t, 0.8, byskill["Python"].Weight, 0.0001)     // 0.4 + 0.4*1.0
	assert.InDelta(t, 0.6, byskill["TypeScript"].Weight, 0.0001) // 0.4 + 0.4*0.5
	assert.Equal(t, schema.LanguageUsageSource, byskill["Python"].Source)
	assert.Equal(t, "*", byskill["Python"].Path)
}

func TestLanguageUsageEvidenceEmpty(t *testing.T) {
	assert.Empty(t, LanguageUsageEvidence(nil))
}
