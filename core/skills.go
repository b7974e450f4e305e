package core

import (
	"sort"

	"github.com/skillsift/skillsift/internal/ruleset"
	"github.com/skillsift/skillsift/schema"
)

// Recognised stack pairs. When both members of a pair appear in the
// profile, each gets a small confidence bump.
var skillPairs = [][2]string{
	{"Python", "Django"},
	{"Python", "Flask"},
	{"Python", "FastAPI"},
	{"Java", "Spring"},
	{"C#", "ASP.NET"},
	{"JavaScript", "React"},
	{"TypeScript", "React"},
}

const pairBonus = 0.03

// SkillAggregator folds evidence into per-skill confidence scores.
type SkillAggregator struct {
	tables *ruleset.Tables
}

// NewSkillAggregator returns an aggregator over the loaded taxonomy.
func NewSkillAggregator(tables *ruleset.Tables) *SkillAggregator {
	return &SkillAggregator{tables: tables}
}

// LanguageUsageEvidence converts per-language LOC counts into evidence
// weighted by each language's share of the largest one.
func LanguageUsageEvidence(analyses []schema.CodeFileAnalysis) []schema.Evidence {
	locPerLang := make(map[string]int)
	for _, a := range analyses {
		if a.Language == "" || a.Language == "Unknown" {
			continue
		}
		locPerLang[a.Language] += a.TotalLines
	}
	if len(locPerLang) == 0 {
		return nil
	}

	maxLOC := 1
	for _, n := range locPerLang {
		if n > maxLOC {
			maxLOC = n
		}
	}

	langs := make([]string, 0, len(locPerLang))
	for lang := range locPerLang {
		langs = append(langs, lang)
	}
	sort.Strings(langs)

	evidence := make([]schema.Evidence, 0, len(langs))
	for _, lang := range langs {
		rel := float64(locPerLang[lang]) / float64(maxLOC)
		evidence = append(evidence, schema.Evidence{
			Skill:  lang,
			Source: schema.LanguageUsageSource,
			Raw:    lang,
			Path:   "*",
			Weight: 0.4 + 0.4*rel,
		})
	}
	return evidence
}

// Aggregate groups evidence by skill and folds each group into a
// confidence in [0, 0.98]. Evidence for skills outside the taxonomy is
// dropped. The fold gives diminishing returns: each additional piece of
// evidence closes 80% of its weight's share of the remaining gap.
func (a *SkillAggregator) Aggregate(evidence []schema.Evidence) []schema.SkillProfileItem {
	grouped := make(map[string][]schema.Evidence)
	order := make([]string, 0)
	for _, ev := range evidence {
		if !a.tables.InTaxonomy(ev.Skill) {
			continue
		}
		if _, seen := grouped[ev.Skill]; !seen {
			order = append(order, ev.Skill)
		}
		grouped[ev.Skill] = append(grouped[ev.Skill], ev)
	}

	items := make([]schema.SkillProfileItem, 0, len(order))
	for _, skill := range order {
		group := grouped[skill]
		confidence := min(group[0].Weight, schema.MaxConfidence)
		for _, ev := range group[1:] {
			confidence = min(confidence+(1-confidence)*ev.Weight*0.8, schema.MaxConfidence)
		}
		items = append(items, schema.SkillProfileItem{
			Skill:      skill,
			Confidence: confidence,
			Evidence:   group,
		})
	}

	applyPairBonuses(items)

	sort.Slice(items, func(i, j int) bool {
		if items[i].Confidence != items[j].Confidence {
			return items[i].Confidence > items[j].Confidence
		}
		return items[i].Skill < items[j].Skill
	})
	return items
}

func applyPairBonuses(items []schema.SkillProfileItem) {
	index := make(map[string]int, len(items))
	for i, item := range items {
		index[item.Skill] = i
	}
	for _, pair := range skillPairs {
		i, okA := index[pair[0]]
		j, okB := index[pair[1]]
		if !okA || !okB {
			continue
		}
		items[i].Confidence = min(items[i].Confidence+pairBonus, schema.MaxConfidence)
		items[j].Confidence = min(items[j].Confidence+pairBonus, schema.MaxConfidence)
	}
}
