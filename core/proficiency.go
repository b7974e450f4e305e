package core

import (
	"math"

	"github.com/skillsift/skillsift/schema"
)

var (
	frameworkSkills = map[string]struct{}{
		"Django": {}, "Flask": {}, "FastAPI": {}, "React": {}, "Next.js": {},
		"Angular": {}, "Vue": {}, "Svelte": {}, "Spring": {}, ".NET": {},
		"ASP.NET": {}, "Express": {}, "Unity": {}, "Unreal Engine": {},
	}
	testToolSkills = map[string]struct{}{
		"PyTest": {}, "JUnit": {}, "Jest": {}, "Vitest": {},
		"Cypress": {}, "Playwright": {},
	}
	dbCloudSkills = map[string]struct{}{
		"PostgreSQL": {}, "MySQL": {}, "SQLite": {}, "MongoDB": {}, "Redis": {},
		"AWS": {}, "GCP": {}, "Azure": {}, "Firebase": {},
	}
)

// ProficiencyEstimator scores each skill in [0, 0.98] from code stats and
// the diversity of its evidence.
type ProficiencyEstimator struct {
	stats *CodeStats
}

// NewProficiencyEstimator returns an estimator over the collected stats.
func NewProficiencyEstimator(stats *CodeStats) *ProficiencyEstimator {
	return &ProficiencyEstimator{stats: stats}
}

// Estimate fills the Proficiency field of every profile item in place.
func (e *ProficiencyEstimator) Estimate(items []schema.SkillProfileItem) {
	for i := range items {
		score := e.scoreSkill(&items[i], items)
		items[i].Proficiency = min(max(score, 0), schema.MaxConfidence)
	}
}

func (e *ProficiencyEstimator) scoreSkill(item *schema.SkillProfileItem, all []schema.SkillProfileItem) float64 {
	switch {
	case item.Skill == "Python":
		return e.pythonScore(all)
	case item.Skill == "Docker":
		return e.dockerScore(all)
	case inSet(frameworkSkills, item.Skill):
		hits := countSources(item.Evidence,
			schema.ImportStatementSource, schema.FrameworkConventionSource, schema.DependencySource)
		return stepMap(hits, 0.45, 0.62, 0.75)
	case inSet(testToolSkills, item.Skill):
		return e.testToolScore(item)
	case inSet(dbCloudSkills, item.Skill):
		hits := countSources(item.Evidence,
			schema.DependencySource, schema.BuildToolSource, schema.FrameworkConventionSource)
		return stepMap(hits, 0.35, 0.50, 0.65)
	default:
		return stepMap(distinctSources(item.Evidence), 0.30, 0.45, 0.60)
	}
}

// pythonScore blends idiom depth, typing habits, docstring habits, and
// test coverage across the project's Python sources.
func (e *ProficiencyEstimator) pythonScore(all []schema.SkillProfileItem) float64 {
	py := e.stats.Python
	kloc := float64(py.Lines) / 1000.0

	usage := sigmoid(float64(py.AsyncDefs+py.Classes+py.WithBlocks) / math.Max(1, kloc*10))
	typing := clip01(float64(py.TypeArrows+py.TypedParams) / math.Max(1, float64(py.Defs)*1.5))
	doc := clip01(float64(py.DocQuotes) / math.Max(1, float64(py.Defs)*1.2))
	test := clip01(float64(py.TestFiles) / math.Max(1, float64(py.Files)))

	score := 0.40*usage + 0.25*typing + 0.20*doc + 0.15*test
	if hasSkill(all, "PyTest") {
		score += 0.05
	}
	return score
}

func (e *ProficiencyEstimator) dockerScore(all []schema.SkillProfileItem) float64 {
	dk := e.stats.Docker
	if dk.Dockerfiles == 0 && dk.ComposeFiles == 0 {
		return 0
	}
	score := 0.35
	if dk.Multistage > 0 {
		score += 0.25
	}
	if dk.Healthchecks > 0 {
		score += 0.15
	}
	if dk.ComposeFiles > 0 {
		score += 0.15
	}
	for _, item := range all {
		if item.Skill != "Docker" && item.Skill != "CI/CD" {
			continue
		}
		if countSources(item.Evidence, schema.BuildToolSource, schema.TestFrameworkSource, schema.LinterConfigSource) > 0 {
			score += 0.05
			break
		}
	}
	return clip01(score)
}

func (e *ProficiencyEstimator) testToolScore(item *schema.SkillProfileItem) float64 {
	switch {
	case e.stats.Python.TestFiles >= 3:
		return 0.72
	case e.stats.Python.TestFiles >= 1:
		return 0.55
	case countSources(item.Evidence, schema.DependencySource, schema.TestFrameworkSource) > 0:
		return 0.40
	default:
		return 0.20
	}
}

func countSources(evidence []schema.Evidence, sources ...schema.EvidenceSource) int {
	n := 0
	for _, ev := range evidence {
		for _, src := range sources {
			if ev.Source == src {
				n++
				break
			}
		}
	}
	return n
}

func distinctSources(evidence []schema.Evidence) int {
	seen := make(map[schema.EvidenceSource]struct{})
	for _, ev := range evidence {
		seen[ev.Source] = struct{}{}
	}
	return len(seen)
}

func stepMap(hits int, one, two, threePlus float64) float64 {
	switch {
	case hits >= 3:
		return threePlus
	case hits == 2:
		return two
	case hits == 1:
		return one
	default:
		return 0
	}
}

func hasSkill(items []schema.SkillProfileItem, skill string) bool {
	for _, item := range items {
		if item.Skill == skill {
			return true
		}
	}
	return false
}

func inSet(set map[string]struct{}, key string) bool {
	_, ok := set[key]
	return ok
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-3*(x-0.5)))
}

func clip01(v float64) float64 {
	return min(max(v, 0), 1)
}
