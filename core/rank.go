package core

import (
	"math"
	"sort"
	"time"

	"github.com/skillsift/skillsift/schema"
)

// ProjectRanker derives code-quality dimensions and the composite resume
// score from a populated project record.
type ProjectRanker struct {
	now func() time.Time
}

// NewProjectRanker returns a ranker using wall-clock time for recency.
func NewProjectRanker() *ProjectRanker {
	return &ProjectRanker{now: time.Now}
}

// Rank computes the four dimensions and the resume score, writing both
// back into the project.
func (r *ProjectRanker) Rank(project *schema.Project) {
	dims := map[string]schema.Dimension{
		schema.TestingDisciplineDimension:   dimension(clip01(project.TestFileRatio / 0.4)),
		schema.DocumentationHabitsDimension: dimension(clip01(project.CommentRatio / 0.2)),
		schema.ModularityDimension:          dimension(modularityScore(project)),
		schema.LanguageDepthDimension:       dimension(languageDepthScore(project)),
	}
	project.Dimensions = dims
	project.ResumeScore = r.resumeScore(project, dims)
}

func dimension(score float64) schema.Dimension {
	return schema.Dimension{Score: score, Level: schema.LevelForScore(score)}
}

func modularityScore(project *schema.Project) float64 {
	score := 0.0
	if project.AvgFunctionsPerFile >= 3 {
		score += 0.5
	}
	switch {
	case project.MaxFunctionLength <= 50:
		score += 0.5
	case project.MaxFunctionLength <= 100:
		score += 0.25
	}
	return clip01(score)
}

// languageDepthScore rewards projects with substantial code in more than
// one language: base 0.5 plus the fraction of languages carrying at least
// 500 LOC.
func languageDepthScore(project *schema.Project) float64 {
	if len(project.LanguageLOC) == 0 {
		return 0
	}
	deep := 0
	for _, loc := range project.LanguageLOC {
		if loc >= 500 {
			deep++
		}
	}
	return clip01(0.5 + 0.5*float64(deep)/float64(len(project.LanguageLOC)))
}

func (r *ProjectRanker) resumeScore(project *schema.Project, dims map[string]schema.Dimension) float64 {
	score := 0.0
	for _, dim := range dims {
		score += 10 * dim.Score
	}
	if project.TotalLOC > 100 {
		score += 5 * math.Log10(float64(project.TotalLOC))
	}
	if project.CollaborationStatus == schema.CollaborativeStatus {
		score += 10
	}
	if !project.LastModified.IsZero() {
		days := r.now().Sub(project.LastModified).Hours() / 24
		score += math.Max(0, 10-days/109.5)
	}
	if project.TestFileRatio >= 0.15 && project.TestFileRatio <= 0.30 {
		score += 5
	}
	if project.CommentRatio >= 0.10 && project.CommentRatio <= 0.20 {
		score += 5
	}
	return score
}

// RankProjects orders projects by descending resume score, ties broken by
// name.
func RankProjects(projects []*schema.Project) {
	sort.Slice(projects, func(i, j int) bool {
		if projects[i].ResumeScore != projects[j].ResumeScore {
			return projects[i].ResumeScore > projects[j].ResumeScore
		}
		return projects[i].Name < projects[j].Name
	})
}
