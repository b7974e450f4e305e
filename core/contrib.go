package core

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/skillsift/skillsift/internal/contract"
	"github.com/skillsift/skillsift/schema"
)

// ContributionAnalyzer aggregates per-author commit stats via an injected
// history walker.
type ContributionAnalyzer struct {
	walker contract.CommitWalker
}

// NewContributionAnalyzer returns an analyzer over the given walker.
func NewContributionAnalyzer(walker contract.CommitWalker) *ContributionAnalyzer {
	return &ContributionAnalyzer{walker: walker}
}

// ContributionResult carries per-author and whole-project stats.
type ContributionResult struct {
	ByAuthor map[string]*schema.ContributionStats
	Total    *schema.ContributionStats
	Authors  []string // sorted by descending commits, ties by name
	Partial  bool     // some commits were skipped as unreadable
}

// Analyze walks the project's commit history. Returns ErrRepoUnavailable
// when there is no history at all; unreadable individual commits are
// skipped and flagged as a partial result.
func (a *ContributionAnalyzer) Analyze(ctx context.Context, repoPath string) (*ContributionResult, error) {
	result := &ContributionResult{
		ByAuthor: make(map[string]*schema.ContributionStats),
		Total:    schema.NewContributionStats(),
	}

	err := a.walker.Walk(ctx, repoPath, func(commit schema.Commit) error {
		author := strings.TrimSpace(commit.Author)
		if author == "" {
			author = "unknown"
		}
		stats, ok := result.ByAuthor[author]
		if !ok {
			stats = schema.NewContributionStats()
			result.ByAuthor[author] = stats
		}
		stats.TotalCommits++
		result.Total.TotalCommits++
		for _, file := range commit.Files {
			applyFileChange(stats, file)
			applyFileChange(result.Total, file)
		}
		return nil
	})
	switch {
	case errors.Is(err, schema.ErrRepoUnavailable):
		return nil, err
	case errors.Is(err, schema.ErrAnalysisPartial):
		result.Partial = true
	case err != nil:
		return nil, err
	}

	if result.Total.TotalCommits == 0 {
		return nil, schema.ErrRepoUnavailable
	}

	result.Authors = rankAuthors(result.ByAuthor)
	return result, nil
}

func applyFileChange(stats *schema.ContributionStats, file schema.CommitFile) {
	stats.LinesAdded += file.Insertions
	stats.LinesDeleted += file.Deletions
	stats.FilesTouched[file.Path] = true
	stats.ByKind[contributionKind(file.Path)] += file.Insertions + file.Deletions
}

// contributionKind buckets a changed path by its directory components.
func contributionKind(path string) schema.ContributionKind {
	for _, part := range strings.Split(strings.ToLower(path), "/") {
		switch part {
		case "test", "tests", "__tests__":
			return schema.TestContribution
		case "doc", "docs":
			return schema.DocsContribution
		}
	}
	return schema.CodeContribution
}

func rankAuthors(byAuthor map[string]*schema.ContributionStats) []string {
	authors := make([]string, 0, len(byAuthor))
	for author := range byAuthor {
		authors = append(authors, author)
	}
	sort.Slice(authors, func(i, j int) bool {
		ci, cj := byAuthor[authors[i]].TotalCommits, byAuthor[authors[j]].TotalCommits
		if ci != cj {
			return ci > cj
		}
		return authors[i] < authors[j]
	})
	return authors
}
