package core

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillsift/skillsift/schema"
)

// fakeWalker replays a fixed commit list.
type fakeWalker struct {
	commits []schema.Commit
	err     error
}

func (w *fakeWalker) Walk(_ context.Context, _ string, fn func(schema.Commit) error) error {
	for _, c := range w.commits {
		if err := fn(c); err != nil {
			return err
		}
	}
	return w.err
}

func commitsFor(author string, n int, files ...schema.CommitFile) []schema.Commit {
	commits := make([]schema.Commit, 0, n)
	for i := 0; i < n; i++ {
		commits = append(commits, schema.Commit{
			Author: author,
			When:   time.Date(2025, 1, 1+i, 0, 0, 0, 0, time.UTC),
			Files:  files,
		})
	}
	return commits
}

func TestAnalyzeCollaborativeHistory(t *testing.T) {
	var commits []schema.Commit
	commits = append(commits, commitsFor("alice", 20, schema.CommitFile{Path: "src/x.py", Insertions: 10, Deletions: 2})...)
	commits = append(commits, commitsFor("bob", 5, schema.CommitFile{Path: "tests/t.py", Insertions: 4, Deletions: 1})...)
	commits = append(commits, commitsFor("carol", 2, schema.CommitFile{Path: "docs/r.md", Insertions: 3, Deletions: 0})...)

	result, err := NewContributionAnalyzer(&fakeWalker{commits: commits}).Analyze(context.Background(), ".")
	require.NoError(t, err)

	assert.Equal(t, []string{"alice", "bob", "carol"}, result.Authors)
	assert.Equal(t, 27, result.Total.TotalCommits)

	alice := result.ByAuthor["alice"]
	require.NotNil(t, alice)
	assert.Equal(t, 20, alice.TotalCommits)
	assert.Equal(t, 200, alice.LinesAdded)
	assert.Equal(t, 40, alice.LinesDeleted)
	assert.True(t, alice.FilesTouched["src/x.py"])
	assert.Equal(t, 240, alice.ByKind[schema.CodeContribution])
	assert.Zero(t, alice.ByKind[schema.TestContribution])

	bob := result.ByAuthor["bob"]
	assert.Equal(t, 25, bob.ByKind[schema.TestContribution])

	carol := result.ByAuthor["carol"]
	assert.Equal(t, 6, carol.ByKind[schema.DocsContribution])
}

func TestAnalyzeNoHistory(t *testing.T) {
	_, err := NewContributionAnalyzer(&fakeWalker{}).Analyze(context.Background(), ".")
	assert.ErrorIs(t, err, schema.ErrRepoUnavailable)
}

func TestAnalyzeRepoUnavailable(t *testing.T) {
	walker := &fakeWalker{err: schema.ErrRepoUnavailable}
	_, err := NewContributionAnalyzer(walker).Analyze(context.Background(), ".")
	assert.ErrorIs(t, err, schema.ErrRepoUnavailable)
}

func TestAnalyzePartialHistory(t *testing.T) {
	walker := &fakeWalker{
		commits: commitsFor("alice", 3, schema.CommitFile{Path: "a.go", Insertions: 1}),
		err:     schema.ErrAnalysisPartial,
	}
	result, err := NewContributionAnalyzer(walker).Analyze(context.Background(), ".")
	require.NoError(t, err)
	assert.True(t, result.Partial)
	assert.Equal(t, 3, result.Total.TotalCommits)
}

func TestContributionKind(t *testing.T) {
	tests := []struct {
		path string
		want schema.ContributionKind
	}{
		{"src/x.py", schema.CodeContribution},
		{"tests/t.py", schema.TestContribution},
		{"pkg/__tests__/t.js", schema.TestContribution},
		{"docs/r.md", schema.DocsContribution},
		{"doc/api.md", schema.DocsContribution},
		{"testing/helper.go", schema.CodeContribution},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, contributionKind(tt.path), tt.path)
	}
}

func TestAuthorRanking(t *testing.T) {
	byAuthor := map[string]*schema.ContributionStats{
		"zoe":   {TotalCommits: 5},
		"amy":   {TotalCommits: 5},
		"frank": {TotalCommits: 9},
	}
	assert.Equal(t, []string{"frank", "amy", "zoe"}, rankAuthors(byAuthor))
}
