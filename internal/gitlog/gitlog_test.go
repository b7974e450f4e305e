package gitlog

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillsift/skillsift/schema"
)

func commitFile(t *testing.T, wt *git.Worktree, dir, name, content, author string, when time.Time) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(filepath.Join(dir, name)), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	_, err := wt.Add(name)
	require.NoError(t, err)
	_, err = wt.Commit("update "+name, &git.CommitOptions{
		Author: &object.Signature{Name: author, Email: author + "@example.com", When: when},
	})
	require.NoError(t, err)
}

func TestWalkCollectsCommits(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	commitFile(t, wt, dir, "src/x.py", "x = 1\n", "alice", base)
	commitFile(t, wt, dir, "tests/t.py", "assert True\n", "bob", base.Add(time.Hour))

	var commits []schema.Commit
	err = New().Walk(context.Background(), dir, func(c schema.Commit) error {
		commits = append(commits, c)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, commits, 2)

	// Newest first.
	assert.Equal(t, "bob", commits[0].Author)
	assert.Equal(t, "tests/t.py", commits[0].Files[0].Path)
	assert.Equal(t, 1, commits[0].Files[0].Insertions)

	assert.Equal(t, "alice", commits[1].Author)
	assert.Equal(t, "src/x.py", commits[1].Files[0].Path)
}

func TestWalkNoRepository(t *testing.T) {
	err := New().Walk(context.Background(), t.TempDir(), func(schema.Commit) error { return nil })
	assert.ErrorIs(t, err, schema.ErrRepoUnavailable)
}

func TestWalkEmptyRepository(t *testing.T) {
	dir := t.TempDir()
	_, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	err = New().Walk(context.Background(), dir, func(schema.Commit) error { return nil })
	assert.ErrorIs(t, err, schema.ErrRepoUnavailable)
}

func TestWalkCancelled(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)
	commitFile(t, wt, dir, "a.txt", "hello\n", "alice", time.Now())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = New().Walk(ctx, dir, func(schema.Commit) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}
