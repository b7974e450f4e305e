// Package gitlog walks local repository history with go-git, without
// shelling out to a git binary.
package gitlog

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/skillsift/skillsift/internal/contract"
	"github.com/skillsift/skillsift/schema"
)

// Walker iterates commits of a repository on the local filesystem.
type Walker struct{}

var _ contract.CommitWalker = &Walker{}

// New returns a history walker.
func New() *Walker {
	return &Walker{}
}

// Walk opens the repository at repoPath and invokes fn for every commit
// reachable from HEAD, newest first. Commits whose diff stats cannot be
// computed are skipped; Walk then returns schema.ErrAnalysisPartial after
// visiting the rest. A missing repository or empty history yields
// schema.ErrRepoUnavailable.
func (w *Walker) Walk(ctx context.Context, repoPath string, fn func(schema.Commit) error) error {
	repo, err := git.PlainOpen(repoPath)
	if err != nil {
		return fmt.Errorf("%w: opening %s: %v", schema.ErrRepoUnavailable, repoPath, err)
	}

	head, err := repo.Head()
	if err != nil {
		return fmt.Errorf("%w: no HEAD in %s: %v", schema.ErrRepoUnavailable, repoPath, err)
	}

	iter, err := repo.Log(&git.LogOptions{From: head.Hash()})
	if err != nil {
		return fmt.Errorf("%w: reading log of %s: %v", schema.ErrRepoUnavailable, repoPath, err)
	}
	defer iter.Close()

	skipped := 0
	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		stats, err := c.Stats()
		if err != nil {
			skipped++
			contract.LogWarn("skipping commit %s: %v", c.Hash.String()[:8], err)
			return nil
		}
		files := make([]schema.CommitFile, 0, len(stats))
		for _, fs := range stats {
			files = append(files, schema.CommitFile{
				Path:       fs.Name,
				Insertions: fs.Addition,
				Deletions:  fs.Deletion,
			})
		}
		return fn(schema.Commit{
			Author: c.Author.Name,
			When:   c.Author.When,
			Files:  files,
		})
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return fmt.Errorf("%w: walking history of %s: %v", schema.ErrRepoUnavailable, repoPath, err)
	}
	if skipped > 0 {
		return schema.ErrAnalysisPartial
	}
	return nil
}
