// Package contract has shared interfaces and configuration for analysis flows.
package contract

import (
	"context"
	"time"

	"github.com/skillsift/skillsift/schema"
)

// CommitWalker iterates a repository's commit history. Implementations must
// not shell out to external binaries.
type CommitWalker interface {
	// Walk invokes fn for each commit, newest first. A commit that cannot be
	// read is skipped by the implementation; Walk returns an error wrapping
	// schema.ErrRepoUnavailable when there is no history at all.
	Walk(ctx context.Context, repoPath string, fn func(schema.Commit) error) error
}

// ResultWriter renders analyzed projects in the configured output format.
type ResultWriter interface {
	// WriteProjects prints a ranked batch of projects.
	WriteProjects(projects []*schema.Project, cfg *Config, duration time.Duration) error
	// WriteProjectDetail prints the full record for a single project.
	WriteProjectDetail(project *schema.Project, cfg *Config) error
}

// ProjectStore persists Project records keyed by name.
type ProjectStore interface {
	// Save inserts or replaces the record atomically.
	Save(project *schema.Project) error
	// LoadByName returns (nil, nil) when no record exists.
	LoadByName(name string) (*schema.Project, error)
	// LoadAll returns every stored record.
	LoadAll() ([]*schema.Project, error)
	// GetStatus returns status information about the store.
	GetStatus() (schema.StoreStatus, error)
	// Close releases the underlying connection.
	Close() error
}
