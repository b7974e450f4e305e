package schema

import "errors"

// Sentinel errors shared across the pipeline. Callers wrap these with
// fmt.Errorf("...: %w", err) and match with errors.Is.
var (
	// ErrConfigInvalid means a rule table is missing or malformed. Fatal at startup.
	ErrConfigInvalid = errors.New("rule configuration invalid")

	// ErrProjectInaccessible means the project root is missing or unreadable.
	ErrProjectInaccessible = errors.New("project root inaccessible")

	// ErrFileUnreadable means a single file could not be read or decoded.
	ErrFileUnreadable = errors.New("file unreadable")

	// ErrRepoUnavailable means there is no commit history to walk.
	ErrRepoUnavailable = errors.New("repository history unavailable")

	// ErrAnalysisPartial means part of an analysis failed and was skipped.
	ErrAnalysisPartial = errors.New("analysis partially completed")

	// ErrPersistenceFailure means the project record could not be written.
	ErrPersistenceFailure = errors.New("project persistence failed")
)
