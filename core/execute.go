package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/skillsift/skillsift/internal/contract"
	"github.com/skillsift/skillsift/internal/gitlog"
	"github.com/skillsift/skillsift/internal/outwriter"
	"github.com/skillsift/skillsift/internal/projstore"
	"github.com/skillsift/skillsift/internal/ruleset"
	"github.com/skillsift/skillsift/schema"
)

// writer renders command output. Declared as the contract interface so
// tests can swap in a capture.
var writer contract.ResultWriter = outwriter.NewOutWriter()

// ExecuteAnalyze runs the analysis pipeline over the configured project
// roots and prints ranked results. It serves as the entry point for the
// 'analyze' command.
func ExecuteAnalyze(ctx context.Context, cfg *contract.Config) error {
	start := time.Now()

	tables, err := ruleset.Load(cfg.RulesDir)
	if err != nil {
		return fmt.Errorf("loading rule tables: %w", err)
	}
	store, err := projstore.NewStore(cfg.Backend, cfg.DBConnect)
	if err != nil {
		return fmt.Errorf("opening project store: %w", err)
	}
	defer func() { _ = store.Close() }()

	var walker contract.CommitWalker
	if !cfg.SkipGit {
		walker = gitlog.New()
	}

	pipeline := NewPipeline(tables, store, walker)
	results := pipeline.AnalyzeAll(ctx, cfg.RootPaths, cfg.Workers)

	var projects []*schema.Project
	var failed int
	for _, r := range results {
		if r.Err != nil {
			failed++
			contract.LogWarn("analysis of %s failed: %v", r.Root, r.Err)
			continue
		}
		projects = append(projects, r.Project)
	}
	if len(projects) == 0 {
		return fmt.Errorf("no project could be analyzed (%d failed)", failed)
	}

	RankProjects(projects)
	return writer.WriteProjects(projects, cfg, time.Since(start))
}

// ExecuteProjectsList prints previously analyzed projects from the store.
func ExecuteProjectsList(cfg *contract.Config) error {
	start := time.Now()

	store, err := projstore.NewStore(cfg.Backend, cfg.DBConnect)
	if err != nil {
		return fmt.Errorf("opening project store: %w", err)
	}
	defer func() { _ = store.Close() }()

	projects, err := store.LoadAll()
	if err != nil {
		return fmt.Errorf("loading stored projects: %w", err)
	}
	if len(projects) == 0 {
		return errors.New("no stored projects found; run analyze first")
	}

	RankProjects(projects)
	return writer.WriteProjects(projects, cfg, time.Since(start))
}

// ExecuteProjectsShow prints the full stored record for one project.
func ExecuteProjectsShow(cfg *contract.Config, name string) error {
	store, err := projstore.NewStore(cfg.Backend, cfg.DBConnect)
	if err != nil {
		return fmt.Errorf("opening project store: %w", err)
	}
	defer func() { _ = store.Close() }()

	project, err := store.LoadByName(name)
	if err != nil {
		return fmt.Errorf("loading project %q: %w", name, err)
	}
	if project == nil {
		return fmt.Errorf("no stored project named %q", name)
	}
	return writer.WriteProjectDetail(project, cfg)
}

// ExecuteExport dumps all stored projects in the configured output format.
func ExecuteExport(cfg *contract.Config) error {
	start := time.Now()

	store, err := projstore.NewStore(cfg.Backend, cfg.DBConnect)
	if err != nil {
		return fmt.Errorf("opening project store: %w", err)
	}
	defer func() { _ = store.Close() }()

	// Check if there's any data to export
	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get store status: %w", err)
	}
	if status.TotalProjects == 0 {
		return errors.New("no project data found to export")
	}

	projects, err := store.LoadAll()
	if err != nil {
		return fmt.Errorf("failed to retrieve projects: %w", err)
	}

	RankProjects(projects)

	// Exports are complete dumps; the display limit does not apply.
	exportCfg := cfg.Clone()
	exportCfg.ResultLimit = len(projects)
	return writer.WriteProjects(projects, exportCfg, time.Since(start))
}

// ExecuteStoreStatus prints statistics about the project store.
func ExecuteStoreStatus(cfg *contract.Config) error {
	store, err := projstore.NewStore(cfg.Backend, cfg.DBConnect)
	if err != nil {
		return fmt.Errorf("opening project store: %w", err)
	}
	defer func() { _ = store.Close() }()

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get store status: %w", err)
	}

	fmt.Printf("Backend:   %s\n", status.Backend)
	fmt.Printf("Connected: %t\n", status.Connected)
	fmt.Printf("Projects:  %d\n", status.TotalProjects)
	if !status.LastSavedAt.IsZero() {
		fmt.Printf("Last save: %s\n", status.LastSavedAt.Format(contract.DateTimeFormat))
	}
	if status.TableSize > 0 {
		fmt.Printf("Size:      %d bytes\n", status.TableSize)
	}
	return nil
}
