package core

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/skillsift/skillsift/internal/contract"
	"github.com/skillsift/skillsift/internal/ruleset"
	"github.com/skillsift/skillsift/schema"
)

// Pipeline drives the analysers in dependency order over one project root
// and persists the resulting record. It owns all cross-analyser concerns:
// cancellation checkpoints, failure isolation, and the final merge.
type Pipeline struct {
	tables *ruleset.Tables
	store  contract.ProjectStore // nil disables persistence
	walker contract.CommitWalker // nil disables git analysis

	categorizer *Categorizer
	detector    *LanguageDetector
	scanner     *EvidenceScanner
	aggregator  *SkillAggregator
	profiler    *TechProfiler
	ranker      *ProjectRanker
}

// NewPipeline wires the analysers over shared rule tables. Store and
// walker are optional.
func NewPipeline(tables *ruleset.Tables, store contract.ProjectStore, walker contract.CommitWalker) *Pipeline {
	return &Pipeline{
		tables:      tables,
		store:       store,
		walker:      walker,
		categorizer: NewCategorizer(tables),
		detector:    NewLanguageDetector(tables),
		scanner:     NewEvidenceScanner(tables),
		aggregator:  NewSkillAggregator(tables),
		profiler:    NewTechProfiler(),
		ranker:      NewProjectRanker(),
	}
}

// AnalyzeProject runs the full pipeline on one extracted project root.
// Cancellation is observed between analysers only; a cancelled run
// persists nothing. Running twice on an unchanged root yields identical
// fields except timestamps.
func (p *Pipeline) AnalyzeProject(ctx context.Context, root string) (*schema.Project, error) {
	root = filepath.Clean(root)
	name := filepath.Base(root)
	project := schema.NewProject(projectID(name), name, root)

	files, err := WalkProject(root, p.tables)
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}

	// --- A. Categorize every file ---
	entries := make([]schema.FileEntry, 0, len(files))
	for _, f := range files {
		lang := p.detector.LanguageOf(f.RelPath)
		entries = append(entries, schema.FileEntry{
			RelPath:  f.RelPath,
			Language: lang,
			Category: p.categorizer.Classify(f.RelPath, lang),
		})
	}
	project.Categories, project.CategoryShare = p.categorizer.ComputeCategoryMetrics(entries)
	if err := checkpoint(ctx); err != nil {
		return nil, err
	}

	// --- B. Language shares ---
	project.LanguageLOC = p.detector.CountLOC(files)
	project.LanguageShare = p.detector.DetectShares(project.LanguageLOC)
	project.Languages = RankedLanguages(project.LanguageShare)
	if err := checkpoint(ctx); err != nil {
		return nil, err
	}

	// --- C. Code metrics ---
	metrics := NewCodeMetricsAnalyzer(root)
	analyses := metrics.Analyze(files, entries)
	overall, _ := metrics.Summarize(analyses)
	project.TotalLOC = overall.TotalLOC
	project.CommentRatio = overall.CommentRatio
	project.TestFileRatio = overall.TestFileRatio
	project.AvgFunctionsPerFile = overall.AvgFunctions
	project.MaxFunctionLength = overall.MaxFunctionLine
	if err := checkpoint(ctx); err != nil {
		return nil, err
	}

	// --- D. Evidence ---
	scan := p.scanner.Scan(files, entries)
	project.Dependencies = scan.Dependencies
	project.DependencyFiles = scan.DependencyFiles
	project.BuildTools = scan.BuildTools
	if err := checkpoint(ctx); err != nil {
		return nil, err
	}

	// --- E. Skill aggregation ---
	evidence := append(scan.Evidence, LanguageUsageEvidence(analyses)...)
	project.SkillProfile = p.aggregator.Aggregate(evidence)
	if err := checkpoint(ctx); err != nil {
		return nil, err
	}

	// --- F. Proficiency ---
	stats := CollectStats(files)
	NewProficiencyEstimator(stats).Estimate(project.SkillProfile)
	project.SkillsUsed, project.Frameworks = displaySkills(project.SkillProfile)
	if err := checkpoint(ctx); err != nil {
		return nil, err
	}

	// --- G. Contributions ---
	if p.walker != nil {
		p.applyContributions(ctx, project, root)
		if err := checkpoint(ctx); err != nil {
			return nil, err
		}
	}

	// --- H. Tech profile and ranking ---
	p.profiler.Apply(project, files, stats)
	p.ranker.Rank(project)
	if err := checkpoint(ctx); err != nil {
		return nil, err
	}

	if p.store != nil {
		if err := p.store.Save(project); err != nil {
			return nil, fmt.Errorf("saving %s: %w", name, errors.Join(schema.ErrPersistenceFailure, err))
		}
	}
	return project, nil
}

// applyContributions runs the contribution analyser and folds its result
// into the project. A missing or unreadable history leaves empty stats;
// only the absence of a repo is fully silent.
func (p *Pipeline) applyContributions(ctx context.Context, project *schema.Project, root string) {
	result, err := NewContributionAnalyzer(p.walker).Analyze(ctx, root)
	if err != nil {
		if !errors.Is(err, schema.ErrRepoUnavailable) {
			contract.LogWarn("contribution analysis for %s: %v", project.Name, err)
		}
		return
	}
	if result.Partial {
		contract.LogWarn("contribution analysis for %s skipped unreadable commits", project.Name)
	}
	project.Authors = result.Authors
	project.AuthorCount = len(result.Authors)
	project.AuthorContributions = result.ByAuthor
	project.TotalContribution = result.Total
	if project.AuthorCount > 1 {
		project.CollaborationStatus = schema.CollaborativeStatus
	} else {
		project.CollaborationStatus = schema.IndividualStatus
	}
}

// BatchResult pairs one root with its outcome.
type BatchResult struct {
	Root    string
	Project *schema.Project
	Err     error
}

// AnalyzeAll analyzes multiple roots using a bounded worker pool. Each
// project is independent; one project's failure never stops the others.
func (p *Pipeline) AnalyzeAll(ctx context.Context, roots []string, workers int) []BatchResult {
	if workers < 1 {
		workers = 1
	}
	rootCh := make(chan string, len(roots))
	resultCh := make(chan BatchResult, len(roots))
	var wg sync.WaitGroup

	for range workers {
		wg.Go(func() {
			for root := range rootCh {
				project, err := p.AnalyzeProject(ctx, root)
				resultCh <- BatchResult{Root: root, Project: project, Err: err}
			}
		})
	}
	for _, root := range roots {
		rootCh <- root
	}
	close(rootCh)
	wg.Wait()
	close(resultCh)

	byRoot := make(map[string]BatchResult, len(roots))
	for r := range resultCh {
		byRoot[r.Root] = r
	}
	results := make([]BatchResult, 0, len(roots))
	for _, root := range roots {
		results = append(results, byRoot[root])
	}
	return results
}

// displaySkills filters the profile down to confident skills and the
// framework subset among them.
func displaySkills(profile []schema.SkillProfileItem) (skills, frameworks []string) {
	for _, item := range profile {
		if item.Confidence < schema.MinDisplayConfidence {
			continue
		}
		skills = append(skills, item.Skill)
		if _, ok := frameworkSkills[item.Skill]; ok {
			frameworks = append(frameworks, item.Skill)
		}
	}
	return skills, frameworks
}

// projectID derives a stable identifier from the project name so repeated
// runs update the same record.
func projectID(name string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("skillsift:"+name)).String()
}

func checkpoint(ctx context.Context) error {
	return ctx.Err()
}
