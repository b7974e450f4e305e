// Package schema holds the shared data model for project analysis.
package schema

import "time"

// Evidence is a single observation supporting a skill claim.
type Evidence struct {
	Skill  string         `json:"skill"`  // Skill name from the taxonomy
	Source EvidenceSource `json:"source"` // Where the observation came from
	Raw    string         `json:"raw"`    // Matched token (dep name, pattern, filename)
	Path   string         `json:"path"`   // Originating file path, relative to the project root
	Weight float64        `json:"weight"` // Strength of the observation in (0, 1]
}

// SkillProfileItem is an aggregated skill with calibrated scores.
type SkillProfileItem struct {
	Skill       string     `json:"skill"`       // Skill name from the taxonomy
	Confidence  float64    `json:"confidence"`  // Probability-like score in [0, 0.98]
	Proficiency float64    `json:"proficiency"` // Usage-depth score in [0, 0.98]
	Evidence    []Evidence `json:"evidence"`    // All contributing evidence, kept for audit
}

// FileEntry is a scanned file with its resolved classification.
// Ephemeral; never persisted.
type FileEntry struct {
	RelPath  string   // Relative path with forward slashes
	Language string   // Detected language or "Unknown"
	Category Category // Resolved category
}

// CodeFileAnalysis holds line and function metrics for a single code or test file.
type CodeFileAnalysis struct {
	Path            string         // Relative path
	Language        string         // Detected language or "Unknown"
	IsTest          bool           // Classified as a test file
	TotalLines      int            // Newline-delimited records
	CodeLines       int            // Non-blank, non-comment lines
	CommentLines    int            // Lines matching the comment heuristic
	BlankLines      int            // Whitespace-only lines
	FunctionCount   int            // Function starts detected
	MaxFunctionLine int            // Longest function block observed
	SnippetMatches  map[string]int // Skill -> snippet pattern match count
}

// CodeMetricsSummary aggregates per-file analyses, overall or per language.
type CodeMetricsSummary struct {
	FileCount       int     // Files analyzed
	CodeFileCount   int     // Files classified as code
	TestFileCount   int     // Files classified as test
	TotalLOC        int     // Sum of code lines
	CommentLines    int     // Sum of comment lines
	BlankLines      int     // Sum of blank lines
	AvgFunctions    float64 // Average functions per file
	MaxFunctionLine int     // Longest function block across files
	CommentRatio    float64 // comments / (comments + code)
	TestFileRatio   float64 // test files / max(1, code files)
}

// Dimension is one code-quality axis with its score and qualitative level.
type Dimension struct {
	Score float64        `json:"score"`
	Level DimensionLevel `json:"level"`
}

// ContributionStats aggregates commit activity for one author or a whole project.
type ContributionStats struct {
	TotalCommits int                      `json:"total_commits"`
	LinesAdded   int                      `json:"lines_added"`
	LinesDeleted int                      `json:"lines_deleted"`
	FilesTouched map[string]bool          `json:"files_touched"`
	ByKind       map[ContributionKind]int `json:"contribution_by_type"`
}

// NewContributionStats returns zeroed stats with initialized maps.
func NewContributionStats() *ContributionStats {
	return &ContributionStats{
		FilesTouched: make(map[string]bool),
		ByKind: map[ContributionKind]int{
			CodeContribution: 0,
			TestContribution: 0,
			DocsContribution: 0,
		},
	}
}

// SharePercent returns this author's share of all lines edited in the project.
func (cs *ContributionStats) SharePercent(total *ContributionStats) float64 {
	projectLines := total.LinesAdded + total.LinesDeleted
	if projectLines == 0 {
		return 0
	}
	authorLines := cs.LinesAdded + cs.LinesDeleted
	return float64(authorLines) / float64(projectLines) * 100
}

// Project is the aggregate record produced by the analysis pipeline.
// Analyzers mutate their own fields in a fixed order; the store flattens
// list and map fields to JSON strings at the SQL boundary.
type Project struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	RootPath  string  `json:"root_path"`
	FileCount int     `json:"file_count"`
	SizeKB    float64 `json:"size_kb"`

	Categories    map[Category]int `json:"categories"`
	CategoryShare map[Category]int `json:"category_share"`

	Authors             []string                      `json:"authors"`
	AuthorCount         int                           `json:"author_count"`
	CollaborationStatus CollaborationStatus           `json:"collaboration_status"`
	AuthorContributions map[string]*ContributionStats `json:"author_contributions"`
	TotalContribution   *ContributionStats            `json:"total_contribution"`

	Languages       []string           `json:"languages"`
	LanguageShare   map[string]float64 `json:"language_share"`
	LanguageLOC     map[string]int     `json:"language_loc"`
	Frameworks      []string           `json:"frameworks"`
	SkillsUsed      []string           `json:"skills_used"`
	SkillProfile    []SkillProfileItem `json:"skill_profile"`
	Dependencies    []string           `json:"dependencies"`
	DependencyFiles []string           `json:"dependency_files"`
	BuildTools      []string           `json:"build_tools"`

	TotalLOC            int     `json:"total_loc"`
	CommentRatio        float64 `json:"comment_ratio"`
	TestFileRatio       float64 `json:"test_file_ratio"`
	AvgFunctionsPerFile float64 `json:"avg_functions_per_file"`
	MaxFunctionLength   int     `json:"max_function_length"`

	Dimensions map[string]Dimension `json:"dimensions"`

	HasDockerfile  bool     `json:"has_dockerfile"`
	HasDatabase    bool     `json:"has_database"`
	HasFrontend    bool     `json:"has_frontend"`
	HasBackend     bool     `json:"has_backend"`
	HasTestFiles   bool     `json:"has_test_files"`
	HasReadme      bool     `json:"has_readme"`
	ReadmeKeywords []string `json:"readme_keywords"`

	Bullets []string `json:"bullets"`
	Summary string   `json:"summary"`

	ResumeScore float64 `json:"resume_score"`

	DateCreated  time.Time `json:"date_created"`
	LastModified time.Time `json:"last_modified"`
	LastAccessed time.Time `json:"last_accessed"`
}

// NewProject returns a Project with initialized containers.
func NewProject(id, name, rootPath string) *Project {
	return &Project{
		ID:                  id,
		Name:                name,
		RootPath:            rootPath,
		Categories:          make(map[Category]int),
		CategoryShare:       make(map[Category]int),
		LanguageShare:       make(map[string]float64),
		LanguageLOC:         make(map[string]int),
		AuthorContributions: make(map[string]*ContributionStats),
		Dimensions:          make(map[string]Dimension),
		CollaborationStatus: IndividualStatus,
	}
}

// CommitFile is one changed path in a commit's diff stats.
type CommitFile struct {
	Path       string
	Insertions int
	Deletions  int
}

// Commit is a single history entry as seen by the contribution analyzer.
type Commit struct {
	Author string
	When   time.Time
	Files  []CommitFile
}

// StoreStatus reports on the state of the project store.
type StoreStatus struct {
	Backend       string
	Connected     bool
	TotalProjects int
	LastSavedAt   time.Time
	TableSize     int64
}
