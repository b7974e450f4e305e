package schema

// Category is the role-label assigned to a file during classification.
type Category string

// Closed set of file categories. Every scanned file resolves to exactly one.
const (
	CodeCategory    Category = "code"
	TestCategory    Category = "test"
	DocsCategory    Category = "docs"
	DesignCategory  Category = "design"
	DataCategory    Category = "data"
	ConfigCategory  Category = "config"
	GameCategory    Category = "game"
	BinaryCategory  Category = "binary"
	OtherCategory   Category = "other"
	IgnoredCategory Category = "ignored"
)

// ValidCategories is the set of categories a file may resolve to.
var ValidCategories = map[Category]struct{}{
	CodeCategory:    {},
	TestCategory:    {},
	DocsCategory:    {},
	DesignCategory:  {},
	DataCategory:    {},
	ConfigCategory:  {},
	GameCategory:    {},
	BinaryCategory:  {},
	OtherCategory:   {},
	IgnoredCategory: {},
}

// EvidenceSource identifies where a piece of skill evidence came from.
type EvidenceSource string

// Evidence source kinds.
const (
	FileExtensionSource       EvidenceSource = "file_extension"
	DependencySource          EvidenceSource = "dependency"
	ImportStatementSource     EvidenceSource = "import_statement"
	BuildToolSource           EvidenceSource = "build_tool"
	FrameworkConventionSource EvidenceSource = "framework_convention"
	TestFrameworkSource       EvidenceSource = "test_framework"
	LinterConfigSource        EvidenceSource = "linter_config"
	SnippetPatternSource      EvidenceSource = "snippet_pattern"
	HeuristicSource           EvidenceSource = "heuristic"
	LanguageUsageSource       EvidenceSource = "language_usage"
)

// ValidEvidenceSources is the set of recognized evidence source kinds.
var ValidEvidenceSources = map[EvidenceSource]struct{}{
	FileExtensionSource:       {},
	DependencySource:          {},
	ImportStatementSource:     {},
	BuildToolSource:           {},
	FrameworkConventionSource: {},
	TestFrameworkSource:       {},
	LinterConfigSource:        {},
	SnippetPatternSource:      {},
	HeuristicSource:           {},
	LanguageUsageSource:       {},
}

// DimensionLevel is the qualitative label for a code-quality dimension score.
type DimensionLevel string

// Dimension levels from weakest to strongest.
const (
	NeedsImprovementLevel DimensionLevel = "needs_improvement"
	OkLevel               DimensionLevel = "ok"
	GoodLevel             DimensionLevel = "good"
	StrongLevel           DimensionLevel = "strong"
)

// Dimension names written by the ranker.
const (
	TestingDisciplineDimension   = "testing_discipline"
	DocumentationHabitsDimension = "documentation_habits"
	ModularityDimension          = "modularity"
	LanguageDepthDimension       = "language_depth"
)

// LevelForScore maps a dimension score in [0,1] to its qualitative level.
func LevelForScore(score float64) DimensionLevel {
	switch {
	case score >= 0.75:
		return StrongLevel
	case score >= 0.5:
		return GoodLevel
	case score >= 0.25:
		return OkLevel
	default:
		return NeedsImprovementLevel
	}
}

// CollaborationStatus describes whether a project had one author or many.
type CollaborationStatus string

// Collaboration statuses.
const (
	IndividualStatus    CollaborationStatus = "individual"
	CollaborativeStatus CollaborationStatus = "collaborative"
)

// DatabaseBackend represents the type of database backend for project storage.
type DatabaseBackend string

// Database backend identifiers.
const (
	SQLiteBackend     DatabaseBackend = "sqlite"
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// ValidDatabaseBackends is the set of supported storage backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// OutputMode represents the output format for command results.
type OutputMode string

// Output modes.
const (
	TextOut    OutputMode = "text"
	CSVOut     OutputMode = "csv"
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// ValidOutputModes is the set of supported output formats.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut:    {},
	CSVOut:     {},
	JSONOut:    {},
	ParquetOut: {},
}

// ContributionKind is the coarse bucket a changed path is attributed to
// when aggregating commit history.
type ContributionKind string

// Contribution kinds.
const (
	CodeContribution ContributionKind = "code"
	TestContribution ContributionKind = "test"
	DocsContribution ContributionKind = "docs"
)

// MinDisplayConfidence is the confidence threshold for a skill to appear
// in a project's skills_used list.
const MinDisplayConfidence = 0.5

// MaxConfidence caps both confidence and proficiency scores.
const MaxConfidence = 0.98
