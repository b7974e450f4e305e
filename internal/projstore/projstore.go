// Package projstore persists Project records across SQLite, MySQL, and
// PostgreSQL backends. List and map fields are flattened to JSON strings
// at the SQL boundary and reconstructed on load.
package projstore

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver (pure Go)

	"github.com/skillsift/skillsift/internal/contract"
	"github.com/skillsift/skillsift/schema"
)

const projectsTable = "skillsift_projects"

// timeFormat keeps sub-second precision so records round-trip exactly.
const timeFormat = time.RFC3339Nano

// Store implements contract.ProjectStore over database/sql.
type Store struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.ProjectStore = &Store{} // Compile-time check

// NewStore opens a connection for the chosen backend and ensures the
// projects table exists. NoneBackend yields a no-op store.
func NewStore(backend schema.DatabaseBackend, connStr string) (*Store, error) {
	var db *sql.DB
	var err error

	switch backend {
	case schema.SQLiteBackend:
		dbPath := connStr
		if dbPath == "" {
			dbPath = contract.GetDBFilePath()
		}
		db, err = sql.Open("sqlite", dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite database at %q: %w. Check that the directory is writable", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)

	case schema.MySQLBackend:
		db, err = sql.Open("mysql", connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open MySQL database: %w. Check connection string format: user:password@tcp(host:port)/dbname", err)
		}

	case schema.PostgreSQLBackend:
		db, err = sql.Open("pgx", connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open PostgreSQL database: %w. Check connection string format: host=localhost port=5432 user=postgres dbname=mydb", err)
		}

	case schema.NoneBackend:
		return &Store{db: nil, backend: backend}, nil

	default:
		return nil, fmt.Errorf("unsupported backend: %s", backend)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database: %w", backend, err)
	}
	if _, err := db.Exec(createTableQuery(backend)); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create table %s: %w", projectsTable, err)
	}
	return &Store{db: db, backend: backend}, nil
}

// projectColumns is the table layout, in insert order. "name" carries the
// unique constraint; saves upsert on it.
var projectColumns = []string{
	"id", "name", "root_path", "file_count", "size_kb",
	"categories", "category_share",
	"authors", "author_count", "collaboration_status",
	"author_contributions", "total_contribution",
	"languages", "language_share", "language_loc",
	"frameworks", "skills_used", "skill_profile",
	"dependencies_list", "dependency_files_list", "build_tools",
	"total_loc", "comment_ratio", "test_file_ratio",
	"avg_functions_per_file", "max_function_length",
	"dimensions",
	"has_dockerfile", "has_database", "has_frontend", "has_backend",
	"has_test_files", "has_readme", "readme_keywords",
	"bullets", "summary", "resume_score",
	"date_created", "last_modified", "last_accessed",
}

func createTableQuery(backend schema.DatabaseBackend) string {
	intType, realType, boolType := "INTEGER", "REAL", "BOOLEAN"
	nameType := "TEXT"
	switch backend {
	case schema.MySQLBackend:
		realType = "DOUBLE"
		nameType = "VARCHAR(255)"
	case schema.PostgreSQLBackend:
		realType = "DOUBLE PRECISION"
	default:
	}
	return fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT NOT NULL,
			name %s PRIMARY KEY,
			root_path TEXT,
			file_count %[3]s,
			size_kb %[4]s,
			categories TEXT,
			category_share TEXT,
			authors TEXT,
			author_count %[3]s,
			collaboration_status TEXT,
			author_contributions TEXT,
			total_contribution TEXT,
			languages TEXT,
			language_share TEXT,
			language_loc TEXT,
			frameworks TEXT,
			skills_used TEXT,
			skill_profile TEXT,
			dependencies_list TEXT,
			dependency_files_list TEXT,
			build_tools TEXT,
			total_loc %[3]s,
			comment_ratio %[4]s,
			test_file_ratio %[4]s,
			avg_functions_per_file %[4]s,
			max_function_length %[3]s,
			dimensions TEXT,
			has_dockerfile %[5]s,
			has_database %[5]s,
			has_frontend %[5]s,
			has_backend %[5]s,
			has_test_files %[5]s,
			has_readme %[5]s,
			readme_keywords TEXT,
			bullets TEXT,
			summary TEXT,
			resume_score %[4]s,
			date_created TEXT,
			last_modified TEXT,
			last_accessed TEXT
		);
	`, projectsTable, nameType, intType, realType, boolType)
}

func (s *Store) placeholders() []string {
	out := make([]string, len(projectColumns))
	for i := range projectColumns {
		if s.backend == schema.PostgreSQLBackend {
			out[i] = fmt.Sprintf("$%d", i+1)
		} else {
			out[i] = "?"
		}
	}
	return out
}

func (s *Store) upsertQuery() string {
	cols := strings.Join(projectColumns, ", ")
	vals := strings.Join(s.placeholders(), ", ")

	assign := func(prefix string) string {
		parts := make([]string, 0, len(projectColumns)-1)
		for _, col := range projectColumns {
			if col == "name" {
				continue
			}
			parts = append(parts, fmt.Sprintf("%s = %s.%s", col, prefix, col))
		}
		return strings.Join(parts, ", ")
	}

	switch s.backend {
	case schema.MySQLBackend:
		return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) AS new ON DUPLICATE KEY UPDATE %s",
			projectsTable, cols, vals, assign("new"))
	case schema.PostgreSQLBackend:
		return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (name) DO UPDATE SET %s",
			projectsTable, cols, vals, assign("EXCLUDED"))
	default: // SQLite
		return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT(name) DO UPDATE SET %s",
			projectsTable, cols, vals, assign("excluded"))
	}
}

// Save inserts or replaces the record, keyed by name.
func (s *Store) Save(project *schema.Project) error {
	if s.backend == schema.NoneBackend || s.db == nil {
		return nil
	}
	values, err := rowValues(project)
	if err != nil {
		return errors.Join(schema.ErrPersistenceFailure, err)
	}
	if _, err := s.db.Exec(s.upsertQuery(), values...); err != nil {
		return errors.Join(schema.ErrPersistenceFailure, err)
	}
	return nil
}

func rowValues(p *schema.Project) ([]any, error) {
	jsonFields := map[string]any{
		"categories":            p.Categories,
		"category_share":        p.CategoryShare,
		"authors":               p.Authors,
		"author_contributions":  p.AuthorContributions,
		"total_contribution":    p.TotalContribution,
		"languages":             p.Languages,
		"language_share":        p.LanguageShare,
		"language_loc":          p.LanguageLOC,
		"frameworks":            p.Frameworks,
		"skills_used":           p.SkillsUsed,
		"skill_profile":         p.SkillProfile,
		"dependencies_list":     p.Dependencies,
		"dependency_files_list": p.DependencyFiles,
		"build_tools":           p.BuildTools,
		"dimensions":            p.Dimensions,
		"readme_keywords":       p.ReadmeKeywords,
		"bullets":               p.Bullets,
	}
	encoded := make(map[string]string, len(jsonFields))
	for col, v := range jsonFields {
		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("marshaling %s: %w", col, err)
		}
		encoded[col] = string(data)
	}

	return []any{
		p.ID, p.Name, p.RootPath, p.FileCount, p.SizeKB,
		encoded["categories"], encoded["category_share"],
		encoded["authors"], p.AuthorCount, string(p.CollaborationStatus),
		encoded["author_contributions"], encoded["total_contribution"],
		encoded["languages"], encoded["language_share"], encoded["language_loc"],
		encoded["frameworks"], encoded["skills_used"], encoded["skill_profile"],
		encoded["dependencies_list"], encoded["dependency_files_list"], encoded["build_tools"],
		p.TotalLOC, p.CommentRatio, p.TestFileRatio,
		p.AvgFunctionsPerFile, p.MaxFunctionLength,
		encoded["dimensions"],
		p.HasDockerfile, p.HasDatabase, p.HasFrontend, p.HasBackend,
		p.HasTestFiles, p.HasReadme, encoded["readme_keywords"],
		encoded["bullets"], p.Summary, p.ResumeScore,
		formatTime(p.DateCreated), formatTime(p.LastModified), formatTime(p.LastAccessed),
	}, nil
}

// LoadByName returns (nil, nil) when no record exists.
func (s *Store) LoadByName(name string) (*schema.Project, error) {
	if s.backend == schema.NoneBackend || s.db == nil {
		return nil, nil
	}
	query := fmt.Sprintf("SELECT %s FROM %s WHERE name = %s",
		strings.Join(projectColumns, ", "), projectsTable, s.placeholders()[0])
	project, err := scanProject(s.db.QueryRow(query, name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return project, err
}

// LoadAll returns every stored record, ordered by descending resume score.
func (s *Store) LoadAll() ([]*schema.Project, error) {
	if s.backend == schema.NoneBackend || s.db == nil {
		return nil, nil
	}
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY resume_score DESC, name ASC",
		strings.Join(projectColumns, ", "), projectsTable)
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, errors.Join(schema.ErrPersistenceFailure, err)
	}
	defer func() { _ = rows.Close() }()

	var projects []*schema.Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	return projects, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*schema.Project, error) {
	p := &schema.Project{}
	var (
		categories, categoryShare, authors        string
		authorContribs, totalContrib              string
		languages, languageShare, languageLOC     string
		frameworks, skillsUsed, skillProfile      string
		dependencies, dependencyFiles, buildTools string
		dimensions, readmeKeywords, bullets       string
		collaborationStatus                       string
		dateCreated, lastModified, lastAccessed   string
	)

	err := row.Scan(
		&p.ID, &p.Name, &p.RootPath, &p.FileCount, &p.SizeKB,
		&categories, &categoryShare,
		&authors, &p.AuthorCount, &collaborationStatus,
		&authorContribs, &totalContrib,
		&languages, &languageShare, &languageLOC,
		&frameworks, &skillsUsed, &skillProfile,
		&dependencies, &dependencyFiles, &buildTools,
		&p.TotalLOC, &p.CommentRatio, &p.TestFileRatio,
		&p.AvgFunctionsPerFile, &p.MaxFunctionLength,
		&dimensions,
		&p.HasDockerfile, &p.HasDatabase, &p.HasFrontend, &p.HasBackend,
		&p.HasTestFiles, &p.HasReadme, &readmeKeywords,
		&bullets, &p.Summary, &p.ResumeScore,
		&dateCreated, &lastModified, &lastAccessed,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, errors.Join(schema.ErrPersistenceFailure, err)
	}

	p.CollaborationStatus = schema.CollaborationStatus(collaborationStatus)

	decodes := []struct {
		data string
		dest any
	}{
		{categories, &p.Categories},
		{categoryShare, &p.CategoryShare},
		{authors, &p.Authors},
		{authorContribs, &p.AuthorContributions},
		{totalContrib, &p.TotalContribution},
		{languages, &p.Languages},
		{languageShare, &p.LanguageShare},
		{languageLOC, &p.LanguageLOC},
		{frameworks, &p.Frameworks},
		{skillsUsed, &p.SkillsUsed},
		{skillProfile, &p.SkillProfile},
		{dependencies, &p.Dependencies},
		{dependencyFiles, &p.DependencyFiles},
		{buildTools, &p.BuildTools},
		{dimensions, &p.Dimensions},
		{readmeKeywords, &p.ReadmeKeywords},
		{bullets, &p.Bullets},
	}
	for _, d := range decodes {
		if d.data == "" {
			continue
		}
		if err := json.Unmarshal([]byte(d.data), d.dest); err != nil {
			return nil, errors.Join(schema.ErrPersistenceFailure, err)
		}
	}

	if p.DateCreated, err = parseTime(dateCreated); err != nil {
		return nil, errors.Join(schema.ErrPersistenceFailure, err)
	}
	if p.LastModified, err = parseTime(lastModified); err != nil {
		return nil, errors.Join(schema.ErrPersistenceFailure, err)
	}
	if p.LastAccessed, err = parseTime(lastAccessed); err != nil {
		return nil, errors.Join(schema.ErrPersistenceFailure, err)
	}
	return p, nil
}

// GetStatus reports backend, record count, last save time, and table size.
func (s *Store) GetStatus() (schema.StoreStatus, error) {
	status := schema.StoreStatus{
		Backend:   string(s.backend),
		Connected: s.db != nil,
	}
	if s.backend == schema.NoneBackend || s.db == nil {
		return status, nil
	}

	row := s.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", projectsTable))
	if err := row.Scan(&status.TotalProjects); err != nil {
		return status, fmt.Errorf("failed to count projects: %w", err)
	}
	if status.TotalProjects == 0 {
		return status, nil
	}

	var lastSaved string
	row = s.db.QueryRow(fmt.Sprintf("SELECT MAX(last_accessed) FROM %s", projectsTable))
	if err := row.Scan(&lastSaved); err == nil {
		if ts, err := parseTime(lastSaved); err == nil {
			status.LastSavedAt = ts
		}
	}

	if s.backend == schema.SQLiteBackend {
		row = s.db.QueryRow("SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()")
		if err := row.Scan(&status.TableSize); err != nil {
			status.TableSize = 0
		}
	} else {
		// Rough estimate for server backends.
		status.TableSize = int64(status.TotalProjects) * 4096
	}
	return status, nil
}

// Close closes the underlying DB connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeFormat)
}

func parseTime(v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	return time.Parse(timeFormat, v)
}
