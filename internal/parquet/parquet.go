// Package parquet provides data structures and functions for exporting
// analyzed project records to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/skillsift/skillsift/schema"
)

// ProjectRecord is the flattened form of an analyzed project.
// List fields are pipe-joined so the schema stays columnar.
type ProjectRecord struct {
	// ProjectID is the stable identifier derived from the project name
	ProjectID string `parquet:"project_id,snappy"`

	// Name is the project directory name
	Name string `parquet:"name,snappy"`

	// RootPath is the absolute path the analysis ran against
	RootPath string `parquet:"root_path,snappy"`

	// FileCount is the number of files scanned
	FileCount int32 `parquet:"file_count,snappy"`

	// SizeKB is the total size of scanned files in kilobytes
	SizeKB float64 `parquet:"size_kb,snappy"`

	// Languages is the pipe-joined ranked language list
	Languages string `parquet:"languages,snappy"`

	// SkillsUsed is the pipe-joined display skill list
	SkillsUsed string `parquet:"skills_used,snappy"`

	// Frameworks is the pipe-joined framework list
	Frameworks string `parquet:"frameworks,snappy"`

	// Dependencies is the pipe-joined declared dependency list
	Dependencies string `parquet:"dependencies,snappy"`

	// TotalLOC is the total count of code lines
	TotalLOC int32 `parquet:"total_loc,snappy"`

	// CommentRatio is comments over comments plus code
	CommentRatio float64 `parquet:"comment_ratio,snappy"`

	// TestFileRatio is test files over code files
	TestFileRatio float64 `parquet:"test_file_ratio,snappy"`

	// AvgFunctionsPerFile is the mean function count across code files
	AvgFunctionsPerFile float64 `parquet:"avg_functions_per_file,snappy"`

	// MaxFunctionLength is the longest function block observed
	MaxFunctionLength int32 `parquet:"max_function_length,snappy"`

	// AuthorCount is the number of distinct commit authors
	AuthorCount int32 `parquet:"author_count,snappy"`

	// CollaborationStatus is individual or collaborative
	CollaborationStatus string `parquet:"collaboration_status,snappy"`

	// TestingScore is the testing discipline dimension score
	TestingScore float64 `parquet:"testing_score,snappy"`

	// DocumentationScore is the documentation habits dimension score
	DocumentationScore float64 `parquet:"documentation_score,snappy"`

	// ModularityScore is the modularity dimension score
	ModularityScore float64 `parquet:"modularity_score,snappy"`

	// LanguageDepthScore is the language depth dimension score
	LanguageDepthScore float64 `parquet:"language_depth_score,snappy"`

	// ResumeScore is the composite project score
	ResumeScore float64 `parquet:"resume_score,snappy"`

	// DateCreated is the earliest file timestamp seen in the tree
	DateCreated time.Time `parquet:"date_created,snappy"`

	// LastModified is the latest file timestamp seen in the tree
	LastModified time.Time `parquet:"last_modified,snappy"`
}

// ConvertProjectRecords flattens analyzed projects into Parquet rows.
func ConvertProjectRecords(projects []*schema.Project) []ProjectRecord {
	records := make([]ProjectRecord, 0, len(projects))
	for _, p := range projects {
		records = append(records, ProjectRecord{
			ProjectID:           p.ID,
			Name:                p.Name,
			RootPath:            p.RootPath,
			FileCount:           int32(p.FileCount),
			SizeKB:              p.SizeKB,
			Languages:           strings.Join(p.Languages, "|"),
			SkillsUsed:          strings.Join(p.SkillsUsed, "|"),
			Frameworks:          strings.Join(p.Frameworks, "|"),
			Dependencies:        strings.Join(p.Dependencies, "|"),
			TotalLOC:            int32(p.TotalLOC),
			CommentRatio:        p.CommentRatio,
			TestFileRatio:       p.TestFileRatio,
			AvgFunctionsPerFile: p.AvgFunctionsPerFile,
			MaxFunctionLength:   int32(p.MaxFunctionLength),
			AuthorCount:         int32(p.AuthorCount),
			CollaborationStatus: string(p.CollaborationStatus),
			TestingScore:        dimensionScore(p, schema.TestingDisciplineDimension),
			DocumentationScore:  dimensionScore(p, schema.DocumentationHabitsDimension),
			ModularityScore:     dimensionScore(p, schema.ModularityDimension),
			LanguageDepthScore:  dimensionScore(p, schema.LanguageDepthDimension),
			ResumeScore:         p.ResumeScore,
			DateCreated:         p.DateCreated,
			LastModified:        p.LastModified,
		})
	}
	return records
}

// WriteProjectsParquet writes a slice of ProjectRecord structs to a Parquet file.
func WriteProjectsParquet(data []ProjectRecord, outputPath string) error {
	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Create a Parquet writer using struct schema inference
	// The schema is automatically derived from the ProjectRecord struct tags
	writer := parquet.NewGenericWriter[ProjectRecord](file)
	defer func() { _ = writer.Close() }()

	// Write all records to the file
	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

func dimensionScore(p *schema.Project, name string) float64 {
	if dim, ok := p.Dimensions[name]; ok {
		return dim.Score
	}
	return 0
}
