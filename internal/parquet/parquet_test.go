package parquet

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillsift/skillsift/schema"
)

func sampleProjects() []*schema.Project {
	p := schema.NewProject("id-1", "demo", "/tmp/demo")
	p.FileCount = 14
	p.SizeKB = 120.5
	p.Languages = []string{"Python", "TypeScript"}
	p.SkillsUsed = []string{"Python", "Django"}
	p.Frameworks = []string{"Django"}
	p.Dependencies = []string{"django", "pytest"}
	p.TotalLOC = 1500
	p.CommentRatio = 0.12
	p.TestFileRatio = 0.25
	p.AvgFunctionsPerFile = 3.5
	p.MaxFunctionLength = 42
	p.AuthorCount = 2
	p.CollaborationStatus = schema.CollaborativeStatus
	p.Dimensions = map[string]schema.Dimension{
		schema.TestingDisciplineDimension: {Score: 0.625, Level: schema.GoodLevel},
		schema.LanguageDepthDimension:     {Score: 1.0, Level: schema.StrongLevel},
	}
	p.ResumeScore = 61.5
	p.DateCreated = time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC)
	p.LastModified = time.Date(2026, 2, 20, 9, 30, 0, 0, time.UTC)
	return []*schema.Project{p}
}

func TestConvertProjectRecords(t *testing.T) {
	records := ConvertProjectRecords(sampleProjects())
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "demo", rec.Name)
	assert.Equal(t, "Python|TypeScript", rec.Languages)
	assert.Equal(t, "django|pytest", rec.Dependencies)
	assert.Equal(t, int32(1500), rec.TotalLOC)
	assert.Equal(t, "collaborative", rec.CollaborationStatus)
	assert.Equal(t, 0.625, rec.TestingScore)
	assert.Equal(t, 1.0, rec.LanguageDepthScore)
	assert.Zero(t, rec.ModularityScore) // No modularity dimension on the input
	assert.Equal(t, 61.5, rec.ResumeScore)
}

func TestWriteProjectsParquet(t *testing.T) {
	tmpDir := t.TempDir()
	outputPath := filepath.Join(tmpDir, "projects.parquet")

	data := ConvertProjectRecords(sampleProjects())
	require.NoError(t, WriteProjectsParquet(data, outputPath))

	info, err := os.Stat(outputPath)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	// Read back and verify data
	file, err := os.Open(outputPath)
	require.NoError(t, err)
	defer file.Close()

	reader := parquet.NewGenericReader[ProjectRecord](file)
	defer reader.Close()

	readData := make([]ProjectRecord, reader.NumRows())
	n, err := reader.Read(readData)
	if err != nil && err != io.EOF {
		require.NoError(t, err)
	}
	require.Equal(t, len(data), n)

	assert.Equal(t, data[0].Name, readData[0].Name)
	assert.Equal(t, data[0].TotalLOC, readData[0].TotalLOC)
	assert.Equal(t, data[0].ResumeScore, readData[0].ResumeScore)
	assert.WithinDuration(t, data[0].LastModified, readData[0].LastModified, time.Nanosecond)
}

func TestWriteProjectsParquetBadPath(t *testing.T) {
	err := WriteProjectsParquet(nil, filepath.Join("no", "such", "dir", "out.parquet"))
	assert.Error(t, err)
}
