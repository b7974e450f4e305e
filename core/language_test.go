package core

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTree creates a fixture tree from relative path -> content.
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		abs := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0o755))
		require.NoError(t, os.WriteFile(abs, []byte(content), 0o644))
	}
	return root
}

func walkFixture(t *testing.T, root string) []WalkedFile {
	t.Helper()
	tables := loadTables(t)
	files, err := WalkProject(root, tables)
	require.NoError(t, err)
	return files
}

func pyLines(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteString("x = 1\n")
	}
	return b.String()
}

func TestDetectShares(t *testing.T) {
	root := writeTree(t, map[string]string{
		"src/main.py":   pyLines(60),
		"src/app.ts":    strings.Repeat("const x = 1;\n", 30),
		"src/style.css": strings.Repeat("body { margin: 0; }\n", 10),
		"README.md":     "# readme\n",
	})
	d := NewLanguageDetector(loadTables(t))
	files := walkFixture(t, root)

	loc := d.CountLOC(files)
	shares := d.DetectShares(loc)

	assert.Equal(t, 60, loc["Python"])
	assert.Equal(t, 60.0, shares["Python"])
	assert.Equal(t, 30.0, shares["TypeScript"])
	assert.Equal(t, 10.0, shares["CSS"])

	total := 0.0
	for _, pct := range shares {
		total += pct
	}
	assert.InDelta(t, 100, total, 0.5)
}

func TestDetectSharesSkipsIgnoredAndHidden(t *testing.T) {
	root := writeTree(t, map[string]string{
		"src/app.ts":          strings.Repeat("const x = 1;\n", 100),
		"node_modules/big.js": strings.Repeat("var y = 2;\n", 10000),
		"src/.hidden.py":      pyLines(50),
	})
	d := NewLanguageDetector(loadTables(t))
	files := walkFixture(t, root)

	shares := d.DetectShares(d.CountLOC(files))
	assert.Equal(t, map[string]float64{"TypeScript": 100.0}, shares)
}

func TestDetectSharesEmpty(t *testing.T) {
	root := writeTree(t, map[string]string{"notes": "plain text\n"})
	d := NewLanguageDetector(loadTables(t))
	shares := d.DetectShares(d.CountLOC(walkFixture(t, root)))
	assert.Empty(t, shares)
}

func TestRankedLanguages(t *testing.T) {
	shares := map[string]float64{"Python": 48.0, "TypeScript": 48.0, "CSS": 4.0}
	assert.Equal(t, []string{"Python", "TypeScript", "CSS"}, RankedLanguages(shares))
}

func TestLanguageOf(t *testing.T) {
	d := NewLanguageDetector(loadTables(t))
	assert.Equal(t, "Python", d.LanguageOf("src/main.py"))
	assert.Equal(t, "Unknown", d.LanguageOf("src/main.unknownext"))
}
