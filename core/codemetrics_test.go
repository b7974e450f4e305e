package core

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/skillsift/skillsift/schema"
)

func TestAnalyzeLinesPython(t *testing.T) {
	text := `# module comment
"""
Docstring block start
"""
def first(x):
    return x + 1

def second(y):
    # inner comment
    z = y * 2
    return z
`
	analysis := schema.CodeFileAnalysis{Language: "Python"}
	analyzeLines(&analysis, text)

	assert.Equal(t, 11, analysis.TotalLines)
	assert.Equal(t, 2, analysis.FunctionCount)
	assert.Equal(t, 1, analysis.BlankLines)
	// "#" lines plus both triple-quote delimiters count as comments.
	assert.Equal(t, 4, analysis.CommentLines)
	assert.Equal(t, 6, analysis.CodeLines)
	assert.Equal(t, 4, analysis.MaxFunctionLine)
}

func TestAnalyzeLinesJavaScript(t *testing.T) {
	text := `// header
function add(a, b) {
  return a + b;
}
const double = (x) => x * 2;
`
	analysis := schema.CodeFileAnalysis{Language: "JavaScript"}
	analyzeLines(&analysis, text)

	assert.Equal(t, 2, analysis.FunctionCount)
	assert.Equal(t, 1, analysis.CommentLines)
	assert.Equal(t, 4, analysis.CodeLines)
}

func TestIsFunctionStart(t *testing.T) {
	tests := []struct {
		line     string
		language string
		want     bool
	}{
		{"def run(self):", "Python", true},
		{"def broken", "Python", false},
		{"function main() {", "JavaScript", true},
		{"const f = () => 1;", "TypeScript", true},
		{"int main(int argc, char **argv) {", "C", true},
		{"public static void main(String[] args) {", "Java", true},
		{"return x;", "Java", false},
		{"handler(req) {", "Ruby", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, isFunctionStart(tt.line, tt.language), tt.line)
	}
}

func TestSummarize(t *testing.T) {
	analyses := []schema.CodeFileAnalysis{
		{Path: "a.py", Language: "Python", CodeLines: 80, CommentLines: 20, FunctionCount: 4, MaxFunctionLine: 30},
		{Path: "b.py", Language: "Python", CodeLines: 40, CommentLines: 0, FunctionCount: 2, MaxFunctionLine: 60},
		{Path: "test_a.py", Language: "Python", IsTest: true, CodeLines: 30, FunctionCount: 3, MaxFunctionLine: 10},
	}
	a := NewCodeMetricsAnalyzer(".")
	overall, perLang := a.Summarize(analyses)

	assert.Equal(t, 3, overall.FileCount)
	assert.Equal(t, 2, overall.CodeFileCount)
	assert.Equal(t, 1, overall.TestFileCount)
	assert.Equal(t, 150, overall.TotalLOC)
	assert.Equal(t, 60, overall.MaxFunctionLine)
	assert.Equal(t, 3.0, overall.AvgFunctions)
	// 20 / (20 + 150)
	assert.InDelta(t, 0.118, overall.CommentRatio, 0.001)
	assert.Equal(t, 0.5, overall.TestFileRatio)

	assert.Len(t, perLang, 1)
	assert.Equal(t, overall.TotalLOC, perLang["Python"].TotalLOC)
}

func TestSummarizeEmpty(t *testing.T) {
	a := NewCodeMetricsAnalyzer(".")
	overall, perLang := a.Summarize(nil)
	assert.Zero(t, overall.TotalLOC)
	assert.Zero(t, overall.CommentRatio)
	assert.Zero(t, overall.TestFileRatio)
	assert.Empty(t, perLang)
}

func TestAnalyzeSkipsNonCode(t *testing.T) {
	root := writeTree(t, map[string]string{
		"src/main.py": "def main():\n    pass\n",
		"README.md":   "# doc\n",
	})
	files := walkFixture(t, root)
	entries := []schema.FileEntry{
		{RelPath: "src/main.py", Language: "Python", Category: schema.CodeCategory},
		{RelPath: "README.md", Language: "Unknown", Category: schema.DocsCategory},
	}
	a := NewCodeMetricsAnalyzer(root)
	analyses := a.Analyze(files, entries)

	assert.Len(t, analyses, 1)
	assert.Equal(t, "src/main.py", analyses[0].Path)
	assert.Equal(t, 1, analyses[0].FunctionCount)
}
