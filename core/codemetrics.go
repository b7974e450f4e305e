package core

import (
	"math"
	"os"
	"regexp"
	"strings"

	"github.com/skillsift/skillsift/internal/contract"
	"github.com/skillsift/skillsift/schema"
)

// Function-start heuristics. Line-level and intentionally naive; the goal
// is stable relative metrics, not a parser.
var (
	jsFuncCallRx  = regexp.MustCompile(`^\w+\s*\([^)]*\)\s*\{`)
	cFamilyFuncRx = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_<>,\s\*]*\([^)]*\)\s*\{`)
	genericFuncRx = regexp.MustCompile(`^\w+\s*\([^)]*\)\s*\{`)
)

// CodeMetricsAnalyzer computes per-file line and function metrics for
// files categorized as code or test.
type CodeMetricsAnalyzer struct {
	root string
}

// NewCodeMetricsAnalyzer returns an analyzer rooted at the project directory.
func NewCodeMetricsAnalyzer(root string) *CodeMetricsAnalyzer {
	return &CodeMetricsAnalyzer{root: root}
}

// Analyze computes metrics for every code or test file among the entries.
// Unreadable files are logged and contribute zeroed metrics.
func (a *CodeMetricsAnalyzer) Analyze(files []WalkedFile, entries []schema.FileEntry) []schema.CodeFileAnalysis {
	byPath := make(map[string]WalkedFile, len(files))
	for _, f := range files {
		byPath[f.RelPath] = f
	}

	var analyses []schema.CodeFileAnalysis
	for _, entry := range entries {
		if entry.Category != schema.CodeCategory && entry.Category != schema.TestCategory {
			continue
		}
		wf, ok := byPath[entry.RelPath]
		if !ok {
			continue
		}
		analysis := schema.CodeFileAnalysis{
			Path:           entry.RelPath,
			Language:       entry.Language,
			IsTest:         entry.Category == schema.TestCategory,
			SnippetMatches: make(map[string]int),
		}
		data, err := os.ReadFile(wf.AbsPath)
		if err != nil {
			contract.LogWarn("cannot read %s: %v", entry.RelPath, err)
			analyses = append(analyses, analysis)
			continue
		}
		analyzeLines(&analysis, decodeText(data))
		analyses = append(analyses, analysis)
	}
	return analyses
}

// analyzeLines fills line counts and function-block metrics.
func analyzeLines(analysis *schema.CodeFileAnalysis, text string) {
	lines := strings.Split(text, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	analysis.TotalLines = len(lines)

	inFunction := false
	currentLen := 0

	for _, line := range lines {
		stripped := strings.TrimSpace(line)
		switch {
		case stripped == "":
			analysis.BlankLines++
		case isCommentLine(stripped, analysis.Language):
			analysis.CommentLines++
		default:
			analysis.CodeLines++
		}

		if isFunctionStart(stripped, analysis.Language) {
			if inFunction && currentLen > analysis.MaxFunctionLine {
				analysis.MaxFunctionLine = currentLen
			}
			inFunction = true
			currentLen = 1
			analysis.FunctionCount++
		} else if inFunction {
			currentLen++
		}
	}
	if inFunction && currentLen > analysis.MaxFunctionLine {
		analysis.MaxFunctionLine = currentLen
	}
}

// isCommentLine is a line-level comment heuristic. Triple-quoted strings
// count as comments only for Python.
func isCommentLine(stripped, language string) bool {
	for _, prefix := range []string{"#", "//", "/*", "*/", "*"} {
		if strings.HasPrefix(stripped, prefix) {
			return true
		}
	}
	if language == "Python" {
		return strings.HasPrefix(stripped, `"""`) || strings.HasPrefix(stripped, "'''")
	}
	return false
}

func isFunctionStart(stripped, language string) bool {
	if stripped == "" {
		return false
	}
	switch language {
	case "Python":
		return strings.HasPrefix(stripped, "def ") &&
			strings.Contains(stripped, "(") && strings.Contains(stripped, ":")
	case "JavaScript", "TypeScript":
		if strings.HasPrefix(stripped, "function ") {
			return true
		}
		if jsFuncCallRx.MatchString(stripped) {
			return true
		}
		return strings.Contains(stripped, "=>") && !strings.Contains(stripped, "function")
	case "C", "C++", "Java", "C#":
		return cFamilyFuncRx.MatchString(stripped)
	default:
		return genericFuncRx.MatchString(stripped)
	}
}

// Summarize aggregates per-file analyses into an overall summary and one
// summary per language. Ratios are rounded to three decimals.
func (a *CodeMetricsAnalyzer) Summarize(analyses []schema.CodeFileAnalysis) (schema.CodeMetricsSummary, map[string]schema.CodeMetricsSummary) {
	overall := summarizeGroup(analyses)

	byLang := make(map[string][]schema.CodeFileAnalysis)
	for _, analysis := range analyses {
		lang := analysis.Language
		if lang == "" {
			lang = "Unknown"
		}
		byLang[lang] = append(byLang[lang], analysis)
	}
	perLanguage := make(map[string]schema.CodeMetricsSummary, len(byLang))
	for lang, group := range byLang {
		perLanguage[lang] = summarizeGroup(group)
	}
	return overall, perLanguage
}

func summarizeGroup(analyses []schema.CodeFileAnalysis) schema.CodeMetricsSummary {
	var s schema.CodeMetricsSummary
	totalFunctions := 0
	for _, analysis := range analyses {
		s.FileCount++
		if analysis.IsTest {
			s.TestFileCount++
		} else {
			s.CodeFileCount++
		}
		s.TotalLOC += analysis.CodeLines
		s.CommentLines += analysis.CommentLines
		s.BlankLines += analysis.BlankLines
		totalFunctions += analysis.FunctionCount
		if analysis.MaxFunctionLine > s.MaxFunctionLine {
			s.MaxFunctionLine = analysis.MaxFunctionLine
		}
	}
	if s.FileCount > 0 {
		s.AvgFunctions = round3(float64(totalFunctions) / float64(s.FileCount))
	}
	if s.CommentLines+s.TotalLOC > 0 {
		s.CommentRatio = round3(float64(s.CommentLines) / float64(s.CommentLines+s.TotalLOC))
	}
	s.TestFileRatio = round3(float64(s.TestFileCount) / math.Max(1, float64(s.CodeFileCount)))
	return s
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
