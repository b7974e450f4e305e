package core

import (
	"math"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/skillsift/skillsift/internal/contract"
	"github.com/skillsift/skillsift/internal/ruleset"
	"github.com/skillsift/skillsift/schema"
)

// detectorIgnoredDirs is the fixed set of directory names the language
// detector never descends into, independent of the configurable ignore
// table: build outputs, dependency caches, and virtualenvs.
var detectorIgnoredDirs = map[string]struct{}{
	"node_modules": {}, ".git": {}, "__pycache__": {},
	".venv": {}, "venv": {}, "env": {},
	"dist": {}, "build": {}, "out": {}, "target": {},
	"vendor": {}, ".idea": {}, ".vscode": {}, "coverage": {},
}

// LanguageDetector maps extensions to languages and computes per-language
// LOC shares. Comment lines are counted along with code; stripping them
// would destabilize the shares across comment-style conventions.
type LanguageDetector struct {
	tables *ruleset.Tables
}

// NewLanguageDetector returns a detector over the loaded language table.
func NewLanguageDetector(tables *ruleset.Tables) *LanguageDetector {
	return &LanguageDetector{tables: tables}
}

// LanguageOf resolves the language for one relative path, or "Unknown".
func (d *LanguageDetector) LanguageOf(relPath string) string {
	return d.tables.LanguageForExt(path.Ext(relPath))
}

// CountLOC tallies non-blank lines per recognized language across the
// walked files.
func (d *LanguageDetector) CountLOC(files []WalkedFile) map[string]int {
	locPerLang := make(map[string]int)

	for _, f := range files {
		if d.skip(f.RelPath) {
			continue
		}
		lang := d.LanguageOf(f.RelPath)
		if lang == "Unknown" {
			continue
		}
		lines, err := countNonBlankLines(f.AbsPath)
		if err != nil {
			contract.LogWarn("cannot read %s: %v", f.RelPath, err)
			continue
		}
		if lines > 0 {
			locPerLang[lang] += lines
		}
	}
	return locPerLang
}

// DetectShares converts per-language LOC totals to percentages with one
// decimal. The result is empty when no recognized code was seen.
func (d *LanguageDetector) DetectShares(locPerLang map[string]int) map[string]float64 {
	total := 0
	for _, n := range locPerLang {
		total += n
	}
	shares := make(map[string]float64, len(locPerLang))
	if total == 0 {
		return shares
	}
	for lang, n := range locPerLang {
		shares[lang] = math.Round(float64(n)/float64(total)*1000) / 10
	}
	return shares
}

// RankedLanguages returns the share map's keys sorted by descending share,
// ties broken by name.
func RankedLanguages(shares map[string]float64) []string {
	langs := make([]string, 0, len(shares))
	for lang := range shares {
		langs = append(langs, lang)
	}
	sort.Slice(langs, func(i, j int) bool {
		if shares[langs[i]] != shares[langs[j]] {
			return shares[langs[i]] > shares[langs[j]]
		}
		return langs[i] < langs[j]
	})
	return langs
}

func (d *LanguageDetector) skip(relPath string) bool {
	parts := strings.Split(relPath, "/")
	name := parts[len(parts)-1]
	if strings.HasPrefix(name, ".") {
		return true
	}
	for _, part := range parts[:len(parts)-1] {
		if _, ok := detectorIgnoredDirs[strings.ToLower(part)]; ok {
			return true
		}
	}
	return false
}

// countNonBlankLines reads a file as UTF-8 with invalid bytes replaced and
// counts its non-blank lines.
func countNonBlankLines(absPath string) (int, error) {
	data, err := os.ReadFile(absPath)
	if err != nil {
		return 0, schema.ErrFileUnreadable
	}
	count := 0
	for _, line := range strings.Split(decodeText(data), "\n") {
		if strings.TrimSpace(line) != "" {
			count++
		}
	}
	return count, nil
}

// decodeText interprets bytes as UTF-8, replacing invalid sequences.
func decodeText(data []byte) string {
	return strings.ToValidUTF8(string(data), "�")
}
