package core

import (
	"math"
	"path"
	"strings"
	"unicode"

	"github.com/skillsift/skillsift/internal/ruleset"
	"github.com/skillsift/skillsift/schema"
)

// Categorizer classifies files into the closed category set using the
// loaded rule tables. Rules apply in a fixed priority order: ignore rules,
// test-name rules, configured categories, no-extension rules, then "other".
type Categorizer struct {
	tables *ruleset.Tables
}

// NewCategorizer returns a Categorizer over the given rule tables.
func NewCategorizer(tables *ruleset.Tables) *Categorizer {
	return &Categorizer{tables: tables}
}

// Classify resolves the category for one file. relPath uses forward slashes;
// language is the detected language or "Unknown".
func (c *Categorizer) Classify(relPath, language string) schema.Category {
	filename := path.Base(relPath)
	lowerName := strings.ToLower(filename)
	ext := extOf(filename)

	// 1. Ignore rules. Mac archive noise is always ignored.
	if isMacNoise(relPath, lowerName) || c.isIgnored(relPath, lowerName, ext) {
		return schema.IgnoredCategory
	}

	// 2. Test-name rules beat every extension-based rule.
	if isTestName(filename, lowerName, ext) {
		return schema.TestCategory
	}

	// 3. Configured categories, first match wins in table order.
	lowerPath := strings.ToLower(relPath)
	for _, rule := range c.tables.Categories {
		if matchesCategory(&rule, lowerPath, lowerName, ext, language) {
			return rule.Name
		}
	}

	// 4. Extensionless files fall through name-based rules, then length.
	if ext == "" {
		return c.classifyNoExtension(filename)
	}

	// 5. Canonical fallback.
	return schema.OtherCategory
}

// ComputeCategoryMetrics classifies all files and returns counts plus
// integer percentages summing to 100 up to rounding.
func (c *Categorizer) ComputeCategoryMetrics(files []schema.FileEntry) (map[schema.Category]int, map[schema.Category]int) {
	counts := make(map[schema.Category]int)
	for _, f := range files {
		counts[f.Category]++
	}

	total := 0
	for _, n := range counts {
		total += n
	}
	percentages := make(map[schema.Category]int, len(counts))
	if total == 0 {
		return counts, percentages
	}
	for cat, n := range counts {
		percentages[cat] = int(math.Round(float64(n) / float64(total) * 100))
	}
	return counts, percentages
}

func (c *Categorizer) isIgnored(relPath, lowerName, ext string) bool {
	for _, part := range strings.Split(strings.ToLower(relPath), "/") {
		if _, ok := c.tables.IgnoredDirs[part]; ok {
			return true
		}
	}
	if _, ok := c.tables.IgnoredExtensions[ext]; ok {
		return true
	}
	for suffix := range c.tables.IgnoredSuffixes {
		if strings.HasSuffix(lowerName, suffix) {
			return true
		}
	}
	_, ok := c.tables.IgnoredFilenames[lowerName]
	return ok
}

func (c *Categorizer) classifyNoExtension(filename string) schema.Category {
	lowerName := strings.ToLower(filename)
	for _, rule := range c.tables.NoExtensionRules {
		for _, fragment := range rule.Filenames {
			if strings.Contains(lowerName, fragment) {
				return rule.Name
			}
		}
	}
	// Length fallback: short names read like docs, lowercase mid-length
	// names like config, everything else like a binary artifact.
	switch {
	case len(filename) < 20:
		return schema.DocsCategory
	case len(filename) < 40 && !hasUpper(filename):
		return schema.ConfigCategory
	default:
		return schema.BinaryCategory
	}
}

func matchesCategory(rule *ruleset.CategoryRule, lowerPath, lowerName, ext, language string) bool {
	for _, pattern := range rule.PathPatterns {
		if strings.Contains(lowerPath, pattern) {
			return true
		}
	}
	if _, ok := rule.Languages[language]; ok {
		return true
	}
	if _, ok := rule.Extensions[ext]; ok {
		return true
	}
	for _, fragment := range rule.Filenames {
		if strings.Contains(lowerName, fragment) {
			return true
		}
	}
	return false
}

// isTestName applies the test-name rules: a token equal to test/tests after
// splitting on non-alphanumerics and camelCase, a test_ prefix, a
// _test.<ext> suffix, or a .test./.spec./.fixture. infix.
func isTestName(filename, lowerName, ext string) bool {
	if strings.HasPrefix(lowerName, "test_") {
		return true
	}
	if ext != "" && strings.HasSuffix(lowerName, "_test."+ext) {
		return true
	}
	for _, infix := range []string{".test.", ".spec.", ".fixture."} {
		if strings.Contains(lowerName, infix) {
			return true
		}
	}
	stem := strings.TrimSuffix(filename, path.Ext(filename))
	for _, token := range tokenize(stem) {
		if token == "test" || token == "tests" {
			return true
		}
	}
	return false
}

// tokenize splits a filename stem on non-alphanumerics and camelCase
// boundaries, lowercasing the result.
func tokenize(stem string) []string {
	var tokens []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, strings.ToLower(current.String()))
			current.Reset()
		}
	}

	var prev rune
	for _, r := range stem {
		switch {
		case !unicode.IsLetter(r) && !unicode.IsDigit(r):
			flush()
		case unicode.IsUpper(r) && unicode.IsLower(prev):
			flush()
			current.WriteRune(r)
		default:
			current.WriteRune(r)
		}
		prev = r
	}
	flush()
	return tokens
}

func isMacNoise(relPath, lowerName string) bool {
	if lowerName == ".ds_store" || strings.HasPrefix(lowerName, "._") {
		return true
	}
	for _, part := range strings.Split(relPath, "/") {
		if part == "__MACOSX" {
			return true
		}
	}
	return false
}

func extOf(filename string) string {
	ext := path.Ext(filename)
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

func hasUpper(s string) bool {
	for _, r := range s {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}
