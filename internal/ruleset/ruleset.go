// Package ruleset loads the rule tables that drive file categorization,
// language detection, and skill evidence extraction. Defaults are embedded;
// any table can be overridden by dropping a file of the same name into a
// rules directory.
package ruleset

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/skillsift/skillsift/schema"
	"gopkg.in/yaml.v3"
)

//go:embed defaults/*.yml
var defaultsFS embed.FS

// Table file names recognized in a rules directory.
const (
	LanguagesFile  = "languages.yml"
	MarkupFile     = "markup_languages.yml"
	CategoriesFile = "categories.yml"
	IgnoredFile    = "ignored_directories.yml"
	PatternsFile   = "patterns.yml"
)

// CategoryRule is one category's matching configuration, in table order.
type CategoryRule struct {
	Name         schema.Category
	PathPatterns []string
	Extensions   map[string]struct{}
	Languages    map[string]struct{}
	Filenames    []string
}

// NoExtensionRule maps filename substrings to a category for extensionless files.
type NoExtensionRule struct {
	Name      schema.Category
	Filenames []string
}

// DependencyPattern maps a manifest token regex to a skill.
type DependencyPattern struct {
	Pattern *regexp.Regexp
	Skill   string
}

// SnippetPattern is a source-text idiom regex scoped to a language allow-list.
// An empty allow-list applies the pattern to every file.
type SnippetPattern struct {
	Pattern   *regexp.Regexp
	Skill     string
	Source    schema.EvidenceSource
	Weight    float64
	Languages map[string]struct{}
}

// ConfigHint matches a basename against a known config-file pattern.
type ConfigHint struct {
	Pattern *regexp.Regexp
	Skill   string
	Source  schema.EvidenceSource
	Weight  float64
}

// Tables holds every compiled rule table. Built once at startup, immutable after.
type Tables struct {
	Languages map[string][]string // language -> extensions (no dots, lowercase)
	Markup    map[string][]string

	ExtToLanguage map[string]string // reverse map over Languages

	Categories       []CategoryRule
	NoExtensionRules []NoExtensionRule

	IgnoredDirs       map[string]struct{}
	IgnoredExtensions map[string]struct{}
	IgnoredSuffixes   map[string]struct{} // compound suffixes such as ".min.js"
	IgnoredFilenames  map[string]struct{}

	Taxonomy           map[string]struct{} // languages + curated non-language skills
	DependencyPatterns []DependencyPattern
	SnippetPatterns    []SnippetPattern
	ConfigHints        []ConfigHint
}

// Load builds the rule tables. Files present in rulesDir override the
// embedded defaults; an empty rulesDir loads defaults only. Any malformed
// table returns an error wrapping schema.ErrConfigInvalid.
func Load(rulesDir string) (*Tables, error) {
	t := &Tables{
		ExtToLanguage:     make(map[string]string),
		IgnoredDirs:       make(map[string]struct{}),
		IgnoredExtensions: make(map[string]struct{}),
		IgnoredSuffixes:   make(map[string]struct{}),
		IgnoredFilenames:  make(map[string]struct{}),
		Taxonomy:          make(map[string]struct{}),
	}

	if err := t.loadLanguages(rulesDir); err != nil {
		return nil, err
	}
	if err := t.loadCategories(rulesDir); err != nil {
		return nil, err
	}
	if err := t.loadIgnored(rulesDir); err != nil {
		return nil, err
	}
	if err := t.loadPatterns(rulesDir); err != nil {
		return nil, err
	}
	return t, nil
}

// LanguageForExt resolves a file extension (with or without dot) to a language.
// Returns "Unknown" for unmapped extensions.
func (t *Tables) LanguageForExt(ext string) string {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if lang, ok := t.ExtToLanguage[ext]; ok {
		return lang
	}
	return "Unknown"
}

// InTaxonomy reports whether a skill name is part of the closed taxonomy.
func (t *Tables) InTaxonomy(skill string) bool {
	_, ok := t.Taxonomy[skill]
	return ok
}

// readTable returns the contents of one table file, preferring rulesDir.
func readTable(rulesDir, name string) ([]byte, error) {
	if rulesDir != "" {
		path := filepath.Join(rulesDir, name)
		if data, err := os.ReadFile(path); err == nil {
			return data, nil
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: reading %s: %v", schema.ErrConfigInvalid, path, err)
		}
	}
	data, err := defaultsFS.ReadFile("defaults/" + name)
	if err != nil {
		return nil, fmt.Errorf("%w: missing embedded table %s: %v", schema.ErrConfigInvalid, name, err)
	}
	return data, nil
}

type languageEntry struct {
	Extensions []string `yaml:"extensions"`
}

func (t *Tables) loadLanguages(rulesDir string) error {
	var langDoc struct {
		Languages map[string]languageEntry `yaml:"languages"`
	}
	if err := unmarshalTable(rulesDir, LanguagesFile, &langDoc); err != nil {
		return err
	}
	var markupDoc struct {
		MarkupLanguages map[string]languageEntry `yaml:"markup_languages"`
	}
	if err := unmarshalTable(rulesDir, MarkupFile, &markupDoc); err != nil {
		return err
	}

	t.Languages = make(map[string][]string, len(langDoc.Languages))
	for lang, entry := range langDoc.Languages {
		exts := normalizeExts(entry.Extensions)
		t.Languages[lang] = exts
		for _, ext := range exts {
			t.ExtToLanguage[ext] = lang
		}
		t.Taxonomy[lang] = struct{}{}
	}

	t.Markup = make(map[string][]string, len(markupDoc.MarkupLanguages))
	for lang, entry := range markupDoc.MarkupLanguages {
		t.Markup[lang] = normalizeExts(entry.Extensions)
	}

	if len(t.Languages) == 0 {
		return fmt.Errorf("%w: %s defines no languages", schema.ErrConfigInvalid, LanguagesFile)
	}
	return nil
}

type categoryEntry struct {
	PathPatterns   []string `yaml:"path_patterns"`
	Extensions     []string `yaml:"extensions"`
	Languages      []string `yaml:"languages"`
	Filenames      []string `yaml:"filenames"`
	LanguageSource string   `yaml:"language_source"`
}

func (t *Tables) loadCategories(rulesDir string) error {
	data, err := readTable(rulesDir, CategoriesFile)
	if err != nil {
		return err
	}

	// Categories are matched in table order, so decode through yaml.Node
	// to preserve the mapping's key order.
	var doc struct {
		Categories       yaml.Node                `yaml:"categories"`
		NoExtensionRules map[string]categoryEntry `yaml:"no_extension_rules"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: %s: %v", schema.ErrConfigInvalid, CategoriesFile, err)
	}
	if doc.Categories.Kind != yaml.MappingNode {
		return fmt.Errorf("%w: %s: categories must be a mapping", schema.ErrConfigInvalid, CategoriesFile)
	}

	for i := 0; i+1 < len(doc.Categories.Content); i += 2 {
		name := doc.Categories.Content[i].Value
		var entry categoryEntry
		if err := doc.Categories.Content[i+1].Decode(&entry); err != nil {
			return fmt.Errorf("%w: %s: category %s: %v", schema.ErrConfigInvalid, CategoriesFile, name, err)
		}

		cat := schema.Category(name)
		if _, ok := schema.ValidCategories[cat]; !ok {
			return fmt.Errorf("%w: %s: unknown category %q", schema.ErrConfigInvalid, CategoriesFile, name)
		}

		rule := CategoryRule{
			Name:         cat,
			PathPatterns: lowerAll(entry.PathPatterns),
			Extensions:   toSet(normalizeExts(entry.Extensions)),
			Languages:    toSet(entry.Languages),
			Filenames:    lowerAll(entry.Filenames),
		}
		switch entry.LanguageSource {
		case "languages":
			addKeys(rule.Languages, t.Languages)
		case "markup_languages":
			addKeys(rule.Languages, t.Markup)
		case "all":
			addKeys(rule.Languages, t.Languages)
			addKeys(rule.Languages, t.Markup)
		case "":
		default:
			return fmt.Errorf("%w: %s: category %s: bad language_source %q",
				schema.ErrConfigInvalid, CategoriesFile, name, entry.LanguageSource)
		}
		t.Categories = append(t.Categories, rule)
	}

	for name, entry := range doc.NoExtensionRules {
		cat := schema.Category(name)
		if _, ok := schema.ValidCategories[cat]; !ok {
			return fmt.Errorf("%w: %s: unknown no_extension category %q", schema.ErrConfigInvalid, CategoriesFile, name)
		}
		t.NoExtensionRules = append(t.NoExtensionRules, NoExtensionRule{
			Name:      cat,
			Filenames: lowerAll(entry.Filenames),
		})
	}
	return nil
}

func (t *Tables) loadIgnored(rulesDir string) error {
	var doc struct {
		IgnoredDirs       []string `yaml:"ignored_dirs"`
		IgnoredExtensions []string `yaml:"ignored_extensions"`
		IgnoredFilenames  []string `yaml:"ignored_filenames"`
	}
	if err := unmarshalTable(rulesDir, IgnoredFile, &doc); err != nil {
		return err
	}
	for _, d := range doc.IgnoredDirs {
		t.IgnoredDirs[strings.ToLower(d)] = struct{}{}
	}
	for _, e := range normalizeExts(doc.IgnoredExtensions) {
		// Entries like "min.js" are compound suffixes, not extensions;
		// they have to match against the whole filename.
		if strings.Contains(e, ".") {
			t.IgnoredSuffixes["."+e] = struct{}{}
		} else {
			t.IgnoredExtensions[e] = struct{}{}
		}
	}
	for _, f := range doc.IgnoredFilenames {
		t.IgnoredFilenames[strings.ToLower(f)] = struct{}{}
	}
	return nil
}

type dependencyEntry struct {
	Pattern string `yaml:"pattern"`
	Skill   string `yaml:"skill"`
}

type snippetEntry struct {
	Pattern   string   `yaml:"pattern"`
	Skill     string   `yaml:"skill"`
	Source    string   `yaml:"source"`
	Weight    float64  `yaml:"weight"`
	Languages []string `yaml:"languages"`
}

type configHintEntry struct {
	Pattern string  `yaml:"pattern"`
	Skill   string  `yaml:"skill"`
	Source  string  `yaml:"source"`
	Weight  float64 `yaml:"weight"`
}

func (t *Tables) loadPatterns(rulesDir string) error {
	var doc struct {
		Taxonomy     []string          `yaml:"taxonomy"`
		Dependencies []dependencyEntry `yaml:"dependencies"`
		Snippets     []snippetEntry    `yaml:"snippets"`
		ConfigHints  []configHintEntry `yaml:"config_hints"`
	}
	if err := unmarshalTable(rulesDir, PatternsFile, &doc); err != nil {
		return err
	}

	for _, skill := range doc.Taxonomy {
		t.Taxonomy[skill] = struct{}{}
	}

	for _, entry := range doc.Dependencies {
		rx, err := regexp.Compile(entry.Pattern)
		if err != nil {
			return fmt.Errorf("%w: %s: dependency pattern %q: %v", schema.ErrConfigInvalid, PatternsFile, entry.Pattern, err)
		}
		t.DependencyPatterns = append(t.DependencyPatterns, DependencyPattern{Pattern: rx, Skill: entry.Skill})
	}

	for _, entry := range doc.Snippets {
		rx, err := regexp.Compile(entry.Pattern)
		if err != nil {
			return fmt.Errorf("%w: %s: snippet pattern %q: %v", schema.ErrConfigInvalid, PatternsFile, entry.Pattern, err)
		}
		source := schema.EvidenceSource(entry.Source)
		if _, ok := schema.ValidEvidenceSources[source]; !ok {
			return fmt.Errorf("%w: %s: snippet source %q", schema.ErrConfigInvalid, PatternsFile, entry.Source)
		}
		weight := entry.Weight
		if weight == 0 {
			weight = 0.55
		}
		t.SnippetPatterns = append(t.SnippetPatterns, SnippetPattern{
			Pattern:   rx,
			Skill:     entry.Skill,
			Source:    source,
			Weight:    weight,
			Languages: toSet(entry.Languages),
		})
	}

	for _, entry := range doc.ConfigHints {
		rx, err := regexp.Compile(entry.Pattern)
		if err != nil {
			return fmt.Errorf("%w: %s: config hint %q: %v", schema.ErrConfigInvalid, PatternsFile, entry.Pattern, err)
		}
		source := schema.EvidenceSource(entry.Source)
		if _, ok := schema.ValidEvidenceSources[source]; !ok {
			return fmt.Errorf("%w: %s: config hint source %q", schema.ErrConfigInvalid, PatternsFile, entry.Source)
		}
		weight := entry.Weight
		if weight == 0 {
			weight = 0.70
		}
		t.ConfigHints = append(t.ConfigHints, ConfigHint{Pattern: rx, Skill: entry.Skill, Source: source, Weight: weight})
	}
	return nil
}

func unmarshalTable(rulesDir, name string, out any) error {
	data, err := readTable(rulesDir, name)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %s: %v", schema.ErrConfigInvalid, name, err)
	}
	return nil
}

func normalizeExts(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(e), "."))
		if e != "" {
			out = append(out, e)
		}
	}
	return out
}

func lowerAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, strings.ToLower(v))
	}
	return out
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

func addKeys[V any](set map[string]struct{}, m map[string]V) {
	for k := range m {
		set[k] = struct{}{}
	}
}
