package core

import (
	"encoding/json"
	"io"
	"os"
	"path"
	"regexp"
	"sort"
	"strings"

	"github.com/skillsift/skillsift/internal/contract"
	"github.com/skillsift/skillsift/internal/ruleset"
	"github.com/skillsift/skillsift/schema"
)

// Read caps. Manifests get a generous cap; snippet scans only look at the
// head of each source file.
const (
	manifestReadCap = 1_000_000
	snippetReadCap  = 4096
)

var (
	requirementsRx = regexp.MustCompile(`^requirements.*\.txt$`)
	poetryTableRx  = regexp.MustCompile(`(?i)\[tool\.poetry\]`)
	pytestWordRx   = regexp.MustCompile(`(?i)\bpytest\b`)
	springGroupRx  = regexp.MustCompile(`<\s*groupid\s*>\s*org\.springframework\s*<\s*/\s*groupid\s*>`)
	springArtRx    = regexp.MustCompile(`<\s*artifactid\s*>\s*spring-[^<]+<\s*/\s*artifactid\s*>`)
	junitWordRx    = regexp.MustCompile(`(?i)\bjunit\b`)
	springBootRx   = regexp.MustCompile(`(?i)spring-boot`)
	aspNetRx       = regexp.MustCompile(`(?i)Microsoft\.AspNet`)
)

// ScanResult bundles the evidence scanner's outputs.
type ScanResult struct {
	Evidence        []schema.Evidence
	Dependencies    []string // matched dependency tokens, sorted unique
	DependencyFiles []string // manifest paths that produced evidence
	BuildTools      []string // build-tool skills observed, sorted unique
}

// EvidenceScanner walks the scanned files once and emits skill evidence
// from extensions, config filenames, dependency manifests, and source
// snippets.
type EvidenceScanner struct {
	tables   *ruleset.Tables
	detector *LanguageDetector
}

// NewEvidenceScanner returns a scanner over the loaded rule tables.
func NewEvidenceScanner(tables *ruleset.Tables) *EvidenceScanner {
	return &EvidenceScanner{tables: tables, detector: NewLanguageDetector(tables)}
}

// Scan produces evidence for every non-ignored file. Each file is read at
// most once; all patterns run against the same buffer.
func (s *EvidenceScanner) Scan(files []WalkedFile, entries []schema.FileEntry) *ScanResult {
	result := &ScanResult{}
	deps := make(map[string]struct{})
	depFiles := make(map[string]struct{})
	buildTools := make(map[string]struct{})

	categoryOf := make(map[string]schema.Category, len(entries))
	for _, e := range entries {
		categoryOf[e.RelPath] = e.Category
	}

	for _, f := range files {
		if categoryOf[f.RelPath] == schema.IgnoredCategory {
			continue
		}
		base := path.Base(f.RelPath)
		lang := s.detector.LanguageOf(f.RelPath)

		// Extension evidence for taxonomy languages.
		if lang != "Unknown" && s.tables.InTaxonomy(lang) {
			result.add(schema.Evidence{
				Skill: lang, Source: schema.FileExtensionSource,
				Raw: base, Path: f.RelPath, Weight: 0.60,
			})
		}

		// Known config filenames.
		for _, hint := range s.tables.ConfigHints {
			if hint.Pattern.MatchString(base) {
				result.add(schema.Evidence{
					Skill: hint.Skill, Source: hint.Source,
					Raw: base, Path: f.RelPath, Weight: hint.Weight,
				})
			}
		}

		if scanner := manifestScannerFor(base); scanner != nil {
			text, ok := readHead(f.AbsPath, manifestReadCap)
			if !ok {
				contract.LogWarn("cannot read manifest %s", f.RelPath)
				continue
			}
			before := len(result.Evidence)
			scanner(s, f.RelPath, text, result, deps)
			if len(result.Evidence) > before {
				depFiles[f.RelPath] = struct{}{}
			}
			continue
		}

		// Snippet patterns, scoped by the file's language.
		s.scanSnippets(f, lang, result)
	}

	for _, ev := range result.Evidence {
		if ev.Source == schema.BuildToolSource {
			buildTools[ev.Skill] = struct{}{}
		}
	}
	result.Dependencies = sortedKeys(deps)
	result.DependencyFiles = sortedKeys(depFiles)
	result.BuildTools = sortedKeys(buildTools)
	return result
}

func (r *ScanResult) add(ev schema.Evidence) {
	r.Evidence = append(r.Evidence, ev)
}

// scanSnippets reads the head of a source file and applies the patterns
// allowed for its language. Match counts feed the evidence weight.
func (s *EvidenceScanner) scanSnippets(f WalkedFile, lang string, result *ScanResult) {
	applicable := make([]*ruleset.SnippetPattern, 0, 4)
	for i := range s.tables.SnippetPatterns {
		pattern := &s.tables.SnippetPatterns[i]
		if len(pattern.Languages) == 0 {
			applicable = append(applicable, pattern)
			continue
		}
		if _, ok := pattern.Languages[lang]; ok {
			applicable = append(applicable, pattern)
		}
	}
	if len(applicable) == 0 {
		return
	}

	text, ok := readHead(f.AbsPath, snippetReadCap)
	if !ok {
		return
	}
	for _, pattern := range applicable {
		matches := pattern.Pattern.FindAllStringIndex(text, -1)
		if len(matches) == 0 {
			continue
		}
		weight := pattern.Weight
		if pattern.Source == schema.SnippetPatternSource {
			weight = min(1.0, 0.3+0.1*float64(len(matches)))
		}
		result.add(schema.Evidence{
			Skill:  pattern.Skill,
			Source: pattern.Source,
			Raw:    pattern.Pattern.String(),
			Path:   f.RelPath,
			Weight: weight,
		})
	}
}

type manifestScanner func(s *EvidenceScanner, relPath, text string, result *ScanResult, deps map[string]struct{})

func manifestScannerFor(base string) manifestScanner {
	lower := strings.ToLower(base)
	switch {
	case base == "package.json":
		return (*EvidenceScanner).scanPackageJSON
	case requirementsRx.MatchString(base):
		return (*EvidenceScanner).scanRequirements
	case base == "pyproject.toml":
		return (*EvidenceScanner).scanPyproject
	case lower == "pom.xml":
		return (*EvidenceScanner).scanMaven
	case base == "build.gradle" || base == "build.gradle.kts":
		return (*EvidenceScanner).scanGradle
	case base == "go.mod":
		return (*EvidenceScanner).scanGoMod
	case base == "Cargo.toml":
		return (*EvidenceScanner).scanCargo
	case strings.HasSuffix(lower, ".csproj"):
		return (*EvidenceScanner).scanCsproj
	case base == "composer.json":
		return (*EvidenceScanner).scanComposer
	default:
		return nil
	}
}

// scanPackageJSON parses the manifest as JSON and applies the dependency
// table to each dependency name, plus substring hints from scripts.
func (s *EvidenceScanner) scanPackageJSON(relPath, text string, result *ScanResult, deps map[string]struct{}) {
	var manifest struct {
		Dependencies    map[string]string `json:"dependencies"`
		DevDependencies map[string]string `json:"devDependencies"`
		Scripts         map[string]string `json:"scripts"`
	}
	if err := json.Unmarshal([]byte(text), &manifest); err != nil {
		contract.LogWarn("malformed package.json at %s: %v", relPath, err)
		return
	}

	for _, depMap := range []map[string]string{manifest.Dependencies, manifest.DevDependencies} {
		for name := range depMap {
			for _, dp := range s.tables.DependencyPatterns {
				if dp.Pattern.MatchString(name) {
					deps[name] = struct{}{}
					result.add(schema.Evidence{
						Skill: dp.Skill, Source: schema.DependencySource,
						Raw: "dep:" + name, Path: relPath, Weight: 0.80,
					})
				}
			}
		}
	}

	scriptHints := []struct {
		token  string
		skill  string
		source schema.EvidenceSource
		weight float64
	}{
		{"jest", "Jest", schema.TestFrameworkSource, 0.70},
		{"vitest", "Vitest", schema.TestFrameworkSource, 0.70},
		{"eslint", "ESLint", schema.LinterConfigSource, 0.65},
		{"prettier", "Prettier", schema.LinterConfigSource, 0.65},
		{"docker", "Docker", schema.BuildToolSource, 0.60},
	}
	for _, script := range manifest.Scripts {
		for _, hint := range scriptHints {
			if strings.Contains(script, hint.token) {
				result.add(schema.Evidence{
					Skill: hint.skill, Source: hint.source,
					Raw: "script:" + script, Path: relPath, Weight: hint.weight,
				})
			}
		}
	}
}

func (s *EvidenceScanner) scanRequirements(relPath, text string, result *ScanResult, deps map[string]struct{}) {
	s.applyDependencyTable(relPath, "requirements", text, 0.80, result, deps)
	if pytestWordRx.MatchString(text) {
		result.add(schema.Evidence{
			Skill: "PyTest", Source: schema.TestFrameworkSource,
			Raw: "requirements:pytest", Path: relPath, Weight: 0.75,
		})
	}
}

func (s *EvidenceScanner) scanPyproject(relPath, text string, result *ScanResult, deps map[string]struct{}) {
	if poetryTableRx.MatchString(text) {
		result.add(schema.Evidence{
			Skill: "Poetry", Source: schema.BuildToolSource,
			Raw: "pyproject.toml", Path: relPath, Weight: 0.70,
		})
	}
	s.applyDependencyTable(relPath, "pyproject", text, 0.75, result, deps)
}

// scanMaven emits Maven itself, Spring from the group or starter artifact,
// and JUnit explicitly or as a lower-weight assumption. Most Maven Java
// projects use JUnit even when the pom never names it.
func (s *EvidenceScanner) scanMaven(relPath, text string, result *ScanResult, _ map[string]struct{}) {
	result.add(schema.Evidence{
		Skill: "Maven", Source: schema.BuildToolSource,
		Raw: "pom.xml", Path: relPath, Weight: 0.70,
	})

	lower := strings.ToLower(text)
	if springGroupRx.MatchString(lower) || springArtRx.MatchString(lower) {
		result.add(schema.Evidence{
			Skill: "Spring", Source: schema.DependencySource,
			Raw: "pom.xml:spring", Path: relPath, Weight: 0.85,
		})
	}

	if junitWordRx.MatchString(text) {
		result.add(schema.Evidence{
			Skill: "JUnit", Source: schema.TestFrameworkSource,
			Raw: "pom.xml:junit", Path: relPath, Weight: 0.75,
		})
	} else {
		result.add(schema.Evidence{
			Skill: "JUnit", Source: schema.HeuristicSource,
			Raw: "pom.xml:assumed-test-framework", Path: relPath, Weight: 0.55,
		})
	}
}

func (s *EvidenceScanner) scanGradle(relPath, text string, result *ScanResult, _ map[string]struct{}) {
	result.add(schema.Evidence{
		Skill: "Gradle", Source: schema.BuildToolSource,
		Raw: path.Base(relPath), Path: relPath, Weight: 0.75,
	})
	if springBootRx.MatchString(text) {
		result.add(schema.Evidence{
			Skill: "Spring", Source: schema.DependencySource,
			Raw: "gradle:spring-boot", Path: relPath, Weight: 0.80,
		})
	}
	if junitWordRx.MatchString(text) {
		result.add(schema.Evidence{
			Skill: "JUnit", Source: schema.TestFrameworkSource,
			Raw: "gradle:junit", Path: relPath, Weight: 0.70,
		})
	}
}

func (s *EvidenceScanner) scanGoMod(relPath, _ string, result *ScanResult, _ map[string]struct{}) {
	result.add(schema.Evidence{
		Skill: "Go", Source: schema.BuildToolSource,
		Raw: "go.mod", Path: relPath, Weight: 0.60,
	})
}

func (s *EvidenceScanner) scanCargo(relPath, _ string, result *ScanResult, _ map[string]struct{}) {
	result.add(schema.Evidence{
		Skill: "Rust", Source: schema.BuildToolSource,
		Raw: "Cargo.toml", Path: relPath, Weight: 0.60,
	})
}

func (s *EvidenceScanner) scanCsproj(relPath, text string, result *ScanResult, _ map[string]struct{}) {
	result.add(schema.Evidence{
		Skill: ".NET", Source: schema.BuildToolSource,
		Raw: path.Base(relPath), Path: relPath, Weight: 0.70,
	})
	if aspNetRx.MatchString(text) {
		result.add(schema.Evidence{
			Skill: "ASP.NET", Source: schema.DependencySource,
			Raw: "csproj:aspnet", Path: relPath, Weight: 0.80,
		})
	}
}

func (s *EvidenceScanner) scanComposer(relPath, text string, result *ScanResult, deps map[string]struct{}) {
	s.applyDependencyTable(relPath, "composer", text, 0.75, result, deps)
}

// applyDependencyTable runs every dependency regex over a manifest's text.
func (s *EvidenceScanner) applyDependencyTable(relPath, label, text string, weight float64, result *ScanResult, deps map[string]struct{}) {
	for _, dp := range s.tables.DependencyPatterns {
		if match := dp.Pattern.FindString(text); match != "" {
			deps[strings.ToLower(strings.TrimSpace(match))] = struct{}{}
			result.add(schema.Evidence{
				Skill: dp.Skill, Source: schema.DependencySource,
				Raw: label + ":" + dp.Pattern.String(), Path: relPath, Weight: weight,
			})
		}
	}
}

// readHead reads up to cap bytes of a file and decodes it as UTF-8 with
// replacement.
func readHead(absPath string, limit int) (string, bool) {
	f, err := os.Open(absPath)
	if err != nil {
		return "", false
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(io.LimitReader(f, int64(limit)))
	if err != nil {
		return "", false
	}
	return decodeText(data), true
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
