package core

import (
	"fmt"
	"os"
	"path"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/skillsift/skillsift/schema"
)

var (
	backendLangs  = map[string]struct{}{"Python": {}, "Java": {}, "C#": {}, "Go": {}, "Rust": {}, "PHP": {}, "Ruby": {}}
	frontendLangs = map[string]struct{}{"JavaScript": {}, "TypeScript": {}}
	frontendSkls  = map[string]struct{}{"React": {}, "Next.js": {}, "Angular": {}, "Vue": {}, "Svelte": {}}
	databaseSkls  = map[string]struct{}{"PostgreSQL": {}, "MySQL": {}, "SQLite": {}, "MongoDB": {}, "Redis": {}}

	readmeWordRx = regexp.MustCompile(`[A-Za-z][A-Za-z0-9+#.-]{2,}`)

	readmeStopwords = map[string]struct{}{
		"the": {}, "and": {}, "for": {}, "with": {}, "this": {}, "that": {},
		"you": {}, "your": {}, "can": {}, "are": {}, "from": {}, "will": {},
		"have": {}, "has": {}, "how": {}, "run": {}, "use": {}, "using": {},
		"all": {}, "its": {}, "not": {}, "see": {}, "into": {}, "more": {},
	}
)

const (
	readmeReadCap    = 4096
	maxReadmeKeyword = 10
)

// TechProfiler derives boolean stack flags, readme keywords, filesystem
// metadata, and resume text from the earlier analysers' outputs.
type TechProfiler struct {
	now func() time.Time
}

// NewTechProfiler returns a profiler using wall-clock time.
func NewTechProfiler() *TechProfiler {
	return &TechProfiler{now: time.Now}
}

// Apply fills the tech flags, metadata, bullets, and summary on a project
// whose categories, languages, and skill profile are already populated.
func (t *TechProfiler) Apply(project *schema.Project, files []WalkedFile, stats *CodeStats) {
	skills := make(map[string]struct{}, len(project.SkillProfile))
	for _, item := range project.SkillProfile {
		skills[item.Skill] = struct{}{}
	}
	langs := make(map[string]struct{}, len(project.Languages))
	for _, lang := range project.Languages {
		langs[lang] = struct{}{}
	}

	project.HasDockerfile = stats.Docker.Dockerfiles > 0 || stats.Docker.ComposeFiles > 0
	project.HasDatabase = anyInSet(skills, databaseSkls)
	project.HasFrontend = anyInSet(langs, frontendLangs) || anyInSet(skills, frontendSkls)
	project.HasBackend = anyInSet(langs, backendLangs)
	project.HasTestFiles = project.Categories[schema.TestCategory] > 0

	t.applyMetadata(project, files)
	t.applyReadme(project, files)
	project.Bullets = buildBullets(project)
	project.Summary = buildSummary(project)
}

// applyMetadata fills file count, total size, and the filesystem-derived
// date range (earliest and latest mtimes across the tree).
func (t *TechProfiler) applyMetadata(project *schema.Project, files []WalkedFile) {
	project.FileCount = len(files)

	var totalBytes int64
	var earliest, latest time.Time
	for _, f := range files {
		totalBytes += f.Size
		info, err := os.Stat(f.AbsPath)
		if err != nil {
			continue
		}
		mtime := info.ModTime()
		if earliest.IsZero() || mtime.Before(earliest) {
			earliest = mtime
		}
		if mtime.After(latest) {
			latest = mtime
		}
	}
	project.SizeKB = float64(totalBytes) / 1024

	if !earliest.IsZero() {
		project.DateCreated = earliest
		project.LastModified = latest
	}
	project.LastAccessed = t.now()
}

// applyReadme detects a root readme, reads its head, and extracts the most
// frequent non-stopword tokens as keywords.
func (t *TechProfiler) applyReadme(project *schema.Project, files []WalkedFile) {
	for _, f := range files {
		if strings.Contains(f.RelPath, "/") {
			continue
		}
		stem := strings.ToLower(strings.TrimSuffix(f.RelPath, path.Ext(f.RelPath)))
		if stem != "readme" {
			continue
		}
		project.HasReadme = true
		if text, ok := readHead(f.AbsPath, readmeReadCap); ok {
			project.ReadmeKeywords = extractKeywords(text)
		}
		return
	}
}

func extractKeywords(text string) []string {
	counts := make(map[string]int)
	for _, word := range readmeWordRx.FindAllString(text, -1) {
		lower := strings.ToLower(word)
		if _, stop := readmeStopwords[lower]; stop {
			continue
		}
		counts[lower]++
	}

	words := make([]string, 0, len(counts))
	for word := range counts {
		words = append(words, word)
	}
	sort.Slice(words, func(i, j int) bool {
		if counts[words[i]] != counts[words[j]] {
			return counts[words[i]] > counts[words[j]]
		}
		return words[i] < words[j]
	})
	if len(words) > maxReadmeKeyword {
		words = words[:maxReadmeKeyword]
	}
	return words
}

// buildBullets produces up to six resume bullet points from the counts and
// contributor data already on the project.
func buildBullets(project *schema.Project) []string {
	codeFiles := project.Categories[schema.CodeCategory]
	docFiles := project.Categories[schema.DocsCategory]
	testFiles := project.Categories[schema.TestCategory]
	configFiles := project.Categories[schema.ConfigCategory]

	topLangs := "multiple languages"
	if len(project.Languages) > 0 {
		n := min(2, len(project.Languages))
		topLangs = strings.Join(project.Languages[:n], ", ")
	}

	bullets := []string{
		fmt.Sprintf("Developed a project using %s, including %d source code files.", topLangs, codeFiles),
	}
	if docFiles > 0 || testFiles > 0 {
		bullets = append(bullets, fmt.Sprintf(
			"Created %d documentation files and %d automated tests to improve clarity and reliability.",
			docFiles, testFiles))
	}
	if months := projectMonths(project); months > 0 {
		bullets = append(bullets, fmt.Sprintf(
			"Completed over a %.1f-month development period with consistent iteration.", months))
	}
	if project.AuthorCount > 1 {
		bullets = append(bullets, fmt.Sprintf(
			"Collaborated with a team of %d developers using Git-based workflows.", project.AuthorCount))
	} else {
		bullets = append(bullets, "Individually designed and implemented all project components.")
	}
	if configFiles > 0 {
		bullets = append(bullets, fmt.Sprintf(
			"Organized the project with %d configuration files and structured directories.", configFiles))
	}
	if len(bullets) > 6 {
		bullets = bullets[:6]
	}
	return bullets
}

func buildSummary(project *schema.Project) string {
	topLangs := "multiple languages"
	if len(project.Languages) > 0 {
		n := min(4, len(project.Languages))
		topLangs = strings.Join(project.Languages[:n], ", ")
	}

	durationText := ""
	if months := projectMonths(project); months > 0 {
		durationText = fmt.Sprintf(" over %.1f months", months)
	}

	totalFiles := 0
	for _, n := range project.Categories {
		totalFiles += n
	}

	var b strings.Builder
	fmt.Fprintf(&b, "This project was built using %s%s. ", topLangs, durationText)
	fmt.Fprintf(&b, "It consists of %d total files, including %d code modules, %d tests, and %d documentation files. ",
		totalFiles,
		project.Categories[schema.CodeCategory],
		project.Categories[schema.TestCategory],
		project.Categories[schema.DocsCategory])
	if project.AuthorCount > 1 {
		fmt.Fprintf(&b, "The project was developed collaboratively by a team of %d contributors.", project.AuthorCount)
	} else {
		b.WriteString("The project was developed independently.")
	}
	return b.String()
}

func projectMonths(project *schema.Project) float64 {
	if project.DateCreated.IsZero() || project.LastModified.IsZero() {
		return 0
	}
	days := project.LastModified.Sub(project.DateCreated).Hours() / 24
	if days <= 0 {
		return 0
	}
	return float64(int(days/30*10)) / 10
}

func anyInSet(have map[string]struct{}, want map[string]struct{}) bool {
	for key := range want {
		if _, ok := have[key]; ok {
			return true
		}
	}
	return false
}
