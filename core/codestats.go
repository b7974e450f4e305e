package core

import (
	"path"
	"regexp"
	"strings"

	"github.com/skillsift/skillsift/internal/contract"
)

const statsReadCap = 262_144

var (
	pyDefRx       = regexp.MustCompile(`(?m)^\s*def\s+\w+\s*\(`)
	pyAsyncDefRx  = regexp.MustCompile(`(?m)^\s*async\s+def\s+\w+\s*\(`)
	pyClassRx     = regexp.MustCompile(`(?m)^\s*class\s+\w+\s*[(:]`)
	pyWithRx      = regexp.MustCompile(`(?m)^\s*with\s+`)
	pyDocQuoteRx  = regexp.MustCompile(`("""|''')`)
	pyTypedDefRx  = regexp.MustCompile(`def\s+\w+\s*\(([^)]*:)+[^)]*\)`)
	dockerFromRx  = regexp.MustCompile(`(?im)^\s*from\s+`)
	dockerAsRx    = regexp.MustCompile(`(?i)\bas\s+\w+\b`)
	healthcheckRx = regexp.MustCompile(`(?im)^\s*healthcheck\b`)
	composeNameRx = regexp.MustCompile(`^docker-compose\.(ya?ml|json)$`)
)

// PythonStats counts Python idiom usage across a project's .py files.
type PythonStats struct {
	Files       int
	Lines       int
	Defs        int
	AsyncDefs   int
	Classes     int
	WithBlocks  int
	DocQuotes   int
	TypeArrows  int
	TypedParams int
	TestFiles   int
}

// DockerStats counts Dockerfile features across a project.
type DockerStats struct {
	Dockerfiles  int
	ComposeFiles int
	Multistage   int
	Healthchecks int
}

// CodeStats carries the per-idiom counts the proficiency estimator needs.
type CodeStats struct {
	TotalFiles int
	Python     PythonStats
	Docker     DockerStats
}

// CollectStats reads Python sources and Dockerfiles and tallies idiom
// counts. Each relevant file is read once, capped at statsReadCap bytes.
func CollectStats(files []WalkedFile) *CodeStats {
	stats := &CodeStats{TotalFiles: len(files)}

	for _, f := range files {
		base := path.Base(f.RelPath)
		lowerBase := strings.ToLower(base)
		switch {
		case strings.HasSuffix(lowerBase, ".py"):
			text, ok := readHead(f.AbsPath, statsReadCap)
			if !ok {
				contract.LogWarn("cannot read %s", f.RelPath)
				continue
			}
			tallyPython(&stats.Python, f.RelPath, base, text)
		case lowerBase == "dockerfile" || strings.HasPrefix(lowerBase, "dockerfile."):
			text, ok := readHead(f.AbsPath, statsReadCap)
			if !ok {
				contract.LogWarn("cannot read %s", f.RelPath)
				continue
			}
			tallyDockerfile(&stats.Docker, text)
		case composeNameRx.MatchString(lowerBase):
			stats.Docker.ComposeFiles++
		}
	}
	return stats
}

func tallyPython(py *PythonStats, relPath, base, text string) {
	py.Files++
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			py.Lines++
		}
	}
	py.Defs += len(pyDefRx.FindAllStringIndex(text, -1))
	py.AsyncDefs += len(pyAsyncDefRx.FindAllStringIndex(text, -1))
	py.Classes += len(pyClassRx.FindAllStringIndex(text, -1))
	py.WithBlocks += len(pyWithRx.FindAllStringIndex(text, -1))
	py.DocQuotes += len(pyDocQuoteRx.FindAllStringIndex(text, -1))
	py.TypeArrows += strings.Count(text, "->")
	py.TypedParams += len(pyTypedDefRx.FindAllStringIndex(text, -1))
	if strings.HasPrefix(base, "test_") || strings.Contains(relPath, "/tests/") {
		py.TestFiles++
	}
}

func tallyDockerfile(dk *DockerStats, text string) {
	dk.Dockerfiles++
	if len(dockerFromRx.FindAllStringIndex(text, -1)) > 1 || dockerAsRx.MatchString(text) {
		dk.Multistage++
	}
	if healthcheckRx.MatchString(text) {
		dk.Healthchecks++
	}
}
