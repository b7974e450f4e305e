// Package core implements the project analysis pipeline: file
// categorization, language detection, code metrics, skill evidence
// extraction and aggregation, proficiency estimation, contribution
// analysis, and ranking.
package core

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/skillsift/skillsift/internal/ruleset"
	"github.com/skillsift/skillsift/schema"
)

// WalkedFile is one regular file discovered under a project root.
type WalkedFile struct {
	RelPath string // Forward-slash relative path
	AbsPath string
	Size    int64
}

// WalkProject enumerates regular files under root in a single pass.
// Directories named in the ignore table (and Mac archive noise) are pruned
// so their contents are never visited; ignored files at other levels are
// still returned and resolve to the ignored category downstream.
func WalkProject(root string, tables *ruleset.Tables) ([]WalkedFile, error) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, schema.ErrProjectInaccessible
	}

	var files []WalkedFile
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			// Unreadable subtree: skip it and keep going.
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		name := d.Name()
		if d.IsDir() {
			if path == root {
				return nil
			}
			if isPrunedDir(name, tables) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		fi, err := d.Info()
		var size int64
		if err == nil {
			size = fi.Size()
		}
		files = append(files, WalkedFile{
			RelPath: filepath.ToSlash(rel),
			AbsPath: path,
			Size:    size,
		})
		return nil
	})
	if err != nil {
		return nil, schema.ErrProjectInaccessible
	}
	return files, nil
}

func isPrunedDir(name string, tables *ruleset.Tables) bool {
	if name == "__MACOSX" {
		return true
	}
	_, ignored := tables.IgnoredDirs[strings.ToLower(name)]
	return ignored
}
