// Package discovery walks a project directory and returns the set of
// source files to analyze, honoring .gitignore and the project's
// configured include/exclude globs.
package discovery

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"
)

// skipDirs lists directory names that are never walked into.
var skipDirs = map[string]bool{
	".git":        true,
	"__pycache__": true,
	".venv":       true,
	"venv":        true,
	"env":         true,
	"node_modules": true,
	"dist":        true,
	"build":       true,
	".tox":        true,
	".mypy_cache": true,
	".pytest_cache": true,
}

// Result is the set of files discovered under a project root.
type Result struct {
	RootDir        string
	Files          []string // project-relative, "/"-separated paths
	ExcludedCount  int
	SymlinkCount   int
}

// Walker discovers Python source files in a directory tree.
type Walker struct {
	Include []string // doublestar globs; default ["**/*.py"]
	Exclude []string // doublestar globs, matched against the relative path
}

// NewWalker creates a Walker with the given include/exclude globs. An
// empty include list defaults to every .py file.
func NewWalker(include, exclude []string) *Walker {
	if len(include) == 0 {
		include = []string{"**/*.py"}
	}
	return &Walker{Include: include, Exclude: exclude}
}

// Discover walks rootDir recursively and returns every file matching the
// walker's include globs and not matching its exclude globs or the
// project's .gitignore.
func (w *Walker) Discover(rootDir string) (*Result, error) {
	info, err := os.Stat(rootDir)
	if err != nil {
		return nil, fmt.Errorf("cannot access root directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", rootDir)
	}

	var gitIgnore *ignore.GitIgnore
	gitignorePath := filepath.Join(rootDir, ".gitignore")
	if _, err := os.Stat(gitignorePath); err == nil {
		gitIgnore, err = ignore.CompileIgnoreFile(gitignorePath)
		if err != nil {
			return nil, fmt.Errorf("failed to parse .gitignore: %w", err)
		}
	}

	result := &Result{RootDir: rootDir}

	err = filepath.WalkDir(rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: skipping %s: %v\n", path, err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if d.Type()&fs.ModeSymlink != 0 {
			result.SymlinkCount++
			return nil
		}

		name := d.Name()
		if d.IsDir() {
			if name != "." && strings.HasPrefix(name, ".") {
				return fs.SkipDir
			}
			if skipDirs[name] {
				return fs.SkipDir
			}
			return nil
		}

		relPath, err := filepath.Rel(rootDir, path)
		if err != nil {
			return nil
		}
		relSlash := filepath.ToSlash(relPath)

		if !w.matchesInclude(relSlash) || w.matchesExclude(relSlash) {
			return nil
		}

		if gitIgnore != nil && gitIgnore.MatchesPath(relPath) {
			result.ExcludedCount++
			return nil
		}

		result.Files = append(result.Files, relSlash)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk error: %w", err)
	}

	return result, nil
}

func (w *Walker) matchesInclude(relPath string) bool {
	for _, pattern := range w.Include {
		if ok, _ := doublestar.Match(pattern, relPath); ok {
			return true
		}
	}
	return false
}

func (w *Walker) matchesExclude(relPath string) bool {
	for _, pattern := range w.Exclude {
		if ok, _ := doublestar.Match(pattern, relPath); ok {
			return true
		}
	}
	return false
}
