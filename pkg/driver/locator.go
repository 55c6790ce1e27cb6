package driver

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// Locator resolves import paths by searching a directory tree. A file
// matches when its path relative to the root equals the import path or
// ends with it on a directory boundary.
type Locator struct {
	root             string
	exclude          map[string]struct{}
	respectGitignore bool

	// ignore is loaded by the first search; nothing touches the tree
	// before an import asks for it.
	ignore gitignore.Matcher
}

// NewLocator prepares a search rooted at root. Directories named in exclude
// are never entered. When respectGitignore is set, .gitignore files under
// root are honoured as well.
func NewLocator(root string, exclude []string, respectGitignore bool) (*Locator, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("locator: resolve %s: %w", root, err)
	}
	l := &Locator{
		root:             absRoot,
		exclude:          make(map[string]struct{}, len(exclude)),
		respectGitignore: respectGitignore,
	}
	for _, name := range exclude {
		l.exclude[name] = struct{}{}
	}
	return l, nil
}

func (l *Locator) loadIgnore() error {
	if !l.respectGitignore || l.ignore != nil {
		return nil
	}
	patterns, err := gitignore.ReadPatterns(osfs.New(l.root), nil)
	if err != nil {
		return fmt.Errorf("locator: read ignore files under %s: %w", l.root, err)
	}
	l.ignore = gitignore.NewMatcher(patterns)
	return nil
}

// LocatorFromConfig builds the locator described by cfg.
func LocatorFromConfig(cfg *Config) (*Locator, error) {
	return NewLocator(cfg.ModuleRoot, cfg.Exclude, cfg.RespectGitignore)
}

// Root returns the absolute search root.
func (l *Locator) Root() string {
	return l.root
}

// Locate returns the single file matching importPath.
func (l *Locator) Locate(importPath string) (string, error) {
	matches, err := l.Matches(importPath)
	if err != nil {
		return "", err
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("Can't find '%s'.", importPath)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%d modules named '%s' found.", len(matches), importPath)
	}
}

// Matches lists every file under the root matching importPath, sorted.
func (l *Locator) Matches(importPath string) ([]string, error) {
	if err := l.loadIgnore(); err != nil {
		return nil, err
	}
	want := filepath.ToSlash(filepath.Clean(importPath))
	want = strings.TrimPrefix(want, "./")
	var matches []string
	err := filepath.WalkDir(l.root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if path == l.root {
			return nil
		}
		rel, err := filepath.Rel(l.root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			if _, skip := l.exclude[d.Name()]; skip || l.ignored(rel, true) {
				return filepath.SkipDir
			}
			return nil
		}
		if l.ignored(rel, false) {
			return nil
		}
		if rel == want || strings.HasSuffix(rel, "/"+want) {
			matches = append(matches, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("locator: walk %s: %w", l.root, err)
	}
	sort.Strings(matches)
	return matches, nil
}

func (l *Locator) ignored(rel string, isDir bool) bool {
	if l.ignore == nil {
		return false
	}
	return l.ignore.Match(strings.Split(rel, "/"), isDir)
}
