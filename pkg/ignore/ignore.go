// Package ignore provides gitignore-based file filtering using go-git
package ignore

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	gitignore "github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// Matcher provides gitignore-based file filtering for evidence scans.
type Matcher struct {
	matcher gitignore.Matcher
}

// NewMatcher creates a matcher with layered ignore sources:
// 1. built-in patterns for vendored/generated trees
// 2. .gitignore and related git ignore files
// 3. .hookwrightignore at the repository root
// 4. ~/.hookwright/.hookwrightignore (user overrides)
func NewMatcher(repoRoot string) *Matcher {
	fs := osfs.New(repoRoot)

	var patterns []gitignore.Pattern

	for _, p := range []string{".git/**", "node_modules/**", "vendor/**"} {
		patterns = append(patterns, gitignore.ParsePattern(p, nil))
	}

	if gitPatterns, err := gitignore.ReadPatterns(fs, nil); err == nil {
		patterns = append(patterns, gitPatterns...)
	}

	for _, p := range readIgnoreFile(filepath.Join(repoRoot, ".hookwrightignore")) {
		patterns = append(patterns, gitignore.ParsePattern(p, nil))
	}

	if homeDir, err := os.UserHomeDir(); err == nil {
		userIgnore := filepath.Join(homeDir, ".hookwright", ".hookwrightignore")
		for _, p := range readIgnoreFile(userIgnore) {
			patterns = append(patterns, gitignore.ParsePattern(p, nil))
		}
	}

	return &Matcher{matcher: gitignore.NewMatcher(patterns)}
}

// Match reports whether relPath (slash-separated, relative to the repo root)
// is ignored.
func (m *Matcher) Match(relPath string, isDir bool) bool {
	return m.matcher.Match(strings.Split(relPath, "/"), isDir)
}

// readIgnoreFile reads patterns from a .hookwrightignore-style text file.
func readIgnoreFile(path string) []string {
	if !strings.HasSuffix(filepath.Clean(path), string(os.PathSeparator)+".hookwrightignore") {
		return nil
	}
	content, err := os.ReadFile(filepath.Clean(path)) // #nosec G304 -- suffix allowlisted above
	if err != nil {
		return nil
	}

	var patterns []string
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	return patterns
}
