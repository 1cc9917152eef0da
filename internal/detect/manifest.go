package detect

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hookwright/hookwright/pkg/safeio"
)

// ErrAmbiguousManifestDir is returned when multiple Cargo.toml directories
// exist and no override was supplied. The caller degrades the Rust section
// rather than guessing.
var ErrAmbiguousManifestDir = errors.New("multiple Cargo.toml directories found; use --manifest-dir to choose one")

// ErrNoCargoManifest is returned when no Cargo.toml exists in the repository.
var ErrNoCargoManifest = errors.New("no Cargo.toml found in repository")

// Selector chooses one entry from candidates in interactive mode. An
// implementation that cannot prompt should return ErrAmbiguousManifestDir.
type Selector interface {
	Select(prompt string, candidates []string) (int, error)
}

// ManifestDirBounds limits the fallback BFS for Cargo.toml directories.
type ManifestDirBounds struct {
	MaxDepth   int
	MaxEntries int
	SkipDirs   []string
}

// ResolveCargoManifestDir finds the directory whose Cargo.toml the Rust
// section should run against. Precedence: explicit override (validated to sit
// inside the repo), manifests on the cwd→root ancestor chain, then a bounded
// breadth-first search. A single candidate wins; multiple candidates require
// either an interactive selection or an explicit override.
func ResolveCargoManifestDir(override, cwd, repoRoot string, bounds ManifestDirBounds, selector Selector) (string, error) {
	if override != "" {
		return resolveOverride(repoRoot, override)
	}

	dirs := manifestDirsUpwards(cwd, repoRoot)
	if len(dirs) == 0 {
		dirs = manifestDirsBFS(repoRoot, bounds)
	}

	sort.Strings(dirs)
	dirs = dedupe(dirs)

	switch len(dirs) {
	case 0:
		return "", fmt.Errorf("%w at %s", ErrNoCargoManifest, repoRoot)
	case 1:
		return dirs[0], nil
	}

	if selector == nil {
		return "", ErrAmbiguousManifestDir
	}

	labels := make([]string, len(dirs))
	for i, dir := range dirs {
		labels[i] = relativeDisplay(repoRoot, dir)
	}
	idx, err := selector.Select("Multiple Cargo.toml files found. Which one should the hook use?", labels)
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(dirs) {
		return "", fmt.Errorf("invalid selection %d", idx)
	}
	return dirs[idx], nil
}

func resolveOverride(repoRoot, dir string) (string, error) {
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(repoRoot, dir)
	}
	if err := safeio.EnsureWithin(repoRoot, dir); err != nil {
		return "", fmt.Errorf("--manifest-dir %s: %w", dir, err)
	}
	if !isFile(filepath.Join(dir, "Cargo.toml")) {
		return "", fmt.Errorf("--manifest-dir %s does not contain a Cargo.toml", dir)
	}
	return dir, nil
}

// manifestDirsUpwards collects manifest directories on the path from cwd up
// to (and including) the repository root.
func manifestDirsUpwards(cwd, repoRoot string) []string {
	var dirs []string
	current := cwd

	for {
		if isFile(filepath.Join(current, "Cargo.toml")) {
			dirs = append(dirs, current)
		}
		if current == repoRoot {
			break
		}
		parent := filepath.Dir(current)
		if parent == current {
			break
		}
		current = parent
	}
	return dirs
}

// manifestDirsBFS searches below the repository root, bounded by depth and
// entry count.
func manifestDirsBFS(repoRoot string, bounds ManifestDirBounds) []string {
	maxDepth := bounds.MaxDepth
	if maxDepth <= 0 {
		maxDepth = 6
	}
	maxEntries := bounds.MaxEntries
	if maxEntries <= 0 {
		maxEntries = 8000
	}
	skip := map[string]bool{".git": true, "target": true, "node_modules": true}
	for _, name := range bounds.SkipDirs {
		skip[name] = true
	}

	type frame struct {
		dir   string
		depth int
	}

	var found []string
	queue := []frame{{dir: repoRoot, depth: 0}}
	visited := 0

	for len(queue) > 0 {
		f := queue[0]
		queue = queue[1:]

		if visited >= maxEntries {
			break
		}
		visited++

		if isFile(filepath.Join(f.dir, "Cargo.toml")) {
			found = append(found, f.dir)
		}
		if f.depth >= maxDepth {
			continue
		}

		entries, err := os.ReadDir(f.dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if !entry.IsDir() || skip[entry.Name()] {
				continue
			}
			queue = append(queue, frame{dir: filepath.Join(f.dir, entry.Name()), depth: f.depth + 1})
		}
	}
	return found
}

func dedupe(sorted []string) []string {
	out := sorted[:0]
	for i, s := range sorted {
		if i == 0 || s != sorted[i-1] {
			out = append(out, s)
		}
	}
	return out
}

// relativeDisplay renders path relative to base for prompts, falling back to
// the absolute form when path is outside base.
func relativeDisplay(base, path string) string {
	rel, err := filepath.Rel(base, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return rel
}
