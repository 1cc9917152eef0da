package repo

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// ScanOptions bounds bulk repository discovery.
type ScanOptions struct {
	// MaxDepth limits how far below the scan root directories are visited.
	// Depth 0 considers the scan root only.
	MaxDepth int
	// SkipDirs are directory names never descended into.
	SkipDirs []string
	// MaxEntries caps total filesystem entries visited across the scan.
	MaxEntries int
}

// Target is a repository discovered during a scan, tagged with its depth from
// the scan root.
type Target struct {
	Repo  Repo
	Depth int
}

// Scan enumerates repository roots breadth-first under scanRoot. Discovery
// continues inside found repositories, but never past MaxDepth, so the cost of
// scanning a tree of large repositories stays bounded. Results are sorted by
// root path so repeated runs are reproducible.
func Scan(scanRoot string, opts ScanOptions) ([]Target, error) {
	root, err := filepath.Abs(scanRoot)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("scan root %s is not a directory", scanRoot)
	}

	skip := make(map[string]bool, len(opts.SkipDirs))
	for _, name := range opts.SkipDirs {
		skip[name] = true
	}

	maxEntries := opts.MaxEntries
	if maxEntries <= 0 {
		maxEntries = 200000
	}

	type frame struct {
		dir   string
		depth int
	}

	var found []Target
	queue := []frame{{dir: root, depth: 0}}
	visited := 0

	for len(queue) > 0 {
		f := queue[0]
		queue = queue[1:]

		if visited >= maxEntries {
			break
		}
		visited++

		r, isRepo, err := At(f.dir)
		if err != nil {
			// An unreadable .git marker in one candidate should not abort
			// the scan of its siblings.
			continue
		}
		if isRepo {
			found = append(found, Target{Repo: r, Depth: f.depth})
		}

		if f.depth >= opts.MaxDepth {
			continue
		}

		entries, err := os.ReadDir(f.dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if visited >= maxEntries {
				break
			}
			visited++

			if !entry.IsDir() || skip[entry.Name()] {
				continue
			}
			queue = append(queue, frame{dir: filepath.Join(f.dir, entry.Name()), depth: f.depth + 1})
		}
	}

	sort.Slice(found, func(i, j int) bool { return found[i].Repo.Root < found[j].Repo.Root })
	return found, nil
}
