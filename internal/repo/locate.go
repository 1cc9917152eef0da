// Package repo locates git working trees and enumerates them for bulk
// operation. It handles both regular repositories and worktrees, where .git is
// a pointer file rather than a directory.
package repo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotARepository is returned when no git marker is found between the start
// directory and the filesystem root.
var ErrNotARepository = errors.New("not inside a git repository")

// Repo is a resolved working tree. Root is the working-tree root; GitDir is
// the resolved git directory, which for worktrees lives outside Root.
type Repo struct {
	Root   string
	GitDir string
}

// Find walks ancestors of start until a .git marker is found.
func Find(start string) (Repo, error) {
	current, err := filepath.Abs(start)
	if err != nil {
		return Repo{}, err
	}

	for {
		gitDir, found, err := gitDirAt(current)
		if err != nil {
			return Repo{}, err
		}
		if found {
			return Repo{Root: current, GitDir: gitDir}, nil
		}

		parent := filepath.Dir(current)
		if parent == current {
			return Repo{}, fmt.Errorf("%w (searched from %s)", ErrNotARepository, start)
		}
		current = parent
	}
}

// At resolves the repository whose root is exactly dir, without walking up.
// The second return is false when dir carries no git marker.
func At(dir string) (Repo, bool, error) {
	gitDir, found, err := gitDirAt(dir)
	if err != nil || !found {
		return Repo{}, false, err
	}
	return Repo{Root: dir, GitDir: gitDir}, true, nil
}

// HooksDir returns the directory that git consults for this repository's
// hooks. Linked worktrees keep a per-worktree git dir containing a commondir
// pointer; hooks live under the shared git dir, not the worktree-private one.
func (r Repo) HooksDir() string {
	commonDirFile := filepath.Join(r.GitDir, "commondir")
	data, err := os.ReadFile(commonDirFile) // #nosec G304 -- path derived from resolved git dir
	if err != nil {
		return filepath.Join(r.GitDir, "hooks")
	}

	common := strings.TrimSpace(string(data))
	if common == "" {
		return filepath.Join(r.GitDir, "hooks")
	}
	if !filepath.IsAbs(common) {
		common = filepath.Join(r.GitDir, common)
	}
	return filepath.Join(common, "hooks")
}

// gitDirAt resolves the git directory for a candidate root. A .git directory
// is used as-is; a .git file is parsed as a worktree pointer.
func gitDirAt(root string) (string, bool, error) {
	dotGit := filepath.Join(root, ".git")
	info, err := os.Stat(dotGit)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, err
	}

	if info.IsDir() {
		return dotGit, true, nil
	}

	gitDir, err := parseGitDirFile(dotGit)
	if err != nil {
		return "", false, err
	}
	return gitDir, true, nil
}

// parseGitDirFile reads a worktree pointer file of the form "gitdir: <path>".
// Relative paths are resolved against the pointer file's directory.
func parseGitDirFile(dotGitFile string) (string, error) {
	data, err := os.ReadFile(dotGitFile) // #nosec G304 -- caller resolved this path
	if err != nil {
		return "", fmt.Errorf("failed to read .git file at %s: %w", dotGitFile, err)
	}

	trimmed := strings.TrimSpace(string(data))
	rest, ok := strings.CutPrefix(trimmed, "gitdir:")
	if !ok {
		return "", fmt.Errorf("unsupported .git file format at %s", dotGitFile)
	}

	raw := strings.TrimSpace(rest)
	if raw == "" {
		return "", fmt.Errorf("invalid gitdir in .git file at %s", dotGitFile)
	}

	if filepath.IsAbs(raw) {
		return raw, nil
	}
	return filepath.Join(filepath.Dir(dotGitFile), raw), nil
}
