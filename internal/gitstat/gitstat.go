// Package gitstat reads a lightweight view of a repository's change state:
// branch, head commit, staged paths, and whether unstaged or untracked work
// exists. The commit-time hook stashes exactly when that last flag is true,
// so status reporting surfaces it.
package gitstat

import (
	"bufio"
	"bytes"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	git "github.com/go-git/go-git/v5"
)

// Context is the collected change state. A nil Context means git state could
// not be read (no git, or not a repository) and status simply omits it.
type Context struct {
	Branch      string   `json:"branch,omitempty" yaml:"branch,omitempty"`
	SHA         string   `json:"sha,omitempty" yaml:"sha,omitempty"`
	StagedFiles []string `json:"staged_files,omitempty" yaml:"staged_files,omitempty"`
	// Dirty reports unstaged or untracked changes beyond the index.
	Dirty bool `json:"dirty" yaml:"dirty"`
}

// Collect reads change state for the repository at root, preferring go-git
// and falling back to the git CLI.
func Collect(root string) *Context {
	if ctx := collectGoGit(root); ctx != nil {
		return ctx
	}
	return collectCLI(root)
}

func collectGoGit(root string) *Context {
	repo, err := git.PlainOpenWithOptions(root, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil
	}

	ctx := &Context{}
	if head, err := repo.Head(); err == nil {
		ctx.Branch = head.Name().Short()
		ctx.SHA = head.Hash().String()
	}

	wt, err := repo.Worktree()
	if err != nil {
		return ctx
	}
	status, err := wt.Status()
	if err != nil {
		return ctx
	}

	for path, s := range status {
		if s.Staging != git.Unmodified && s.Staging != git.Untracked {
			ctx.StagedFiles = append(ctx.StagedFiles, filepath.ToSlash(path))
		}
		if s.Worktree != git.Unmodified {
			ctx.Dirty = true
		}
	}
	sort.Strings(ctx.StagedFiles)
	return ctx
}

func collectCLI(root string) *Context {
	if _, err := exec.LookPath("git"); err != nil {
		return nil
	}
	if strings.TrimSpace(runGit(root, "rev-parse", "--is-inside-work-tree")) != "true" {
		return nil
	}

	ctx := &Context{
		Branch: runGit(root, "rev-parse", "--abbrev-ref", "HEAD"),
		SHA:    runGit(root, "rev-parse", "HEAD"),
	}

	out := runGitBytes(root, "diff", "--cached", "--name-only", "--diff-filter=ACMR")
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			ctx.StagedFiles = append(ctx.StagedFiles, filepath.ToSlash(line))
		}
	}
	sort.Strings(ctx.StagedFiles)

	porcelain := bufio.NewScanner(bytes.NewReader(runGitBytes(root, "status", "--porcelain")))
	for porcelain.Scan() {
		line := porcelain.Text()
		if len(line) < 2 {
			continue
		}
		// Second column is the worktree state; "??" is untracked.
		if line[1] != ' ' || strings.HasPrefix(line, "??") {
			ctx.Dirty = true
			break
		}
	}
	return ctx
}

func runGit(dir string, args ...string) string {
	return strings.TrimSpace(string(runGitBytes(dir, args...)))
}

func runGitBytes(dir string, args ...string) []byte {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return nil
	}
	return out
}
