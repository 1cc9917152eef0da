package repo

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mkRepo(t *testing.T, root string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".git", "hooks"), 0o755))
}

func TestFindWalksAncestors(t *testing.T) {
	tmp := t.TempDir()
	root := filepath.Join(tmp, "project")
	nested := filepath.Join(root, "src", "deep")
	mkRepo(t, root)
	require.NoError(t, os.MkdirAll(nested, 0o755))

	r, err := Find(nested)
	require.NoError(t, err)
	assert.Equal(t, root, r.Root)
	assert.Equal(t, filepath.Join(root, ".git"), r.GitDir)
}

func TestFindNotARepository(t *testing.T) {
	_, err := Find(t.TempDir())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotARepository))
}

func TestFindResolvesWorktreePointer(t *testing.T) {
	tmp := t.TempDir()
	mainRepo := filepath.Join(tmp, "main")
	mkRepo(t, mainRepo)
	wtGitDir := filepath.Join(mainRepo, ".git", "worktrees", "feature")
	require.NoError(t, os.MkdirAll(wtGitDir, 0o755))

	worktree := filepath.Join(tmp, "feature")
	require.NoError(t, os.MkdirAll(worktree, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(worktree, ".git"), []byte("gitdir: "+wtGitDir+"\n"), 0o644))

	r, err := Find(worktree)
	require.NoError(t, err)
	assert.Equal(t, worktree, r.Root)
	assert.Equal(t, wtGitDir, r.GitDir)
}

func TestFindResolvesRelativeWorktreePointer(t *testing.T) {
	tmp := t.TempDir()
	worktree := filepath.Join(tmp, "repo")
	require.NoError(t, os.MkdirAll(worktree, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(worktree, ".git"), []byte("gitdir: .gitdir/worktrees/w1\n"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(worktree, ".gitdir", "worktrees", "w1"), 0o755))

	r, err := Find(worktree)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(worktree, ".gitdir", "worktrees", "w1"), r.GitDir)
}

func TestFindRejectsMalformedPointerFile(t *testing.T) {
	tmp := t.TempDir()
	root := filepath.Join(tmp, "repo")
	require.NoError(t, os.MkdirAll(root, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".git"), []byte("not a pointer\n"), 0o644))

	_, err := Find(root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported .git file format")
}

func TestHooksDirPlainRepo(t *testing.T) {
	tmp := t.TempDir()
	mkRepo(t, tmp)

	r, err := Find(tmp)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmp, ".git", "hooks"), r.HooksDir())
}

func TestHooksDirFollowsCommondir(t *testing.T) {
	tmp := t.TempDir()
	mainRepo := filepath.Join(tmp, "main")
	mkRepo(t, mainRepo)
	commonGitDir := filepath.Join(mainRepo, ".git")

	wtGitDir := filepath.Join(commonGitDir, "worktrees", "feature")
	require.NoError(t, os.MkdirAll(wtGitDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(wtGitDir, "commondir"), []byte("../..\n"), 0o644))

	r := Repo{Root: filepath.Join(tmp, "feature"), GitDir: wtGitDir}
	assert.Equal(t, filepath.Join(commonGitDir, "hooks"), r.HooksDir())
}
