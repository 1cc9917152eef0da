package installer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hookwright/hookwright/internal/hook"
)

func TestInspectAbsent(t *testing.T) {
	r := newGitRepo(t, t.TempDir())

	st := newOrchestrator().Inspect(r, false)
	assert.Equal(t, StateAbsent, st.State)
	assert.False(t, st.Foreign)
	assert.Empty(t, st.Snapshots)
}

func TestInspectUnmanaged(t *testing.T) {
	dir := t.TempDir()
	r := newGitRepo(t, dir)
	o := newOrchestrator()
	writeFile(t, o.HookPath(r), "#!/bin/sh\necho theirs\n")

	st := o.Inspect(r, false)
	assert.Equal(t, StateUnmanaged, st.State)
	assert.True(t, st.Foreign)
}

func TestInspectEnabledAndDisabled(t *testing.T) {
	dir := t.TempDir()
	r := newGitRepo(t, dir)
	writeFile(t, filepath.Join(dir, "main.go"), "package main\n")

	o := newOrchestrator()
	_, err := o.Install(r, Options{})
	require.NoError(t, err)

	st := o.Inspect(r, false)
	assert.Equal(t, StateEnabled, st.State)
	assert.True(t, st.Executable)
	assert.False(t, st.Foreign, "a fresh install carries no foreign content")
	assert.Nil(t, st.Toolchain, "toolchain detail is verbose-only")

	_, err = o.Disable(r, Options{})
	require.NoError(t, err)
	assert.Equal(t, StateDisabled, o.Inspect(r, false).State)
}

func TestInspectVerboseToolchain(t *testing.T) {
	dir := t.TempDir()
	r := newGitRepo(t, dir)
	writeFile(t, filepath.Join(dir, "main.go"), "package main\n")
	writeFile(t, filepath.Join(dir, "requirements.txt"), "requests\n")

	o := newOrchestrator()
	_, err := o.Install(r, Options{})
	require.NoError(t, err)

	st := o.Inspect(r, true)
	require.NotNil(t, st.Toolchain)
	assert.Equal(t, "1", st.Toolchain["HW_ENABLED"])
	assert.Equal(t, "ruff", st.Toolchain["HW_PYTHON_TOOL"])
}

func TestInspectCorrupt(t *testing.T) {
	dir := t.TempDir()
	r := newGitRepo(t, dir)
	o := newOrchestrator()
	writeFile(t, o.HookPath(r), hook.BlockBegin+"\n"+hook.BlockBegin+"\n"+hook.BlockEnd+"\n")

	assert.Equal(t, StateCorrupt, o.Inspect(r, false).State)
}

func TestInspectForeignPrefixDetected(t *testing.T) {
	dir := t.TempDir()
	r := newGitRepo(t, dir)
	writeFile(t, filepath.Join(dir, "main.go"), "package main\n")

	o := newOrchestrator()
	writeFile(t, o.HookPath(r), "#!/bin/sh\necho theirs\n")
	_, err := o.Install(r, Options{Force: true})
	require.NoError(t, err)

	st := o.Inspect(r, false)
	assert.Equal(t, StateEnabled, st.State)
	assert.True(t, st.Foreign)
	assert.NotEmpty(t, st.Snapshots, "forced install over a foreign hook leaves a snapshot")
}

func TestInspectSnapshotsListed(t *testing.T) {
	dir := t.TempDir()
	r := newGitRepo(t, dir)
	writeFile(t, filepath.Join(dir, "main.go"), "package main\n")

	o := newOrchestrator()
	_, err := o.Install(r, Options{})
	require.NoError(t, err)
	_, err = o.Disable(r, Options{})
	require.NoError(t, err)

	st := o.Inspect(r, false)
	require.Len(t, st.Snapshots, 1)
	data, err := os.ReadFile(filepath.Join(filepath.Dir(st.HookPath), st.Snapshots[0]))
	require.NoError(t, err)
	assert.Contains(t, string(data), "HW_ENABLED=1", "snapshot preserves the pre-disable state")
}
