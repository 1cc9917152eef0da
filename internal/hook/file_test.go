package hook

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hookwright/hookwright/pkg/safeio"
)

func hookPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "pre-commit")
}

func TestUpsertInFileCreatesHook(t *testing.T) {
	path := hookPath(t)
	block := sampleBlock("HW_ENABLED=1", "echo hook")

	changed, err := UpsertInFile(path, block, WriteOptions{})
	require.NoError(t, err)
	assert.True(t, changed)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), BlockBegin)
	assert.True(t, safeio.IsExecutable(path), "hook must be executable")
	assert.Empty(t, ListSnapshots(path), "no snapshot for a fresh file")
}

func TestUpsertInFileRepeatIsNoop(t *testing.T) {
	path := hookPath(t)
	block := sampleBlock("HW_ENABLED=1")

	_, err := UpsertInFile(path, block, WriteOptions{})
	require.NoError(t, err)

	changed, err := UpsertInFile(path, block, WriteOptions{})
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Empty(t, ListSnapshots(path), "unchanged content takes no snapshot")
}

func TestUpsertInFileSnapshotsBeforeUpdate(t *testing.T) {
	path := hookPath(t)

	_, err := UpsertInFile(path, sampleBlock("HW_ENABLED=1", "echo v1"), WriteOptions{})
	require.NoError(t, err)

	changed, err := UpsertInFile(path, sampleBlock("HW_ENABLED=1", "echo v2"), WriteOptions{})
	require.NoError(t, err)
	assert.True(t, changed)

	snaps := ListSnapshots(path)
	require.Len(t, snaps, 1)
	prior, err := os.ReadFile(filepath.Join(filepath.Dir(path), snaps[0]))
	require.NoError(t, err)
	assert.Contains(t, string(prior), "echo v1", "snapshot holds the pre-update content")
}

func TestUpsertInFileForeignHookNonInteractive(t *testing.T) {
	path := hookPath(t)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\necho theirs\n"), 0o755))

	_, err := UpsertInFile(path, sampleBlock("HW_ENABLED=1"), WriteOptions{NonInteractive: true})
	assert.ErrorIs(t, err, ErrExistingUnmanagedHook)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "#!/bin/sh\necho theirs\n", string(data), "refused install leaves the file alone")
}

func TestUpsertInFileForeignHookForce(t *testing.T) {
	path := hookPath(t)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\necho theirs\n"), 0o755))

	changed, err := UpsertInFile(path, sampleBlock("HW_ENABLED=1"), WriteOptions{Force: true})
	require.NoError(t, err)
	assert.True(t, changed)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "echo theirs", "foreign content survives a forced install")
	assert.Contains(t, string(data), BlockBegin)
	assert.Len(t, ListSnapshots(path), 1)
}

func TestUpsertInFileForeignHookConfirm(t *testing.T) {
	t.Run("accepted", func(t *testing.T) {
		path := hookPath(t)
		require.NoError(t, os.WriteFile(path, []byte("echo theirs\n"), 0o755))

		confirm := func(string) (bool, error) { return true, nil }
		changed, err := UpsertInFile(path, sampleBlock("HW_ENABLED=1"),
			WriteOptions{Confirm: confirm})
		require.NoError(t, err)
		assert.True(t, changed)
	})

	t.Run("declined", func(t *testing.T) {
		path := hookPath(t)
		require.NoError(t, os.WriteFile(path, []byte("echo theirs\n"), 0o755))

		confirm := func(string) (bool, error) { return false, nil }
		_, err := UpsertInFile(path, sampleBlock("HW_ENABLED=1"),
			WriteOptions{Confirm: confirm})
		assert.ErrorIs(t, err, ErrExistingUnmanagedHook)
	})
}

func TestDisableInFile(t *testing.T) {
	path := hookPath(t)
	_, err := UpsertInFile(path, sampleBlock("HW_ENABLED=1", "echo hook"), WriteOptions{})
	require.NoError(t, err)

	changed, err := DisableInFile(path, WriteOptions{})
	require.NoError(t, err)
	assert.True(t, changed)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "HW_ENABLED=0")

	// Disabling an already-disabled hook changes nothing and takes no
	// further snapshot.
	changed, err = DisableInFile(path, WriteOptions{})
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Len(t, ListSnapshots(path), 1)
}

func TestDisableInFileWithoutBlock(t *testing.T) {
	path := hookPath(t)
	require.NoError(t, os.WriteFile(path, []byte("echo theirs\n"), 0o755))

	_, err := DisableInFile(path, WriteOptions{})
	assert.ErrorIs(t, err, ErrNoManagedBlock)
}

func TestUninstallFromFileRemovesEmptiedFile(t *testing.T) {
	path := hookPath(t)
	_, err := UpsertInFile(path, sampleBlock("HW_ENABLED=1"), WriteOptions{})
	require.NoError(t, err)

	changed, err := UninstallFromFile(path, WriteOptions{})
	require.NoError(t, err)
	assert.True(t, changed)

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "hook file with no foreign content is removed")
	assert.NotEmpty(t, ListSnapshots(path), "removal still leaves a snapshot behind")
}

func TestUninstallFromFileKeepsForeignContent(t *testing.T) {
	path := hookPath(t)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\necho theirs\n"), 0o755))
	_, err := UpsertInFile(path, sampleBlock("HW_ENABLED=1"), WriteOptions{Force: true})
	require.NoError(t, err)

	changed, err := UninstallFromFile(path, WriteOptions{})
	require.NoError(t, err)
	assert.True(t, changed)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "#!/bin/sh\necho theirs\n", string(data))
}

func TestWriteOptionsRetentionDefault(t *testing.T) {
	assert.Equal(t, DefaultRetention, WriteOptions{}.retention())
	assert.Equal(t, 3, WriteOptions{Retention: 3}.retention())
}
