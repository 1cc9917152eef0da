package hook

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleBlock(body ...string) string {
	lines := append([]string{BlockBegin}, body...)
	lines = append(lines, BlockEnd)
	return strings.Join(lines, "\n") + "\n"
}

func TestUpsertIntoEmptyFile(t *testing.T) {
	block := sampleBlock("HW_ENABLED=1", "echo hook")

	out, err := Upsert("", block)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "#!/bin/sh\n"))
	assert.Contains(t, out, BlockBegin)
	assert.Contains(t, out, BlockEnd)
	assert.True(t, strings.HasSuffix(out, "\n"))
}

func TestUpsertIsIdempotent(t *testing.T) {
	block := sampleBlock("HW_ENABLED=1", "echo hook")

	once, err := Upsert("", block)
	require.NoError(t, err)
	twice, err := Upsert(once, block)
	require.NoError(t, err)

	assert.Equal(t, once, twice)
}

func TestUpsertAppendsAfterForeignContent(t *testing.T) {
	existing := "#!/bin/sh\necho pre-existing hook\n"
	block := sampleBlock("HW_ENABLED=1")

	out, err := Upsert(existing, block)
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(out, existing),
		"foreign prefix must be byte-identical")
	assert.Contains(t, out, "\n\n"+BlockBegin, "blank line separates foreign content from block")
}

func TestUpsertReplacesOnlyBlockInterior(t *testing.T) {
	prefix := "#!/bin/sh\necho before\n"
	suffix := "echo after\n"
	existing := prefix + sampleBlock("HW_ENABLED=1", "echo old body") + suffix

	out, err := Upsert(existing, sampleBlock("HW_ENABLED=1", "echo new body"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, prefix))
	assert.True(t, strings.HasSuffix(out, suffix))
	assert.Contains(t, out, "echo new body")
	assert.NotContains(t, out, "echo old body")
}

func TestUpsertRejectsDuplicateMarkers(t *testing.T) {
	existing := sampleBlock("one") + sampleBlock("two")

	_, err := Upsert(existing, sampleBlock("three"))
	assert.ErrorIs(t, err, ErrCorruptManagedBlock)
}

func TestUpsertRejectsMismatchedMarkers(t *testing.T) {
	cases := map[string]string{
		"begin without end":  "#!/bin/sh\n" + BlockBegin + "\necho dangling\n",
		"end without begin":  "#!/bin/sh\n" + BlockEnd + "\n",
		"end before begin":   "#!/bin/sh\n" + BlockEnd + "\n" + BlockBegin + "\n",
		"two begins one end": BlockBegin + "\n" + BlockBegin + "\n" + BlockEnd + "\n",
	}

	for name, existing := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Upsert(existing, sampleBlock("x"))
			assert.ErrorIs(t, err, ErrCorruptManagedBlock)
		})
	}
}

func TestDisableFlipsEnabledFlag(t *testing.T) {
	existing := "#!/bin/sh\n" + sampleBlock("HW_ENABLED=1", "echo hook")

	out, err := Disable(existing)
	require.NoError(t, err)

	assert.Contains(t, out, "HW_ENABLED=0")
	assert.NotContains(t, out, "HW_ENABLED=1")
	assert.Contains(t, out, BlockBegin, "markers stay in place")
	assert.Contains(t, out, "echo hook", "body stays in place")
}

func TestDisableWithoutBlock(t *testing.T) {
	_, err := Disable("#!/bin/sh\necho something else\n")
	assert.ErrorIs(t, err, ErrNoManagedBlock)
}

func TestUninstallRoundTripsForeignContent(t *testing.T) {
	existing := "#!/bin/sh\necho keep me\n"

	withBlock, err := Upsert(existing, sampleBlock("HW_ENABLED=1"))
	require.NoError(t, err)

	out, err := Uninstall(withBlock)
	require.NoError(t, err)
	assert.Equal(t, existing, out, "append then uninstall must restore the original bytes")
}

func TestUninstallRemovesAtMostOneBlankLine(t *testing.T) {
	existing := "#!/bin/sh\necho keep\n\n\n" + sampleBlock("HW_ENABLED=1")

	out, err := Uninstall(existing)
	require.NoError(t, err)
	assert.Equal(t, "#!/bin/sh\necho keep\n\n", out)
}

func TestUninstallWithoutBlock(t *testing.T) {
	_, err := Uninstall("#!/bin/sh\n")
	assert.ErrorIs(t, err, ErrNoManagedBlock)
}

func TestHasManagedBlock(t *testing.T) {
	assert.False(t, HasManagedBlock("#!/bin/sh\necho hi\n"))
	assert.True(t, HasManagedBlock(sampleBlock("HW_ENABLED=1")))
}
