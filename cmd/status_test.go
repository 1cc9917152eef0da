package cmd

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/hookwright/hookwright/internal/installer"
)

func sampleEntries() []statusEntry {
	return []statusEntry{
		{Status: installer.Status{
			Root:       "/repo",
			HookPath:   "/repo/.git/hooks/pre-commit",
			State:      installer.StateEnabled,
			Executable: true,
			Snapshots:  []string{"pre-commit.snapshot-2026-08-30-10-00-00"},
			Toolchain:  map[string]string{"HW_ENABLED": "1", "HW_PYTHON_TOOL": "ruff"},
		}},
	}
}

func render(t *testing.T, format string) string {
	t.Helper()
	cmd := &cobra.Command{}
	var out bytes.Buffer
	cmd.SetOut(&out)
	require.NoError(t, renderStatus(cmd, sampleEntries(), format))
	return out.String()
}

func TestRenderStatusPretty(t *testing.T) {
	out := render(t, "pretty")
	assert.Contains(t, out, "/repo")
	assert.Contains(t, out, "state:     enabled")
	assert.Contains(t, out, "HW_PYTHON_TOOL=ruff")
	assert.Contains(t, out, "snapshots: 1")
}

func TestRenderStatusJSON(t *testing.T) {
	out := render(t, "json")

	var decoded []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "enabled", decoded[0]["state"])
	assert.Equal(t, "/repo", decoded[0]["root"])
}

func TestRenderStatusYAML(t *testing.T) {
	out := render(t, "yaml")

	var decoded []map[string]interface{}
	require.NoError(t, yaml.Unmarshal([]byte(out), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "enabled", decoded[0]["state"])
}

func TestRenderStatusUnknownFormat(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetOut(&bytes.Buffer{})
	err := renderStatus(cmd, sampleEntries(), "xml")
	assert.Error(t, err)
}
