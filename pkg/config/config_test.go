package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "pre-commit", cfg.Hook.Name)
	assert.Equal(t, 10, cfg.Snapshots.Retention)
	assert.Contains(t, cfg.Scan.SkipDirs, "node_modules")
	assert.Contains(t, cfg.Scan.SkipDirs, ".git")
	assert.Greater(t, cfg.Scan.MaxEntries, 0)
	assert.Greater(t, cfg.Detect.ScanDepth, 0)
	assert.Greater(t, cfg.Detect.ScanMaxFiles, 0)
}

func TestValidateConfigAcceptsWellFormed(t *testing.T) {
	data := []byte(`
hook:
  name: pre-commit
snapshots:
  retention: 5
scan:
  skip_dirs: [node_modules, target]
  max_entries: 1000
detect:
  scan_depth: 2
  scan_max_files: 500
`)
	require.NoError(t, ValidateConfig(data))
}

func TestValidateConfigAcceptsEmpty(t *testing.T) {
	require.NoError(t, ValidateConfig(nil))
}

func TestValidateConfigRejectsUnknownKeys(t *testing.T) {
	data := []byte("snaphsots:\n  retention: 5\n")
	err := ValidateConfig(data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestValidateConfigRejectsWrongTypes(t *testing.T) {
	data := []byte("snapshots:\n  retention: lots\n")
	err := ValidateConfig(data)
	require.Error(t, err)
}

func TestValidateConfigRejectsNegativeRetention(t *testing.T) {
	data := []byte("snapshots:\n  retention: -1\n")
	err := ValidateConfig(data)
	require.Error(t, err)
}

func TestLoadConfigUsesDefaultsWithoutFile(t *testing.T) {
	oldWD, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(oldWD) })
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, Default().Snapshots.Retention, cfg.Snapshots.Retention)
	assert.Equal(t, Default().Hook.Name, cfg.Hook.Name)
}
