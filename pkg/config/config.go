package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for hookwright
type Config struct {
	Hook      HookConfig      `mapstructure:"hook"`
	Snapshots SnapshotsConfig `mapstructure:"snapshots"`
	Scan      ScanConfig      `mapstructure:"scan"`
	Detect    DetectConfig    `mapstructure:"detect"`
}

// HookConfig holds hook file options
type HookConfig struct {
	Name string `mapstructure:"name"` // hook file name under .git/hooks
}

// SnapshotsConfig holds snapshot retention options
type SnapshotsConfig struct {
	Retention int `mapstructure:"retention"` // newest snapshots kept per hook
}

// ScanConfig bounds bulk repository discovery
type ScanConfig struct {
	SkipDirs   []string `mapstructure:"skip_dirs"`
	MaxEntries int      `mapstructure:"max_entries"`
}

// DetectConfig bounds the shallow evidence scan and manifest discovery
type DetectConfig struct {
	ScanDepth         int `mapstructure:"scan_depth"`
	ScanMaxFiles      int `mapstructure:"scan_max_files"`
	ManifestScanDepth int `mapstructure:"manifest_scan_depth"`
	ManifestScanFiles int `mapstructure:"manifest_scan_files"`
}

var defaultConfig = Config{
	Hook: HookConfig{
		Name: "pre-commit",
	},
	Snapshots: SnapshotsConfig{
		Retention: 10,
	},
	Scan: ScanConfig{
		SkipDirs: []string{
			".git", "node_modules", "target", "dist", "build",
			".venv", "__pycache__", ".tox", ".idea", ".vscode",
		},
		MaxEntries: 200000,
	},
	Detect: DetectConfig{
		ScanDepth:         3,
		ScanMaxFiles:      4000,
		ManifestScanDepth: 6,
		ManifestScanFiles: 8000,
	},
}

// Default returns a copy of the built-in configuration.
func Default() Config {
	return defaultConfig
}

// LoadConfig loads configuration from file, environment, and defaults.
// Configuration is read-only ambient state for the tool itself; hookwright
// never writes configuration into a tracked repository.
func LoadConfig() (*Config, error) {
	v := viper.New()

	v.SetDefault("hook.name", defaultConfig.Hook.Name)
	v.SetDefault("snapshots.retention", defaultConfig.Snapshots.Retention)
	v.SetDefault("scan.skip_dirs", defaultConfig.Scan.SkipDirs)
	v.SetDefault("scan.max_entries", defaultConfig.Scan.MaxEntries)
	v.SetDefault("detect.scan_depth", defaultConfig.Detect.ScanDepth)
	v.SetDefault("detect.scan_max_files", defaultConfig.Detect.ScanMaxFiles)
	v.SetDefault("detect.manifest_scan_depth", defaultConfig.Detect.ManifestScanDepth)
	v.SetDefault("detect.manifest_scan_files", defaultConfig.Detect.ManifestScanFiles)

	v.SetConfigName(".hookwright")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME")

	v.SetEnvPrefix("HOOKWRIGHT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Config file is optional; defaults apply when absent.
	if err := v.ReadInConfig(); err == nil {
		if data, readErr := os.ReadFile(v.ConfigFileUsed()); readErr == nil {
			if schemaErr := ValidateConfig(data); schemaErr != nil {
				return nil, fmt.Errorf("invalid config file %s: %w", v.ConfigFileUsed(), schemaErr)
			}
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %v", err)
	}

	if config.Snapshots.Retention < 0 {
		return nil, fmt.Errorf("snapshots.retention must not be negative (got %d)", config.Snapshots.Retention)
	}

	return &config, nil
}

// HomeDir returns the hookwright home directory (~/.hookwright), creating it if needed.
func HomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, ".hookwright")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}
