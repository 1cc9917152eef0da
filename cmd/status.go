package cmd

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/hookwright/hookwright/internal/gitstat"
	"github.com/hookwright/hookwright/internal/installer"
	"github.com/hookwright/hookwright/internal/ops"
	"github.com/hookwright/hookwright/internal/repo"
	"github.com/hookwright/hookwright/pkg/logger"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the managed hook's state",
	Long: `Status reports whether the hook is installed, enabled, disabled, or corrupt,
without mutating anything. Verbose mode adds the toolchains the last install
stored in the hook plus the repository's current git change state.

Examples:
  hookwright status
  hookwright status --verbose --output json
  hookwright status --recursive --dir ~/src`,
	RunE: runStatus,
}

func init() {
	addScanFlags(statusCmd.Flags())
	statusCmd.Flags().Bool("verbose", false, "Include stored toolchains and git change state")
	statusCmd.Flags().StringP("output", "o", "pretty", "Output format (pretty|json|yaml)")

	if err := ops.RegisterCommand("status", ops.GroupSupport, statusCmd, "Show hook state"); err != nil {
		logger.Error("Failed to register status command", logger.Err(err))
	}
}

// statusEntry is one repository's report, optionally enriched with git state.
type statusEntry struct {
	installer.Status `yaml:",inline"`
	Git              *gitstat.Context `json:"git,omitempty" yaml:"git,omitempty"`
}

func runStatus(cmd *cobra.Command, _ []string) error {
	req, err := parseRequest(cmd)
	if err != nil {
		return err
	}
	o, err := newOrchestrator(req.opts)
	if err != nil {
		return err
	}
	format, _ := cmd.Flags().GetString("output")

	var entries []statusEntry
	inspect := func(r repo.Repo) (bool, error) {
		entry := statusEntry{Status: o.Inspect(r, req.opts.Verbose)}
		if req.opts.Verbose {
			entry.Git = gitstat.Collect(r.Root)
		}
		entries = append(entries, entry)
		return false, nil
	}

	if req.bulk {
		if _, err := o.Bulk(req.scanRoot, req.maxDepth, inspect); err != nil {
			return err
		}
	} else {
		r, err := repo.Find(req.opts.WorkDir)
		if err != nil {
			return err
		}
		if _, err := inspect(r); err != nil {
			return err
		}
	}

	return renderStatus(cmd, entries, format)
}

func renderStatus(cmd *cobra.Command, entries []statusEntry, format string) error {
	out := cmd.OutOrStdout()

	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	case "yaml":
		return yaml.NewEncoder(out).Encode(entries)
	case "pretty":
		for _, e := range entries {
			fmt.Fprintf(out, "%s\n", e.Root)
			fmt.Fprintf(out, "  hook:      %s\n", e.HookPath)
			fmt.Fprintf(out, "  state:     %s\n", e.State)
			if e.State != installer.StateAbsent && !e.Executable {
				fmt.Fprintf(out, "  warning:   hook file is not executable\n")
			}
			if e.Foreign {
				fmt.Fprintf(out, "  foreign:   hook file carries unmanaged content\n")
			}
			if len(e.Snapshots) > 0 {
				fmt.Fprintf(out, "  snapshots: %d (newest %s)\n", len(e.Snapshots), e.Snapshots[len(e.Snapshots)-1])
			}
			if len(e.Toolchain) > 0 {
				fmt.Fprintf(out, "  toolchain:\n")
				for _, key := range sortedKeys(e.Toolchain) {
					fmt.Fprintf(out, "    %s=%s\n", key, e.Toolchain[key])
				}
			}
			if e.Git != nil {
				fmt.Fprintf(out, "  git:       branch=%s staged=%d dirty=%t\n",
					e.Git.Branch, len(e.Git.StagedFiles), e.Git.Dirty)
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown output format %q (want pretty, json, or yaml)", format)
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
