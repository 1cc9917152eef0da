package cmd

import (
	"github.com/spf13/cobra"

	"github.com/hookwright/hookwright/internal/installer"
	"github.com/hookwright/hookwright/internal/ops"
	"github.com/hookwright/hookwright/internal/repo"
	"github.com/hookwright/hookwright/pkg/logger"
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install or update the managed pre-commit hook",
	Long: `Install detects the repository's language toolchains from on-disk evidence,
renders the managed hook block, and merges it into the pre-commit hook file.
Existing unrelated hook content is preserved; repeat installs are no-ops when
nothing changed. A snapshot of the prior hook is taken before any rewrite.

Examples:
  hookwright install                        # Current repository
  hookwright install --recursive            # All repositories one level down
  hookwright install --dir ~/src --max-depth 2
  hookwright install --manifest-dir crates/core   # Pin the cargo fmt workspace`,
	RunE: runInstall,
}

func init() {
	addConfirmFlags(installCmd.Flags())
	addScanFlags(installCmd.Flags())
	installCmd.Flags().String("manifest-dir", "", "Cargo.toml directory for the Rust section")
	installCmd.Flags().Bool("verbose", false, "Report resolved toolchain choices")

	if err := ops.RegisterCommand("install", ops.GroupWorkflow, installCmd, "Install or update the managed hook"); err != nil {
		logger.Error("Failed to register install command", logger.Err(err))
	}
}

func runInstall(cmd *cobra.Command, _ []string) error {
	return runOperation(cmd, func(o *installer.Orchestrator, r repo.Repo, opts installer.Options) (bool, error) {
		res, err := o.Install(r, opts)
		return res.Changed, err
	})
}
