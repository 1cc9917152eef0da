package cmd

import (
	"github.com/spf13/cobra"

	"github.com/hookwright/hookwright/internal/installer"
	"github.com/hookwright/hookwright/internal/ops"
	"github.com/hookwright/hookwright/internal/repo"
	"github.com/hookwright/hookwright/pkg/logger"
)

var uninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove the managed block from the hook",
	Long: `Uninstall removes the managed block and its markers. Unrelated hook content
is left byte-identical; a hook file that held nothing else is deleted. A
snapshot is taken first, so the removal can be undone by hand.

Examples:
  hookwright uninstall
  hookwright uninstall --recursive --dir ~/src`,
	RunE: runUninstall,
}

func init() {
	addConfirmFlags(uninstallCmd.Flags())
	addScanFlags(uninstallCmd.Flags())

	if err := ops.RegisterCommand("uninstall", ops.GroupWorkflow, uninstallCmd, "Remove the managed block"); err != nil {
		logger.Error("Failed to register uninstall command", logger.Err(err))
	}
}

func runUninstall(cmd *cobra.Command, _ []string) error {
	return runOperation(cmd, func(o *installer.Orchestrator, r repo.Repo, opts installer.Options) (bool, error) {
		res, err := o.Uninstall(r, opts)
		return res.Changed, err
	})
}
