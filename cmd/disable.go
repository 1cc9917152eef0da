package cmd

import (
	"github.com/spf13/cobra"

	"github.com/hookwright/hookwright/internal/installer"
	"github.com/hookwright/hookwright/internal/ops"
	"github.com/hookwright/hookwright/internal/repo"
	"github.com/hookwright/hookwright/pkg/logger"
)

var disableCmd = &cobra.Command{
	Use:   "disable",
	Short: "Disable the managed hook without removing it",
	Long: `Disable flips the managed block's enable switch to off. The block and its
markers stay in the hook file, so a later install re-enables it in place.

Examples:
  hookwright disable
  hookwright disable --recursive`,
	RunE: runDisable,
}

func init() {
	addConfirmFlags(disableCmd.Flags())
	addScanFlags(disableCmd.Flags())

	if err := ops.RegisterCommand("disable", ops.GroupWorkflow, disableCmd, "Turn the managed hook into a no-op"); err != nil {
		logger.Error("Failed to register disable command", logger.Err(err))
	}
}

func runDisable(cmd *cobra.Command, _ []string) error {
	return runOperation(cmd, func(o *installer.Orchestrator, r repo.Repo, opts installer.Options) (bool, error) {
		res, err := o.Disable(r, opts)
		return res.Changed, err
	})
}
