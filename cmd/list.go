package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hookwright/hookwright/internal/hook"
	"github.com/hookwright/hookwright/internal/installer"
	"github.com/hookwright/hookwright/internal/ops"
	"github.com/hookwright/hookwright/internal/repo"
	"github.com/hookwright/hookwright/pkg/logger"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List snapshots of the managed hook",
	Long: `List shows the rotating snapshots kept alongside the hook file, oldest
first. Restoring one is a plain copy over the hook file.

Examples:
  hookwright list`,
	RunE: runList,
}

func init() {
	if err := ops.RegisterCommand("list", ops.GroupSupport, listCmd, "List hook snapshots"); err != nil {
		logger.Error("Failed to register list command", logger.Err(err))
	}
}

func runList(cmd *cobra.Command, _ []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	r, err := repo.Find(cwd)
	if err != nil {
		return err
	}
	o, err := newOrchestrator(installer.Options{NonInteractive: true})
	if err != nil {
		return err
	}

	hookPath := o.HookPath(r)
	snapshots := hook.ListSnapshots(hookPath)
	if len(snapshots) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "no snapshots for %s\n", hookPath)
		return nil
	}
	for _, name := range snapshots {
		fmt.Fprintln(cmd.OutOrStdout(), name)
	}
	return nil
}
