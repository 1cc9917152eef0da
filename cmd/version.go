package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/hookwright/hookwright/internal/ops"
	"github.com/hookwright/hookwright/pkg/buildinfo"
	"github.com/hookwright/hookwright/pkg/logger"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	RunE:  runVersion,
}

func init() {
	versionCmd.Flags().Bool("extended", false, "Include build details")

	if err := ops.RegisterCommand("version", ops.GroupSupport, versionCmd, "Show version information"); err != nil {
		logger.Error("Failed to register version command", logger.Err(err))
	}
}

func runVersion(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "hookwright %s\n", buildinfo.BinaryVersion)

	extended, _ := cmd.Flags().GetBool("extended")
	if !extended {
		return nil
	}
	fmt.Fprintf(out, "  module:   %s\n", buildinfo.ModuleVersion())
	fmt.Fprintf(out, "  go:       %s\n", runtime.Version())
	fmt.Fprintf(out, "  platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	return nil
}
