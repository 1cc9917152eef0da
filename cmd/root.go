package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/hookwright/hookwright/internal/detect"
	"github.com/hookwright/hookwright/internal/hook"
	"github.com/hookwright/hookwright/internal/ops"
	"github.com/hookwright/hookwright/internal/repo"
	"github.com/hookwright/hookwright/pkg/buildinfo"
	"github.com/hookwright/hookwright/pkg/exitcode"
	"github.com/hookwright/hookwright/pkg/logger"
)

// newRootCommand creates a fresh root command instance.
// This factory pattern allows tests to create isolated command trees without shared state.
func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hookwright",
		Short: "Install and manage an auto-fixing pre-commit hook",
		Long: `Hookwright writes a managed pre-commit hook that auto-formats staged files
with the toolchains your repository actually uses. Detection is evidence-based:
a language section is only added when manifests, lockfiles, or sources prove it.

The hook stores its settings inside the hook file itself; nothing is written
into the tracked repository. Every mutation is preceded by a rotating snapshot.

Examples:
   hookwright install              # Install into the current repository
   hookwright install --recursive  # Install into every repository below here
   hookwright status --verbose     # Show hook state and stored toolchains
   hookwright disable              # Keep the hook, make it a no-op
   hookwright uninstall            # Remove the managed block`,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			initializeLogger(cmd)
		},
	}

	// Global flags
	cmd.PersistentFlags().String("log-level", "info", "Set log level (trace|debug|info|warn|error)")
	cmd.PersistentFlags().Bool("json", false, "Output logs in JSON format")
	cmd.PersistentFlags().Bool("no-color", false, "Disable colored output")

	// Wire Cobra's built-in --version
	cmd.Version = buildinfo.BinaryVersion
	cmd.SetVersionTemplate("hookwright {{.Version}}\n")

	// Grouped help (Workflow → Support)
	cmd.SetHelpFunc(func(cmd *cobra.Command, _ []string) {
		reg := ops.GetRegistry()
		cmd.Println(cmd.Long)
		cmd.Println()
		cmd.Println("Workflow Commands:")
		for _, c := range reg.GetCommandsByGroup(ops.GroupWorkflow) {
			cmd.Printf("  %-12s %s\n", c.Name, c.Description)
		}
		cmd.Println()
		cmd.Println("Support Commands:")
		for _, c := range reg.GetCommandsByGroup(ops.GroupSupport) {
			cmd.Printf("  %-12s %s\n", c.Name, c.Description)
		}
		cmd.Println()
		cmd.Println("Flags:")
		cmd.Print(cmd.UsageString())
	})

	return cmd
}

// registerSubcommands adds all subcommands to the root command.
// Called from init() for production and explicitly in tests.
func registerSubcommands(cmd *cobra.Command) {
	cmd.AddCommand(installCmd)
	cmd.AddCommand(disableCmd)
	cmd.AddCommand(uninstallCmd)
	cmd.AddCommand(statusCmd)
	cmd.AddCommand(listCmd)
	cmd.AddCommand(versionCmd)
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = newRootCommand()

// Execute runs the root command. Called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error("Command execution failed", logger.Err(err))
		os.Exit(exitForError(err))
	}
}

func init() {
	registerSubcommands(rootCmd)
}

// exitForError maps sentinel errors to the documented exit codes, so scripts
// can tell ambiguity apart from a missing repository or a corrupt hook.
func exitForError(err error) int {
	switch {
	case errors.Is(err, detect.ErrAmbiguousManifestDir):
		return exitcode.AmbiguityError
	case errors.Is(err, repo.ErrNotARepository):
		return exitcode.RepoNotFound
	case errors.Is(err, hook.ErrCorruptManagedBlock):
		return exitcode.CorruptHook
	case errors.Is(err, hook.ErrSnapshotWrite):
		return exitcode.SnapshotError
	case errors.Is(err, hook.ErrExistingUnmanagedHook):
		return exitcode.FileSystemError
	default:
		return exitcode.GeneralError
	}
}

// addConfirmFlags attaches the shared confirmation-policy flags.
func addConfirmFlags(flags *pflag.FlagSet) {
	flags.BoolP("yes", "y", false, "Assume yes for all prompts")
	flags.Bool("non-interactive", false, "Never prompt; ambiguity and unmanaged hooks are fatal unless --force")
	flags.BoolP("force", "f", false, "Proceed over an existing unmanaged hook (snapshot still taken)")
}

// addScanFlags attaches the shared bulk-mode flags.
func addScanFlags(flags *pflag.FlagSet) {
	flags.Bool("recursive", false, "Apply to every repository found under the scan root")
	flags.String("dir", "", "Scan root for bulk mode (default: current directory)")
	flags.Int("max-depth", -1, "Scan depth bound (default 1 with --recursive, 0 with --dir alone)")
}

// initializeLogger sets up the logger based on command flags.
func initializeLogger(cmd *cobra.Command) {
	logLevelStr, _ := cmd.Flags().GetString("log-level")
	jsonLogs, _ := cmd.Flags().GetBool("json")
	noColor, _ := cmd.Flags().GetBool("no-color")

	logger.Initialize(logger.Config{
		Level:     logger.ParseLevel(logLevelStr),
		UseColor:  !noColor,
		JSON:      jsonLogs,
		Component: "hookwright",
	})
}
