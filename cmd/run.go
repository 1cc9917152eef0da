package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hookwright/hookwright/internal/hook"
	"github.com/hookwright/hookwright/internal/installer"
	"github.com/hookwright/hookwright/internal/repo"
	"github.com/hookwright/hookwright/pkg/config"
	"github.com/hookwright/hookwright/pkg/logger"
)

// request is one parsed invocation: the shared policy flags plus the bulk
// scan parameters when scan mode was triggered.
type request struct {
	opts     installer.Options
	bulk     bool
	scanRoot string
	maxDepth int
}

// parseRequest reads the shared flags. Scan mode is triggered by --recursive
// or by an explicit --dir; the default depth is 1 for --recursive and 0 when
// only --dir was given.
func parseRequest(cmd *cobra.Command) (request, error) {
	var req request
	flags := cmd.Flags()

	req.opts.Yes, _ = flags.GetBool("yes")
	req.opts.NonInteractive, _ = flags.GetBool("non-interactive")
	req.opts.Force, _ = flags.GetBool("force")
	if flags.Lookup("manifest-dir") != nil {
		dir, _ := flags.GetString("manifest-dir")
		if dir != "" {
			abs, err := filepath.Abs(dir)
			if err != nil {
				return req, err
			}
			req.opts.ManifestDir = abs
		}
	}
	if flags.Lookup("verbose") != nil {
		req.opts.Verbose, _ = flags.GetBool("verbose")
	}

	cwd, err := os.Getwd()
	if err != nil {
		return req, err
	}
	req.opts.WorkDir = cwd

	recursive, _ := flags.GetBool("recursive")
	dir, _ := flags.GetString("dir")
	req.bulk = recursive || dir != ""
	if !req.bulk {
		return req, nil
	}

	req.scanRoot = cwd
	if dir != "" {
		if req.scanRoot, err = filepath.Abs(dir); err != nil {
			return req, err
		}
	}

	req.maxDepth, _ = flags.GetInt("max-depth")
	if req.maxDepth < 0 {
		if recursive {
			req.maxDepth = 1
		} else {
			req.maxDepth = 0
		}
	}
	return req, nil
}

// newOrchestrator loads configuration and wires the interactive prompter.
// Non-interactive runs get no prompter, so every ambiguity is fatal.
func newOrchestrator(opts installer.Options) (*installer.Orchestrator, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	o := &installer.Orchestrator{Config: cfg}
	if !opts.NonInteractive {
		prompter := &installer.TerminalPrompter{In: os.Stdin, Out: os.Stderr}
		o.Confirm = prompter.Confirm
		o.Selector = prompter
	}
	return o, nil
}

// runOperation executes op against the current repository, or against every
// scanned repository in bulk mode. Bulk failures are reported per repository
// and summarized; a partially failed bulk run exits non-zero.
func runOperation(cmd *cobra.Command, op func(*installer.Orchestrator, repo.Repo, installer.Options) (bool, error)) error {
	req, err := parseRequest(cmd)
	if err != nil {
		return err
	}
	o, err := newOrchestrator(req.opts)
	if err != nil {
		return err
	}

	if !req.bulk {
		r, err := repo.Find(req.opts.WorkDir)
		if err != nil {
			return err
		}
		_, err = op(o, r, req.opts)
		return err
	}

	// Bulk runs are best-effort: repositories that never had the managed
	// hook are skipped, not failed.
	summary, err := o.Bulk(req.scanRoot, req.maxDepth, func(r repo.Repo) (bool, error) {
		changed, err := op(o, r, req.opts)
		if errors.Is(err, hook.ErrNoManagedBlock) {
			logger.Debug("no managed hook; skipping", logger.String("root", r.Root))
			return false, nil
		}
		return changed, err
	})
	if err != nil {
		return err
	}

	logger.Info("bulk run finished",
		logger.Int("processed", summary.Processed),
		logger.Int("changed", summary.Changed),
		logger.Int("failed", len(summary.Failures)))
	for _, failure := range summary.Failures {
		fmt.Fprintf(cmd.ErrOrStderr(), "  %s: %v\n", failure.Root, failure.Err)
	}
	return summary.Err()
}
