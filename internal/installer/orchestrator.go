// Package installer sequences a hook mutation for one repository: locate,
// detect, resolve, template, snapshot, merge, write. Bulk mode expands one
// request into a per-repository sequence over scan results.
package installer

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hookwright/hookwright/internal/detect"
	"github.com/hookwright/hookwright/internal/hook"
	"github.com/hookwright/hookwright/internal/repo"
	"github.com/hookwright/hookwright/pkg/config"
	"github.com/hookwright/hookwright/pkg/logger"
)

// Options carries the per-invocation policy shared by all operations.
type Options struct {
	Yes            bool
	NonInteractive bool
	Force          bool
	ManifestDir    string
	Verbose        bool
	// WorkDir is where the invocation started; manifest discovery prefers
	// manifests on the WorkDir→root ancestor chain. Empty means the repo
	// root itself.
	WorkDir string
}

// Result reports what one repository operation did.
type Result struct {
	Repo     repo.Repo
	HookPath string
	Changed  bool
	Settings detect.Settings
	Evidence detect.Evidence
}

// Orchestrator wires configuration and the interactive collaborators. Confirm
// and Selector may be nil; every prompt then degrades to the non-interactive
// failure path.
type Orchestrator struct {
	Config   *config.Config
	Confirm  hook.ConfirmFunc
	Selector detect.Selector
}

// HookPath returns the managed hook's location for a repository.
func (o *Orchestrator) HookPath(r repo.Repo) string {
	return filepath.Join(r.HooksDir(), o.Config.Hook.Name)
}

// Install detects the repository's toolchains, renders the managed block, and
// merges it into the hook file. Repeat installs against unchanged evidence
// are no-ops.
func (o *Orchestrator) Install(r repo.Repo, opts Options) (Result, error) {
	res := Result{Repo: r, HookPath: o.HookPath(r)}

	collector := detect.Collector{
		Root:         r.Root,
		ScanDepth:    o.Config.Detect.ScanDepth,
		ScanMaxFiles: o.Config.Detect.ScanMaxFiles,
	}
	if opts.ManifestDir != "" {
		collector.ExtraDirs = []string{opts.ManifestDir}
	}
	res.Evidence = collector.Collect()

	cargoDir, err := o.cargoManifestDir(r, res.Evidence, opts)
	if err != nil {
		return res, err
	}

	res.Settings = detect.Resolve(res.Evidence, r.Root, cargoDir)
	o.reportChoices(r, res.Settings, opts)

	block, err := hook.RenderBlock(res.Settings, r.Root)
	if err != nil {
		return res, fmt.Errorf("rendering hook block: %w", err)
	}

	res.Changed, err = hook.UpsertInFile(res.HookPath, block, o.writeOptions(opts))
	if err != nil {
		return res, err
	}
	if res.Changed {
		logger.Info("hook installed",
			logger.String("repo", r.Root), logger.String("hook", res.HookPath))
	} else {
		logger.Info("hook already up to date", logger.String("repo", r.Root))
	}
	return res, nil
}

// Disable flips the kill switch inside the managed block, keeping markers and
// body so a later install re-enables in place.
func (o *Orchestrator) Disable(r repo.Repo, opts Options) (Result, error) {
	res := Result{Repo: r, HookPath: o.HookPath(r)}

	changed, err := hook.DisableInFile(res.HookPath, o.writeOptions(opts))
	if err != nil {
		return res, err
	}
	res.Changed = changed
	if changed {
		logger.Info("hook disabled", logger.String("repo", r.Root))
	}
	return res, nil
}

// Uninstall removes the managed block, and the hook file itself when nothing
// else remains in it.
func (o *Orchestrator) Uninstall(r repo.Repo, opts Options) (Result, error) {
	res := Result{Repo: r, HookPath: o.HookPath(r)}

	changed, err := hook.UninstallFromFile(res.HookPath, o.writeOptions(opts))
	if err != nil {
		return res, err
	}
	res.Changed = changed
	if changed {
		logger.Info("hook uninstalled", logger.String("repo", r.Root))
	}
	return res, nil
}

// cargoManifestDir resolves where cargo fmt should run. A missing manifest
// excludes the Rust section with a diagnostic; an ambiguous one is fatal
// unless an interactive selector can settle it.
func (o *Orchestrator) cargoManifestDir(r repo.Repo, evidence detect.Evidence, opts Options) (string, error) {
	if !evidence.Enabled(detect.LangRust) {
		return "", nil
	}

	var selector detect.Selector
	if !opts.NonInteractive && !opts.Yes {
		selector = o.Selector
	}
	bounds := detect.ManifestDirBounds{
		MaxDepth:   o.Config.Detect.ManifestScanDepth,
		MaxEntries: o.Config.Detect.ManifestScanFiles,
		SkipDirs:   o.Config.Scan.SkipDirs,
	}

	cwd := opts.WorkDir
	if cwd == "" {
		cwd = r.Root
	}
	dir, err := detect.ResolveCargoManifestDir(opts.ManifestDir, cwd, r.Root, bounds, selector)
	if err != nil {
		if errors.Is(err, detect.ErrNoCargoManifest) {
			logger.Warn("rust sources found but no Cargo.toml; skipping cargo fmt section",
				logger.String("repo", r.Root))
			return "", nil
		}
		return "", err
	}
	return dir, nil
}

// reportChoices prints resolved toolchains in verbose interactive runs.
// Non-interactive and silent runs stay quiet about defaults.
func (o *Orchestrator) reportChoices(r repo.Repo, s detect.Settings, opts Options) {
	if !opts.Verbose || opts.NonInteractive {
		return
	}
	if s.JSTS != nil {
		logChoice("js-ts", string(s.JSTS.Tool), s.JSTS.Kind, s.JSTS.Reason)
	}
	if s.Python != nil {
		logChoice("python", string(s.Python.Tool), s.Python.Kind, s.Python.Reason)
	}
	if s.JavaKotlin != nil {
		logChoice("java-kotlin", string(s.JavaKotlin.Tool), s.JavaKotlin.Kind, s.JavaKotlin.Reason)
	}
	if s.CargoManifestDir != "" {
		logger.Info("toolchain resolved",
			logger.String("language", "rust"),
			logger.String("manifest_dir", s.CargoManifestDir))
	}
}

func logChoice(lang, tool string, kind detect.ChoiceKind, reason string) {
	fields := []logger.Field{
		logger.String("language", lang),
		logger.String("tool", tool),
		logger.String("kind", string(kind)),
	}
	if reason != "" {
		fields = append(fields, logger.String("reason", reason))
	}
	logger.Info("toolchain resolved", fields...)
}

func (o *Orchestrator) writeOptions(opts Options) hook.WriteOptions {
	return hook.WriteOptions{
		Yes:            opts.Yes,
		NonInteractive: opts.NonInteractive,
		Force:          opts.Force,
		Retention:      o.Config.Snapshots.Retention,
		Confirm:        o.Confirm,
	}
}

// BulkFailure records one repository's error during a bulk run.
type BulkFailure struct {
	Root string
	Err  error
}

// BulkSummary aggregates a bulk run over scanned repositories.
type BulkSummary struct {
	Processed int
	Changed   int
	Failures  []BulkFailure
}

// Err returns a single error summarizing failures, or nil.
func (s BulkSummary) Err() error {
	if len(s.Failures) == 0 {
		return nil
	}
	roots := make([]string, 0, len(s.Failures))
	for _, f := range s.Failures {
		roots = append(roots, f.Root)
	}
	return fmt.Errorf("%d of %d repositories failed: %s",
		len(s.Failures), s.Processed, strings.Join(roots, ", "))
}

// Bulk scans for repositories under scanRoot and applies op to each, one at a
// time in deterministic order so prompts never interleave. A failing
// repository is recorded and the run continues; each repository's mutation
// stays independently transactional.
func (o *Orchestrator) Bulk(scanRoot string, maxDepth int, op func(repo.Repo) (bool, error)) (BulkSummary, error) {
	targets, err := repo.Scan(scanRoot, repo.ScanOptions{
		MaxDepth:   maxDepth,
		SkipDirs:   o.Config.Scan.SkipDirs,
		MaxEntries: o.Config.Scan.MaxEntries,
	})
	if err != nil {
		return BulkSummary{}, err
	}
	if len(targets) == 0 {
		return BulkSummary{}, fmt.Errorf("no repositories found under %s (max depth %d)", scanRoot, maxDepth)
	}

	var summary BulkSummary
	for _, target := range targets {
		summary.Processed++
		logger.Debug("processing repository",
			logger.String("root", target.Repo.Root), logger.Int("depth", target.Depth))

		changed, err := op(target.Repo)
		if err != nil {
			logger.Error("repository failed",
				logger.String("root", target.Repo.Root), logger.Err(err))
			summary.Failures = append(summary.Failures, BulkFailure{Root: target.Repo.Root, Err: err})
			continue
		}
		if changed {
			summary.Changed++
		}
	}
	return summary, nil
}
