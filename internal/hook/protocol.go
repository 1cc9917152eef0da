package hook

import (
	"fmt"

	"github.com/hookwright/hookwright/pkg/logger"
)

// State is a phase of the commit-time run. The rendered script walks the
// same phases in shell; this model exists so the transition and rollback
// rules can be exercised directly in Go.
type State int

const (
	StateIdle State = iota
	StateMaybeStash
	StateRunFixers
	StateRestage
	StateMaybeUnstash
	StateDone
	StateRollback
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateMaybeStash:
		return "maybe-stash"
	case StateRunFixers:
		return "run-fixers"
	case StateRestage:
		return "restage"
	case StateMaybeUnstash:
		return "maybe-unstash"
	case StateDone:
		return "done"
	case StateRollback:
		return "rollback"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// GitOps is the slice of git behavior the protocol needs. The commit-time
// script talks to the real git binary; tests supply a fake.
type GitOps interface {
	// HasUnstagedOrUntracked reports whether the worktree carries changes
	// outside the index.
	HasUnstagedOrUntracked() (bool, error)
	// SaveStagedDiff captures the current index diff as the rollback point.
	SaveStagedDiff() error
	// StashPush saves unstaged and untracked changes while keeping the index.
	StashPush() error
	// StashPop restores a previously pushed stash.
	StashPop() error
	// StagedFiles lists paths currently staged for commit.
	StagedFiles() ([]string, error)
	// Restage re-adds the given paths so fixer rewrites land in the commit.
	Restage(paths []string) error
	// ResetHard discards index and worktree state.
	ResetHard() error
	// RestoreStagedDiff re-applies the diff captured by SaveStagedDiff.
	RestoreStagedDiff() error
}

// Fixer is one enabled language step. Fix receives the staged paths and
// rewrites the ones it owns in place; it returns the paths it touched.
type Fixer interface {
	Name() string
	Fix(staged []string) (touched []string, err error)
}

// RunResult reports where a run ended up. FixerErr is set only when the run
// entered rollback; RollbackErrs collects secondary failures from the
// best-effort restore.
type RunResult struct {
	Final        State
	Stashed      bool
	FixerErr     error
	RollbackErrs []error
}

// Committed reports whether the commit may proceed.
func (r RunResult) Committed() bool {
	return r.Final == StateDone
}

// Runner drives one commit-time pass over the protocol states.
type Runner struct {
	Git    GitOps
	Fixers []Fixer
}

// Run walks Idle through Done, entering Rollback if any fixer fails. A
// normal pass never vetoes the commit; only rollback does.
func (r *Runner) Run() RunResult {
	res := RunResult{Final: StateIdle}

	// MaybeStash: snapshot the index diff first so rollback has an anchor
	// even when the stash itself fails.
	res.Final = StateMaybeStash
	if err := r.Git.SaveStagedDiff(); err != nil {
		res.FixerErr = fmt.Errorf("saving staged diff: %w", err)
		return r.rollback(res)
	}
	dirty, err := r.Git.HasUnstagedOrUntracked()
	if err != nil {
		res.FixerErr = fmt.Errorf("checking worktree state: %w", err)
		return r.rollback(res)
	}
	if dirty {
		if err := r.Git.StashPush(); err != nil {
			res.FixerErr = fmt.Errorf("stashing unstaged changes: %w", err)
			return r.rollback(res)
		}
		res.Stashed = true
	}

	res.Final = StateRunFixers
	staged, err := r.Git.StagedFiles()
	if err != nil {
		res.FixerErr = fmt.Errorf("listing staged files: %w", err)
		return r.rollback(res)
	}
	if len(staged) == 0 {
		return r.finish(res)
	}

	var touched []string
	for _, fixer := range r.Fixers {
		logger.Debug("running fixer", logger.String("fixer", fixer.Name()))
		changed, err := fixer.Fix(staged)
		if err != nil {
			res.FixerErr = fmt.Errorf("fixer %s: %w", fixer.Name(), err)
			return r.rollback(res)
		}
		touched = append(touched, changed...)
	}

	res.Final = StateRestage
	if len(touched) > 0 {
		if err := r.Git.Restage(touched); err != nil {
			res.FixerErr = fmt.Errorf("restaging fixed files: %w", err)
			return r.rollback(res)
		}
	}

	return r.finish(res)
}

// finish runs MaybeUnstash and lands in Done. A failing stash pop is logged
// but does not veto the commit: the stash is preserved for manual recovery.
func (r *Runner) finish(res RunResult) RunResult {
	res.Final = StateMaybeUnstash
	if res.Stashed {
		if err := r.Git.StashPop(); err != nil {
			logger.Warn("stash pop failed; stash preserved for manual recovery",
				logger.Err(err))
		}
	}
	res.Final = StateDone
	return res
}

// rollback restores the pre-run state best-effort: every step is attempted
// even when earlier ones fail, and secondary errors are collected rather
// than masked.
func (r *Runner) rollback(res RunResult) RunResult {
	res.Final = StateRollback
	logger.Warn("fixer step failed; rolling back", logger.Err(res.FixerErr))

	if err := r.Git.ResetHard(); err != nil {
		res.RollbackErrs = append(res.RollbackErrs, fmt.Errorf("reset: %w", err))
	}
	if err := r.Git.RestoreStagedDiff(); err != nil {
		res.RollbackErrs = append(res.RollbackErrs, fmt.Errorf("restore staged diff: %w", err))
	}
	if res.Stashed {
		if err := r.Git.StashPop(); err != nil {
			res.RollbackErrs = append(res.RollbackErrs, fmt.Errorf("stash pop: %w", err))
		}
	}
	for _, err := range res.RollbackErrs {
		logger.Warn("rollback step failed", logger.Err(err))
	}
	return res
}
