package hook

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hookwright/hookwright/pkg/logger"
	"github.com/hookwright/hookwright/pkg/safeio"
)

// ErrExistingUnmanagedHook is returned when the hook file carries foreign
// content, no managed block, and the confirmation policy forbids touching it.
var ErrExistingUnmanagedHook = errors.New("existing unmanaged hook file; rerun with --force or confirm interactively")

// ConfirmFunc asks the operator a yes/no question. It is only consulted in
// interactive mode.
type ConfirmFunc func(prompt string) (bool, error)

// WriteOptions carries the confirmation policy for a hook mutation.
type WriteOptions struct {
	Yes            bool
	NonInteractive bool
	Force          bool
	Retention      int
	Confirm        ConfirmFunc
}

func (o WriteOptions) retention() int {
	if o.Retention > 0 {
		return o.Retention
	}
	return DefaultRetention
}

// UpsertInFile merges block into the hook file at path, snapshotting first.
//
// Conflict policy for a non-empty file with no managed block: --force and
// --yes proceed, --non-interactive fails, and otherwise the operator is
// asked. A file that already carries a well-formed managed block is always
// updated in place without prompting; repeat installs are idempotent.
func UpsertInFile(path, block string, opts WriteOptions) (changed bool, err error) {
	existing, err := readIfPresent(path)
	if err != nil {
		return false, err
	}

	if strings.TrimSpace(existing) != "" && !HasManagedBlock(existing) {
		if err := authorizeForeignOverwrite(path, opts); err != nil {
			return false, err
		}
	}

	merged, err := Upsert(existing, block)
	if err != nil {
		return false, err
	}
	if merged == existing {
		logger.Debug("hook already up to date", logger.String("path", path))
		return false, nil
	}

	if err := writeWithSnapshot(path, existing, merged, opts.retention()); err != nil {
		return false, err
	}
	if err := safeio.SetExecutable(path); err != nil {
		return true, fmt.Errorf("marking hook executable: %w", err)
	}
	return true, nil
}

// DisableInFile rewrites the managed block's enable flag to off, keeping the
// markers so a later install lands in the same position.
func DisableInFile(path string, opts WriteOptions) (changed bool, err error) {
	existing, err := readIfPresent(path)
	if err != nil {
		return false, err
	}

	updated, err := Disable(existing)
	if err != nil {
		return false, err
	}
	if updated == existing {
		return false, nil
	}
	if err := writeWithSnapshot(path, existing, updated, opts.retention()); err != nil {
		return false, err
	}
	return true, nil
}

// UninstallFromFile removes the managed block. When nothing but the block
// (and the shebang it brought along) remains, the file itself is removed so
// the hooks directory returns to its pre-install state.
func UninstallFromFile(path string, opts WriteOptions) (changed bool, err error) {
	existing, err := readIfPresent(path)
	if err != nil {
		return false, err
	}

	updated, err := Uninstall(existing)
	if err != nil {
		return false, err
	}
	if updated == existing {
		return false, nil
	}

	if onlyShebangOrBlank(updated) {
		if _, err := Snapshot(path, opts.retention()); err != nil {
			return false, err
		}
		if err := os.Remove(path); err != nil {
			return false, fmt.Errorf("removing emptied hook file: %w", err)
		}
		logger.Info("removed emptied hook file", logger.String("path", path))
		return true, nil
	}

	if err := writeWithSnapshot(path, existing, updated, opts.retention()); err != nil {
		return false, err
	}
	return true, nil
}

func authorizeForeignOverwrite(path string, opts WriteOptions) error {
	if opts.Force || opts.Yes {
		return nil
	}
	if opts.NonInteractive || opts.Confirm == nil {
		return fmt.Errorf("%s: %w", path, ErrExistingUnmanagedHook)
	}
	prompt := fmt.Sprintf("Hook file %s contains unmanaged content. Append the managed block after it?", path)
	ok, err := opts.Confirm(prompt)
	if err != nil {
		return fmt.Errorf("reading confirmation: %w", err)
	}
	if !ok {
		return fmt.Errorf("%s: %w", path, ErrExistingUnmanagedHook)
	}
	return nil
}

// writeWithSnapshot snapshots the current content, then writes the new one.
// The snapshot is taken even when the write later fails, so the rollback
// point survives a partial mutation. A failed snapshot aborts the write.
func writeWithSnapshot(path, existing, updated string, retention int) error {
	if existing != "" {
		snap, err := Snapshot(path, retention)
		if err != nil {
			return err
		}
		if snap != "" {
			logger.Debug("snapshot taken",
				logger.String("hook", path), logger.String("snapshot", snap))
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating hooks directory: %w", err)
	}
	if err := safeio.WriteFilePreservePerms(path, []byte(updated)); err != nil {
		return fmt.Errorf("writing hook file: %w", err)
	}
	return nil
}

func readIfPresent(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("reading hook file: %w", err)
	}
	return string(data), nil
}

// onlyShebangOrBlank reports whether content is empty apart from an
// interpreter line and blank lines.
func onlyShebangOrBlank(content string) bool {
	for i, line := range splitLines(content) {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if i == 0 && strings.HasPrefix(line, "#!") {
			continue
		}
		return false
	}
	return true
}
