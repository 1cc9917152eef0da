package hook

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// DefaultRetention is the number of snapshots kept per hook path.
const DefaultRetention = 10

// snapshotTimeFormat sorts lexicographically in chronological order.
const snapshotTimeFormat = "2006-01-02-15-04-05"

// ErrSnapshotWrite indicates a snapshot could not be created. No mutation may
// proceed without a prior successful snapshot.
var ErrSnapshotWrite = errors.New("failed to snapshot hook file")

// Snapshot copies the current hook file to a timestamped sibling and prunes
// older snapshots beyond retention. The returned path is empty when the hook
// file does not exist (nothing to preserve). Pruning failures are logged by
// the caller, not fatal: the new snapshot already exists.
func Snapshot(hookPath string, retention int) (string, error) {
	info, err := os.Stat(hookPath)
	if err != nil || !info.Mode().IsRegular() {
		return "", nil
	}

	name := filepath.Base(hookPath)
	dir := filepath.Dir(hookPath)
	prefix := name + ".snapshot-"
	stamp := time.Now().UTC().Format(snapshotTimeFormat)

	snapshotPath := filepath.Join(dir, prefix+stamp)
	for counter := 1; ; counter++ {
		if _, err := os.Stat(snapshotPath); os.IsNotExist(err) {
			break
		}
		if counter > 10000 {
			return "", fmt.Errorf("%w: too many snapshot files for %s", ErrSnapshotWrite, hookPath)
		}
		snapshotPath = filepath.Join(dir, fmt.Sprintf("%s%s.%d", prefix, stamp, counter))
	}

	data, err := os.ReadFile(hookPath) // #nosec G304 -- caller-resolved hook path
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSnapshotWrite, err)
	}
	if err := os.WriteFile(snapshotPath, data, 0o600); err != nil {
		return "", fmt.Errorf("%w: %v", ErrSnapshotWrite, err)
	}

	Prune(dir, prefix, retention)
	return snapshotPath, nil
}

// Prune deletes all but the newest retention snapshots matching prefix in
// dir. The timestamped names sort lexicographically, oldest first.
func Prune(dir, prefix string, retention int) {
	if retention <= 0 {
		return
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}

	var snapshots []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasPrefix(entry.Name(), prefix) {
			snapshots = append(snapshots, entry.Name())
		}
	}
	sort.Strings(snapshots)

	if len(snapshots) <= retention {
		return
	}
	for _, name := range snapshots[:len(snapshots)-retention] {
		_ = os.Remove(filepath.Join(dir, name))
	}
}

// ListSnapshots returns snapshot file names for a hook path, oldest first.
func ListSnapshots(hookPath string) []string {
	prefix := filepath.Base(hookPath) + ".snapshot-"
	entries, err := os.ReadDir(filepath.Dir(hookPath))
	if err != nil {
		return nil
	}

	var snapshots []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasPrefix(entry.Name(), prefix) {
			snapshots = append(snapshots, entry.Name())
		}
	}
	sort.Strings(snapshots)
	return snapshots
}
