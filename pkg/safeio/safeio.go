// Package safeio provides path-containment checks and permission-preserving writes.
package safeio

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// ErrOutsideBase is returned when a candidate path escapes its base directory.
var ErrOutsideBase = errors.New("path is outside base directory")

// EnsureWithin verifies that candidate resolves to a location inside baseDir.
// Both paths are resolved to absolute form; containment is checked with
// filepath.Rel so that lexical tricks like "repo/../elsewhere" are rejected.
func EnsureWithin(baseDir, candidate string) error {
	baseAbs, err := filepath.Abs(baseDir)
	if err != nil {
		return err
	}
	candAbs, err := filepath.Abs(candidate)
	if err != nil {
		return err
	}

	rel, err := filepath.Rel(baseAbs, candAbs)
	if err != nil {
		return ErrOutsideBase
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return ErrOutsideBase
	}
	return nil
}

// WriteFilePreservePerms writes data to path preserving the existing file mode
// when possible. When the file does not exist, it uses a default of 0644.
func WriteFilePreservePerms(path string, data []byte) error {
	var mode os.FileMode = 0o644
	if st, err := os.Stat(path); err == nil {
		mode = st.Mode() & 0o777
		if mode == 0 {
			mode = 0o644
		}
	}
	return os.WriteFile(path, data, mode)
}

// SetExecutable marks path as executable for owner, group, and other.
func SetExecutable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	return os.Chmod(path, info.Mode().Perm()|0o111)
}

// IsExecutable reports whether path carries any execute bit. A file that
// cannot be inspected is not executable.
func IsExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().Perm()&0o111 != 0
}
