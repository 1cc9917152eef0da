package safeio

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestEnsureWithin(t *testing.T) {
	base := t.TempDir()

	tests := []struct {
		name      string
		candidate string
		wantErr   bool
	}{
		{"base itself", base, false},
		{"direct child", filepath.Join(base, "crates"), false},
		{"nested child", filepath.Join(base, "a", "b", "c"), false},
		{"parent", filepath.Dir(base), true},
		{"sibling escape", filepath.Join(base, "..", "elsewhere"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := EnsureWithin(base, tt.candidate)
			if tt.wantErr && !errors.Is(err, ErrOutsideBase) {
				t.Errorf("EnsureWithin(%q) = %v, want ErrOutsideBase", tt.candidate, err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("EnsureWithin(%q) = %v, want nil", tt.candidate, err)
			}
		})
	}
}

func TestWriteFilePreservePerms(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hook")

	if err := os.WriteFile(path, []byte("old"), 0o755); err != nil {
		t.Fatalf("seed write failed: %v", err)
	}
	if err := WriteFilePreservePerms(path, []byte("new")); err != nil {
		t.Fatalf("WriteFilePreservePerms failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}
	if info.Mode().Perm() != 0o755 {
		t.Errorf("mode = %o, want 755", info.Mode().Perm())
	}

	data, _ := os.ReadFile(path)
	if string(data) != "new" {
		t.Errorf("content = %q, want %q", data, "new")
	}
}

func TestWriteFilePreservePermsNewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fresh")
	if err := WriteFilePreservePerms(path, []byte("x")); err != nil {
		t.Fatalf("WriteFilePreservePerms failed: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}
	if info.Mode().Perm() != 0o644 {
		t.Errorf("mode = %o, want 644", info.Mode().Perm())
	}
}

func TestSetExecutable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hook")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"), 0o644); err != nil {
		t.Fatalf("seed write failed: %v", err)
	}
	if err := SetExecutable(path); err != nil {
		t.Fatalf("SetExecutable failed: %v", err)
	}
	if !IsExecutable(path) {
		t.Error("IsExecutable = false, want true")
	}
}
