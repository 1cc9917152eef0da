package exitcode

import "testing"

func TestStringKnownCodes(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{Success, "Success"},
		{GeneralError, "General error"},
		{ConfigError, "Configuration error"},
		{AmbiguityError, "Ambiguous input under non-interactive mode"},
		{RepoNotFound, "Not a git repository"},
		{SnapshotError, "Snapshot write failure"},
		{CorruptHook, "Corrupt managed hook block"},
		{FileSystemError, "File system error"},
	}

	for _, tt := range tests {
		if got := String(tt.code); got != tt.want {
			t.Errorf("String(%d) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestStringUnknownCode(t *testing.T) {
	if got := String(99); got != "Unknown error" {
		t.Errorf("String(99) = %q, want %q", got, "Unknown error")
	}
}

func TestCodesAreDistinct(t *testing.T) {
	codes := []int{Success, GeneralError, ConfigError, AmbiguityError, RepoNotFound, SnapshotError, CorruptHook, FileSystemError}
	seen := make(map[int]bool)
	for _, c := range codes {
		if seen[c] {
			t.Errorf("duplicate exit code %d", c)
		}
		seen[c] = true
	}
}
