// Package exitcode provides standardized exit codes for hookwright
package exitcode

// Exit codes for the hookwright CLI
const (
	Success         = 0
	GeneralError    = 1
	ConfigError     = 2
	AmbiguityError  = 3
	RepoNotFound    = 4
	SnapshotError   = 5
	CorruptHook     = 6
	FileSystemError = 7
)

// String returns a human-readable description of the exit code
func String(code int) string {
	switch code {
	case Success:
		return "Success"
	case GeneralError:
		return "General error"
	case ConfigError:
		return "Configuration error"
	case AmbiguityError:
		return "Ambiguous input under non-interactive mode"
	case RepoNotFound:
		return "Not a git repository"
	case SnapshotError:
		return "Snapshot write failure"
	case CorruptHook:
		return "Corrupt managed hook block"
	case FileSystemError:
		return "File system error"
	default:
		return "Unknown error"
	}
}
