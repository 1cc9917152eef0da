package installer

import (
	"os"
	"strings"

	"github.com/hookwright/hookwright/internal/hook"
	"github.com/hookwright/hookwright/internal/repo"
	"github.com/hookwright/hookwright/pkg/safeio"
)

// HookState classifies what the hook file currently holds.
type HookState string

const (
	StateAbsent    HookState = "absent"    // no hook file
	StateUnmanaged HookState = "unmanaged" // file exists, no managed block
	StateEnabled   HookState = "enabled"   // managed block present, switch on
	StateDisabled  HookState = "disabled"  // managed block present, switch off
	StateCorrupt   HookState = "corrupt"   // marker imbalance
)

// Status reports one repository's hook without mutating anything.
type Status struct {
	Root       string            `json:"root" yaml:"root"`
	HookPath   string            `json:"hook_path" yaml:"hook_path"`
	State      HookState         `json:"state" yaml:"state"`
	Executable bool              `json:"executable" yaml:"executable"`
	Foreign    bool              `json:"foreign_content" yaml:"foreign_content"`
	Snapshots  []string          `json:"snapshots,omitempty" yaml:"snapshots,omitempty"`
	Toolchain  map[string]string `json:"toolchain,omitempty" yaml:"toolchain,omitempty"`
}

// Inspect reads the hook file and classifies it. Verbose inspection also
// parses the HW_* settings the block carries, so status can show what a past
// install decided without re-running detection.
func (o *Orchestrator) Inspect(r repo.Repo, verbose bool) Status {
	st := Status{
		Root:     r.Root,
		HookPath: o.HookPath(r),
		State:    StateAbsent,
	}

	data, err := os.ReadFile(st.HookPath)
	if err != nil {
		return st
	}
	content := string(data)

	st.Executable = safeio.IsExecutable(st.HookPath)
	st.Snapshots = hook.ListSnapshots(st.HookPath)

	if !hook.HasManagedBlock(content) {
		if strings.TrimSpace(content) != "" {
			st.State = StateUnmanaged
			st.Foreign = true
		}
		return st
	}

	prefix, body, suffix, err := hook.Partition(content)
	if err != nil {
		st.State = StateCorrupt
		return st
	}
	st.Foreign = strings.TrimSpace(stripShebang(prefix)) != "" || strings.TrimSpace(suffix) != ""

	settings := parseBlockSettings(body)
	if settings["HW_ENABLED"] == "1" {
		st.State = StateEnabled
	} else {
		st.State = StateDisabled
	}
	if verbose {
		st.Toolchain = settings
	}
	return st
}

// parseBlockSettings extracts the HW_* assignments from a managed block body.
func parseBlockSettings(body string) map[string]string {
	settings := make(map[string]string)
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "HW_") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok || strings.Contains(key, " ") {
			continue
		}
		settings[key] = strings.Trim(value, `"`)
	}
	return settings
}

func stripShebang(s string) string {
	first, rest, found := strings.Cut(s, "\n")
	if strings.HasPrefix(first, "#!") {
		if !found {
			return ""
		}
		return rest
	}
	return s
}
