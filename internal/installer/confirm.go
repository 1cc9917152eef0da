package installer

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/hookwright/hookwright/internal/detect"
)

// TerminalPrompter implements the yes/no confirmation and the manifest
// candidate selection on a reader/writer pair, normally stdin/stderr.
// Prompts go to stderr so piped stdout stays machine-readable.
type TerminalPrompter struct {
	In  io.Reader
	Out io.Writer

	reader *bufio.Reader
}

func (p *TerminalPrompter) line() (string, error) {
	if p.reader == nil {
		p.reader = bufio.NewReader(p.In)
	}
	line, err := p.reader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Confirm asks a yes/no question, defaulting to no.
func (p *TerminalPrompter) Confirm(prompt string) (bool, error) {
	fmt.Fprintf(p.Out, "%s [y/N]: ", prompt)
	answer, err := p.line()
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// Select presents numbered candidates and reads the chosen index. An empty
// answer or anything out of range aborts with ErrAmbiguousManifestDir so the
// caller fails the same way a non-interactive run would.
func (p *TerminalPrompter) Select(prompt string, candidates []string) (int, error) {
	fmt.Fprintln(p.Out, prompt)
	for i, candidate := range candidates {
		fmt.Fprintf(p.Out, "  %d) %s\n", i+1, candidate)
	}
	fmt.Fprintf(p.Out, "Choose [1-%d]: ", len(candidates))

	answer, err := p.line()
	if err != nil {
		return 0, err
	}
	choice, err := strconv.Atoi(answer)
	if err != nil || choice < 1 || choice > len(candidates) {
		return 0, detect.ErrAmbiguousManifestDir
	}
	return choice - 1, nil
}
