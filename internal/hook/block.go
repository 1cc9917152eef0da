// Package hook owns the managed block inside a git hook file: templating,
// merging, snapshots, and the runtime protocol the generated script follows
// at commit time. Everything outside the block markers is foreign content and
// is never modified.
package hook

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// BlockBegin and BlockEnd delimit the managed region. They must appear
	// exactly once each, begin before end, for a file to be considered
	// well-formed.
	BlockBegin = "# >>> hookwright managed block >>>"
	BlockEnd   = "# <<< hookwright managed block <<<"

	// enabledLine prefix carries the kill switch stored inside the hook
	// file itself; disable rewrites it rather than touching the block body.
	enabledPrefix = "HW_ENABLED="
)

// ErrCorruptManagedBlock indicates ambiguous or mismatched markers. The file
// is never auto-repaired; the user must resolve it by hand (snapshots hold
// prior states).
var ErrCorruptManagedBlock = errors.New("corrupt managed block markers in hook file")

// ErrNoManagedBlock indicates the operation needs an existing managed block
// and none was found.
var ErrNoManagedBlock = errors.New("no managed block found in hook file")

// blockSpan is the parsed location of the managed block in a line slice.
type blockSpan struct {
	begin int // index of the begin marker line
	end   int // index of the end marker line
}

// findBlock locates the managed block. found is false when no markers exist
// at all; any other imbalance is corruption.
func findBlock(lines []string) (blockSpan, bool, error) {
	var begins, ends []int
	for i, line := range lines {
		switch strings.TrimRight(line, " \t") {
		case BlockBegin:
			begins = append(begins, i)
		case BlockEnd:
			ends = append(ends, i)
		}
	}

	if len(begins) == 0 && len(ends) == 0 {
		return blockSpan{}, false, nil
	}
	if len(begins) != 1 || len(ends) != 1 || begins[0] > ends[0] {
		return blockSpan{}, false, fmt.Errorf("%w (%d begin, %d end)", ErrCorruptManagedBlock, len(begins), len(ends))
	}
	return blockSpan{begin: begins[0], end: ends[0]}, true, nil
}

// EnsureShebang prepends a POSIX sh interpreter line when content lacks one.
func EnsureShebang(content string) string {
	firstLine, _, _ := strings.Cut(content, "\n")
	if strings.HasPrefix(firstLine, "#!") {
		return content
	}
	return "#!/bin/sh\n" + content
}

// Upsert merges block (full text, markers included) into existing hook
// content. With no existing markers the block is appended after any foreign
// content, separated by a blank line; with a well-formed marker pair only the
// text strictly between the markers is replaced. Prefix and suffix bytes are
// preserved exactly.
func Upsert(existing, block string) (string, error) {
	if strings.TrimSpace(existing) == "" {
		return EnsureShebang(joinLines(splitLines(block))), nil
	}

	lines := splitLines(existing)
	span, found, err := findBlock(lines)
	if err != nil {
		return "", err
	}

	blockLines := splitLines(block)

	if !found {
		out := make([]string, 0, len(lines)+len(blockLines)+1)
		out = append(out, lines...)
		if lines[len(lines)-1] != "" {
			out = append(out, "")
		}
		out = append(out, blockLines...)
		return joinLines(out), nil
	}

	body := interiorOf(blockLines)
	out := make([]string, 0, len(lines)-(span.end-span.begin-1)+len(body))
	out = append(out, lines[:span.begin+1]...)
	out = append(out, body...)
	out = append(out, lines[span.end:]...)
	return joinLines(out), nil
}

// Disable flips the enabled setting inside the managed block to 0, leaving
// markers and the rest of the body in place so a later install can re-enable
// without re-detection.
func Disable(existing string) (string, error) {
	lines := splitLines(existing)
	span, found, err := findBlock(lines)
	if err != nil {
		return "", err
	}
	if !found {
		return "", ErrNoManagedBlock
	}

	changed := false
	out := make([]string, len(lines))
	for i, line := range lines {
		if i > span.begin && i < span.end && strings.HasPrefix(strings.TrimSpace(line), enabledPrefix) {
			out[i] = enabledPrefix + "0"
			changed = true
			continue
		}
		out[i] = line
	}

	if !changed {
		return "", fmt.Errorf("managed block found, but no %s setting line", enabledPrefix)
	}
	return joinLines(out), nil
}

// Uninstall removes the marker pair and everything between, plus at most one
// adjacent blank line, leaving all other content exactly as it was.
func Uninstall(existing string) (string, error) {
	lines := splitLines(existing)
	span, found, err := findBlock(lines)
	if err != nil {
		return "", err
	}
	if !found {
		return "", ErrNoManagedBlock
	}

	begin, end := span.begin, span.end
	if begin > 0 && lines[begin-1] == "" {
		begin--
	} else if end+1 < len(lines) && lines[end+1] == "" {
		end++
	}

	out := append([]string{}, lines[:begin]...)
	out = append(out, lines[end+1:]...)
	return joinLines(out), nil
}

// Partition splits hook content into the foreign prefix, the managed block
// body (markers excluded), and the foreign suffix. Returns ErrNoManagedBlock
// when no markers exist and ErrCorruptManagedBlock on marker imbalance.
func Partition(content string) (prefix, body, suffix string, err error) {
	lines := splitLines(content)
	span, found, err := findBlock(lines)
	if err != nil {
		return "", "", "", err
	}
	if !found {
		return "", "", "", ErrNoManagedBlock
	}
	return joinLines(lines[:span.begin]),
		joinLines(lines[span.begin+1 : span.end]),
		joinLines(lines[span.end+1:]),
		nil
}

// HasManagedBlock reports whether content carries both markers. It does not
// validate well-formedness; use findBlock-backed operations for that.
func HasManagedBlock(content string) bool {
	return strings.Contains(content, BlockBegin) && strings.Contains(content, BlockEnd)
}

// interiorOf strips the marker lines from a full rendered block.
func interiorOf(blockLines []string) []string {
	start, end := 0, len(blockLines)
	if start < end && blockLines[start] == BlockBegin {
		start++
	}
	if end > start && blockLines[end-1] == BlockEnd {
		end--
	}
	return blockLines[start:end]
}

// splitLines splits on LF, dropping a single trailing empty element so that
// "a\nb\n" round-trips as ["a","b"].
func splitLines(s string) []string {
	lines := strings.Split(s, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// joinLines joins lines with LF and guarantees a single trailing newline.
func joinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}
