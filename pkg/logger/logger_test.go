package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func setupCapture(t *testing.T, config Config) *bytes.Buffer {
	t.Helper()
	Initialize(config)
	var buf bytes.Buffer
	SetOutput(&buf)
	return &buf
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"trace", TraceLevel},
		{"debug", DebugLevel},
		{"info", InfoLevel},
		{"warn", WarnLevel},
		{"error", ErrorLevel},
		{"ERROR", ErrorLevel},
		{"bogus", InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	buf := setupCapture(t, Config{Level: WarnLevel, Component: "hookwright"})

	Info("should be filtered")
	Warn("should appear")

	out := buf.String()
	if strings.Contains(out, "should be filtered") {
		t.Error("info message should have been filtered at warn level")
	}
	if !strings.Contains(out, "should appear") {
		t.Error("warn message missing from output")
	}
}

func TestPrettyFormatIncludesComponentAndFields(t *testing.T) {
	buf := setupCapture(t, Config{Level: InfoLevel, Component: "hookwright"})

	Info("installed hook", String("repo", "/tmp/r"), Int("sections", 3))

	out := buf.String()
	for _, want := range []string{"[INFO]", "hookwright:", "installed hook", "repo=/tmp/r", "sections=3"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}

func TestJSONFormat(t *testing.T) {
	buf := setupCapture(t, Config{Level: InfoLevel, JSON: true, Component: "hookwright"})

	Info("snapshot created", String("path", "pre-commit.snapshot-x"))

	var entry LogEntry
	line := strings.TrimSpace(buf.String())
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("output is not valid JSON: %v (%q)", err, line)
	}
	if entry.Message != "snapshot created" {
		t.Errorf("message = %q", entry.Message)
	}
	if entry.Fields["path"] != "pre-commit.snapshot-x" {
		t.Errorf("fields = %v", entry.Fields)
	}
}
