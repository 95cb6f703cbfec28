package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestTail(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "test.log")

	var content strings.Builder
	var expectedAll []string
	for i := 1; i <= 10; i++ {
		line := fmt.Sprintf("Line %d", i)
		content.WriteString(line + "\n")
		expectedAll = append(expectedAll, line)
	}
	if err := os.WriteFile(logPath, []byte(content.String()), 0o644); err != nil {
		t.Fatalf("failed to create test log file: %v", err)
	}

	tests := []struct {
		name     string
		maxLines int
		expected []string
	}{
		{name: "zero", maxLines: 0, expected: nil},
		{name: "negative", maxLines: -1, expected: nil},
		{name: "partial", maxLines: 5, expected: expectedAll[5:]},
		{name: "exactly all", maxLines: 10, expected: expectedAll},
		{name: "more than exists", maxLines: 20, expected: expectedAll},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Tail(logPath, tt.maxLines)
			if err != nil {
				t.Fatalf("Tail() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Tail() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestTail_MissingFile(t *testing.T) {
	got, err := Tail(filepath.Join(t.TempDir(), "nope.log"), 10)
	if err != nil || got != nil {
		t.Fatalf("Tail(missing) = %v, %v; want nil, nil", got, err)
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain text passes through",
			input: "not json",
			want:  "not json",
		},
		{
			name:  "entry with fields",
			input: `{"level":"warn","ts":"2024-07-01T12:00:00.000Z","logger":"toolservice","msg":"catalog load attempt failed","attempt":2,"error":"boom"}`,
			want:  "2024-07-01T12:00:00.000Z WARN [toolservice] catalog load attempt failed attempt=2 error=boom",
		},
		{
			name:  "caller is dropped",
			input: `{"level":"info","msg":"ready","caller":"app/app.go:10"}`,
			want:  "INFO ready",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(tt.input); got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNew_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "toolcat.log")

	logger, err := New(Options{File: path, Debug: true})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Named("store").Debug("state changed", zap.String("action", "reset"))
	_ = logger.Sync()

	lines, err := Tail(path, 5)
	if err != nil {
		t.Fatalf("Tail returned error: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(lines))
	}
	entry, ok := ParseEntry(lines[0])
	if !ok {
		t.Fatalf("ParseEntry(%q) failed", lines[0])
	}
	if entry.Level != "DEBUG" || entry.Logger != "store" || entry.Message != "state changed" {
		t.Fatalf("entry = %+v", entry)
	}
	if entry.Fields["action"] != "reset" {
		t.Fatalf("action field = %v, want reset", entry.Fields["action"])
	}
}

func TestNew_EmptyPathIsNop(t *testing.T) {
	logger, err := New(Options{})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if logger == nil {
		t.Fatalf("New returned nil logger")
	}
}
