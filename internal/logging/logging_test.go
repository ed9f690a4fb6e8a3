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

func TestNew_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "pathquest.log")

	logger, err := New(Options{File: path})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Debug("hidden")
	logger.Info("loaded peaks", zap.Int("count", 3))
	_ = logger.Sync()

	lines, err := Tail(path, 10)
	if err != nil {
		t.Fatalf("Tail returned error: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1 (debug suppressed): %q", len(lines), lines)
	}
	e, ok := ParseLine(lines[0])
	if !ok {
		t.Fatalf("line is not JSON: %q", lines[0])
	}
	if e.Level != "info" || e.Message != "loaded peaks" {
		t.Fatalf("entry = %+v", e)
	}
	if e.Fields["count"] != float64(3) {
		t.Fatalf("count field = %v, want 3", e.Fields["count"])
	}
	if e.Time.IsZero() {
		t.Fatalf("timestamp not parsed from %q", lines[0])
	}
}

func TestNew_VerboseEnablesDebug(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pathquest.log")

	logger, err := New(Options{File: path, Verbose: true})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Debug("favorite transition")
	_ = logger.Sync()

	lines, _ := Tail(path, 0)
	if len(lines) != 1 || !strings.Contains(lines[0], "favorite transition") {
		t.Fatalf("lines = %q, want debug entry", lines)
	}
}

func TestNew_EmptyFileIsNop(t *testing.T) {
	logger, err := New(Options{})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("dropped")
}

func TestTail(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "test.log")

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
		{name: "read all (0)", maxLines: 0, expected: expectedAll},
		{name: "read all (negative)", maxLines: -1, expected: expectedAll},
		{name: "read partial (5)", maxLines: 5, expected: expectedAll[5:]},
		{name: "read exactly all (10)", maxLines: 10, expected: expectedAll},
		{name: "read more than exists (20)", maxLines: 20, expected: expectedAll},
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
	lines, err := Tail(filepath.Join(t.TempDir(), "nope.log"), 5)
	if err != nil || lines != nil {
		t.Fatalf("Tail = %v, %v; want nil, nil", lines, err)
	}
}

func TestFormatLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{
			name: "plain text passes through",
			line: "not json",
			want: "not json",
		},
		{
			name: "fields sorted after message",
			line: `{"level":"warn","msg":"favorite toggle failed, rolling back","peak_id":"p1","error":"boom","caller":"x.go:1"}`,
			want: "WARN favorite toggle failed, rolling back error=boom peak_id=p1",
		},
		{
			name: "missing level defaults to info",
			line: `{"msg":"hello"}`,
			want: "INFO hello",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatLine(tt.line); got != tt.want {
				t.Fatalf("FormatLine() = %q, want %q", got, tt.want)
			}
		})
	}
}
