package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  log.Level
	}{
		{"debug", log.DebugLevel},
		{"info", log.InfoLevel},
		{"WARN", log.WarnLevel},
		{"warning", log.WarnLevel},
		{"error", log.ErrorLevel},
		{"fatal", log.FatalLevel},
		{"", log.InfoLevel},
		{"loud", log.InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestParseFormatter(t *testing.T) {
	tests := []struct {
		input string
		want  log.Formatter
	}{
		{"json", log.JSONFormatter},
		{"logfmt", log.LogfmtFormatter},
		{"text", log.TextFormatter},
		{"", log.TextFormatter},
	}
	for _, tt := range tests {
		if got := ParseFormatter(tt.input); got != tt.want {
			t.Errorf("ParseFormatter(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestFromConfigLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := FromConfig(&buf, "warn", "text", false, false)

	logger.Info("quiet")
	logger.Warn("loud", "key", "value")

	out := buf.String()
	if strings.Contains(out, "quiet") {
		t.Errorf("info message written at warn level: %q", out)
	}
	if !strings.Contains(out, "loud") || !strings.Contains(out, "key=value") {
		t.Errorf("warn message missing: %q", out)
	}
	if !strings.Contains(out, "studyplan") {
		t.Errorf("prefix missing: %q", out)
	}
}

func TestFromConfigJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := FromConfig(&buf, "debug", "json", false, false)
	logger.Debug("hello", "n", 1)

	out := strings.TrimSpace(buf.String())
	if !strings.HasPrefix(out, "{") || !strings.Contains(out, `"msg":"hello"`) {
		t.Errorf("unexpected json output: %q", out)
	}
}

func TestDiscard(t *testing.T) {
	Discard().Error("nothing to see")
}

func TestOpenFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")

	sink, err := OpenFile(dir)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	if sink.Path != filepath.Join(dir, FileName) {
		t.Errorf("Path = %q", sink.Path)
	}
	New(sink.Writer(), DefaultOptions()).Info("first")
	if err := sink.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	sink, err = OpenFile(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	New(sink.Writer(), DefaultOptions()).Info("second")
	sink.Close()

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "first") || !strings.Contains(string(data), "second") {
		t.Errorf("log file should be appended to, got %q", data)
	}
}

func TestOpenFileEmptyDir(t *testing.T) {
	if _, err := OpenFile(""); err == nil {
		t.Fatal("expected error for empty dir")
	}
}

func TestCloseNil(t *testing.T) {
	var sink *FileSink
	if err := sink.Close(); err != nil {
		t.Errorf("Close on nil: %v", err)
	}
}
