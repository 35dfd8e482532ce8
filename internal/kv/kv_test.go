package kv

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestParseBackend(t *testing.T) {
	tests := []struct {
		input   string
		want    Backend
		wantErr bool
	}{
		{"", BackendFile, false},
		{"file", BackendFile, false},
		{" Memory ", BackendMemory, false},
		{"MYSQL", BackendMySQL, false},
		{"redis", "", true},
	}
	for _, tt := range tests {
		got, err := ParseBackend(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseBackend(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if err != nil && !errors.Is(err, ErrUnknownBackend) {
			t.Errorf("ParseBackend(%q) error %v does not wrap ErrUnknownBackend", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("ParseBackend(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

// exerciseStore runs the shared contract against any Store.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()

	if _, ok, err := s.Get("missing"); err != nil || ok {
		t.Fatalf("Get(missing) = (ok=%v, err=%v), want (false, nil)", ok, err)
	}
	if err := s.Set("k", `[{"id":1}]`); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	v, ok, err := s.Get("k")
	if err != nil || !ok || v != `[{"id":1}]` {
		t.Fatalf("Get(k) = (%q, %v, %v)", v, ok, err)
	}
	if err := s.Set("k", "second"); err != nil {
		t.Fatalf("Set overwrite failed: %v", err)
	}
	if v, _, _ := s.Get("k"); v != "second" {
		t.Errorf("Get after overwrite = %q, want second", v)
	}
	if err := s.Delete("k"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, ok, _ := s.Get("k"); ok {
		t.Error("key still present after Delete")
	}
	if err := s.Delete("never-set"); err != nil {
		t.Errorf("Delete of absent key: %v", err)
	}

	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if _, _, err := s.Get("k"); !errors.Is(err, ErrClosed) {
		t.Errorf("Get after Close: got %v, want ErrClosed", err)
	}
	if err := s.Set("k", "v"); !errors.Is(err, ErrClosed) {
		t.Errorf("Set after Close: got %v, want ErrClosed", err)
	}
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	exerciseStore(t, s)
}

func TestFileStorePersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	first, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	if err := first.Set("smart_study_tasks", "[]"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := first.Set("other", "x"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	second, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	if v, ok, err := second.Get("smart_study_tasks"); err != nil || !ok || v != "[]" {
		t.Errorf("Get from second instance = (%q, %v, %v)", v, ok, err)
	}

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		t.Fatalf("read storage file: %v", err)
	}
	if !strings.HasSuffix(string(data), "}\n") {
		t.Errorf("storage file should end with a newline: %q", data)
	}
	if !strings.Contains(string(data), "\n  \"other\"") {
		t.Errorf("storage file should use 2-space indentation: %q", data)
	}
}

func TestFileStoreCreatesDataDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("data dir not created: %v", err)
	}
	if s.Path() != filepath.Join(dir, FileName) {
		t.Errorf("Path() = %q", s.Path())
	}
}

func TestFileStoreEmptyDir(t *testing.T) {
	if _, err := NewFileStore(""); err == nil {
		t.Error("expected error for empty data dir")
	}
}

func TestFileStoreCorruptFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}

	if _, _, err := s.Get("k"); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("Get on corrupt file: got %v, want ErrCorrupt", err)
	}

	if err := s.Set("k", "v"); err != nil {
		t.Fatalf("Set on corrupt file should recover, got %v", err)
	}
	if v, ok, err := s.Get("k"); err != nil || !ok || v != "v" {
		t.Errorf("Get after recovery = (%q, %v, %v)", v, ok, err)
	}

	matches, err := filepath.Glob(path + ".corrupt-*")
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected one backup of the corrupt file, got %v", matches)
	}
	backup, _ := os.ReadFile(matches[0])
	if string(backup) != "{not json" {
		t.Errorf("backup content = %q", backup)
	}
}

func TestFileStoreWhitespaceFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte("  \n"), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok, err := s.Get("k"); err != nil || ok {
		t.Errorf("Get on blank file = (ok=%v, err=%v), want (false, nil)", ok, err)
	}
}

func TestFileStoreWatch(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	changes, err := s.Watch(ctx)
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	other, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := other.Set("k", "v"); err != nil {
		t.Fatal(err)
	}

	select {
	case c := <-changes:
		if c.Err != nil {
			t.Fatalf("watch error: %v", c.Err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported after write")
	}

	cancel()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case _, ok := <-changes:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("channel not closed after cancel")
		}
	}
}

func TestOpen(t *testing.T) {
	s, err := Open(Options{Backend: BackendMemory})
	if err != nil {
		t.Fatalf("Open(memory) failed: %v", err)
	}
	if _, ok := s.(*MemoryStore); !ok {
		t.Errorf("Open(memory) returned %T", s)
	}

	s, err = Open(Options{Dir: t.TempDir()})
	if err != nil {
		t.Fatalf("Open(default) failed: %v", err)
	}
	if _, ok := s.(*FileStore); !ok {
		t.Errorf("Open(default) returned %T", s)
	}

	if _, err := Open(Options{Backend: "redis"}); !errors.Is(err, ErrUnknownBackend) {
		t.Errorf("Open(redis) error = %v, want ErrUnknownBackend", err)
	}
}

func TestNewMySQLStoreRejectsBadDSN(t *testing.T) {
	if _, err := NewMySQLStore(""); err == nil {
		t.Error("expected error for empty DSN")
	}
	if _, err := NewMySQLStore("not a dsn"); err == nil || !strings.Contains(err.Error(), "parse mysql dsn") {
		t.Errorf("expected DSN parse error, got %v", err)
	}
}
