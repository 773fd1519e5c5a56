package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewWritesJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "todo.log")
	logger, closeFn, err := New(path, "info")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Debug("hidden")
	logger.Info("loaded")
	closeFn()

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	if len(lines) != 1 {
		t.Fatalf("lines: got %d, want 1:\n%s", len(lines), b)
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if entry["msg"] != "loaded" {
		t.Errorf("msg: got %v", entry["msg"])
	}
	if _, ok := entry["@timestamp"]; !ok {
		t.Errorf("missing @timestamp in %v", entry)
	}
}

func TestNewDisabled(t *testing.T) {
	logger, closeFn, err := New("", "info")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer closeFn()
	if logger.Core().Enabled(0) {
		t.Error("nop logger is enabled")
	}
}

func TestNewBadLevel(t *testing.T) {
	if _, _, err := New(filepath.Join(t.TempDir(), "x.log"), "loud"); err == nil {
		t.Fatal("New: want error for bad level")
	}
}
