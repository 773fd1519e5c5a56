package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func isolateHome(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
}

func TestLoadDefaults(t *testing.T) {
	isolateHome(t)
	cfg, err := Load("", Overrides{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BaseURL != "https://pern-todo-backend.onrender.com" {
		t.Errorf("BaseURL: got %q", cfg.BaseURL)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout: got %s", cfg.Timeout)
	}
	if cfg.Layout != "table" || cfg.OnFailure != "keep" || cfg.Serve.Store != "memory" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.Path != "" {
		t.Errorf("Path: got %q, want empty", cfg.Path)
	}
}

func TestLoadPrecedence(t *testing.T) {
	isolateHome(t)
	path := writeFile(t, `
base_url = "http://file.example"
layout = "modal"
timeout = "5s"
on_failure = "refetch"

[serve]
addr = ":9000"
`)
	t.Setenv("TODO_LAYOUT", "inline")
	t.Setenv("TODO_SERVE_ADDR", ":9100")

	cfg, err := Load(path, Overrides{BaseURL: "http://flag.example"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	tests := []struct {
		name, got, want string
	}{
		{"base_url from flag", cfg.BaseURL, "http://flag.example"},
		{"layout from env", cfg.Layout, "inline"},
		{"on_failure from file", cfg.OnFailure, "refetch"},
		{"serve.addr from env", cfg.Serve.Addr, ":9100"},
		{"theme default", cfg.Theme, "classic"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, tt.got, tt.want)
		}
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("timeout: got %s, want 5s", cfg.Timeout)
	}
	if cfg.Path != path {
		t.Errorf("Path: got %q, want %q", cfg.Path, path)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	isolateHome(t)
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml"), Overrides{}); err == nil {
		t.Fatal("Load: want error for missing explicit file")
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	isolateHome(t)
	tests := []struct {
		name string
		o    Overrides
		want string
	}{
		{"layout", Overrides{Layout: "grid"}, "layout"},
		{"policy", Overrides{OnFailure: "retry"}, "on_failure"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load("", tt.o)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("got %v, want error mentioning %q", err, tt.want)
			}
		})
	}
}

func TestInitFileRoundTrip(t *testing.T) {
	isolateHome(t)
	cfg, err := Load("", Overrides{Layout: "modal"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	path := filepath.Join(t.TempDir(), "sub", "config.toml")
	if err := InitFile(path, cfg); err != nil {
		t.Fatalf("InitFile: %v", err)
	}
	if err := InitFile(path, cfg); err == nil {
		t.Fatal("InitFile: want error when file exists")
	}

	again, err := Load(path, Overrides{})
	if err != nil {
		t.Fatalf("Load written file: %v", err)
	}
	if again.Layout != "modal" || again.Timeout != cfg.Timeout || again.Serve != cfg.Serve {
		t.Errorf("round trip mismatch: %+v vs %+v", again, cfg)
	}
}

func TestWriteExampleIsTOML(t *testing.T) {
	cfg := &Config{BaseURL: "http://x", Timeout: time.Second, Layout: "table", OnFailure: "keep", Serve: Serve{Store: "memory"}}
	var buf bytes.Buffer
	if err := WriteExample(&buf, cfg); err != nil {
		t.Fatalf("WriteExample: %v", err)
	}
	out := buf.String()
	for _, want := range []string{`base_url = "http://x"`, `timeout = "1s"`, "[serve]"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}
