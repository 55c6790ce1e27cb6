package driver

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)
	writeFile(t, path, `
module_root: src
exclude: [vendor, out]
respect_gitignore: false
max_call_depth: 128
log_level: debug
history_file: .history
prompt: "lox> "
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	want := &Config{
		Path:             path,
		ModuleRoot:       filepath.Join(dir, "src"),
		Exclude:          []string{"vendor", "out"},
		RespectGitignore: false,
		MaxCallDepth:     128,
		LogLevel:         "debug",
		HistoryFile:      filepath.Join(dir, ".history"),
		Prompt:           "lox> ",
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
	if cfg.Level() != logrus.DebugLevel {
		t.Fatalf("Level() = %v, want debug", cfg.Level())
	}
}

func TestLoadConfigEmptyFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)
	writeFile(t, path, "")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.ModuleRoot != dir {
		t.Fatalf("ModuleRoot = %q, want %q", cfg.ModuleRoot, dir)
	}
	if diff := cmp.Diff(DefaultExclude, cfg.Exclude); diff != "" {
		t.Fatalf("Exclude mismatch (-want +got):\n%s", diff)
	}
	if !cfg.RespectGitignore || cfg.MaxCallDepth != 4096 || cfg.Prompt != ">> " {
		t.Fatalf("defaults not applied: %#v", cfg)
	}
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)
	writeFile(t, path, "module_roots: src\n")

	if _, err := LoadConfig(path); err == nil || !strings.Contains(err.Error(), "module_roots") {
		t.Fatalf("expected unknown field error, got %v", err)
	}
}

func TestLoadConfigValidation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)
	writeFile(t, path, `
max_call_depth: -1
log_level: loud
exclude: ["a/b"]
`)

	_, err := LoadConfig(path)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Issues) != 3 {
		t.Fatalf("issues = %#v, want 3 entries", verr.Issues)
	}
	msg := verr.Error()
	for _, part := range []string{"max_call_depth must be positive, got -1", `log_level "loud"`, "exclude[0]"} {
		if !strings.Contains(msg, part) {
			t.Fatalf("error %q missing %q", msg, part)
		}
	}
}

func TestFindConfigWalksUpward(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, ConfigFileName)
	writeFile(t, path, "prompt: \"> \"\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	found, err := FindConfig(nested)
	if err != nil {
		t.Fatalf("FindConfig returned error: %v", err)
	}
	if found != path {
		t.Fatalf("FindConfig = %q, want %q", found, path)
	}
}
