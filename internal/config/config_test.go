package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFrom(t *testing.T) {
	path := writeConfig(t, `
root: /srv/catalogs
extension: .json
indent: "    "
server:
  name: docpatch
  version: 1.2.3
audit:
  disabled: true
  db_path: /tmp/audit.db
search:
  disabled: false
`)

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}

	if cfg.Root != "/srv/catalogs" {
		t.Errorf("Root = %q", cfg.Root)
	}
	if cfg.Extension != ".json" || cfg.Indent != "    " {
		t.Errorf("Extension = %q, Indent = %q", cfg.Extension, cfg.Indent)
	}
	if cfg.Server.Name != "docpatch" || cfg.Server.Version != "1.2.3" {
		t.Errorf("Server = %+v", cfg.Server)
	}
	if cfg.AuditEnabled() {
		t.Error("audit should be disabled")
	}
	if cfg.Audit.DBPath != "/tmp/audit.db" {
		t.Errorf("DBPath = %q", cfg.Audit.DBPath)
	}
	if !cfg.SearchEnabled() {
		t.Error("search should be enabled")
	}
}

func TestLoadFromInvalidYAML(t *testing.T) {
	path := writeConfig(t, `root: [unterminated`)

	if _, err := LoadFrom(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestLoadFromMissingFile(t *testing.T) {
	if _, err := LoadFrom(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected read error")
	}
}

func TestDefaults(t *testing.T) {
	var cfg Config

	if cfg.EffectiveRoot() != "." {
		t.Errorf("EffectiveRoot = %q, want .", cfg.EffectiveRoot())
	}
	if !cfg.AuditEnabled() {
		t.Error("audit should default to enabled")
	}
	if !cfg.SearchEnabled() {
		t.Error("search should default to enabled")
	}

	cfg.Root = "/data"
	if cfg.EffectiveRoot() != "/data" {
		t.Errorf("EffectiveRoot = %q", cfg.EffectiveRoot())
	}
}

func TestLoadHonorsEnvOverride(t *testing.T) {
	path := writeConfig(t, `root: /from/env`)
	t.Setenv("DOCPATCH_CONFIG", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Root != "/from/env" {
		t.Errorf("Root = %q", cfg.Root)
	}
}

func TestLoadEnvOverrideMissingFile(t *testing.T) {
	t.Setenv("DOCPATCH_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))

	if _, err := Load(); err == nil {
		t.Error("expected error for dangling $DOCPATCH_CONFIG")
	}
}

func TestLoadFromXDGConfigHome(t *testing.T) {
	xdg := t.TempDir()
	dir := filepath.Join(xdg, "docpatch")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(`root: /from/xdg`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("DOCPATCH_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", xdg)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Root != "/from/xdg" {
		t.Errorf("Root = %q", cfg.Root)
	}
}

func TestLoadNoConfigFound(t *testing.T) {
	t.Setenv("DOCPATCH_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Root != "" {
		t.Errorf("Root = %q, want empty", cfg.Root)
	}
}
