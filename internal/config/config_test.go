package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PARALLEL_API_URL", "")
	t.Setenv("PARALLEL_ROLE_OPTIONS", "")

	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIURL != "http://localhost:8000" {
		t.Fatalf("APIURL = %q", cfg.APIURL)
	}
	if len(cfg.RoleOptions) != 4 || cfg.RoleOptions[0] != "Engineering" {
		t.Fatalf("RoleOptions = %v", cfg.RoleOptions)
	}
}

func TestLoadReadsConfigFile(t *testing.T) {
	t.Setenv("PARALLEL_API_URL", "")
	t.Setenv("PARALLEL_ROLE_OPTIONS", "")

	home := t.TempDir()
	raw := "version: 1\napi_url: http://backend:9000\nrole_options:\n  - Ops\n"
	if err := os.WriteFile(filepath.Join(home, "config.yaml"), []byte(raw), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(home)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIURL != "http://backend:9000" {
		t.Fatalf("APIURL = %q", cfg.APIURL)
	}
	if len(cfg.RoleOptions) != 1 || cfg.RoleOptions[0] != "Ops" {
		t.Fatalf("RoleOptions = %v", cfg.RoleOptions)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	home := t.TempDir()
	raw := "api_url: http://backend:9000\n"
	if err := os.WriteFile(filepath.Join(home, "config.yaml"), []byte(raw), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("PARALLEL_API_URL", "http://override:7000")
	t.Setenv("PARALLEL_ROLE_OPTIONS", "Ops, Support ,")

	cfg, err := Load(home)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIURL != "http://override:7000" {
		t.Fatalf("APIURL = %q", cfg.APIURL)
	}
	if len(cfg.RoleOptions) != 2 || cfg.RoleOptions[1] != "Support" {
		t.Fatalf("RoleOptions = %v", cfg.RoleOptions)
	}
}

func TestLoadRejectsBadYAML(t *testing.T) {
	home := t.TempDir()
	if err := os.WriteFile(filepath.Join(home, "config.yaml"), []byte("api_url: [unclosed"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(home); err == nil {
		t.Fatalf("bad YAML accepted")
	}
}

func TestInitParallelDirSeedsOnce(t *testing.T) {
	home := filepath.Join(t.TempDir(), ".parallel")
	if err := InitParallelDir(home); err != nil {
		t.Fatalf("InitParallelDir: %v", err)
	}
	path := filepath.Join(home, "config.yaml")
	if err := os.WriteFile(path, []byte("api_url: http://kept:1\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	// Second init must not clobber an existing file.
	if err := InitParallelDir(home); err != nil {
		t.Fatalf("second InitParallelDir: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	if string(raw) != "api_url: http://kept:1\n" {
		t.Fatalf("existing config overwritten: %q", raw)
	}

	if _, err := os.Stat(filepath.Join(home, "logs")); err != nil {
		t.Fatalf("logs dir missing: %v", err)
	}
}

func TestLogPath(t *testing.T) {
	cfg := &Config{HomeDir: "/home/sean/.parallel"}
	want := filepath.Join("/home/sean/.parallel", "logs", "parallel.log")
	if got := cfg.LogPath(); got != want {
		t.Fatalf("LogPath = %q, want %q", got, want)
	}
}
