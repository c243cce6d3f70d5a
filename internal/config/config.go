// internal/config/config.go
//
// Runtime configuration for the Parallel client. Everything lives in
// ~/.parallel/: a config.yaml with defaults, and logs/ for the session
// logbook. Environment variables override the file; command-line flags
// override both (applied by the caller).

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// ParallelDir is the directory we keep under the user's home.
	ParallelDir = ".parallel"

	defaultAPIURL = "http://localhost:8000"
)

// defaultRoleOptions is used when neither the config file nor the
// environment names any.
var defaultRoleOptions = []string{"Engineering", "Design", "Product", "Research"}

const defaultConfigYAML = `# parallel client configuration
version: 1

# Backend base URL. PARALLEL_API_URL overrides this.
api_url: http://localhost:8000

# Roles offered by the role-change picker, in display order.
# PARALLEL_ROLE_OPTIONS (comma-separated) overrides this.
role_options:
  - Engineering
  - Design
  - Product
  - Research
`

// FileConfig models ~/.parallel/config.yaml.
type FileConfig struct {
	Version     int      `yaml:"version"`
	APIURL      string   `yaml:"api_url"`
	RoleOptions []string `yaml:"role_options"`
}

// Config is the resolved runtime configuration, read once at startup.
type Config struct {
	// HomeDir is the ~/.parallel directory.
	HomeDir string

	// APIURL is the backend base URL.
	APIURL string

	// RoleOptions is the ordered role list for the role picker.
	RoleOptions []string
}

// LogPath returns where the session logbook lives.
func (c *Config) LogPath() string {
	return filepath.Join(c.HomeDir, "logs", "parallel.log")
}

// InitParallelDir creates the ~/.parallel structure and seeds a
// default config.yaml on first run.
func InitParallelDir(homeDir string) error {
	for _, dir := range []string{homeDir, filepath.Join(homeDir, "logs")} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("config: create %s: %w", dir, err)
		}
	}
	path := filepath.Join(homeDir, "config.yaml")
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := os.WriteFile(path, []byte(defaultConfigYAML), 0o644); err != nil {
			return fmt.Errorf("config: seed config.yaml: %w", err)
		}
	}
	return nil
}

// Load resolves configuration from the file and the environment. A
// missing file falls back to built-in defaults; a present file with
// bad YAML is an error the user should see.
func Load(homeDir string) (*Config, error) {
	cfg := &Config{
		HomeDir:     homeDir,
		APIURL:      defaultAPIURL,
		RoleOptions: append([]string(nil), defaultRoleOptions...),
	}

	path := filepath.Join(homeDir, "config.yaml")
	if raw, err := os.ReadFile(path); err == nil {
		var file FileConfig
		if err := yaml.Unmarshal(raw, &file); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
		if strings.TrimSpace(file.APIURL) != "" {
			cfg.APIURL = strings.TrimSpace(file.APIURL)
		}
		if len(file.RoleOptions) > 0 {
			cfg.RoleOptions = file.RoleOptions
		}
	}

	if url := strings.TrimSpace(os.Getenv("PARALLEL_API_URL")); url != "" {
		cfg.APIURL = url
	}
	if roles := parseRoleList(os.Getenv("PARALLEL_ROLE_OPTIONS")); len(roles) > 0 {
		cfg.RoleOptions = roles
	}
	return cfg, nil
}

// DefaultHomeDir resolves ~/.parallel.
func DefaultHomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: resolve home dir: %w", err)
	}
	return filepath.Join(home, ParallelDir), nil
}

func parseRoleList(raw string) []string {
	var roles []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			roles = append(roles, trimmed)
		}
	}
	return roles
}
