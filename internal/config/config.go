// Package config loads the docpatch configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the top-level docpatch configuration.
type Config struct {
	// Root is the document store directory. Defaults to the working
	// directory when empty.
	Root string `yaml:"root"`
	// Extension overrides the ".json" document extension.
	Extension string `yaml:"extension,omitempty"`
	// Indent overrides the two-space indent used when saving.
	Indent string `yaml:"indent,omitempty"`

	Server ServerConfig  `yaml:"server,omitempty"`
	Audit  *AuditConfig  `yaml:"audit,omitempty"`
	Search *SearchConfig `yaml:"search,omitempty"`
}

// ServerConfig names the MCP server in initialize responses.
type ServerConfig struct {
	Name    string `yaml:"name,omitempty"`
	Version string `yaml:"version,omitempty"`
}

// AuditConfig controls the edit audit trail.
type AuditConfig struct {
	Disabled bool   `yaml:"disabled"` // default: false (audit enabled)
	DBPath   string `yaml:"db_path,omitempty"`
}

// SearchConfig controls the document search index.
type SearchConfig struct {
	Disabled bool `yaml:"disabled"` // default: false (search enabled)
}

// EffectiveRoot returns the store root, defaulting to ".".
func (c Config) EffectiveRoot() string {
	if c.Root == "" {
		return "."
	}
	return c.Root
}

// AuditEnabled reports whether the audit trail should be opened.
func (c Config) AuditEnabled() bool {
	return c.Audit == nil || !c.Audit.Disabled
}

// SearchEnabled reports whether the search index should be built.
func (c Config) SearchEnabled() bool {
	return c.Search == nil || !c.Search.Disabled
}

// Load searches for the config file in standard locations and parses it.
// Search order: $DOCPATCH_CONFIG → $XDG_CONFIG_HOME/docpatch/config.yaml
// → ~/.config/docpatch/config.yaml.
// Returns zero-value Config if no file is found. Returns error if a file
// exists but contains invalid YAML.
func Load() (Config, error) {
	path, err := findConfigPath()
	if err != nil {
		return Config{}, err
	}
	if path == "" {
		return Config{}, nil
	}
	return LoadFrom(path)
}

// LoadFrom parses a config from the given file path.
func LoadFrom(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// findConfigPath returns the path to the first config file found,
// or empty string if none exists.
func findConfigPath() (string, error) {
	// 1. Explicit env var.
	if p := os.Getenv("DOCPATCH_CONFIG"); p != "" {
		if _, err := os.Stat(p); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return "", fmt.Errorf("config: $DOCPATCH_CONFIG points to %s which does not exist", p)
			}
			return "", fmt.Errorf("config: stat %s: %w", p, err)
		}
		return p, nil
	}

	// 2. XDG_CONFIG_HOME.
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		p := filepath.Join(xdg, "docpatch", "config.yaml")
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	// 3. Default ~/.config.
	home, err := os.UserHomeDir()
	if err != nil {
		return "", nil // Can't determine home, treat as no config.
	}
	p := filepath.Join(home, ".config", "docpatch", "config.yaml")
	if _, err := os.Stat(p); err == nil {
		return p, nil
	}

	return "", nil
}
