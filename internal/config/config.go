// Package config provides reading and writing of the document store's
// configuration. Supports both global (~/.docvault/config.yaml) and local
// (<root>/.docvault-config.yaml) scopes: reading prefers local if it
// exists, otherwise falls back to global.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

var (
	// ErrNoConfigPath is returned when the config path cannot be determined.
	ErrNoConfigPath = errors.New("cannot determine config path")
	// ErrInvalidValue is returned when a config value is invalid.
	ErrInvalidValue = errors.New("invalid config value")
)

// Scope represents the configuration scope (global or local).
type Scope int

const (
	// ScopeGlobal is user-wide config in ~/.docvault/config.yaml (default).
	ScopeGlobal Scope = iota
	// ScopeLocal is store-specific config in <root>/.docvault-config.yaml.
	ScopeLocal
)

const localConfigFile = ".docvault-config.yaml"

// Default values for recognised settings (spec.md §6).
const (
	DefaultAuthor                = "unknown"
	DefaultEmail                 = ""
	DefaultGraphLogFile          = "graph.jsonl"
	DefaultLargeContentThreshold = 100 * 1024 // 100 KB, informational only
)

// Config holds the recognised settings from spec.md §6.
type Config struct {
	RootPath              string `yaml:"root_path,omitempty"`
	DefaultAuthor         string `yaml:"default_author,omitempty"`
	DefaultEmail          string `yaml:"default_email,omitempty"`
	GraphLogPath          string `yaml:"graph_log_path,omitempty"`
	UseInMemoryGraph      bool   `yaml:"use_in_memory_graph,omitempty"`
	SemanticIndexEnabled  bool   `yaml:"semantic_index_enabled,omitempty"`
	LargeContentThreshold int64  `yaml:"large_content_threshold,omitempty"`

	// path is the file this config was loaded from (for Save); empty for
	// a config built purely in-memory (e.g. in tests).
	path  string
	scope Scope
}

// Default returns a Config populated with the documented defaults, rooted
// at the given directory.
func Default(root string) Config {
	return Config{
		RootPath:              root,
		DefaultAuthor:         DefaultAuthor,
		DefaultEmail:          DefaultEmail,
		GraphLogPath:          filepath.Join(root, DefaultGraphLogFile),
		UseInMemoryGraph:      true,
		SemanticIndexEnabled:  true,
		LargeContentThreshold: DefaultLargeContentThreshold,
	}
}

// Validate checks that all configured values are within acceptable bounds.
func (c *Config) Validate() error {
	if c.RootPath == "" {
		return fmt.Errorf("%w: root_path must be set", ErrInvalidValue)
	}
	if c.LargeContentThreshold < 0 {
		return fmt.Errorf("%w: large_content_threshold must be >= 0", ErrInvalidValue)
	}
	return nil
}

// globalPath returns the path to the global config file.
func globalPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrNoConfigPath, err)
	}
	return filepath.Join(home, ".docvault", "config.yaml"), nil
}

// Load reads configuration for a document store rooted at root. It prefers
// a local config file at <root>/.docvault-config.yaml, falling back to the
// global config, and finally to documented defaults if neither exists.
func Load(root string) (Config, error) {
	local := filepath.Join(root, localConfigFile)
	if cfg, err := load(local, ScopeLocal); err == nil {
		cfg.applyDefaults(root)
		return cfg, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return Config{}, err
	}

	global, err := globalPath()
	if err == nil {
		if cfg, err := load(global, ScopeGlobal); err == nil {
			cfg.applyDefaults(root)
			return cfg, nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return Config{}, err
		}
	}

	return Default(root), nil
}

func load(path string, scope Scope) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.path = path
	cfg.scope = scope
	return cfg, nil
}

// applyDefaults fills in any zero-valued fields with documented defaults,
// so a partially-specified YAML file behaves the same as an absent one for
// the fields it omits.
func (c *Config) applyDefaults(root string) {
	d := Default(root)
	if c.RootPath == "" {
		c.RootPath = d.RootPath
	}
	if c.DefaultAuthor == "" {
		c.DefaultAuthor = d.DefaultAuthor
	}
	if c.GraphLogPath == "" {
		c.GraphLogPath = d.GraphLogPath
	}
	if c.LargeContentThreshold == 0 {
		c.LargeContentThreshold = d.LargeContentThreshold
	}
}

// Save writes the config back to the scope it was loaded from (or the
// global path by default for a fresh Config).
func (c *Config) Save() error {
	path := c.path
	if path == "" {
		switch c.scope {
		case ScopeLocal:
			path = filepath.Join(c.RootPath, localConfigFile)
		default:
			p, err := globalPath()
			if err != nil {
				return err
			}
			path = p
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	c.path = path
	return nil
}
