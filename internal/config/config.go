// Package config loads and validates ragindex configuration.
//
// Configuration is applied in order of increasing precedence:
//  1. Hardcoded defaults (NewConfig)
//  2. User config file (<config-dir>/config.yaml)
//  3. Environment variables (RAGINDEX_*)
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// AppName is used for the config directory and log file names.
	AppName = "ragindex"

	// DefaultMaxFileSize is the largest single file that will be indexed (1 MiB).
	DefaultMaxFileSize int64 = 1024 * 1024

	// DefaultMaxIndexSize is the advisory total index size (50 MiB).
	// It is reported by stats and logged on build, never enforced.
	DefaultMaxIndexSize int64 = 50 * 1024 * 1024

	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
	DefaultMaxResults   = 10
)

// Config represents the complete ragindex configuration.
type Config struct {
	Version  int            `yaml:"version" json:"version"`
	IndexDir string         `yaml:"index_dir,omitempty" json:"index_dir,omitempty"`
	Paths    PathsConfig    `yaml:"paths" json:"paths"`
	Limits   LimitsConfig   `yaml:"limits" json:"limits"`
	Chunking ChunkingConfig `yaml:"chunking" json:"chunking"`
	Search   SearchConfig   `yaml:"search" json:"search"`
	Logging  LoggingConfig  `yaml:"logging" json:"logging"`
}

// PathsConfig configures which roots are scanned and what is skipped.
type PathsConfig struct {
	// Roots is the default whitelist used when a caller supplies no paths.
	Roots []string `yaml:"roots" json:"roots"`
	// ExcludeDirs are extra directory names skipped during walks.
	ExcludeDirs []string `yaml:"exclude_dirs" json:"exclude_dirs"`
	// SensitiveKeywords are merged into the built-in sensitive filename keywords.
	SensitiveKeywords []string `yaml:"sensitive_keywords" json:"sensitive_keywords"`
}

// LimitsConfig configures size limits in bytes.
type LimitsConfig struct {
	MaxFileSize  int64 `yaml:"max_file_size" json:"max_file_size"`
	MaxIndexSize int64 `yaml:"max_index_size" json:"max_index_size"`
}

// ChunkingConfig configures the content chunker. Sizes are in characters.
type ChunkingConfig struct {
	ChunkSize    int `yaml:"chunk_size" json:"chunk_size"`
	ChunkOverlap int `yaml:"chunk_overlap" json:"chunk_overlap"`
}

// SearchConfig configures lexical search.
type SearchConfig struct {
	MaxResults int `yaml:"max_results" json:"max_results"`
}

// LoggingConfig configures log output.
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
}

// defaultRoots is the whitelist of configuration files and directories
// indexed when no explicit paths are given.
var defaultRoots = []string{
	"~/.bashrc",
	"~/.zshrc",
	"~/.profile",
	"~/.gitconfig",
	"~/.vimrc",
	"~/.tmux.conf",
	"~/.config",
	"/etc/hosts",
	"/etc/fstab",
	"/etc/os-release",
}

// DefaultRoots returns a copy of the built-in root whitelist.
func DefaultRoots() []string {
	return append([]string(nil), defaultRoots...)
}

// NewConfig creates a new Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Version: 1,
		Paths: PathsConfig{
			Roots:             DefaultRoots(),
			ExcludeDirs:       []string{},
			SensitiveKeywords: []string{},
		},
		Limits: LimitsConfig{
			MaxFileSize:  DefaultMaxFileSize,
			MaxIndexSize: DefaultMaxIndexSize,
		},
		Chunking: ChunkingConfig{
			ChunkSize:    DefaultChunkSize,
			ChunkOverlap: DefaultChunkOverlap,
		},
		Search: SearchConfig{
			MaxResults: DefaultMaxResults,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// GetConfigDir returns the per-user ragindex directory.
// It follows the XDG Base Directory specification:
//   - $XDG_CONFIG_HOME/ragindex (if XDG_CONFIG_HOME is set)
//   - ~/.config/ragindex (default)
func GetConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback - should rarely happen
		return filepath.Join(os.TempDir(), ".config", AppName)
	}
	return filepath.Join(home, ".config", AppName)
}

// GetUserConfigPath returns the path to the user configuration file.
func GetUserConfigPath() string {
	return filepath.Join(GetConfigDir(), "config.yaml")
}

// UserConfigExists returns true if the user configuration file exists.
func UserConfigExists() bool {
	return fileExists(GetUserConfigPath())
}

// IndexBaseDir returns the directory under which the index store lives.
// An explicit index_dir wins over the per-user config directory.
func (c *Config) IndexBaseDir() string {
	if c.IndexDir != "" {
		return expandHome(c.IndexDir)
	}
	return GetConfigDir()
}

// Load loads configuration from path, or from the user config path when
// path is empty. A missing file is not an error; defaults are used.
func Load(path string) (*Config, error) {
	cfg := NewConfig()

	if path == "" {
		path = GetUserConfigPath()
	}

	if fileExists(path) {
		if err := cfg.loadYAML(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// loadYAML loads and merges configuration from a YAML file.
func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	// Use a temporary struct for parsing to detect type errors
	var parsed Config
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	c.mergeWith(&parsed)
	return nil
}

// mergeWith merges non-zero values from other into c.
// Explicit zero values (e.g. chunk_overlap: 0) can only be set via env vars.
func (c *Config) mergeWith(other *Config) {
	if other.Version != 0 {
		c.Version = other.Version
	}
	if other.IndexDir != "" {
		c.IndexDir = other.IndexDir
	}

	if len(other.Paths.Roots) > 0 {
		c.Paths.Roots = other.Paths.Roots
	}
	if len(other.Paths.ExcludeDirs) > 0 {
		c.Paths.ExcludeDirs = append(c.Paths.ExcludeDirs, other.Paths.ExcludeDirs...)
	}
	if len(other.Paths.SensitiveKeywords) > 0 {
		c.Paths.SensitiveKeywords = append(c.Paths.SensitiveKeywords, other.Paths.SensitiveKeywords...)
	}

	if other.Limits.MaxFileSize != 0 {
		c.Limits.MaxFileSize = other.Limits.MaxFileSize
	}
	if other.Limits.MaxIndexSize != 0 {
		c.Limits.MaxIndexSize = other.Limits.MaxIndexSize
	}

	if other.Chunking.ChunkSize != 0 {
		c.Chunking.ChunkSize = other.Chunking.ChunkSize
	}
	if other.Chunking.ChunkOverlap != 0 {
		c.Chunking.ChunkOverlap = other.Chunking.ChunkOverlap
	}

	if other.Search.MaxResults != 0 {
		c.Search.MaxResults = other.Search.MaxResults
	}

	if other.Logging.Level != "" {
		c.Logging.Level = other.Logging.Level
	}
}

// applyEnvOverrides applies RAGINDEX_* environment variable overrides.
// Unparseable values are ignored.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("RAGINDEX_INDEX_DIR"); v != "" {
		c.IndexDir = v
	}
	if v := os.Getenv("RAGINDEX_CHUNK_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Chunking.ChunkSize = n
		}
	}
	if v := os.Getenv("RAGINDEX_CHUNK_OVERLAP"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Chunking.ChunkOverlap = n
		}
	}
	if v := os.Getenv("RAGINDEX_MAX_FILE_SIZE"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Limits.MaxFileSize = n
		}
	}
	if v := os.Getenv("RAGINDEX_MAX_RESULTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Search.MaxResults = n
		}
	}
	if v := os.Getenv("RAGINDEX_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	if c.Chunking.ChunkSize <= 0 {
		return fmt.Errorf("chunk_size must be positive, got %d", c.Chunking.ChunkSize)
	}
	if c.Chunking.ChunkOverlap < 0 {
		return fmt.Errorf("chunk_overlap must be non-negative, got %d", c.Chunking.ChunkOverlap)
	}
	if c.Chunking.ChunkOverlap >= c.Chunking.ChunkSize {
		return fmt.Errorf("chunk_overlap (%d) must be smaller than chunk_size (%d)",
			c.Chunking.ChunkOverlap, c.Chunking.ChunkSize)
	}

	if c.Limits.MaxFileSize <= 0 {
		return fmt.Errorf("max_file_size must be positive, got %d", c.Limits.MaxFileSize)
	}
	if c.Limits.MaxIndexSize <= 0 {
		return fmt.Errorf("max_index_size must be positive, got %d", c.Limits.MaxIndexSize)
	}

	if c.Search.MaxResults <= 0 {
		return fmt.Errorf("max_results must be positive, got %d", c.Search.MaxResults)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("logging.level must be 'debug', 'info', 'warn', or 'error', got %s", c.Logging.Level)
	}

	return nil
}

// WriteYAML writes the configuration to a YAML file, creating its directory.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// expandHome replaces a leading "~" with the user's home directory.
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// fileExists checks if a regular file exists.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
