// Package config provides configuration management for truthmines.
//
// A config file only supplies defaults; command-line flags override it.
//
// Config file locations (priority order):
//  1. $TRUTHMINES_CONFIG
//  2. ./truthmines.yaml
//  3. $XDG_CONFIG_HOME/truthmines/config.yaml
//  4. ~/.config/truthmines/config.yaml
//  5. /etc/truthmines/config.yaml
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Defaults for a new installation
const (
	DefaultGraphDir     = "."
	DefaultDistDir      = "dist"
	DefaultExtractDepth = 2
	DefaultLogLevel     = "warn"

	// SchemaDirName is the schema directory inside a graph directory
	SchemaDirName = "schema"
)

var configValidate = validator.New()

// Load finds and loads the config file, or returns defaults if none found
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		// No config found - return defaults
		return DefaultConfig(), "", nil
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	// Keys missing from the file keep their default values
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, path, err
	}

	return cfg, path, nil
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns sensible defaults for a new installation
func DefaultConfig() *Config {
	return &Config{
		Version:  1,
		GraphDir: DefaultGraphDir,
		DistDir:  DefaultDistDir,
		Extract:  ExtractConfig{Depth: DefaultExtractDepth},
		Logging:  LoggingConfig{Level: DefaultLogLevel},
	}
}

// applyDefaults fills in values left empty by the file
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	if c.GraphDir == "" {
		c.GraphDir = DefaultGraphDir
	}
	if c.DistDir == "" {
		c.DistDir = DefaultDistDir
	}
	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
}

// Validate checks field constraints
func (c *Config) Validate() error {
	if err := configValidate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// SchemaPath returns the schema directory to use for graphDir
func (c *Config) SchemaPath(graphDir string) string {
	if c.SchemaDir != "" {
		return c.SchemaDir
	}
	return filepath.Join(graphDir, SchemaDirName)
}

// DistPath returns the output directory for graphDir. A relative dist_dir
// is resolved against the graph directory.
func (c *Config) DistPath(graphDir string) string {
	if filepath.IsAbs(c.DistDir) {
		return c.DistDir
	}
	return filepath.Join(graphDir, c.DistDir)
}

// Summary returns a human-readable config summary
func (c *Config) Summary() string {
	schemaDir := c.SchemaDir
	if schemaDir == "" {
		schemaDir = "<graph>/" + SchemaDirName
	}
	return fmt.Sprintf("Graph: %s, Schema: %s, Dist: %s, Strict: %v, Depth: %d, Log: %s",
		c.GraphDir, schemaDir, c.DistDir, c.Strict, c.Extract.Depth, c.Logging.Level)
}
