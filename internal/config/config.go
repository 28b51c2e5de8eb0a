// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables consulted by ApplyEnv.
const (
	EnvDatabaseURL = "DATABASE_URL"
	EnvActor       = "CHECKNINER_USER"
)

// Defaults used when neither the config file nor a flag sets a value.
const (
	DefaultDatabaseURL    = "sqlite://checkniner.db"
	DefaultFormat         = "table"
	DefaultLogFormat      = "text"
	DefaultTimeoutSeconds = 30
)

// Config represents the CLI configuration that can be loaded from a JSON or YAML file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	DatabaseURL    string `json:"database_url,omitempty" yaml:"database_url,omitempty"`       // postgres:// URL or SQLite path
	Format         string `json:"format,omitempty" yaml:"format,omitempty"`                   // Report output: table or json
	LogFormat      string `json:"log_format,omitempty" yaml:"log_format,omitempty"`           // Log output: text or json
	Verbose        bool   `json:"verbose,omitempty" yaml:"verbose,omitempty"`                 // Debug logging and summaries
	TimeoutSeconds int    `json:"timeout_seconds,omitempty" yaml:"timeout_seconds,omitempty"` // Per-command deadline
	Actor          string `json:"actor,omitempty" yaml:"actor,omitempty"`                     // User recorded on edits
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		DatabaseURL:    DefaultDatabaseURL,
		Format:         DefaultFormat,
		LogFormat:      DefaultLogFormat,
		TimeoutSeconds: DefaultTimeoutSeconds,
	}
}

// LoadConfig loads configuration from a JSON file, or a YAML file when the
// extension is .yaml or .yml.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Empty fields are accepted; they are filled by MergeWithDefaults.
func (c *Config) Validate() error {
	switch c.Format {
	case "", "table", "json":
	default:
		return fmt.Errorf("config error: 'format' must be table or json, got %q", c.Format)
	}

	switch c.LogFormat {
	case "", "text", "json":
	default:
		return fmt.Errorf("config error: 'log_format' must be text or json, got %q", c.LogFormat)
	}

	if c.TimeoutSeconds < 0 {
		return fmt.Errorf("config error: 'timeout_seconds' must be non-negative")
	}

	return nil
}

// ApplyEnv overrides the database URL and actor from the environment when set.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvDatabaseURL); v != "" {
		c.DatabaseURL = v
	}
	if v := os.Getenv(EnvActor); v != "" {
		c.Actor = v
	}
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.Format == "" {
		result.Format = defaults.Format
	}
	if result.LogFormat == "" {
		result.LogFormat = defaults.LogFormat
	}
	if result.Actor == "" {
		result.Actor = defaults.Actor
	}
	if result.TimeoutSeconds == 0 {
		result.TimeoutSeconds = defaults.TimeoutSeconds
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// Timeout returns the per-command deadline, or zero for none.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}
