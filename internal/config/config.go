// Package config loads designrail settings from an optional YAML file and
// the environment. Command-line flags are applied on top by the CLI.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/designrail/internal/generate"
)

// Environment variables that override the file.
const (
	EnvDatabase = "DESIGNRAIL_DB"
	EnvModel    = "DESIGNRAIL_MODEL"
	EnvAPIKey   = "GEMINI_API_KEY"
)

// Defaults.
const (
	DefaultDatabase = "designrail.db"
	DefaultTimeout  = "60s"
)

// Config holds runtime settings.
type Config struct {
	// Database is the SQLite path for the decision rail.
	Database string `yaml:"database"`

	// Model is the Gemini model name.
	Model string `yaml:"model"`

	// APIKey is the Gemini API key. Prefer GEMINI_API_KEY over the file.
	APIKey string `yaml:"api_key"`

	// Timeout bounds one generation request, as a Go duration string.
	Timeout string `yaml:"timeout"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Database: DefaultDatabase,
		Model:    generate.DefaultModel,
		Timeout:  DefaultTimeout,
	}
}

// Load reads path over the defaults and applies environment overrides.
// An empty path or a missing file yields the defaults. Unknown keys in the
// file are an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := decode(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(EnvDatabase); v != "" {
		c.Database = v
	}
	if v := os.Getenv(EnvModel); v != "" {
		c.Model = v
	}
	if v := os.Getenv(EnvAPIKey); v != "" {
		c.APIKey = v
	}
}

// Validate checks that the settings are usable.
func (c *Config) Validate() error {
	if c.Database == "" {
		return fmt.Errorf("config: database path is empty")
	}
	if c.Model == "" {
		return fmt.Errorf("config: model is empty")
	}
	if _, err := c.RequestTimeout(); err != nil {
		return err
	}
	return nil
}

// RequestTimeout parses Timeout. Zero means no timeout.
func (c *Config) RequestTimeout() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("config: invalid timeout %q: %w", c.Timeout, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("config: timeout %q is negative", c.Timeout)
	}
	return d, nil
}
