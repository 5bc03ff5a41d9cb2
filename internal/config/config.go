// Package config loads the keyfold.yaml CLI configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/keyfold/keyfold/internal/logging"
)

// DefaultTimeout bounds one composite operation when the config does not
// say otherwise.
const DefaultTimeout = 30 * time.Second

// Config holds the runtime configuration.
type Config struct {
	Path           string          `yaml:"-"`
	Logger         *logging.Logger `yaml:"-"`
	NonInteractive bool            `yaml:"-"`

	// Collection is the alias or object path secrets are stored into.
	// Empty means the service's default collection.
	Collection string `yaml:"collection,omitempty"`

	// WindowID identifies the caller's window so the service can parent
	// prompt dialogs to it. Empty is fine for terminal use.
	WindowID string `yaml:"window_id,omitempty"`

	// TimeoutMs bounds one composite operation, in milliseconds.
	TimeoutMs int `yaml:"timeout_ms,omitempty"`

	// Metrics enables Prometheus instrumentation.
	Metrics bool `yaml:"metrics,omitempty"`
}

// Load reads and parses the keyfold.yaml file. A missing file is not an
// error; defaults apply.
func (c *Config) Load() error {
	data, err := os.ReadFile(c.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config %s: %w", c.Path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config %s: %w", c.Path, err)
	}
	return c.Validate()
}

// Validate checks field ranges.
func (c *Config) Validate() error {
	if c.TimeoutMs < 0 {
		return fmt.Errorf("config %s: timeout_ms must not be negative (got %d)", c.Path, c.TimeoutMs)
	}
	return nil
}

// Timeout returns the per-operation deadline.
func (c *Config) Timeout() time.Duration {
	if c.TimeoutMs > 0 {
		return time.Duration(c.TimeoutMs) * time.Millisecond
	}
	return DefaultTimeout
}
