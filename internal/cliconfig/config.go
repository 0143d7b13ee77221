// Package cliconfig holds the CLI configuration for the traceship
// command, layered as defaults, config file, environment, then flags.
package cliconfig

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds CLI configuration for traceship.
type Config struct {
	CollectorURL string
	AuthKey      string

	Format          string
	MaxPayloadBytes int
	MaxAttempts     int
	HTTPTimeout     time.Duration

	Input    string
	Follow   bool
	StateDir string
	LogLevel string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Format:          "msgpack",
		MaxPayloadBytes: 10 << 20, // 10MB
		MaxAttempts:     3,
		HTTPTimeout:     30 * time.Second,
		Input:           "-",
		LogLevel:        "info",
		AuthKey:         os.Getenv("TRACESHIP_AUTH_KEY"),
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.CollectorURL == "" {
		return fmt.Errorf("collector-url is required")
	}

	// Ensure no trailing slash
	if c.CollectorURL[len(c.CollectorURL)-1] == '/' {
		c.CollectorURL = c.CollectorURL[:len(c.CollectorURL)-1]
	}

	if c.Format != "json" && c.Format != "msgpack" {
		return fmt.Errorf("format must be json or msgpack, got %q", c.Format)
	}
	if c.MaxPayloadBytes <= 0 {
		return fmt.Errorf("max payload bytes must be positive")
	}
	if c.Input == "" {
		return fmt.Errorf("input is required")
	}
	if c.Follow && c.Input == "-" {
		return fmt.Errorf("follow mode requires a file input, not stdin")
	}

	return nil
}

// ApplyEnvConfig applies TRACESHIP_* environment variables to the Config.
// It respects flags that have been explicitly set (changed map).
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("collector-url", os.Getenv("TRACESHIP_COLLECTOR_URL"), &cfg.CollectorURL)
	s.setString("auth-key", os.Getenv("TRACESHIP_AUTH_KEY"), &cfg.AuthKey)
	s.setString("format", os.Getenv("TRACESHIP_FORMAT"), &cfg.Format)
	s.setString("state-dir", os.Getenv("TRACESHIP_STATE_DIR"), &cfg.StateDir)
	s.setString("log-level", os.Getenv("TRACESHIP_LOG_LEVEL"), &cfg.LogLevel)

	if err := s.setIntFromString("max-payload-bytes", os.Getenv("TRACESHIP_MAX_PAYLOAD_BYTES"), &cfg.MaxPayloadBytes); err != nil {
		return err
	}
	if err := s.setIntFromString("max-attempts", os.Getenv("TRACESHIP_MAX_ATTEMPTS"), &cfg.MaxAttempts); err != nil {
		return err
	}
	if err := s.setDuration("timeout", os.Getenv("TRACESHIP_HTTP_TIMEOUT"), &cfg.HTTPTimeout); err != nil {
		return err
	}

	return nil
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

// newConfigSetter creates a new setter with the given changed flags map.
func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses a string to int and sets the destination if valid.
// Used for environment variables that come as strings.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}
