package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	CollectorURL    string `toml:"collector_url"`
	AuthKey         string `toml:"auth_key"`
	Format          string `toml:"format"`
	MaxPayloadBytes int    `toml:"max_payload_bytes"`
	MaxAttempts     int    `toml:"max_attempts"`
	HTTPTimeout     string `toml:"http_timeout"`
	Input           string `toml:"input"`
	Follow          *bool  `toml:"follow"`
	StateDir        string `toml:"state_dir"`
	LogLevel        string `toml:"log_level"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.traceship/config.toml if user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".traceship", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("collector-url", fc.CollectorURL, &cfg.CollectorURL)
	s.setString("auth-key", fc.AuthKey, &cfg.AuthKey)
	s.setString("format", fc.Format, &cfg.Format)
	s.setString("input", fc.Input, &cfg.Input)
	s.setString("state-dir", fc.StateDir, &cfg.StateDir)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)

	s.setInt("max-payload-bytes", fc.MaxPayloadBytes, &cfg.MaxPayloadBytes)
	s.setInt("max-attempts", fc.MaxAttempts, &cfg.MaxAttempts)

	if err := s.setDuration("timeout", fc.HTTPTimeout, &cfg.HTTPTimeout); err != nil {
		return err
	}

	s.setBool("follow", fc.Follow, &cfg.Follow)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
