package traceship

import (
	"fmt"
	"time"
)

// Default configuration values.
const (
	DefaultFormat          = "msgpack"
	DefaultMaxPayloadBytes = 10 << 20
	DefaultHTTPTimeout     = 30 * time.Second
)

// Config holds the configuration for a Shipper.
// Use SetDefaults() to fill unset fields, then Validate().
type Config struct {
	// CollectorURL is the base URL of the trace collector. Required.
	CollectorURL string

	// Format selects the wire format: "json" or "msgpack".
	// Default: "msgpack".
	Format string

	// MaxPayloadBytes caps the serialized size of one batch.
	// Default: 10 MiB.
	MaxPayloadBytes int

	// HTTPTimeout is the per-request timeout of the default HTTP client.
	// Default: 30s.
	HTTPTimeout time.Duration

	// AuthKey is the collector API key. Optional.
	AuthKey string

	// MaxAttempts is the number of send tries per batch, including the
	// first. Zero means the sender default.
	MaxAttempts int
}

// SetDefaults fills unset fields with default values.
func (c *Config) SetDefaults() {
	if c.Format == "" {
		c.Format = DefaultFormat
	}
	if c.MaxPayloadBytes == 0 {
		c.MaxPayloadBytes = DefaultMaxPayloadBytes
	}
	if c.HTTPTimeout == 0 {
		c.HTTPTimeout = DefaultHTTPTimeout
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.CollectorURL == "" {
		return fmt.Errorf("%w: collector URL is required", ErrInvalidConfig)
	}
	if c.Format != "json" && c.Format != "msgpack" {
		return fmt.Errorf("%w: unknown format %q", ErrInvalidConfig, c.Format)
	}
	if c.MaxPayloadBytes <= 0 {
		return fmt.Errorf("%w: max payload bytes must be positive", ErrInvalidConfig)
	}
	if c.HTTPTimeout < 0 {
		return fmt.Errorf("%w: http timeout must not be negative", ErrInvalidConfig)
	}
	if c.MaxAttempts < 0 {
		return fmt.Errorf("%w: max attempts must not be negative", ErrInvalidConfig)
	}
	return nil
}
