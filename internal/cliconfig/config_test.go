package cliconfig

import (
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Format != "msgpack" {
		t.Errorf("Format = %v, want msgpack", cfg.Format)
	}
	if cfg.MaxPayloadBytes != 10<<20 {
		t.Errorf("MaxPayloadBytes = %v, want 10MB", cfg.MaxPayloadBytes)
	}
	if cfg.HTTPTimeout != 30*time.Second {
		t.Errorf("HTTPTimeout = %v, want 30s", cfg.HTTPTimeout)
	}
	if cfg.Input != "-" {
		t.Errorf("Input = %v, want -", cfg.Input)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %v, want info", cfg.LogLevel)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name: "valid minimal config",
			config: Config{
				CollectorURL:    "http://localhost:8126",
				Format:          "msgpack",
				MaxPayloadBytes: 1024,
				Input:           "-",
			},
		},
		{
			name: "missing collector url",
			config: Config{
				Format:          "msgpack",
				MaxPayloadBytes: 1024,
				Input:           "-",
			},
			wantErr: true,
		},
		{
			name: "unknown format",
			config: Config{
				CollectorURL:    "http://localhost:8126",
				Format:          "protobuf",
				MaxPayloadBytes: 1024,
				Input:           "-",
			},
			wantErr: true,
		},
		{
			name: "follow with stdin",
			config: Config{
				CollectorURL:    "http://localhost:8126",
				Format:          "json",
				MaxPayloadBytes: 1024,
				Input:           "-",
				Follow:          true,
			},
			wantErr: true,
		},
		{
			name: "follow with file",
			config: Config{
				CollectorURL:    "http://localhost:8126",
				Format:          "json",
				MaxPayloadBytes: 1024,
				Input:           "/var/log/spans.ndjson",
				Follow:          true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.config.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_Validate_TrimsTrailingSlash(t *testing.T) {
	cfg := Config{
		CollectorURL:    "http://localhost:8126/",
		Format:          "msgpack",
		MaxPayloadBytes: 1024,
		Input:           "-",
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if cfg.CollectorURL != "http://localhost:8126" {
		t.Errorf("CollectorURL = %v, want trailing slash removed", cfg.CollectorURL)
	}
}

func TestApplyEnvConfig(t *testing.T) {
	t.Setenv("TRACESHIP_COLLECTOR_URL", "http://env:8126")
	t.Setenv("TRACESHIP_FORMAT", "json")
	t.Setenv("TRACESHIP_MAX_PAYLOAD_BYTES", "2048")
	t.Setenv("TRACESHIP_HTTP_TIMEOUT", "5s")

	cfg := DefaultConfig()
	if err := ApplyEnvConfig(&cfg, map[string]bool{}); err != nil {
		t.Fatalf("ApplyEnvConfig returned error: %v", err)
	}

	if cfg.CollectorURL != "http://env:8126" {
		t.Errorf("CollectorURL = %v, want http://env:8126", cfg.CollectorURL)
	}
	if cfg.Format != "json" {
		t.Errorf("Format = %v, want json", cfg.Format)
	}
	if cfg.MaxPayloadBytes != 2048 {
		t.Errorf("MaxPayloadBytes = %v, want 2048", cfg.MaxPayloadBytes)
	}
	if cfg.HTTPTimeout != 5*time.Second {
		t.Errorf("HTTPTimeout = %v, want 5s", cfg.HTTPTimeout)
	}
}

func TestApplyEnvConfig_RespectsChangedFlags(t *testing.T) {
	t.Setenv("TRACESHIP_COLLECTOR_URL", "http://env:8126")

	cfg := DefaultConfig()
	cfg.CollectorURL = "http://flag:8126"
	if err := ApplyEnvConfig(&cfg, map[string]bool{"collector-url": true}); err != nil {
		t.Fatalf("ApplyEnvConfig returned error: %v", err)
	}
	if cfg.CollectorURL != "http://flag:8126" {
		t.Errorf("CollectorURL = %v, want flag value kept", cfg.CollectorURL)
	}
}

func TestApplyEnvConfig_InvalidDuration(t *testing.T) {
	t.Setenv("TRACESHIP_HTTP_TIMEOUT", "not-a-duration")

	cfg := DefaultConfig()
	if err := ApplyEnvConfig(&cfg, map[string]bool{}); err == nil {
		t.Error("ApplyEnvConfig returned nil error, want parse failure")
	}
}
