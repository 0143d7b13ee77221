package sender

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/bft-labs/traceship/pkg/log"
)

const tracesEndpoint = "/v0.4/traces"

// Default transmission configuration values.
const (
	DefaultMaxAttempts    = 3
	DefaultBackoffInitial = 500 * time.Millisecond
	DefaultBackoffMax     = 10 * time.Second
)

// Config holds the settings for a TraceSender.
type Config struct {
	// CollectorURL is the base URL of the collector (no trailing path).
	CollectorURL string

	// AuthKey is the API authentication key. Optional.
	AuthKey string

	// Hostname identifies the sending host in request headers.
	Hostname string

	// OSArch is the operating system and architecture (e.g., "linux/amd64").
	OSArch string

	// MaxAttempts is the total number of tries per payload, including
	// the first. Zero means DefaultMaxAttempts.
	MaxAttempts int

	// BackoffInitial is the delay before the first retry.
	// Zero means DefaultBackoffInitial.
	BackoffInitial time.Duration

	// BackoffMax caps the retry delay. Zero means DefaultBackoffMax.
	BackoffMax time.Duration
}

// TraceSender implements Sender over HTTP POST.
type TraceSender struct {
	cfg    Config
	client HTTPClient
	logger log.Logger
}

// NewTraceSender creates an HTTP trace sender.
func NewTraceSender(cfg Config, client HTTPClient, logger log.Logger) *TraceSender {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.BackoffInitial <= 0 {
		cfg.BackoffInitial = DefaultBackoffInitial
	}
	if cfg.BackoffMax <= 0 {
		cfg.BackoffMax = DefaultBackoffMax
	}
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &TraceSender{
		cfg:    cfg,
		client: client,
		logger: logger,
	}
}

// Send POSTs the payload to the collector's traces endpoint. Network
// errors and 5xx responses are retried with exponential backoff up to
// the configured attempt cap; any other non-2xx response fails
// immediately.
func (s *TraceSender) Send(ctx context.Context, p Payload) error {
	bo := newBackoff(s.cfg.BackoffInitial, s.cfg.BackoffMax)

	var lastErr error
	for attempt := 1; attempt <= s.cfg.MaxAttempts; attempt++ {
		if attempt > 1 {
			if err := bo.Sleep(ctx); err != nil {
				return err
			}
			s.logger.Debug("retrying payload send",
				log.Int("attempt", attempt),
				log.Int("trace_count", p.TraceCount))
		}

		retryable, err := s.post(ctx, p)
		if err == nil {
			return nil
		}
		if !retryable {
			return err
		}
		lastErr = err
		s.logger.Warn("payload send failed",
			log.Int("attempt", attempt),
			log.Err(err))
	}

	return fmt.Errorf("send payload: %d attempts failed: %w", s.cfg.MaxAttempts, lastErr)
}

// post performs one send attempt. The bool reports whether the failure
// is worth retrying.
func (s *TraceSender) post(ctx context.Context, p Payload) (bool, error) {
	url := s.cfg.CollectorURL + tracesEndpoint
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(p.Body))
	if err != nil {
		return false, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", p.ContentType)
	req.Header.Set("X-Traceship-Trace-Count", strconv.Itoa(p.TraceCount))
	if s.cfg.AuthKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.cfg.AuthKey)
	}
	if s.cfg.Hostname != "" {
		req.Header.Set("X-Agent-Hostname", s.cfg.Hostname)
	}
	if s.cfg.OSArch != "" {
		req.Header.Set("X-Agent-OSArch", s.cfg.OSArch)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		return true, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 == 2 {
		return false, nil
	}

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	err = fmt.Errorf("server returned %d: %s", resp.StatusCode, string(respBody))
	return resp.StatusCode/100 == 5, err
}
