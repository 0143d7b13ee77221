package traceship

import (
	"github.com/bft-labs/traceship/pkg/log"
	"github.com/bft-labs/traceship/pkg/sender"
)

// Option configures optional behavior of a Shipper.
type Option func(*options)

// options holds the optional configuration for a Shipper.
type options struct {
	httpClient sender.HTTPClient
	logger     log.Logger
	sender     sender.Sender
}

// WithHTTPClient sets a custom HTTP client for collector communication.
// If not provided, a default client with the configured timeout is used.
func WithHTTPClient(client sender.HTTPClient) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithLogger sets a custom logger for structured logging.
// If not provided, a no-op logger is used (no output).
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithSender replaces the HTTP sender entirely. Useful for tests and for
// shipping to non-HTTP destinations. When set, the HTTP client and the
// collector-related config fields are ignored.
func WithSender(s sender.Sender) Option {
	return func(o *options) {
		o.sender = s
	}
}
