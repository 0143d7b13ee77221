package sender

import "context"

// Payload is one finished trace batch ready for transmission.
type Payload struct {
	// Body is the joined payload bytes produced by the codec.
	Body []byte

	// ContentType is the MIME label of the payload's format.
	ContentType string

	// TraceCount is the number of traces the payload contains.
	TraceCount int
}

// Sender transmits trace payloads to a collector.
// Implementations handle communication, authentication, and retries.
type Sender interface {
	// Send transmits one payload to the collector.
	// Returns nil on success, error on failure. The implementation
	// should retry transient failures with backoff internally or
	// return an error for the caller to handle.
	Send(ctx context.Context, p Payload) error
}
