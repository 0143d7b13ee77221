package traceship

import (
	"context"
	"errors"
	"net/http"
	"os"
	"runtime"

	"github.com/bft-labs/traceship/pkg/batch"
	"github.com/bft-labs/traceship/pkg/codec"
	"github.com/bft-labs/traceship/pkg/log"
	"github.com/bft-labs/traceship/pkg/sender"
)

// ErrInvalidConfig is returned when configuration validation fails.
var ErrInvalidConfig = errors.New("traceship: invalid configuration")

// Report summarizes one ShipTraces call.
type Report struct {
	// Batches is the number of payloads sent.
	Batches int

	// Traces is the number of traces shipped across all payloads.
	Traces int

	// Bytes is the total payload bytes sent.
	Bytes int
}

// Shipper batches, serializes, and transmits traces to a collector.
// A Shipper is safe for concurrent use.
type Shipper struct {
	format  codec.Format
	planner *batch.Planner
	sender  sender.Sender
	logger  log.Logger
}

// New creates a Shipper with the given configuration.
// Returns an error if configuration is invalid.
func New(cfg Config, opts ...Option) (*Shipper, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := options{
		logger: log.NewNoopLogger(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	format, err := codec.ForName(cfg.Format)
	if err != nil {
		return nil, err
	}

	snd := o.sender
	if snd == nil {
		client := o.httpClient
		if client == nil {
			client = &http.Client{Timeout: cfg.HTTPTimeout}
		}
		snd = sender.NewTraceSender(sender.Config{
			CollectorURL: cfg.CollectorURL,
			AuthKey:      cfg.AuthKey,
			Hostname:     hostname(),
			OSArch:       runtime.GOOS + "/" + runtime.GOARCH,
			MaxAttempts:  cfg.MaxAttempts,
		}, client, o.logger)
	}

	return &Shipper{
		format:  format,
		planner: batch.NewPlanner(format, cfg.MaxPayloadBytes, o.logger),
		sender:  snd,
		logger:  o.logger,
	}, nil
}

// ShipTraces batches the traces under the configured payload ceiling and
// sends each batch to the collector in order. It returns a Report of
// what was sent. On a send or encode failure, batches already sent stay
// sent and the error is returned together with a Report covering them.
func (s *Shipper) ShipTraces(ctx context.Context, traces []Trace) (Report, error) {
	sent, err := batch.EncodeTraces(s.planner, traces,
		func(payload []byte, traceCount int) (batchResult, error) {
			sendErr := s.sender.Send(ctx, sender.Payload{
				Body:        payload,
				ContentType: s.format.ContentType(),
				TraceCount:  traceCount,
			})
			if sendErr != nil {
				return batchResult{}, sendErr
			}
			return batchResult{bytes: len(payload), traces: traceCount}, nil
		})

	var report Report
	for _, r := range sent {
		report.Batches++
		report.Traces += r.traces
		report.Bytes += r.bytes
	}

	if err != nil {
		return report, err
	}

	s.logger.Debug("shipped traces",
		log.Int("batches", report.Batches),
		log.Int("traces", report.Traces),
		log.Int("bytes", report.Bytes))
	return report, nil
}

// batchResult records what one flushed payload contained.
type batchResult struct {
	bytes  int
	traces int
}

// hostname returns the local hostname, or "unknown" if it cannot be
// determined.
func hostname() string {
	h, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return h
}
