// Package traceship batches and serializes traces for transmission to a
// remote collector.
//
// Example usage:
//
//	cfg := traceship.Config{
//	    CollectorURL: "https://collector.example.com",
//	    AuthKey:      "your-api-key",
//	}
//	report, err := traceship.ShipTraces(context.Background(), cfg, traces)
//	if err != nil {
//	    log.Fatal(err)
//	}
package traceship

import (
	"context"

	"github.com/bft-labs/traceship/pkg/trace"
	ship "github.com/bft-labs/traceship/pkg/traceship"
)

// Re-export the core types for convenient access. Users can also import
// the sub-packages directly for selective import.
type (
	// Span is one timed unit of work within a trace.
	Span = trace.Span

	// Trace is an ordered sequence of spans sharing a causal tree.
	Trace = trace.Trace

	// Config holds the shipper configuration.
	Config = ship.Config

	// Option configures optional behavior of a Shipper.
	Option = ship.Option

	// Report summarizes one shipping call.
	Report = ship.Report

	// Shipper batches, serializes, and transmits traces.
	Shipper = ship.Shipper
)

// New creates a Shipper with the given configuration.
func New(cfg Config, opts ...Option) (*Shipper, error) {
	return ship.New(cfg, opts...)
}

// ShipTraces creates a one-off Shipper and ships the given traces.
// For repeated shipping, create a Shipper with New and reuse it.
func ShipTraces(ctx context.Context, cfg Config, traces []Trace, opts ...Option) (Report, error) {
	s, err := ship.New(cfg, opts...)
	if err != nil {
		return Report{}, err
	}
	return s.ShipTraces(ctx, traces)
}
