package traceship

import "github.com/bft-labs/traceship/pkg/trace"

// Re-export the trace model for convenient access. Users can also
// import pkg/trace directly.
type (
	// Span is one timed unit of work within a trace.
	Span = trace.Span

	// Trace is an ordered sequence of spans sharing a causal tree.
	Trace = trace.Trace
)
