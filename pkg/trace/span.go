// Package trace defines the span and trace model shipped by traceship.
//
// Spans are produced by an instrumentation layer outside this module and
// are read-only here: nothing in traceship mutates a span after it has
// been handed over for shipping.
package trace

// Span is one timed unit of work within a trace, represented as a flat
// key-value record in the classic APM shape.
type Span struct {
	// Service is the name of the service that emitted the span.
	Service string `json:"service" msgpack:"service"`

	// Name is the operation name (e.g., "http.request").
	Name string `json:"name" msgpack:"name"`

	// Resource is the resource being operated on (e.g., "GET /users/:id").
	Resource string `json:"resource,omitempty" msgpack:"resource,omitempty"`

	// TraceID identifies the trace this span belongs to.
	TraceID uint64 `json:"trace_id" msgpack:"trace_id"`

	// SpanID uniquely identifies this span within its trace.
	SpanID uint64 `json:"span_id" msgpack:"span_id"`

	// ParentID is the span ID of this span's parent, or zero for a root span.
	ParentID uint64 `json:"parent_id" msgpack:"parent_id"`

	// Start is the span start time in unix nanoseconds.
	Start int64 `json:"start" msgpack:"start"`

	// Duration is the span duration in nanoseconds.
	Duration int64 `json:"duration" msgpack:"duration"`

	// Error is non-zero if the span finished with an error.
	Error int32 `json:"error" msgpack:"error"`

	// Meta holds string-valued span tags.
	Meta map[string]string `json:"meta,omitempty" msgpack:"meta,omitempty"`

	// Metrics holds numeric-valued span tags.
	Metrics map[string]float64 `json:"metrics,omitempty" msgpack:"metrics,omitempty"`

	// Type is the span type (e.g., "web", "db"), if known.
	Type string `json:"type,omitempty" msgpack:"type,omitempty"`
}

// Trace is an ordered sequence of spans sharing a causal tree. The order
// in which spans appear is preserved end to end; traceship never reorders
// or restructures the spans of a trace.
type Trace []*Span

// ID returns the trace ID carried by the trace's first span, or zero for
// an empty trace.
func (t Trace) ID() uint64 {
	if len(t) == 0 {
		return 0
	}
	return t[0].TraceID
}
