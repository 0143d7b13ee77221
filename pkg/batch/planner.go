package batch

import (
	"fmt"

	"github.com/bft-labs/traceship/pkg/codec"
	"github.com/bft-labs/traceship/pkg/log"
	"github.com/bft-labs/traceship/pkg/trace"
)

// Sink receives one finished batch payload and the number of traces it
// contains. It is invoked synchronously, once per batch, in batch order.
// A non-nil error aborts the remaining traversal.
type Sink[R any] func(payload []byte, traceCount int) (R, error)

// Planner groups encoded traces into payloads bounded by a byte ceiling.
// A Planner holds no per-call state and is safe for concurrent use.
type Planner struct {
	format  codec.Format
	maxSize int
	logger  log.Logger
}

// NewPlanner creates a planner that encodes traces with the given format
// and caps every payload at maxPayloadBytes. A nil logger discards the
// oversize-trace diagnostics.
func NewPlanner(format codec.Format, maxPayloadBytes int, logger log.Logger) *Planner {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Planner{
		format:  format,
		maxSize: maxPayloadBytes,
		logger:  logger,
	}
}

// MaxPayloadBytes returns the configured payload ceiling.
func (p *Planner) MaxPayloadBytes() int {
	return p.maxSize
}

// EncodeTraces encodes the traces in input order and greedily packs
// consecutive encodings into payloads whose summed byte size never
// exceeds the planner's ceiling. Each finished payload is joined with
// the planner's format and handed to sink; the sink results are returned
// in flush order.
//
// A trace whose own encoding exceeds the ceiling is dropped with a
// warning and contributes to no payload. An encode or sink error stops
// the traversal and is returned together with the results collected so
// far; payloads already handed to the sink stay handed.
func EncodeTraces[R any](p *Planner, traces []trace.Trace, sink Sink[R]) ([]R, error) {
	var (
		results []R
		pending [][]byte
		total   int
	)

	flush := func() error {
		payload, err := p.format.Join(pending)
		if err != nil {
			return fmt.Errorf("batch: join payload: %w", err)
		}
		r, err := sink(payload, len(pending))
		if err != nil {
			return err
		}
		results = append(results, r)
		pending = pending[:0]
		total = 0
		return nil
	}

	for i, t := range traces {
		encoded, err := p.format.Encode(t)
		if err != nil {
			return results, fmt.Errorf("batch: encode trace %d: %w", i, err)
		}

		if len(encoded) > p.maxSize {
			p.logger.Warn("dropping trace larger than max payload size",
				log.Uint64("trace_id", t.ID()),
				log.Int("spans", len(t)),
				log.Int("encoded_bytes", len(encoded)),
				log.Int("max_payload_bytes", p.maxSize))
			continue
		}

		// The ceiling is inclusive: a payload flushes only when the
		// append would push the total strictly past it, so a single
		// trace sized exactly to the ceiling ships alone.
		if total+len(encoded) > p.maxSize {
			if err := flush(); err != nil {
				return results, err
			}
		}

		pending = append(pending, encoded)
		total += len(encoded)
	}

	if len(pending) > 0 {
		if err := flush(); err != nil {
			return results, err
		}
	}

	return results, nil
}
