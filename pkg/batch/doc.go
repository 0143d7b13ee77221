// Package batch plans trace payloads bounded by a byte ceiling.
//
// This package packs consecutive encoded traces into payloads no larger
// than a configured size, flushing each finished payload to a caller
// supplied sink. Packing is greedy and single-pass: traces are never
// reordered, never split across payloads, and no lookahead is needed, so
// the planner works on live unbounded streams one call at a time.
//
// # Usage
//
// Create a Planner and feed it traces:
//
//	planner := batch.NewPlanner(codec.Msgpack, 10<<20, logger)
//
//	sent, err := batch.EncodeTraces(planner, traces,
//	    func(payload []byte, traces int) (int, error) {
//	        // Send payload...
//	        return len(payload), nil
//	    })
//
// A trace whose encoding alone exceeds the ceiling is dropped with a
// diagnostic rather than corrupting a payload.
package batch
