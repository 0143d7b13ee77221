// Package codec serializes traces for transmission to a collector.
//
// A Format turns one trace into bytes and wraps any number of
// already-encoded traces into a single multi-trace payload without
// re-encoding them. Two formats are built in:
//
//   - codec.JSON: a JSON array of traces, each an array of span objects
//   - codec.Msgpack: a msgpack array of traces, each an array of span maps
//
// Both are stateless and safe for concurrent use. Select one at
// configuration time:
//
//	f, err := codec.ForName("msgpack")
//	if err != nil {
//	    return err
//	}
//	payload, err := f.Encode(t)
//
// # Version
//
// Current version: 1.0.0
// Minimum compatible version: 1.0.0
//
// See version.go for version constants that can be used programmatically.
package codec
