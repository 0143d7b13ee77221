package codec

import (
	"errors"
	"fmt"

	"github.com/bft-labs/traceship/pkg/trace"
)

// ErrEmptyJoin is returned when Join is called with no encoded traces.
// A payload always wraps at least one trace.
var ErrEmptyJoin = errors.New("codec: join of zero traces")

// Format is a wire serialization scheme for traces. Implementations are
// stateless and safe for concurrent use.
type Format interface {
	// ContentType returns the MIME label for payloads of this format,
	// used by the transport to set the outgoing Content-Type header.
	ContentType() string

	// Encode serializes a single trace into the format's wire
	// representation. Encode is deterministic: equal input produces
	// byte-identical output.
	Encode(t trace.Trace) ([]byte, error)

	// Join wraps N independently encoded traces into one payload that a
	// decoder for this format parses as a list of N traces. Join is a
	// structural operation; the element encodings are not re-serialized
	// and must all come from this format's Encode.
	Join(encoded [][]byte) ([]byte, error)
}

// Built-in formats.
var (
	// JSON serializes traces as JSON arrays of span objects.
	JSON Format = jsonFormat{}

	// Msgpack serializes traces as msgpack arrays of span maps.
	Msgpack Format = msgpackFormat{}
)

// ForName returns the built-in format with the given name ("json" or
// "msgpack").
func ForName(name string) (Format, error) {
	switch name {
	case "json":
		return JSON, nil
	case "msgpack":
		return Msgpack, nil
	default:
		return nil, fmt.Errorf("codec: unknown format %q", name)
	}
}
