package codec

import (
	"bytes"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/bft-labs/traceship/pkg/trace"
)

// msgpackFormat implements Format using msgpack. A single trace encodes
// as an array of span maps; a joined payload is an array whose elements
// are the pre-encoded traces.
type msgpackFormat struct{}

// ContentType returns "application/msgpack".
func (msgpackFormat) ContentType() string {
	return "application/msgpack"
}

// Encode serializes the trace as a msgpack array of span maps. Map keys
// are sorted so the output is deterministic.
func (msgpackFormat) Encode(t trace.Trace) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(t); err != nil {
		return nil, fmt.Errorf("codec: encode trace as msgpack: %w", err)
	}
	return buf.Bytes(), nil
}

// Join emits the msgpack array-of-N header for the batch, then the raw
// element encodings. The elements already carry their own framing, so
// only the outer array header is written here.
func (msgpackFormat) Join(encoded [][]byte) ([]byte, error) {
	if len(encoded) == 0 {
		return nil, ErrEmptyJoin
	}

	size := 5 // worst-case array32 header
	for _, e := range encoded {
		size += len(e)
	}

	buf := bytes.NewBuffer(make([]byte, 0, size))
	enc := msgpack.NewEncoder(buf)
	if err := enc.EncodeArrayLen(len(encoded)); err != nil {
		return nil, fmt.Errorf("codec: write msgpack array header: %w", err)
	}
	for _, e := range encoded {
		buf.Write(e)
	}
	return buf.Bytes(), nil
}
