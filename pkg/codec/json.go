package codec

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/bft-labs/traceship/pkg/trace"
)

// jsonFormat implements Format using standard JSON. A single trace
// encodes as an array of span objects; a joined payload is an array of
// those arrays.
type jsonFormat struct{}

// ContentType returns "application/json".
func (jsonFormat) ContentType() string {
	return "application/json"
}

// Encode serializes the trace as a JSON array of span objects.
// encoding/json sorts map keys, so the output is deterministic.
func (jsonFormat) Encode(t trace.Trace) ([]byte, error) {
	b, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("codec: encode trace as json: %w", err)
	}
	return b, nil
}

// Join concatenates the encoded trace documents, comma-separated, inside
// one enclosing bracket pair.
func (jsonFormat) Join(encoded [][]byte) ([]byte, error) {
	if len(encoded) == 0 {
		return nil, ErrEmptyJoin
	}

	size := len(encoded) + 1 // brackets plus a comma per separator
	for _, e := range encoded {
		size += len(e)
	}

	var buf bytes.Buffer
	buf.Grow(size)
	buf.WriteByte('[')
	for i, e := range encoded {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(e)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}
