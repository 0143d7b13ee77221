package batch

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/bft-labs/traceship/pkg/codec"
	"github.com/bft-labs/traceship/pkg/log"
	"github.com/bft-labs/traceship/pkg/trace"
)

// sizeFormat encodes a trace as one byte per span and joins by plain
// concatenation, so payload sizes are easy to reason about in tests.
type sizeFormat struct{}

func (sizeFormat) ContentType() string { return "application/x-test" }

func (sizeFormat) Encode(t trace.Trace) ([]byte, error) {
	return bytes.Repeat([]byte{'x'}, len(t)), nil
}

func (sizeFormat) Join(encoded [][]byte) ([]byte, error) {
	if len(encoded) == 0 {
		return nil, codec.ErrEmptyJoin
	}
	return bytes.Join(encoded, nil), nil
}

// traceOfSize builds a trace whose sizeFormat encoding is exactly n bytes.
func traceOfSize(id uint64, n int) trace.Trace {
	t := make(trace.Trace, n)
	for i := range t {
		t[i] = &trace.Span{TraceID: id, SpanID: uint64(i + 1)}
	}
	return t
}

// recordingLogger captures warning messages.
type recordingLogger struct {
	warns []string
}

func (l *recordingLogger) Debug(msg string, fields ...log.Field) {}
func (l *recordingLogger) Info(msg string, fields ...log.Field)  {}
func (l *recordingLogger) Warn(msg string, fields ...log.Field)  { l.warns = append(l.warns, msg) }
func (l *recordingLogger) Error(msg string, fields ...log.Field) {}

// flush records one sink invocation.
type flush struct {
	payload []byte
	count   int
}

func collectFlushes(flushes *[]flush) Sink[int] {
	return func(payload []byte, count int) (int, error) {
		*flushes = append(*flushes, flush{payload: payload, count: count})
		return len(*flushes), nil
	}
}

func TestEncodeTraces_EmptyInput(t *testing.T) {
	p := NewPlanner(sizeFormat{}, 100, nil)

	var flushes []flush
	results, err := EncodeTraces(p, nil, collectFlushes(&flushes))
	if err != nil {
		t.Fatalf("EncodeTraces returned error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("results = %v, want empty", results)
	}
	if len(flushes) != 0 {
		t.Errorf("sink invoked %d times, want 0", len(flushes))
	}
}

func TestEncodeTraces_PacksUnderCeiling(t *testing.T) {
	p := NewPlanner(sizeFormat{}, 10, nil)
	traces := []trace.Trace{
		traceOfSize(1, 4),
		traceOfSize(2, 4),
		traceOfSize(3, 4),
	}

	var flushes []flush
	results, err := EncodeTraces(p, traces, collectFlushes(&flushes))
	if err != nil {
		t.Fatalf("EncodeTraces returned error: %v", err)
	}

	if len(flushes) != 2 {
		t.Fatalf("sink invoked %d times, want 2", len(flushes))
	}
	if flushes[0].count != 2 || len(flushes[0].payload) != 8 {
		t.Errorf("first flush = %d traces / %d bytes, want 2 / 8",
			flushes[0].count, len(flushes[0].payload))
	}
	if flushes[1].count != 1 || len(flushes[1].payload) != 4 {
		t.Errorf("second flush = %d traces / %d bytes, want 1 / 4",
			flushes[1].count, len(flushes[1].payload))
	}

	// Sink return values come back in flush order.
	if len(results) != 2 || results[0] != 1 || results[1] != 2 {
		t.Errorf("results = %v, want [1 2]", results)
	}
}

func TestEncodeTraces_CountConservation(t *testing.T) {
	p := NewPlanner(sizeFormat{}, 7, nil)
	var traces []trace.Trace
	for i := 1; i <= 25; i++ {
		traces = append(traces, traceOfSize(uint64(i), 1+i%5))
	}

	var flushes []flush
	if _, err := EncodeTraces(p, traces, collectFlushes(&flushes)); err != nil {
		t.Fatalf("EncodeTraces returned error: %v", err)
	}

	total := 0
	for _, f := range flushes {
		total += f.count
		if len(f.payload) > 7 {
			t.Errorf("flush of %d bytes exceeds ceiling 7", len(f.payload))
		}
	}
	if total != len(traces) {
		t.Errorf("flushed %d traces total, want %d", total, len(traces))
	}
}

func TestEncodeTraces_ExactFitShipsAlone(t *testing.T) {
	p := NewPlanner(sizeFormat{}, 10, nil)

	var flushes []flush
	results, err := EncodeTraces(p, []trace.Trace{traceOfSize(1, 10)}, collectFlushes(&flushes))
	if err != nil {
		t.Fatalf("EncodeTraces returned error: %v", err)
	}
	if len(results) != 1 || len(flushes) != 1 {
		t.Fatalf("flushes = %d, results = %d, want 1 and 1", len(flushes), len(results))
	}
	if flushes[0].count != 1 || len(flushes[0].payload) != 10 {
		t.Errorf("flush = %d traces / %d bytes, want 1 / 10", flushes[0].count, len(flushes[0].payload))
	}
}

func TestEncodeTraces_OversizeDropped(t *testing.T) {
	logger := &recordingLogger{}
	p := NewPlanner(sizeFormat{}, 10, logger)
	traces := []trace.Trace{
		traceOfSize(1, 4),
		traceOfSize(2, 11),
		traceOfSize(3, 4),
	}

	var flushes []flush
	results, err := EncodeTraces(p, traces, collectFlushes(&flushes))
	if err != nil {
		t.Fatalf("EncodeTraces returned error: %v", err)
	}
	if len(results) != 1 || len(flushes) != 1 {
		t.Fatalf("flushes = %d, want 1", len(flushes))
	}
	if flushes[0].count != 2 || len(flushes[0].payload) != 8 {
		t.Errorf("flush = %d traces / %d bytes, want 2 / 8", flushes[0].count, len(flushes[0].payload))
	}
	if len(logger.warns) != 1 {
		t.Errorf("warnings = %d, want 1", len(logger.warns))
	}
}

func TestEncodeTraces_SoleOversizeNoFlush(t *testing.T) {
	logger := &recordingLogger{}
	p := NewPlanner(sizeFormat{}, 10, logger)

	var flushes []flush
	results, err := EncodeTraces(p, []trace.Trace{traceOfSize(1, 11)}, collectFlushes(&flushes))
	if err != nil {
		t.Fatalf("EncodeTraces returned error: %v", err)
	}
	if len(results) != 0 || len(flushes) != 0 {
		t.Errorf("flushes = %d, results = %d, want 0 and 0", len(flushes), len(results))
	}
	if len(logger.warns) != 1 {
		t.Errorf("warnings = %d, want 1", len(logger.warns))
	}
}

func TestEncodeTraces_SinkErrorAborts(t *testing.T) {
	p := NewPlanner(sizeFormat{}, 4, nil)
	traces := []trace.Trace{
		traceOfSize(1, 4),
		traceOfSize(2, 4),
		traceOfSize(3, 4),
	}

	sinkErr := errors.New("collector unreachable")
	calls := 0
	results, err := EncodeTraces(p, traces, func(payload []byte, count int) (int, error) {
		calls++
		if calls == 2 {
			return 0, sinkErr
		}
		return calls, nil
	})

	if !errors.Is(err, sinkErr) {
		t.Fatalf("error = %v, want %v", err, sinkErr)
	}
	if calls != 2 {
		t.Errorf("sink invoked %d times, want 2", calls)
	}
	// The first flush stays flushed and its result is returned.
	if len(results) != 1 || results[0] != 1 {
		t.Errorf("results = %v, want [1]", results)
	}
}

func TestEncodeTraces_EncodeErrorPropagates(t *testing.T) {
	p := NewPlanner(codec.JSON, 1<<20, nil)
	traces := []trace.Trace{
		{{TraceID: 1, SpanID: 1, Name: "ok"}},
		// NaN is not representable in JSON, so this trace cannot encode.
		{{TraceID: 2, SpanID: 1, Metrics: map[string]float64{"m": math.NaN()}}},
	}

	calls := 0
	_, err := EncodeTraces(p, traces, func(payload []byte, count int) (int, error) {
		calls++
		return calls, nil
	})
	if err == nil {
		t.Fatal("EncodeTraces returned nil error, want encode failure")
	}
	if !strings.Contains(err.Error(), "encode trace 1") {
		t.Errorf("error = %v, want it to identify trace 1", err)
	}
	if calls != 0 {
		t.Errorf("sink invoked %d times, want 0", calls)
	}
}

func TestEncodeTraces_OrderingWithJSON(t *testing.T) {
	p := NewPlanner(codec.JSON, 1<<20, nil)
	var traces []trace.Trace
	for i := 1; i <= 5; i++ {
		traces = append(traces, trace.Trace{{TraceID: uint64(i), SpanID: 1, Name: "op"}})
	}

	var payloads [][]byte
	_, err := EncodeTraces(p, traces, func(payload []byte, count int) (int, error) {
		payloads = append(payloads, payload)
		return count, nil
	})
	if err != nil {
		t.Fatalf("EncodeTraces returned error: %v", err)
	}

	var seen []uint64
	for _, payload := range payloads {
		var decoded []trace.Trace
		if err := json.Unmarshal(payload, &decoded); err != nil {
			t.Fatalf("payload does not decode: %v", err)
		}
		for _, tr := range decoded {
			seen = append(seen, tr.ID())
		}
	}

	if len(seen) != 5 {
		t.Fatalf("decoded %d traces, want 5", len(seen))
	}
	for i, id := range seen {
		if id != uint64(i+1) {
			t.Errorf("trace %d has ID %d, want %d", i, id, i+1)
		}
	}
}
