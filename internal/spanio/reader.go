// Package spanio reads span records from newline-delimited JSON and
// groups them into traces for shipping.
package spanio

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/bft-labs/traceship/pkg/log"
	"github.com/bft-labs/traceship/pkg/trace"
)

// maxLineBytes caps the size of a single span record line.
const maxLineBytes = 1 << 20

// ReadTraces parses newline-delimited span JSON from r and groups the
// spans into traces by trace ID. Traces come out in order of their first
// span's appearance, spans within a trace in input order. Malformed
// lines are skipped with a diagnostic.
func ReadTraces(r io.Reader, logger log.Logger) ([]trace.Trace, error) {
	g := newGrouper(logger)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		g.addLine(scanner.Bytes())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("spanio: read spans: %w", err)
	}

	if n := g.skippedLines(); n > 0 {
		g.logger.Warn("skipped malformed span records", log.Int("count", n))
	}
	return g.traces(), nil
}

// grouper accumulates spans into traces keyed by trace ID, preserving
// first-appearance order.
type grouper struct {
	logger  log.Logger
	index   map[uint64]int
	out     []trace.Trace
	line    int
	skipped int
}

func newGrouper(logger log.Logger) *grouper {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &grouper{
		logger: logger,
		index:  make(map[uint64]int),
	}
}

// addLine parses one span record line and files the span under its trace.
// Blank lines are ignored; malformed lines are counted and logged.
func (g *grouper) addLine(line []byte) {
	g.line++
	if len(line) == 0 {
		return
	}

	var s trace.Span
	if err := json.Unmarshal(line, &s); err != nil {
		g.skipped++
		g.logger.Warn("skipping malformed span record",
			log.Int("line", g.line),
			log.Err(err))
		return
	}

	i, ok := g.index[s.TraceID]
	if !ok {
		i = len(g.out)
		g.index[s.TraceID] = i
		g.out = append(g.out, nil)
	}
	g.out[i] = append(g.out[i], &s)
}

// traces returns the grouped traces.
func (g *grouper) traces() []trace.Trace {
	return g.out
}

// skippedLines returns the number of malformed lines skipped so far.
func (g *grouper) skippedLines() int {
	return g.skipped
}
