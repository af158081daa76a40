package tracing

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

var errExporterClosed = errors.New("trace exporter is shut down")

// SpanRecord is one line of the trace file.
type SpanRecord struct {
	Name   string         `json:"name"`
	Trace  string         `json:"trace"`
	Span   string         `json:"span"`
	Parent string         `json:"parent,omitempty"`
	Start  time.Time      `json:"start"`
	Millis float64        `json:"ms"`
	Error  string         `json:"error,omitempty"`
	Attrs  map[string]any `json:"attrs,omitempty"`
}

// JSONLExporter appends finished spans to a file, one SpanRecord per line.
type JSONLExporter struct {
	mu  sync.Mutex
	f   *os.File
	buf *bufio.Writer
}

var _ sdktrace.SpanExporter = (*JSONLExporter)(nil)

// NewJSONLExporter opens path for appending, creating parent directories.
func NewJSONLExporter(path string) (*JSONLExporter, error) {
	path = filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("create trace directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600) // #nosec G304 -- configured trace path
	if err != nil {
		return nil, fmt.Errorf("open trace file: %w", err)
	}
	return &JSONLExporter{f: f, buf: bufio.NewWriter(f)}, nil
}

// ExportSpans writes a batch and flushes it.
func (e *JSONLExporter) ExportSpans(_ context.Context, spans []sdktrace.ReadOnlySpan) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.f == nil {
		return errExporterClosed
	}
	enc := json.NewEncoder(e.buf)
	for _, s := range spans {
		if err := enc.Encode(record(s)); err != nil {
			return fmt.Errorf("encode span %s: %w", s.Name(), err)
		}
	}
	return e.buf.Flush()
}

// Shutdown flushes and closes the file. Later calls do nothing.
func (e *JSONLExporter) Shutdown(_ context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.f == nil {
		return nil
	}
	err := errors.Join(e.buf.Flush(), e.f.Close())
	e.f = nil
	return err
}

func record(s sdktrace.ReadOnlySpan) SpanRecord {
	r := SpanRecord{
		Name:   s.Name(),
		Trace:  s.SpanContext().TraceID().String(),
		Span:   s.SpanContext().SpanID().String(),
		Start:  s.StartTime(),
		Millis: float64(s.EndTime().Sub(s.StartTime()).Microseconds()) / 1000,
	}
	if p := s.Parent(); p.IsValid() {
		r.Parent = p.SpanID().String()
	}
	if st := s.Status(); st.Code == codes.Error {
		r.Error = st.Description
	}
	if kvs := s.Attributes(); len(kvs) > 0 {
		r.Attrs = make(map[string]any, len(kvs))
		for _, kv := range kvs {
			r.Attrs[string(kv.Key)] = kv.Value.AsInterface()
		}
	}
	return r
}
