package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// RecordSink is an append-only sink for structured per-step records (the
// request log and the response/error log). Sinks are write-only from the
// pipeline's point of view and are never consulted for control decisions.
type RecordSink interface {
	Append(record map[string]any) error
}

// JSONLSink writes one JSON object per line to an io.Writer. It is safe for
// concurrent use.
type JSONLSink struct {
	mu sync.Mutex
	w  io.Writer
	f  *os.File
}

// NewJSONLSink wraps an existing writer. The caller retains ownership of the
// writer; Close is a no-op in this mode.
func NewJSONLSink(w io.Writer) *JSONLSink {
	return &JSONLSink{w: w}
}

// OpenJSONLSink creates (or appends to) the file at path, creating parent
// directories as needed. The returned sink owns the file handle; callers
// must Close it when the session ends.
func OpenJSONLSink(path string) (*JSONLSink, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	return &JSONLSink{w: f, f: f}, nil
}

// Append marshals the record and writes it as a single line.
func (s *JSONLSink) Append(record map[string]any) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write record: %w", err)
	}

	return nil
}

// Close releases the underlying file if the sink owns one.
func (s *JSONLSink) Close() error {
	if s.f == nil {
		return nil
	}
	return s.f.Close()
}

// MemorySink retains appended records in memory. Useful for tests and for
// callers that post-process records after a run.
type MemorySink struct {
	mu      sync.Mutex
	records []map[string]any
}

// NewMemorySink creates an empty in-memory sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{records: []map[string]any{}}
}

// Append stores a copy of the record.
func (s *MemorySink) Append(record map[string]any) error {
	cp := make(map[string]any, len(record))
	for k, v := range record {
		cp[k] = v
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, cp)

	return nil
}

// Records returns a defensive copy of all appended records in order.
func (s *MemorySink) Records() []map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := make([]map[string]any, len(s.records))
	copy(res, s.records)

	return res
}

// Len returns the number of appended records.
func (s *MemorySink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}
