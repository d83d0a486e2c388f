package output

import (
	"io"

	"github.com/lgbarn/chess-tutor-go/internal/config"
	"github.com/lgbarn/chess-tutor-go/internal/tutor"
)

// SessionWriter is the interface for writing session output.
// Different implementations handle different output formats (text, JSON).
type SessionWriter interface {
	// WriteEvent writes the result of one command.
	WriteEvent(e Event) error

	// WriteSnapshot writes the full session state.
	WriteSnapshot(s tutor.Snapshot) error

	// Flush flushes any buffered data to the underlying writer.
	Flush() error

	// Close closes the writer and releases any resources.
	// For batch writers (like JSON), this also writes any pending output.
	Close() error
}

// NewSessionWriter returns the writer selected by cfg.
func NewSessionWriter(w io.Writer, cfg *config.Config) SessionWriter {
	switch {
	case cfg.Output.JSONFormat && cfg.Output.StreamJSON:
		return NewJSONWriterSingle(w, cfg)
	case cfg.Output.JSONFormat:
		return NewJSONWriter(w, cfg)
	}
	return NewTextWriter(w, cfg)
}

// TextWriter writes events as lines and snapshots as board diagrams.
type TextWriter struct {
	w   io.Writer
	cfg *config.Config
}

// NewTextWriter creates a new text writer.
func NewTextWriter(w io.Writer, cfg *config.Config) *TextWriter {
	return &TextWriter{
		w:   w,
		cfg: cfg,
	}
}

// WriteEvent writes an event line.
func (tw *TextWriter) WriteEvent(e Event) error {
	OutputEvent(e, tw.w)
	return nil
}

// WriteSnapshot writes a board diagram.
func (tw *TextWriter) WriteSnapshot(s tutor.Snapshot) error {
	OutputSnapshot(s, tw.cfg, tw.w)
	return nil
}

// Flush flushes the text writer (no-op as it writes immediately).
func (tw *TextWriter) Flush() error {
	return nil
}

// Close closes the text writer.
func (tw *TextWriter) Close() error {
	return nil
}

// JSONWriter writes session records in JSON format.
// It buffers records and writes them as one document on Close or Flush.
type JSONWriter struct {
	w       io.Writer
	cfg     *config.Config
	records []JSONRecord
	single  bool // If true, write each record immediately instead of batching
}

// NewJSONWriter creates a new JSON writer.
// By default, it batches records and writes them as one document on Close().
func NewJSONWriter(w io.Writer, cfg *config.Config) *JSONWriter {
	return &JSONWriter{
		w:       w,
		cfg:     cfg,
		records: make([]JSONRecord, 0),
	}
}

// NewJSONWriterSingle creates a JSON writer that writes each record immediately.
func NewJSONWriterSingle(w io.Writer, cfg *config.Config) *JSONWriter {
	return &JSONWriter{
		w:      w,
		cfg:    cfg,
		single: true,
	}
}

// WriteEvent buffers an event (or writes it immediately in single mode).
func (jw *JSONWriter) WriteEvent(e Event) error {
	return jw.add(JSONRecord{Event: &e})
}

// WriteSnapshot buffers a snapshot (or writes it immediately in single mode).
func (jw *JSONWriter) WriteSnapshot(s tutor.Snapshot) error {
	return jw.add(JSONRecord{Snapshot: &s})
}

func (jw *JSONWriter) add(r JSONRecord) error {
	if jw.single {
		return encodeJSON(jw.w, r)
	}
	jw.records = append(jw.records, r)
	return nil
}

// Flush writes all buffered records as one JSON document.
func (jw *JSONWriter) Flush() error {
	if jw.single || len(jw.records) == 0 {
		return nil
	}

	err := encodeJSON(jw.w, &JSONOutput{Records: jw.records})

	// Clear buffer after writing
	jw.records = jw.records[:0]

	return err
}

// Close flushes and closes the JSON writer.
func (jw *JSONWriter) Close() error {
	return jw.Flush()
}
