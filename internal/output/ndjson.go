package output

import (
	"encoding/json"
	"io"

	"github.com/vburojevic/rogcat/internal/domain"
)

// NDJSONWriter writes records and events as NDJSON
type NDJSONWriter struct {
	w       io.Writer
	encoder *json.Encoder
}

// NewNDJSONWriter creates a new NDJSON writer
func NewNDJSONWriter(w io.Writer) *NDJSONWriter {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false) // keep logs unescaped and avoid extra allocations
	return &NDJSONWriter{
		w:       w,
		encoder: enc,
	}
}

// OutputEntry is the NDJSON record format
type OutputEntry struct {
	Type          string `json:"type"`          // Always "log"
	SchemaVersion int    `json:"schemaVersion"` // Schema version for compatibility
	Timestamp     string `json:"timestamp,omitempty"`
	Level         string `json:"level"`
	Tag           string `json:"tag,omitempty"`
	Process       string `json:"process,omitempty"`
	Thread        string `json:"thread,omitempty"`
	Message       string `json:"message"`
}

// InfoOutput represents an informational message
type InfoOutput struct {
	Type          string `json:"type"` // Always "info"
	SchemaVersion int    `json:"schemaVersion"`
	Message       string `json:"message"`
	Serial        string `json:"serial,omitempty"`
}

// WarningOutput represents a warning message
type WarningOutput struct {
	Type          string `json:"type"` // Always "warning"
	SchemaVersion int    `json:"schemaVersion"`
	Message       string `json:"message"`
}

// RotationOutput describes a new output file
type RotationOutput struct {
	Type          string `json:"type"` // Always "rotation"
	SchemaVersion int    `json:"schemaVersion"`
	Path          string `json:"path"`
	Index         int    `json:"index"`
}

// Write outputs a single record as NDJSON
func (w *NDJSONWriter) Write(rec *domain.Record) error {
	return w.encoder.Encode(OutputEntry{
		Type:          "log",
		SchemaVersion: SchemaVersion,
		Timestamp:     rec.Timestamp,
		Level:         rec.Level.String(),
		Tag:           rec.Tag,
		Process:       rec.Process,
		Thread:        rec.Thread,
		Message:       rec.Message,
	})
}

// Close is a no-op; NDJSON has no trailer
func (w *NDJSONWriter) Close() error {
	return nil
}

// WriteSummary outputs the capture summary
func (w *NDJSONWriter) WriteSummary(summary *domain.CaptureSummary) error {
	summary.SchemaVersion = SchemaVersion
	return w.encoder.Encode(summary)
}

// WriteError outputs an error
func (w *NDJSONWriter) WriteError(code, message string, hint ...string) error {
	err := domain.NewErrorOutput(code, message)
	if len(hint) > 0 {
		err.Hint = hint[0]
	}
	err.SchemaVersion = SchemaVersion
	return w.encoder.Encode(err)
}

// WriteRaw outputs raw JSON data
func (w *NDJSONWriter) WriteRaw(v interface{}) error {
	return w.encoder.Encode(v)
}

// WriteInfo outputs an informational message
func (w *NDJSONWriter) WriteInfo(message, serial string) error {
	return w.encoder.Encode(&InfoOutput{
		Type:          "info",
		SchemaVersion: SchemaVersion,
		Message:       message,
		Serial:        serial,
	})
}

// WriteWarning outputs a warning
func (w *NDJSONWriter) WriteWarning(message string) error {
	return w.encoder.Encode(&WarningOutput{
		Type:          "warning",
		SchemaVersion: SchemaVersion,
		Message:       message,
	})
}

// WriteRotation outputs a file rotation event
func (w *NDJSONWriter) WriteRotation(path string, index int) error {
	return w.encoder.Encode(&RotationOutput{
		Type:          "rotation",
		SchemaVersion: SchemaVersion,
		Path:          path,
		Index:         index,
	})
}
