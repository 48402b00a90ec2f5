package output

import (
	"io"

	"github.com/vburojevic/rogcat/internal/domain"
)

// Emitter wraps NDJSONWriter with helpers that reuse one encoder.
type Emitter struct {
	w *NDJSONWriter
}

func NewEmitter(w io.Writer) *Emitter {
	return &Emitter{w: NewNDJSONWriter(w)}
}

func (e *Emitter) Write(rec *domain.Record) error               { return e.w.Write(rec) }
func (e *Emitter) Summary(s *domain.CaptureSummary) error       { return e.w.WriteSummary(s) }
func (e *Emitter) Error(code, msg string, hint ...string) error { return e.w.WriteError(code, msg, hint...) }
func (e *Emitter) Warning(msg string) error                     { return e.w.WriteWarning(msg) }
func (e *Emitter) Info(msg, serial string) error                { return e.w.WriteInfo(msg, serial) }
func (e *Emitter) Rotation(path string, index int) error        { return e.w.WriteRotation(path, index) }
func (e *Emitter) Raw(v interface{}) error                      { return e.w.WriteRaw(v) }
