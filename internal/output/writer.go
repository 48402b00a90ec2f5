package output

import (
	"fmt"
	"io"

	"github.com/vburojevic/rogcat/internal/domain"
)

// Output formats
const (
	FormatHuman = "human"
	FormatRaw   = "raw"
	FormatCSV   = "csv"
	FormatJSON  = "json"
	FormatHTML  = "html"
)

// Formats lists every supported format
var Formats = []string{FormatCSV, FormatHTML, FormatHuman, FormatJSON, FormatRaw}

// Writer writes records in one format
type Writer interface {
	Write(rec *domain.Record) error
	// Close writes any trailer; it does not close the underlying io.Writer
	Close() error
}

// Options tunes the human format
type Options struct {
	HideTimestamp bool
	ShowDate      bool
	MessageOnly   bool
}

// New creates a writer for format
func New(format string, w io.Writer, opts Options) (Writer, error) {
	switch format {
	case FormatHuman, "":
		return NewHumanWriter(w, opts), nil
	case FormatRaw:
		return NewRawWriter(w), nil
	case FormatCSV:
		return NewCSVWriter(w), nil
	case FormatJSON:
		return NewNDJSONWriter(w), nil
	case FormatHTML:
		return NewHTMLWriter(w), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}
