package output

import (
	"encoding/csv"
	"html/template"
	"io"
	"strings"

	"github.com/vburojevic/rogcat/internal/domain"
)

// HumanWriter writes aligned plain text
type HumanWriter struct {
	w    io.Writer
	opts Options
}

// NewHumanWriter creates a new human readable writer
func NewHumanWriter(w io.Writer, opts Options) *HumanWriter {
	return &HumanWriter{w: w, opts: opts}
}

const tagWidth = 20

// Write outputs one record as a line of text
func (w *HumanWriter) Write(rec *domain.Record) error {
	if w.opts.MessageOnly {
		_, err := io.WriteString(w.w, rec.Message+"\n")
		return err
	}
	if rec.Process == "" && rec.Tag == "" {
		_, err := io.WriteString(w.w, rec.Message+"\n")
		return err
	}

	var b strings.Builder
	if !w.opts.HideTimestamp && rec.Timestamp != "" {
		b.WriteString(w.timestamp(rec.Timestamp))
		b.WriteByte(' ')
	}
	b.WriteString(padTag(rec.Tag))
	b.WriteByte(' ')
	b.WriteString(padLeft(rec.Process, 5))
	b.WriteByte(' ')
	b.WriteString(padLeft(rec.Thread, 5))
	b.WriteByte(' ')
	b.WriteString(rec.Level.Letter())
	b.WriteByte(' ')
	b.WriteString(rec.Message)
	b.WriteByte('\n')

	_, err := io.WriteString(w.w, b.String())
	return err
}

// Close is a no-op
func (w *HumanWriter) Close() error {
	return nil
}

// timestamp drops the date part unless ShowDate is set
func (w *HumanWriter) timestamp(ts string) string {
	if w.opts.ShowDate {
		return ts
	}
	if i := strings.LastIndexByte(ts, ' '); i >= 0 {
		return ts[i+1:]
	}
	return ts
}

func padTag(tag string) string {
	if len(tag) > tagWidth {
		return tag[:tagWidth-1] + "…"
	}
	return tag + strings.Repeat(" ", tagWidth-len(tag))
}

func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}

// RawWriter writes records exactly as they were read
type RawWriter struct {
	w io.Writer
}

// NewRawWriter creates a new raw writer
func NewRawWriter(w io.Writer) *RawWriter {
	return &RawWriter{w: w}
}

func (w *RawWriter) Write(rec *domain.Record) error {
	line := rec.Raw
	if line == "" {
		line = rec.Message
	}
	_, err := io.WriteString(w.w, line+"\n")
	return err
}

func (w *RawWriter) Close() error {
	return nil
}

// CSVWriter writes one CSV row per record
type CSVWriter struct {
	w *csv.Writer
}

// NewCSVWriter creates a new CSV writer
func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{w: csv.NewWriter(w)}
}

func (w *CSVWriter) Write(rec *domain.Record) error {
	if err := w.w.Write([]string{
		rec.Timestamp,
		rec.Level.Letter(),
		rec.Tag,
		rec.Process,
		rec.Thread,
		rec.Message,
	}); err != nil {
		return err
	}
	w.w.Flush()
	return w.w.Error()
}

func (w *CSVWriter) Close() error {
	w.w.Flush()
	return w.w.Error()
}

var (
	htmlHeader = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>rogcat</title></head>
<body>
<table>
<tr><th>Time</th><th>Level</th><th>Tag</th><th>Process</th><th>Thread</th><th>Message</th></tr>
`
	htmlFooter = "</table>\n</body>\n</html>\n"
	htmlRow    = template.Must(template.New("row").Parse(
		`<tr class="{{.Level}}"><td>{{.Timestamp}}</td><td>{{.Letter}}</td><td>{{.Tag}}</td><td>{{.Process}}</td><td>{{.Thread}}</td><td>{{.Message}}</td></tr>` + "\n"))
)

// HTMLWriter writes records as rows of a single HTML table
type HTMLWriter struct {
	w       io.Writer
	started bool
}

// NewHTMLWriter creates a new HTML writer
func NewHTMLWriter(w io.Writer) *HTMLWriter {
	return &HTMLWriter{w: w}
}

func (w *HTMLWriter) start() error {
	if w.started {
		return nil
	}
	w.started = true
	_, err := io.WriteString(w.w, htmlHeader)
	return err
}

func (w *HTMLWriter) Write(rec *domain.Record) error {
	if err := w.start(); err != nil {
		return err
	}
	return htmlRow.Execute(w.w, struct {
		*domain.Record
		Letter string
	}{rec, rec.Level.Letter()})
}

// Close writes the document footer
func (w *HTMLWriter) Close() error {
	if err := w.start(); err != nil {
		return err
	}
	_, err := io.WriteString(w.w, htmlFooter)
	return err
}
