package output

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/vburojevic/rogcat/internal/domain"
)

// Filename formats for --filename-format
const (
	FilenameSingle    = "single"
	FilenameEnumerate = "enumerate"
	FilenameDate      = "date"
)

// FilenameFormats lists the accepted filename formats
var FilenameFormats = []string{FilenameSingle, FilenameEnumerate, FilenameDate}

// ErrFileExists is returned when an output file exists and overwriting is off
var ErrFileExists = errors.New("output file exists (use --overwrite)")

// ParseRecordsPerFile parses a count with an optional k, M or G suffix
func ParseRecordsPerFile(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("invalid records per file %q: %w", s, err)
	}
	if n == 0 {
		return 0, fmt.Errorf("invalid records per file %q: must be positive", s)
	}
	return n, nil
}

// RotationOptions configures file output
type RotationOptions struct {
	Path           string
	Format         string
	Writer         Options
	Overwrite      bool
	RecordsPerFile uint64 // 0 = unlimited
	FilenameFormat string
	Now            func() time.Time
	OnOpen         func(path string, index int) // called after each file is opened
}

// Rotation writes records to files, starting a new file every
// RecordsPerFile records.
type Rotation struct {
	opts RotationOptions

	index          int
	count          uint64
	path           string
	outputFile     *os.File
	bufferedWriter *bufio.Writer
	writer         Writer
}

// NewRotation validates opts; no file is created until the first record
func NewRotation(opts RotationOptions) (*Rotation, error) {
	if opts.Path == "" {
		return nil, errors.New("output path is empty")
	}
	switch opts.FilenameFormat {
	case "":
		opts.FilenameFormat = FilenameSingle
	case FilenameSingle, FilenameEnumerate, FilenameDate:
	default:
		return nil, fmt.Errorf("unsupported filename format: %s", opts.FilenameFormat)
	}
	// several files need distinct names
	if opts.FilenameFormat == FilenameSingle && opts.RecordsPerFile > 0 {
		opts.FilenameFormat = FilenameEnumerate
	}
	if opts.Format == "" {
		opts.Format = FormatRaw
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if _, err := New(opts.Format, nil, opts.Writer); err != nil {
		return nil, err
	}
	return &Rotation{opts: opts}, nil
}

// Write writes rec, opening or rotating the output file as needed
func (r *Rotation) Write(rec *domain.Record) error {
	if r.writer == nil || (r.opts.RecordsPerFile > 0 && r.count >= r.opts.RecordsPerFile) {
		if err := r.rotate(); err != nil {
			return err
		}
	}
	if err := r.writer.Write(rec); err != nil {
		return err
	}
	r.count++
	return nil
}

// Path returns the file currently written to
func (r *Rotation) Path() string {
	return r.path
}

// pathFor builds the file name for the index-th file (1-based)
func (r *Rotation) pathFor(index int) string {
	dir, name := filepath.Split(r.opts.Path)
	switch r.opts.FilenameFormat {
	case FilenameEnumerate:
		ext := filepath.Ext(name)
		base := strings.TrimSuffix(name, ext)
		return filepath.Join(dir, fmt.Sprintf("%s-%03d%s", base, index, ext))
	case FilenameDate:
		stamp := r.opts.Now().Format("2006-01-02-15-04-05.000")
		return filepath.Join(dir, stamp+"_"+name)
	default:
		return r.opts.Path
	}
}

func (r *Rotation) rotate() error {
	if err := r.closeCurrent(); err != nil {
		return err
	}
	r.index++
	r.count = 0
	path := r.pathFor(r.index)

	// Ensure directory exists
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if mkErr := os.MkdirAll(dir, 0o755); mkErr != nil {
			return fmt.Errorf("failed to create output dir: %w", mkErr)
		}
	}

	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if !r.opts.Overwrite {
		flags = os.O_CREATE | os.O_WRONLY | os.O_EXCL
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%s: %w", path, ErrFileExists)
		}
		return fmt.Errorf("failed to create output file: %w", err)
	}
	r.outputFile = f
	r.bufferedWriter = bufio.NewWriterSize(f, 64*1024)
	r.path = path
	r.writer, err = New(r.opts.Format, r.bufferedWriter, r.opts.Writer)
	if err != nil {
		return err
	}
	if r.opts.OnOpen != nil {
		r.opts.OnOpen(path, r.index)
	}
	return nil
}

func (r *Rotation) closeCurrent() error {
	if r.writer != nil {
		if err := r.writer.Close(); err != nil {
			return fmt.Errorf("failed to finish previous output: %w", err)
		}
		r.writer = nil
	}
	if r.bufferedWriter != nil {
		if err := r.bufferedWriter.Flush(); err != nil {
			return fmt.Errorf("failed to flush previous output: %w", err)
		}
		r.bufferedWriter = nil
	}
	if r.outputFile != nil {
		if err := r.outputFile.Close(); err != nil {
			return fmt.Errorf("failed to close previous output: %w", err)
		}
		r.outputFile = nil
	}
	return nil
}

// Flush pushes buffered records to the current file
func (r *Rotation) Flush() error {
	if r.bufferedWriter == nil {
		return nil
	}
	return r.bufferedWriter.Flush()
}

// Close finishes and closes the current file
func (r *Rotation) Close() error {
	return r.closeCurrent()
}
