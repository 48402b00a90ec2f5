package capture

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/google/shlex"
	"go.uber.org/zap"

	"github.com/vburojevic/rogcat/internal/adb"
)

// Source produces log lines. Each Open starts a fresh stream; closing the
// stream releases whatever backs it and reports how it ended.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
	String() string
}

// CommandSource runs an external command and reads its stdout
type CommandSource struct {
	name   string
	build  func(ctx context.Context) (*exec.Cmd, error)
	logger *zap.Logger
}

// NewCommandSource splits command with shell quoting rules
func NewCommandSource(command string, logger *zap.Logger) (*CommandSource, error) {
	argv, err := shlex.Split(command)
	if err != nil {
		return nil, fmt.Errorf("invalid command %q: %w", command, err)
	}
	if len(argv) == 0 {
		return nil, errors.New("empty command")
	}
	return &CommandSource{
		name: strings.Join(argv, " "),
		build: func(ctx context.Context) (*exec.Cmd, error) {
			return exec.CommandContext(ctx, argv[0], argv[1:]...), nil
		},
		logger: orNop(logger),
	}, nil
}

// NewAdbSource streams `adb logcat` through client
func NewAdbSource(client *adb.Client, opts adb.LogcatOptions, logger *zap.Logger) *CommandSource {
	return &CommandSource{
		name: "adb " + strings.Join(adb.LogcatArgs(opts), " "),
		build: func(ctx context.Context) (*exec.Cmd, error) {
			return client.Logcat(ctx, opts)
		},
		logger: orNop(logger),
	}
}

func (s *CommandSource) String() string { return s.name }

// Open starts the command
func (s *CommandSource) Open(ctx context.Context) (io.ReadCloser, error) {
	cmd, err := s.build(ctx)
	if err != nil {
		return nil, err
	}
	cmd.Stderr = &stderrLogger{logger: s.logger.With(zap.String("source", s.name))}
	cmd.WaitDelay = time.Second

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", s.name, err)
	}
	s.logger.Debug("source started", zap.String("source", s.name), zap.Int("pid", cmd.Process.Pid))
	return &cmdStream{cmd: cmd, stdout: stdout, ctx: ctx}, nil
}

type cmdStream struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser
	ctx    context.Context
	eof    bool
}

func (s *cmdStream) Read(p []byte) (int, error) {
	n, err := s.stdout.Read(p)
	if err == io.EOF {
		s.eof = true
	}
	return n, err
}

// Close waits for the command. A stream abandoned before EOF kills it first.
func (s *cmdStream) Close() error {
	if !s.eof && s.cmd.Process != nil {
		_ = s.cmd.Process.Kill()
	}
	err := s.cmd.Wait()
	if s.ctx.Err() != nil {
		return nil
	}
	if !s.eof && err != nil {
		// killed by us
		return nil
	}
	return err
}

// stderrLogger forwards child stderr lines at debug level
type stderrLogger struct {
	logger *zap.Logger
	buf    bytes.Buffer
}

func (w *stderrLogger) Write(p []byte) (int, error) {
	w.buf.Write(p)
	for {
		line, err := w.buf.ReadString('\n')
		if err != nil {
			// keep the partial line for the next write
			w.buf.Reset()
			w.buf.WriteString(line)
			return len(p), nil
		}
		if line = strings.TrimSpace(line); line != "" {
			w.logger.Debug("stderr", zap.String("line", line))
		}
	}
}

// ReaderSource reads an already open stream such as stdin. It is never
// closed by the capture.
type ReaderSource struct {
	r    io.Reader
	name string
}

func NewReaderSource(r io.Reader, name string) *ReaderSource {
	return &ReaderSource{r: r, name: name}
}

func (s *ReaderSource) String() string { return s.name }

func (s *ReaderSource) Open(context.Context) (io.ReadCloser, error) {
	return io.NopCloser(s.r), nil
}

// FileSource reads files one after the other
type FileSource struct {
	paths []string
}

func NewFileSource(paths ...string) *FileSource {
	return &FileSource{paths: paths}
}

func (s *FileSource) String() string { return strings.Join(s.paths, ", ") }

// Open opens every file up front so a missing one fails before any output
func (s *FileSource) Open(context.Context) (io.ReadCloser, error) {
	files := make([]*os.File, 0, len(s.paths))
	readers := make([]io.Reader, 0, len(s.paths))
	for _, p := range s.paths {
		f, err := os.Open(p)
		if err != nil {
			for _, o := range files {
				_ = o.Close()
			}
			return nil, err
		}
		files = append(files, f)
		readers = append(readers, f)
	}
	return &multiFile{Reader: io.MultiReader(readers...), files: files}, nil
}

type multiFile struct {
	io.Reader
	files []*os.File
}

func (m *multiFile) Close() error {
	var errs []error
	for _, f := range m.files {
		if err := f.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func orNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
