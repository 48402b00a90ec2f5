package capture

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vburojevic/rogcat/internal/domain"
	"github.com/vburojevic/rogcat/internal/filter"
	"github.com/vburojevic/rogcat/internal/metrics"
	"github.com/vburojevic/rogcat/internal/output"
)

const sampleLog = `01-02 10:00:00.000   100   100 I Boot: starting
01-02 10:00:00.100   200   201 D App: hello from app
01-02 10:00:00.200   200   202 V App: verbose detail
01-02 10:00:00.300   300   300 E Other: unrelated failure
01-02 10:00:00.400   200   201 E App: app failure
`

type pidSkipper map[string]bool

func (p pidSkipper) ShouldSkip(pid string) bool { return !p[pid] }

// countingSource yields a new body on every Open
type countingSource struct {
	opens  atomic.Int32
	body   func(n int) string
	opened chan int
}

func (s *countingSource) String() string { return "counting" }

func (s *countingSource) Open(context.Context) (io.ReadCloser, error) {
	n := int(s.opens.Add(1))
	if s.opened != nil {
		s.opened <- n
	}
	return io.NopCloser(strings.NewReader(s.body(n))), nil
}

type failingWriter struct{}

func (failingWriter) Write(*domain.Record) error { return errors.New("disk full") }
func (failingWriter) Close() error               { return nil }

func rawCapture(src Source, buf *bytes.Buffer, opts Options) *Capture {
	opts.Source = src
	opts.Writer = output.NewRawWriter(buf)
	return New(opts)
}

func TestRun_FiltersAndCounts(t *testing.T) {
	var buf bytes.Buffer
	chain := filter.NewChain(
		filter.NewLevelFilter(domain.LevelDebug),
		filter.NewProcessFilter(pidSkipper{"200": true}),
	)
	m := metrics.New()

	c := rawCapture(NewReaderSource(strings.NewReader(sampleLog), "stdin"), &buf, Options{
		Filters: chain,
		Metrics: m,
	})
	summary, err := c.Run(context.Background())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "hello from app")
	assert.Contains(t, lines[1], "app failure")

	assert.Equal(t, 5, summary.Total)
	assert.Equal(t, 2, summary.Written)
	assert.Equal(t, 1, summary.SkippedLevel)
	assert.Equal(t, 2, summary.SkippedPid)
	assert.Zero(t, summary.Restarts)
}

func TestRun_NoFiltersKeepsEverything(t *testing.T) {
	var buf bytes.Buffer
	c := rawCapture(NewReaderSource(strings.NewReader("not logcat\n"+sampleLog), "stdin"), &buf, Options{})

	summary, err := c.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 6, summary.Written)
	assert.True(t, strings.HasPrefix(buf.String(), "not logcat\n"))
}

func TestRun_Head(t *testing.T) {
	var buf bytes.Buffer
	c := rawCapture(NewReaderSource(strings.NewReader(sampleLog), "stdin"), &buf, Options{Head: 2})

	summary, err := c.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Written)
	assert.Equal(t, 2, strings.Count(buf.String(), "\n"))
}

func TestRun_WriterErrorStops(t *testing.T) {
	c := New(Options{
		Source: NewReaderSource(strings.NewReader(sampleLog), "stdin"),
		Writer: failingWriter{},
	})

	_, err := c.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestRun_RequiresSourceAndWriter(t *testing.T) {
	_, err := New(Options{}).Run(context.Background())
	assert.Error(t, err)
}

func TestRun_LineTooLong(t *testing.T) {
	var buf bytes.Buffer
	long := strings.Repeat("x", maxLineBytes+1) + "\n"
	c := rawCapture(NewReaderSource(strings.NewReader(long), "stdin"), &buf, Options{})

	_, err := c.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too long")
}

func TestRun_FileSourceInOrder(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.log")
	b := filepath.Join(dir, "b.log")
	require.NoError(t, os.WriteFile(a, []byte("first\nsecond\n"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("third\n"), 0o644))

	var buf bytes.Buffer
	summary, err := rawCapture(NewFileSource(a, b), &buf, Options{}).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond\nthird\n", buf.String())
	assert.Equal(t, 3, summary.Written)
}

func TestRun_FileSourceMissing(t *testing.T) {
	var buf bytes.Buffer
	_, err := rawCapture(NewFileSource(filepath.Join(t.TempDir(), "nope.log")), &buf, Options{}).Run(context.Background())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRun_RestartsSource(t *testing.T) {
	mock := clock.NewMock()
	src := &countingSource{body: func(n int) string { return fmt.Sprintf("line %d\n", n) }}
	var buf bytes.Buffer
	m := metrics.New()
	c := rawCapture(src, &buf, Options{Head: 3, Restart: true, Clock: mock, Metrics: m})

	done := make(chan struct{})
	go func() {
		defer close(done)
		summary, err := c.Run(context.Background())
		assert.NoError(t, err)
		assert.GreaterOrEqual(t, summary.Restarts, 2)
	}()

	advanceUntil(t, mock, done, time.Second)

	assert.Equal(t, "line 1\nline 2\nline 3\n", buf.String())
	assert.GreaterOrEqual(t, int(src.opens.Load()), 3)
}

func TestRun_BackoffDoublesWhileSourceIsSilent(t *testing.T) {
	mock := clock.NewMock()
	src := &countingSource{body: func(int) string { return "" }, opened: make(chan int, 8)}
	var buf bytes.Buffer
	c := rawCapture(src, &buf, Options{Restart: true, Clock: mock})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := c.Run(ctx)
		assert.NoError(t, err)
	}()

	<-src.opened
	start := mock.Now()
	for i := 0; i < 3; i++ {
		waitOpen(t, mock, src.opened)
	}
	// 1s + 2s + 4s
	assert.GreaterOrEqual(t, mock.Now().Sub(start), 7*time.Second)

	cancel()
	<-done
	assert.Empty(t, buf.String())
}

func TestRun_NoRestartReturnsSourceError(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "fails.sh")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\necho partial\nexit 3\n"), 0o755))
	src, err := NewCommandSource(script, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	summary, err := rawCapture(src, &buf, Options{}).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exit status 3")
	assert.Equal(t, 1, summary.Written)
}

func TestNextBackoff(t *testing.T) {
	tests := []struct {
		in, want time.Duration
	}{
		{time.Second, 2 * time.Second},
		{8 * time.Second, 16 * time.Second},
		{16 * time.Second, 30 * time.Second},
		{30 * time.Second, 30 * time.Second},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, nextBackoff(tt.in), "from %s", tt.in)
	}
}

// advanceUntil moves the mock clock forward until done is closed
func advanceUntil(t *testing.T, mock *clock.Mock, done <-chan struct{}, step time.Duration) {
	t.Helper()
	deadline := time.After(10 * time.Second)
	for {
		select {
		case <-done:
			return
		case <-deadline:
			t.Fatal("capture did not finish")
		default:
			mock.Add(step)
		}
	}
}

// waitOpen moves the mock clock in small steps until the source reopens
func waitOpen(t *testing.T, mock *clock.Mock, opened <-chan int) {
	t.Helper()
	deadline := time.After(10 * time.Second)
	for {
		select {
		case <-opened:
			return
		case <-deadline:
			t.Fatal("source was not reopened")
		default:
			mock.Add(100 * time.Millisecond)
		}
	}
}

type notifyWriter struct {
	first chan struct{}
	n     int
}

func (w *notifyWriter) Write(*domain.Record) error {
	w.n++
	if w.n == 1 {
		close(w.first)
	}
	return nil
}

func (w *notifyWriter) Close() error { return nil }

type closeTracker struct {
	io.Reader
	closed bool
}

func (c *closeTracker) Close() error {
	c.closed = true
	return nil
}
