// Package capture reads log lines from a source, filters them and writes
// the survivors.
package capture

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vburojevic/rogcat/internal/domain"
	"github.com/vburojevic/rogcat/internal/filter"
	"github.com/vburojevic/rogcat/internal/metrics"
	"github.com/vburojevic/rogcat/internal/output"
	"github.com/vburojevic/rogcat/internal/parser"
)

const (
	maxLineBytes = 1024 * 1024
	lineBuffer   = 1024

	minBackoff = time.Second
	maxBackoff = 30 * time.Second
)

// Options configures a capture
type Options struct {
	Source  Source
	Writer  output.Writer
	Filters *filter.Chain // nil keeps everything
	Head    int           // stop after this many written records, 0 = no limit
	Restart bool          // reopen the source whenever it ends

	Clock   clock.Clock
	Logger  *zap.Logger
	Metrics *metrics.Metrics
}

// Capture is one run of the pipeline
type Capture struct {
	opts    Options
	parser  *parser.Parser
	clock   clock.Clock
	logger  *zap.Logger
	summary *domain.CaptureSummary
}

// New creates a capture
func New(opts Options) *Capture {
	c := &Capture{
		opts:    opts,
		parser:  parser.NewParser(),
		clock:   opts.Clock,
		logger:  orNop(opts.Logger),
		summary: domain.NewCaptureSummary(),
	}
	if c.clock == nil {
		c.clock = clock.New()
	}
	if c.opts.Filters == nil {
		c.opts.Filters = filter.NewChain()
	}
	return c
}

// Run streams until the source is exhausted, --head is reached, ctx is
// cancelled or an error occurs. Cancellation is not an error.
func (c *Capture) Run(ctx context.Context) (*domain.CaptureSummary, error) {
	if c.opts.Source == nil || c.opts.Writer == nil {
		return nil, errors.New("capture needs a source and a writer")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	group, gctx := errgroup.WithContext(ctx)
	lines := make(chan string, lineBuffer)

	group.Go(func() error {
		defer close(lines)
		return c.read(gctx, lines)
	})
	group.Go(func() error {
		return c.process(gctx, lines, cancel)
	})

	err := group.Wait()
	return c.summary, err
}

// read opens the source, restarting it with backoff when asked to
func (c *Capture) read(ctx context.Context, lines chan<- string) error {
	backoff := minBackoff
	for {
		produced, err := c.readOnce(ctx, lines)
		if ctx.Err() != nil {
			return nil
		}
		if !c.opts.Restart {
			return err
		}

		if produced > 0 {
			backoff = minBackoff
		}
		fields := []zap.Field{zap.Stringer("source", c.opts.Source), zap.Duration("backoff", backoff)}
		if err != nil {
			fields = append(fields, zap.Error(err))
		}
		c.logger.Info("source ended, restarting", fields...)

		select {
		case <-ctx.Done():
			return nil
		case <-c.clock.After(backoff):
		}
		backoff = nextBackoff(backoff)
		c.summary.Restarts++
		c.opts.Metrics.SourceRestarted()
	}
}

func (c *Capture) readOnce(ctx context.Context, lines chan<- string) (int, error) {
	stream, err := c.opts.Source.Open(ctx)
	if err != nil {
		return 0, err
	}

	produced := 0
	scanner := bufio.NewScanner(stream)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		select {
		case lines <- scanner.Text():
			produced++
		case <-ctx.Done():
			_ = stream.Close()
			return produced, nil
		}
	}

	scanErr := scanner.Err()
	if errors.Is(scanErr, bufio.ErrTooLong) {
		scanErr = fmt.Errorf("log line too long (>%d bytes): %w", maxLineBytes, scanErr)
	}
	closeErr := stream.Close()
	if scanErr != nil {
		return produced, scanErr
	}
	if closeErr != nil {
		return produced, fmt.Errorf("%s: %w", c.opts.Source, closeErr)
	}
	return produced, nil
}

// process parses, filters and writes every line
func (c *Capture) process(ctx context.Context, lines <-chan string, stop context.CancelFunc) error {
	for {
		var line string
		var ok bool
		select {
		case <-ctx.Done():
			return nil
		case line, ok = <-lines:
			if !ok {
				return nil
			}
		}

		rec, _ := c.parser.Parse(line)
		c.summary.Total++
		c.opts.Metrics.RecordRead()

		if f := c.opts.Filters.Reject(&rec); f != nil {
			reason := skipReason(f)
			switch reason {
			case metrics.ReasonLevel:
				c.summary.SkippedLevel++
			case metrics.ReasonPid:
				c.summary.SkippedPid++
			}
			c.opts.Metrics.RecordSkipped(reason)
			continue
		}

		if err := c.opts.Writer.Write(&rec); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
		c.summary.Written++
		c.opts.Metrics.RecordWritten()

		if c.opts.Head > 0 && c.summary.Written >= c.opts.Head {
			c.logger.Debug("head reached", zap.Int("records", c.summary.Written))
			stop()
			return nil
		}
	}
}

func skipReason(f filter.Filter) string {
	switch f.(type) {
	case *filter.LevelFilter:
		return metrics.ReasonLevel
	case *filter.ProcessFilter:
		return metrics.ReasonPid
	default:
		return "other"
	}
}

func nextBackoff(d time.Duration) time.Duration {
	return min(d*2, maxBackoff)
}
