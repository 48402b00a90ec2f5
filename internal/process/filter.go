// Package process decides whether a log record comes from one of a set of
// watched Android packages.
//
// The package PIDs are cached for TTL and refreshed lazily by the call that
// finds the cache stale. There is no background goroutine: a refresh blocks
// the caller for one device query at most once per TTL window.
package process

import (
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/vburojevic/rogcat/internal/domain"
	"github.com/vburojevic/rogcat/internal/metrics"
)

// TTL is how long a resolved PID set is trusted
const TTL = 2 * time.Second

// Resolver maps package names to the PIDs of their running processes
type Resolver interface {
	ResolvePids(packages []string) (domain.PidSet, error)
}

// ResolverFunc adapts a function to Resolver
type ResolverFunc func(packages []string) (domain.PidSet, error)

func (f ResolverFunc) ResolvePids(packages []string) (domain.PidSet, error) {
	return f(packages)
}

// Filter caches the PIDs of the watched packages.
// It is not safe for concurrent use.
type Filter struct {
	packages []string
	resolver Resolver
	clock    clock.Clock
	logger   *zap.Logger
	metrics  *metrics.Metrics

	valid      domain.PidSet
	lastUpdate time.Time
	refreshed  bool // false until the first successful refresh
}

// Option configures a Filter
type Option func(*Filter)

// WithClock replaces the wall clock, mainly for tests
func WithClock(c clock.Clock) Option {
	return func(f *Filter) { f.clock = c }
}

// WithLogger sets the diagnostics logger
func WithLogger(l *zap.Logger) Option {
	return func(f *Filter) {
		if l != nil {
			f.logger = l
		}
	}
}

// WithMetrics counts refresh attempts into m
func WithMetrics(m *metrics.Metrics) Option {
	return func(f *Filter) { f.metrics = m }
}

// NewFilter creates a filter for packages. The first decision that sees a
// valid PID always queries resolver.
func NewFilter(packages []string, resolver Resolver, opts ...Option) *Filter {
	f := &Filter{
		packages: append([]string(nil), packages...),
		resolver: resolver,
		clock:    clock.New(),
		logger:   zap.NewNop(),
		valid:    domain.NewPidSet(),
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

// Packages returns the watched package names
func (f *Filter) Packages() []string {
	return append([]string(nil), f.packages...)
}

// Snapshot returns the cached PIDs in ascending order
func (f *Filter) Snapshot() []uint32 {
	return f.valid.Sorted()
}

// LastUpdate returns the time of the last successful refresh; ok is false
// before the first one
func (f *Filter) LastUpdate() (t time.Time, ok bool) {
	return f.lastUpdate, f.refreshed
}

// ShouldSkip reports whether a record with the given PID text should be
// dropped. Records are kept when no packages are watched or the PID is
// missing or malformed.
func (f *Filter) ShouldSkip(pidText string) bool {
	if len(f.packages) == 0 || pidText == "" {
		return false
	}
	pid, ok := domain.ParsePid(pidText)
	if !ok {
		return false
	}

	if f.stale() {
		f.refresh()
	}

	return !f.valid.Contains(pid)
}

func (f *Filter) stale() bool {
	if !f.refreshed {
		return true
	}
	return f.clock.Since(f.lastUpdate) > TTL
}

// refresh replaces the cache on success and leaves it untouched on failure
func (f *Filter) refresh() {
	now := f.clock.Now()
	pids, err := f.resolver.ResolvePids(f.packages)
	if err != nil {
		f.logger.Debug("pid refresh failed, keeping cached pids",
			zap.Strings("packages", f.packages),
			zap.Int("cached", len(f.valid)),
			zap.Error(err))
		f.metrics.PidRefresh(false, 0)
		return
	}
	if pids == nil {
		pids = domain.NewPidSet()
	}

	f.valid = pids
	f.lastUpdate = now
	f.refreshed = true
	f.metrics.PidRefresh(true, len(pids))
	f.logger.Debug("pid refresh",
		zap.Strings("packages", f.packages),
		zap.Uint32s("pids", pids.Sorted()))
}
