package filter

import (
	"github.com/vburojevic/rogcat/internal/domain"
)

// Skipper decides per PID whether a record is dropped
type Skipper interface {
	ShouldSkip(pidText string) bool
}

// ProcessFilter keeps records whose PID belongs to a watched package
type ProcessFilter struct {
	skipper Skipper
}

// NewProcessFilter wraps a PID skipper, usually a *process.Filter
func NewProcessFilter(s Skipper) *ProcessFilter {
	return &ProcessFilter{skipper: s}
}

// Match returns true unless the skipper drops the record's PID
func (f *ProcessFilter) Match(rec *domain.Record) bool {
	if f.skipper == nil {
		return true
	}
	return !f.skipper.ShouldSkip(rec.Process)
}
