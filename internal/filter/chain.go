package filter

import (
	"github.com/vburojevic/rogcat/internal/domain"
)

// Filter determines if a record should be included
type Filter interface {
	// Match returns true if the record passes the filter
	Match(rec *domain.Record) bool
}

// Chain combines multiple filters (all must pass)
type Chain struct {
	filters []Filter
}

// NewChain creates a filter chain from multiple filters
func NewChain(filters ...Filter) *Chain {
	return &Chain{filters: filters}
}

// Match returns true only if all filters pass
func (c *Chain) Match(rec *domain.Record) bool {
	return c.Reject(rec) == nil
}

// Reject returns the first filter that drops rec, or nil
func (c *Chain) Reject(rec *domain.Record) Filter {
	for _, f := range c.filters {
		if !f.Match(rec) {
			return f
		}
	}
	return nil
}

// Add appends a filter to the chain; nil filters are ignored
func (c *Chain) Add(f Filter) {
	if f == nil {
		return
	}
	c.filters = append(c.filters, f)
}

// Len returns the number of filters in the chain
func (c *Chain) Len() int {
	return len(c.filters)
}
