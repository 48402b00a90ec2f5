package domain

import (
	"sort"
	"strconv"
	"strings"
)

// PidSet is a set of process identifiers
type PidSet map[uint32]struct{}

// NewPidSet creates a set holding pids
func NewPidSet(pids ...uint32) PidSet {
	s := make(PidSet, len(pids))
	for _, p := range pids {
		s[p] = struct{}{}
	}
	return s
}

// Add inserts pid into the set
func (s PidSet) Add(pid uint32) {
	s[pid] = struct{}{}
}

// Contains reports whether pid is in the set
func (s PidSet) Contains(pid uint32) bool {
	_, ok := s[pid]
	return ok
}

// Sorted returns the members in ascending order
func (s PidSet) Sorted() []uint32 {
	out := make([]uint32, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ParsePid parses a base-10 PID; one leading '+' is accepted
func ParsePid(text string) (uint32, bool) {
	pid, err := strconv.ParseUint(strings.TrimPrefix(text, "+"), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint32(pid), true
}
