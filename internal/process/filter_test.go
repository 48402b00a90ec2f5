package process

import (
	"errors"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vburojevic/rogcat/internal/domain"
)

// fakeResolver replays scripted results and counts calls
type fakeResolver struct {
	calls   int
	results []domain.PidSet
	errs    []error
	seen    [][]string
}

func (r *fakeResolver) ResolvePids(packages []string) (domain.PidSet, error) {
	i := r.calls
	r.calls++
	r.seen = append(r.seen, packages)
	if i < len(r.errs) && r.errs[i] != nil {
		return nil, r.errs[i]
	}
	if i < len(r.results) {
		return r.results[i], nil
	}
	return domain.NewPidSet(), nil
}

func newTestFilter(packages []string, r Resolver) (*Filter, *clock.Mock) {
	mock := clock.NewMock()
	mock.Set(time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC))
	return NewFilter(packages, r, WithClock(mock)), mock
}

func TestShouldSkip_NoPackages(t *testing.T) {
	r := &fakeResolver{}
	f, mock := newTestFilter(nil, r)

	for _, in := range []string{"", "1", "42", "abc", "-1", "99999999999"} {
		assert.False(t, f.ShouldSkip(in), "input %q", in)
	}
	mock.Add(10 * TTL)
	assert.False(t, f.ShouldSkip("42"))
	assert.Equal(t, 0, r.calls)
}

func TestShouldSkip_UnparseablePid(t *testing.T) {
	r := &fakeResolver{results: []domain.PidSet{domain.NewPidSet(1)}}
	f, _ := newTestFilter([]string{"com.example.app"}, r)

	tests := []struct {
		name string
		pid  string
	}{
		{"empty", ""},
		{"letters", "abc"},
		{"negative", "-5"},
		{"overflow", "4294967296"},
		{"padded", " 42"},
		{"hex", "0x2a"},
		{"plus only", "+"},
		{"double plus", "++42"},
		{"minus zero", "-0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, f.ShouldSkip(tt.pid))
		})
	}
	assert.Equal(t, 0, r.calls, "malformed pids must not trigger a refresh")
}

func TestShouldSkip_FirstCallRefreshes(t *testing.T) {
	r := &fakeResolver{results: []domain.PidSet{domain.NewPidSet(42)}}
	f, _ := newTestFilter([]string{"com.example.app"}, r)

	_, ok := f.LastUpdate()
	require.False(t, ok)

	assert.False(t, f.ShouldSkip("42"))
	assert.Equal(t, 1, r.calls)
	assert.Equal(t, []string{"com.example.app"}, r.seen[0])

	_, ok = f.LastUpdate()
	assert.True(t, ok)
}

func TestShouldSkip_FreshWithinTTL(t *testing.T) {
	r := &fakeResolver{results: []domain.PidSet{domain.NewPidSet(42)}}
	f, mock := newTestFilter([]string{"com.example.app"}, r)

	f.ShouldSkip("42")
	for i := 0; i < 100; i++ {
		f.ShouldSkip("42")
		f.ShouldSkip("7")
	}
	mock.Add(TTL)
	f.ShouldSkip("42")
	assert.Equal(t, 1, r.calls, "age equal to TTL is still fresh")
}

func TestShouldSkip_RefreshAfterTTL(t *testing.T) {
	r := &fakeResolver{results: []domain.PidSet{domain.NewPidSet(42), domain.NewPidSet(7)}}
	f, mock := newTestFilter([]string{"com.example.app"}, r)

	f.ShouldSkip("42")
	mock.Add(TTL + time.Millisecond)
	f.ShouldSkip("42")
	assert.Equal(t, 2, r.calls)

	f.ShouldSkip("42")
	assert.Equal(t, 2, r.calls)
}

func TestShouldSkip_RoundTrip(t *testing.T) {
	r := &fakeResolver{results: []domain.PidSet{domain.NewPidSet(100, 200, 300)}}
	f, _ := newTestFilter([]string{"com.example.app"}, r)

	assert.False(t, f.ShouldSkip("200"))
	assert.True(t, f.ShouldSkip("999"))
	assert.Equal(t, []uint32{100, 200, 300}, f.Snapshot())
}

func TestShouldSkip_PackageRestartScenario(t *testing.T) {
	r := &fakeResolver{results: []domain.PidSet{domain.NewPidSet(42), domain.NewPidSet(7)}}
	f, mock := newTestFilter([]string{"com.example.app"}, r)

	assert.False(t, f.ShouldSkip("42"))
	assert.True(t, f.ShouldSkip("7"))

	mock.Add(3 * time.Second)

	assert.True(t, f.ShouldSkip("42"))
	assert.False(t, f.ShouldSkip("7"))
	assert.Equal(t, 2, r.calls)
}

func TestShouldSkip_EmptyRefreshReplacesSet(t *testing.T) {
	r := &fakeResolver{results: []domain.PidSet{domain.NewPidSet(42), domain.NewPidSet()}}
	f, mock := newTestFilter([]string{"com.example.app"}, r)

	assert.False(t, f.ShouldSkip("42"))
	mock.Add(TTL + time.Second)
	assert.True(t, f.ShouldSkip("42"))
	assert.Empty(t, f.Snapshot())
}

func TestShouldSkip_FailedRefreshKeepsCache(t *testing.T) {
	errAdb := errors.New("adb gone")
	r := &fakeResolver{
		results: []domain.PidSet{domain.NewPidSet(42), nil, domain.NewPidSet(7)},
		errs:    []error{nil, errAdb, nil},
	}
	f, mock := newTestFilter([]string{"com.example.app"}, r)

	assert.False(t, f.ShouldSkip("42"))
	before, _ := f.LastUpdate()

	mock.Add(TTL + time.Second)
	assert.False(t, f.ShouldSkip("42"), "stale set is used when the refresh fails")
	assert.Equal(t, 2, r.calls)

	after, ok := f.LastUpdate()
	require.True(t, ok)
	assert.Equal(t, before, after)
	assert.Equal(t, []uint32{42}, f.Snapshot())

	// lastUpdate was not moved, so the next call retries immediately
	assert.False(t, f.ShouldSkip("7"))
	assert.Equal(t, 3, r.calls)
	assert.Equal(t, []uint32{7}, f.Snapshot())
	assert.True(t, f.ShouldSkip("42"))
	assert.Equal(t, 3, r.calls)
}

func TestShouldSkip_FirstRefreshFails(t *testing.T) {
	r := &fakeResolver{errs: []error{errors.New("no adb")}}
	f, _ := newTestFilter([]string{"com.example.app"}, r)

	assert.True(t, f.ShouldSkip("42"), "nothing cached yet, so nothing matches")
	_, ok := f.LastUpdate()
	assert.False(t, ok)

	f.ShouldSkip("42")
	assert.Equal(t, 2, r.calls)
}

func TestShouldSkip_NilSetFromResolver(t *testing.T) {
	f, _ := newTestFilter([]string{"a"}, ResolverFunc(func([]string) (domain.PidSet, error) {
		return nil, nil
	}))
	assert.True(t, f.ShouldSkip("1"))
	assert.Empty(t, f.Snapshot())
}

func TestNewFilter_CopiesPackages(t *testing.T) {
	pkgs := []string{"a", "b"}
	f := NewFilter(pkgs, &fakeResolver{})
	pkgs[0] = "changed"
	assert.Equal(t, []string{"a", "b"}, f.Packages())
}

func BenchmarkShouldSkip_Fresh(b *testing.B) {
	f, _ := newTestFilter([]string{"com.example.app"}, &fakeResolver{
		results: []domain.PidSet{domain.NewPidSet(100, 200, 300)},
	})
	f.ShouldSkip("100")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		f.ShouldSkip("200")
	}
}

func TestShouldSkip_LeadingPlus(t *testing.T) {
	r := &fakeResolver{results: []domain.PidSet{domain.NewPidSet(42)}}
	f, _ := newTestFilter([]string{"com.example.app"}, r)

	assert.False(t, f.ShouldSkip("+42"))
	assert.True(t, f.ShouldSkip("+7"))
	assert.Equal(t, 1, r.calls)
}
