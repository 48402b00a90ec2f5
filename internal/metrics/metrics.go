// Package metrics counts what the capture pipeline reads, writes and drops.
// Counters live in a private registry and are written out as a Prometheus
// textfile; nothing is served over the network.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Skip reasons
const (
	ReasonLevel = "level"
	ReasonPid   = "pid"
)

// Metrics holds the capture counters. A nil *Metrics discards everything.
type Metrics struct {
	registry *prometheus.Registry
	records  prometheus.Counter
	written  prometheus.Counter
	skipped  *prometheus.CounterVec
	refresh  *prometheus.CounterVec
	pidSet   prometheus.Gauge
	restarts prometheus.Counter
}

// New creates and registers the counters
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		records: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rogcat_records_total",
			Help: "Records read from the log source.",
		}),
		written: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rogcat_records_written_total",
			Help: "Records written to the output.",
		}),
		skipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rogcat_records_skipped_total",
			Help: "Records dropped by a filter.",
		}, []string{"reason"}),
		refresh: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rogcat_pid_refresh_total",
			Help: "Package PID refresh attempts.",
		}, []string{"result"}),
		pidSet: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "rogcat_pid_set_size",
			Help: "PIDs currently matching the watched packages.",
		}),
		restarts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rogcat_source_restarts_total",
			Help: "Times the log source was restarted.",
		}),
	}
	m.registry.MustRegister(m.records, m.written, m.skipped, m.refresh, m.pidSet, m.restarts)
	return m
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) RecordRead() {
	if m != nil {
		m.records.Inc()
	}
}

func (m *Metrics) RecordWritten() {
	if m != nil {
		m.written.Inc()
	}
}

func (m *Metrics) RecordSkipped(reason string) {
	if m != nil {
		m.skipped.WithLabelValues(reason).Inc()
	}
}

// PidRefresh counts a refresh attempt; size is only recorded on success
func (m *Metrics) PidRefresh(ok bool, size int) {
	if m == nil {
		return
	}
	if !ok {
		m.refresh.WithLabelValues("error").Inc()
		return
	}
	m.refresh.WithLabelValues("ok").Inc()
	m.pidSet.Set(float64(size))
}

func (m *Metrics) SourceRestarted() {
	if m != nil {
		m.restarts.Inc()
	}
}

// WriteTextfile writes all metrics in the Prometheus text format
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}
