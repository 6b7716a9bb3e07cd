package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "sizefs"

// Metrics instruments the filesystem. A nil *Metrics is valid and records
// nothing, so the filesystem can run without a registry.
type Metrics struct {
	Opens           *prometheus.CounterVec
	GeneratedBytes  *prometheus.CounterVec
	ResolveFailures *prometheus.CounterVec
	OpenHandles     prometheus.Gauge
	ReadDuration    prometheus.Histogram
}

// New creates and registers the filesystem metrics with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Opens: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "files",
			Name:      "opens_total",
			Help:      "Total virtual files opened, by pattern kind.",
		}, []string{"pattern"}),
		GeneratedBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "content",
			Name:      "generated_bytes_total",
			Help:      "Total bytes generated, by pattern kind.",
		}, []string{"pattern"}),
		ResolveFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "resolver",
			Name:      "failures_total",
			Help:      "Paths that could not be resolved, by error kind.",
		}, []string{"kind"}),
		OpenHandles: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "files",
			Name:      "open_handles",
			Help:      "Number of currently open file handles.",
		}),
		ReadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "content",
			Name:      "read_duration_seconds",
			Help:      "Duration of read operations on virtual files.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),
	}

	reg.MustRegister(
		m.Opens,
		m.GeneratedBytes,
		m.ResolveFailures,
		m.OpenHandles,
		m.ReadDuration,
	)

	return m
}

func (m *Metrics) FileOpened(pattern string) {
	if m == nil {
		return
	}
	m.Opens.WithLabelValues(pattern).Inc()
	m.OpenHandles.Inc()
}

func (m *Metrics) FileClosed() {
	if m == nil {
		return
	}
	m.OpenHandles.Dec()
}

// Generated records n bytes produced for pattern and the time it took.
func (m *Metrics) Generated(pattern string, n int, started time.Time) {
	if m == nil {
		return
	}
	if n > 0 {
		m.GeneratedBytes.WithLabelValues(pattern).Add(float64(n))
	}
	m.ReadDuration.Observe(time.Since(started).Seconds())
}

func (m *Metrics) ResolveFailed(kind string) {
	if m == nil {
		return
	}
	m.ResolveFailures.WithLabelValues(kind).Inc()
}
