package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Job outcome label values.
const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// Failure stage label values.
const (
	StageName   = "name"
	StageRead   = "read"
	StageRender = "render"
	StageWrite  = "write"
)

// Manager owns the Prometheus collectors for a plotting run.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         *prometheus.Registry

	jobsDiscovered  prometheus.Gauge
	jobsTotal       *prometheus.CounterVec
	jobFailures     *prometheus.CounterVec
	pointsPlotted   prometheus.Counter
	bytesWritten    prometheus.Counter
	renderLatency   prometheus.Histogram
	runDuration     prometheus.Gauge
	lastRunUnixTime prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton used by the package-level helpers

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager()
}

// NewManager creates a metrics manager on its own registry unless one is supplied.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "threadplot",
		subsystem:        "plot",
		histogramBuckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		constLabels:      map[string]string{},
	}

	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.jobsDiscovered = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "jobs_discovered",
		Help:        "Number of job identifiers found in the results directory",
		ConstLabels: m.constLabels,
	})

	m.jobsTotal = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "jobs_total",
		Help:        "Plot jobs by outcome",
		ConstLabels: m.constLabels,
	}, []string{"status"})

	m.jobFailures = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "job_failures_total",
		Help:        "Failed plot jobs by the stage that failed",
		ConstLabels: m.constLabels,
	}, []string{"stage"})

	m.pointsPlotted = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "points_plotted_total",
		Help:        "Data points drawn across all charts",
		ConstLabels: m.constLabels,
	})

	m.bytesWritten = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "output_bytes_total",
		Help:        "Bytes of PDF output written",
		ConstLabels: m.constLabels,
	})

	m.renderLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "render_duration_milliseconds",
		Help:        "Time to build and encode one chart",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	})

	m.runDuration = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "run_duration_seconds",
		Help:        "Wall time of the last run",
		ConstLabels: m.constLabels,
	})

	m.lastRunUnixTime = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "last_run_timestamp_seconds",
		Help:        "Unix time the last run finished",
		ConstLabels: m.constLabels,
	})
}

// Registry returns the registry this manager's collectors live on.
func (m *Manager) Registry() *prometheus.Registry { return m.registry }

// SetJobsDiscovered records how many jobs a run will process.
func (m *Manager) SetJobsDiscovered(n int) { m.jobsDiscovered.Set(float64(n)) }

// RecordJobSucceeded counts a finished job and the points it drew.
func (m *Manager) RecordJobSucceeded(points int, bytes int) {
	m.jobsTotal.WithLabelValues(StatusSucceeded).Inc()
	m.pointsPlotted.Add(float64(points))
	m.bytesWritten.Add(float64(bytes))
}

// RecordJobFailed counts a failed job against the stage that failed.
func (m *Manager) RecordJobFailed(stage string) {
	m.jobsTotal.WithLabelValues(StatusFailed).Inc()
	m.jobFailures.WithLabelValues(stage).Inc()
}

// RecordRenderLatency observes one chart's render time.
func (m *Manager) RecordRenderLatency(d time.Duration) {
	m.renderLatency.Observe(float64(d) / float64(time.Millisecond))
}

// RecordRunFinished stamps the run duration and completion time.
func (m *Manager) RecordRunFinished(d time.Duration, at time.Time) {
	m.runDuration.Set(d.Seconds())
	m.lastRunUnixTime.Set(float64(at.Unix()))
}

// WriteTextfile writes all gathered metrics to path in the text exposition
// format read by the node_exporter textfile collector.
func (m *Manager) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrExport, path, err)
	}
	return nil
}

// Default returns the process-wide manager.
func Default() *Manager { return globalManager }

// WriteTextfile exports the global manager's metrics.
func WriteTextfile(path string) error { return globalManager.WriteTextfile(path) }
