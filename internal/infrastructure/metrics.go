package infrastructure

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "bundesrat"

// RunMetrics collects the metrics of one pipeline run. A batch job has no
// scrape endpoint, so they are written to a node-exporter textfile instead.
type RunMetrics struct {
	registry *prometheus.Registry

	MembersLoaded  prometheus.Gauge
	MembersActive  prometheus.Gauge
	TablesExported *prometheus.CounterVec
	StepDuration   *prometheus.GaugeVec
	StepFailures   *prometheus.CounterVec
	LastSuccess    prometheus.Gauge
}

// NewRunMetrics creates and registers all run metrics on a private registry
func NewRunMetrics() *RunMetrics {
	m := &RunMetrics{
		registry: prometheus.NewRegistry(),
		MembersLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "members_loaded",
			Help:      "Number of council members in the joined table",
		}),
		MembersActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "members_active",
			Help:      "Number of council members without a retirement date",
		}),
		TablesExported: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "tables_exported_total",
			Help:      "Number of table files written, by format",
		}, []string{"format"}),
		StepDuration: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "step_duration_seconds",
			Help:      "Duration of the last execution of each pipeline step",
		}, []string{"step"}),
		StepFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "step_failures_total",
			Help:      "Number of failed pipeline steps",
		}, []string{"step"}),
		LastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful run",
		}),
	}

	m.registry.MustRegister(
		m.MembersLoaded,
		m.MembersActive,
		m.TablesExported,
		m.StepDuration,
		m.StepFailures,
		m.LastSuccess,
	)
	return m
}

// ObserveStep records the outcome of one pipeline step
func (m *RunMetrics) ObserveStep(step string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.StepDuration.WithLabelValues(step).Set(d.Seconds())
	if err != nil {
		m.StepFailures.WithLabelValues(step).Inc()
	}
}

// TableExported counts one written table file
func (m *RunMetrics) TableExported(format string) {
	if m == nil {
		return
	}
	m.TablesExported.WithLabelValues(format).Inc()
}

// MarkSuccess stamps the completion time of a successful run
func (m *RunMetrics) MarkSuccess(now time.Time) {
	if m == nil {
		return
	}
	m.LastSuccess.Set(float64(now.Unix()))
}

// Registry exposes the underlying registry, mainly for tests
func (m *RunMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes all metrics in text exposition format. An empty path
// disables the output.
func (m *RunMetrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
