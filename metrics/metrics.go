// Package metrics counts conversions with Prometheus collectors and exports
// them in the node exporter textfile format.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "respecthconv"

// Metrics holds the conversion collectors. A nil *Metrics records nothing.
type Metrics struct {
	registry    *prometheus.Registry
	conversions *prometheus.CounterVec
	failures    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	simulations prometheus.Counter
}

// New creates the collectors on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		conversions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "conversions_total",
			Help:      "ReSpecTh files processed, by experiment type and status.",
		}, []string{"experiment_type", "status"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "conversion_errors_total",
			Help:      "Failed conversions by error kind.",
		}, []string{"kind"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "conversion_duration_seconds",
			Help:      "Time spent converting one file.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}, []string{"experiment_type"}),
		simulations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "simulations_total",
			Help:      "Simulations described by the written dictionaries.",
		}),
	}
	m.registry.MustRegister(m.conversions, m.failures, m.duration, m.simulations)
	return m
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Converted records a successful conversion.
func (m *Metrics) Converted(experimentType string, simulations int, d time.Duration) {
	if m == nil {
		return
	}
	m.conversions.WithLabelValues(experimentType, "converted").Inc()
	m.duration.WithLabelValues(experimentType).Observe(d.Seconds())
	m.simulations.Add(float64(simulations))
}

// Failed records a failed conversion.
func (m *Metrics) Failed(experimentType, kind string, d time.Duration) {
	if m == nil {
		return
	}
	if experimentType == "" {
		experimentType = "unknown"
	}
	m.conversions.WithLabelValues(experimentType, "failed").Inc()
	m.failures.WithLabelValues(kind).Inc()
	m.duration.WithLabelValues(experimentType).Observe(d.Seconds())
}

// WriteTextfile writes the current values to path for the node exporter
// textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}
