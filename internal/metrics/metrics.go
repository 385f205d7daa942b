// Package metrics exposes simulation counters to Prometheus.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shivanshkc/soilstat/internal/logging"
)

// Metrics holds the simulation collectors on a private registry.
//
// All methods are safe on a nil *Metrics, which is how metrics are disabled.
type Metrics struct {
	registry *prometheus.Registry

	readings        prometheus.Counter
	decisions       *prometheus.CounterVec
	cycles          prometheus.Counter
	cycleSize       prometheus.Histogram
	reference       prometheus.Gauge
	logWriteFailure prometheus.Counter
}

// New creates and registers the collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		readings: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "soilstat_readings_total",
			Help: "Total soil readings ingested.",
		}),
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "soilstat_decisions_total",
			Help: "Irrigation decisions by outcome.",
		}, []string{"irrigate"}),
		cycles: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "soilstat_cycles_total",
			Help: "Processed reading cycles.",
		}),
		cycleSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "soilstat_cycle_samples",
			Help:    "Samples held by the store when a cycle is processed.",
			Buckets: prometheus.LinearBuckets(4, 4, 8),
		}),
		reference: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "soilstat_reference_temperature_celsius",
			Help: "Rolling reference temperature used by irrigation decisions.",
		}),
		logWriteFailure: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "soilstat_decision_log_failures_total",
			Help: "Decision records that could not be written.",
		}),
	}

	m.registry.MustRegister(
		m.readings,
		m.decisions,
		m.cycles,
		m.cycleSize,
		m.reference,
		m.logWriteFailure,
	)

	// Expose both label values from the start.
	m.decisions.WithLabelValues("true")
	m.decisions.WithLabelValues("false")

	return m
}

// Registry returns the registry holding every collector.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Reading records an ingested reading and its decision.
func (m *Metrics) Reading(irrigate bool) {
	if m == nil {
		return
	}
	m.readings.Inc()
	if irrigate {
		m.decisions.WithLabelValues("true").Inc()
	} else {
		m.decisions.WithLabelValues("false").Inc()
	}
}

// Cycle records a processed cycle.
func (m *Metrics) Cycle(samples int, reference float64) {
	if m == nil {
		return
	}
	m.cycles.Inc()
	m.cycleSize.Observe(float64(samples))
	m.reference.Set(reference)
}

// LogWriteFailed records a dropped decision record.
func (m *Metrics) LogWriteFailed() {
	if m == nil {
		return
	}
	m.logWriteFailure.Inc()
}

// Serve exposes the metrics on addr until ctx is done. It returns at once if
// addr cannot be bound.
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	log := logging.Component("metrics")

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	server := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	stop := context.AfterFunc(ctx, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	})
	defer stop()

	log.Info("serving metrics", "addr", listener.Addr().String())
	if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
