//go:build linux

package main

import (
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vuvietnguyenit/frame-inspect/frame"
)

const metricsNamespace = "frameinspect"

// Exporter collects walk and timing results for one run. Nothing is served;
// the registry is flushed to a node-exporter textfile at the end of the run.
type Exporter struct {
	reg *prometheus.Registry

	walks        prometheus.Counter
	frames       prometheus.Counter
	terminations *prometheus.CounterVec
	cycles       *prometheus.HistogramVec
}

func NewExporter(runID string) *Exporter {
	labels := prometheus.Labels{"run_id": runID}
	e := &Exporter{
		reg: prometheus.NewRegistry(),
		walks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   metricsNamespace,
			Name:        "walks_total",
			Help:        "The total number of frame chain walks.",
			ConstLabels: labels,
		}),
		frames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   metricsNamespace,
			Name:        "frames_total",
			Help:        "The total number of frame records produced by walks.",
			ConstLabels: labels,
		}),
		terminations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   metricsNamespace,
			Name:        "walk_terminations_total",
			Help:        "Frame chain walks by termination reason.",
			ConstLabels: labels,
		}, []string{"reason"}),
		cycles: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   metricsNamespace,
			Name:        "op_cycles",
			Help:        "Cycle counter ticks spent in one call of an operation.",
			ConstLabels: labels,
			Buckets:     prometheus.ExponentialBuckets(8, 2, 16),
		}, []string{"op"}),
	}
	e.reg.MustRegister(e.walks, e.frames, e.terminations, e.cycles)
	return e
}

func (e *Exporter) ObserveWalk(frames int, reason frame.StopReason) {
	e.walks.Inc()
	e.frames.Add(float64(frames))
	e.terminations.WithLabelValues(reason.String()).Inc()
}

func (e *Exporter) ObserveCycles(op string, samples []uint64) {
	h := e.cycles.WithLabelValues(op)
	for _, s := range samples {
		h.Observe(float64(s))
	}
}

func (e *Exporter) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, e.reg); err != nil {
		return fmt.Errorf("write metrics textfile %s: %w", path, err)
	}
	slog.Debug("Metrics written", "path", path)
	return nil
}
