// Package metrics instruments the pipeline run. The process is batch-style,
// so instead of serving /metrics it writes a Prometheus textfile that a
// node_exporter textfile collector (or the CI job log) can pick up.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// Run collects per-stage timings and output counts for one pipeline run.
type Run struct {
	registry *prometheus.Registry

	stageDuration *prometheus.GaugeVec
	stageFailed   *prometheus.GaugeVec
	outputEntries *prometheus.GaugeVec
	outputBytes   *prometheus.GaugeVec
	completedAt   prometheus.Gauge
	succeeded     prometheus.Gauge
}

// NewRun registers the pipeline collectors on a fresh registry.
func NewRun() *Run {
	registry := prometheus.NewRegistry()

	stageDuration := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "listatv_stage_duration_seconds",
		Help: "Wall time spent in each pipeline stage",
	}, []string{"stage"})

	stageFailed := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "listatv_stage_failed",
		Help: "1 when the stage ended with an error",
	}, []string{"stage"})

	outputEntries := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "listatv_output_entries",
		Help: "Entries written per output artifact",
	}, []string{"file"})

	outputBytes := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "listatv_output_bytes",
		Help: "Size in bytes per output artifact",
	}, []string{"file"})

	completedAt := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "listatv_last_run_timestamp_seconds",
		Help: "Unix time the pipeline run finished",
	})

	succeeded := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "listatv_last_run_success",
		Help: "1 when the last run completed without a fatal error",
	})

	registry.MustRegister(stageDuration, stageFailed, outputEntries, outputBytes, completedAt, succeeded)

	return &Run{
		registry:      registry,
		stageDuration: stageDuration,
		stageFailed:   stageFailed,
		outputEntries: outputEntries,
		outputBytes:   outputBytes,
		completedAt:   completedAt,
		succeeded:     succeeded,
	}
}

// ObserveStage records the outcome of one pipeline stage. All methods are
// nil-safe so callers can keep a nil *Run when metrics are disabled.
func (r *Run) ObserveStage(stage string, d time.Duration, err error) {
	if r == nil {
		return
	}
	r.stageDuration.WithLabelValues(stage).Set(d.Seconds())
	failed := 0.0
	if err != nil {
		failed = 1
	}
	r.stageFailed.WithLabelValues(stage).Set(failed)
}

// Stage runs fn under a timer and records its result.
func (r *Run) Stage(stage string, fn func() error) error {
	start := time.Now()
	err := fn()
	r.ObserveStage(stage, time.Since(start), err)
	return err
}

// RecordOutput notes the size of one written artifact.
func (r *Run) RecordOutput(file string, entries int, size int) {
	if r == nil {
		return
	}
	r.outputEntries.WithLabelValues(file).Set(float64(entries))
	r.outputBytes.WithLabelValues(file).Set(float64(size))
}

// Finish stamps the run outcome.
func (r *Run) Finish(ok bool) {
	if r == nil {
		return
	}
	r.completedAt.SetToCurrentTime()
	if ok {
		r.succeeded.Set(1)
	} else {
		r.succeeded.Set(0)
	}
}

// WriteFile renders the registry in the Prometheus text exposition format.
// The write goes through a temp file so the collector never reads a torn file.
func (r *Run) WriteFile(path string) error {
	if r == nil || path == "" {
		return nil
	}
	families, err := r.registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create metrics file: %w", err)
	}
	defer os.Remove(tmp.Name())

	enc := expfmt.NewEncoder(tmp, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			tmp.Close()
			return fmt.Errorf("encode metrics: %w", err)
		}
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close metrics file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("publish metrics file: %w", err)
	}
	return nil
}
