// Package metrics records the outcome of the last gate run as Prometheus
// gauges, for export through a node-exporter textfile collector.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Run describes one finished gate run.
type Run struct {
	Engine   string         // engine that produced the outcome, empty when no scan ran
	Signal   string         // scan signal, empty when no scan ran
	Status   int            // process exit status
	Blocked  bool           // commit rejected
	Rules    map[string]int // findings per rule
	Files    int            // files handed to the engine
	Duration time.Duration
}

// Recorder holds the last-run gauges on a private registry. A nil Recorder
// records nothing.
type Recorder struct {
	reg *prometheus.Registry

	timestamp prometheus.Gauge
	duration  prometheus.Gauge
	status    prometheus.Gauge
	blocked   prometheus.Gauge
	files     prometheus.Gauge
	findings  *prometheus.GaugeVec
	outcome   *prometheus.GaugeVec
}

// NewRecorder creates a Recorder. Metric names are prefixed with
// "leakgate_last_run_".
//
// Metrics:
//   - leakgate_last_run_timestamp_seconds - Unix time the run finished
//   - leakgate_last_run_duration_seconds - Wall time of the run
//   - leakgate_last_run_status - Exit status (0 allowed, 1 blocked, 2 unavailable, 3 error)
//   - leakgate_last_run_blocked - 1 when the commit was rejected
//   - leakgate_last_run_files - Files handed to the engine
//   - leakgate_last_run_findings{rule} - Findings per rule
//   - leakgate_last_run_outcome{engine,signal} - Always 1, labels the outcome
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Recorder{
		reg: reg,
		timestamp: f.NewGauge(prometheus.GaugeOpts{
			Name: "leakgate_last_run_timestamp_seconds",
			Help: "Unix time the last gate run finished",
		}),
		duration: f.NewGauge(prometheus.GaugeOpts{
			Name: "leakgate_last_run_duration_seconds",
			Help: "Wall time of the last gate run",
		}),
		status: f.NewGauge(prometheus.GaugeOpts{
			Name: "leakgate_last_run_status",
			Help: "Exit status of the last gate run",
		}),
		blocked: f.NewGauge(prometheus.GaugeOpts{
			Name: "leakgate_last_run_blocked",
			Help: "Whether the last gate run rejected the commit",
		}),
		files: f.NewGauge(prometheus.GaugeOpts{
			Name: "leakgate_last_run_files",
			Help: "Files handed to the engine in the last gate run",
		}),
		findings: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "leakgate_last_run_findings",
			Help: "Findings per rule in the last gate run",
		}, []string{"rule"}),
		outcome: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "leakgate_last_run_outcome",
			Help: "Engine and scan signal of the last gate run",
		}, []string{"engine", "signal"}),
	}
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.reg
}

// Observe replaces the recorded values with run.
func (r *Recorder) Observe(run Run) {
	if r == nil {
		return
	}
	r.timestamp.Set(float64(time.Now().Unix()))
	r.duration.Set(run.Duration.Seconds())
	r.status.Set(float64(run.Status))
	r.files.Set(float64(run.Files))
	if run.Blocked {
		r.blocked.Set(1)
	} else {
		r.blocked.Set(0)
	}

	r.findings.Reset()
	for rule, n := range run.Rules {
		r.findings.WithLabelValues(rule).Set(float64(n))
	}
	r.outcome.Reset()
	if run.Engine != "" || run.Signal != "" {
		r.outcome.WithLabelValues(run.Engine, run.Signal).Set(1)
	}
}

// WriteTextfile writes the recorded metrics atomically to path in the text
// exposition format. An empty path is a no-op.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, r.reg); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
