package metrics

import (
	"time"

	"results-tracker/trackerctl/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// RunMetrics tracks tool invocations.
//
// Metrics:
//   - trackerctl_runs_total: invocations by tool and status
//   - trackerctl_run_duration_seconds: invocation wall time by tool
type RunMetrics struct {
	runsTotal   *prometheus.CounterVec
	runDuration *prometheus.HistogramVec
}

// NewRunMetrics creates and registers run metrics with the provided registry.
func NewRunMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *RunMetrics {
	rm := &RunMetrics{
		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "runs_total",
				Help:      "Total number of tool invocations",
			},
			[]string{"tool", "status"},
		),

		runDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "run_duration_seconds",
				Help:      "Duration of tool invocations in seconds",
				// deploys with npm install run for minutes
				Buckets: []float64{0.5, 1, 5, 15, 30, 60, 120, 300, 600},
			},
			[]string{"tool"},
		),
	}

	registry.MustRegister(rm.runsTotal, rm.runDuration)

	return rm
}

// RecordRun increments the run counter and observes the duration.
func (rm *RunMetrics) RecordRun(tool, status string, duration time.Duration) {
	rm.runsTotal.WithLabelValues(tool, status).Inc()
	rm.runDuration.WithLabelValues(tool).Observe(duration.Seconds())
}
