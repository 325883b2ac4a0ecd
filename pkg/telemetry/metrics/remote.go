package metrics

import (
	"results-tracker/trackerctl/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// RemoteMetrics tracks calls to the production host and the tracker.
//
// Metrics:
//   - trackerctl_remote_commands_total: shell commands by status
//   - trackerctl_http_requests_total: tracker requests by method and code
type RemoteMetrics struct {
	commandsTotal     *prometheus.CounterVec
	httpRequestsTotal *prometheus.CounterVec
}

// NewRemoteMetrics creates and registers remote metrics with the provided registry.
func NewRemoteMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *RemoteMetrics {
	rm := &RemoteMetrics{
		commandsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "remote_commands_total",
				Help:      "Total number of commands run on the remote shell",
			},
			[]string{"status"},
		),
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests sent to the tracker",
			},
			[]string{"method", "code"},
		),
	}

	registry.MustRegister(rm.commandsTotal, rm.httpRequestsTotal)

	return rm
}

// RecordCommand counts one remote command.
func (rm *RemoteMetrics) RecordCommand(status string) {
	rm.commandsTotal.WithLabelValues(status).Inc()
}

// RecordHTTPRequest counts one tracker request.
func (rm *RemoteMetrics) RecordHTTPRequest(method, code string) {
	rm.httpRequestsTotal.WithLabelValues(method, code).Inc()
}
