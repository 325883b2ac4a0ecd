package metrics

import (
	"fmt"
	"time"

	"results-tracker/trackerctl/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// Status label values for runs and remote commands.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Collector owns the registry and every metric trackerctl records during a
// single invocation. A nil *Collector is valid and records nothing, so
// components can take one unconditionally.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	runMetrics      *RunMetrics
	transferMetrics *TransferMetrics
	remoteMetrics   *RemoteMetrics
}

// NewCollector creates a collector registered on registry. If registry is
// nil a fresh one is created; the global default registry is never used.
//
// Example:
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	defer collector.WriteTextfile(cfg.Telemetry.Metrics.TextfilePath)
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}

	return &Collector{
		config:          cfg,
		registry:        registry,
		runMetrics:      NewRunMetrics(cfg, registry),
		transferMetrics: NewTransferMetrics(cfg, registry),
		remoteMetrics:   NewRemoteMetrics(cfg, registry),
	}
}

// RecordRun records the outcome of one tool invocation.
//
// Parameters:
//   - tool: tool name ("deploy", "logs", "tmp", "export", "request")
//   - err: the error the tool returned, nil on success
//   - duration: wall time of the tool
func (c *Collector) RecordRun(tool string, err error, duration time.Duration) {
	if c == nil {
		return
	}

	status := StatusSuccess
	if err != nil {
		status = StatusFailure
	}
	c.runMetrics.RecordRun(tool, status, duration)
}

// RecordDownload records one downloaded file of n bytes.
func (c *Collector) RecordDownload(n int64) {
	if c == nil {
		return
	}
	c.transferMetrics.RecordDownload(n)
}

// RecordDocuments records n exported documents.
func (c *Collector) RecordDocuments(n int) {
	if c == nil {
		return
	}
	c.transferMetrics.RecordDocuments(n)
}

// RecordRemoteCommand records one command run on the remote shell.
func (c *Collector) RecordRemoteCommand(ok bool) {
	if c == nil {
		return
	}
	status := StatusSuccess
	if !ok {
		status = StatusFailure
	}
	c.remoteMetrics.RecordCommand(status)
}

// RecordHTTPRequest records one request to the tracker. code is 0 when no
// response was received.
func (c *Collector) RecordHTTPRequest(method string, code int) {
	if c == nil {
		return
	}
	label := "error"
	if code > 0 {
		label = fmt.Sprintf("%d", code)
	}
	c.remoteMetrics.RecordHTTPRequest(method, label)
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}
