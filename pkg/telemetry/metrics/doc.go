// Package metrics records what a trackerctl invocation did as Prometheus
// metrics.
//
// trackerctl is a short-lived process, so nothing is scraped. Each run
// registers its metrics on a private registry and, when a textfile path is
// configured, writes them out at exit for node_exporter's textfile collector.
//
// # Metrics
//
//   - trackerctl_runs_total{tool,status}
//   - trackerctl_run_duration_seconds{tool}
//   - trackerctl_files_downloaded_total
//   - trackerctl_bytes_downloaded_total
//   - trackerctl_documents_exported_total
//   - trackerctl_remote_commands_total{status}
//   - trackerctl_http_requests_total{method,code}
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	start := time.Now()
//	err := run()
//	collector.RecordRun("deploy", err, time.Since(start))
//	_ = collector.WriteTextfile(cfg.Telemetry.Metrics.TextfilePath)
package metrics
