// Package telemetry groups trackerctl's diagnostics.
//
// # Components
//
//   - logging: structured slog logging on stderr with secret redaction
//   - metrics: per-run Prometheus metrics, optionally written to a textfile
//   - tracing: OpenTelemetry spans per run, exported over OTLP when enabled
//
// Operator-facing output (remote shell lines, status bodies, download
// progress) is not telemetry and goes to stdout through the commands.
package telemetry
