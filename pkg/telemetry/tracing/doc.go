// Package tracing provides OpenTelemetry tracing for trackerctl runs.
//
// Each invocation is one trace: a root span per tool run, with child spans
// for the release, every remote command, each file transfer, the Firestore
// export and each tracker HTTP call. Spans are exported over OTLP gRPC when
// telemetry.tracing is enabled and otherwise cost nothing.
//
// Requests to the tracker carry a W3C traceparent header so the server's
// own traces can be joined to the run that caused them.
//
//	tracer, err := tracing.New(ctx, &cfg.Telemetry.Tracing, version)
//	if err != nil {
//		return err
//	}
//	defer tracer.Shutdown(context.Background())
//
//	ctx, span := tracer.Start(ctx, "trackerctl deploy", tracing.AttrTool.String("deploy"))
//	err = run(ctx)
//	tracing.End(span, err)
package tracing
