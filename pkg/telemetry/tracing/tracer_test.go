package tracing

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"results-tracker/trackerctl/pkg/config"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func testConfig() *config.TracingConfig {
	return &config.TracingConfig{
		Sampler:     SamplerAlways,
		SampleRatio: 1.0,
		ServiceName: "trackerctl-test",
		Timeout:     time.Second,
	}
}

func newRecordingTracer(t *testing.T) (*Tracer, *tracetest.InMemoryExporter) {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tracer, err := NewWithExporter(context.Background(), testConfig(), "test", exporter)
	if err != nil {
		t.Fatalf("NewWithExporter() error = %v", err)
	}
	t.Cleanup(func() { _ = tracer.Shutdown(context.Background()) })
	return tracer, exporter
}

func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		config      *config.TracingConfig
		wantErr     bool
		wantEnabled bool
	}{
		{name: "nil config", config: nil, wantErr: true},
		{name: "disabled", config: testConfig()},
		{
			name: "enabled with insecure endpoint",
			config: &config.TracingConfig{
				Enabled:     true,
				Endpoint:    "localhost:4317",
				Insecure:    true,
				Timeout:     time.Second,
				Sampler:     SamplerRatio,
				SampleRatio: 0.5,
				ServiceName: "trackerctl-test",
			},
			wantEnabled: true,
		},
		{
			name: "enabled with unknown sampler",
			config: &config.TracingConfig{
				Enabled:  true,
				Endpoint: "localhost:4317",
				Insecure: true,
				Sampler:  "sometimes",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracer, err := New(context.Background(), tt.config, "test")
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			defer tracer.Shutdown(context.Background())

			if tracer.Enabled() != tt.wantEnabled {
				t.Errorf("Enabled() = %v, want %v", tracer.Enabled(), tt.wantEnabled)
			}
		})
	}
}

func TestTracer_DisabledSpansAreNoop(t *testing.T) {
	tracer, err := New(context.Background(), testConfig(), "test")
	if err != nil {
		t.Fatal(err)
	}

	ctx, span := tracer.Start(context.Background(), "noop")
	defer span.End()

	if span.IsRecording() {
		t.Error("disabled tracer should not record spans")
	}
	if TraceID(ctx) != "" {
		t.Errorf("TraceID() = %q, want empty", TraceID(ctx))
	}
	if err := tracer.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() on disabled tracer error = %v", err)
	}
}

func TestTracer_StartRecordsChildSpans(t *testing.T) {
	tracer, exporter := newRecordingTracer(t)

	ctx, root := tracer.Start(context.Background(), "trackerctl deploy", AttrTool.String("deploy"))
	_, child := Start(ctx, "deploy.remote_command", AttrRemoteCommand.String("pwd"))
	End(child, nil)
	End(root, nil)

	spans := exporter.GetSpans()
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(spans))
	}

	gotChild, gotRoot := spans[0], spans[1]
	if gotChild.Name != "deploy.remote_command" || gotRoot.Name != "trackerctl deploy" {
		t.Fatalf("span names = %q, %q", gotChild.Name, gotRoot.Name)
	}
	if gotChild.Parent.SpanID() != gotRoot.SpanContext.SpanID() {
		t.Error("remote command span should be a child of the run span")
	}
	if gotChild.SpanContext.TraceID() != gotRoot.SpanContext.TraceID() {
		t.Error("spans should share a trace ID")
	}

	var found bool
	for _, kv := range gotRoot.Attributes {
		if kv.Key == AttrTool && kv.Value.AsString() == "deploy" {
			found = true
		}
	}
	if !found {
		t.Errorf("root span attributes %v missing tool", gotRoot.Attributes)
	}
	if gotRoot.Status.Code != codes.Ok {
		t.Errorf("root status = %v, want Ok", gotRoot.Status.Code)
	}
}

func TestEnd_RecordsError(t *testing.T) {
	tracer, exporter := newRecordingTracer(t)

	_, span := tracer.Start(context.Background(), "transfer.download")
	End(span, errors.New("550 file unavailable"))

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	got := spans[0]
	if got.Status.Code != codes.Error || got.Status.Description != "550 file unavailable" {
		t.Errorf("status = %+v", got.Status)
	}
	if len(got.Events) != 1 || got.Events[0].Name != "exception" {
		t.Errorf("expected one exception event, got %+v", got.Events)
	}
}

func TestTraceID(t *testing.T) {
	if TraceID(context.Background()) != "" {
		t.Fatal("empty context should have no trace ID")
	}

	tracer, _ := newRecordingTracer(t)
	ctx, span := tracer.Start(context.Background(), "ids")
	defer span.End()

	if got := TraceID(ctx); len(got) != 32 {
		t.Errorf("TraceID() = %q, want 32 hex chars", got)
	}
}

func TestInject(t *testing.T) {
	tracer, _ := newRecordingTracer(t)
	ctx, span := tracer.Start(context.Background(), "tracker.request")
	defer span.End()

	headers := http.Header{}
	Inject(ctx, headers)

	sc := span.SpanContext()
	want := "00-" + sc.TraceID().String() + "-" + sc.SpanID().String() + "-01"
	if got := headers.Get("traceparent"); got != want {
		t.Errorf("traceparent = %q, want %q", got, want)
	}
}

func TestInject_NoSpan(t *testing.T) {
	headers := http.Header{}
	Inject(context.Background(), headers)
	if got := headers.Get("traceparent"); got != "" {
		t.Errorf("traceparent = %q, want none", got)
	}
}
