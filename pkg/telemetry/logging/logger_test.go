package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"results-tracker/trackerctl/pkg/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name:   "valid JSON config",
			config: Config{Level: "info", Format: "json", RedactSecrets: true},
		},
		{
			name:   "valid text config",
			config: Config{Level: "debug", Format: "text"},
		},
		{
			name:   "empty values use defaults",
			config: Config{},
		},
		{
			name:    "invalid log level",
			config:  Config{Level: "invalid", Format: "json"},
			wantErr: true,
		},
		{
			name:    "invalid format",
			config:  Config{Level: "info", Format: "invalid"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.config.Writer = &buf

			logger, err := New(tt.config)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && logger == nil {
				t.Error("New() returned nil logger")
			}
		})
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Level: "warn", Format: "text", Writer: &buf})
	if err != nil {
		t.Fatal(err)
	}

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	out := buf.String()
	if strings.Contains(out, "debug message") || strings.Contains(out, "info message") {
		t.Errorf("messages below warn should be dropped, got %q", out)
	}
	if !strings.Contains(out, "warn message") || !strings.Contains(out, "error message") {
		t.Errorf("expected warn and error messages, got %q", out)
	}
	if logger.Level() != slog.LevelWarn {
		t.Errorf("Level() = %v, want %v", logger.Level(), slog.LevelWarn)
	}
}

func TestLogger_JSONRedaction(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Level: "info", Format: "json", RedactSecrets: true, Writer: &buf})
	if err != nil {
		t.Fatal(err)
	}

	logger.Info("connecting", "host", "app.example.com", "password", "hunter2")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, buf.String())
	}
	if entry["host"] != "app.example.com" {
		t.Errorf("host = %v, want app.example.com", entry["host"])
	}
	if entry["password"] != "***" {
		t.Errorf("password = %v, want ***", entry["password"])
	}
}

func TestLogger_NoRedactionWhenDisabled(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Level: "info", Format: "text", Writer: &buf})
	if err != nil {
		t.Fatal(err)
	}

	logger.Info("connecting", "password", "hunter2")
	if !strings.Contains(buf.String(), "hunter2") {
		t.Errorf("expected raw value with redaction disabled, got %q", buf.String())
	}
}

func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Level: "info", Format: "text", RedactSecrets: true, Writer: &buf})
	if err != nil {
		t.Fatal(err)
	}

	child := logger.With("component", "remote", "token", "abc123")
	child.Info("ready")

	out := buf.String()
	if !strings.Contains(out, "component=remote") {
		t.Errorf("expected component field, got %q", out)
	}
	if strings.Contains(out, "abc123") {
		t.Errorf("token leaked through With(): %q", out)
	}
}

func TestLogger_ContextFields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Level: "info", Format: "text", Writer: &buf})
	if err != nil {
		t.Fatal(err)
	}

	ctx := WithRunID(context.Background(), "run-1")
	ctx = WithTool(ctx, "deploy")
	logger.InfoContext(ctx, "started")

	out := buf.String()
	if !strings.Contains(out, "run_id=run-1") || !strings.Contains(out, "tool=deploy") {
		t.Errorf("expected context fields, got %q", out)
	}

	buf.Reset()
	logger.WithContext(ctx).Warn("again")
	if !strings.Contains(buf.String(), "run_id=run-1") {
		t.Errorf("WithContext() lost run_id: %q", buf.String())
	}
}

func TestConfigFrom(t *testing.T) {
	var buf bytes.Buffer
	cfg := ConfigFrom(config.LoggingConfig{Level: "debug", Format: "json", RedactSecrets: true}, &buf)

	if cfg.Level != "debug" || cfg.Format != "json" || !cfg.RedactSecrets {
		t.Errorf("ConfigFrom() = %+v", cfg)
	}
	if cfg.Writer != &buf {
		t.Error("ConfigFrom() did not keep the writer")
	}
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	logger.Error("dropped", "password", "x")
	logger.With("k", "v").InfoContext(WithRunID(context.Background(), "r"), "dropped")
}
