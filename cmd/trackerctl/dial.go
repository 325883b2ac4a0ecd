package main

import (
	"context"
	"io"

	"results-tracker/trackerctl/pkg/config"
	"results-tracker/trackerctl/pkg/deploy"
	"results-tracker/trackerctl/pkg/export"
	"results-tracker/trackerctl/pkg/remote"
	"results-tracker/trackerctl/pkg/telemetry/logging"
	"results-tracker/trackerctl/pkg/transfer"
)

// remoteRunner runs single commands on the application host.
type remoteRunner interface {
	Run(ctx context.Context, cmd string, out io.Writer) error
	Close() error
}

// Connection constructors, replaced in tests.
var (
	dialFTP = transfer.DialFTP

	dialRunner = func(ctx context.Context, cfg *config.SSHConfig, logger *logging.Logger) (remoteRunner, error) {
		client, err := remote.Dial(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		return client, nil
	}

	newShellDialer = func(cfg *config.SSHConfig, logger *logging.Logger) deploy.Dialer {
		return &deploy.SSHDialer{Config: cfg, Logger: logger}
	}

	openSource = func(ctx context.Context, cfg *config.ExportConfig) (export.Source, error) {
		source, err := export.NewFirestoreSource(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return source, nil
	}
)
