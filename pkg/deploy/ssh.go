package deploy

import (
	"context"
	"io"

	"results-tracker/trackerctl/pkg/config"
	"results-tracker/trackerctl/pkg/remote"
	"results-tracker/trackerctl/pkg/telemetry/logging"
)

// SSHDialer opens shells over a fresh SSH connection.
type SSHDialer struct {
	Config *config.SSHConfig
	Logger *logging.Logger
}

// OpenShell dials the host and starts an interactive shell. Closing the
// session also closes the connection.
func (d *SSHDialer) OpenShell(ctx context.Context, out io.Writer) (Session, error) {
	client, err := remote.Dial(ctx, d.Config, d.Logger)
	if err != nil {
		return nil, err
	}

	shell, err := client.Shell(ctx, out)
	if err != nil {
		client.Close()
		return nil, err
	}

	return &sshSession{Shell: shell, client: client}, nil
}

type sshSession struct {
	*remote.Shell
	client *remote.Client
}

func (s *sshSession) Close() error {
	err := s.Shell.Close()
	if cerr := s.client.Close(); err == nil {
		err = cerr
	}
	return err
}
