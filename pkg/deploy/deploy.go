package deploy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"results-tracker/trackerctl/pkg/config"
	"results-tracker/trackerctl/pkg/gitops"
	"results-tracker/trackerctl/pkg/remote"
	"results-tracker/trackerctl/pkg/telemetry/logging"
	"results-tracker/trackerctl/pkg/telemetry/metrics"
	"results-tracker/trackerctl/pkg/telemetry/tracing"
	"results-tracker/trackerctl/pkg/tracker"
)

// Releaser moves the stable branch, as gitops.Releaser does.
type Releaser interface {
	Release(ctx context.Context) (*gitops.ReleaseResult, error)
	Plan() (*gitops.ReleaseResult, error)
}

// Session is a remote shell that runs one command at a time.
type Session interface {
	Exec(ctx context.Context, cmd string) error
	Exit(ctx context.Context) error
	Close() error
}

// Dialer opens a remote shell whose output is copied to out.
type Dialer interface {
	OpenShell(ctx context.Context, out io.Writer) (Session, error)
}

// StatusChecker fetches the tracker's status page.
type StatusChecker interface {
	Status(ctx context.Context) (*tracker.Response, error)
}

// Commands returns the remote update sequence, without the final exit.
func Commands(cfg *config.DeployConfig) []string {
	return []string{
		"cd " + cfg.AppDir,
		"pwd",
		"git pull " + cfg.RepositoryURL,
		"git status",
		"npm install",
		"npm run build",
		cfg.RestartCommand,
	}
}

// Options selects which steps run.
type Options struct {
	// SkipRelease leaves the local branches alone.
	SkipRelease bool
}

// Result summarises a deploy.
type Result struct {
	Release *gitops.ReleaseResult
	Status  *tracker.Response
}

// Deployer runs release, remote update and status check in that order.
// Each step starts only after the previous one succeeded.
type Deployer struct {
	config   *config.DeployConfig
	releaser Releaser
	dialer   Dialer
	status   StatusChecker
	logger   *logging.Logger
	metrics  *metrics.Collector

	// sleep waits out the status delay; replaced in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewDeployer wires the three steps. releaser may be nil when every run
// skips the release. logger and collector may be nil.
func NewDeployer(cfg *config.DeployConfig, releaser Releaser, dialer Dialer, status StatusChecker, logger *logging.Logger, collector *metrics.Collector) *Deployer {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Deployer{
		config:   cfg,
		releaser: releaser,
		dialer:   dialer,
		status:   status,
		logger:   logger.With("component", "deploy"),
		metrics:  collector,
		sleep:    sleepContext,
	}
}

// Run performs the deploy, streaming remote output and the status reply
// to out.
func (d *Deployer) Run(ctx context.Context, opts Options, out io.Writer) (*Result, error) {
	result := &Result{}

	if !opts.SkipRelease {
		rel, err := d.release(ctx)
		result.Release = rel
		if err != nil {
			return result, err
		}
		printRelease(out, rel)
	}

	if err := d.update(ctx, out); err != nil {
		return result, err
	}

	resp, err := d.checkStatus(ctx)
	if err != nil {
		return result, err
	}
	resp.Print(out)
	result.Status = resp

	return result, nil
}

func (d *Deployer) release(ctx context.Context) (rel *gitops.ReleaseResult, err error) {
	ctx, span := tracing.Start(ctx, "deploy.release")
	defer func() { tracing.End(span, err) }()

	if d.releaser == nil {
		return nil, fmt.Errorf("release requested but no releaser configured")
	}
	rel, err = d.releaser.Release(ctx)
	if err != nil {
		return rel, fmt.Errorf("release failed: %w", err)
	}
	span.SetAttributes(
		tracing.AttrRelease.String(rel.MainSHA),
		tracing.AttrReleaseMoved.Bool(rel.Moved),
	)
	return rel, nil
}

// update runs the command sequence in one shell and waits for it to exit.
func (d *Deployer) update(ctx context.Context, out io.Writer) (err error) {
	ctx, span := tracing.Start(ctx, "deploy.update")
	defer func() { tracing.End(span, err) }()

	shell, err := d.dialer.OpenShell(ctx, out)
	if err != nil {
		return err
	}
	defer shell.Close()

	for _, cmd := range Commands(d.config) {
		fmt.Fprintf(out, "Running command: %s\n", cmd)

		if err := d.exec(ctx, shell, cmd); err != nil {
			d.logger.ErrorContext(ctx, "remote command failed", "command", cmd, "error", err)
			var failed *remote.CommandFailedError
			if errors.As(err, &failed) {
				// leave the shell the way an operator would
				if exitErr := shell.Exit(ctx); exitErr != nil {
					d.logger.DebugContext(ctx, "exit after failure", "error", exitErr)
				}
			}
			return err
		}
	}

	fmt.Fprintln(out, "Running command: exit")
	if err := shell.Exit(ctx); err != nil {
		return fmt.Errorf("remote shell did not exit cleanly: %w", err)
	}

	d.logger.InfoContext(ctx, "remote update finished")
	return nil
}

func (d *Deployer) exec(ctx context.Context, shell Session, cmd string) (err error) {
	ctx, span := tracing.Start(ctx, "deploy.remote_command", tracing.AttrRemoteCommand.String(cmd))
	defer func() { tracing.End(span, err) }()

	err = shell.Exec(ctx, cmd)
	d.metrics.RecordRemoteCommand(err == nil)

	var failed *remote.CommandFailedError
	if errors.As(err, &failed) {
		span.SetAttributes(tracing.AttrExitStatus.Int(failed.ExitStatus))
	}
	return err
}

// checkStatus waits out the configured delay and fetches the status page.
func (d *Deployer) checkStatus(ctx context.Context) (resp *tracker.Response, err error) {
	ctx, span := tracing.Start(ctx, "deploy.status_check")
	defer func() { tracing.End(span, err) }()

	if d.config.StatusDelay > 0 {
		d.logger.DebugContext(ctx, "waiting before status check", "delay", d.config.StatusDelay)
		if err := d.sleep(ctx, d.config.StatusDelay); err != nil {
			return nil, err
		}
	}

	resp, err = d.status.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("status check failed: %w", err)
	}
	return resp, nil
}

func printRelease(out io.Writer, rel *gitops.ReleaseResult) {
	switch {
	case rel.Moved:
		fmt.Fprintf(out, "Moved %s from %s to %s\n", rel.StableBranch, rel.StableSHA, rel.MainSHA)
	default:
		fmt.Fprintf(out, "%s already at %s\n", rel.StableBranch, rel.MainSHA)
	}
	if rel.Pushed {
		fmt.Fprintf(out, "Pushed %s to %s\n", rel.StableBranch, rel.Remote)
	} else {
		fmt.Fprintf(out, "%s is up to date on %s\n", rel.StableBranch, rel.Remote)
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
