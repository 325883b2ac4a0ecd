package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"results-tracker/trackerctl/pkg/cli"
	"results-tracker/trackerctl/pkg/config"
	"results-tracker/trackerctl/pkg/logfetch"
	"results-tracker/trackerctl/pkg/telemetry/logging"
	"results-tracker/trackerctl/pkg/telemetry/metrics"
	"results-tracker/trackerctl/pkg/telemetry/tracing"
)

var (
	// Global flags
	cfgFile     string
	envFile     string
	verbose     bool
	logFormat   string
	metricsFile string
)

var rootCmd = &cobra.Command{
	Use:   "trackerctl",
	Short: "Operator tools for the results tracker",
	Long: `trackerctl deploys the results tracker and fetches data from its host.

Tools:
  - deploy:  fast-forward stable to main, update and restart the host, check status
  - logs:    download the node or passenger log over FTP
  - tmp:     download every file in the remote temp directory
  - export:  write a Firestore collection to a JSON file
  - request: send a POST to a tracker endpoint

Settings are read from environment variables, then a .env file and an
optional trackerctl.yaml. Variables already in the environment win.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits with the matching status.
func Execute() {
	ctx, cancel := cli.SetupSignalHandler(context.Background())
	err := rootCmd.ExecuteContext(ctx)
	cancel()

	if err != nil {
		printError(os.Stdout, os.Stderr, err)
	}
	os.Exit(cli.ExitCode(err))
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default "+config.DefaultConfigPath+" when present)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file path (default "+config.DefaultEnvFile+" when present)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose diagnostics on stderr")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "diagnostic log format: text, json")
	rootCmd.PersistentFlags().StringVar(&metricsFile, "metrics-file", "", "write run metrics to this file in Prometheus text format")
}

// printError reports a failed run. Usage problems are printed as the bare
// message on stdout; everything else goes to stderr.
func printError(stdout, stderr io.Writer, err error) {
	if cli.IsUsage(err) || errors.Is(err, logfetch.ErrInvalidKind) {
		fmt.Fprintln(stdout, usageMessage(err))
		return
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
}

func usageMessage(err error) string {
	if errors.Is(err, logfetch.ErrInvalidKind) {
		return logfetch.ErrInvalidKind.Error()
	}
	var usage *cli.UsageError
	if errors.As(err, &usage) {
		return usage.Message
	}
	return err.Error()
}

// env is what every tool receives once configuration has been loaded.
type env struct {
	ctx     context.Context
	cfg     *config.Config
	logger  *logging.Logger
	metrics *metrics.Collector
	tracer  *tracing.Tracer
	in      io.Reader
	out     io.Writer
	errOut  io.Writer
}

// loadConfig builds the configuration from the global flags. An explicit
// --config or --env-file must exist.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(config.LoadOptions{
		ConfigPath:      cfgFile,
		ConfigRequired:  cfgFile != "",
		EnvFile:         envFile,
		EnvFileRequired: envFile != "",
	})
	if err != nil {
		return nil, err
	}

	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}
	if logFormat != "" {
		cfg.Telemetry.Logging.Format = logFormat
	}
	if metricsFile != "" {
		cfg.Telemetry.Metrics.TextfilePath = metricsFile
	}

	return cfg, nil
}

// setup loads and checks the configuration for tool and builds the logger,
// metrics collector and tracer.
func setup(cmd *cobra.Command, tool config.Tool) (*env, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.Require(tool); err != nil {
		return nil, err
	}

	logger, err := logging.New(logging.ConfigFrom(cfg.Telemetry.Logging, cmd.ErrOrStderr()))
	if err != nil {
		return nil, cli.NewConfigError("telemetry.logging", err.Error())
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logging.WithRunID(ctx, uuid.NewString())
	ctx = logging.WithTool(ctx, string(tool))

	tracer, err := tracing.New(ctx, &cfg.Telemetry.Tracing, Version)
	if err != nil {
		return nil, cli.NewConfigError("telemetry.tracing", err.Error())
	}

	return &env{
		ctx:     ctx,
		cfg:     cfg,
		logger:  logger,
		metrics: metrics.NewCollector(&cfg.Telemetry.Metrics, nil),
		tracer:  tracer,
		in:      cmd.InOrStdin(),
		out:     cmd.OutOrStdout(),
		errOut:  cmd.ErrOrStderr(),
	}, nil
}

// runTool sets up the environment for tool, runs fn and records the run.
// name is the metrics label. A failure of fn is returned as a
// *cli.CommandError naming the tool.
func runTool(cmd *cobra.Command, name string, tool config.Tool, fn func(*env) error) error {
	e, err := setup(cmd, tool)
	if err != nil {
		return err
	}

	defer func() {
		// the run context may already be cancelled
		timeout := e.cfg.Telemetry.Tracing.Timeout
		if timeout <= 0 {
			timeout = config.DefaultTracingTimeout
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if serr := e.tracer.Shutdown(shutdownCtx); serr != nil {
			e.logger.WarnContext(e.ctx, "failed to flush traces", "error", serr)
		}
	}()

	ctx, span := e.tracer.Start(e.ctx, "trackerctl "+name,
		tracing.AttrTool.String(string(tool)),
		tracing.AttrRunID.String(logging.GetRunID(e.ctx)),
	)
	e.ctx = ctx

	start := time.Now()
	if e.tracer.Enabled() {
		e.logger.DebugContext(e.ctx, "starting tool", "trace_id", tracing.TraceID(ctx))
	} else {
		e.logger.DebugContext(e.ctx, "starting tool")
	}

	err = fn(e)
	tracing.End(span, err)

	e.metrics.RecordRun(name, err, time.Since(start))
	if werr := e.metrics.WriteTextfile(e.cfg.Telemetry.Metrics.TextfilePath); werr != nil {
		e.logger.WarnContext(e.ctx, "failed to write metrics", "error", werr)
	}

	if err != nil {
		e.logger.DebugContext(e.ctx, "tool failed", "error", err, "duration", time.Since(start))
		return cli.NewCommandError(name, err)
	}
	e.logger.DebugContext(e.ctx, "tool finished", "duration", time.Since(start))
	return nil
}
