package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"results-tracker/trackerctl/pkg/cli"
	"results-tracker/trackerctl/pkg/config"
	"results-tracker/trackerctl/pkg/telemetry/logging"
	"results-tracker/trackerctl/pkg/tracker"
)

var requestFlags struct {
	schedule string
}

var requestCmd = &cobra.Command{
	Use:   "request [path]",
	Short: "Send a POST to a tracker endpoint",
	Long: `Send an unauthenticated POST to TRACKER_URL/<path> and print the reply.

An empty path posts to the tracker root, which reports server status.

Examples:
  # Server status
  trackerctl request

  # Force the ATM refresh
  trackerctl request atm

  # Repeat every five minutes until interrupted
  trackerctl request atm --schedule "*/5 * * * *"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRequest,
}

func init() {
	rootCmd.AddCommand(requestCmd)

	requestCmd.Flags().StringVar(&requestFlags.schedule, "schedule", "", "cron expression to repeat the request on, e.g. \"@every 1m\"")
}

func runRequest(cmd *cobra.Command, args []string) error {
	path := ""
	if len(args) > 0 {
		path = args[0]
	}

	var schedule cron.Schedule
	if requestFlags.schedule != "" {
		s, err := cron.ParseStandard(requestFlags.schedule)
		if err != nil {
			return cli.NewConfigError("--schedule", err.Error())
		}
		schedule = s
	}

	return runTool(cmd, "request", config.ToolRequest, func(e *env) error {
		client := tracker.NewClient(&e.cfg.Tracker, e.logger, e.metrics)

		if schedule == nil {
			return postOnce(e.ctx, client, path, e.out)
		}
		return postScheduled(e.ctx, client, path, schedule, e)
	})
}

func postOnce(ctx context.Context, client *tracker.Client, path string, out io.Writer) error {
	fmt.Fprintln(out, client.URL(path))

	resp, err := client.Post(ctx, path)
	if err != nil {
		return err
	}
	resp.Print(out)
	return nil
}

// postScheduled repeats the POST on schedule until ctx is done. A failed
// request is logged and the schedule continues; a run still in flight
// when the next one is due causes that one to be skipped.
func postScheduled(ctx context.Context, client *tracker.Client, path string, schedule cron.Schedule, e *env) error {
	// cron only reports skipped and panicking jobs unless verbose
	var logger cron.Logger = cron.PrintfLogger(printfLogger{e.logger.WithContext(ctx)})
	if e.logger.Level() <= slog.LevelDebug {
		logger = cron.VerbosePrintfLogger(printfLogger{e.logger.WithContext(ctx)})
	}
	c := cron.New(
		cron.WithLogger(logger),
		cron.WithChain(cron.SkipIfStillRunning(logger)),
	)
	c.Schedule(schedule, cron.FuncJob(func() {
		if err := postOnce(ctx, client, path, e.out); err != nil {
			e.logger.ErrorContext(ctx, "scheduled request failed", "error", err)
		}
	}))

	e.logger.InfoContext(ctx, "request scheduled", "url", client.URL(path), "schedule", requestFlags.schedule)
	c.Start()

	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}

// printfLogger adapts the diagnostic logger for cron.
type printfLogger struct {
	logger *logging.Logger
}

func (l printfLogger) Printf(format string, args ...any) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}
