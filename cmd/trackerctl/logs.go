package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"results-tracker/trackerctl/pkg/cli"
	"results-tracker/trackerctl/pkg/logfetch"
	"results-tracker/trackerctl/pkg/telemetry/logging"
	"results-tracker/trackerctl/pkg/transfer"
)

const logsUsage = "Usage: trackerctl logs <node|passenger>"

var logsCmd = &cobra.Command{
	Use:   "logs <node|passenger>",
	Short: "Download a log file from the application host",
	Long: `Download one log file over FTP into LOGS_DIR.

  node       today's log, NODE_LOGS_PATH<YYYY-MM-DD>.log
  passenger  the passenger log, first copied from PASSENGER_LOG_PATH
             into the login directory over SSH

Examples:
  trackerctl logs node
  trackerctl logs passenger`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: kindNames(),
	RunE:      fetchLogs,
}

func init() {
	rootCmd.AddCommand(logsCmd)
}

func kindNames() []string {
	names := make([]string, 0, len(logfetch.Kinds))
	for _, k := range logfetch.Kinds {
		names = append(names, k.String())
	}
	return names
}

func fetchLogs(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cli.NewUsageError(logsUsage)
	}

	kind, err := logfetch.ParseKind(args[0])
	if err != nil {
		return err
	}

	return runTool(cmd, "logs", kind.Tool(), func(e *env) error {
		plan, err := logfetch.Resolve(kind, &e.cfg.Logs, time.Now())
		if err != nil {
			return err
		}

		var runner logfetch.Runner
		if plan.PreCopy != "" {
			r, err := dialRunner(logging.WithHost(e.ctx, e.cfg.SSH.Hostname), &e.cfg.SSH, e.logger)
			if err != nil {
				return err
			}
			defer r.Close()
			runner = r
		}

		ctx := logging.WithHost(e.ctx, e.cfg.FTP.Hostname)
		open := func(ctx context.Context) (logfetch.Session, error) {
			conn, err := dialFTP(ctx, &e.cfg.FTP)
			if err != nil {
				return nil, err
			}
			return transfer.NewClient(conn, e.logger, e.metrics), nil
		}

		n, err := logfetch.Fetch(ctx, plan, runner, open, e.out)
		if err != nil {
			return err
		}

		e.logger.InfoContext(ctx, "log downloaded", "kind", kind.String(), "local", plan.Local, "bytes", n)
		fmt.Fprintf(e.out, "Saved %s (%d bytes)\n", plan.Local, n)
		return nil
	})
}
