package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"results-tracker/trackerctl/pkg/cli"
	"results-tracker/trackerctl/pkg/config"
	"results-tracker/trackerctl/pkg/telemetry/logging"
	"results-tracker/trackerctl/pkg/transfer"
)

var tmpCmd = &cobra.Command{
	Use:   "tmp",
	Short: "Download every file in the remote temp directory",
	Long: `Download every file in FTP_TMP_PATH into TMP_DIR, one at a time.

Existing local files with the same name are replaced.`,
	Args: cobra.NoArgs,
	RunE: fetchTmp,
}

func init() {
	rootCmd.AddCommand(tmpCmd)
}

func fetchTmp(cmd *cobra.Command, args []string) error {
	return runTool(cmd, "tmp", config.ToolTmp, func(e *env) error {
		ctx := logging.WithHost(e.ctx, e.cfg.FTP.Hostname)

		conn, err := dialFTP(ctx, &e.cfg.FTP)
		if err != nil {
			return err
		}
		client := transfer.NewClient(conn, e.logger, e.metrics)
		defer client.Close()

		written, err := client.FetchAll(ctx, e.cfg.Tmp.RemotePath, e.cfg.Tmp.LocalDir, transfer.FetchOptions{
			Out:      e.out,
			Progress: cli.NewProgressReporter(e.errOut),
		})
		if err != nil {
			return err
		}

		fmt.Fprintf(e.out, "Downloaded %d files into %s\n", len(written), e.cfg.Tmp.LocalDir)
		return nil
	})
}
