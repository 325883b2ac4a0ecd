package main

import (
	"github.com/spf13/cobra"

	"results-tracker/trackerctl/pkg/cli"
	"results-tracker/trackerctl/pkg/config"
	"results-tracker/trackerctl/pkg/deploy"
	"results-tracker/trackerctl/pkg/gitops"
	"results-tracker/trackerctl/pkg/telemetry/logging"
	"results-tracker/trackerctl/pkg/tracker"
)

var deployFlags struct {
	skipRelease bool
	dryRun      bool
	output      string
}

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Release stable and redeploy the application host",
	Long: `Release the stable branch and redeploy the application host.

The deploy runs three steps, stopping at the first failure:
  1. Fast-forward the local stable branch to main and push it
  2. Open a shell on SSH_HOSTNAME and run, in DEPLOY_APP_DIR:
     pwd, git pull GITHUB_URL, git status, npm install, npm run build,
     and the restart command
  3. Wait DEPLOY_STATUS_DELAY, GET TRACKER_URL and print the reply

Examples:
  # Full deploy
  trackerctl deploy

  # Redeploy what is already on stable
  trackerctl deploy --skip-release

  # Show the plan without touching anything
  trackerctl deploy --dry-run --output json`,
	Args: cobra.NoArgs,
	RunE: runDeploy,
}

func init() {
	rootCmd.AddCommand(deployCmd)

	deployCmd.Flags().BoolVar(&deployFlags.skipRelease, "skip-release", false, "do not move or push the stable branch")
	deployCmd.Flags().BoolVar(&deployFlags.dryRun, "dry-run", false, "print the plan and exit")
	deployCmd.Flags().StringVarP(&deployFlags.output, "output", "o", "text", "dry-run output format: text, json")
}

func runDeploy(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseOutputFormat(deployFlags.output)
	if err != nil {
		return err
	}

	return runTool(cmd, "deploy", config.ToolDeploy, func(e *env) error {
		opts := deploy.Options{SkipRelease: deployFlags.skipRelease}

		var releaser deploy.Releaser
		if !opts.SkipRelease {
			r, err := gitops.NewReleaser(&e.cfg.Git, e.logger)
			if err != nil {
				return err
			}
			releaser = r
		}

		ctx := logging.WithHost(e.ctx, e.cfg.SSH.Hostname)
		status := tracker.NewClient(&e.cfg.Tracker, e.logger, e.metrics)
		d := deploy.NewDeployer(&e.cfg.Deploy, releaser, newShellDialer(&e.cfg.SSH, e.logger), status, e.logger, e.metrics)

		if deployFlags.dryRun {
			plan, err := d.Plan(e.cfg.SSH.Hostname, e.cfg.Tracker.URL, opts)
			if err != nil {
				return err
			}
			return cli.NewFormatter(format).FormatTo(e.out, plan)
		}

		_, err := d.Run(ctx, opts, e.out)
		return err
	})
}
