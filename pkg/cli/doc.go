/*
Package cli provides command-line helpers shared by the trackerctl commands.

Errors:

Commands return errors. UsageError carries a message that is printed to the
operator verbatim; everything else is printed with an "Error:" prefix.
ExitCode maps the result to the process exit status:

	if err := rootCmd.Execute(); err != nil {
		os.Exit(cli.ExitCode(err))
	}

Output Formatting:

Commands with structured results (version, deploy --dry-run) accept
--output text|json:

	formatter := cli.NewFormatter(cli.FormatJSON)
	if err := formatter.FormatTo(os.Stdout, plan); err != nil {
		return err
	}

Progress Reporting:

Multi-file downloads draw a progress bar on stderr when it is a terminal:

	progress := cli.NewProgressReporter(os.Stderr)
	progress.Start(int64(len(names)))
	for i, name := range names {
		progress.Printf(os.Stdout, "Downloading %s\n", name)
		// Do work
		progress.Update(int64(i + 1))
	}
	progress.Finish()

Signal Handling:

SIGINT and SIGTERM cancel the command's context:

	ctx, cancel := cli.SetupSignalHandler(context.Background())
	defer cancel()

Confirmation:

	if err := cli.Confirm(os.Stdin, os.Stdout, "Press Enter to continue"); err != nil {
		return err
	}
*/
package cli
