package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"results-tracker/trackerctl/pkg/cli"
	"results-tracker/trackerctl/pkg/config"
	"results-tracker/trackerctl/pkg/export"
)

const exportUsage = "Please specify a collection to export."

var exportFlags struct {
	yes bool
}

var exportCmd = &cobra.Command{
	Use:   "export <collection>",
	Short: "Export a Firestore collection to JSON",
	Long: `Export every document of a Firestore collection to EXPORT_DIR/<collection>.json.

The service account is read from FIREBASE_CREDENTIALS. The command asks for
confirmation first; press Enter to continue.

Examples:
  trackerctl export users
  trackerctl export users --yes`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().BoolVarP(&exportFlags.yes, "yes", "y", false, "skip the confirmation prompt")
}

func runExport(cmd *cobra.Command, args []string) error {
	if len(args) == 0 || args[0] == "" {
		return cli.NewUsageError(exportUsage)
	}
	collection := args[0]

	return runTool(cmd, "export", config.ToolExport, func(e *env) error {
		if !exportFlags.yes {
			if err := export.Confirm(e.in, e.out, collection); err != nil {
				return err
			}
		}

		source, err := openSource(e.ctx, &e.cfg.Export)
		if err != nil {
			return err
		}
		defer source.Close()

		fmt.Fprintln(e.out, "Exporting documents...")

		result, err := export.NewExporter(source, e.cfg.Export.OutputDir, e.logger, e.metrics).Export(e.ctx, collection)
		if err != nil {
			if e.ctx.Err() != nil {
				return fmt.Errorf("export interrupted: %w", err)
			}
			return err
		}

		e.logger.InfoContext(e.ctx, "export written", "path", result.Path, "documents", result.Count)
		fmt.Fprintln(e.out, "Documents exported successfully!")
		return nil
	})
}
