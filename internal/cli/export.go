package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/sprintsheet/internal/timesheet"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the timesheet to JSON or CSV",
	Long: `Export the timesheet for external analysis.

JSON holds the raw grid, the project list and the summary. CSV has one
line per cell.

Examples:
  sprintsheet export                          # JSON on stdout
  sprintsheet export --format csv -o sprint.csv`,
	RunE: runExport,
}

// Flags
var (
	exportFormat string
	exportOutput string
)

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", timesheet.FormatJSON, "Output format: json, csv")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default: stdout)")
}

func runExport(cmd *cobra.Command, args []string) error {
	format, err := timesheet.ParseFormat(exportFormat)
	if err != nil {
		return err
	}

	var out io.Writer = cmd.OutOrStdout()
	if exportOutput != "" {
		f, err := os.Create(exportOutput)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	if err := timesheet.WriteExport(out, app.Store.Snapshot(), format); err != nil {
		return err
	}

	if exportOutput != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Exported to %s\n", exportOutput)
	}
	return nil
}
