package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/sprintsheet/internal/adapters/otel"
	"github.com/emiliopalmerini/sprintsheet/internal/domain"
	"github.com/emiliopalmerini/sprintsheet/internal/ports"
	"github.com/emiliopalmerini/sprintsheet/internal/timesheet"
	"github.com/emiliopalmerini/sprintsheet/internal/util"
)

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Close the sprint and store its summary",
	Long: `Freeze the current summary as an archived sprint.

The archive keeps hours and story points per project. When OTLP export is
enabled the same numbers are sent as metrics.

Examples:
  sprintsheet archive --label "Sprint 42"
  sprintsheet archive --label "Sprint 42" --reset   # and clear the grid`,
	Args: cobra.NoArgs,
	RunE: runArchive,
}

var archiveListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived sprints",
	RunE:  runArchiveList,
}

var archiveShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show an archived sprint",
	Args:  cobra.ExactArgs(1),
	RunE:  runArchiveShow,
}

var archiveDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an archived sprint",
	Args:  cobra.ExactArgs(1),
	RunE:  runArchiveDelete,
}

// Flags
var (
	archiveLabel string
	archiveReset bool
	archiveLast  int
)

// newMetricsExporter is replaced in tests.
var newMetricsExporter = func(ctx context.Context, cfg otel.Config) (ports.MetricsExporter, error) {
	exp, err := otel.NewExporter(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return exp, nil
}

func init() {
	rootCmd.AddCommand(archiveCmd)
	archiveCmd.AddCommand(archiveListCmd)
	archiveCmd.AddCommand(archiveShowCmd)
	archiveCmd.AddCommand(archiveDeleteCmd)

	archiveCmd.Flags().StringVarP(&archiveLabel, "label", "l", "", "Sprint label (default: current date)")
	archiveCmd.Flags().BoolVar(&archiveReset, "reset", false, "Clear the grid after archiving")
	archiveListCmd.Flags().IntVarP(&archiveLast, "last", "n", 10, "Number of sprints to show (0 = all)")
}

func runArchive(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	repo, err := app.ArchiveRepository(ctx)
	if err != nil {
		return err
	}

	summary := app.Store.Summary()
	if len(summary.Rows) == 0 {
		return errors.New("nothing to archive: no hours logged")
	}

	now := time.Now()
	label := strings.TrimSpace(archiveLabel)
	if label == "" {
		label = "Sprint " + now.Format("2006-01-02")
	}

	archive := domain.NewArchive(uuid.NewString(), label, summary, now)
	if err := repo.Create(ctx, archive); err != nil {
		return err
	}
	fmt.Fprintf(out, "Archived %q (%s)\n", archive.Label, archive.ID)

	exportArchive(ctx, archive)

	if archiveReset {
		app.Store.Reset(ctx)
		fmt.Fprintln(out, "Timesheet cleared")
	}
	return nil
}

// exportArchive sends the archive to the metrics backend. Failures are
// logged; the archive is already stored.
func exportArchive(ctx context.Context, archive *domain.Archive) {
	var exporter ports.MetricsExporter = otel.NewNoOpExporter()
	exp, err := newMetricsExporter(ctx, app.Config.OTel)
	switch {
	case err == nil:
		exporter = exp
	case errors.Is(err, otel.ErrDisabled):
	default:
		app.Logger.Warn("metrics export unavailable", "err", err)
	}

	if err := exporter.ExportArchive(ctx, archive); err != nil {
		app.Logger.Warn("failed to export archive metrics", "id", archive.ID, "err", err)
	}
	if err := exporter.Close(ctx); err != nil {
		app.Logger.Warn("failed to flush metrics", "err", err)
	}
}

func runArchiveList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	repo, err := app.ArchiveRepository(ctx)
	if err != nil {
		return err
	}

	archives, err := repo.List(ctx, archiveLast)
	if err != nil {
		return err
	}
	if len(archives) == 0 {
		fmt.Fprintln(out, "No archived sprints")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tLABEL\tDATE\tHOURS\tSTORY POINTS")
	fmt.Fprintln(w, "--\t-----\t----\t-----\t------------")
	for _, a := range archives {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			a.ID, util.Truncate(a.Label, 30), util.FormatDateTime(a.CreatedAt),
			util.FormatHours(a.TotalHours), domain.FormatOneDecimal(a.TotalStoryPoints))
	}
	w.Flush()

	fmt.Fprintf(out, "\nShowing %d sprint(s)\n", len(archives))
	return nil
}

func runArchiveShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	repo, err := app.ArchiveRepository(ctx)
	if err != nil {
		return err
	}

	a, err := repo.GetByID(ctx, args[0])
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%s\n", a.Label)
	fmt.Fprintf(out, "ID:   %s\n", a.ID)
	fmt.Fprintf(out, "Date: %s\n\n", util.FormatDateTime(a.CreatedAt))

	printSummary(out, timesheet.Snapshot{
		ChartRows:        a.Rows,
		TotalHours:       a.TotalHours,
		TotalStoryPoints: a.TotalStoryPoints,
	})
	return nil
}

func runArchiveDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	repo, err := app.ArchiveRepository(ctx)
	if err != nil {
		return err
	}
	if err := repo.Delete(ctx, args[0]); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Deleted archive %s\n", args[0])
	return nil
}
