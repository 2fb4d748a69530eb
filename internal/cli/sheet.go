package cli

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/sprintsheet/internal/domain"
	"github.com/emiliopalmerini/sprintsheet/internal/timesheet"
	"github.com/emiliopalmerini/sprintsheet/internal/tui/components"
	"github.com/emiliopalmerini/sprintsheet/internal/util"
)

var setCmd = &cobra.Command{
	Use:   "set <week> <day> <slot> [value]",
	Short: "Assign a cell",
	Long: `Assign a project (or any activity text) to one hourly slot.
Omit the value to clear the cell.

Week is 1, 2, week1 or week2. Day is the Italian day name, with or without
accent, or its position (1 = Lunedì). Slot is the full label or its start hour.

Examples:
  sprintsheet set 1 lunedi 9 "Progetto A"
  sprintsheet set week2 Venerdì 16:00-17:00 "A/B"
  sprintsheet set 2 3 14            # clear Mercoledì 14:00-15:00`,
	Args: cobra.RangeArgs(3, 4),
	RunE: runSet,
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the grid of a week",
	RunE:  runShow,
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print hours and story points per project",
	RunE:  runSummary,
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear every cell of both weeks",
	Long:  `Clear every cell of both weeks. Projects are kept.`,
	RunE:  runReset,
}

// Flags
var showWeek string

func init() {
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(resetCmd)

	showCmd.Flags().StringVarP(&showWeek, "week", "w", "1", "Week to show: 1 or 2")
}

func runSet(cmd *cobra.Command, args []string) error {
	week, err := domain.ParseWeek(args[0])
	if err != nil {
		return err
	}
	day, err := domain.ResolveDay(args[1])
	if err != nil {
		return err
	}
	slot, err := domain.ResolveTimeSlot(args[2])
	if err != nil {
		return err
	}
	value := ""
	if len(args) == 4 {
		value = args[3]
	}

	if _, err := app.Store.SetActivity(cmd.Context(), week, day, slot, value); err != nil {
		return fmt.Errorf("failed to set cell: %w", err)
	}

	out := cmd.OutOrStdout()
	if value == "" {
		fmt.Fprintf(out, "Cleared %s, %s %s\n", week.Label(), day, slot)
		return nil
	}
	fmt.Fprintf(out, "%s, %s %s: %s\n", week.Label(), day, slot, value)
	for _, name := range unknownProjects(app.Store.Snapshot().Projects, value) {
		fmt.Fprintf(out, "Note: %q is not in the project list\n", name)
	}
	return nil
}

// unknownProjects returns the components of value, split on the separator,
// that are not in projects. Components are compared verbatim.
func unknownProjects(projects []string, value string) []string {
	var unknown []string
	for _, part := range strings.Split(value, domain.SplitSeparator) {
		if !domain.ContainsProject(projects, part) && !slices.Contains(unknown, part) {
			unknown = append(unknown, part)
		}
	}
	return unknown
}

func runShow(cmd *cobra.Command, args []string) error {
	week, err := domain.ParseWeek(showWeek)
	if err != nil {
		return err
	}
	printGrid(cmd.OutOrStdout(), app.Store.Snapshot(), week)
	return nil
}

func printGrid(out io.Writer, snap timesheet.Snapshot, week domain.Week) {
	fmt.Fprintln(out, week.Label())
	fmt.Fprintln(out)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Ore\t"+strings.Join(domain.Days, "\t"))
	for _, slot := range domain.TimeSlots {
		cells := make([]string, 0, len(domain.Days))
		for _, day := range domain.Days {
			v := snap.Assignments.Get(week, day, slot)
			if v == "" {
				v = "-"
			}
			cells = append(cells, v)
		}
		fmt.Fprintln(w, slot+"\t"+strings.Join(cells, "\t"))
	}
	w.Flush()
}

func runSummary(cmd *cobra.Command, args []string) error {
	printSummary(cmd.OutOrStdout(), app.Store.Snapshot())
	return nil
}

func printSummary(out io.Writer, snap timesheet.Snapshot) {
	if len(snap.ChartRows) == 0 {
		fmt.Fprintln(out, "Nessuna attività registrata")
		return
	}

	fmt.Fprintln(out, "Riepilogo Sprint")
	fmt.Fprintln(out)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PROJECT\tHOURS\tSTORY POINTS")
	fmt.Fprintln(w, "-------\t-----\t------------")
	for _, row := range snap.ChartRows {
		fmt.Fprintln(w, strings.Join(timesheet.FormatSummaryRow(row), "\t"))
	}
	w.Flush()

	fmt.Fprintln(out)
	fmt.Fprintln(out, components.NewBarChart(snap.ChartRows).View())
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Totale Sprint")
	fmt.Fprintf(out, "  Ore Totali:          %s\n", util.FormatHours(snap.TotalHours))
	fmt.Fprintf(out, "  Story Points Totali: %s\n", domain.FormatOneDecimal(snap.TotalStoryPoints))
}

func runReset(cmd *cobra.Command, args []string) error {
	app.Store.Reset(cmd.Context())
	fmt.Fprintln(cmd.OutOrStdout(), "Timesheet cleared")
	return nil
}
