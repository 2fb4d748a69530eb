package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/sprintsheet/internal/domain"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage projects",
	Long:  `Add, remove and list the projects that timesheet cells can be assigned to.`,
}

var projectAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a project",
	Long: `Add a project. Blank names and names already in the list are ignored.

Examples:
  sprintsheet project add "Progetto A"`,
	Args: cobra.ExactArgs(1),
	RunE: runProjectAdd,
}

var projectRemoveCmd = &cobra.Command{
	Use:     "remove <name>",
	Aliases: []string{"rm"},
	Short:   "Remove a project and clear its cells",
	Long: `Remove a project. Every cell holding exactly this name is cleared;
split cells such as "A/B" are left untouched.`,
	Args: cobra.ExactArgs(1),
	RunE: runProjectRemove,
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects",
	RunE:  runProjectList,
}

func init() {
	rootCmd.AddCommand(projectCmd)
	projectCmd.AddCommand(projectAddCmd)
	projectCmd.AddCommand(projectRemoveCmd)
	projectCmd.AddCommand(projectListCmd)
}

func runProjectAdd(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	before := app.Store.Snapshot().Projects

	projects := app.Store.AddProject(cmd.Context(), args[0])
	if len(projects) == len(before) {
		fmt.Fprintf(out, "Project %q not added (blank or already present)\n", args[0])
		return nil
	}

	fmt.Fprintf(out, "Added project %q\n", args[0])
	return nil
}

func runProjectRemove(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	name := args[0]
	if !domain.ContainsProject(app.Store.Snapshot().Projects, name) {
		return fmt.Errorf("project %q not found", name)
	}

	app.Store.RemoveProject(cmd.Context(), name)
	fmt.Fprintf(out, "Removed project %q\n", name)
	return nil
}

func runProjectList(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	projects := app.Store.Snapshot().Projects
	if len(projects) == 0 {
		fmt.Fprintln(out, "No projects yet. Add one with: sprintsheet project add <name>")
		return nil
	}

	for _, p := range projects {
		fmt.Fprintln(out, p)
	}
	return nil
}
