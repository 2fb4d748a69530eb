package cli

import (
	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/sprintsheet/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Edit the timesheet in the terminal",
	Long: `Open the interactive terminal editor.

Keys:
  tab          switch week
  arrows/hjkl  move the cursor
  enter/space  cycle the cell through the projects
  x            clear the cell
  a            add a project
  d            remove the project under the cursor
  q            quit`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	return tui.Run(cmd.Context(), app.Store)
}
