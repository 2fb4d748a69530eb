package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/sprintsheet/internal/config"
)

// annotationNoStore marks commands that must not open the timesheet store.
const annotationNoStore = "sprintsheet/no-store"

var rootCmd = &cobra.Command{
	Use:   "sprintsheet",
	Short: "Sprint timesheet for two-week sprints",
	Long: `sprintsheet tracks which project each working hour of a two-week sprint
went to, and turns the grid into hours and story points per project.

The same timesheet can be edited from the command line, a terminal UI
(sprintsheet tui) or a local web page (sprintsheet serve).`,
	SilenceUsage:      true,
	PersistentPreRunE: setupApp,
}

// Flags
var (
	debug     bool
	ephemeral bool
)

// app is built before every command runs.
var app *AppContext

func Execute() {
	err := rootCmd.Execute()
	if app != nil {
		if cerr := app.Close(); cerr != nil {
			fmt.Fprintln(os.Stderr, cerr)
		}
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&ephemeral, "ephemeral", false, "Keep the timesheet in memory only")
}

func setupApp(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if debug {
		cfg.LogLevel = "debug"
	}

	logger, err := newLogger(cmd.ErrOrStderr(), cfg.LogLevel)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	if cmd.Annotations[annotationNoStore] != "" {
		app = &AppContext{Config: cfg, Logger: logger}
		return nil
	}

	app, err = NewAppContext(cmd.Context(), cfg, logger, ephemeral)
	return err
}

func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	lvl, err := config.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}
