package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/emiliopalmerini/sprintsheet/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web timesheet",
	Long: `Start the local web page for editing the timesheet.

Examples:
  sprintsheet serve              # Start on the configured port (default 8080)
  sprintsheet serve --port 3000  # Start on port 3000`,
	RunE: runServe,
}

var servePort int

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to listen on (default: SPRINTSHEET_PORT)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	port := app.Config.Port
	if servePort != 0 {
		port = servePort
	}

	archives, err := app.ArchiveRepository(ctx)
	if err != nil {
		app.Logger.Warn("archives unavailable", "err", err)
	}

	server := web.NewServer(app.Store, archives, port, app.Logger).
		WithShutdownTimeout(app.Config.ShutdownTimeout)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Start(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		if ctx.Err() != nil {
			app.Logger.Info("shutting down")
		}
		return nil
	})
	return g.Wait()
}
