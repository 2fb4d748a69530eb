package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/sprintsheet/internal/database"
	"github.com/emiliopalmerini/sprintsheet/internal/migrate"
	"github.com/emiliopalmerini/sprintsheet/internal/util"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate [version]",
	Short: "Run database migrations",
	Long: `Run database migrations.

Without arguments, runs all pending migrations (up).
With a version number, migrates to that specific version (up or down as needed).
Other commands apply pending migrations automatically.

Examples:
  sprintsheet migrate      # Run all pending migrations
  sprintsheet migrate 0    # Rollback all migrations`,
	Args:        cobra.MaximumNArgs(1),
	Annotations: map[string]string{annotationNoStore: "true"},
	RunE:        runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	target := -1
	if len(args) == 1 {
		v, err := strconv.Atoi(args[0])
		if err != nil || v < 0 {
			return fmt.Errorf("invalid version number: %s", args[0])
		}
		target = v
	}

	cfg := app.Config
	if !database.IsRemote(cfg.Database.URL) {
		if err := util.EnsureDir(cfg.DataDir); err != nil {
			return err
		}
	}
	db, err := database.Open(cfg.Database.URL, cfg.Database.AuthToken)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	m := migrate.New(db, app.Logger)
	current, _, err := m.Current(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Current version: %d\n", current)

	reached, err := m.To(ctx, target)
	if err != nil {
		return err
	}
	if reached == current {
		fmt.Fprintln(out, "Already at target version")
		return nil
	}
	fmt.Fprintf(out, "Migrated to version %d\n", reached)
	return nil
}
