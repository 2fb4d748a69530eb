package cli

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/sprintsheet/internal/adapters/storage"
	"github.com/emiliopalmerini/sprintsheet/internal/config"
	"github.com/emiliopalmerini/sprintsheet/internal/domain"
	"github.com/emiliopalmerini/sprintsheet/internal/ports"
	"github.com/emiliopalmerini/sprintsheet/internal/timesheet"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		Database:   config.Database{URL: "file:" + dir + "/sprintsheet.db"},
		Storage:    config.StorageNone,
		DataDir:    dir,
		ChartOrder: string(domain.OrderByHours),
		SplitMode:  string(domain.SplitHalf),
		LogLevel:   "error",
	}
}

// setupTestApp installs an in-memory app for the duration of the test.
func setupTestApp(t *testing.T, archives ports.ArchiveRepository) *AppContext {
	t.Helper()

	store := timesheet.New(storage.NewMemory(), timesheet.WithLogger(testLogger()))
	store.Initialize(context.Background())

	prev := app
	app = &AppContext{
		Config:   testConfig(t),
		Logger:   testLogger(),
		Store:    store,
		Archives: archives,
	}
	t.Cleanup(func() { app = prev })
	return app
}

// newTestCommand returns a command whose output is captured in the buffer.
func newTestCommand() (*cobra.Command, *bytes.Buffer) {
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetContext(context.Background())
	return cmd, &buf
}
