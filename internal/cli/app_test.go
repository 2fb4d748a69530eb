package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/emiliopalmerini/sprintsheet/internal/config"
	"github.com/emiliopalmerini/sprintsheet/internal/domain"
	"github.com/emiliopalmerini/sprintsheet/internal/ports"
)

func TestAppContextFieldTypes(t *testing.T) {
	// Compile-time verification that AppContext uses port interfaces.
	var a AppContext
	var _ ports.ArchiveRepository = a.Archives //nolint:staticcheck
}

func TestAppContextClose_NilDB(t *testing.T) {
	a := &AppContext{}
	if err := a.Close(); err != nil {
		t.Errorf("Close() on nil DB should not error, got: %v", err)
	}
}

func TestNewAppContext_Backends(t *testing.T) {
	tests := []struct {
		name      string
		storage   string
		ephemeral bool
		persisted bool
		db        bool
	}{
		{"libsql", config.StorageLibSQL, false, true, true},
		{"file", config.StorageFile, false, true, false},
		{"none", config.StorageNone, false, false, false},
		{"ephemeral overrides libsql", config.StorageLibSQL, true, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			cfg := testConfig(t)
			cfg.Storage = tt.storage

			a, err := NewAppContext(ctx, cfg, testLogger(), tt.ephemeral)
			if err != nil {
				t.Fatalf("NewAppContext failed: %v", err)
			}
			a.Store.AddProject(ctx, "Alpha")
			if (a.db != nil) != tt.db {
				t.Errorf("expected database open = %v", tt.db)
			}
			if err := a.Close(); err != nil {
				t.Fatalf("Close failed: %v", err)
			}

			reopened, err := NewAppContext(ctx, cfg, testLogger(), tt.ephemeral)
			if err != nil {
				t.Fatalf("reopen failed: %v", err)
			}
			defer func() { _ = reopened.Close() }()

			got := len(reopened.Store.Snapshot().Projects) == 1
			if got != tt.persisted {
				t.Errorf("expected persisted = %v, projects %v", tt.persisted, reopened.Store.Snapshot().Projects)
			}
		})
	}
}

func TestNewAppContext_FileBackendLayout(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	cfg.Storage = config.StorageFile

	a, err := NewAppContext(ctx, cfg, testLogger(), false)
	if err != nil {
		t.Fatalf("NewAppContext failed: %v", err)
	}
	defer func() { _ = a.Close() }()
	a.Store.AddProject(ctx, "Alpha")

	data, err := os.ReadFile(filepath.Join(cfg.DataDir, ports.KeyProjects+".json"))
	if err != nil {
		t.Fatalf("expected projects file: %v", err)
	}
	if strings.TrimSpace(string(data)) != `["Alpha"]` {
		t.Errorf("unexpected projects file: %s", data)
	}
}

func TestAppContext_ArchiveRepositoryOpensDatabase(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)

	a, err := NewAppContext(ctx, cfg, testLogger(), false)
	if err != nil {
		t.Fatalf("NewAppContext failed: %v", err)
	}
	defer func() { _ = a.Close() }()

	if a.db != nil {
		t.Fatal("storage none must not open the database")
	}
	repo, err := a.ArchiveRepository(ctx)
	if err != nil {
		t.Fatalf("ArchiveRepository failed: %v", err)
	}
	archives, err := repo.List(ctx, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(archives) != 0 {
		t.Errorf("expected no archives, got %d", len(archives))
	}
}

func TestExecute_FileBackendRoundTrip(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SPRINTSHEET_STORAGE", config.StorageFile)
	t.Setenv("SPRINTSHEET_DATA_DIR", dir)
	t.Setenv("SPRINTSHEET_LOG_LEVEL", "error")

	prev := app
	t.Cleanup(func() { app = prev })

	run := func(args ...string) string {
		t.Helper()
		var buf bytes.Buffer
		rootCmd.SetOut(&buf)
		rootCmd.SetErr(&buf)
		rootCmd.SetArgs(args)
		defer func() {
			rootCmd.SetOut(nil)
			rootCmd.SetErr(nil)
			rootCmd.SetArgs(nil)
		}()

		err := rootCmd.ExecuteContext(context.Background())
		if app != nil {
			_ = app.Close()
		}
		if err != nil {
			t.Fatalf("%v failed: %v\n%s", args, err, buf.String())
		}
		return buf.String()
	}

	run("project", "add", "Alpha")
	run("set", "1", "lunedi", "9", "Alpha")
	run("set", "2", "sabato", "17", "Alpha")

	out := run("summary")
	if !strings.Contains(out, "Ore Totali:          2.0") {
		t.Errorf("expected two hours after reloading from disk:\n%s", out)
	}

	if got := app.Store.Snapshot().Assignments.Get(domain.Week2, "Sabato", "17:00-18:00"); got != "Alpha" {
		t.Errorf("expected Alpha in week 2, got %q", got)
	}
}
