package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestFile_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := NewFile(filepath.Join(t.TempDir(), "state"))
	if err != nil {
		t.Fatalf("NewFile failed: %v", err)
	}

	if _, ok, err := s.Get(ctx, "projects"); err != nil || ok {
		t.Fatalf("expected absent key, got ok=%v err=%v", ok, err)
	}

	if err := s.Set(ctx, "projects", `["Alpha"]`); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := s.Set(ctx, "projects", `["Alpha","Beta"]`); err != nil {
		t.Fatalf("Set (overwrite) failed: %v", err)
	}

	v, ok, err := s.Get(ctx, "projects")
	if err != nil || !ok {
		t.Fatalf("expected stored key, got ok=%v err=%v", ok, err)
	}
	if v != `["Alpha","Beta"]` {
		t.Errorf("unexpected value %s", v)
	}

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only projects.json, found %d entries", len(entries))
	}
}

func TestFile_RejectsPathKeys(t *testing.T) {
	s, err := NewFile(t.TempDir())
	if err != nil {
		t.Fatalf("NewFile failed: %v", err)
	}
	if err := s.Set(context.Background(), "../escape", "x"); err == nil {
		t.Error("expected error for key with path separators")
	}
}

func TestMemory_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	if err := s.Set(ctx, "timesheet", "{}"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	v, ok, _ := s.Get(ctx, "timesheet")
	if !ok || v != "{}" {
		t.Errorf("expected {}, got %q ok=%v", v, ok)
	}
}

func TestNoOp_NeverStores(t *testing.T) {
	ctx := context.Background()
	s := NewNoOp()
	if err := s.Set(ctx, "timesheet", "{}"); err != nil {
		t.Fatalf("Set must not fail: %v", err)
	}
	if _, ok, err := s.Get(ctx, "timesheet"); ok || err != nil {
		t.Errorf("expected nothing stored, got ok=%v err=%v", ok, err)
	}
}
