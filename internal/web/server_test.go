package web

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/emiliopalmerini/sprintsheet/internal/adapters/storage"
	"github.com/emiliopalmerini/sprintsheet/internal/domain"
	"github.com/emiliopalmerini/sprintsheet/internal/ports"
	"github.com/emiliopalmerini/sprintsheet/internal/timesheet"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testServer(t *testing.T, archives ports.ArchiveRepository) (*Server, *timesheet.Store) {
	t.Helper()
	store := timesheet.New(storage.NewMemory(), timesheet.WithLogger(testLogger()))
	store.Initialize(context.Background())
	return NewServer(store, archives, 0, testLogger()), store
}

func do(t *testing.T, s *Server, method, target string, form url.Values, htmx bool) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if htmx {
		req.Header.Set("HX-Request", "true")
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s, _ := testServer(t, nil)

	rec := do(t, s, http.MethodGet, "/health", nil, false)

	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Errorf("expected 200 ok, got %d %q", rec.Code, rec.Body.String())
	}
}

func TestIndex_RendersFullPage(t *testing.T) {
	s, store := testServer(t, nil)
	store.AddProject(context.Background(), "Alpha")

	rec := do(t, s, http.MethodGet, "/", nil, false)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"<!doctype html>", "Settimana 1", "Settimana 2", "Alpha", "09:00-10:00", "Sabato"} {
		if !strings.Contains(body, want) {
			t.Errorf("expected page to contain %q", want)
		}
	}
	if strings.Contains(body, "13:00-14:00") {
		t.Error("lunch slot must not be rendered")
	}
}

func TestStatic_ServesStylesheet(t *testing.T) {
	s, _ := testServer(t, nil)

	rec := do(t, s, http.MethodGet, "/static/sprint.css", nil, false)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Header().Get("Content-Type"), "text/css") {
		t.Errorf("expected text/css, got %q", rec.Header().Get("Content-Type"))
	}
	if !strings.Contains(rec.Body.String(), "select.orphan") {
		t.Error("expected the sheet stylesheet")
	}
}

func TestIndex_UnknownPathIsNotFound(t *testing.T) {
	s, _ := testServer(t, nil)

	rec := do(t, s, http.MethodGet, "/nope", nil, false)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestAddProject(t *testing.T) {
	tests := []struct {
		name     string
		htmx     bool
		wantCode int
	}{
		{"plain form redirects", false, http.StatusSeeOther},
		{"htmx gets partial", true, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, store := testServer(t, nil)

			rec := do(t, s, http.MethodPost, "/projects", url.Values{"name": {"Alpha"}}, tt.htmx)

			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, rec.Code)
			}
			if got := store.Snapshot().Projects; len(got) != 1 || got[0] != "Alpha" {
				t.Errorf("expected [Alpha], got %v", got)
			}
			if tt.htmx {
				body := rec.Body.String()
				if strings.Contains(body, "<html") || !strings.Contains(body, `id="sheet"`) {
					t.Error("expected the sheet partial")
				}
			}
		})
	}
}

func TestAddProject_EmptyIsIgnored(t *testing.T) {
	s, store := testServer(t, nil)

	rec := do(t, s, http.MethodPost, "/projects", url.Values{"name": {""}}, false)

	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected redirect, got %d", rec.Code)
	}
	if len(store.Snapshot().Projects) != 0 {
		t.Error("empty project must not be added")
	}
}

func TestRemoveProject_ClearsCells(t *testing.T) {
	s, store := testServer(t, nil)
	ctx := context.Background()
	store.AddProject(ctx, "Alpha")
	_, _ = store.SetActivity(ctx, domain.Week2, "Martedì", "10:00-11:00", "Alpha")

	do(t, s, http.MethodPost, "/projects/delete", url.Values{"name": {"Alpha"}}, true)

	snap := store.Snapshot()
	if len(snap.Projects) != 0 {
		t.Errorf("expected no projects, got %v", snap.Projects)
	}
	if snap.Assignments.Get(domain.Week2, "Martedì", "10:00-11:00") != "" {
		t.Error("expected the cell to be cleared")
	}
}

func TestSetCell(t *testing.T) {
	s, store := testServer(t, nil)

	rec := do(t, s, http.MethodPost, "/cells", url.Values{
		"week":  {"week1"},
		"day":   {"Lunedì"},
		"slot":  {"09:00-10:00"},
		"value": {"Alpha/Beta"},
	}, true)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	snap := store.Snapshot()
	if snap.ProjectHours["Alpha"] != 0.5 || snap.ProjectHours["Beta"] != 0.5 {
		t.Errorf("expected split hours, got %v", snap.ProjectHours)
	}
	if !strings.Contains(rec.Body.String(), "Riepilogo Sprint") {
		t.Error("expected summary in the partial")
	}
}

func TestSetCell_Invalid(t *testing.T) {
	tests := []struct {
		name string
		form url.Values
	}{
		{"unknown week", url.Values{"week": {"week3"}, "day": {"Lunedì"}, "slot": {"09:00-10:00"}, "value": {"X"}}},
		{"unknown day", url.Values{"week": {"week1"}, "day": {"Domenica"}, "slot": {"09:00-10:00"}, "value": {"X"}}},
		{"lunch slot", url.Values{"week": {"week1"}, "day": {"Lunedì"}, "slot": {"13:00-14:00"}, "value": {"X"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, store := testServer(t, nil)

			plain := do(t, s, http.MethodPost, "/cells", tt.form, false)
			if plain.Code != http.StatusBadRequest {
				t.Errorf("expected 400 for plain form, got %d", plain.Code)
			}

			partial := do(t, s, http.MethodPost, "/cells", tt.form, true)
			if partial.Code != http.StatusOK || !strings.Contains(partial.Body.String(), `class="error"`) {
				t.Errorf("expected inline error for htmx, got %d", partial.Code)
			}

			if store.Snapshot().TotalHours != 0 {
				t.Error("rejected cell must not change the grid")
			}
		})
	}
}

func TestSetWeek(t *testing.T) {
	s, store := testServer(t, nil)

	do(t, s, http.MethodPost, "/week", url.Values{"week": {"week2"}}, true)

	if store.Snapshot().ActiveWeek != domain.Week2 {
		t.Errorf("expected week2, got %s", store.Snapshot().ActiveWeek)
	}

	rec := do(t, s, http.MethodPost, "/week", url.Values{"week": {"week9"}}, false)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestAPISummary(t *testing.T) {
	s, store := testServer(t, nil)
	ctx := context.Background()
	store.AddProject(ctx, "Alpha")
	for _, slot := range domain.TimeSlots {
		_, _ = store.SetActivity(ctx, domain.Week1, "Lunedì", slot, "Alpha")
	}

	rec := do(t, s, http.MethodGet, "/api/summary", nil, false)

	var resp summaryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(resp.Rows) != 1 || resp.Rows[0].Name != "Alpha" || resp.Rows[0].StoryPoints != 1.0 {
		t.Errorf("unexpected rows %+v", resp.Rows)
	}
	if resp.TotalHours != 8 || resp.TotalStoryPoints != 1.0 {
		t.Errorf("unexpected totals %v / %v", resp.TotalHours, resp.TotalStoryPoints)
	}
}

func TestAPISummary_EmptyRowsIsArray(t *testing.T) {
	s, _ := testServer(t, nil)

	rec := do(t, s, http.MethodGet, "/api/summary", nil, false)

	if !strings.Contains(rec.Body.String(), `"rows":[]`) {
		t.Errorf("expected empty rows array, got %s", rec.Body.String())
	}
}

func TestAPIExport(t *testing.T) {
	s, _ := testServer(t, nil)

	tests := []struct {
		query       string
		wantCode    int
		contentType string
	}{
		{"", http.StatusOK, "application/json"},
		{"?format=json", http.StatusOK, "application/json"},
		{"?format=csv", http.StatusOK, "text/csv"},
		{"?format=xml", http.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		rec := do(t, s, http.MethodGet, "/api/export"+tt.query, nil, false)
		if rec.Code != tt.wantCode {
			t.Errorf("%s: expected %d, got %d", tt.query, tt.wantCode, rec.Code)
			continue
		}
		if tt.contentType != "" && rec.Header().Get("Content-Type") != tt.contentType {
			t.Errorf("%s: expected %s, got %s", tt.query, tt.contentType, rec.Header().Get("Content-Type"))
		}
	}
}

func TestArchives(t *testing.T) {
	created := time.Date(2026, 3, 13, 18, 0, 0, 0, time.UTC)
	sprint := &domain.Archive{
		ID: "a1", Label: "Sprint 12", TotalHours: 8, TotalStoryPoints: 1, CreatedAt: created,
		Rows: []domain.ChartRow{{Name: "Alpha", Hours: 8, StoryPoints: 1}},
	}
	repo := &ports.MockArchiveRepository{
		ListFunc: func(ctx context.Context, limit int) ([]*domain.Archive, error) {
			return []*domain.Archive{sprint}, nil
		},
		GetByIDFunc: func(ctx context.Context, id string) (*domain.Archive, error) {
			if id == "a1" {
				return sprint, nil
			}
			return nil, domain.ErrArchiveNotFound
		},
	}
	s, _ := testServer(t, repo)

	page := do(t, s, http.MethodGet, "/", nil, false)
	if !strings.Contains(page.Body.String(), "Sprint 12") {
		t.Error("expected archived sprint on the page")
	}

	list := do(t, s, http.MethodGet, "/api/archives", nil, false)
	var archives []archiveResponse
	if err := json.Unmarshal(list.Body.Bytes(), &archives); err != nil || len(archives) != 1 {
		t.Fatalf("unexpected archives response %s (%v)", list.Body.String(), err)
	}

	detail := do(t, s, http.MethodGet, "/api/archives/a1", nil, false)
	var one archiveResponse
	if err := json.Unmarshal(detail.Body.Bytes(), &one); err != nil || len(one.Rows) != 1 {
		t.Errorf("unexpected archive detail %s (%v)", detail.Body.String(), err)
	}

	missing := do(t, s, http.MethodGet, "/api/archives/zz", nil, false)
	if missing.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", missing.Code)
	}
}

func TestArchives_ListFailureKeepsPage(t *testing.T) {
	repo := &ports.MockArchiveRepository{
		ListFunc: func(ctx context.Context, limit int) ([]*domain.Archive, error) {
			return nil, errors.New("database is locked")
		},
	}
	s, _ := testServer(t, repo)

	rec := do(t, s, http.MethodGet, "/", nil, false)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestArchives_WithoutDatabase(t *testing.T) {
	s, _ := testServer(t, nil)

	rec := do(t, s, http.MethodGet, "/api/archives", nil, false)

	if rec.Code != http.StatusNotImplemented {
		t.Errorf("expected 501, got %d", rec.Code)
	}
}
