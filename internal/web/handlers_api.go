package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/emiliopalmerini/sprintsheet/internal/domain"
	"github.com/emiliopalmerini/sprintsheet/internal/timesheet"
)

type summaryResponse struct {
	ActiveWeek       domain.Week         `json:"active_week"`
	Projects         []string            `json:"projects"`
	ProjectHours     domain.ProjectHours `json:"project_hours"`
	Rows             []domain.ChartRow   `json:"rows"`
	TotalHours       float64             `json:"total_hours"`
	TotalStoryPoints float64             `json:"total_story_points"`
}

type archiveResponse struct {
	ID               string            `json:"id"`
	Label            string            `json:"label"`
	Rows             []domain.ChartRow `json:"rows,omitempty"`
	TotalHours       float64           `json:"total_hours"`
	TotalStoryPoints float64           `json:"total_story_points"`
	CreatedAt        string            `json:"created_at"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) handleAPISummary(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Snapshot()

	rows := snap.ChartRows
	if rows == nil {
		rows = []domain.ChartRow{}
	}
	writeJSON(w, http.StatusOK, summaryResponse{
		ActiveWeek:       snap.ActiveWeek,
		Projects:         snap.Projects,
		ProjectHours:     snap.ProjectHours,
		Rows:             rows,
		TotalHours:       snap.TotalHours,
		TotalStoryPoints: snap.TotalStoryPoints,
	})
}

func (s *Server) handleAPIArchives(w http.ResponseWriter, r *http.Request) {
	if s.archives == nil {
		http.Error(w, "archives need a database", http.StatusNotImplemented)
		return
	}

	archives, err := s.archives.List(r.Context(), 0)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	out := make([]archiveResponse, 0, len(archives))
	for _, a := range archives {
		out = append(out, archiveResponse{
			ID:               a.ID,
			Label:            a.Label,
			TotalHours:       a.TotalHours,
			TotalStoryPoints: a.TotalStoryPoints,
			CreatedAt:        a.CreatedAt.Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAPIArchive(w http.ResponseWriter, r *http.Request) {
	if s.archives == nil {
		http.Error(w, "archives need a database", http.StatusNotImplemented)
		return
	}

	a, err := s.archives.GetByID(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, domain.ErrArchiveNotFound) {
		http.Error(w, "Archive not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, archiveResponse{
		ID:               a.ID,
		Label:            a.Label,
		Rows:             a.Rows,
		TotalHours:       a.TotalHours,
		TotalStoryPoints: a.TotalStoryPoints,
		CreatedAt:        a.CreatedAt.Format(time.RFC3339),
	})
}

func (s *Server) handleAPIExport(w http.ResponseWriter, r *http.Request) {
	format, err := timesheet.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	switch format {
	case timesheet.FormatCSV:
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", "attachment; filename=timesheet.csv")
	default:
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", "attachment; filename=timesheet.json")
	}

	if err := timesheet.WriteExport(w, s.store.Snapshot(), format); err != nil {
		s.logger.Error("failed to write export", "format", format, "err", err)
	}
}
