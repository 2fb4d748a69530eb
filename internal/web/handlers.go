package web

import (
	"context"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/emiliopalmerini/sprintsheet/internal/domain"
	"github.com/emiliopalmerini/sprintsheet/internal/timesheet"
	"github.com/emiliopalmerini/sprintsheet/internal/web/middleware"
	"github.com/emiliopalmerini/sprintsheet/internal/web/templates"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	page := s.fetchPage(ctx)
	if err := templates.SprintPage(page).Render(ctx, w); err != nil {
		s.logger.Error("failed to render page", "err", err)
	}
}

func (s *Server) fetchPage(ctx context.Context) templates.Page {
	var (
		snap     timesheet.Snapshot
		archives []*domain.Archive
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		snap = s.store.Snapshot()
		return nil
	})

	g.Go(func() error {
		if s.archives == nil {
			return nil
		}
		var err error
		archives, err = s.archives.List(gctx, recentArchives)
		if err != nil {
			s.logger.Warn("failed to list archives", "err", err)
		}
		return nil
	})

	_ = g.Wait()

	return buildPage(snap, archives)
}

func buildPage(snap timesheet.Snapshot, archives []*domain.Archive) templates.Page {
	page := templates.Page{
		Projects:   snap.Projects,
		ActiveWeek: string(snap.ActiveWeek),
		Days:       domain.Days,
	}

	for _, wk := range domain.Weeks {
		page.Weeks = append(page.Weeks, templates.WeekTab{
			ID:     string(wk),
			Label:  wk.Label(),
			Active: wk == snap.ActiveWeek,
		})
	}

	for _, slot := range domain.TimeSlots {
		row := templates.GridRow{Slot: slot}
		for _, day := range domain.Days {
			value := snap.Assignments.Get(snap.ActiveWeek, day, slot)
			row.Cells = append(row.Cells, templates.Cell{
				Day:    day,
				Slot:   slot,
				Value:  value,
				Orphan: value != "" && !domain.ContainsProject(snap.Projects, value),
			})
		}
		page.Rows = append(page.Rows, row)
	}

	page.Summary = templates.SummaryView{
		TotalHours:       snap.TotalHours,
		TotalStoryPoints: snap.TotalStoryPoints,
	}
	for _, row := range snap.ChartRows {
		page.Summary.Rows = append(page.Summary.Rows, templates.SummaryRow{
			Name:        row.Name,
			Hours:       row.Hours,
			StoryPoints: row.StoryPointsLabel(),
		})
		if row.Hours > page.Summary.MaxHours {
			page.Summary.MaxHours = row.Hours
		}
	}

	for _, a := range archives {
		page.Archives = append(page.Archives, templates.ArchiveItem{
			ID:               a.ID,
			Label:            a.Label,
			TotalHours:       a.TotalHours,
			TotalStoryPoints: a.TotalStoryPoints,
			CreatedAt:        a.CreatedAt,
		})
	}

	return page
}

// respond finishes a mutation. HTMX gets the refreshed sheet, with msg shown
// as an inline error; plain form posts are redirected back to the page.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, msg string) {
	ctx := r.Context()

	if middleware.IsHTMX(r) {
		page := s.fetchPage(ctx)
		page.Error = msg
		if err := templates.Sheet(page).Render(ctx, w); err != nil {
			s.logger.Error("failed to render sheet", "err", err)
		}
		return
	}

	if msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleAddProject(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}
	s.store.AddProject(r.Context(), r.PostFormValue("name"))
	s.respond(w, r, "")
}

func (s *Server) handleRemoveProject(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}
	s.store.RemoveProject(r.Context(), r.PostFormValue("name"))
	s.respond(w, r, "")
}

func (s *Server) handleSetCell(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	week, err := domain.ParseWeek(r.PostFormValue("week"))
	if err != nil {
		s.respond(w, r, err.Error())
		return
	}
	if _, err := s.store.SetActivity(r.Context(), week, r.PostFormValue("day"), r.PostFormValue("slot"), r.PostFormValue("value")); err != nil {
		s.respond(w, r, err.Error())
		return
	}
	s.respond(w, r, "")
}

func (s *Server) handleSetWeek(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	week, err := domain.ParseWeek(r.PostFormValue("week"))
	if err == nil {
		err = s.store.SetActiveWeek(week)
	}
	if err != nil {
		s.respond(w, r, err.Error())
		return
	}
	s.respond(w, r, "")
}
