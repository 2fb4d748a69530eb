package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/emiliopalmerini/sprintsheet/internal/ports"
	"github.com/emiliopalmerini/sprintsheet/internal/timesheet"
	"github.com/emiliopalmerini/sprintsheet/internal/web/middleware"
	"github.com/emiliopalmerini/sprintsheet/internal/web/static"
)

const recentArchives = 5

type Server struct {
	store           *timesheet.Store
	archives        ports.ArchiveRepository
	router          chi.Router
	port            int
	logger          *slog.Logger
	shutdownTimeout time.Duration
}

// NewServer wires the sprint page around store. archives may be nil when no
// database is available; the archive list is then hidden.
func NewServer(store *timesheet.Store, archives ports.ArchiveRepository, port int, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		store:           store,
		archives:        archives,
		router:          chi.NewRouter(),
		port:            port,
		logger:          logger,
		shutdownTimeout: 5 * time.Second,
	}
	s.setupRoutes()
	return s
}

// WithShutdownTimeout bounds how long Start waits for in-flight requests.
func (s *Server) WithShutdownTimeout(d time.Duration) *Server {
	s.shutdownTimeout = d
	return s
}

func (s *Server) setupRoutes() {
	r := s.router

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.HTMX)
	r.Use(middleware.Logging(s.logger))
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServerFS(static.FS)))

	// Pages
	r.Get("/", s.handleIndex)

	// Mutations answer HTMX with the sheet partial, plain forms with a redirect.
	r.Post("/projects", s.handleAddProject)
	r.Post("/projects/delete", s.handleRemoveProject)
	r.Post("/cells", s.handleSetCell)
	r.Post("/week", s.handleSetWeek)

	// API
	r.Route("/api", func(r chi.Router) {
		r.Get("/summary", s.handleAPISummary)
		r.Get("/archives", s.handleAPIArchives)
		r.Get("/archives/{id}", s.handleAPIArchive)
		r.Get("/export", s.handleAPIExport)
	})
}

// Handler returns the router with its middleware chain.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("starting server", "url", fmt.Sprintf("http://localhost:%d", s.port))

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("server shutdown error", "err", err)
		}
	}()

	err := server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
