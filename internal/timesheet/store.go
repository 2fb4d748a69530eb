// Package timesheet owns the sprint timesheet: the assignment grid, the
// project list and the derived summary. Every mutation is written through to
// a ports.Storage before it returns.
package timesheet

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/emiliopalmerini/sprintsheet/internal/domain"
	"github.com/emiliopalmerini/sprintsheet/internal/ports"
)

// Snapshot is a read-only copy of the store state for presentation layers.
type Snapshot struct {
	Assignments      domain.Timesheet
	Projects         []string
	ProjectHours     domain.ProjectHours
	ChartRows        []domain.ChartRow
	ActiveWeek       domain.Week
	TotalHours       float64
	TotalStoryPoints float64
}

// Store holds the canonical timesheet state. Callers are serialised, so a
// Store may be shared by concurrent HTTP handlers.
type Store struct {
	mu      sync.Mutex
	storage ports.Storage
	logger  *slog.Logger
	opts    domain.SummaryOptions

	timesheet  domain.Timesheet
	projects   []string
	activeWeek domain.Week
	summary    domain.Summary
}

// Option configures a Store.
type Option func(*Store)

// WithSummaryOptions sets the chart ordering and split policy.
func WithSummaryOptions(opts domain.SummaryOptions) Option {
	return func(s *Store) { s.opts = opts }
}

// WithLogger sets the logger used for load and persist failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// New creates a store backed by storage. Pass storage.NoOp when persistence
// is unavailable. The store starts empty; call Initialize to load persisted state.
func New(storage ports.Storage, opts ...Option) *Store {
	s := &Store{
		storage:    storage,
		logger:     slog.Default(),
		timesheet:  domain.NewTimesheet(),
		projects:   []string{},
		activeWeek: domain.Week1,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.recompute()
	return s
}

// Initialize loads both keys from storage. A missing or malformed value is
// replaced by its empty default and logged; it is never returned as an error.
func (s *Store) Initialize(ctx context.Context) (domain.Timesheet, []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.timesheet = s.loadTimesheet(ctx)
	s.projects = s.loadProjects(ctx)
	s.recompute()

	return s.timesheet.Clone(), copyProjects(s.projects)
}

func (s *Store) loadTimesheet(ctx context.Context) domain.Timesheet {
	raw, ok, err := s.storage.Get(ctx, ports.KeyTimesheet)
	if err != nil {
		s.logger.Warn("failed to load timesheet, starting empty", "err", err)
		return domain.NewTimesheet()
	}
	if !ok {
		return domain.NewTimesheet()
	}

	var parsed domain.Timesheet
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		s.logger.Warn("malformed timesheet in storage, starting empty", "err", err)
		return domain.NewTimesheet()
	}
	if parsed[domain.Week1] == nil || parsed[domain.Week2] == nil {
		s.logger.Warn("stored timesheet lacks a week section, starting empty")
		return domain.NewTimesheet()
	}
	return parsed.Normalize()
}

func (s *Store) loadProjects(ctx context.Context) []string {
	raw, ok, err := s.storage.Get(ctx, ports.KeyProjects)
	if err != nil {
		s.logger.Warn("failed to load projects, starting empty", "err", err)
		return []string{}
	}
	if !ok {
		return []string{}
	}

	var parsed []string
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		s.logger.Warn("malformed projects in storage, starting empty", "err", err)
		return []string{}
	}

	// Drop entries that could never have been added.
	projects := []string{}
	for _, p := range parsed {
		projects, _ = domain.AddProject(projects, p)
	}
	return projects
}

// AddProject appends name to the project list. Empty or duplicate names are
// ignored and nothing is persisted.
func (s *Store) AddProject(ctx context.Context, name string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	projects, added := domain.AddProject(s.projects, name)
	if !added {
		return copyProjects(s.projects)
	}
	s.projects = projects
	s.persist(ctx, ports.KeyProjects, s.projects)
	s.recompute()

	return copyProjects(s.projects)
}

// RemoveProject drops name from the project list and clears every cell equal
// to name. Split cells containing name as a component are kept as they are.
func (s *Store) RemoveProject(ctx context.Context, name string) ([]string, domain.Timesheet) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.projects = domain.RemoveProject(s.projects, name)
	cleared := s.timesheet.ClearActivity(name)
	s.logger.Debug("project removed", "project", name, "cleared_cells", cleared)

	s.persist(ctx, ports.KeyProjects, s.projects)
	s.persist(ctx, ports.KeyTimesheet, s.timesheet)
	s.recompute()

	return copyProjects(s.projects), s.timesheet.Clone()
}

// SetActivity overwrites one cell. value is stored verbatim and need not be
// a known project. Coordinates outside the fixed grid are rejected.
func (s *Store) SetActivity(ctx context.Context, week domain.Week, day, slot, value string) (domain.Timesheet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.timesheet.Set(week, day, slot, value); err != nil {
		return s.timesheet.Clone(), err
	}
	s.persist(ctx, ports.KeyTimesheet, s.timesheet)
	s.recompute()

	return s.timesheet.Clone(), nil
}

// SetActiveWeek changes which week presentation layers show. It is not persisted.
func (s *Store) SetActiveWeek(week domain.Week) error {
	if week != domain.Week1 && week != domain.Week2 {
		return fmt.Errorf("%w: %q", domain.ErrUnknownWeek, week)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeWeek = week
	return nil
}

// Reset clears every cell and keeps the project list.
func (s *Store) Reset(ctx context.Context) domain.Timesheet {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.timesheet = domain.NewTimesheet()
	s.persist(ctx, ports.KeyTimesheet, s.timesheet)
	s.recompute()

	return s.timesheet.Clone()
}

// Snapshot returns a copy of the current state and its derived summary.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	hours := make(domain.ProjectHours, len(s.summary.Hours))
	for k, v := range s.summary.Hours {
		hours[k] = v
	}
	rows := make([]domain.ChartRow, len(s.summary.Rows))
	copy(rows, s.summary.Rows)

	return Snapshot{
		Assignments:      s.timesheet.Clone(),
		Projects:         copyProjects(s.projects),
		ProjectHours:     hours,
		ChartRows:        rows,
		ActiveWeek:       s.activeWeek,
		TotalHours:       s.summary.TotalHours,
		TotalStoryPoints: s.summary.TotalStoryPoints,
	}
}

// Summary returns the derived summary of the current state.
func (s *Store) Summary() domain.Summary {
	snap := s.Snapshot()
	return domain.Summary{
		Hours:            snap.ProjectHours,
		Rows:             snap.ChartRows,
		TotalHours:       snap.TotalHours,
		TotalStoryPoints: snap.TotalStoryPoints,
	}
}

// persist writes v under key. Failures are logged and the in-memory state
// stays authoritative.
func (s *Store) persist(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.logger.Error("failed to encode state", "key", key, "err", err)
		return
	}
	if err := s.storage.Set(ctx, key, string(data)); err != nil {
		s.logger.Error("failed to persist state", "key", key, "err", err)
	}
}

func (s *Store) recompute() {
	s.summary = domain.Summarize(s.timesheet, s.projects, s.opts)
}

func copyProjects(p []string) []string {
	out := make([]string, len(p))
	copy(out, p)
	return out
}
