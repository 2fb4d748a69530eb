package timesheet

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emiliopalmerini/sprintsheet/internal/adapters/storage"
	"github.com/emiliopalmerini/sprintsheet/internal/domain"
	"github.com/emiliopalmerini/sprintsheet/internal/ports"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// recordingStorage wraps Memory and counts writes per key.
type recordingStorage struct {
	*storage.Memory
	writes map[string]int
	getErr error
	setErr error
}

func newRecordingStorage() *recordingStorage {
	return &recordingStorage{Memory: storage.NewMemory(), writes: map[string]int{}}
}

func (r *recordingStorage) Get(ctx context.Context, key string) (string, bool, error) {
	if r.getErr != nil {
		return "", false, r.getErr
	}
	return r.Memory.Get(ctx, key)
}

func (r *recordingStorage) Set(ctx context.Context, key, value string) error {
	r.writes[key]++
	if r.setErr != nil {
		return r.setErr
	}
	return r.Memory.Set(ctx, key, value)
}

func newStore(t *testing.T, st ports.Storage, opts ...Option) *Store {
	t.Helper()
	opts = append([]Option{WithLogger(testLogger())}, opts...)
	s := New(st, opts...)
	s.Initialize(context.Background())
	return s
}

func TestInitialize_EmptyStorage(t *testing.T) {
	s := New(storage.NewMemory(), WithLogger(testLogger()))

	ts, projects := s.Initialize(context.Background())

	assert.True(t, ts.IsTotal())
	assert.Empty(t, projects)
	assert.Equal(t, domain.Week1, s.Snapshot().ActiveWeek)
}

func TestInitialize_MalformedStorage(t *testing.T) {
	tests := []struct {
		name      string
		timesheet string
		projects  string
	}{
		{"not json", "{{not json", "nope"},
		{"missing week2", `{"week1":{}}`, `["Alpha"`},
		{"null weeks", `{"week1":null,"week2":null}`, `{"a":1}`},
		{"wrong cell type", `{"week1":{"Lunedì":{"09:00-10:00":3}},"week2":{}}`, `[1,2]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := storage.NewMemory()
			ctx := context.Background()
			require.NoError(t, st.Set(ctx, ports.KeyTimesheet, tt.timesheet))
			require.NoError(t, st.Set(ctx, ports.KeyProjects, tt.projects))

			s := New(st, WithLogger(testLogger()))
			ts, projects := s.Initialize(ctx)

			assert.True(t, ts.IsTotal())
			assert.Equal(t, domain.NewTimesheet(), ts)
			assert.Empty(t, projects)
		})
	}
}

func TestInitialize_StorageError(t *testing.T) {
	st := newRecordingStorage()
	st.getErr = errors.New("disk on fire")

	s := New(st, WithLogger(testLogger()))
	ts, projects := s.Initialize(context.Background())

	assert.True(t, ts.IsTotal())
	assert.Empty(t, projects)
}

func TestInitialize_KeysFallBackIndependently(t *testing.T) {
	st := storage.NewMemory()
	ctx := context.Background()
	require.NoError(t, st.Set(ctx, ports.KeyTimesheet, "garbage"))
	require.NoError(t, st.Set(ctx, ports.KeyProjects, `["Alpha","Beta"]`))

	s := New(st, WithLogger(testLogger()))
	_, projects := s.Initialize(ctx)

	assert.Equal(t, []string{"Alpha", "Beta"}, projects)
}

func TestInitialize_PartialGridIsCompleted(t *testing.T) {
	st := storage.NewMemory()
	ctx := context.Background()
	require.NoError(t, st.Set(ctx, ports.KeyTimesheet, `{"week1":{"Lunedì":{"09:00-10:00":"Alpha"}},"week2":{}}`))

	s := New(st, WithLogger(testLogger()))
	ts, _ := s.Initialize(ctx)

	assert.True(t, ts.IsTotal())
	assert.Equal(t, "Alpha", ts.Get(domain.Week1, "Lunedì", "09:00-10:00"))
	assert.Equal(t, 1.0, s.Snapshot().ProjectHours["Alpha"])
}

func TestPersistenceRoundTrip(t *testing.T) {
	st := storage.NewMemory()
	ctx := context.Background()
	s := newStore(t, st)

	_, err := s.SetActivity(ctx, domain.Week1, "Lunedì", "09:00-10:00", "X")
	require.NoError(t, err)

	reloaded := New(st, WithLogger(testLogger()))
	ts, _ := reloaded.Initialize(ctx)

	assert.Equal(t, "X", ts.Get(domain.Week1, "Lunedì", "09:00-10:00"))
	assert.True(t, ts.IsTotal())
}

func TestAddProject(t *testing.T) {
	st := newRecordingStorage()
	ctx := context.Background()
	s := newStore(t, st)

	once := s.AddProject(ctx, "Alpha")
	twice := s.AddProject(ctx, "Alpha")
	assert.Equal(t, once, twice)
	assert.Equal(t, []string{"Alpha"}, twice)
	assert.Equal(t, 1, st.writes[ports.KeyProjects], "duplicate add must not persist")

	s.AddProject(ctx, "")
	assert.Equal(t, 1, st.writes[ports.KeyProjects], "empty add must not persist")

	projects := s.AddProject(ctx, "Beta")
	assert.Equal(t, []string{"Alpha", "Beta"}, projects)
	assert.Equal(t, 0, st.writes[ports.KeyTimesheet])
}

func TestRemoveProject_ClearsExactCells(t *testing.T) {
	st := newRecordingStorage()
	ctx := context.Background()
	s := newStore(t, st)

	s.AddProject(ctx, "Alpha")
	s.AddProject(ctx, "Beta")
	_, _ = s.SetActivity(ctx, domain.Week1, "Lunedì", "09:00-10:00", "Alpha")
	_, _ = s.SetActivity(ctx, domain.Week2, "Venerdì", "16:00-17:00", "Alpha")
	_, _ = s.SetActivity(ctx, domain.Week1, "Martedì", "10:00-11:00", "Beta")
	writesBefore := st.writes[ports.KeyTimesheet]

	projects, ts := s.RemoveProject(ctx, "Alpha")

	assert.Equal(t, []string{"Beta"}, projects)
	ts.Each(func(_ domain.Week, _, _, activity string) {
		assert.NotEqual(t, "Alpha", activity)
	})
	assert.Equal(t, "Beta", ts.Get(domain.Week1, "Martedì", "10:00-11:00"))
	assert.Zero(t, s.Snapshot().ProjectHours["Alpha"])
	assert.Equal(t, writesBefore+1, st.writes[ports.KeyTimesheet])
	assert.True(t, ts.IsTotal())
}

// Removal matches whole cells only: a split cell keeps crediting the removed
// project. This pins the behaviour rather than fixing it.
func TestRemoveProject_SplitCellsSurvive(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, storage.NewMemory())

	s.AddProject(ctx, "Alpha")
	_, _ = s.SetActivity(ctx, domain.Week1, "Lunedì", "09:00-10:00", "Alpha/Beta")

	_, ts := s.RemoveProject(ctx, "Alpha")

	assert.Equal(t, "Alpha/Beta", ts.Get(domain.Week1, "Lunedì", "09:00-10:00"))
	assert.Equal(t, 0.5, s.Snapshot().ProjectHours["Alpha"])
}

func TestSetActivity(t *testing.T) {
	st := newRecordingStorage()
	ctx := context.Background()
	s := newStore(t, st)

	ts, err := s.SetActivity(ctx, domain.Week2, "Sabato", "17:00-18:00", "not-a-project")
	require.NoError(t, err)
	assert.Equal(t, "not-a-project", ts.Get(domain.Week2, "Sabato", "17:00-18:00"))
	assert.Equal(t, 1, st.writes[ports.KeyTimesheet])

	snap := s.Snapshot()
	require.Len(t, snap.ChartRows, 1)
	assert.Equal(t, "not-a-project", snap.ChartRows[0].Name)

	_, err = s.SetActivity(ctx, domain.Week2, "Sabato", "17:00-18:00", "")
	require.NoError(t, err)
	assert.Empty(t, s.Snapshot().ChartRows)
}

func TestSetActivity_UnknownCell(t *testing.T) {
	st := newRecordingStorage()
	ctx := context.Background()
	s := newStore(t, st)

	ts, err := s.SetActivity(ctx, domain.Week1, "Domenica", "09:00-10:00", "X")

	assert.ErrorIs(t, err, domain.ErrUnknownDay)
	assert.True(t, ts.IsTotal())
	assert.Equal(t, 0, st.writes[ports.KeyTimesheet])
}

func TestPersistFailure_KeepsMemoryState(t *testing.T) {
	st := newRecordingStorage()
	st.setErr = errors.New("quota exceeded")
	ctx := context.Background()
	s := newStore(t, st)

	projects := s.AddProject(ctx, "Alpha")
	ts, err := s.SetActivity(ctx, domain.Week1, "Lunedì", "09:00-10:00", "Alpha")

	require.NoError(t, err)
	assert.Equal(t, []string{"Alpha"}, projects)
	assert.Equal(t, "Alpha", ts.Get(domain.Week1, "Lunedì", "09:00-10:00"))
	assert.Equal(t, 1.0, s.Snapshot().ProjectHours["Alpha"])

	_, ok, _ := st.Memory.Get(ctx, ports.KeyTimesheet)
	assert.False(t, ok, "nothing reached storage")
}

func TestNoOpStorage_PureMemory(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, storage.NewNoOp())

	s.AddProject(ctx, "Alpha")
	_, err := s.SetActivity(ctx, domain.Week1, "Lunedì", "09:00-10:00", "Alpha")
	require.NoError(t, err)
	assert.Equal(t, 1.0, s.Snapshot().ProjectHours["Alpha"])

	fresh := New(storage.NewNoOp(), WithLogger(testLogger()))
	ts, projects := fresh.Initialize(ctx)
	assert.Empty(t, projects)
	assert.Equal(t, domain.NewTimesheet(), ts)
}

func TestSetActiveWeek(t *testing.T) {
	st := newRecordingStorage()
	s := newStore(t, st)

	require.NoError(t, s.SetActiveWeek(domain.Week2))
	assert.Equal(t, domain.Week2, s.Snapshot().ActiveWeek)
	assert.ErrorIs(t, s.SetActiveWeek("week3"), domain.ErrUnknownWeek)
	assert.Empty(t, st.writes, "active week is never persisted")
}

func TestSnapshot_IsACopy(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, storage.NewMemory())
	s.AddProject(ctx, "Alpha")

	snap := s.Snapshot()
	snap.Projects[0] = "mutated"
	_ = snap.Assignments.Set(domain.Week1, "Lunedì", "09:00-10:00", "mutated")

	again := s.Snapshot()
	assert.Equal(t, []string{"Alpha"}, again.Projects)
	assert.Equal(t, "", again.Assignments.Get(domain.Week1, "Lunedì", "09:00-10:00"))
}

func TestSummaryOptions(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, storage.NewMemory(), WithSummaryOptions(domain.SummaryOptions{
		Order: domain.OrderByProjects,
		Split: domain.SplitEven,
	}))

	s.AddProject(ctx, "Alpha")
	s.AddProject(ctx, "Beta")
	_, _ = s.SetActivity(ctx, domain.Week1, "Lunedì", "09:00-10:00", "Beta/Gamma/Delta")

	snap := s.Snapshot()
	require.Len(t, snap.ChartRows, 2)
	assert.Equal(t, "Alpha", snap.ChartRows[0].Name)
	assert.Equal(t, "Beta", snap.ChartRows[1].Name)
	assert.InDelta(t, 1.0/3, snap.ChartRows[1].Hours, 1e-9)
	assert.InDelta(t, 1.0, snap.TotalHours, 1e-9)
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, storage.NewMemory())
	s.AddProject(ctx, "Alpha")
	_, _ = s.SetActivity(ctx, domain.Week1, "Lunedì", "09:00-10:00", "Alpha")

	ts := s.Reset(ctx)

	assert.Equal(t, domain.NewTimesheet(), ts)
	assert.Equal(t, []string{"Alpha"}, s.Snapshot().Projects)
	assert.Zero(t, s.Snapshot().TotalHours)
}

func TestStore_DiscardLogger(t *testing.T) {
	// A store must work with any slog handler, including one that drops everything.
	s := New(storage.NewMemory(), WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	s.Initialize(context.Background())
	assert.True(t, s.Snapshot().Assignments.IsTotal())
}
