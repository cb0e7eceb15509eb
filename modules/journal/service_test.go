package journal

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/example/dot-journal/config"
	domain "github.com/example/dot-journal/domain/journal"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockLogger implements types.Logger for testing
type mockLogger struct{}

func (m *mockLogger) Debug(msg string, args ...any)          {}
func (m *mockLogger) Info(msg string, args ...any)           {}
func (m *mockLogger) Warn(msg string, args ...any)           {}
func (m *mockLogger) Error(msg string, args ...any)          {}
func (m *mockLogger) With(args ...any) types.Logger          { return m }
func (m *mockLogger) WithError(err error) types.Logger       { return m }
func (m *mockLogger) WithModule(module string) types.Logger { return m }

// createTestModule starts a module on the given backend.
func createTestModule(t *testing.T, backend string) *Module {
	t.Helper()

	cfg := config.Default()
	cfg.Home = t.TempDir()
	cfg.Backend = backend

	module := NewModule(cfg, &mockLogger{})
	require.NoError(t, module.Start(context.Background()))
	t.Cleanup(func() { _ = module.Stop(context.Background()) })
	return module
}

func forEachBackend(t *testing.T, fn func(t *testing.T, m *Module)) {
	for _, backend := range []string{config.BackendMemory, config.BackendSQLite} {
		t.Run(backend, func(t *testing.T) {
			fn(t, createTestModule(t, backend))
		})
	}
}

func ptr[T any](v T) *T { return &v }

func TestTaskLifecycle(t *testing.T) {
	forEachBackend(t, func(t *testing.T, m *Module) {
		ctx := context.Background()

		created, err := m.createTask(ctx, CreateTaskRequest{Title: "Write report", Description: "Q3"}, nil)
		require.NoError(t, err)
		assert.Equal(t, "todo", created.Status)

		done, err := m.completeTask(ctx, TaskIDRequest{TaskID: created.ID}, nil)
		require.NoError(t, err)
		assert.Equal(t, "done", done.Status)
		assert.False(t, done.UpdatedAt.Before(created.UpdatedAt))

		cancelled, err := m.cancelTask(ctx, TaskIDRequest{TaskID: created.ID}, nil)
		require.NoError(t, err)
		assert.Equal(t, "cancelled", cancelled.Status)

		reopened, err := m.reopenTask(ctx, TaskIDRequest{TaskID: created.ID}, nil)
		require.NoError(t, err)
		assert.Equal(t, "todo", reopened.Status)

		updated, err := m.updateTask(ctx, UpdateTaskRequest{TaskID: created.ID, Description: ptr("")}, nil)
		require.NoError(t, err)
		assert.Equal(t, "Write report", updated.Title)
		assert.Equal(t, "", updated.Description)

		got, err := m.getTask(ctx, TaskIDRequest{TaskID: created.ID}, nil)
		require.NoError(t, err)
		assert.Equal(t, updated, got)

		deleted, err := m.deleteTask(ctx, TaskIDRequest{TaskID: created.ID}, nil)
		require.NoError(t, err)
		assert.True(t, deleted.Deleted)

		again, err := m.deleteTask(ctx, TaskIDRequest{TaskID: created.ID}, nil)
		require.NoError(t, err)
		assert.False(t, again.Deleted)

		_, err = m.getTask(ctx, TaskIDRequest{TaskID: created.ID}, nil)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestTaskErrors(t *testing.T) {
	m := createTestModule(t, config.BackendMemory)
	ctx := context.Background()

	_, err := m.createTask(ctx, CreateTaskRequest{Title: "  "}, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = m.getTask(ctx, TaskIDRequest{}, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = m.completeTask(ctx, TaskIDRequest{TaskID: "missing"}, nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = m.updateTask(ctx, UpdateTaskRequest{TaskID: "missing", Title: ptr("x")}, nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = m.listTasks(ctx, ListTasksRequest{Status: "archived"}, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestUpdateTask_InvalidTitleLeavesTaskUnchanged(t *testing.T) {
	m := createTestModule(t, config.BackendSQLite)
	ctx := context.Background()

	created, err := m.createTask(ctx, CreateTaskRequest{Title: "keep me"}, nil)
	require.NoError(t, err)

	_, err = m.updateTask(ctx, UpdateTaskRequest{TaskID: created.ID, Title: ptr("")}, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)

	got, err := m.getTask(ctx, TaskIDRequest{TaskID: created.ID}, nil)
	require.NoError(t, err)
	assert.Equal(t, "keep me", got.Title)
}

func TestListTasks(t *testing.T) {
	forEachBackend(t, func(t *testing.T, m *Module) {
		ctx := context.Background()
		var ids []string
		for _, title := range []string{"one", "two", "three"} {
			resp, err := m.createTask(ctx, CreateTaskRequest{Title: title}, nil)
			require.NoError(t, err)
			ids = append(ids, resp.ID)
		}
		_, err := m.completeTask(ctx, TaskIDRequest{TaskID: ids[1]}, nil)
		require.NoError(t, err)

		all, err := m.listTasks(ctx, ListTasksRequest{}, nil)
		require.NoError(t, err)
		assert.Equal(t, 3, all.Total)
		assert.Equal(t, "one", all.Tasks[0].Title)
		assert.Equal(t, "three", all.Tasks[2].Title)

		done, err := m.listTasks(ctx, ListTasksRequest{Status: "done"}, nil)
		require.NoError(t, err)
		require.Equal(t, 1, done.Total)
		assert.Equal(t, ids[1], done.Tasks[0].ID)
	})
}

func TestEvents(t *testing.T) {
	forEachBackend(t, func(t *testing.T, m *Module) {
		ctx := context.Background()
		monday := domain.NewDate(2025, time.November, 17)

		standup, err := m.recordEvent(ctx, RecordEventRequest{Title: "Standup", OccurredAt: ptr(monday.Start().Add(9 * time.Hour))}, nil)
		require.NoError(t, err)
		_, err = m.recordEvent(ctx, RecordEventRequest{Title: "Retro", OccurredAt: ptr(monday.AddDays(4).Start().Add(15 * time.Hour))}, nil)
		require.NoError(t, err)

		_, err = m.recordEvent(ctx, RecordEventRequest{Title: ""}, nil)
		assert.ErrorIs(t, err, domain.ErrValidation)

		got, err := m.getEvent(ctx, EventIDRequest{EventID: standup.ID}, nil)
		require.NoError(t, err)
		assert.Equal(t, standup, got)

		all, err := m.listEvents(ctx, ListEventsRequest{}, nil)
		require.NoError(t, err)
		assert.Equal(t, 2, all.Total)

		firstDays, err := m.listEventsRange(ctx, EventRangeRequest{Start: monday, End: monday.AddDays(2)}, nil)
		require.NoError(t, err)
		require.Equal(t, 1, firstDays.Total)
		assert.Equal(t, "Standup", firstDays.Events[0].Title)

		reversed, err := m.listEventsRange(ctx, EventRangeRequest{Start: monday.AddDays(4), End: monday}, nil)
		require.NoError(t, err)
		assert.Equal(t, 0, reversed.Total)

		_, err = m.listEventsRange(ctx, EventRangeRequest{End: monday}, nil)
		assert.ErrorIs(t, err, domain.ErrValidation)
		_, err = m.listEventsRange(ctx, EventRangeRequest{Start: monday}, nil)
		assert.ErrorIs(t, err, domain.ErrValidation)
		_, err = m.listEventsRange(ctx, EventRangeRequest{}, nil)
		assert.ErrorIs(t, err, domain.ErrValidation)

		deleted, err := m.deleteEvent(ctx, EventIDRequest{EventID: standup.ID}, nil)
		require.NoError(t, err)
		assert.True(t, deleted.Deleted)

		_, err = m.getEvent(ctx, EventIDRequest{EventID: standup.ID}, nil)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestNotes(t *testing.T) {
	forEachBackend(t, func(t *testing.T, m *Module) {
		ctx := context.Background()

		note, err := m.createNote(ctx, CreateNoteRequest{Title: "Idea", Content: "ship it"}, nil)
		require.NoError(t, err)

		_, err = m.createNote(ctx, CreateNoteRequest{Title: "Empty", Content: ""}, nil)
		assert.ErrorIs(t, err, domain.ErrValidation)

		got, err := m.getNote(ctx, NoteIDRequest{NoteID: note.ID}, nil)
		require.NoError(t, err)
		assert.Equal(t, note, got)

		list, err := m.listNotes(ctx, ListNotesRequest{}, nil)
		require.NoError(t, err)
		assert.Equal(t, 1, list.Total)

		deleted, err := m.deleteNote(ctx, NoteIDRequest{NoteID: note.ID}, nil)
		require.NoError(t, err)
		assert.True(t, deleted.Deleted)

		_, err = m.getNote(ctx, NoteIDRequest{NoteID: note.ID}, nil)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestDailyAndWeeklyLog(t *testing.T) {
	forEachBackend(t, func(t *testing.T, m *Module) {
		ctx := context.Background()
		today := domain.Today()

		task, err := m.createTask(ctx, CreateTaskRequest{Title: "today's task"}, nil)
		require.NoError(t, err)
		_, err = m.createNote(ctx, CreateNoteRequest{Title: "today's note", Content: "text"}, nil)
		require.NoError(t, err)
		_, err = m.recordEvent(ctx, RecordEventRequest{Title: "next week", OccurredAt: ptr(today.AddDays(7).Start())}, nil)
		require.NoError(t, err)

		daily, err := m.dailyLog(ctx, LogRequest{}, nil)
		require.NoError(t, err)
		assert.Equal(t, today, daily.Date)
		require.Len(t, daily.Tasks, 1)
		assert.Equal(t, task.ID, daily.Tasks[0].ID)
		assert.Len(t, daily.Notes, 1)
		assert.Empty(t, daily.Events)
		assert.False(t, daily.Empty)

		quiet, err := m.dailyLog(ctx, LogRequest{Date: ptr(today.AddDays(-30))}, nil)
		require.NoError(t, err)
		assert.True(t, quiet.Empty)

		weekly, err := m.weeklyLog(ctx, LogRequest{Date: &today}, nil)
		require.NoError(t, err)
		require.Len(t, weekly.Days, 7)
		assert.Equal(t, time.Monday, weekly.Start.Weekday())
		assert.Equal(t, time.Sunday, weekly.End.Weekday())
		assert.Equal(t, weekly.Start, weekly.Days[0].Date)

		var tasks int
		for _, day := range weekly.Days {
			tasks += len(day.Tasks)
			assert.Empty(t, day.Events)
		}
		assert.Equal(t, 1, tasks)
	})
}

func TestMonthlyLog(t *testing.T) {
	forEachBackend(t, func(t *testing.T, m *Module) {
		ctx := context.Background()
		mid := domain.NewDate(2024, time.February, 14)

		_, err := m.recordEvent(ctx, RecordEventRequest{Title: "first", OccurredAt: ptr(domain.NewDate(2024, time.February, 1).Start())}, nil)
		require.NoError(t, err)
		_, err = m.recordEvent(ctx, RecordEventRequest{Title: "leap day", OccurredAt: ptr(domain.NewDate(2024, time.February, 29).Start().Add(23 * time.Hour))}, nil)
		require.NoError(t, err)
		_, err = m.recordEvent(ctx, RecordEventRequest{Title: "march", OccurredAt: ptr(domain.NewDate(2024, time.March, 1).Start())}, nil)
		require.NoError(t, err)

		monthly, err := m.monthlyLog(ctx, LogRequest{Date: &mid}, nil)
		require.NoError(t, err)
		assert.Equal(t, domain.NewDate(2024, time.February, 1), monthly.Start)
		assert.Equal(t, domain.NewDate(2024, time.February, 29), monthly.End)
		require.Len(t, monthly.Days, 29)
		assert.Equal(t, monthly.Start, monthly.Days[0].Date)
		assert.Equal(t, monthly.End, monthly.Days[28].Date)

		require.Len(t, monthly.Days[0].Events, 1)
		assert.Equal(t, "first", monthly.Days[0].Events[0].Title)
		require.Len(t, monthly.Days[28].Events, 1)
		assert.Equal(t, "leap day", monthly.Days[28].Events[0].Title)

		current, err := m.monthlyLog(ctx, LogRequest{}, nil)
		require.NoError(t, err)
		today := domain.Today()
		assert.Equal(t, domain.MonthStart(today.Year, today.Month), current.Start)
		assert.Equal(t, 1, current.Start.Day)
	})
}

func TestModuleLifecycle(t *testing.T) {
	cfg := config.Default()
	cfg.Home = t.TempDir()
	module := NewModule(cfg, &mockLogger{})
	ctx := context.Background()

	assert.Equal(t, "journal", module.Name())
	assert.Len(t, module.EmitEvents(), 7)
	assert.False(t, module.Health(ctx).Healthy)

	_, err := module.createTask(ctx, CreateTaskRequest{Title: "too early"}, nil)
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)

	require.NoError(t, module.Start(ctx))
	health := module.Health(ctx)
	assert.True(t, health.Healthy)
	assert.Equal(t, filepath.Join(cfg.Home, "dot.db"), health.Details["path"])

	require.NoError(t, module.Stop(ctx))
	assert.False(t, module.Health(ctx).Healthy)
	assert.NoError(t, module.Stop(ctx))
}

func TestModuleStart_UnwritableHome(t *testing.T) {
	cfg := config.Default()
	cfg.Home = filepath.Join(t.TempDir(), "file")
	cfg.DBName = "dot.db"
	require.NoError(t, writeFile(cfg.Home))
	// Home is a regular file, so the database directory cannot be created.
	cfg.Home = filepath.Join(cfg.Home, "nested")

	module := NewModule(cfg, &mockLogger{})
	err := module.Start(context.Background())
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
}

func writeFile(path string) error {
	return os.WriteFile(path, []byte("not a directory"), 0o600)
}
