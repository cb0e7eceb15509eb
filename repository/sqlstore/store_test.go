package sqlstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/example/dot-journal/domain/journal"
	"github.com/example/dot-journal/repository/memory"
	"github.com/example/dot-journal/repository/repotest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openTestStore opens a store on a fresh file under t.TempDir.
func openTestStore(t *testing.T, path string) *Store {
	t.Helper()

	store, err := Open(context.Background(), Config{Path: path})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func tempDBPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "journal", "dot.db")
}

func TestStore_Contract(t *testing.T) {
	repotest.RunAll(t, func(t *testing.T) journal.UnitOfWorkFactory {
		return openTestStore(t, tempDBPath(t))
	})
}

func TestStore_InMemoryDatabase(t *testing.T) {
	store := openTestStore(t, ":memory:")
	task := repotest.NewTask("kept across transactions", journal.StatusTodo, time.Now())

	repotest.Commit(t, store, func(ctx context.Context, uow journal.UnitOfWork) {
		require.NoError(t, uow.Tasks().Add(ctx, task))
	})
	repotest.Read(t, store, func(ctx context.Context, uow journal.UnitOfWork) {
		_, ok, err := uow.Tasks().Get(ctx, task.ID)
		require.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestOpen_CreatesDirectory(t *testing.T) {
	path := tempDBPath(t)
	store := openTestStore(t, path)

	assert.Equal(t, path, store.Path())
	_, err := os.Stat(path)
	assert.NoError(t, err)
	assert.NoError(t, store.Ping(context.Background()))
}

func TestOpen_Failures(t *testing.T) {
	t.Run("empty path", func(t *testing.T) {
		_, err := Open(context.Background(), Config{})
		assert.ErrorIs(t, err, journal.ErrStorageUnavailable)
	})

	t.Run("directory cannot be created", func(t *testing.T) {
		// A regular file where a directory is expected fails even for root.
		blocker := filepath.Join(t.TempDir(), "blocker")
		require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

		_, err := Open(context.Background(), Config{Path: filepath.Join(blocker, "sub", "dot.db")})
		assert.ErrorIs(t, err, journal.ErrStorageUnavailable)
	})

	t.Run("path is a directory", func(t *testing.T) {
		_, err := Open(context.Background(), Config{Path: t.TempDir()})
		assert.ErrorIs(t, err, journal.ErrStorageUnavailable)
	})
}

func TestStore_CommitSurvivesReopen(t *testing.T) {
	path := tempDBPath(t)
	task := repotest.NewTask("durable", journal.StatusTodo, time.Date(2025, 3, 4, 5, 6, 7, 8, time.UTC))
	event := repotest.NewEvent("durable", time.Date(2025, 3, 4, 8, 0, 0, 1, time.UTC))

	first, err := Open(context.Background(), Config{Path: path})
	require.NoError(t, err)
	repotest.Commit(t, first, func(ctx context.Context, uow journal.UnitOfWork) {
		require.NoError(t, uow.Tasks().Add(ctx, task))
		require.NoError(t, uow.Events().Add(ctx, event))
	})

	uow, err := first.Begin(context.Background())
	require.NoError(t, err)
	require.NoError(t, uow.Notes().Add(context.Background(), repotest.NewNote("lost", time.Now())))
	require.NoError(t, uow.Rollback(context.Background()))
	require.NoError(t, first.Close())

	second := openTestStore(t, path)
	repotest.Read(t, second, func(ctx context.Context, uow journal.UnitOfWork) {
		got, ok, err := uow.Tasks().Get(ctx, task.ID)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, task, got)

		gotEvent, ok, err := uow.Events().Get(ctx, event.ID)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, event, gotEvent)

		notes, err := uow.Notes().List(ctx)
		require.NoError(t, err)
		assert.Empty(t, notes)
	})
}

func TestStore_StatusCheckConstraint(t *testing.T) {
	store := openTestStore(t, tempDBPath(t))

	row := taskRow{
		ID:           "raw",
		Title:        "bypasses validation",
		Status:       "archived",
		CreatedAtSec: 1,
		UpdatedAtSec: 1,
	}
	err := store.db.Create(&row).Error
	assert.Error(t, err)
}

func TestStore_CorruptRowIsReported(t *testing.T) {
	store := openTestStore(t, tempDBPath(t))

	// Valid status but updated before created.
	row := taskRow{
		ID:           "corrupt",
		Title:        "time travel",
		Status:       string(journal.StatusTodo),
		CreatedAtSec: 200,
		UpdatedAtSec: 100,
	}
	require.NoError(t, store.db.Create(&row).Error)

	repotest.Read(t, store, func(ctx context.Context, uow journal.UnitOfWork) {
		_, _, err := uow.Tasks().Get(ctx, "corrupt")
		assert.ErrorIs(t, err, journal.ErrStorageUnavailable)

		_, err = uow.Tasks().List(ctx, journal.TaskFilter{})
		assert.ErrorIs(t, err, journal.ErrStorageUnavailable)
	})
}

func TestStore_ClosedDatabaseIsUnavailable(t *testing.T) {
	store, err := Open(context.Background(), Config{Path: tempDBPath(t)})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	_, err = store.Begin(context.Background())
	assert.ErrorIs(t, err, journal.ErrStorageUnavailable)
	assert.ErrorIs(t, store.Ping(context.Background()), journal.ErrStorageUnavailable)
}

// The same sequence of operations must leave both backends with the same
// observable state.
func TestStore_MatchesMemoryStore(t *testing.T) {
	backends := map[string]journal.UnitOfWorkFactory{
		"memory": memory.NewStore(),
		"sqlite": openTestStore(t, tempDBPath(t)),
	}

	day := journal.NewDate(2025, time.June, 10)
	tasks := []journal.Task{
		repotest.NewTask("b", journal.StatusTodo, day.Start().Add(3*time.Hour)),
		repotest.NewTask("a", journal.StatusDone, day.Start().Add(time.Hour)),
		repotest.NewTask("other day", journal.StatusTodo, day.End()),
	}
	events := []journal.Event{
		repotest.NewEvent("meeting", day.Start().Add(2*time.Hour)),
		repotest.NewEvent("review", day.AddDays(1).Start()),
	}
	note := repotest.NewNote("thoughts", day.Start().Add(5*time.Hour))
	cancelled := journal.MarkCancelled(tasks[0])

	logs := make(map[string][]journal.DailyLogEntry)
	for name, factory := range backends {
		repotest.Commit(t, factory, func(ctx context.Context, uow journal.UnitOfWork) {
			for _, task := range tasks {
				require.NoError(t, uow.Tasks().Add(ctx, task))
			}
			for _, event := range events {
				require.NoError(t, uow.Events().Add(ctx, event))
			}
			require.NoError(t, uow.Notes().Add(ctx, note))
		})
		repotest.Commit(t, factory, func(ctx context.Context, uow journal.UnitOfWork) {
			require.NoError(t, uow.Tasks().Update(ctx, cancelled))
			require.NoError(t, uow.Events().Delete(ctx, events[1].ID))
		})
		repotest.Read(t, factory, func(ctx context.Context, uow journal.UnitOfWork) {
			entries, err := journal.ComposeRange(ctx, uow, day, day.AddDays(1))
			require.NoError(t, err)
			logs[name] = entries
		})
	}

	require.Len(t, logs["sqlite"], 2)
	assert.Equal(t, logs["memory"], logs["sqlite"])
	assert.Len(t, logs["sqlite"][0].Tasks, 2)
	assert.Len(t, logs["sqlite"][1].Events, 0)
}
