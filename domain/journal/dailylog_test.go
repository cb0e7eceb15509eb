package journal_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/dot-journal/domain/journal"
	"github.com/example/dot-journal/repository/memory"
	"github.com/example/dot-journal/repository/repotest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errDiskGone = errors.New("disk gone")

// failingEvents is an EventRepository whose reads fail.
type failingEvents struct {
	journal.EventRepository
}

func (failingEvents) ListByDate(context.Context, journal.Date) ([]journal.Event, error) {
	return nil, errDiskGone
}

// brokenUnit wraps a real unit but swaps in failingEvents.
type brokenUnit struct {
	journal.UnitOfWork
}

func (u brokenUnit) Events() journal.EventRepository {
	return failingEvents{u.UnitOfWork.Events()}
}

func seed(t *testing.T, store *memory.Store, day journal.Date) {
	t.Helper()
	repotest.Commit(t, store, func(ctx context.Context, uow journal.UnitOfWork) {
		require.NoError(t, uow.Tasks().Add(ctx, repotest.NewTask("late task", journal.StatusTodo, day.Start().Add(20*time.Hour))))
		require.NoError(t, uow.Tasks().Add(ctx, repotest.NewTask("early task", journal.StatusDone, day.Start().Add(8*time.Hour))))
		require.NoError(t, uow.Events().Add(ctx, repotest.NewEvent("tomorrow", day.End().Add(time.Hour))))
		require.NoError(t, uow.Events().Add(ctx, repotest.NewEvent("lunch", day.Start().Add(12*time.Hour))))
		require.NoError(t, uow.Notes().Add(ctx, repotest.NewNote("yesterday", day.Start().Add(-time.Minute))))
	})
}

func TestComposeDailyLog(t *testing.T) {
	store := memory.NewStore()
	day := journal.NewDate(2025, 11, 17)
	seed(t, store, day)

	repotest.Read(t, store, func(ctx context.Context, uow journal.UnitOfWork) {
		entry, err := journal.ComposeDailyLog(ctx, uow, day)
		require.NoError(t, err)
		assert.Equal(t, day, entry.Date)
		require.Len(t, entry.Tasks, 2)
		assert.Equal(t, "early task", entry.Tasks[0].Title)
		assert.Equal(t, "late task", entry.Tasks[1].Title)
		require.Len(t, entry.Events, 1)
		assert.Equal(t, "lunch", entry.Events[0].Title)
		assert.Empty(t, entry.Notes)

		quiet, err := journal.ComposeDailyLog(ctx, uow, day.AddDays(10))
		require.NoError(t, err)
		assert.True(t, quiet.Empty())
	})
}

func TestComposeDailyLog_ReadFailure(t *testing.T) {
	store := memory.NewStore()
	day := journal.NewDate(2025, 11, 17)
	seed(t, store, day)

	repotest.Read(t, store, func(ctx context.Context, uow journal.UnitOfWork) {
		entry, err := journal.ComposeDailyLog(ctx, brokenUnit{uow}, day)
		assert.ErrorIs(t, err, errDiskGone)
		assert.Contains(t, err.Error(), "2025-11-17")
		assert.Equal(t, journal.DailyLogEntry{}, entry)
	})
}

func TestComposeRange(t *testing.T) {
	store := memory.NewStore()
	day := journal.NewDate(2025, 11, 17)
	seed(t, store, day)

	repotest.Read(t, store, func(ctx context.Context, uow journal.UnitOfWork) {
		entries, err := journal.ComposeRange(ctx, uow, day.AddDays(-1), day.AddDays(1))
		require.NoError(t, err)
		require.Len(t, entries, 3)
		assert.Equal(t, day.AddDays(-1), entries[0].Date)
		assert.Len(t, entries[0].Notes, 1)
		assert.Len(t, entries[1].Tasks, 2)
		assert.Len(t, entries[2].Events, 1)

		single, err := journal.ComposeRange(ctx, uow, day, day)
		require.NoError(t, err)
		assert.Len(t, single, 1)

		_, err = journal.ComposeRange(ctx, uow, day, day.AddDays(-1))
		assert.ErrorIs(t, err, journal.ErrValidation)

		_, err = journal.ComposeRange(ctx, brokenUnit{uow}, day, day.AddDays(1))
		assert.ErrorIs(t, err, errDiskGone)
	})
}

func TestScenario_BuyMilk(t *testing.T) {
	store := memory.NewStore()

	task, err := journal.CreateTask("Buy milk", "")
	require.NoError(t, err)
	repotest.Commit(t, store, func(ctx context.Context, uow journal.UnitOfWork) {
		require.NoError(t, uow.Tasks().Add(ctx, task))
	})

	repotest.Commit(t, store, func(ctx context.Context, uow journal.UnitOfWork) {
		all, err := uow.Tasks().List(ctx, journal.TaskFilter{})
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Equal(t, journal.StatusTodo, all[0].Status)

		require.NoError(t, uow.Tasks().Update(ctx, journal.MarkDone(all[0])))
	})

	repotest.Read(t, store, func(ctx context.Context, uow journal.UnitOfWork) {
		done, err := uow.Tasks().List(ctx, journal.TaskFilter{Status: journal.StatusDone})
		require.NoError(t, err)
		require.Len(t, done, 1)
		assert.Equal(t, task.ID, done[0].ID)

		todo, err := uow.Tasks().List(ctx, journal.TaskFilter{Status: journal.StatusTodo})
		require.NoError(t, err)
		assert.Empty(t, todo)
	})
}

func TestScenario_EventAndNoteOnOneDay(t *testing.T) {
	store := memory.NewStore()
	occurred := time.Date(2025, 11, 17, 14, 0, 0, 0, time.UTC)

	event, err := journal.CreateEvent("Dentist", "", &occurred)
	require.NoError(t, err)
	note := repotest.NewNote("Thoughts", time.Date(2025, 11, 17, 20, 0, 0, 0, time.UTC))
	repotest.Commit(t, store, func(ctx context.Context, uow journal.UnitOfWork) {
		require.NoError(t, uow.Events().Add(ctx, event))
		require.NoError(t, uow.Notes().Add(ctx, note))
	})

	repotest.Read(t, store, func(ctx context.Context, uow journal.UnitOfWork) {
		entry, err := journal.ComposeDailyLog(ctx, uow, journal.NewDate(2025, 11, 17))
		require.NoError(t, err)
		assert.Equal(t, []journal.Event{event}, entry.Events)
		assert.Equal(t, []journal.Note{note}, entry.Notes)

		next, err := journal.ComposeDailyLog(ctx, uow, journal.NewDate(2025, 11, 18))
		require.NoError(t, err)
		assert.Empty(t, next.Tasks)
		assert.Empty(t, next.Events)
		assert.Empty(t, next.Notes)
	})
}
