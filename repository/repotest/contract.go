// Package repotest holds the behaviour every journal storage backend must
// share. Backend packages call the Run*Contract functions from their tests.
package repotest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/dot-journal/domain/journal"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory returns a fresh, empty storage target for one test.
type Factory func(t *testing.T) journal.UnitOfWorkFactory

// RunAll runs every contract against newFactory.
func RunAll(t *testing.T, newFactory Factory) {
	t.Run("Tasks", func(t *testing.T) { RunTaskContract(t, newFactory) })
	t.Run("Events", func(t *testing.T) { RunEventContract(t, newFactory) })
	t.Run("Notes", func(t *testing.T) { RunNoteContract(t, newFactory) })
	t.Run("UnitOfWork", func(t *testing.T) { RunUnitOfWorkContract(t, newFactory) })
}

// Fixed instants used across the contracts. Nanoseconds are non-zero so
// that lossy timestamp storage shows up as a failure.
var (
	day      = journal.NewDate(2025, time.November, 17)
	morning  = time.Date(2025, time.November, 17, 9, 30, 0, 123456789, time.UTC)
	noon     = time.Date(2025, time.November, 17, 12, 0, 0, 987654321, time.UTC)
	evening  = time.Date(2025, time.November, 17, 23, 59, 59, 999999999, time.UTC)
	midnight = time.Date(2025, time.November, 18, 0, 0, 0, 0, time.UTC)
	earlier  = time.Date(2025, time.November, 16, 23, 59, 59, 999999999, time.UTC)
)

// NewTask builds a valid task created at ts.
func NewTask(title string, status journal.TaskStatus, ts time.Time) journal.Task {
	return journal.Task{
		ID:          uuid.New().String(),
		Title:       title,
		Description: "about " + title,
		Status:      status,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
}

// NewEvent builds a valid event occurring at ts.
func NewEvent(title string, ts time.Time) journal.Event {
	return journal.Event{
		ID:         uuid.New().String(),
		Title:      title,
		OccurredAt: ts,
		CreatedAt:  morning,
	}
}

// NewNote builds a valid note created at ts.
func NewNote(title string, ts time.Time) journal.Note {
	return journal.Note{
		ID:        uuid.New().String(),
		Title:     title,
		Content:   "content of " + title,
		CreatedAt: ts,
	}
}

// Commit runs fn inside a unit of work and commits it, failing the test on
// any error.
func Commit(t *testing.T, factory journal.UnitOfWorkFactory, fn func(ctx context.Context, uow journal.UnitOfWork)) {
	t.Helper()
	err := journal.Run(context.Background(), factory, func(ctx context.Context, uow journal.UnitOfWork) error {
		fn(ctx, uow)
		return uow.Commit(ctx)
	})
	require.NoError(t, err)
}

// Read runs fn inside a unit of work that is rolled back afterwards.
func Read(t *testing.T, factory journal.UnitOfWorkFactory, fn func(ctx context.Context, uow journal.UnitOfWork)) {
	t.Helper()
	err := journal.Run(context.Background(), factory, func(ctx context.Context, uow journal.UnitOfWork) error {
		fn(ctx, uow)
		return nil
	})
	require.NoError(t, err)
}

func taskTitles(tasks []journal.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, task.Title)
	}
	return out
}

func eventTitles(events []journal.Event) []string {
	out := make([]string, 0, len(events))
	for _, event := range events {
		out = append(out, event.Title)
	}
	return out
}

func noteTitles(notes []journal.Note) []string {
	out := make([]string, 0, len(notes))
	for _, note := range notes {
		out = append(out, note.Title)
	}
	return out
}

// RunTaskContract checks TaskRepository behaviour.
func RunTaskContract(t *testing.T, newFactory Factory) {
	t.Run("add then get returns an equal task", func(t *testing.T) {
		factory := newFactory(t)
		task := NewTask("write report", journal.StatusTodo, morning)

		Commit(t, factory, func(ctx context.Context, uow journal.UnitOfWork) {
			require.NoError(t, uow.Tasks().Add(ctx, task))
		})
		Read(t, factory, func(ctx context.Context, uow journal.UnitOfWork) {
			got, ok, err := uow.Tasks().Get(ctx, task.ID)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, task, got)
		})
	})

	t.Run("timestamps come back in UTC", func(t *testing.T) {
		factory := newFactory(t)
		zone := time.FixedZone("UTC+5", 5*60*60)
		local := time.Date(2025, time.November, 18, 3, 0, 0, 42, zone)
		task := NewTask("zoned", journal.StatusTodo, local)

		Commit(t, factory, func(ctx context.Context, uow journal.UnitOfWork) {
			require.NoError(t, uow.Tasks().Add(ctx, task))
		})
		Read(t, factory, func(ctx context.Context, uow journal.UnitOfWork) {
			got, ok, err := uow.Tasks().Get(ctx, task.ID)
			require.NoError(t, err)
			require.True(t, ok)
			assert.True(t, got.CreatedAt.Equal(local))
			assert.Equal(t, time.UTC, got.CreatedAt.Location())

			// 03:00 at +05:00 is the previous UTC day.
			onDay, err := uow.Tasks().ListByDate(ctx, journal.NewDate(2025, time.November, 17))
			require.NoError(t, err)
			assert.Equal(t, []string{"zoned"}, taskTitles(onDay))
		})
	})

	t.Run("get unknown id reports absence", func(t *testing.T) {
		factory := newFactory(t)
		Read(t, factory, func(ctx context.Context, uow journal.UnitOfWork) {
			_, ok, err := uow.Tasks().Get(ctx, "missing")
			require.NoError(t, err)
			assert.False(t, ok)
		})
	})

	t.Run("add rejects a duplicate id", func(t *testing.T) {
		factory := newFactory(t)
		task := NewTask("once", journal.StatusTodo, morning)
		Commit(t, factory, func(ctx context.Context, uow journal.UnitOfWork) {
			require.NoError(t, uow.Tasks().Add(ctx, task))
		})
		Read(t, factory, func(ctx context.Context, uow journal.UnitOfWork) {
			again := task
			again.Title = "twice"
			err := uow.Tasks().Add(ctx, again)
			assert.ErrorIs(t, err, journal.ErrDuplicateID)

			got, _, err := uow.Tasks().Get(ctx, task.ID)
			require.NoError(t, err)
			assert.Equal(t, "once", got.Title)
		})
	})

	t.Run("add rejects an invalid task", func(t *testing.T) {
		factory := newFactory(t)
		Read(t, factory, func(ctx context.Context, uow journal.UnitOfWork) {
			bad := NewTask("bad", journal.TaskStatus("archived"), morning)
			assert.ErrorIs(t, uow.Tasks().Add(ctx, bad), journal.ErrValidation)

			blank := NewTask("   ", journal.StatusTodo, morning)
			assert.ErrorIs(t, uow.Tasks().Add(ctx, blank), journal.ErrValidation)

			all, err := uow.Tasks().List(ctx, journal.TaskFilter{})
			require.NoError(t, err)
			assert.Empty(t, all)
		})
	})

	t.Run("update replaces the stored task", func(t *testing.T) {
		factory := newFactory(t)
		task := NewTask("draft", journal.StatusTodo, morning)
		Commit(t, factory, func(ctx context.Context, uow journal.UnitOfWork) {
			require.NoError(t, uow.Tasks().Add(ctx, task))
		})

		done := task
		done.Status = journal.StatusDone
		done.Description = ""
		done.UpdatedAt = noon
		Commit(t, factory, func(ctx context.Context, uow journal.UnitOfWork) {
			require.NoError(t, uow.Tasks().Update(ctx, done))
		})

		Read(t, factory, func(ctx context.Context, uow journal.UnitOfWork) {
			got, ok, err := uow.Tasks().Get(ctx, task.ID)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, done, got)
		})
	})

	t.Run("update unknown id fails with not found", func(t *testing.T) {
		factory := newFactory(t)
		Read(t, factory, func(ctx context.Context, uow journal.UnitOfWork) {
			err := uow.Tasks().Update(ctx, NewTask("ghost", journal.StatusTodo, morning))
			assert.ErrorIs(t, err, journal.ErrNotFound)
		})
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		factory := newFactory(t)
		task := NewTask("temporary", journal.StatusTodo, morning)
		Commit(t, factory, func(ctx context.Context, uow journal.UnitOfWork) {
			require.NoError(t, uow.Tasks().Add(ctx, task))
			require.NoError(t, uow.Tasks().Delete(ctx, task.ID))
			require.NoError(t, uow.Tasks().Delete(ctx, task.ID))
			require.NoError(t, uow.Tasks().Delete(ctx, "never-existed"))
		})
		Read(t, factory, func(ctx context.Context, uow journal.UnitOfWork) {
			_, ok, err := uow.Tasks().Get(ctx, task.ID)
			require.NoError(t, err)
			assert.False(t, ok)
		})
	})

	t.Run("list keeps insertion order and filters by status", func(t *testing.T) {
		factory := newFactory(t)
		// Inserted out of timestamp order on purpose.
		c := NewTask("c", journal.StatusDone, evening)
		a := NewTask("a", journal.StatusTodo, morning)
		b := NewTask("b", journal.StatusTodo, noon)
		Commit(t, factory, func(ctx context.Context, uow journal.UnitOfWork) {
			for _, task := range []journal.Task{c, a, b} {
				require.NoError(t, uow.Tasks().Add(ctx, task))
			}
		})
		Read(t, factory, func(ctx context.Context, uow journal.UnitOfWork) {
			all, err := uow.Tasks().List(ctx, journal.TaskFilter{})
			require.NoError(t, err)
			assert.Equal(t, []string{"c", "a", "b"}, taskTitles(all))

			todo, err := uow.Tasks().List(ctx, journal.TaskFilter{Status: journal.StatusTodo})
			require.NoError(t, err)
			assert.Equal(t, []string{"a", "b"}, taskTitles(todo))

			cancelled, err := uow.Tasks().List(ctx, journal.TaskFilter{Status: journal.StatusCancelled})
			require.NoError(t, err)
			assert.Empty(t, cancelled)
		})
	})

	t.Run("list by date honours day boundaries", func(t *testing.T) {
		factory := newFactory(t)
		Commit(t, factory, func(ctx context.Context, uow journal.UnitOfWork) {
			for _, task := range []journal.Task{
				NewTask("late", journal.StatusTodo, evening),
				NewTask("before", journal.StatusTodo, earlier),
				NewTask("early", journal.StatusTodo, day.Start()),
				NewTask("next day", journal.StatusTodo, midnight),
				NewTask("mid", journal.StatusDone, noon),
			} {
				require.NoError(t, uow.Tasks().Add(ctx, task))
			}
		})
		Read(t, factory, func(ctx context.Context, uow journal.UnitOfWork) {
			got, err := uow.Tasks().ListByDate(ctx, day)
			require.NoError(t, err)
			assert.Equal(t, []string{"early", "mid", "late"}, taskTitles(got))

			none, err := uow.Tasks().ListByDate(ctx, day.AddDays(5))
			require.NoError(t, err)
			assert.Empty(t, none)
		})
	})

	t.Run("list by date breaks timestamp ties by insertion order", func(t *testing.T) {
		factory := newFactory(t)
		Commit(t, factory, func(ctx context.Context, uow journal.UnitOfWork) {
			require.NoError(t, uow.Tasks().Add(ctx, NewTask("second", journal.StatusTodo, noon)))
			require.NoError(t, uow.Tasks().Add(ctx, NewTask("first", journal.StatusTodo, morning)))
			require.NoError(t, uow.Tasks().Add(ctx, NewTask("third", journal.StatusTodo, noon)))
		})
		Read(t, factory, func(ctx context.Context, uow journal.UnitOfWork) {
			got, err := uow.Tasks().ListByDate(ctx, day)
			require.NoError(t, err)
			assert.Equal(t, []string{"first", "second", "third"}, taskTitles(got))
		})
	})

	t.Run("list by date returns the same sequence when repeated", func(t *testing.T) {
		factory := newFactory(t)
		Commit(t, factory, func(ctx context.Context, uow journal.UnitOfWork) {
			require.NoError(t, uow.Tasks().Add(ctx, NewTask("b", journal.StatusTodo, noon)))
			require.NoError(t, uow.Tasks().Add(ctx, NewTask("a", journal.StatusDone, morning)))
			require.NoError(t, uow.Tasks().Add(ctx, NewTask("c", journal.StatusTodo, noon)))
			require.NoError(t, uow.Tasks().Add(ctx, NewTask("other day", journal.StatusTodo, earlier)))
		})

		var first []journal.Task
		Read(t, factory, func(ctx context.Context, uow journal.UnitOfWork) {
			var err error
			first, err = uow.Tasks().ListByDate(ctx, day)
			require.NoError(t, err)
			again, err := uow.Tasks().ListByDate(ctx, day)
			require.NoError(t, err)
			assert.Equal(t, first, again)
		})
		Read(t, factory, func(ctx context.Context, uow journal.UnitOfWork) {
			again, err := uow.Tasks().ListByDate(ctx, day)
			require.NoError(t, err)
			assert.Equal(t, first, again)
		})
		assert.Equal(t, []string{"a", "b", "c"}, taskTitles(first))
	})

	t.Run("timestamps far from the present round trip", func(t *testing.T) {
		factory := newFactory(t)
		future := time.Date(2300, time.January, 1, 12, 0, 0, 1, time.UTC)
		task := NewTask("far future", journal.StatusTodo, future)
		task.UpdatedAt = future.AddDate(5, 0, 0)

		Commit(t, factory, func(ctx context.Context, uow journal.UnitOfWork) {
			require.NoError(t, uow.Tasks().Add(ctx, task))
		})
		Read(t, factory, func(ctx context.Context, uow journal.UnitOfWork) {
			got, ok, err := uow.Tasks().Get(ctx, task.ID)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, task, got)

			onDay, err := uow.Tasks().ListByDate(ctx, journal.DateOf(future))
			require.NoError(t, err)
			assert.Equal(t, []journal.Task{task}, onDay)
		})
	})
}

// RunEventContract checks EventRepository behaviour.
func RunEventContract(t *testing.T, newFactory Factory) {
	t.Run("add then get returns an equal event", func(t *testing.T) {
		factory := newFactory(t)
		event := NewEvent("standup", noon)
		event.Description = "daily sync"

		Commit(t, factory, func(ctx context.Context, uow journal.UnitOfWork) {
			require.NoError(t, uow.Events().Add(ctx, event))
		})
		Read(t, factory, func(ctx context.Context, uow journal.UnitOfWork) {
			got, ok, err := uow.Events().Get(ctx, event.ID)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, event, got)

			_, ok, err = uow.Events().Get(ctx, "missing")
			require.NoError(t, err)
			assert.False(t, ok)
		})
	})

	t.Run("add rejects a duplicate id", func(t *testing.T) {
		factory := newFactory(t)
		event := NewEvent("once", noon)
		Read(t, factory, func(ctx context.Context, uow journal.UnitOfWork) {
			require.NoError(t, uow.Events().Add(ctx, event))
			assert.ErrorIs(t, uow.Events().Add(ctx, event), journal.ErrDuplicateID)
		})
	})

	t.Run("list and delete", func(t *testing.T) {
		factory := newFactory(t)
		b := NewEvent("b", evening)
		a := NewEvent("a", morning)
		Commit(t, factory, func(ctx context.Context, uow journal.UnitOfWork) {
			require.NoError(t, uow.Events().Add(ctx, b))
			require.NoError(t, uow.Events().Add(ctx, a))
		})
		Commit(t, factory, func(ctx context.Context, uow journal.UnitOfWork) {
			all, err := uow.Events().List(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"b", "a"}, eventTitles(all))

			require.NoError(t, uow.Events().Delete(ctx, b.ID))
			require.NoError(t, uow.Events().Delete(ctx, b.ID))
		})
		Read(t, factory, func(ctx context.Context, uow journal.UnitOfWork) {
			all, err := uow.Events().List(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"a"}, eventTitles(all))
		})
	})

	t.Run("list by date uses occurred at", func(t *testing.T) {
		factory := newFactory(t)
		recordedLater := NewEvent("recorded later", noon)
		recordedLater.CreatedAt = midnight.AddDate(0, 0, 3)
		Commit(t, factory, func(ctx context.Context, uow journal.UnitOfWork) {
			require.NoError(t, uow.Events().Add(ctx, NewEvent("late", evening)))
			require.NoError(t, uow.Events().Add(ctx, recordedLater))
			require.NoError(t, uow.Events().Add(ctx, NewEvent("yesterday", earlier)))
			require.NoError(t, uow.Events().Add(ctx, NewEvent("tomorrow", midnight)))
		})
		Read(t, factory, func(ctx context.Context, uow journal.UnitOfWork) {
			got, err := uow.Events().ListByDate(ctx, day)
			require.NoError(t, err)
			assert.Equal(t, []string{"recorded later", "late"}, eventTitles(got))
		})
	})

	t.Run("list by range is inclusive on both ends", func(t *testing.T) {
		factory := newFactory(t)
		Commit(t, factory, func(ctx context.Context, uow journal.UnitOfWork) {
			require.NoError(t, uow.Events().Add(ctx, NewEvent("d+2", noon.AddDate(0, 0, 2))))
			require.NoError(t, uow.Events().Add(ctx, NewEvent("d", noon)))
			require.NoError(t, uow.Events().Add(ctx, NewEvent("d-1", earlier)))
			require.NoError(t, uow.Events().Add(ctx, NewEvent("d+1", midnight)))
			require.NoError(t, uow.Events().Add(ctx, NewEvent("d+3", midnight.AddDate(0, 0, 2))))
		})
		Read(t, factory, func(ctx context.Context, uow journal.UnitOfWork) {
			got, err := uow.Events().ListByRange(ctx, day, day.AddDays(2))
			require.NoError(t, err)
			assert.Equal(t, []string{"d", "d+1", "d+2"}, eventTitles(got))

			single, err := uow.Events().ListByRange(ctx, day, day)
			require.NoError(t, err)
			assert.Equal(t, []string{"d"}, eventTitles(single))
		})
	})

	t.Run("list by range with end before start is empty", func(t *testing.T) {
		factory := newFactory(t)
		Commit(t, factory, func(ctx context.Context, uow journal.UnitOfWork) {
			require.NoError(t, uow.Events().Add(ctx, NewEvent("d", noon)))
		})
		Read(t, factory, func(ctx context.Context, uow journal.UnitOfWork) {
			got, err := uow.Events().ListByRange(ctx, day.AddDays(1), day.AddDays(-1))
			require.NoError(t, err)
			assert.Empty(t, got)
		})
	})

	t.Run("list by date returns the same sequence when repeated", func(t *testing.T) {
		factory := newFactory(t)
		Commit(t, factory, func(ctx context.Context, uow journal.UnitOfWork) {
			require.NoError(t, uow.Events().Add(ctx, NewEvent("late", evening)))
			require.NoError(t, uow.Events().Add(ctx, NewEvent("early", morning)))
			require.NoError(t, uow.Events().Add(ctx, NewEvent("tomorrow", midnight)))
		})

		var first []journal.Event
		Read(t, factory, func(ctx context.Context, uow journal.UnitOfWork) {
			var err error
			first, err = uow.Events().ListByDate(ctx, day)
			require.NoError(t, err)
			again, err := uow.Events().ListByDate(ctx, day)
			require.NoError(t, err)
			assert.Equal(t, first, again)
		})
		Read(t, factory, func(ctx context.Context, uow journal.UnitOfWork) {
			again, err := uow.Events().ListByDate(ctx, day)
			require.NoError(t, err)
			assert.Equal(t, first, again)
		})
		assert.Equal(t, []string{"early", "late"}, eventTitles(first))
	})

	t.Run("occurred at far in the future or past round trips", func(t *testing.T) {
		factory := newFactory(t)
		launch := time.Date(2300, time.January, 1, 12, 0, 0, 0, time.UTC)
		landing := NewEvent("landing", launch.Add(999*time.Millisecond))
		liftoff := NewEvent("liftoff", launch.Add(time.Nanosecond))
		founding := NewEvent("founding", time.Date(1600, time.March, 1, 8, 0, 0, 500000000, time.UTC))
		origin := NewEvent("origin", time.Time{})
		farthest := NewEvent("farthest", time.Date(9999, time.December, 31, 23, 59, 59, 999999999, time.UTC))

		Commit(t, factory, func(ctx context.Context, uow journal.UnitOfWork) {
			for _, event := range []journal.Event{landing, liftoff, founding, origin, farthest} {
				require.NoError(t, uow.Events().Add(ctx, event))
			}
		})
		Read(t, factory, func(ctx context.Context, uow journal.UnitOfWork) {
			for _, event := range []journal.Event{landing, liftoff, founding, origin, farthest} {
				got, ok, err := uow.Events().Get(ctx, event.ID)
				require.NoError(t, err)
				require.True(t, ok)
				assert.Equal(t, event, got, event.Title)
			}

			// Same second, ordered by the sub-second part.
			onDay, err := uow.Events().ListByDate(ctx, journal.DateOf(launch))
			require.NoError(t, err)
			assert.Equal(t, []string{"liftoff", "landing"}, eventTitles(onDay))

			old, err := uow.Events().ListByDate(ctx, journal.NewDate(1600, time.March, 1))
			require.NoError(t, err)
			assert.Equal(t, []string{"founding"}, eventTitles(old))

			all, err := uow.Events().ListByRange(ctx, journal.DateOf(time.Time{}), journal.DateOf(farthest.OccurredAt))
			require.NoError(t, err)
			assert.Equal(t, []string{"origin", "founding", "liftoff", "landing", "farthest"}, eventTitles(all))
		})
	})
}

// RunNoteContract checks NoteRepository behaviour.
func RunNoteContract(t *testing.T, newFactory Factory) {
	t.Run("add then get returns an equal note", func(t *testing.T) {
		factory := newFactory(t)
		note := NewNote("ideas", noon)
		note.Content = "línea uno\nline two 🚀"

		Commit(t, factory, func(ctx context.Context, uow journal.UnitOfWork) {
			require.NoError(t, uow.Notes().Add(ctx, note))
		})
		Read(t, factory, func(ctx context.Context, uow journal.UnitOfWork) {
			got, ok, err := uow.Notes().Get(ctx, note.ID)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, note, got)
		})
	})

	t.Run("add rejects empty content and duplicates", func(t *testing.T) {
		factory := newFactory(t)
		Read(t, factory, func(ctx context.Context, uow journal.UnitOfWork) {
			empty := NewNote("empty", noon)
			empty.Content = ""
			assert.ErrorIs(t, uow.Notes().Add(ctx, empty), journal.ErrValidation)

			note := NewNote("note", noon)
			require.NoError(t, uow.Notes().Add(ctx, note))
			assert.ErrorIs(t, uow.Notes().Add(ctx, note), journal.ErrDuplicateID)
		})
	})

	t.Run("list, list by date and delete", func(t *testing.T) {
		factory := newFactory(t)
		late := NewNote("late", evening)
		early := NewNote("early", morning)
		other := NewNote("other", earlier)
		Commit(t, factory, func(ctx context.Context, uow journal.UnitOfWork) {
			for _, n := range []journal.Note{late, early, other} {
				require.NoError(t, uow.Notes().Add(ctx, n))
			}
		})
		Commit(t, factory, func(ctx context.Context, uow journal.UnitOfWork) {
			all, err := uow.Notes().List(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"late", "early", "other"}, noteTitles(all))

			onDay, err := uow.Notes().ListByDate(ctx, day)
			require.NoError(t, err)
			assert.Equal(t, []string{"early", "late"}, noteTitles(onDay))

			require.NoError(t, uow.Notes().Delete(ctx, early.ID))
			require.NoError(t, uow.Notes().Delete(ctx, "missing"))
		})
		Read(t, factory, func(ctx context.Context, uow journal.UnitOfWork) {
			onDay, err := uow.Notes().ListByDate(ctx, day)
			require.NoError(t, err)
			assert.Equal(t, []string{"late"}, noteTitles(onDay))
		})
	})

	t.Run("list by date returns the same sequence when repeated", func(t *testing.T) {
		factory := newFactory(t)
		Commit(t, factory, func(ctx context.Context, uow journal.UnitOfWork) {
			require.NoError(t, uow.Notes().Add(ctx, NewNote("second", noon)))
			require.NoError(t, uow.Notes().Add(ctx, NewNote("first", morning)))
			require.NoError(t, uow.Notes().Add(ctx, NewNote("yesterday", earlier)))
		})

		var first []journal.Note
		Read(t, factory, func(ctx context.Context, uow journal.UnitOfWork) {
			var err error
			first, err = uow.Notes().ListByDate(ctx, day)
			require.NoError(t, err)
			again, err := uow.Notes().ListByDate(ctx, day)
			require.NoError(t, err)
			assert.Equal(t, first, again)
		})
		Read(t, factory, func(ctx context.Context, uow journal.UnitOfWork) {
			again, err := uow.Notes().ListByDate(ctx, day)
			require.NoError(t, err)
			assert.Equal(t, first, again)
		})
		assert.Equal(t, []string{"first", "second"}, noteTitles(first))
	})

	t.Run("created at far in the past round trips", func(t *testing.T) {
		factory := newFactory(t)
		note := NewNote("archive", time.Date(1500, time.June, 15, 6, 7, 8, 9, time.UTC))

		Commit(t, factory, func(ctx context.Context, uow journal.UnitOfWork) {
			require.NoError(t, uow.Notes().Add(ctx, note))
		})
		Read(t, factory, func(ctx context.Context, uow journal.UnitOfWork) {
			got, ok, err := uow.Notes().Get(ctx, note.ID)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, note, got)

			onDay, err := uow.Notes().ListByDate(ctx, journal.DateOf(note.CreatedAt))
			require.NoError(t, err)
			assert.Equal(t, []journal.Note{note}, onDay)
		})
	})
}

// RunUnitOfWorkContract checks commit, rollback and exclusivity.
func RunUnitOfWorkContract(t *testing.T, newFactory Factory) {
	t.Run("commit makes writes to every repository durable", func(t *testing.T) {
		factory := newFactory(t)
		task := NewTask("t", journal.StatusTodo, noon)
		event := NewEvent("e", noon)
		note := NewNote("n", noon)

		Commit(t, factory, func(ctx context.Context, uow journal.UnitOfWork) {
			require.NoError(t, uow.Tasks().Add(ctx, task))
			require.NoError(t, uow.Events().Add(ctx, event))
			require.NoError(t, uow.Notes().Add(ctx, note))
		})
		Read(t, factory, func(ctx context.Context, uow journal.UnitOfWork) {
			entry, err := journal.ComposeDailyLog(ctx, uow, day)
			require.NoError(t, err)
			assert.Equal(t, []journal.Task{task}, entry.Tasks)
			assert.Equal(t, []journal.Event{event}, entry.Events)
			assert.Equal(t, []journal.Note{note}, entry.Notes)
		})
	})

	t.Run("rollback discards writes to every repository", func(t *testing.T) {
		factory := newFactory(t)
		kept := NewTask("kept", journal.StatusTodo, morning)
		Commit(t, factory, func(ctx context.Context, uow journal.UnitOfWork) {
			require.NoError(t, uow.Tasks().Add(ctx, kept))
		})

		ctx := context.Background()
		uow, err := factory.Begin(ctx)
		require.NoError(t, err)
		require.NoError(t, uow.Tasks().Add(ctx, NewTask("dropped", journal.StatusTodo, noon)))
		require.NoError(t, uow.Tasks().Delete(ctx, kept.ID))
		require.NoError(t, uow.Events().Add(ctx, NewEvent("dropped", noon)))
		require.NoError(t, uow.Notes().Add(ctx, NewNote("dropped", noon)))
		require.NoError(t, uow.Rollback(ctx))
		assert.Equal(t, journal.StateRolledBack, uow.State())

		Read(t, factory, func(ctx context.Context, uow journal.UnitOfWork) {
			tasks, err := uow.Tasks().List(ctx, journal.TaskFilter{})
			require.NoError(t, err)
			assert.Equal(t, []journal.Task{kept}, tasks)

			events, err := uow.Events().List(ctx)
			require.NoError(t, err)
			assert.Empty(t, events)

			notes, err := uow.Notes().List(ctx)
			require.NoError(t, err)
			assert.Empty(t, notes)
		})
	})

	t.Run("closed unit rejects further use", func(t *testing.T) {
		factory := newFactory(t)
		ctx := context.Background()
		uow, err := factory.Begin(ctx)
		require.NoError(t, err)
		assert.Equal(t, journal.StateOpen, uow.State())
		require.NoError(t, uow.Commit(ctx))
		assert.Equal(t, journal.StateCommitted, uow.State())

		assert.ErrorIs(t, uow.Commit(ctx), journal.ErrUnitOfWorkClosed)
		assert.NoError(t, uow.Rollback(ctx))
		assert.Equal(t, journal.StateCommitted, uow.State())

		assert.ErrorIs(t, uow.Tasks().Add(ctx, NewTask("late", journal.StatusTodo, noon)), journal.ErrUnitOfWorkClosed)
		_, _, err = uow.Events().Get(ctx, "x")
		assert.ErrorIs(t, err, journal.ErrUnitOfWorkClosed)
		_, err = uow.Notes().List(ctx)
		assert.ErrorIs(t, err, journal.ErrUnitOfWorkClosed)
	})

	t.Run("run without commit rolls back", func(t *testing.T) {
		factory := newFactory(t)
		err := journal.Run(context.Background(), factory, func(ctx context.Context, uow journal.UnitOfWork) error {
			return uow.Tasks().Add(ctx, NewTask("uncommitted", journal.StatusTodo, noon))
		})
		require.NoError(t, err)

		Read(t, factory, func(ctx context.Context, uow journal.UnitOfWork) {
			tasks, err := uow.Tasks().List(ctx, journal.TaskFilter{})
			require.NoError(t, err)
			assert.Empty(t, tasks)
		})
	})

	t.Run("run returns the error of fn and rolls back", func(t *testing.T) {
		factory := newFactory(t)
		boom := errors.New("boom")
		err := journal.Run(context.Background(), factory, func(ctx context.Context, uow journal.UnitOfWork) error {
			require.NoError(t, uow.Notes().Add(ctx, NewNote("n", noon)))
			return boom
		})
		assert.Same(t, boom, err)

		Read(t, factory, func(ctx context.Context, uow journal.UnitOfWork) {
			notes, err := uow.Notes().List(ctx)
			require.NoError(t, err)
			assert.Empty(t, notes)
		})
	})

	t.Run("run rolls back and re-panics", func(t *testing.T) {
		factory := newFactory(t)
		assert.PanicsWithValue(t, "kaboom", func() {
			_ = journal.Run(context.Background(), factory, func(ctx context.Context, uow journal.UnitOfWork) error {
				require.NoError(t, uow.Events().Add(ctx, NewEvent("e", noon)))
				panic("kaboom")
			})
		})

		Read(t, factory, func(ctx context.Context, uow journal.UnitOfWork) {
			events, err := uow.Events().List(ctx)
			require.NoError(t, err)
			assert.Empty(t, events)
		})
	})

	t.Run("begin waits for the open unit", func(t *testing.T) {
		factory := newFactory(t)
		ctx := context.Background()
		first, err := factory.Begin(ctx)
		require.NoError(t, err)

		waitCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
		defer cancel()
		_, err = factory.Begin(waitCtx)
		assert.ErrorIs(t, err, context.DeadlineExceeded)

		require.NoError(t, first.Rollback(ctx))
		second, err := factory.Begin(ctx)
		require.NoError(t, err)
		require.NoError(t, second.Rollback(ctx))
	})
}
