package memory

import (
	"context"
	"fmt"

	"github.com/example/dot-journal/domain/journal"
)

type snapshot struct {
	tasks  *table[journal.Task]
	events *table[journal.Event]
	notes  *table[journal.Note]
}

// UnitOfWork writes straight into the Store and restores the snapshot taken
// at Begin if it is rolled back.
type UnitOfWork struct {
	store    *Store
	snapshot snapshot
	state    journal.UnitOfWorkState

	taskRepo  *taskRepository
	eventRepo *eventRepository
	noteRepo  *noteRepository
}

var _ journal.UnitOfWork = (*UnitOfWork)(nil)

func (u *UnitOfWork) Tasks() journal.TaskRepository   { return u.taskRepo }
func (u *UnitOfWork) Events() journal.EventRepository { return u.eventRepo }
func (u *UnitOfWork) Notes() journal.NoteRepository   { return u.noteRepo }

// State returns the lifecycle state of the unit.
func (u *UnitOfWork) State() journal.UnitOfWorkState {
	return u.state
}

// Commit keeps every change made since Begin.
func (u *UnitOfWork) Commit(_ context.Context) error {
	if u.state != journal.StateOpen {
		return fmt.Errorf("failed to commit: %w", journal.ErrUnitOfWorkClosed)
	}
	u.snapshot = snapshot{}
	u.close(journal.StateCommitted)
	return nil
}

// Rollback restores the state captured at Begin.
func (u *UnitOfWork) Rollback(_ context.Context) error {
	if u.state != journal.StateOpen {
		return nil
	}
	u.store.tasks = u.snapshot.tasks
	u.store.events = u.snapshot.events
	u.store.notes = u.snapshot.notes
	u.snapshot = snapshot{}
	u.close(journal.StateRolledBack)
	return nil
}

func (u *UnitOfWork) close(state journal.UnitOfWorkState) {
	u.state = state
	u.store.gate.Release(1)
}

func (u *UnitOfWork) checkOpen() error {
	if u.state != journal.StateOpen {
		return journal.ErrUnitOfWorkClosed
	}
	return nil
}
