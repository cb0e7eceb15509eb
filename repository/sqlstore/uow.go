package sqlstore

import (
	"context"
	"fmt"

	"github.com/example/dot-journal/domain/journal"
	"gorm.io/gorm"
)

// UnitOfWork owns one GORM transaction. The three repositories share it.
type UnitOfWork struct {
	store *Store
	tx    *gorm.DB
	state journal.UnitOfWorkState

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

// Commit makes every change since Begin durable. The unit is closed even if
// the commit fails, in which case nothing was written.
func (u *UnitOfWork) Commit(_ context.Context) error {
	if u.state != journal.StateOpen {
		return fmt.Errorf("failed to commit: %w", journal.ErrUnitOfWorkClosed)
	}
	err := u.tx.Commit().Error
	if err != nil {
		_ = u.tx.Rollback()
		u.close(journal.StateRolledBack)
		return unavailable("commit transaction", err)
	}
	u.close(journal.StateCommitted)
	return nil
}

// Rollback discards every change since Begin.
func (u *UnitOfWork) Rollback(_ context.Context) error {
	if u.state != journal.StateOpen {
		return nil
	}
	err := u.tx.Rollback().Error
	u.close(journal.StateRolledBack)
	if err != nil {
		return unavailable("roll back transaction", err)
	}
	return nil
}

func (u *UnitOfWork) close(state journal.UnitOfWorkState) {
	u.state = state
	u.store.gate.Release(1)
}

// session returns the transaction bound to ctx, or ErrUnitOfWorkClosed.
func (u *UnitOfWork) session(ctx context.Context) (*gorm.DB, error) {
	if u.state != journal.StateOpen {
		return nil, journal.ErrUnitOfWorkClosed
	}
	return u.tx.WithContext(ctx), nil
}
