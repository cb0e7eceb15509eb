package journal

import (
	"context"
	"fmt"
)

// UnitOfWorkState is the lifecycle position of a UnitOfWork.
type UnitOfWorkState int

const (
	// StateOpen means repositories are usable and nothing is durable yet.
	StateOpen UnitOfWorkState = iota
	// StateCommitted means every change made through the unit is durable.
	StateCommitted
	// StateRolledBack means every change made through the unit was discarded.
	StateRolledBack
)

func (s UnitOfWorkState) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateCommitted:
		return "committed"
	case StateRolledBack:
		return "rolled back"
	default:
		return fmt.Sprintf("UnitOfWorkState(%d)", int(s))
	}
}

// UnitOfWork groups the three repositories under one transaction.
//
// Commit and Rollback apply to all three repositories at once. Once either
// has been called the repositories return ErrUnitOfWorkClosed. Rollback on a
// closed unit is a no-op, so it is safe to defer.
type UnitOfWork interface {
	Tasks() TaskRepository
	Events() EventRepository
	Notes() NoteRepository
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
	State() UnitOfWorkState
}

// UnitOfWorkFactory opens units of work against one storage target. A
// factory hands out one open unit at a time; Begin blocks until the previous
// unit is committed or rolled back, or ctx is done.
type UnitOfWorkFactory interface {
	Begin(ctx context.Context) (UnitOfWork, error)
}

// Run begins a unit of work, passes it to fn and guarantees it is released.
// fn must call Commit for its writes to persist: returning without
// committing, returning an error, or panicking all roll the unit back.
// An error returned by fn is passed through unchanged.
func Run(ctx context.Context, factory UnitOfWorkFactory, fn func(ctx context.Context, uow UnitOfWork) error) (err error) {
	uow, err := factory.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			_ = uow.Rollback(context.WithoutCancel(ctx))
			panic(r)
		}
		if uow.State() != StateOpen {
			return
		}
		if rbErr := uow.Rollback(context.WithoutCancel(ctx)); rbErr != nil && err == nil {
			err = fmt.Errorf("failed to roll back unit of work: %w", rbErr)
		}
	}()

	return fn(ctx, uow)
}
