// Package memory provides process-local journal repositories for tests and
// fast paths. State lives for the lifetime of the Store and is lost on exit.
package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/example/dot-journal/domain/journal"
	"golang.org/x/sync/semaphore"
)

// Store is one in-memory storage target.
type Store struct {
	gate   *semaphore.Weighted
	tasks  *table[journal.Task]
	events *table[journal.Event]
	notes  *table[journal.Note]
}

var _ journal.UnitOfWorkFactory = (*Store)(nil)

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		gate:   semaphore.NewWeighted(1),
		tasks:  newTable[journal.Task](),
		events: newTable[journal.Event](),
		notes:  newTable[journal.Note](),
	}
}

// Begin waits until no other unit of work is open on s, snapshots the
// current state and returns a new open unit.
func (s *Store) Begin(ctx context.Context) (journal.UnitOfWork, error) {
	if err := s.gate.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("failed to begin unit of work: %w", err)
	}
	uow := &UnitOfWork{
		store: s,
		snapshot: snapshot{
			tasks:  s.tasks.clone(),
			events: s.events.clone(),
			notes:  s.notes.clone(),
		},
	}
	uow.taskRepo = &taskRepository{uow: uow}
	uow.eventRepo = &eventRepository{uow: uow}
	uow.noteRepo = &noteRepository{uow: uow}
	return uow, nil
}

// Ping always succeeds.
func (s *Store) Ping(_ context.Context) error {
	return nil
}

// Close is a no-op; the data is dropped with the Store.
func (s *Store) Close() error {
	return nil
}

func normalizeTime(t time.Time) time.Time {
	return t.UTC().Round(0)
}
