package journal

import "context"

// TaskFilter narrows TaskRepository.List. The zero value matches every task.
type TaskFilter struct {
	Status TaskStatus
}

// Matches reports whether task passes the filter.
func (f TaskFilter) Matches(task Task) bool {
	return f.Status == "" || task.Status == f.Status
}

// TaskRepository stores tasks.
type TaskRepository interface {
	// Add inserts a new task, failing with ErrDuplicateID if the id exists.
	Add(ctx context.Context, task Task) error
	// Get returns the task and true, or false when the id is unknown.
	Get(ctx context.Context, id string) (Task, bool, error)
	// List returns matching tasks in insertion order.
	List(ctx context.Context, filter TaskFilter) ([]Task, error)
	// Update replaces the stored task with the same id, failing with ErrNotFound.
	Update(ctx context.Context, task Task) error
	// Delete removes the task; unknown ids are ignored.
	Delete(ctx context.Context, id string) error
	// ListByDate returns tasks created on date, ascending by CreatedAt.
	ListByDate(ctx context.Context, date Date) ([]Task, error)
}

// EventRepository stores events. Events cannot be updated.
type EventRepository interface {
	Add(ctx context.Context, event Event) error
	Get(ctx context.Context, id string) (Event, bool, error)
	List(ctx context.Context) ([]Event, error)
	Delete(ctx context.Context, id string) error
	// ListByDate returns events that occurred on date, ascending by OccurredAt.
	ListByDate(ctx context.Context, date Date) ([]Event, error)
	// ListByRange returns events that occurred from start through end
	// inclusive, ascending by OccurredAt.
	ListByRange(ctx context.Context, start, end Date) ([]Event, error)
}

// NoteRepository stores notes. Notes cannot be updated.
type NoteRepository interface {
	Add(ctx context.Context, note Note) error
	Get(ctx context.Context, id string) (Note, bool, error)
	List(ctx context.Context) ([]Note, error)
	Delete(ctx context.Context, id string) error
	// ListByDate returns notes created on date, ascending by CreatedAt.
	ListByDate(ctx context.Context, date Date) ([]Note, error)
}
