package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/example/dot-journal/domain/journal"
)

type taskRepository struct {
	uow *UnitOfWork
}

var _ journal.TaskRepository = (*taskRepository)(nil)

func (r *taskRepository) Add(_ context.Context, task journal.Task) error {
	if err := r.uow.checkOpen(); err != nil {
		return err
	}
	if err := task.Validate(); err != nil {
		return fmt.Errorf("failed to add task: %w", err)
	}
	tasks := r.uow.store.tasks
	if tasks.has(task.ID) {
		return fmt.Errorf("failed to add task %s: %w", task.ID, journal.ErrDuplicateID)
	}
	tasks.insert(task.ID, normalizeTask(task))
	return nil
}

func (r *taskRepository) Get(_ context.Context, id string) (journal.Task, bool, error) {
	if err := r.uow.checkOpen(); err != nil {
		return journal.Task{}, false, err
	}
	task, ok := r.uow.store.tasks.get(id)
	return task, ok, nil
}

func (r *taskRepository) List(_ context.Context, filter journal.TaskFilter) ([]journal.Task, error) {
	if err := r.uow.checkOpen(); err != nil {
		return nil, err
	}
	return r.uow.store.tasks.scan(filter.Matches), nil
}

func (r *taskRepository) Update(_ context.Context, task journal.Task) error {
	if err := r.uow.checkOpen(); err != nil {
		return err
	}
	if err := task.Validate(); err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	tasks := r.uow.store.tasks
	if !tasks.has(task.ID) {
		return fmt.Errorf("failed to update task %s: %w", task.ID, journal.ErrNotFound)
	}
	tasks.replace(task.ID, normalizeTask(task))
	return nil
}

func (r *taskRepository) Delete(_ context.Context, id string) error {
	if err := r.uow.checkOpen(); err != nil {
		return err
	}
	r.uow.store.tasks.remove(id)
	return nil
}

func (r *taskRepository) ListByDate(_ context.Context, date journal.Date) ([]journal.Task, error) {
	if err := r.uow.checkOpen(); err != nil {
		return nil, err
	}
	return r.uow.store.tasks.scanSorted(taskCreatedAt, date.Start(), date.End()), nil
}

type eventRepository struct {
	uow *UnitOfWork
}

var _ journal.EventRepository = (*eventRepository)(nil)

func (r *eventRepository) Add(_ context.Context, event journal.Event) error {
	if err := r.uow.checkOpen(); err != nil {
		return err
	}
	if err := event.Validate(); err != nil {
		return fmt.Errorf("failed to add event: %w", err)
	}
	events := r.uow.store.events
	if events.has(event.ID) {
		return fmt.Errorf("failed to add event %s: %w", event.ID, journal.ErrDuplicateID)
	}
	event.OccurredAt = normalizeTime(event.OccurredAt)
	event.CreatedAt = normalizeTime(event.CreatedAt)
	events.insert(event.ID, event)
	return nil
}

func (r *eventRepository) Get(_ context.Context, id string) (journal.Event, bool, error) {
	if err := r.uow.checkOpen(); err != nil {
		return journal.Event{}, false, err
	}
	event, ok := r.uow.store.events.get(id)
	return event, ok, nil
}

func (r *eventRepository) List(_ context.Context) ([]journal.Event, error) {
	if err := r.uow.checkOpen(); err != nil {
		return nil, err
	}
	return r.uow.store.events.scan(nil), nil
}

func (r *eventRepository) Delete(_ context.Context, id string) error {
	if err := r.uow.checkOpen(); err != nil {
		return err
	}
	r.uow.store.events.remove(id)
	return nil
}

func (r *eventRepository) ListByDate(_ context.Context, date journal.Date) ([]journal.Event, error) {
	if err := r.uow.checkOpen(); err != nil {
		return nil, err
	}
	return r.uow.store.events.scanSorted(eventOccurredAt, date.Start(), date.End()), nil
}

func (r *eventRepository) ListByRange(_ context.Context, start, end journal.Date) ([]journal.Event, error) {
	if err := r.uow.checkOpen(); err != nil {
		return nil, err
	}
	if end.Before(start) {
		return []journal.Event{}, nil
	}
	return r.uow.store.events.scanSorted(eventOccurredAt, start.Start(), end.End()), nil
}

type noteRepository struct {
	uow *UnitOfWork
}

var _ journal.NoteRepository = (*noteRepository)(nil)

func (r *noteRepository) Add(_ context.Context, note journal.Note) error {
	if err := r.uow.checkOpen(); err != nil {
		return err
	}
	if err := note.Validate(); err != nil {
		return fmt.Errorf("failed to add note: %w", err)
	}
	notes := r.uow.store.notes
	if notes.has(note.ID) {
		return fmt.Errorf("failed to add note %s: %w", note.ID, journal.ErrDuplicateID)
	}
	note.CreatedAt = normalizeTime(note.CreatedAt)
	notes.insert(note.ID, note)
	return nil
}

func (r *noteRepository) Get(_ context.Context, id string) (journal.Note, bool, error) {
	if err := r.uow.checkOpen(); err != nil {
		return journal.Note{}, false, err
	}
	note, ok := r.uow.store.notes.get(id)
	return note, ok, nil
}

func (r *noteRepository) List(_ context.Context) ([]journal.Note, error) {
	if err := r.uow.checkOpen(); err != nil {
		return nil, err
	}
	return r.uow.store.notes.scan(nil), nil
}

func (r *noteRepository) Delete(_ context.Context, id string) error {
	if err := r.uow.checkOpen(); err != nil {
		return err
	}
	r.uow.store.notes.remove(id)
	return nil
}

func (r *noteRepository) ListByDate(_ context.Context, date journal.Date) ([]journal.Note, error) {
	if err := r.uow.checkOpen(); err != nil {
		return nil, err
	}
	return r.uow.store.notes.scanSorted(noteCreatedAt, date.Start(), date.End()), nil
}

func normalizeTask(task journal.Task) journal.Task {
	task.CreatedAt = normalizeTime(task.CreatedAt)
	task.UpdatedAt = normalizeTime(task.UpdatedAt)
	return task
}

func taskCreatedAt(t journal.Task) time.Time   { return t.CreatedAt }
func eventOccurredAt(e journal.Event) time.Time { return e.OccurredAt }
func noteCreatedAt(n journal.Note) time.Time    { return n.CreatedAt }
