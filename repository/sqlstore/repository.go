package sqlstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/dot-journal/domain/journal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

var tracer = otel.Tracer("github.com/example/dot-journal/repository/sqlstore")

// insertionOrder is SQLite's implicit rowid; it only grows for new rows.
const insertionOrder = "rowid ASC"

func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// endSpan records err on span and ends it. It returns err unchanged.
func endSpan(span trace.Span, err error) error {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
	return err
}

// dayRange returns the unix-second bounds [from, to) of the days first
// through last.
func dayRange(first, last journal.Date) (int64, int64) {
	return first.Start().Unix(), last.End().Unix()
}

// exists reports whether a row with id is present in model's table.
func exists(db *gorm.DB, model any, id string) (bool, error) {
	var n int64
	if err := db.Model(model).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

type taskRepository struct {
	uow *UnitOfWork
}

var _ journal.TaskRepository = (*taskRepository)(nil)

func (r *taskRepository) Add(ctx context.Context, task journal.Task) (err error) {
	ctx, span := startSpan(ctx, "TaskRepository.Add", attribute.String("task.id", task.ID))
	defer func() { err = endSpan(span, err) }()

	db, err := r.uow.session(ctx)
	if err != nil {
		return err
	}
	row, err := encodeTask(task)
	if err != nil {
		return fmt.Errorf("failed to add task: %w", err)
	}
	found, err := exists(db, &taskRow{}, row.ID)
	if err != nil {
		return unavailable("check task id", err)
	}
	if found {
		return fmt.Errorf("failed to add task %s: %w", row.ID, journal.ErrDuplicateID)
	}
	if err := db.Create(&row).Error; err != nil {
		if isDuplicate(err) {
			return fmt.Errorf("failed to add task %s: %w", row.ID, journal.ErrDuplicateID)
		}
		return unavailable("create task", err)
	}
	return nil
}

func (r *taskRepository) Get(ctx context.Context, id string) (_ journal.Task, _ bool, err error) {
	ctx, span := startSpan(ctx, "TaskRepository.Get", attribute.String("task.id", id))
	defer func() { err = endSpan(span, err) }()

	db, err := r.uow.session(ctx)
	if err != nil {
		return journal.Task{}, false, err
	}
	var row taskRow
	if err := db.First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.SetAttributes(attribute.Bool("task.found", false))
			return journal.Task{}, false, nil
		}
		return journal.Task{}, false, unavailable("find task", err)
	}
	task, err := decodeTask(row)
	if err != nil {
		return journal.Task{}, false, err
	}
	span.SetAttributes(attribute.Bool("task.found", true))
	return task, true, nil
}

func (r *taskRepository) List(ctx context.Context, filter journal.TaskFilter) (_ []journal.Task, err error) {
	ctx, span := startSpan(ctx, "TaskRepository.List", attribute.String("task.status", string(filter.Status)))
	defer func() { err = endSpan(span, err) }()

	db, err := r.uow.session(ctx)
	if err != nil {
		return nil, err
	}
	query := db.Order(insertionOrder)
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}
	var rows []taskRow
	if err := query.Find(&rows).Error; err != nil {
		return nil, unavailable("list tasks", err)
	}
	span.SetAttributes(attribute.Int("task.count", len(rows)))
	return decodeAll(rows, decodeTask)
}

func (r *taskRepository) Update(ctx context.Context, task journal.Task) (err error) {
	ctx, span := startSpan(ctx, "TaskRepository.Update", attribute.String("task.id", task.ID))
	defer func() { err = endSpan(span, err) }()

	db, err := r.uow.session(ctx)
	if err != nil {
		return err
	}
	row, err := encodeTask(task)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	// A map so that zero values such as an empty description are written.
	result := db.Model(&taskRow{}).Where("id = ?", row.ID).Updates(map[string]any{
		"title":            row.Title,
		"description":      row.Description,
		"status":           row.Status,
		"created_at":       row.CreatedAtSec,
		"created_at_nanos": row.CreatedAtNanos,
		"updated_at":       row.UpdatedAtSec,
		"updated_at_nanos": row.UpdatedAtNanos,
	})
	if result.Error != nil {
		return unavailable("update task", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("failed to update task %s: %w", row.ID, journal.ErrNotFound)
	}
	return nil
}

func (r *taskRepository) Delete(ctx context.Context, id string) (err error) {
	ctx, span := startSpan(ctx, "TaskRepository.Delete", attribute.String("task.id", id))
	defer func() { err = endSpan(span, err) }()

	db, err := r.uow.session(ctx)
	if err != nil {
		return err
	}
	if err := db.Where("id = ?", id).Delete(&taskRow{}).Error; err != nil {
		return unavailable("delete task", err)
	}
	return nil
}

func (r *taskRepository) ListByDate(ctx context.Context, date journal.Date) (_ []journal.Task, err error) {
	ctx, span := startSpan(ctx, "TaskRepository.ListByDate", attribute.String("date", date.String()))
	defer func() { err = endSpan(span, err) }()

	db, err := r.uow.session(ctx)
	if err != nil {
		return nil, err
	}
	from, to := dayRange(date, date)
	var rows []taskRow
	if err := db.Where("created_at >= ? AND created_at < ?", from, to).
		Order("created_at ASC").Order("created_at_nanos ASC").Order(insertionOrder).
		Find(&rows).Error; err != nil {
		return nil, unavailable("list tasks by date", err)
	}
	span.SetAttributes(attribute.Int("task.count", len(rows)))
	return decodeAll(rows, decodeTask)
}

type eventRepository struct {
	uow *UnitOfWork
}

var _ journal.EventRepository = (*eventRepository)(nil)

func (r *eventRepository) Add(ctx context.Context, event journal.Event) (err error) {
	ctx, span := startSpan(ctx, "EventRepository.Add", attribute.String("event.id", event.ID))
	defer func() { err = endSpan(span, err) }()

	db, err := r.uow.session(ctx)
	if err != nil {
		return err
	}
	row, err := encodeEvent(event)
	if err != nil {
		return fmt.Errorf("failed to add event: %w", err)
	}
	found, err := exists(db, &eventRow{}, row.ID)
	if err != nil {
		return unavailable("check event id", err)
	}
	if found {
		return fmt.Errorf("failed to add event %s: %w", row.ID, journal.ErrDuplicateID)
	}
	if err := db.Create(&row).Error; err != nil {
		if isDuplicate(err) {
			return fmt.Errorf("failed to add event %s: %w", row.ID, journal.ErrDuplicateID)
		}
		return unavailable("create event", err)
	}
	return nil
}

func (r *eventRepository) Get(ctx context.Context, id string) (_ journal.Event, _ bool, err error) {
	ctx, span := startSpan(ctx, "EventRepository.Get", attribute.String("event.id", id))
	defer func() { err = endSpan(span, err) }()

	db, err := r.uow.session(ctx)
	if err != nil {
		return journal.Event{}, false, err
	}
	var row eventRow
	if err := db.First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return journal.Event{}, false, nil
		}
		return journal.Event{}, false, unavailable("find event", err)
	}
	event, err := decodeEvent(row)
	if err != nil {
		return journal.Event{}, false, err
	}
	return event, true, nil
}

func (r *eventRepository) List(ctx context.Context) (_ []journal.Event, err error) {
	ctx, span := startSpan(ctx, "EventRepository.List")
	defer func() { err = endSpan(span, err) }()

	db, err := r.uow.session(ctx)
	if err != nil {
		return nil, err
	}
	var rows []eventRow
	if err := db.Order(insertionOrder).Find(&rows).Error; err != nil {
		return nil, unavailable("list events", err)
	}
	return decodeAll(rows, decodeEvent)
}

func (r *eventRepository) Delete(ctx context.Context, id string) (err error) {
	ctx, span := startSpan(ctx, "EventRepository.Delete", attribute.String("event.id", id))
	defer func() { err = endSpan(span, err) }()

	db, err := r.uow.session(ctx)
	if err != nil {
		return err
	}
	if err := db.Where("id = ?", id).Delete(&eventRow{}).Error; err != nil {
		return unavailable("delete event", err)
	}
	return nil
}

func (r *eventRepository) ListByDate(ctx context.Context, date journal.Date) ([]journal.Event, error) {
	return r.listBetween(ctx, "EventRepository.ListByDate", date, date)
}

func (r *eventRepository) ListByRange(ctx context.Context, start, end journal.Date) ([]journal.Event, error) {
	return r.listBetween(ctx, "EventRepository.ListByRange", start, end)
}

// listBetween returns events occurring from the start of first through the
// end of last.
func (r *eventRepository) listBetween(ctx context.Context, spanName string, first, last journal.Date) (_ []journal.Event, err error) {
	ctx, span := startSpan(ctx, spanName,
		attribute.String("range.start", first.String()),
		attribute.String("range.end", last.String()),
	)
	defer func() { err = endSpan(span, err) }()

	db, err := r.uow.session(ctx)
	if err != nil {
		return nil, err
	}
	if last.Before(first) {
		return []journal.Event{}, nil
	}
	var rows []eventRow
	from, to := dayRange(first, last)
	if err := db.Where("occurred_at >= ? AND occurred_at < ?", from, to).
		Order("occurred_at ASC").Order("occurred_at_nanos ASC").Order(insertionOrder).
		Find(&rows).Error; err != nil {
		return nil, unavailable("list events by date", err)
	}
	span.SetAttributes(attribute.Int("event.count", len(rows)))
	return decodeAll(rows, decodeEvent)
}

type noteRepository struct {
	uow *UnitOfWork
}

var _ journal.NoteRepository = (*noteRepository)(nil)

func (r *noteRepository) Add(ctx context.Context, note journal.Note) (err error) {
	ctx, span := startSpan(ctx, "NoteRepository.Add", attribute.String("note.id", note.ID))
	defer func() { err = endSpan(span, err) }()

	db, err := r.uow.session(ctx)
	if err != nil {
		return err
	}
	row, err := encodeNote(note)
	if err != nil {
		return fmt.Errorf("failed to add note: %w", err)
	}
	found, err := exists(db, &noteRow{}, row.ID)
	if err != nil {
		return unavailable("check note id", err)
	}
	if found {
		return fmt.Errorf("failed to add note %s: %w", row.ID, journal.ErrDuplicateID)
	}
	if err := db.Create(&row).Error; err != nil {
		if isDuplicate(err) {
			return fmt.Errorf("failed to add note %s: %w", row.ID, journal.ErrDuplicateID)
		}
		return unavailable("create note", err)
	}
	return nil
}

func (r *noteRepository) Get(ctx context.Context, id string) (_ journal.Note, _ bool, err error) {
	ctx, span := startSpan(ctx, "NoteRepository.Get", attribute.String("note.id", id))
	defer func() { err = endSpan(span, err) }()

	db, err := r.uow.session(ctx)
	if err != nil {
		return journal.Note{}, false, err
	}
	var row noteRow
	if err := db.First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return journal.Note{}, false, nil
		}
		return journal.Note{}, false, unavailable("find note", err)
	}
	note, err := decodeNote(row)
	if err != nil {
		return journal.Note{}, false, err
	}
	return note, true, nil
}

func (r *noteRepository) List(ctx context.Context) (_ []journal.Note, err error) {
	ctx, span := startSpan(ctx, "NoteRepository.List")
	defer func() { err = endSpan(span, err) }()

	db, err := r.uow.session(ctx)
	if err != nil {
		return nil, err
	}
	var rows []noteRow
	if err := db.Order(insertionOrder).Find(&rows).Error; err != nil {
		return nil, unavailable("list notes", err)
	}
	return decodeAll(rows, decodeNote)
}

func (r *noteRepository) Delete(ctx context.Context, id string) (err error) {
	ctx, span := startSpan(ctx, "NoteRepository.Delete", attribute.String("note.id", id))
	defer func() { err = endSpan(span, err) }()

	db, err := r.uow.session(ctx)
	if err != nil {
		return err
	}
	if err := db.Where("id = ?", id).Delete(&noteRow{}).Error; err != nil {
		return unavailable("delete note", err)
	}
	return nil
}

func (r *noteRepository) ListByDate(ctx context.Context, date journal.Date) (_ []journal.Note, err error) {
	ctx, span := startSpan(ctx, "NoteRepository.ListByDate", attribute.String("date", date.String()))
	defer func() { err = endSpan(span, err) }()

	db, err := r.uow.session(ctx)
	if err != nil {
		return nil, err
	}
	from, to := dayRange(date, date)
	var rows []noteRow
	if err := db.Where("created_at >= ? AND created_at < ?", from, to).
		Order("created_at ASC").Order("created_at_nanos ASC").Order(insertionOrder).
		Find(&rows).Error; err != nil {
		return nil, unavailable("list notes by date", err)
	}
	return decodeAll(rows, decodeNote)
}
