package journal

import (
	"context"
	"errors"
	"fmt"

	domain "github.com/example/dot-journal/domain/journal"
	"github.com/example/dot-journal/events"
	"github.com/go-monolith/mono"
)

// taskPublisher publishes one task lifecycle event.
type taskPublisher func(bus mono.EventBus, event events.TaskEvent) error

var (
	publishTaskCreated taskPublisher = func(bus mono.EventBus, e events.TaskEvent) error {
		return events.TaskCreatedV1.Publish(bus, e, nil)
	}
	publishTaskCompleted taskPublisher = func(bus mono.EventBus, e events.TaskEvent) error {
		return events.TaskCompletedV1.Publish(bus, e, nil)
	}
	publishTaskCancelled taskPublisher = func(bus mono.EventBus, e events.TaskEvent) error {
		return events.TaskCancelledV1.Publish(bus, e, nil)
	}
	publishTaskReopened taskPublisher = func(bus mono.EventBus, e events.TaskEvent) error {
		return events.TaskReopenedV1.Publish(bus, e, nil)
	}
	publishTaskDeleted taskPublisher = func(bus mono.EventBus, e events.TaskEvent) error {
		return events.TaskDeletedV1.Publish(bus, e, nil)
	}
)

func requireID(field, id string) error {
	if id == "" {
		return &domain.ValidationError{Field: field, Reason: "is required"}
	}
	return nil
}

func requireDate(field string, d domain.Date) error {
	if d.IsZero() {
		return &domain.ValidationError{Field: field, Reason: "is required"}
	}
	return nil
}

func notFound(kind, id string) error {
	return fmt.Errorf("%s %s: %w", kind, id, domain.ErrNotFound)
}

// publishTask sends a task event. Publishing happens after commit and is
// best effort: a failure is logged and the request still succeeds.
func (m *Module) publishTask(publish taskPublisher, name string, task domain.Task) {
	if m.eventBus == nil {
		return
	}
	event := events.TaskEvent{
		TaskID:     task.ID,
		Title:      task.Title,
		Status:     string(task.Status),
		OccurredAt: task.UpdatedAt,
	}
	if err := publish(m.eventBus, event); err != nil {
		m.logger.Warn("Failed to publish event", "event", name, "taskID", task.ID, "error", err)
	}
}

// createTask handles the create-task service request.
func (m *Module) createTask(ctx context.Context, req CreateTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	task, err := domain.CreateTask(req.Title, req.Description)
	if err != nil {
		return TaskResponse{}, err
	}

	err = m.run(ctx, func(ctx context.Context, uow domain.UnitOfWork) error {
		if err := uow.Tasks().Add(ctx, task); err != nil {
			return err
		}
		return uow.Commit(ctx)
	})
	if err != nil {
		return TaskResponse{}, fmt.Errorf("failed to create task: %w", err)
	}

	m.publishTask(publishTaskCreated, "TaskCreated", task)
	m.logger.Debug("Task created", "taskID", task.ID)
	return toTaskResponse(task), nil
}

// getTask handles the get-task service request.
func (m *Module) getTask(ctx context.Context, req TaskIDRequest, _ *mono.Msg) (TaskResponse, error) {
	if err := requireID("task_id", req.TaskID); err != nil {
		return TaskResponse{}, err
	}

	var task domain.Task
	err := m.run(ctx, func(ctx context.Context, uow domain.UnitOfWork) error {
		found, ok, err := uow.Tasks().Get(ctx, req.TaskID)
		if err != nil {
			return err
		}
		if !ok {
			return notFound("task", req.TaskID)
		}
		task = found
		return nil
	})
	if err != nil {
		return TaskResponse{}, err
	}
	return toTaskResponse(task), nil
}

// listTasks handles the list-tasks service request.
func (m *Module) listTasks(ctx context.Context, req ListTasksRequest, _ *mono.Msg) (ListTasksResponse, error) {
	var filter domain.TaskFilter
	if req.Status != "" {
		status, err := domain.ParseTaskStatus(req.Status)
		if err != nil {
			return ListTasksResponse{}, err
		}
		filter.Status = status
	}

	var tasks []domain.Task
	err := m.run(ctx, func(ctx context.Context, uow domain.UnitOfWork) error {
		var err error
		tasks, err = uow.Tasks().List(ctx, filter)
		return err
	})
	if err != nil {
		return ListTasksResponse{}, fmt.Errorf("failed to list tasks: %w", err)
	}

	return ListTasksResponse{
		Tasks: mapAll(tasks, toTaskResponse),
		Total: len(tasks),
	}, nil
}

// changeTask loads a task, applies change and stores the result in one unit
// of work.
func (m *Module) changeTask(ctx context.Context, id string, change func(domain.Task) (domain.Task, error)) (domain.Task, error) {
	if err := requireID("task_id", id); err != nil {
		return domain.Task{}, err
	}

	var changed domain.Task
	err := m.run(ctx, func(ctx context.Context, uow domain.UnitOfWork) error {
		task, ok, err := uow.Tasks().Get(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return notFound("task", id)
		}
		changed, err = change(task)
		if err != nil {
			return err
		}
		if err := uow.Tasks().Update(ctx, changed); err != nil {
			return err
		}
		return uow.Commit(ctx)
	})
	if err != nil {
		return domain.Task{}, err
	}
	return changed, nil
}

// updateTask handles the update-task service request.
func (m *Module) updateTask(ctx context.Context, req UpdateTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	task, err := m.changeTask(ctx, req.TaskID, func(task domain.Task) (domain.Task, error) {
		return domain.UpdateTask(task, req.Title, req.Description)
	})
	if err != nil {
		return TaskResponse{}, err
	}
	return toTaskResponse(task), nil
}

// transition applies a status change and publishes the matching event.
func (m *Module) transition(ctx context.Context, id string, apply func(domain.Task) domain.Task, publish taskPublisher, name string) (TaskResponse, error) {
	task, err := m.changeTask(ctx, id, func(task domain.Task) (domain.Task, error) {
		return apply(task), nil
	})
	if err != nil {
		return TaskResponse{}, err
	}
	m.publishTask(publish, name, task)
	return toTaskResponse(task), nil
}

// completeTask handles the complete-task service request.
func (m *Module) completeTask(ctx context.Context, req TaskIDRequest, _ *mono.Msg) (TaskResponse, error) {
	return m.transition(ctx, req.TaskID, domain.MarkDone, publishTaskCompleted, "TaskCompleted")
}

// cancelTask handles the cancel-task service request.
func (m *Module) cancelTask(ctx context.Context, req TaskIDRequest, _ *mono.Msg) (TaskResponse, error) {
	return m.transition(ctx, req.TaskID, domain.MarkCancelled, publishTaskCancelled, "TaskCancelled")
}

// reopenTask handles the reopen-task service request.
func (m *Module) reopenTask(ctx context.Context, req TaskIDRequest, _ *mono.Msg) (TaskResponse, error) {
	return m.transition(ctx, req.TaskID, domain.ReopenTask, publishTaskReopened, "TaskReopened")
}

// deleteTask handles the delete-task service request.
func (m *Module) deleteTask(ctx context.Context, req TaskIDRequest, _ *mono.Msg) (DeleteResponse, error) {
	if err := requireID("task_id", req.TaskID); err != nil {
		return DeleteResponse{ID: req.TaskID}, err
	}

	var (
		task    domain.Task
		existed bool
	)
	err := m.run(ctx, func(ctx context.Context, uow domain.UnitOfWork) error {
		var err error
		task, existed, err = uow.Tasks().Get(ctx, req.TaskID)
		if err != nil {
			return err
		}
		if err := uow.Tasks().Delete(ctx, req.TaskID); err != nil {
			return err
		}
		return uow.Commit(ctx)
	})
	if err != nil {
		return DeleteResponse{ID: req.TaskID}, fmt.Errorf("failed to delete task: %w", err)
	}

	if existed {
		m.publishTask(publishTaskDeleted, "TaskDeleted", task)
	}
	return DeleteResponse{ID: req.TaskID, Deleted: existed}, nil
}

// recordEvent handles the record-event service request.
func (m *Module) recordEvent(ctx context.Context, req RecordEventRequest, _ *mono.Msg) (EventResponse, error) {
	event, err := domain.CreateEvent(req.Title, req.Description, req.OccurredAt)
	if err != nil {
		return EventResponse{}, err
	}

	err = m.run(ctx, func(ctx context.Context, uow domain.UnitOfWork) error {
		if err := uow.Events().Add(ctx, event); err != nil {
			return err
		}
		return uow.Commit(ctx)
	})
	if err != nil {
		return EventResponse{}, fmt.Errorf("failed to record event: %w", err)
	}

	if m.eventBus != nil {
		recorded := events.EventRecordedEvent{
			EventID:    event.ID,
			Title:      event.Title,
			OccurredAt: event.OccurredAt,
		}
		if err := events.EventRecordedV1.Publish(m.eventBus, recorded, nil); err != nil {
			m.logger.Warn("Failed to publish event", "event", "EventRecorded", "eventID", event.ID, "error", err)
		}
	}
	return toEventResponse(event), nil
}

// getEvent handles the get-event service request.
func (m *Module) getEvent(ctx context.Context, req EventIDRequest, _ *mono.Msg) (EventResponse, error) {
	if err := requireID("event_id", req.EventID); err != nil {
		return EventResponse{}, err
	}

	var event domain.Event
	err := m.run(ctx, func(ctx context.Context, uow domain.UnitOfWork) error {
		found, ok, err := uow.Events().Get(ctx, req.EventID)
		if err != nil {
			return err
		}
		if !ok {
			return notFound("event", req.EventID)
		}
		event = found
		return nil
	})
	if err != nil {
		return EventResponse{}, err
	}
	return toEventResponse(event), nil
}

// listEvents handles the list-events service request.
func (m *Module) listEvents(ctx context.Context, _ ListEventsRequest, _ *mono.Msg) (ListEventsResponse, error) {
	var list []domain.Event
	err := m.run(ctx, func(ctx context.Context, uow domain.UnitOfWork) error {
		var err error
		list, err = uow.Events().List(ctx)
		return err
	})
	if err != nil {
		return ListEventsResponse{}, fmt.Errorf("failed to list events: %w", err)
	}
	return ListEventsResponse{Events: mapAll(list, toEventResponse), Total: len(list)}, nil
}

// listEventsRange handles the list-events-range service request.
func (m *Module) listEventsRange(ctx context.Context, req EventRangeRequest, _ *mono.Msg) (ListEventsResponse, error) {
	if err := errors.Join(requireDate("start", req.Start), requireDate("end", req.End)); err != nil {
		return ListEventsResponse{}, err
	}

	var list []domain.Event
	err := m.run(ctx, func(ctx context.Context, uow domain.UnitOfWork) error {
		var err error
		list, err = uow.Events().ListByRange(ctx, req.Start, req.End)
		return err
	})
	if err != nil {
		return ListEventsResponse{}, fmt.Errorf("failed to list events: %w", err)
	}
	return ListEventsResponse{Events: mapAll(list, toEventResponse), Total: len(list)}, nil
}

// deleteEvent handles the delete-event service request.
func (m *Module) deleteEvent(ctx context.Context, req EventIDRequest, _ *mono.Msg) (DeleteResponse, error) {
	if err := requireID("event_id", req.EventID); err != nil {
		return DeleteResponse{ID: req.EventID}, err
	}

	var existed bool
	err := m.run(ctx, func(ctx context.Context, uow domain.UnitOfWork) error {
		var err error
		if _, existed, err = uow.Events().Get(ctx, req.EventID); err != nil {
			return err
		}
		if err := uow.Events().Delete(ctx, req.EventID); err != nil {
			return err
		}
		return uow.Commit(ctx)
	})
	if err != nil {
		return DeleteResponse{ID: req.EventID}, fmt.Errorf("failed to delete event: %w", err)
	}
	return DeleteResponse{ID: req.EventID, Deleted: existed}, nil
}

// createNote handles the create-note service request.
func (m *Module) createNote(ctx context.Context, req CreateNoteRequest, _ *mono.Msg) (NoteResponse, error) {
	note, err := domain.CreateNote(req.Title, req.Content)
	if err != nil {
		return NoteResponse{}, err
	}

	err = m.run(ctx, func(ctx context.Context, uow domain.UnitOfWork) error {
		if err := uow.Notes().Add(ctx, note); err != nil {
			return err
		}
		return uow.Commit(ctx)
	})
	if err != nil {
		return NoteResponse{}, fmt.Errorf("failed to create note: %w", err)
	}

	if m.eventBus != nil {
		created := events.NoteCreatedEvent{
			NoteID:    note.ID,
			Title:     note.Title,
			CreatedAt: note.CreatedAt,
		}
		if err := events.NoteCreatedV1.Publish(m.eventBus, created, nil); err != nil {
			m.logger.Warn("Failed to publish event", "event", "NoteCreated", "noteID", note.ID, "error", err)
		}
	}
	return toNoteResponse(note), nil
}

// getNote handles the get-note service request.
func (m *Module) getNote(ctx context.Context, req NoteIDRequest, _ *mono.Msg) (NoteResponse, error) {
	if err := requireID("note_id", req.NoteID); err != nil {
		return NoteResponse{}, err
	}

	var note domain.Note
	err := m.run(ctx, func(ctx context.Context, uow domain.UnitOfWork) error {
		found, ok, err := uow.Notes().Get(ctx, req.NoteID)
		if err != nil {
			return err
		}
		if !ok {
			return notFound("note", req.NoteID)
		}
		note = found
		return nil
	})
	if err != nil {
		return NoteResponse{}, err
	}
	return toNoteResponse(note), nil
}

// listNotes handles the list-notes service request.
func (m *Module) listNotes(ctx context.Context, _ ListNotesRequest, _ *mono.Msg) (ListNotesResponse, error) {
	var list []domain.Note
	err := m.run(ctx, func(ctx context.Context, uow domain.UnitOfWork) error {
		var err error
		list, err = uow.Notes().List(ctx)
		return err
	})
	if err != nil {
		return ListNotesResponse{}, fmt.Errorf("failed to list notes: %w", err)
	}
	return ListNotesResponse{Notes: mapAll(list, toNoteResponse), Total: len(list)}, nil
}

// deleteNote handles the delete-note service request.
func (m *Module) deleteNote(ctx context.Context, req NoteIDRequest, _ *mono.Msg) (DeleteResponse, error) {
	if err := requireID("note_id", req.NoteID); err != nil {
		return DeleteResponse{ID: req.NoteID}, err
	}

	var existed bool
	err := m.run(ctx, func(ctx context.Context, uow domain.UnitOfWork) error {
		var err error
		if _, existed, err = uow.Notes().Get(ctx, req.NoteID); err != nil {
			return err
		}
		if err := uow.Notes().Delete(ctx, req.NoteID); err != nil {
			return err
		}
		return uow.Commit(ctx)
	})
	if err != nil {
		return DeleteResponse{ID: req.NoteID}, fmt.Errorf("failed to delete note: %w", err)
	}
	return DeleteResponse{ID: req.NoteID, Deleted: existed}, nil
}

func requestedDate(req LogRequest) domain.Date {
	if req.Date != nil {
		return *req.Date
	}
	return domain.Today()
}

// dailyLog handles the daily-log service request.
func (m *Module) dailyLog(ctx context.Context, req LogRequest, _ *mono.Msg) (DailyLogResponse, error) {
	date := requestedDate(req)

	var entry domain.DailyLogEntry
	err := m.run(ctx, func(ctx context.Context, uow domain.UnitOfWork) error {
		var err error
		entry, err = domain.ComposeDailyLog(ctx, uow, date)
		return err
	})
	if err != nil {
		return DailyLogResponse{}, err
	}
	return toDailyLogResponse(entry), nil
}

// weeklyLog handles the weekly-log service request.
func (m *Module) weeklyLog(ctx context.Context, req LogRequest, _ *mono.Msg) (PeriodLogResponse, error) {
	date := requestedDate(req)
	return m.periodLog(ctx, domain.WeekStart(date), domain.WeekEnd(date))
}

// monthlyLog handles the monthly-log service request.
func (m *Module) monthlyLog(ctx context.Context, req LogRequest, _ *mono.Msg) (PeriodLogResponse, error) {
	date := requestedDate(req)
	return m.periodLog(ctx, domain.MonthStart(date.Year, date.Month), domain.MonthEnd(date.Year, date.Month))
}

// periodLog composes one daily log per day from start through end in a
// single unit of work.
func (m *Module) periodLog(ctx context.Context, start, end domain.Date) (PeriodLogResponse, error) {
	var entries []domain.DailyLogEntry
	err := m.run(ctx, func(ctx context.Context, uow domain.UnitOfWork) error {
		var err error
		entries, err = domain.ComposeRange(ctx, uow, start, end)
		return err
	})
	if err != nil {
		return PeriodLogResponse{}, err
	}
	return PeriodLogResponse{
		Start: start,
		End:   end,
		Days:  mapAll(entries, toDailyLogResponse),
	}, nil
}
