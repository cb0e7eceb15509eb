package sqlstore

import (
	"fmt"
	"time"

	"github.com/example/dot-journal/domain/journal"
)

// splitTime encodes t as unix seconds plus the nanosecond within the second.
func splitTime(t time.Time) (int64, int32) {
	return t.Unix(), int32(t.Nanosecond())
}

func joinTime(sec int64, nanos int32) time.Time {
	return time.Unix(sec, int64(nanos)).UTC()
}

func encodeTask(task journal.Task) (taskRow, error) {
	if err := task.Validate(); err != nil {
		return taskRow{}, err
	}
	row := taskRow{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      string(task.Status),
	}
	row.CreatedAtSec, row.CreatedAtNanos = splitTime(task.CreatedAt)
	row.UpdatedAtSec, row.UpdatedAtNanos = splitTime(task.UpdatedAt)
	return row, nil
}

func decodeTask(row taskRow) (journal.Task, error) {
	task := journal.Task{
		ID:          row.ID,
		Title:       row.Title,
		Description: row.Description,
		Status:      journal.TaskStatus(row.Status),
		CreatedAt:   joinTime(row.CreatedAtSec, row.CreatedAtNanos),
		UpdatedAt:   joinTime(row.UpdatedAtSec, row.UpdatedAtNanos),
	}
	if err := task.Validate(); err != nil {
		return journal.Task{}, corruptRow("tasks", row.ID, err)
	}
	return task, nil
}

func encodeEvent(event journal.Event) (eventRow, error) {
	if err := event.Validate(); err != nil {
		return eventRow{}, err
	}
	row := eventRow{
		ID:          event.ID,
		Title:       event.Title,
		Description: event.Description,
	}
	row.OccurredAtSec, row.OccurredAtNanos = splitTime(event.OccurredAt)
	row.CreatedAtSec, row.CreatedAtNanos = splitTime(event.CreatedAt)
	return row, nil
}

func decodeEvent(row eventRow) (journal.Event, error) {
	event := journal.Event{
		ID:          row.ID,
		Title:       row.Title,
		Description: row.Description,
		OccurredAt:  joinTime(row.OccurredAtSec, row.OccurredAtNanos),
		CreatedAt:   joinTime(row.CreatedAtSec, row.CreatedAtNanos),
	}
	if err := event.Validate(); err != nil {
		return journal.Event{}, corruptRow("events", row.ID, err)
	}
	return event, nil
}

func encodeNote(note journal.Note) (noteRow, error) {
	if err := note.Validate(); err != nil {
		return noteRow{}, err
	}
	row := noteRow{
		ID:      note.ID,
		Title:   note.Title,
		Content: note.Content,
	}
	row.CreatedAtSec, row.CreatedAtNanos = splitTime(note.CreatedAt)
	return row, nil
}

func decodeNote(row noteRow) (journal.Note, error) {
	note := journal.Note{
		ID:        row.ID,
		Title:     row.Title,
		Content:   row.Content,
		CreatedAt: joinTime(row.CreatedAtSec, row.CreatedAtNanos),
	}
	if err := note.Validate(); err != nil {
		return journal.Note{}, corruptRow("notes", row.ID, err)
	}
	return note, nil
}

// corruptRow reports a stored row that does not decode to a valid value.
func corruptRow(table, id string, cause error) error {
	return fmt.Errorf("%w: invalid row %s/%s: %v", journal.ErrStorageUnavailable, table, id, cause)
}

func decodeAll[R, T any](rows []R, decode func(R) (T, error)) ([]T, error) {
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		v, err := decode(row)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
