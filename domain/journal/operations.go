package journal

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Length ceilings, counted in runes.
const (
	MaxTitleLength       = 500
	MaxDescriptionLength = 5000
	MaxContentLength     = 50000
)

// now is the clock used by every operation. Tests may replace it.
var now = func() time.Time {
	return time.Now().UTC()
}

// normalizeTime converts t to UTC and drops the monotonic clock reading so
// values compare equal after a storage round trip.
func normalizeTime(t time.Time) time.Time {
	return t.UTC().Round(0)
}

func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return &ValidationError{Field: "title", Reason: "cannot be empty"}
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return &ValidationError{Field: "title", Reason: fmt.Sprintf("cannot exceed %d characters", MaxTitleLength)}
	}
	return nil
}

func validateDescription(description string) error {
	if utf8.RuneCountInString(description) > MaxDescriptionLength {
		return &ValidationError{Field: "description", Reason: fmt.Sprintf("cannot exceed %d characters", MaxDescriptionLength)}
	}
	return nil
}

func validateContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return &ValidationError{Field: "content", Reason: "cannot be empty"}
	}
	if utf8.RuneCountInString(content) > MaxContentLength {
		return &ValidationError{Field: "content", Reason: fmt.Sprintf("cannot exceed %d characters", MaxContentLength)}
	}
	return nil
}

// CreateTask validates its input and returns a new Todo task.
func CreateTask(title, description string) (Task, error) {
	if err := validateTitle(title); err != nil {
		return Task{}, err
	}
	if err := validateDescription(description); err != nil {
		return Task{}, err
	}

	ts := normalizeTime(now())
	return Task{
		ID:          uuid.New().String(),
		Title:       title,
		Description: description,
		Status:      StatusTodo,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}, nil
}

// transition returns a copy of task with the given status. Every status may
// move to every other status, including itself.
func transition(task Task, status TaskStatus) Task {
	task.Status = status
	task.UpdatedAt = touch(task.UpdatedAt)
	return task
}

// touch returns the current time, never earlier than prev.
func touch(prev time.Time) time.Time {
	ts := normalizeTime(now())
	if ts.Before(prev) {
		return prev
	}
	return ts
}

// MarkDone returns task with status Done.
func MarkDone(task Task) Task {
	return transition(task, StatusDone)
}

// MarkCancelled returns task with status Cancelled.
func MarkCancelled(task Task) Task {
	return transition(task, StatusCancelled)
}

// ReopenTask returns task with status Todo.
func ReopenTask(task Task) Task {
	return transition(task, StatusTodo)
}

// UpdateTask replaces the title and/or description of task. Nil arguments
// leave the field unchanged.
func UpdateTask(task Task, title, description *string) (Task, error) {
	if title != nil {
		if err := validateTitle(*title); err != nil {
			return Task{}, err
		}
		task.Title = *title
	}
	if description != nil {
		if err := validateDescription(*description); err != nil {
			return Task{}, err
		}
		task.Description = *description
	}
	task.UpdatedAt = touch(task.UpdatedAt)
	return task, nil
}

// CreateEvent validates its input and returns a new Event. A nil occurredAt
// means the event happens now.
func CreateEvent(title, description string, occurredAt *time.Time) (Event, error) {
	if err := validateTitle(title); err != nil {
		return Event{}, err
	}
	if err := validateDescription(description); err != nil {
		return Event{}, err
	}

	ts := normalizeTime(now())
	occurred := ts
	if occurredAt != nil {
		occurred = normalizeTime(*occurredAt)
	}
	return Event{
		ID:          uuid.New().String(),
		Title:       title,
		Description: description,
		OccurredAt:  occurred,
		CreatedAt:   ts,
	}, nil
}

// CreateNote validates its input and returns a new Note.
func CreateNote(title, content string) (Note, error) {
	if err := validateTitle(title); err != nil {
		return Note{}, err
	}
	if err := validateContent(content); err != nil {
		return Note{}, err
	}

	return Note{
		ID:        uuid.New().String(),
		Title:     title,
		Content:   content,
		CreatedAt: normalizeTime(now()),
	}, nil
}

// BuildDailyLog keeps the items of each sequence that fall on date, in their
// input order. Tasks and notes are matched on CreatedAt, events on OccurredAt.
func BuildDailyLog(tasks []Task, events []Event, notes []Note, date Date) DailyLogEntry {
	entry := DailyLogEntry{
		Date:   date,
		Tasks:  make([]Task, 0, len(tasks)),
		Events: make([]Event, 0, len(events)),
		Notes:  make([]Note, 0, len(notes)),
	}
	for _, t := range tasks {
		if date.Contains(t.CreatedAt) {
			entry.Tasks = append(entry.Tasks, t)
		}
	}
	for _, e := range events {
		if date.Contains(e.OccurredAt) {
			entry.Events = append(entry.Events, e)
		}
	}
	for _, n := range notes {
		if date.Contains(n.CreatedAt) {
			entry.Notes = append(entry.Notes, n)
		}
	}
	return entry
}

// Validate checks every invariant of a task value. Repositories call it so
// that nothing invalid is ever stored or decoded.
func (t Task) Validate() error {
	if t.ID == "" {
		return &ValidationError{Field: "id", Reason: "cannot be empty"}
	}
	if err := validateTitle(t.Title); err != nil {
		return err
	}
	if err := validateDescription(t.Description); err != nil {
		return err
	}
	if !t.Status.Valid() {
		return &ValidationError{Field: "status", Reason: "unknown status " + string(t.Status)}
	}
	if t.CreatedAt.After(t.UpdatedAt) {
		return &ValidationError{Field: "updated_at", Reason: "cannot be before created_at"}
	}
	return nil
}

// Validate checks every invariant of an event value.
func (e Event) Validate() error {
	if e.ID == "" {
		return &ValidationError{Field: "id", Reason: "cannot be empty"}
	}
	if err := validateTitle(e.Title); err != nil {
		return err
	}
	return validateDescription(e.Description)
}

// Validate checks every invariant of a note value.
func (n Note) Validate() error {
	if n.ID == "" {
		return &ValidationError{Field: "id", Reason: "cannot be empty"}
	}
	if err := validateTitle(n.Title); err != nil {
		return err
	}
	return validateContent(n.Content)
}
