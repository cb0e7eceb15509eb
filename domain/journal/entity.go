// Package journal holds the record types of the journal (tasks, events and
// notes), the pure operations that create and transition them, and the
// storage contracts the repository backends implement.
package journal

import "time"

// TaskStatus represents the state of a task.
type TaskStatus string

const (
	StatusTodo      TaskStatus = "todo"
	StatusDone      TaskStatus = "done"
	StatusCancelled TaskStatus = "cancelled"
)

// Valid reports whether s is one of the defined statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusTodo, StatusDone, StatusCancelled:
		return true
	default:
		return false
	}
}

// ParseTaskStatus converts a stored or user supplied name into a TaskStatus.
func ParseTaskStatus(name string) (TaskStatus, error) {
	s := TaskStatus(name)
	if !s.Valid() {
		return "", &ValidationError{Field: "status", Reason: "unknown status " + name}
	}
	return s, nil
}

// Task is a todo item. Values are never mutated in place: transitions return
// a new Task that replaces the stored one via TaskRepository.Update.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      TaskStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Event is something that happened (or will happen) at OccurredAt.
// Events have no update operation; correct one by deleting and recreating it.
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
	CreatedAt   time.Time `json:"created_at"`
}

// Note is a titled piece of free text. Notes are immutable once created.
type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// DailyLogEntry is the composed view of everything recorded on one date.
// It is rebuilt on every query and never stored.
type DailyLogEntry struct {
	Date   Date    `json:"date"`
	Tasks  []Task  `json:"tasks"`
	Events []Event `json:"events"`
	Notes  []Note  `json:"notes"`
}

// Empty reports whether nothing was recorded on the entry's date.
func (e DailyLogEntry) Empty() bool {
	return len(e.Tasks) == 0 && len(e.Events) == 0 && len(e.Notes) == 0
}
