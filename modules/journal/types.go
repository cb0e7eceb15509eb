package journal

import (
	"time"

	domain "github.com/example/dot-journal/domain/journal"
)

// CreateTaskRequest is the request for creating a task.
type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// TaskIDRequest identifies one task. It is shared by get-task, the
// transition services and delete-task.
type TaskIDRequest struct {
	TaskID string `json:"task_id"`
}

// UpdateTaskRequest is the request for editing a task. Omitted fields keep
// their value; an empty description clears it.
type UpdateTaskRequest struct {
	TaskID      string  `json:"task_id"`
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}

// ListTasksRequest is the request for listing tasks.
type ListTasksRequest struct {
	Status string `json:"status,omitempty"`
}

// TaskResponse is the response for a single task.
type TaskResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ListTasksResponse is the response for listing tasks.
type ListTasksResponse struct {
	Tasks []TaskResponse `json:"tasks"`
	Total int            `json:"total"`
}

// RecordEventRequest is the request for recording an event. A missing
// occurred_at means now.
type RecordEventRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	OccurredAt  *time.Time `json:"occurred_at,omitempty"`
}

// EventIDRequest identifies one event.
type EventIDRequest struct {
	EventID string `json:"event_id"`
}

// ListEventsRequest is the request for listing every event.
type ListEventsRequest struct{}

// EventRangeRequest selects events occurring from Start through End.
type EventRangeRequest struct {
	Start domain.Date `json:"start"`
	End   domain.Date `json:"end"`
}

// EventResponse is the response for a single event.
type EventResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	OccurredAt  time.Time `json:"occurred_at"`
	CreatedAt   time.Time `json:"created_at"`
}

// ListEventsResponse is the response for listing events.
type ListEventsResponse struct {
	Events []EventResponse `json:"events"`
	Total  int             `json:"total"`
}

// CreateNoteRequest is the request for writing a note.
type CreateNoteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// NoteIDRequest identifies one note.
type NoteIDRequest struct {
	NoteID string `json:"note_id"`
}

// ListNotesRequest is the request for listing every note.
type ListNotesRequest struct{}

// NoteResponse is the response for a single note.
type NoteResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// ListNotesResponse is the response for listing notes.
type ListNotesResponse struct {
	Notes []NoteResponse `json:"notes"`
	Total int            `json:"total"`
}

// DeleteResponse is the response of every delete service. Deleted is false
// when the id did not exist.
type DeleteResponse struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

// LogRequest selects the day, or the week or month containing it. A missing
// date means today.
type LogRequest struct {
	Date *domain.Date `json:"date,omitempty"`
}

// DailyLogResponse is everything recorded on one day.
type DailyLogResponse struct {
	Date   domain.Date     `json:"date"`
	Tasks  []TaskResponse  `json:"tasks"`
	Events []EventResponse `json:"events"`
	Notes  []NoteResponse  `json:"notes"`
	Empty  bool            `json:"empty"`
}

// PeriodLogResponse holds one daily log per day from Start through End.
type PeriodLogResponse struct {
	Start domain.Date        `json:"start"`
	End   domain.Date        `json:"end"`
	Days  []DailyLogResponse `json:"days"`
}

func toTaskResponse(task domain.Task) TaskResponse {
	return TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      string(task.Status),
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

func toEventResponse(event domain.Event) EventResponse {
	return EventResponse{
		ID:          event.ID,
		Title:       event.Title,
		Description: event.Description,
		OccurredAt:  event.OccurredAt,
		CreatedAt:   event.CreatedAt,
	}
}

func toNoteResponse(note domain.Note) NoteResponse {
	return NoteResponse{
		ID:        note.ID,
		Title:     note.Title,
		Content:   note.Content,
		CreatedAt: note.CreatedAt,
	}
}

// mapAll converts each element of in with convert.
func mapAll[T, R any](in []T, convert func(T) R) []R {
	out := make([]R, 0, len(in))
	for _, v := range in {
		out = append(out, convert(v))
	}
	return out
}

func toDailyLogResponse(entry domain.DailyLogEntry) DailyLogResponse {
	return DailyLogResponse{
		Date:   entry.Date,
		Tasks:  mapAll(entry.Tasks, toTaskResponse),
		Events: mapAll(entry.Events, toEventResponse),
		Notes:  mapAll(entry.Notes, toNoteResponse),
		Empty:  entry.Empty(),
	}
}
