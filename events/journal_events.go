// Package events declares the domain events the journal module emits after a
// unit of work commits.
package events

import (
	"time"

	"github.com/go-monolith/mono/pkg/helper"
)

// Module is the owner name used in every journal event subject.
const Module = "journal"

// TaskEvent is the payload of every task lifecycle event.
type TaskEvent struct {
	TaskID     string    `json:"task_id"`
	Title      string    `json:"title"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}

// TaskCreatedV1 is published when a task is added.
// Subject: events.journal.v1.task-created
var TaskCreatedV1 = helper.EventDefinition[TaskEvent](Module, "TaskCreated", "v1")

// TaskCompletedV1 is published when a task is marked done.
var TaskCompletedV1 = helper.EventDefinition[TaskEvent](Module, "TaskCompleted", "v1")

// TaskCancelledV1 is published when a task is cancelled.
var TaskCancelledV1 = helper.EventDefinition[TaskEvent](Module, "TaskCancelled", "v1")

// TaskReopenedV1 is published when a task goes back to todo.
var TaskReopenedV1 = helper.EventDefinition[TaskEvent](Module, "TaskReopened", "v1")

// TaskDeletedV1 is published when a task is deleted.
var TaskDeletedV1 = helper.EventDefinition[TaskEvent](Module, "TaskDeleted", "v1")

// EventRecordedEvent is emitted when a calendar event is recorded.
type EventRecordedEvent struct {
	EventID    string    `json:"event_id"`
	Title      string    `json:"title"`
	OccurredAt time.Time `json:"occurred_at"`
}

// EventRecordedV1 is the typed definition for EventRecordedEvent.
var EventRecordedV1 = helper.EventDefinition[EventRecordedEvent](Module, "EventRecorded", "v1")

// NoteCreatedEvent is emitted when a note is written.
type NoteCreatedEvent struct {
	NoteID    string    `json:"note_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// NoteCreatedV1 is the typed definition for NoteCreatedEvent.
var NoteCreatedV1 = helper.EventDefinition[NoteCreatedEvent](Module, "NoteCreated", "v1")
