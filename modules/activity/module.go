// Package activity keeps a feed of recent journal changes by consuming the
// journal module's events.
package activity

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/example/dot-journal/events"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/go-monolith/mono/pkg/types"
)

// Module implements the activity consumer module.
type Module struct {
	feed   *Feed
	logger types.Logger
}

// Compile-time interface checks
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.EventConsumerModule   = (*Module)(nil)
	_ mono.ServiceProviderModule = (*Module)(nil)
)

// NewModule creates an activity module keeping at most limit entries.
func NewModule(limit int, logger types.Logger) *Module {
	return &Module{
		feed:   NewFeed(limit),
		logger: logger,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "activity"
}

// RegisterEventConsumers subscribes to every journal event.
func (m *Module) RegisterEventConsumers(registry mono.EventRegistry) error {
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskCreatedV1, m.taskHandler(KindTaskCreated), m); err != nil {
		return fmt.Errorf("failed to register TaskCreated consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskCompletedV1, m.taskHandler(KindTaskCompleted), m); err != nil {
		return fmt.Errorf("failed to register TaskCompleted consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskCancelledV1, m.taskHandler(KindTaskCancelled), m); err != nil {
		return fmt.Errorf("failed to register TaskCancelled consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskReopenedV1, m.taskHandler(KindTaskReopened), m); err != nil {
		return fmt.Errorf("failed to register TaskReopened consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskDeletedV1, m.taskHandler(KindTaskDeleted), m); err != nil {
		return fmt.Errorf("failed to register TaskDeleted consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.EventRecordedV1, m.handleEventRecorded, m); err != nil {
		return fmt.Errorf("failed to register EventRecorded consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.NoteCreatedV1, m.handleNoteCreated, m); err != nil {
		return fmt.Errorf("failed to register NoteCreated consumer: %w", err)
	}

	m.logger.Info("Registered event consumers",
		"events", []string{"TaskCreated", "TaskCompleted", "TaskCancelled", "TaskReopened", "TaskDeleted", "EventRecorded", "NoteCreated"})
	return nil
}

// taskHandler returns a consumer recording task events as kind.
func (m *Module) taskHandler(kind string) func(context.Context, events.TaskEvent, *mono.Msg) error {
	return func(_ context.Context, event events.TaskEvent, _ *mono.Msg) error {
		m.feed.Record(Entry{
			Kind:      kind,
			SubjectID: event.TaskID,
			Title:     event.Title,
			Status:    event.Status,
			At:        event.OccurredAt,
		})
		m.logger.Debug("Recorded task activity", "kind", kind, "taskID", event.TaskID)
		return nil
	}
}

func (m *Module) handleEventRecorded(_ context.Context, event events.EventRecordedEvent, _ *mono.Msg) error {
	m.feed.Record(Entry{
		Kind:      KindEventRecorded,
		SubjectID: event.EventID,
		Title:     event.Title,
		At:        event.OccurredAt,
	})
	return nil
}

func (m *Module) handleNoteCreated(_ context.Context, event events.NoteCreatedEvent, _ *mono.Msg) error {
	m.feed.Record(Entry{
		Kind:      KindNoteCreated,
		SubjectID: event.NoteID,
		Title:     event.Title,
		At:        event.CreatedAt,
	})
	return nil
}

// RegisterServices registers this module's services in the service container.
func (m *Module) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "recent-activity", json.Unmarshal, json.Marshal, m.recentActivity,
	); err != nil {
		return fmt.Errorf("failed to register recent-activity service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "activity-summary", json.Unmarshal, json.Marshal, m.activitySummary,
	); err != nil {
		return fmt.Errorf("failed to register activity-summary service: %w", err)
	}

	m.logger.Info("Registered activity services", "services", []string{"recent-activity", "activity-summary"})
	return nil
}

// RecentActivityRequest is the request for the recent-activity service.
type RecentActivityRequest struct {
	Limit int `json:"limit"`
}

// RecentActivityResponse lists entries newest first.
type RecentActivityResponse struct {
	Entries []Entry `json:"entries"`
	Total   int     `json:"total"`
}

// SummaryRequest is the request for the activity-summary service.
type SummaryRequest struct{}

// recentActivity handles recent-activity service requests.
func (m *Module) recentActivity(_ context.Context, req RecentActivityRequest, _ *mono.Msg) (RecentActivityResponse, error) {
	entries := m.feed.Recent(req.Limit)
	return RecentActivityResponse{Entries: entries, Total: len(entries)}, nil
}

// activitySummary handles activity-summary service requests.
func (m *Module) activitySummary(_ context.Context, _ SummaryRequest, _ *mono.Msg) (Summary, error) {
	return m.feed.Summary(), nil
}

// Start initializes the activity module.
func (m *Module) Start(_ context.Context) error {
	m.logger.Info("Activity module started", "limit", m.feed.limit)
	return nil
}

// Stop gracefully shuts down the module.
func (m *Module) Stop(_ context.Context) error {
	m.logger.Info("Activity module stopped")
	return nil
}
