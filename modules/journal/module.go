package journal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/example/dot-journal/config"
	domain "github.com/example/dot-journal/domain/journal"
	"github.com/example/dot-journal/events"
	"github.com/example/dot-journal/repository/memory"
	"github.com/example/dot-journal/repository/sqlstore"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/go-monolith/mono/pkg/types"
)

// Backend is a storage target the module can run units of work against.
type Backend interface {
	domain.UnitOfWorkFactory
	Ping(ctx context.Context) error
	Close() error
}

// Module exposes the journal over request-reply services and emits an event
// after every committed change.
type Module struct {
	cfg      config.Settings
	store    Backend
	eventBus mono.EventBus
	logger   types.Logger
}

// Compile-time interface checks
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.ServiceProviderModule = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
	_ mono.EventBusAwareModule   = (*Module)(nil)
	_ mono.EventEmitterModule    = (*Module)(nil)
)

// NewModule creates a journal module. The backend is opened in Start.
func NewModule(cfg config.Settings, logger types.Logger) *Module {
	return &Module{
		cfg:    cfg,
		logger: logger,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "journal"
}

// SetEventBus receives the EventBus from the framework.
func (m *Module) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
}

// EmitEvents declares the events this module can emit.
func (m *Module) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.TaskCreatedV1.ToBase(),
		events.TaskCompletedV1.ToBase(),
		events.TaskCancelledV1.ToBase(),
		events.TaskReopenedV1.ToBase(),
		events.TaskDeletedV1.ToBase(),
		events.EventRecordedV1.ToBase(),
		events.NoteCreatedV1.ToBase(),
	}
}

// RegisterServices registers request-reply services in the service container.
// The framework prefixes each name with "services.journal.".
func (m *Module) RegisterServices(container mono.ServiceContainer) error {
	if err := errors.Join(
		register(container, "create-task", m.createTask),
		register(container, "get-task", m.getTask),
		register(container, "list-tasks", m.listTasks),
		register(container, "update-task", m.updateTask),
		register(container, "complete-task", m.completeTask),
		register(container, "cancel-task", m.cancelTask),
		register(container, "reopen-task", m.reopenTask),
		register(container, "delete-task", m.deleteTask),
		register(container, "record-event", m.recordEvent),
		register(container, "get-event", m.getEvent),
		register(container, "list-events", m.listEvents),
		register(container, "list-events-range", m.listEventsRange),
		register(container, "delete-event", m.deleteEvent),
		register(container, "create-note", m.createNote),
		register(container, "get-note", m.getNote),
		register(container, "list-notes", m.listNotes),
		register(container, "delete-note", m.deleteNote),
		register(container, "daily-log", m.dailyLog),
		register(container, "weekly-log", m.weeklyLog),
		register(container, "monthly-log", m.monthlyLog),
	); err != nil {
		return err
	}

	m.logger.Info("Registered journal services",
		"tasks", "create-task, get-task, list-tasks, update-task, complete-task, cancel-task, reopen-task, delete-task",
		"events", "record-event, get-event, list-events, list-events-range, delete-event",
		"notes", "create-note, get-note, list-notes, delete-note",
		"logs", "daily-log, weekly-log, monthly-log")
	return nil
}

// register adds one JSON request-reply service.
func register[Req, Resp any](container mono.ServiceContainer, name string, handler func(context.Context, Req, *mono.Msg) (Resp, error)) error {
	if err := helper.RegisterTypedRequestReplyService(container, name, json.Unmarshal, json.Marshal, handler); err != nil {
		return fmt.Errorf("failed to register %s service: %w", name, err)
	}
	return nil
}

// Start opens the configured storage backend.
func (m *Module) Start(ctx context.Context) error {
	store, err := openBackend(ctx, m.cfg, m.logger)
	if err != nil {
		return err
	}
	m.store = store

	if m.eventBus == nil {
		m.logger.Warn("Event bus not set, journal events will not be published")
	}
	m.logger.Info("Journal module started", "backend", m.cfg.Backend)
	return nil
}

// Stop closes the storage backend.
func (m *Module) Stop(_ context.Context) error {
	if m.store == nil {
		return nil
	}
	if err := m.store.Close(); err != nil {
		return fmt.Errorf("failed to close journal storage: %w", err)
	}
	m.store = nil
	m.logger.Info("Journal module stopped")
	return nil
}

// Health pings the storage backend.
func (m *Module) Health(ctx context.Context) mono.HealthStatus {
	if m.store == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "storage not initialized",
		}
	}

	if err := m.store.Ping(ctx); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("storage ping failed: %v", err),
		}
	}

	details := map[string]any{"backend": m.cfg.Backend}
	if m.cfg.Backend == config.BackendSQLite {
		details["path"] = m.cfg.DBPath()
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: details,
	}
}

func openBackend(ctx context.Context, cfg config.Settings, logger types.Logger) (Backend, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return memory.NewStore(), nil
	case config.BackendSQLite:
		store, err := sqlstore.Open(ctx, sqlstore.Config{
			Path:   cfg.DBPath(),
			Debug:  cfg.DBDebug,
			Logger: logger,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to open journal storage: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// run executes fn in one unit of work on the module's backend.
func (m *Module) run(ctx context.Context, fn func(ctx context.Context, uow domain.UnitOfWork) error) error {
	if m.store == nil {
		return fmt.Errorf("journal module not started: %w", domain.ErrStorageUnavailable)
	}
	return domain.Run(ctx, m.store, fn)
}
