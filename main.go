package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/example/dot-journal/config"
	"github.com/example/dot-journal/modules/activity"
	"github.com/example/dot-journal/modules/journal"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
)

const shutdownTimeout = 30 * time.Second

func main() {
	log.Println("=== dot journal ===")

	// DOT_CONFIG points at an optional YAML file; DOT_* variables override it.
	cfg, err := config.Load(os.Getenv("DOT_CONFIG"))
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logLevel := mono.LogLevelInfo
	if cfg.LogLevel == config.LogLevelError {
		logLevel = mono.LogLevelError
	}

	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(shutdownTimeout),
		mono.WithLogLevel(logLevel),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	// Register modules with the framework.
	// - activity: event consumer (journal events -> recent activity feed)
	// - journal: core domain (tasks, events, notes, daily logs; emits events)
	app.Register(activity.NewModule(cfg.ActivityLimit, app.Logger()))
	app.Register(journal.NewModule(cfg, app.Logger()))

	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	printStartupInfo(cfg)

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func printStartupInfo(cfg config.Settings) {
	log.Println("")
	log.Println("Application started successfully!")
	log.Println("")
	log.Printf("Storage backend: %s", cfg.Backend)
	if cfg.Backend == config.BackendSQLite {
		log.Printf("Database: %s", cfg.DBPath())
	}
	log.Println("")
	log.Println("Services (in-process request-reply, services.journal.*):")
	log.Println("  create-task, get-task, list-tasks, update-task")
	log.Println("  complete-task, cancel-task, reopen-task, delete-task")
	log.Println("  record-event, get-event, list-events, list-events-range, delete-event")
	log.Println("  create-note, get-note, list-notes, delete-note")
	log.Println("  daily-log, weekly-log, monthly-log")
	log.Println("")
	log.Println("Activity (services.activity.*): recent-activity, activity-summary")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")
}
