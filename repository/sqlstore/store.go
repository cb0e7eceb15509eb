// Package sqlstore provides the durable journal repositories on SQLite via
// GORM. Each Store owns one database file and hands out one transaction at
// a time.
package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/example/dot-journal/domain/journal"
	"github.com/go-monolith/mono/pkg/types"
	"golang.org/x/sync/semaphore"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// schemaVersion is written to PRAGMA user_version on open.
const schemaVersion = 1

// Config configures Open.
type Config struct {
	// Path is the SQLite database file. Its directory is created if missing.
	Path string
	// Debug logs every SQL statement through the GORM logger.
	Debug bool
	// Logger receives lifecycle messages. Optional.
	Logger types.Logger
}

// Store is one durable storage target.
type Store struct {
	db     *gorm.DB
	gate   *semaphore.Weighted
	path   string
	logger types.Logger
}

var _ journal.UnitOfWorkFactory = (*Store)(nil)

// Open creates the database directory and file if needed, creates the
// tables and verifies the file is writable. Every failure wraps
// journal.ErrStorageUnavailable.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("%w: database path is empty", journal.ErrStorageUnavailable)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, unavailable("create database directory", err)
	}

	logLevel := logger.Silent
	if cfg.Debug {
		logLevel = logger.Info
	}

	db, err := gorm.Open(sqlite.Open(cfg.Path), &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, unavailable("connect to database", err)
	}

	s := &Store{
		db:     db,
		gate:   semaphore.NewWeighted(1),
		path:   cfg.Path,
		logger: cfg.Logger,
	}

	if err := s.init(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("Opened journal database", "path", cfg.Path)
	}
	return s, nil
}

func (s *Store) init(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return unavailable("get sql.DB", err)
	}
	// SQLite has a single writer; one connection also keeps ":memory:"
	// databases alive across transactions.
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.PingContext(ctx); err != nil {
		return unavailable("ping database", err)
	}

	if err := s.db.WithContext(ctx).AutoMigrate(&taskRow{}, &eventRow{}, &noteRow{}); err != nil {
		return unavailable("create tables", err)
	}

	// AutoMigrate is read-only once the tables exist, so check write access with a PRAGMA write.
	if err := s.db.WithContext(ctx).Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)).Error; err != nil {
		return unavailable("write to database", err)
	}
	return nil
}

// Path returns the database file.
func (s *Store) Path() string {
	return s.path
}

// Begin waits until no other unit of work is open on s and starts a
// transaction owned by the returned unit.
func (s *Store) Begin(ctx context.Context) (journal.UnitOfWork, error) {
	if err := s.gate.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("failed to begin unit of work: %w", err)
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		s.gate.Release(1)
		return nil, unavailable("begin transaction", tx.Error)
	}

	uow := &UnitOfWork{store: s, tx: tx}
	uow.taskRepo = &taskRepository{uow: uow}
	uow.eventRepo = &eventRepository{uow: uow}
	uow.noteRepo = &noteRepository{uow: uow}
	return uow, nil
}

// Ping checks that the database connection is usable.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return unavailable("get sql.DB", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return unavailable("ping database", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	if s.logger != nil {
		s.logger.Info("Closed journal database", "path", s.path)
	}
	return nil
}

// unavailable wraps a driver error as journal.ErrStorageUnavailable.
func unavailable(op string, err error) error {
	return fmt.Errorf("failed to %s: %w: %w", op, journal.ErrStorageUnavailable, err)
}

// isDuplicate reports whether err is a primary key violation.
func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
