// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package migration provides a thin wrapper around golang-migrate for
// running the poetry schema migrations.
//
// # Architecture
//
// The API process calls [RunUp] at startup when AUTO_MIGRATE is on.
// The shicictl CLI opens a [Runner] directly to step up, down or report the
// current version.
package migration

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	// pgx5 driver registers "pgx5" scheme for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	// file source reads .sql files from disk.
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// ErrDirty is returned when a previous migration failed halfway.
var ErrDirty = errors.New("migration: database is in a dirty state")

// Runner owns an open golang-migrate instance.
type Runner struct {
	migrator *migrate.Migrate
	logger   *slog.Logger
}

// Open prepares a runner for the given database and migrations directory.
//
// # Parameters
//   - dsn: A postgres:// or postgresql:// URL (pgx5:// is accepted as is).
//   - migrationsPath: Filesystem path to the migrations directory.
//   - logger: Structured logger for migration events.
func Open(dsn, migrationsPath string, logger *slog.Logger) (*Runner, error) {
	migrator, err := migrate.New("file://"+migrationsPath, convertToPgx5DSN(dsn))
	if err != nil {
		return nil, fmt.Errorf("migration: failed to initialize: %w", err)
	}

	migrator.Log = &migrateLogger{logger: logger}
	return &Runner{migrator: migrator, logger: logger}, nil
}

// Close releases the source and database handles.
func (r *Runner) Close() {
	sourceError, dbError := r.migrator.Close()
	if sourceError != nil {
		r.logger.Error("migration_source_close_failed", slog.Any("error", sourceError))
	}
	if dbError != nil {
		r.logger.Error("migration_db_close_failed", slog.Any("error", dbError))
	}
}

// Version reports the applied version. Zero means nothing has been applied.
func (r *Runner) Version() (uint, bool, error) {
	version, dirty, err := r.migrator.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("migration: failed to get current version: %w", err)
	}
	return version, dirty, nil
}

// Up applies all pending migrations. An up-to-date database is not an error.
func (r *Runner) Up() error {
	from, err := r.cleanVersion()
	if err != nil {
		return err
	}

	r.logger.Info("migration_started", slog.Int("current_version", int(from)))

	if err := r.migrator.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			r.logger.Info("migration_already_up_to_date")
			return nil
		}
		return fmt.Errorf("migration: up failed: %w", err)
	}

	to, _, _ := r.Version()
	r.logger.Info("migration_successful",
		slog.Int("from_version", int(from)),
		slog.Int("to_version", int(to)),
	)
	return nil
}

// Down rolls back the given number of migrations.
func (r *Runner) Down(steps int) error {
	if steps < 1 {
		return fmt.Errorf("migration: steps must be positive, got %d", steps)
	}

	from, err := r.cleanVersion()
	if err != nil {
		return err
	}

	if err := r.migrator.Steps(-steps); err != nil {
		return fmt.Errorf("migration: down failed: %w", err)
	}

	to, _, _ := r.Version()
	r.logger.Warn("migration_rolled_back",
		slog.Int("from_version", int(from)),
		slog.Int("to_version", int(to)),
	)
	return nil
}

func (r *Runner) cleanVersion() (uint, error) {
	version, dirty, err := r.Version()
	if err != nil {
		return 0, err
	}
	if dirty {
		return 0, fmt.Errorf("%w at version %d (manual intervention required)", ErrDirty, version)
	}
	return version, nil
}

// RunUp applies all pending UP migrations and closes the runner.
func RunUp(dsn string, migrationsPath string, logger *slog.Logger) error {
	runner, err := Open(dsn, migrationsPath, logger)
	if err != nil {
		return err
	}
	defer runner.Close()

	return runner.Up()
}

// convertToPgx5DSN ensures the DSN uses the pgx5:// scheme required by golang-migrate/v4.
func convertToPgx5DSN(dsn string) string {
	for _, prefix := range []string{"postgres://", "postgresql://"} {
		if rest, ok := strings.CutPrefix(dsn, prefix); ok {
			return "pgx5://" + rest
		}
	}
	return dsn
}

// migrateLogger adapts golang-migrate's logger interface to slog.
type migrateLogger struct {
	logger  *slog.Logger
	verbose bool
}

// Printf implements migrate.Logger.
func (l *migrateLogger) Printf(format string, args ...any) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

// Verbose implements migrate.Logger.
func (l *migrateLogger) Verbose() bool {
	return l.verbose
}
