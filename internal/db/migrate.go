package db

import (
	"database/sql"
	"fmt"
	"io/fs"
	"log/slog"
	"sync"

	"github.com/pressly/goose/v3"
)

// dialectMap maps database drivers to Goose dialect names
var dialectMap = map[string]string{
	"sqlite": "sqlite3",
	"pgx":    "postgres",
}

// goose keeps its dialect and base FS in package globals
var gooseMu sync.Mutex

// getDialect returns the Goose dialect for the given driver
func getDialect(driver string) string {
	dialect, ok := dialectMap[driver]
	if ok {
		return dialect
	}
	return driver
}

// withGoose configures Goose for driver and runs fn while holding gooseMu
func withGoose(driver string, fn func() error) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	err := goose.SetDialect(getDialect(driver))
	if err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}

	migrationsDir, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to get migrations directory: %w", err)
	}
	goose.SetBaseFS(migrationsDir)
	goose.SetLogger(goose.NopLogger())

	return fn()
}

// RunMigrations applies all pending migrations.
func RunMigrations(db *sql.DB, driver string) error {
	err := withGoose(driver, func() error {
		return goose.Up(db, ".")
	})
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	slog.Info("migrations completed successfully")
	return nil
}

// MigrateDown rolls back the most recent migration.
func MigrateDown(db *sql.DB, driver string) error {
	err := withGoose(driver, func() error {
		return goose.Down(db, ".")
	})
	if err != nil {
		return fmt.Errorf("failed to rollback migration: %w", err)
	}

	slog.Info("rolled back one migration")
	return nil
}

// Version returns the current schema version.
func Version(db *sql.DB, driver string) (int64, error) {
	var version int64
	err := withGoose(driver, func() error {
		v, err := goose.GetDBVersion(db)
		version = v
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}
