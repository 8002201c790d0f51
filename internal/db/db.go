package db

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const foreignKeysPragma = "_pragma=foreign_keys(1)"

func init() {
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// Init opens and pings the database. SQLite connections always enforce
// foreign keys: the schema declares references without ON DELETE actions and
// relies on them to reject rows orphaned by an incomplete cascade.
func Init(driver, connection string) (*sqlx.DB, error) {
	if driver == "sqlite" {
		var err error
		connection, err = prepareSQLite(connection)
		if err != nil {
			return nil, err
		}
	}

	db, err := sqlx.Connect(driver, connection)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	err = db.Ping()
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	slog.Info("database connected", "driver", driver)
	return db, nil
}

// prepareSQLite creates the directory of a file database and adds the
// foreign key pragma when the DSN lacks one.
func prepareSQLite(dsn string) (string, error) {
	path, query, _ := strings.Cut(dsn, "?")
	if path != ":memory:" && !strings.HasPrefix(path, "file::memory:") {
		err := os.MkdirAll(filepath.Dir(path), 0755)
		if err != nil {
			return "", fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	if strings.Contains(query, "foreign_keys") {
		return dsn, nil
	}
	if query == "" {
		return path + "?" + foreignKeysPragma, nil
	}
	return dsn + "&" + foreignKeysPragma, nil
}

func Close(db *sqlx.DB) error {
	if db == nil {
		return nil
	}
	return db.Close()
}
