package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/buildline/rfitrack/internal/app"
	"github.com/buildline/rfitrack/internal/config"
	"github.com/buildline/rfitrack/internal/db"
	"github.com/buildline/rfitrack/internal/logger"
	"github.com/buildline/rfitrack/internal/storage"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
)

// loadConfig reads the server configuration and routes logs to stderr so
// stdout carries only command output.
func loadConfig(cmd *cobra.Command) (*config.Config, func()) {
	cfg := config.Load()
	flush := logger.Init(logger.Options{
		Development: cfg.IsDevelopment(),
		SentryDSN:   cfg.SentryDSN,
		Environment: cfg.AppEnv,
		AppName:     cfg.AppName,
		Output:      cmd.ErrOrStderr(),
	})
	return cfg, flush
}

func openDB(cfg *config.Config) (*sqlx.DB, error) {
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return database, nil
}

// withApp opens the database and storage without running migrations and
// hands the assembled app to fn.
func withApp(cmd *cobra.Command, fn func(*app.App) error) error {
	cfg, flush := loadConfig(cmd)
	defer flush()

	database, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	fileStorage, err := storage.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	return fn(app.Assemble(cfg, database, fileStorage))
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
