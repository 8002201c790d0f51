package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/buildline/rfitrack/internal/app"
	"github.com/buildline/rfitrack/internal/config"
	"github.com/buildline/rfitrack/internal/logger"
	"github.com/buildline/rfitrack/internal/routes"
)

func main() {
	cfg := config.Load()

	flush := logger.Init(logger.Options{
		Development: cfg.IsDevelopment(),
		SentryDSN:   cfg.SentryDSN,
		Environment: cfg.AppEnv,
		AppName:     cfg.AppName,
	})
	defer flush()

	app, err := app.New(cfg)
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		flush()
		os.Exit(1)
	}
	defer func() {
		closeErr := app.Close()
		if closeErr != nil {
			slog.Error("failed to close app", "error", closeErr)
		}
	}()

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           routes.SetupRoutes(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.AppEnv, "url", cfg.AppURL)
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("server shutting down")

	// Deletion cascades are not transactional; let in-flight requests finish.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	err = server.Shutdown(shutdownCtx)
	if err != nil {
		slog.Error("server shutdown failed", "error", err)
	}
}
