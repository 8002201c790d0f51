package app

import (
	"fmt"

	"github.com/buildline/rfitrack/internal/config"
	"github.com/buildline/rfitrack/internal/db"
	"github.com/buildline/rfitrack/internal/repository"
	"github.com/buildline/rfitrack/internal/service"
	"github.com/buildline/rfitrack/internal/storage"
	"github.com/jmoiron/sqlx"
)

type App struct {
	Cfg               *config.Config
	DB                *sqlx.DB
	Storage           storage.Storage
	Repos             *repository.Repositories
	AuthService       *service.AuthService
	DeletionService   *service.DeletionService
	LifecycleService  *service.LifecycleService
	RFIService        *service.RFIService
	AttachmentService *service.AttachmentService
}

func New(cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Run database migrations
	if cfg.AutoMigrate {
		err = db.RunMigrations(database.DB, cfg.DBDriver)
		if err != nil {
			_ = database.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	// Storage
	fileStorage, err := storage.New(cfg)
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	return Assemble(cfg, database, fileStorage), nil
}

// Assemble wires repositories and services over an open database and
// storage backend. Tests and rfictl use it directly.
func Assemble(cfg *config.Config, database *sqlx.DB, fileStorage storage.Storage) *App {
	repos := repository.New(database)

	return &App{
		Cfg:               cfg,
		DB:                database,
		Storage:           fileStorage,
		Repos:             repos,
		AuthService:       service.NewAuthService(repos.Users, cfg.JWTSecret, cfg.JWTExpiry),
		DeletionService:   service.NewDeletionService(repos, fileStorage),
		LifecycleService:  service.NewLifecycleService(repos),
		RFIService:        service.NewRFIService(repos),
		AttachmentService: service.NewAttachmentService(repos, fileStorage),
	}
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
