package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/proplane/estatehub-api/internal/config"
	"github.com/proplane/estatehub-api/internal/platform/logger"
	"github.com/proplane/estatehub-api/internal/platform/postgres"
	"github.com/proplane/estatehub-api/internal/service"
	"github.com/proplane/estatehub-api/internal/source"
	"github.com/proplane/estatehub-api/internal/store"
	"github.com/proplane/estatehub-api/internal/task"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	// Configuration
	config *config.Config

	// Core services
	logger *slog.Logger
	db     *sql.DB

	// Stores (using interfaces for proper abstraction)
	taskStore    store.TaskStore
	listingStore store.ListingStore

	// Service interfaces
	taskService service.TaskService

	// Task handling
	queue  *task.Queue
	runner *task.Runner
}

// initializeApp loads configuration and sets up all application components.
// Returns the assembled application or any initialization error.
func initializeApp(ctx context.Context) (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.Setup(cfg.Server.LogLevel)
	log.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)

	db, err := setupAppDatabase(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	if err := runMigrations(db, log); err != nil {
		return nil, err
	}

	if cfg.Sources.Seed {
		if err := source.EnsureSampleData(
			cfg.Sources.SourceAPath,
			cfg.Sources.SourceBPath,
			cfg.Sources.SeedRecords,
		); err != nil {
			return nil, fmt.Errorf("failed to seed source datasets: %w", err)
		}
		log.Info("source datasets ready",
			"source_a_path", cfg.Sources.SourceAPath,
			"source_b_path", cfg.Sources.SourceBPath)
	}

	return newApplication(cfg, log, db)
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts core dependencies like configuration, logger and
// database connection that must be established before application
// initialization.
func newApplication(cfg *config.Config, log *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: log,
		db:     db,
	}

	// Initialize stores
	app.taskStore = postgres.NewPostgresTaskStore(db)
	app.listingStore = postgres.NewPostgresListingStore(db)

	// Initialize source adapters
	sourceA := source.NewSourceA(cfg.Sources.SourceAPath)
	sourceB := source.NewSourceB(cfg.Sources.SourceBPath)

	// Initialize the task queue and its single consumer
	app.queue = task.NewQueue()
	app.runner = task.NewRunner(
		app.queue,
		app.taskStore,
		app.listingStore,
		sourceA,
		sourceB,
		log.With("component", "task_runner"),
	)
	app.runner.Start()

	// Initialize the task service
	app.taskService = service.NewTaskService(
		app.taskStore,
		app.listingStore,
		app.queue,
		db,
		log.With("component", "task_service"),
	)

	log.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources. The queue is
// closed before the runner stops so no new work is admitted while the
// in-flight task drains.
func (app *application) cleanup() {
	if app.queue != nil {
		app.queue.Close()
	}

	if app.runner != nil {
		app.runner.Stop()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
