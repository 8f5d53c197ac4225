// -----------------------------------------------------------------------
// Last Modified: Tuesday, 25th August 2026 9:12:33 am
// Modified By: Bob McAllan
// -----------------------------------------------------------------------

package app

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/nephra/internal/common"
	"github.com/ternarybob/nephra/internal/handlers"
	"github.com/ternarybob/nephra/internal/interfaces"
	"github.com/ternarybob/nephra/internal/logs"
	"github.com/ternarybob/nephra/internal/services/education"
	"github.com/ternarybob/nephra/internal/services/events"
	"github.com/ternarybob/nephra/internal/services/pdf"
	"github.com/ternarybob/nephra/internal/services/report"
	"github.com/ternarybob/nephra/internal/services/scheduler"
	"github.com/ternarybob/nephra/internal/services/summary"
	"github.com/ternarybob/nephra/internal/storage"
)

// App holds all application components and dependencies
type App struct {
	Config         *common.Config
	Logger         arbor.ILogger
	StorageManager interfaces.StorageManager

	// Event-driven services
	EventService     interfaces.EventService
	SchedulerService interfaces.SchedulerService
	SummaryService   *summary.Service
	LogConsumer      *logs.Consumer // Feeds arbor's context channel into the event bus

	// Scoring support services
	EducationService *education.Service
	PDFService       interfaces.PDFService
	ReportService    *report.Service

	// HTTP handlers
	APIHandler       *handlers.APIHandler
	ScoreHandler     *handlers.ScoreHandler
	GFRHandler       *handlers.GFRHandler
	EducationHandler *handlers.EducationHandler
	ReportHandler    *handlers.ReportHandler
	WSHandler        *handlers.WebSocketHandler
}

// New initializes the application with all dependencies
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	// Initialize database
	if err := app.initDatabase(); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Event service and WebSocket handler come up first so the log
	// consumer publishes into a bus that already has its subscriber
	app.EventService = events.NewService(app.Logger)
	app.WSHandler = handlers.NewWebSocketHandler(app.EventService, app.Logger, &app.Config.WebSocket)

	// Create log consumer for arbor context channel
	logConsumer := logs.NewConsumer(app.EventService, app.Logger, &app.Config.WebSocket)
	if err := logConsumer.Start(); err != nil {
		return nil, fmt.Errorf("failed to start log consumer: %w", err)
	}
	app.LogConsumer = logConsumer

	// Route context logs through the consumer so they reach WebSocket clients
	app.Logger.SetChannel("context", logConsumer.GetChannel())

	// Initialize services
	if err := app.initServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	// Initialize handlers
	if err := app.initHandlers(); err != nil {
		return nil, fmt.Errorf("failed to initialize handlers: %w", err)
	}

	// Start WebSocket background tasks for real-time clients
	app.WSHandler.StartStatusBroadcaster()

	logger.Info().
		Bool("scheduler_enabled", cfg.Scheduler.Enabled).
		Bool("education_fetch_enabled", cfg.Education.FetchEnabled).
		Msg("Application initialization complete")

	return app, nil
}

// initDatabase initializes the storage layer (Badger)
func (a *App) initDatabase() error {
	storageManager, err := storage.NewStorageManager(a.Logger, a.Config)
	if err != nil {
		return fmt.Errorf("failed to create storage manager: %w", err)
	}

	a.StorageManager = storageManager
	a.Logger.Debug().
		Str("storage", a.Config.Storage.Type).
		Str("path", a.Config.Storage.Badger.Path).
		Msg("Storage layer initialized")

	return nil
}

// initServices initializes all business services in dependency order
func (a *App) initServices() error {
	// Summary service computes window rollups and persists daily snapshots
	a.SummaryService = summary.NewService(
		a.StorageManager.ScoreStorage(),
		a.StorageManager.SummaryStorage(),
		a.EventService,
		a.Logger,
		&a.Config.Scheduler,
	)

	// Education service loads the topic catalog at startup; article
	// fetching stays off unless enabled in config. Live fetching is also
	// production-only so dev restarts do not hit the catalog's source sites.
	if a.Config.Education.FetchEnabled && !a.Config.IsProduction() {
		a.Logger.Warn().Msg("Education fetch disabled outside production")
		a.Config.Education.FetchEnabled = false
	}
	educationService, err := education.NewService(&a.Config.Education, a.StorageManager.ArticleStorage(), a.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize education service: %w", err)
	}
	a.EducationService = educationService

	// PDF rendering and the score report built on it
	a.PDFService = pdf.NewService(a.Logger)
	a.ReportService = report.NewService(
		a.StorageManager.ScoreStorage(),
		a.SummaryService,
		a.PDFService,
		a.Logger,
		&a.Config.Reports,
	)

	// Scheduler service runs the nightly summary snapshot. The snapshot
	// job is not auto-started; a fresh snapshot per restart would stack
	// duplicate rows for the same day.
	a.SchedulerService = scheduler.NewService(a.Logger)

	if err := a.SchedulerService.RegisterJob(
		"daily_summary",
		a.Config.Scheduler.SummarySchedule,
		"Record a daily score summary snapshot",
		false,
		func() error {
			_, err := a.SummaryService.Record(context.Background())
			return err
		},
	); err != nil {
		return fmt.Errorf("failed to register summary job: %w", err)
	}

	if a.Config.Education.FetchEnabled {
		// Refreshing at startup is safe; only stale articles are fetched
		if err := a.SchedulerService.RegisterJob(
			"article_refresh",
			"30 6 * * *",
			"Refresh stale education articles",
			true,
			func() error {
				_, err := a.EducationService.RefreshStale(context.Background())
				return err
			},
		); err != nil {
			return fmt.Errorf("failed to register article refresh job: %w", err)
		}
	}

	if a.Config.Scheduler.Enabled {
		if err := a.SchedulerService.Start(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to start scheduler service")
		}
	} else {
		a.Logger.Debug().Msg("Scheduler disabled, summary snapshots are on-demand only")
	}

	return nil
}

// initHandlers initializes all HTTP handlers
func (a *App) initHandlers() error {
	a.APIHandler = handlers.NewAPIHandler(a.StorageManager, a.SchedulerService, a.Logger)
	// WSHandler already initialized in New() before the log consumer

	a.ScoreHandler = handlers.NewScoreHandler(
		a.StorageManager.ScoreStorage(),
		a.SummaryService,
		a.EventService,
		a.Logger,
	)

	a.GFRHandler = handlers.NewGFRHandler(
		a.StorageManager.GFRStorage(),
		a.EventService,
		a.Logger,
	)

	a.EducationHandler = handlers.NewEducationHandler(a.EducationService, a.Logger)

	a.ReportHandler = handlers.NewReportHandler(a.ReportService, a.Logger)

	a.Logger.Debug().Msg("HTTP handlers initialized")

	return nil
}

// Close closes all application resources
func (a *App) Close() error {
	// Stop scheduler service
	if a.SchedulerService != nil {
		if err := a.SchedulerService.Stop(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to stop scheduler service")
		}
	}

	// Stop log consumer
	if a.LogConsumer != nil {
		if err := a.LogConsumer.Stop(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to stop log consumer")
		}
	}

	// Close event service
	if a.EventService != nil {
		if err := a.EventService.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close event service")
		}
	}

	// Close storage
	if a.StorageManager != nil {
		if err := a.StorageManager.Close(); err != nil {
			return fmt.Errorf("failed to close storage: %w", err)
		}
		a.Logger.Info().Msg("Storage closed")
	}

	return nil
}
