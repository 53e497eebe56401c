// -----------------------------------------------------------------------
// App - component wiring and lifecycle for the analysis service
// -----------------------------------------------------------------------

package app

import (
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/AmrElsherif83/aira-investment-agent/internal/analysis"
	"github.com/AmrElsherif83/aira-investment-agent/internal/common"
	"github.com/AmrElsherif83/aira-investment-agent/internal/handlers"
	"github.com/AmrElsherif83/aira-investment-agent/internal/providers"
	"github.com/AmrElsherif83/aira-investment-agent/internal/queue"
	"github.com/AmrElsherif83/aira-investment-agent/internal/services/analyzer"
	"github.com/AmrElsherif83/aira-investment-agent/internal/services/watchdog"
	storage "github.com/AmrElsherif83/aira-investment-agent/internal/storage/badger"
)

// App holds all application components and dependencies
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	// Storage
	DB       *storage.BadgerDB
	JobStore *storage.JobStore

	// Pipeline
	Queue      *queue.Queue
	WorkerPool *queue.WorkerPool
	Analyzer   *analyzer.Service
	Watchdog   *watchdog.Service

	// HTTP handlers
	AnalysisHandler *handlers.AnalysisHandler
	StatusHandler   *handlers.StatusHandler
}

// New initializes the application with all dependencies
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	db, err := storage.NewBadgerDB(logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	app.DB = db
	app.JobStore = storage.NewJobStore(db, logger)

	app.Queue = queue.NewQueue(cfg.Queue.Capacity, cfg.Queue.EnqueueWaitDuration())

	weights := analysis.Weights{
		Financial: cfg.Analysis.FinancialWeight,
		Sentiment: cfg.Analysis.SentimentWeight,
		Market:    cfg.Analysis.MarketWeight,
	}
	orch := analyzer.NewOrchestrator(
		providers.NewFinancialProvider(),
		providers.NewNewsProvider(),
		providers.NewRiskProvider(),
		weights,
		logger,
	)
	app.Analyzer = analyzer.NewService(app.JobStore, app.Queue, orch, logger)

	app.WorkerPool = queue.NewWorkerPool(app.Queue, app.Analyzer, cfg.Queue.Concurrency, logger)
	app.Watchdog = watchdog.NewService(app.JobStore, cfg.Queue.WatchdogTimeoutDuration(), logger)

	app.AnalysisHandler = handlers.NewAnalysisHandler(app.Analyzer, app.JobStore, logger)
	app.StatusHandler = handlers.NewStatusHandler(app.JobStore, app.Queue, logger)

	logger.Info().
		Int("queue_capacity", cfg.Queue.Capacity).
		Msg("Application initialized")

	return app, nil
}

// Start begins background processing: the worker pool and the watchdog
func (a *App) Start() error {
	a.WorkerPool.Start()

	if err := a.Watchdog.Start(); err != nil {
		return fmt.Errorf("failed to start watchdog: %w", err)
	}

	a.Logger.Info().
		Int("workers", a.Config.Queue.Concurrency).
		Msg("Background processing started")
	return nil
}

// Shutdown stops background processing and closes storage
func (a *App) Shutdown() {
	a.Logger.Info().Msg("Shutting down application...")

	a.Watchdog.Stop()
	a.WorkerPool.Stop()

	if err := a.DB.Close(); err != nil {
		a.Logger.Warn().Err(err).Msg("Failed to close storage")
	}

	a.Logger.Info().Msg("Application shutdown complete")
}
