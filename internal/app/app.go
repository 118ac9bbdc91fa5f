package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"AlphaWatcher/internal/config"
	"AlphaWatcher/internal/infrastructure/cms"
	"AlphaWatcher/internal/infrastructure/feedscrape"
	"AlphaWatcher/internal/infrastructure/scheduler"
	"AlphaWatcher/internal/infrastructure/source"
	"AlphaWatcher/internal/infrastructure/storage"
	"AlphaWatcher/internal/infrastructure/telegram"
	"AlphaWatcher/internal/logging"
	"AlphaWatcher/internal/ports"
	"AlphaWatcher/internal/scanner"
	"AlphaWatcher/internal/usecase"
	"AlphaWatcher/pkg/logger"
)

// Application wires config to the watch pipeline and its lifecycle.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	pipeline *usecase.Pipeline
	cleanup  func() error
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	httpClient := &http.Client{Timeout: cfg.Watcher.RequestTimeout}

	registry := scanner.NewRegistry()
	registry.Register(cms.New(httpClient, baseLogger.With("component", "source.cms")))
	registry.Register(feedscrape.New(httpClient, baseLogger.With("component", "source.feed")))

	src := source.NewFallback(registry, cfg.Sources, baseLogger.With("component", "source"))

	seen, cleanup, err := buildSeenStore(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("seen store: %w", err)
	}

	notifier := telegram.NewNotifier(
		cfg.Notifications.Telegram.BotToken,
		cfg.Notifications.Telegram.ChatID,
	)

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Source:      src,
		Seen:        seen,
		Notifier:    notifier,
		Logger:      baseLogger.With("component", "pipeline"),
		NotifyDelay: cfg.Watcher.NotifyDelay,
	})

	return &Application{
		cfg:      cfg,
		logger:   baseLogger,
		pipeline: pipeline,
		cleanup:  cleanup,
	}, nil
}

// Run executes one cycle in once mode, otherwise drives the cron
// schedule until ctx is cancelled.
func (a *Application) Run(ctx context.Context) error {
	defer a.close()

	if a.cfg.Scheduler.Once {
		report, err := a.pipeline.RunCycle(ctx)
		if err != nil {
			return err
		}
		a.logger.Info("single cycle complete",
			"fetched", report.Fetched,
			"notified", report.Notified,
			"skipped", report.Skipped)
		return nil
	}

	driver := scheduler.NewCron(
		a.cfg.Scheduler.CronExpression,
		a.cfg.Scheduler.Location(),
		logger.New("cron"),
	)
	sched := usecase.NewScheduler(driver, a.pipeline, a.logger.With("component", "scheduler"))

	if err := sched.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	return sched.Stop(context.Background())
}

func (a *Application) close() {
	if a.cleanup != nil {
		if err := a.cleanup(); err != nil {
			a.logger.Warn("close seen store", "error", err)
		}
	}
}

func buildSeenStore(cfg config.StorageConfig) (ports.SeenStore, func() error, error) {
	switch cfg.Kind {
	case "sqlite":
		store, err := storage.OpenSQLiteStore(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	default:
		return storage.NewFileStore(cfg.Path), nil, nil
	}
}
