package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"

	"ContentPilot/internal/config"
	"ContentPilot/internal/infrastructure/cms"
	"ContentPilot/internal/infrastructure/llm"
	"ContentPilot/internal/infrastructure/scheduler"
	"ContentPilot/internal/infrastructure/settings"
	"ContentPilot/internal/infrastructure/storage"
	"ContentPilot/internal/infrastructure/telegram"
	"ContentPilot/internal/logging"
	"ContentPilot/internal/ports"
	"ContentPilot/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg        config.Config
	db         *sql.DB
	automation *usecase.Automation
	scheduler  *usecase.Scheduler
	logger     *slog.Logger
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	store := storage.New(db)
	settingsSource := settings.NewCache(withSiteDefaults{store, cfg.Site.Host}, time.Minute)

	client := llm.NewClient(cfg.OpenAI)
	publisher := cms.NewPublisher(cfg.CMS)

	var notifier ports.Notifier
	if cfg.Notifications.Telegram.BotToken != "" {
		notifier = telegram.NewNotifier(cfg.Notifications.Telegram.BotToken, cfg.Notifications.Telegram.ChatID)
	}

	orchestrator := usecase.NewOrchestrator(usecase.OrchestratorDeps{
		DraftService: client,
		Humanizer:    client,
		LinkInserter: client,
		Ideas:        store,
		Articles:     store,
		Contributors: store,
		Catalog:      store,
		Settings:     settingsSource,
		Logger:       baseLogger.With("component", "orchestrator"),
	})

	automation := usecase.NewAutomation(usecase.AutomationDeps{
		Ideas:        store,
		Articles:     store,
		Publisher:    publisher,
		Settings:     settingsSource,
		Notifier:     notifier,
		IdeaGen:      client,
		Orchestrator: orchestrator,
		Logger:       baseLogger.With("component", "automation"),
	})

	driver := scheduler.NewTickerScheduler(cfg.Scheduler.TickInterval(), cfg.Scheduler.Location())

	return &Application{
		cfg:        cfg,
		db:         db,
		automation: automation,
		scheduler:  usecase.NewScheduler(driver, automation),
		logger:     baseLogger.With("component", "app"),
	}, nil
}

// Run starts the automation loop and blocks until the context ends.
func (a *Application) Run(ctx context.Context) error {
	if err := a.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	if err := a.scheduler.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	a.logger.Info("automation loop started", "interval", a.cfg.Scheduler.TickInterval())

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.scheduler.Stop(stopCtx); err != nil {
		a.logger.Error("stop scheduler", "error", err)
	}
	return a.db.Close()
}

// RunOnce executes a single automation tick and exits.
func (a *Application) RunOnce(ctx context.Context) error {
	if err := a.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	defer a.db.Close()

	now := time.Now().In(a.cfg.Scheduler.Location())
	return a.automation.RunTick(ctx, now)
}

// withSiteDefaults backfills configuration-derived keys the settings
// table may not carry.
type withSiteDefaults struct {
	source   ports.SettingsSource
	siteHost string
}

func (w withSiteDefaults) Settings(ctx context.Context) (map[string]string, error) {
	values, err := w.source.Settings(ctx)
	if err != nil {
		return nil, err
	}
	if values == nil {
		values = map[string]string{}
	}
	if values["site_host"] == "" && w.siteHost != "" {
		values["site_host"] = w.siteHost
	}
	return values, nil
}
