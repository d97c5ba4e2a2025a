// Package internal provides the App struct that wires all components of the
// to-do manager together and initializes the CLI layer.
package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/valter-silva-au/todo/internal/cli"
	"github.com/valter-silva-au/todo/internal/core"
	"github.com/valter-silva-au/todo/internal/integration"
	"github.com/valter-silva-au/todo/internal/logging"
	"github.com/valter-silva-au/todo/internal/observability"
	"github.com/valter-silva-au/todo/internal/storage"
	"github.com/valter-silva-au/todo/pkg/models"
)

// EventLogFileName is the JSONL event log kept in the base path.
const EventLogFileName = ".todo_events.jsonl"

// App holds all service dependencies of the to-do manager.
type App struct {
	BasePath string
	Config   *models.GlobalConfig
	Logger   zerolog.Logger

	// Configuration
	ConfigMgr core.ConfigurationManager

	// Storage layer
	Persister core.Persister
	redis     *redis.Client

	// Core services
	Store  *core.TaskStore
	Seeder *core.SeedImporter

	// Integration services
	Publisher *integration.ChangePublisher

	// Observability
	EventLog    observability.EventLog
	AlertEngine observability.AlertEngine
	MetricsCalc observability.MetricsCalculator
	Notifier    observability.Notifier
}

// NewApp creates and wires all components. basePath is the directory holding
// .todoconfig, the event log and (by default) the task snapshot. Log output
// goes to stderr.
func NewApp(basePath string) (*App, error) {
	return newApp(basePath, nil)
}

func newApp(basePath string, logOut io.Writer) (*App, error) {
	app := &App{BasePath: basePath}

	// --- Configuration ---
	app.ConfigMgr = core.NewConfigurationManager(basePath)
	cfg, err := app.ConfigMgr.LoadGlobalConfig()
	if err != nil {
		return nil, err
	}
	if err := app.ConfigMgr.ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	app.Config = cfg

	app.Logger, err = logging.New(cfg.Log, logOut)
	if err != nil {
		return nil, err
	}

	// --- Storage layer ---
	app.Persister, err = app.newPersister(cfg)
	if err != nil {
		return nil, err
	}

	// --- Core services ---
	app.Store = core.NewTaskStore(app.Persister, core.NewTaskIDGenerator(), app.Logger)
	app.Store.Load(context.Background())

	// --- Observability ---
	if cfg.Events.Enabled {
		if err := os.MkdirAll(basePath, 0o755); err != nil {
			return nil, fmt.Errorf("creating %s: %w", basePath, err)
		}
		eventLog, err := observability.NewJSONLEventLog(filepath.Join(basePath, EventLogFileName))
		if err != nil {
			app.Logger.Warn().Err(err).Msg("event log disabled")
		} else {
			app.EventLog = eventLog
			app.Store.Subscribe(core.NewEventLogListener(&eventLogAdapter{log: eventLog}))
			app.MetricsCalc = observability.NewMetricsCalculator(eventLog)
		}
	}
	app.AlertEngine = observability.NewAlertEngine(app.Store, observability.AlertThresholds{
		DueSoonDays: cfg.Alerts.DueSoonDays,
		MaxOpen:     cfg.Alerts.MaxOpen,
	})
	if url := cfg.Notifications.Slack.WebhookURL; url != "" {
		app.Notifier = observability.NewSlackNotifier(url)
	}

	// --- Integration services ---
	if cfg.Events.Enabled && len(cfg.Events.Kafka.Brokers) > 0 {
		app.Publisher = integration.NewChangePublisher(cfg.Events.Kafka.Brokers, cfg.Events.Kafka.Topic, app.Logger)
		app.Store.Subscribe(app.Publisher.Listener())
	}

	// Seeder stays nil when seeding is off, so "todo seed" refuses to run.
	if cfg.Seed.Enabled {
		seedSource := &seedSourceAdapter{client: integration.NewTodoClient(cfg.Seed.URL, cfg.Seed.Timeout)}
		app.Seeder = core.NewSeedImporter(app.Store, seedSource, core.SeedOptions{
			Limit:  cfg.Seed.Limit,
			Logger: app.Logger,
		})
	}

	// --- Wire CLI package-level variables ---
	cli.BasePath = basePath
	cli.Logger = app.Logger
	cli.Store = app.Store
	cli.Seeder = app.Seeder
	cli.SeedOnStart = cfg.Seed.Enabled
	cli.HTTPAddr = cfg.HTTP.Addr
	cli.HTTPShutdownTimeout = cfg.HTTP.ShutdownTimeout

	cli.AlertEngine = app.AlertEngine
	cli.MetricsCalc = app.MetricsCalc
	cli.Notifier = app.Notifier

	app.Logger.Debug().
		Str("base_path", basePath).
		Str("backend", cfg.Storage.Backend).
		Int("tasks", app.Store.Len()).
		Msg("app initialized")
	return app, nil
}

// newPersister builds the persistence adapter selected by storage.backend.
func (a *App) newPersister(cfg *models.GlobalConfig) (core.Persister, error) {
	codec, err := storage.CodecFor(cfg.Storage.Format)
	if err != nil {
		return nil, err
	}

	switch cfg.Storage.Backend {
	case models.BackendRedis:
		a.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		return storage.NewRedisStore(a.redis, cfg.Storage.Key, codec), nil
	case models.BackendMemory:
		return storage.NewMemoryStore(cfg.Storage.Key, codec), nil
	default:
		dir := cfg.Storage.Dir
		if dir == "" {
			dir = a.BasePath
		} else if !filepath.IsAbs(dir) {
			dir = filepath.Join(a.BasePath, dir)
		}
		return storage.NewFileStore(dir, cfg.Storage.Key, codec), nil
	}
}

// Close releases resources held by the App: the event log file handle, the
// Kafka writer and the redis connection pool. It is safe to call on an App
// with none of them configured.
func (a *App) Close() error {
	var errs []error
	if a.EventLog != nil {
		errs = append(errs, a.EventLog.Close())
	}
	if a.Publisher != nil {
		errs = append(errs, a.Publisher.Close())
	}
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	return errors.Join(errs...)
}

// ResolveBasePath determines the directory holding the to-do data.
// It checks the TODO_HOME env var, then walks up from the working directory
// looking for .todoconfig, then falls back to ~/.todo.
func ResolveBasePath() string {
	if home := os.Getenv("TODO_HOME"); home != "" {
		return home
	}

	dir, err := os.Getwd()
	if err == nil {
		for {
			if hasConfigFile(dir) {
				return dir
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".todo")
	}
	cwd, _ := os.Getwd()
	return cwd
}

func hasConfigFile(dir string) bool {
	for _, name := range []string{core.ConfigFileName, core.ConfigFileName + ".yaml", core.ConfigFileName + ".yml"} {
		if info, err := os.Stat(filepath.Join(dir, name)); err == nil && !info.IsDir() {
			return true
		}
	}
	return false
}

// --- Adapters ---

// eventLogAdapter adapts observability.EventLog to core.EventLogger.
type eventLogAdapter struct {
	log observability.EventLog
}

func (a *eventLogAdapter) LogEvent(eventType string, data map[string]any) error {
	return a.log.Write(observability.Event{
		Time:    time.Now().UTC(),
		Level:   observability.LevelInfo,
		Type:    eventType,
		Message: eventType,
		Data:    data,
	})
}

// seedSourceAdapter adapts integration.TodoClient to core.SeedSource.
type seedSourceAdapter struct {
	client integration.TodoClient
}

func (a *seedSourceAdapter) FetchSeedItems(ctx context.Context, limit int) ([]core.SeedItem, error) {
	todos, err := a.client.FetchTodos(ctx, limit)
	if err != nil {
		return nil, err
	}
	items := make([]core.SeedItem, len(todos))
	for i, t := range todos {
		items[i] = core.SeedItem{Title: t.Title, Completed: t.Completed}
	}
	return items, nil
}
