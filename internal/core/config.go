// Package core contains the business logic of the to-do manager: the task
// store and its mutations, the query functions, the command dispatcher,
// the seed importer, and configuration loading.
package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/valter-silva-au/todo/pkg/models"
)

// ConfigFileName is the base name of the configuration file. Viper finds
// .todoconfig.yaml (or any other supported extension) in the base path.
const ConfigFileName = ".todoconfig"

// ConfigurationManager defines the interface for loading and validating the
// global configuration.
type ConfigurationManager interface {
	LoadGlobalConfig() (*models.GlobalConfig, error)
	ValidateConfig(cfg *models.GlobalConfig) error
}

// viperConfigManager implements ConfigurationManager using Viper for
// reading YAML configuration files and TODO_* environment variables.
type viperConfigManager struct {
	// basePath is the root directory where .todoconfig resides.
	basePath string
}

// NewConfigurationManager creates a new ConfigurationManager that reads
// configuration files relative to basePath.
func NewConfigurationManager(basePath string) ConfigurationManager {
	return &viperConfigManager{basePath: basePath}
}

// DefaultGlobalConfig returns a GlobalConfig populated with sensible defaults.
func DefaultGlobalConfig() *models.GlobalConfig {
	return &models.GlobalConfig{
		Storage: models.StorageConfig{
			Backend: models.BackendFile,
			Format:  models.FormatJSON,
			Key:     "tasks",
		},
		Redis: models.RedisConfig{
			Addr: "localhost:6379",
		},
		Seed: models.SeedConfig{
			Enabled: true,
			URL:     "https://jsonplaceholder.typicode.com/todos",
			Limit:   DefaultSeedLimit,
			Timeout: 10 * time.Second,
		},
		Log: models.LogConfig{
			Level:  "info",
			Format: "console",
		},
		HTTP: models.HTTPConfig{
			Addr:            "127.0.0.1:8080",
			ShutdownTimeout: 5 * time.Second,
		},
		Events: models.EventsConfig{
			Enabled: true,
			Kafka:   models.KafkaConfig{Topic: "todo.changes"},
		},
		Alerts: models.AlertsConfig{
			DueSoonDays: 1,
			MaxOpen:     20,
		},
	}
}

// LoadGlobalConfig reads .todoconfig from the base path using Viper.
// Missing keys (or a missing file) fall back to DefaultGlobalConfig, and
// TODO_<SECTION>_<KEY> environment variables override file values.
func (cm *viperConfigManager) LoadGlobalConfig() (*models.GlobalConfig, error) {
	def := DefaultGlobalConfig()

	v := viper.New()
	v.SetConfigName(ConfigFileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(cm.basePath)
	v.SetEnvPrefix("TODO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults double as the list of keys AutomaticEnv can override.
	v.SetDefault("storage.backend", def.Storage.Backend)
	v.SetDefault("storage.format", def.Storage.Format)
	v.SetDefault("storage.key", def.Storage.Key)
	v.SetDefault("storage.dir", def.Storage.Dir)
	v.SetDefault("redis.addr", def.Redis.Addr)
	v.SetDefault("redis.password", def.Redis.Password)
	v.SetDefault("redis.db", def.Redis.DB)
	v.SetDefault("seed.enabled", def.Seed.Enabled)
	v.SetDefault("seed.url", def.Seed.URL)
	v.SetDefault("seed.limit", def.Seed.Limit)
	v.SetDefault("seed.timeout", def.Seed.Timeout)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.format", def.Log.Format)
	v.SetDefault("http.addr", def.HTTP.Addr)
	v.SetDefault("http.shutdown_timeout", def.HTTP.ShutdownTimeout)
	v.SetDefault("events.enabled", def.Events.Enabled)
	v.SetDefault("events.kafka.brokers", def.Events.Kafka.Brokers)
	v.SetDefault("events.kafka.topic", def.Events.Kafka.Topic)
	v.SetDefault("alerts.due_soon_days", def.Alerts.DueSoonDays)
	v.SetDefault("alerts.max_open", def.Alerts.MaxOpen)
	v.SetDefault("notifications.slack.webhook_url", def.Notifications.Slack.WebhookURL)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading %s: %w", ConfigFileName, err)
		}
	}

	cfg := &models.GlobalConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", ConfigFileName, err)
	}
	// Broker lists may arrive from the environment as "a:9092, b:9092".
	cfg.Events.Kafka.Brokers = splitList(strings.Join(cfg.Events.Kafka.Brokers, ","))

	return cfg, nil
}

// ValidateConfig checks that a GlobalConfig holds usable values.
func (cm *viperConfigManager) ValidateConfig(cfg *models.GlobalConfig) error {
	if cfg == nil {
		return fmt.Errorf("config must not be nil")
	}

	switch cfg.Storage.Backend {
	case models.BackendFile, models.BackendRedis, models.BackendMemory:
	default:
		return fmt.Errorf("storage.backend %q is not one of file, redis, memory", cfg.Storage.Backend)
	}
	switch cfg.Storage.Format {
	case models.FormatJSON, models.FormatYAML:
	default:
		return fmt.Errorf("storage.format %q is not one of json, yaml", cfg.Storage.Format)
	}
	if strings.TrimSpace(cfg.Storage.Key) == "" {
		return fmt.Errorf("storage.key must not be empty")
	}
	if strings.ContainsAny(cfg.Storage.Key, `/\`) {
		return fmt.Errorf("storage.key %q must not contain path separators", cfg.Storage.Key)
	}
	if cfg.Storage.Backend == models.BackendRedis && cfg.Redis.Addr == "" {
		return fmt.Errorf("redis.addr is required for the redis backend")
	}
	if cfg.Seed.Enabled {
		if cfg.Seed.URL == "" {
			return fmt.Errorf("seed.url is required when seeding is enabled")
		}
		if cfg.Seed.Limit < 1 {
			return fmt.Errorf("seed.limit must be at least 1, got %d", cfg.Seed.Limit)
		}
	}
	if cfg.Seed.Timeout < 0 {
		return fmt.Errorf("seed.timeout must not be negative")
	}
	if cfg.Alerts.DueSoonDays < 0 {
		return fmt.Errorf("alerts.due_soon_days must not be negative")
	}
	if cfg.Alerts.MaxOpen < 0 {
		return fmt.Errorf("alerts.max_open must not be negative")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
