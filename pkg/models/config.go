package models

import "time"

// Storage backends.
const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Snapshot formats for the file backend.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// StorageConfig selects and configures the persistence adapter.
type StorageConfig struct {
	Backend string `yaml:"backend" mapstructure:"backend"`
	Format  string `yaml:"format" mapstructure:"format"`
	Key     string `yaml:"key" mapstructure:"key"`
	Dir     string `yaml:"dir,omitempty" mapstructure:"dir"`
}

// RedisConfig holds connection settings for the redis backend.
type RedisConfig struct {
	Addr     string `yaml:"addr" mapstructure:"addr"`
	Password string `yaml:"password,omitempty" mapstructure:"password"`
	DB       int    `yaml:"db" mapstructure:"db"`
}

// SeedConfig controls the startup import from the demo API.
type SeedConfig struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	URL     string        `yaml:"url" mapstructure:"url"`
	Limit   int           `yaml:"limit" mapstructure:"limit"`
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"` // console or json
}

// HTTPConfig holds settings for the JSON API server.
type HTTPConfig struct {
	Addr            string        `yaml:"addr" mapstructure:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
}

// KafkaConfig configures the optional change-event publisher.
type KafkaConfig struct {
	Brokers []string `yaml:"brokers,omitempty" mapstructure:"brokers"`
	Topic   string   `yaml:"topic" mapstructure:"topic"`
}

// EventsConfig controls the local event log and external publishing.
type EventsConfig struct {
	Enabled bool        `yaml:"enabled" mapstructure:"enabled"`
	Kafka   KafkaConfig `yaml:"kafka" mapstructure:"kafka"`
}

// AlertsConfig holds due-date alert thresholds.
type AlertsConfig struct {
	DueSoonDays int `yaml:"due_soon_days" mapstructure:"due_soon_days"`
	MaxOpen     int `yaml:"max_open" mapstructure:"max_open"`
}

// SlackConfig holds the Slack webhook used for alert notifications.
type SlackConfig struct {
	WebhookURL string `yaml:"webhook_url,omitempty" mapstructure:"webhook_url"`
}

// NotificationsConfig groups notification channels.
type NotificationsConfig struct {
	Slack SlackConfig `yaml:"slack" mapstructure:"slack"`
}

// GlobalConfig holds all settings read from .todoconfig via Viper.
type GlobalConfig struct {
	Storage       StorageConfig       `yaml:"storage" mapstructure:"storage"`
	Redis         RedisConfig         `yaml:"redis" mapstructure:"redis"`
	Seed          SeedConfig          `yaml:"seed" mapstructure:"seed"`
	Log           LogConfig           `yaml:"log" mapstructure:"log"`
	HTTP          HTTPConfig          `yaml:"http" mapstructure:"http"`
	Events        EventsConfig        `yaml:"events" mapstructure:"events"`
	Alerts        AlertsConfig        `yaml:"alerts" mapstructure:"alerts"`
	Notifications NotificationsConfig `yaml:"notifications" mapstructure:"notifications"`
}
