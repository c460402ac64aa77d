// Package config loads the process-wide newsllm configuration.
//
// Values come from an optional YAML file, with environment variables taking
// precedence. Every field has a stated default so a bare environment still
// yields a runnable config.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Defaults for optional settings.
const (
	DefaultDatabase        = "news-llm"
	DefaultMongoPort       = "27017"
	DefaultNewsLimit       = 5
	DefaultSummaryProvider = "openrouter"
	DefaultSummarizerModel = "google/gemini-flash-1.5"
	DefaultQueueBackend    = "memory"
	DefaultQueueName       = "llm-queue"
	DefaultWorkers         = 1
	DefaultLogLevel        = "info"
)

// Config holds all runtime settings for the pipeline.
type Config struct {
	Debug    bool   `yaml:"debug"`
	LogLevel string `yaml:"log_level"`

	Queue QueueConfig `yaml:"queue"`
	Mongo MongoConfig `yaml:"mongo"`

	OpenRouterAPIKey string `yaml:"openrouter_api_key"`
	OpenAIAPIKey     string `yaml:"openai_api_key"`
	AnthropicAPIKey  string `yaml:"anthropic_api_key"`

	SlackWebhookURL string `yaml:"slack_webhook_url"`

	// NewsLimit caps items kept per scraper. Zero or negative keeps all.
	NewsLimit       int    `yaml:"news_limit"`
	SummaryProvider string `yaml:"summary_provider"`
	SummarizerModel string `yaml:"summarizer_model"`

	// Workers is the number of concurrent summarize/dispatch consumers.
	Workers int `yaml:"workers"`

	// APIAddr enables the status API when set, e.g. ":8090".
	APIAddr string `yaml:"api_addr"`

	// DisabledScrapers lists scraper names excluded from the registry.
	DisabledScrapers []string `yaml:"disabled_scrapers"`
}

// QueueConfig selects and addresses the queue backend.
type QueueConfig struct {
	Backend  string `yaml:"backend"` // "memory" or "redis"
	Name     string `yaml:"name"`
	RedisURL string `yaml:"redis_url"`
}

// MongoConfig addresses the optional article archive. The archive is only
// wired when Host is set.
type MongoConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

// Enabled reports whether the archive store should be constructed.
func (m MongoConfig) Enabled() bool {
	return m.Host != ""
}

// URI builds the mongodb connection string.
func (m MongoConfig) URI() string {
	if m.Username != "" {
		return fmt.Sprintf("mongodb://%s:%s@%s:%s", m.Username, m.Password, m.Host, m.Port)
	}
	return fmt.Sprintf("mongodb://%s:%s", m.Host, m.Port)
}

// Load reads the optional config file at path (empty path skips the file),
// applies defaults, then overrides with environment variables.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	setDefaults(&cfg)
	overrideWithEnvVars(&cfg)

	return &cfg, nil
}

func setDefaults(cfg *Config) {
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if cfg.Queue.Backend == "" {
		cfg.Queue.Backend = DefaultQueueBackend
	}
	if cfg.Queue.Name == "" {
		cfg.Queue.Name = DefaultQueueName
	}
	if cfg.Mongo.Port == "" {
		cfg.Mongo.Port = DefaultMongoPort
	}
	if cfg.Mongo.Database == "" {
		cfg.Mongo.Database = DefaultDatabase
	}
	if cfg.NewsLimit == 0 {
		cfg.NewsLimit = DefaultNewsLimit
	}
	if cfg.SummaryProvider == "" {
		cfg.SummaryProvider = DefaultSummaryProvider
	}
	if cfg.SummarizerModel == "" {
		cfg.SummarizerModel = DefaultSummarizerModel
	}
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
}

func overrideWithEnvVars(cfg *Config) {
	setString(&cfg.Queue.RedisURL, "REDIS_QUEUE_URL")
	setString(&cfg.Queue.Backend, "QUEUE_BACKEND")
	setString(&cfg.Queue.Name, "QUEUE_NAME")
	setString(&cfg.Mongo.Database, "DATABASE")
	setString(&cfg.Mongo.Host, "MONGO_HOST")
	setString(&cfg.Mongo.Port, "MONGO_PORT")
	setString(&cfg.Mongo.Username, "MONGO_USERNAME")
	setString(&cfg.Mongo.Password, "MONGO_PASSWORD")
	setString(&cfg.OpenRouterAPIKey, "OPENROUTER_API_KEY")
	setString(&cfg.OpenAIAPIKey, "OPENAI_API_KEY")
	setString(&cfg.AnthropicAPIKey, "ANTHROPIC_API_KEY")
	setString(&cfg.SlackWebhookURL, "SLACK_WEBHOOK_URL")
	setString(&cfg.SummaryProvider, "SUMMARY_PROVIDER")
	setString(&cfg.SummarizerModel, "SUMMARIZER_MODEL")
	setString(&cfg.APIAddr, "API_ADDR")
	setString(&cfg.LogLevel, "LOG_LEVEL")
	setInt(&cfg.NewsLimit, "NEWS_LIMIT")
	setInt(&cfg.Workers, "WORKERS")

	if v := os.Getenv("APP_DEBUG"); v != "" {
		cfg.Debug = ParseBool(v)
	}
	if cfg.Debug {
		cfg.LogLevel = "debug"
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

// ParseBool reports true for "true", "1", "yes", "t" (case-insensitive).
func ParseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "t":
		return true
	}
	return false
}
