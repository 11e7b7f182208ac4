// Package config layers application settings from defaults, an optional
// yaml file, .env, environment variables and command line flags, in that
// order. Loading happens before the logger exists, so messages are
// collected and flushed into zap once it is up.
package config

import (
	"errors"
	"flag"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var ErrDatabaseURLRequired = errors.New("database url is required")

type Config struct {
	Debug bool   `yaml:"debug" json:"debug"`
	Dev   bool   `yaml:"dev" json:"dev"`
	Host  string `yaml:"host" json:"host"`
	Port  string `yaml:"port" json:"port"`

	// BaseURL is the public origin, used for published survey links and
	// export metadata.
	BaseURL string `yaml:"base_url" json:"base_url"`

	DatabaseURL     string `yaml:"database_url" json:"database_url"`
	MigrationSource string `yaml:"migration_source" json:"migration_source"`

	OtelCollectorUrl string `yaml:"otel_collector_url" json:"otel_collector_url"`

	AllowOrigins []string `yaml:"allow_origins" json:"allow_origins"`

	// Redis is optional; an empty addr disables the slug cache.
	RedisAddr     string `yaml:"redis_addr" json:"redis_addr"`
	RedisPassword string `yaml:"redis_password" json:"redis_password"`
	RedisDB       int    `yaml:"redis_db" json:"redis_db"`
}

func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return ErrDatabaseURLRequired
	}
	return nil
}

type logEntry struct {
	level   string
	message string
	fields  []zap.Field
}

// Log buffers messages produced during loading.
type Log struct {
	entries []logEntry
}

func (l *Log) info(message string, fields ...zap.Field) {
	l.entries = append(l.entries, logEntry{level: "info", message: message, fields: fields})
}

func (l *Log) warn(message string, fields ...zap.Field) {
	l.entries = append(l.entries, logEntry{level: "warn", message: message, fields: fields})
}

func (l *Log) FlushToZap(logger *zap.Logger) {
	for _, entry := range l.entries {
		switch entry.level {
		case "warn":
			logger.Warn(entry.message, entry.fields...)
		default:
			logger.Info(entry.message, entry.fields...)
		}
	}
	l.entries = nil
}

func defaultConfig() Config {
	return Config{
		Host:            "localhost",
		Port:            "8080",
		BaseURL:         "http://localhost:8080",
		MigrationSource: "file://migrations",
		AllowOrigins:    []string{"*"},
	}
}

// Load assembles the config. Later sources win: yaml file, then .env,
// then environment, then flags.
func Load() (Config, *Log) {
	cfgLog := &Log{}
	cfg := defaultConfig()

	cfg = loadYaml(cfg, cfgLog, os.Getenv("CONFIG_PATH"))
	cfg = loadDotEnv(cfg, cfgLog)
	cfg = loadEnv(cfg)
	cfg = loadFlags(cfg, os.Args[1:])

	return cfg, cfgLog
}

func loadYaml(cfg Config, cfgLog *Log, path string) Config {
	if path == "" {
		path = "config.yaml"
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			cfgLog.warn("Failed to read config file", zap.String("path", path), zap.Error(err))
		}
		return cfg
	}

	if err := yaml.Unmarshal(content, &cfg); err != nil {
		cfgLog.warn("Failed to parse config file, ignoring it", zap.String("path", path), zap.Error(err))
		return cfg
	}

	cfgLog.info("Loaded config file", zap.String("path", path))
	return cfg
}

func loadDotEnv(cfg Config, cfgLog *Log) Config {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			cfgLog.warn("Failed to load .env file", zap.Error(err))
		}
		return cfg
	}
	cfgLog.info("Loaded .env file")
	return cfg
}

func loadEnv(cfg Config) Config {
	if v := os.Getenv("DEBUG"); v != "" {
		cfg.Debug = v == "true" || v == "1"
	}
	if v := os.Getenv("DEV"); v != "" {
		cfg.Dev = v == "true" || v == "1"
	}
	if v := os.Getenv("HOST"); v != "" {
		cfg.Host = v
	}
	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("MIGRATION_SOURCE"); v != "" {
		cfg.MigrationSource = v
	}
	if v := os.Getenv("OTEL_COLLECTOR_URL"); v != "" {
		cfg.OtelCollectorUrl = v
	}
	if v := os.Getenv("ALLOW_ORIGINS"); v != "" {
		cfg.AllowOrigins = splitAndTrim(v)
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.RedisPassword = v
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			cfg.RedisDB = db
		}
	}
	return cfg
}

func loadFlags(cfg Config, args []string) Config {
	fs := flag.NewFlagSet("survey-studio", flag.ContinueOnError)

	debug := fs.Bool("debug", cfg.Debug, "enable debug logging")
	dev := fs.Bool("dev", cfg.Dev, "enable development mode")
	host := fs.String("host", cfg.Host, "listen host")
	port := fs.String("port", cfg.Port, "listen port")
	baseURL := fs.String("base-url", cfg.BaseURL, "public base url")
	databaseURL := fs.String("database-url", cfg.DatabaseURL, "postgres connection url")
	migrationSource := fs.String("migration-source", cfg.MigrationSource, "migration files source")
	otelCollectorUrl := fs.String("otel-collector-url", cfg.OtelCollectorUrl, "otlp collector url")
	allowOrigins := fs.String("allow-origins", strings.Join(cfg.AllowOrigins, ","), "comma separated cors origins")
	redisAddr := fs.String("redis-addr", cfg.RedisAddr, "redis address for the slug cache")
	redisDB := fs.Int("redis-db", cfg.RedisDB, "redis database number")

	if err := fs.Parse(args); err != nil {
		return cfg
	}

	cfg.Debug = *debug
	cfg.Dev = *dev
	cfg.Host = *host
	cfg.Port = *port
	cfg.BaseURL = *baseURL
	cfg.DatabaseURL = *databaseURL
	cfg.MigrationSource = *migrationSource
	cfg.OtelCollectorUrl = *otelCollectorUrl
	cfg.AllowOrigins = splitAndTrim(*allowOrigins)
	cfg.RedisAddr = *redisAddr
	cfg.RedisDB = *redisDB

	return cfg
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
