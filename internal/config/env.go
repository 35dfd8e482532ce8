package config

import (
	"os"

	"github.com/nibzard/studyplan/internal/utils"
)

// EnvPrefix is prepended to every environment variable the config reads.
const EnvPrefix = "STUDYPLAN_"

// loadFromEnv overrides config from environment variables.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) {
	str := func(name, field string, target *string) {
		if v := os.Getenv(EnvPrefix + name); v != "" {
			*target = v
			sources[field] = SourceEnv
		}
	}
	boolean := func(name, field string, target *bool) {
		if v := os.Getenv(EnvPrefix + name); v != "" {
			*target = utils.BoolFromString(v)
			sources[field] = SourceEnv
		}
	}

	str("DATA_DIR", "data_dir", &cfg.DataDir)
	str("BACKEND", "backend", &cfg.Backend)
	str("STORAGE_KEY", "storage_key", &cfg.StorageKey)
	str("MYSQL_DSN", "mysql_dsn", &cfg.MySQLDSN)
	str("DEFAULT_PRIORITY", "default_priority", &cfg.DefaultPriority)
	str("DATE_FORMAT", "date_format", &cfg.DateFormat)
	str("LOG_LEVEL", "log_level", &cfg.LogLevel)
	str("LOG_FORMAT", "log_format", &cfg.LogFormat)
	boolean("LOG_TIMESTAMPS", "log_timestamps", &cfg.LogTimestamps)
	boolean("LOG_CALLER", "log_caller", &cfg.LogCaller)
}
