package config

import (
	"flag"

	"github.com/nibzard/studyplan/internal/task"
)

// flagFields maps flag names to config field names.
var flagFields = map[string]string{
	"data-dir":         "data_dir",
	"backend":          "backend",
	"key":              "storage_key",
	"mysql-dsn":        "mysql_dsn",
	"default-priority": "default_priority",
	"date-format":      "date_format",
	"log-level":        "log_level",
	"log-format":       "log_format",
	"log-timestamps":   "log_timestamps",
	"log-caller":       "log_caller",
}

// parseFlags defines the global flags on fs, parses args, and marks every
// flag the user set explicitly.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet("studyplan", flag.ContinueOnError)
	}

	// Storage
	fs.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "Directory for the file backend")
	fs.StringVar(&cfg.Backend, "backend", cfg.Backend, "Persistence backend (file|memory|mysql)")
	fs.StringVar(&cfg.StorageKey, "key", cfg.StorageKey, "Storage key holding the task collection")
	fs.StringVar(&cfg.MySQLDSN, "mysql-dsn", cfg.MySQLDSN, "MySQL DSN for the mysql backend")

	// Tasks
	fs.StringVar(&cfg.DefaultPriority, "default-priority", cfg.DefaultPriority, "Priority used when none is given ("+task.PriorityNames()+")")
	fs.StringVar(&cfg.DateFormat, "date-format", cfg.DateFormat, "Go time layout for displayed dates")

	// Logging
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug|info|warn|error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text|json|logfmt)")
	fs.BoolVar(&cfg.LogTimestamps, "log-timestamps", cfg.LogTimestamps, "Include timestamps in log output")
	fs.BoolVar(&cfg.LogCaller, "log-caller", cfg.LogCaller, "Include caller location in log output")

	if err := fs.Parse(args); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		if field, ok := flagFields[f.Name]; ok {
			sources[field] = SourceFlag
		}
	})
	return nil
}
