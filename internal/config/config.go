// Package config handles configuration loading and defaults.
package config

import (
	"fmt"

	"github.com/nibzard/studyplan/internal/kv"
	"github.com/nibzard/studyplan/internal/query"
	"github.com/nibzard/studyplan/internal/store"
	"github.com/nibzard/studyplan/internal/task"
)

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
	Files   []string // config files that were read, lowest priority first
}

// Default values.
const (
	DefaultDataDir         = "~/.studyplan"
	DefaultBackend         = string(kv.BackendFile)
	DefaultStorageKey      = store.DefaultKey
	DefaultPriority        = string(task.PriorityMedium)
	DefaultDateFormat      = query.DefaultDateLayout
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "text"
	DefaultConfigFileName  = "studyplan.toml"
	DefaultHiddenFileName  = ".studyplan.toml"
	DefaultUserConfigDir   = ".studyplan"
	DefaultOSConfigDirName = "studyplan"
)

// Config holds the full configuration for studyplan.
type Config struct {
	// Storage
	DataDir    string `toml:"data_dir"`
	Backend    string `toml:"backend"`
	StorageKey string `toml:"storage_key"`
	MySQLDSN   string `toml:"mysql_dsn"`

	// Tasks
	DefaultPriority string `toml:"default_priority"`
	DateFormat      string `toml:"date_format"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`
}

// configFields returns the list of configurable field names for source tracking.
func configFields() []string {
	return []string{
		"data_dir",
		"backend",
		"storage_key",
		"mysql_dsn",
		"default_priority",
		"date_format",
		"log_level",
		"log_format",
		"log_timestamps",
		"log_caller",
	}
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	cfg.DataDir = DefaultDataDir
	cfg.Backend = DefaultBackend
	cfg.StorageKey = DefaultStorageKey
	cfg.DefaultPriority = DefaultPriority
	cfg.DateFormat = DefaultDateFormat
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
}

// KVOptions returns the persistence backend settings.
func (c *Config) KVOptions() kv.Options {
	return kv.Options{
		Backend: kv.Backend(c.Backend),
		Dir:     c.DataDir,
		DSN:     c.MySQLDSN,
	}
}

// Priority returns the parsed default priority.
func (c *Config) Priority() task.Priority {
	p, err := task.ParsePriority(c.DefaultPriority, task.PriorityMedium)
	if err != nil {
		return task.PriorityMedium
	}
	return p
}

// Validate reports values that cannot be used.
func (c *Config) Validate() error {
	if _, err := kv.ParseBackend(c.Backend); err != nil {
		return err
	}
	if _, err := task.ParsePriority(c.DefaultPriority, task.PriorityMedium); err != nil {
		return fmt.Errorf("default_priority: %w", err)
	}
	if c.StorageKey == "" {
		return fmt.Errorf("storage_key is empty")
	}
	if c.DataDir == "" && c.Backend == DefaultBackend {
		return fmt.Errorf("data_dir is empty")
	}
	return nil
}

// Value returns the string form of a field by its TOML name.
func (c *Config) Value(field string) string {
	switch field {
	case "data_dir":
		return c.DataDir
	case "backend":
		return c.Backend
	case "storage_key":
		return c.StorageKey
	case "mysql_dsn":
		if c.MySQLDSN == "" {
			return ""
		}
		return "(set)"
	case "default_priority":
		return c.DefaultPriority
	case "date_format":
		return c.DateFormat
	case "log_level":
		return c.LogLevel
	case "log_format":
		return c.LogFormat
	case "log_timestamps":
		return fmt.Sprint(c.LogTimestamps)
	case "log_caller":
		return fmt.Sprint(c.LogCaller)
	}
	return ""
}

// Fields returns every configurable field name in display order.
func Fields() []string {
	return configFields()
}
