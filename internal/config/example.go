package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# studyplan configuration file
# Values can be overridden by STUDYPLAN_* environment variables or CLI flags

# Persistence backend: file, memory, or mysql
backend = "file"

# Directory for the file backend (supports ~ expansion and %VAR% on Windows)
data_dir = "~/.studyplan"

# Key holding the task collection
storage_key = "smart_study_tasks"

# DSN for the mysql backend
# mysql_dsn = "user:pass@tcp(127.0.0.1:3306)/studyplan"

# Priority used when none is given: low, medium, or high
default_priority = "medium"

# Go time layout for displayed dates
date_format = "Jan 2, 2006"

# Logging
log_level = "info"
log_format = "text"
log_timestamps = false
log_caller = false
`
}
