// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. User config file (~/.studyplan/studyplan.toml or OS-specific config directory)
// 3. Project config file (studyplan.toml or .studyplan.toml in the working directory)
// 4. Environment variables (STUDYPLAN_*)
// 5. CLI flags
//
// Each level overrides the previous one, so CLI flags take precedence.
//
// User-level config locations:
// - ~/.studyplan/studyplan.toml (preferred)
// - Windows: %APPDATA%\studyplan\studyplan.toml
// - macOS: ~/Library/Application Support/studyplan/studyplan.toml
// - Linux/BSD: $XDG_CONFIG_HOME/studyplan/studyplan.toml or ~/.config/studyplan/studyplan.toml
//
// Project-level config locations (overrides user config):
// - ./studyplan.toml (preferred)
// - ./.studyplan.toml
package config
