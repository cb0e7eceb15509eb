// Package config loads the journal settings: built-in defaults, then an
// optional YAML file, then DOT_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Log levels understood by the application logger.
const (
	LogLevelInfo  = "info"
	LogLevelError = "error"
)

// Defaults.
const (
	DefaultHome          = "~/.dot"
	DefaultDBName        = "dot.db"
	DefaultActivityLimit = 100
)

// Settings is the resolved application configuration.
type Settings struct {
	// Home is the data directory. A leading "~" is the user's home directory.
	Home string `yaml:"home"`
	// DBName is the SQLite file name inside Home.
	DBName string `yaml:"db_name"`
	// Backend selects the storage implementation.
	Backend string `yaml:"backend"`
	// DBDebug logs every SQL statement.
	DBDebug  bool   `yaml:"db_debug"`
	LogLevel string `yaml:"log_level"`
	// ActivityLimit bounds the recent activity feed.
	ActivityLimit int `yaml:"activity_limit"`
}

// Default returns the settings used when nothing is configured.
func Default() Settings {
	return Settings{
		Home:          DefaultHome,
		DBName:        DefaultDBName,
		Backend:       BackendSQLite,
		LogLevel:      LogLevelInfo,
		ActivityLimit: DefaultActivityLimit,
	}
}

// Load resolves the settings. path names an optional YAML file; an empty
// path skips the file. The result is validated.
func Load(path string) (Settings, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(filepath.Clean(path))
		if err != nil {
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return cfg, err
	}

	home, err := expandHome(cfg.Home)
	if err != nil {
		return cfg, err
	}
	cfg.Home = home

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applyEnvOverrides overrides config values with DOT_* environment variables.
func applyEnvOverrides(cfg *Settings) error {
	if home := os.Getenv("DOT_HOME"); home != "" {
		cfg.Home = home
	}
	if backend := os.Getenv("DOT_BACKEND"); backend != "" {
		cfg.Backend = strings.ToLower(backend)
	}
	if debug := os.Getenv("DOT_DB_DEBUG"); debug != "" {
		d, err := strconv.ParseBool(debug)
		if err != nil {
			return fmt.Errorf("invalid DOT_DB_DEBUG %q: %w", debug, err)
		}
		cfg.DBDebug = d
	}
	if level := os.Getenv("DOT_LOG_LEVEL"); level != "" {
		cfg.LogLevel = strings.ToLower(level)
	}
	if limit := os.Getenv("DOT_ACTIVITY_LIMIT"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil {
			return fmt.Errorf("invalid DOT_ACTIVITY_LIMIT %q: %w", limit, err)
		}
		cfg.ActivityLimit = n
	}
	return nil
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(userHome, strings.TrimPrefix(path, "~")), nil
}

// DBPath returns the SQLite file location.
func (s Settings) DBPath() string {
	return filepath.Join(s.Home, s.DBName)
}

// Validate checks that every field holds a usable value.
func (s Settings) Validate() error {
	if s.Home == "" {
		return fmt.Errorf("home is required")
	}
	if s.DBName == "" {
		return fmt.Errorf("db_name is required")
	}
	if strings.ContainsRune(s.DBName, filepath.Separator) {
		return fmt.Errorf("db_name must be a file name, got %q", s.DBName)
	}
	switch s.Backend {
	case BackendSQLite, BackendMemory:
	default:
		return fmt.Errorf("backend must be %q or %q, got %q", BackendSQLite, BackendMemory, s.Backend)
	}
	switch s.LogLevel {
	case LogLevelInfo, LogLevelError:
	default:
		return fmt.Errorf("log_level must be %q or %q, got %q", LogLevelInfo, LogLevelError, s.LogLevel)
	}
	if s.ActivityLimit <= 0 {
		return fmt.Errorf("activity_limit must be positive, got %d", s.ActivityLimit)
	}
	return nil
}
