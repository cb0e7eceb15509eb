package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets every DOT_* variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"DOT_HOME", "DOT_BACKEND", "DOT_DB_DEBUG", "DOT_LOG_LEVEL", "DOT_ACTIVITY_LIMIT"} {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	userHome, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(userHome, ".dot"), cfg.Home)
	assert.Equal(t, filepath.Join(userHome, ".dot", "dot.db"), cfg.DBPath())
	assert.Equal(t, BackendSQLite, cfg.Backend)
	assert.Equal(t, LogLevelInfo, cfg.LogLevel)
	assert.False(t, cfg.DBDebug)
	assert.Equal(t, DefaultActivityLimit, cfg.ActivityLimit)
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	home := t.TempDir()
	path := writeConfig(t, "home: "+home+"\ndb_name: journal.db\nbackend: memory\ndb_debug: true\nactivity_limit: 5\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "journal.db"), cfg.DBPath())
	assert.Equal(t, BackendMemory, cfg.Backend)
	assert.True(t, cfg.DBDebug)
	assert.Equal(t, 5, cfg.ActivityLimit)
	// Unset keys keep their defaults.
	assert.Equal(t, LogLevelInfo, cfg.LogLevel)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "home: /from/file\nbackend: memory\n")
	envHome := t.TempDir()
	t.Setenv("DOT_HOME", envHome)
	t.Setenv("DOT_BACKEND", "SQLite")
	t.Setenv("DOT_DB_DEBUG", "1")
	t.Setenv("DOT_LOG_LEVEL", "error")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, envHome, cfg.Home)
	assert.Equal(t, BackendSQLite, cfg.Backend)
	assert.True(t, cfg.DBDebug)
	assert.Equal(t, LogLevelError, cfg.LogLevel)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		file string
		env  map[string]string
	}{
		{name: "bad yaml", file: "home: [unterminated"},
		{name: "unknown backend", env: map[string]string{"DOT_BACKEND": "postgres"}},
		{name: "bad debug flag", env: map[string]string{"DOT_DB_DEBUG": "sometimes"}},
		{name: "unknown log level", env: map[string]string{"DOT_LOG_LEVEL": "verbose"}},
		{name: "bad activity limit", env: map[string]string{"DOT_ACTIVITY_LIMIT": "many"}},
		{name: "zero activity limit", file: "activity_limit: 0"},
		{name: "db name with directory", file: "db_name: sub/dot.db"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := ""
			if tt.file != "" {
				path = writeConfig(t, tt.file)
			}
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
