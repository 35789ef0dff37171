package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STRYD_EMAIL", "runner@example.com")
	t.Setenv("STRYD_PASSWORD", "hunter2")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "https://www.stryd.com/b", cfg.API.BaseURL)
	require.Equal(t, 30*time.Second, cfg.API.RequestTimeout)
	require.Equal(t, "stryd_activities.db", cfg.Database.Path)
	require.Equal(t, 30, cfg.Sync.Days)
	require.Equal(t, 10, cfg.Sync.BatchSize)
	require.False(t, cfg.Sync.Force)
	require.Equal(t, "runner@example.com", cfg.API.Email)
	require.Equal(t, "hunter2", cfg.API.Password)
	require.NoError(t, cfg.RequireCredentials())
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("STRYD_SYNC_BATCH_SIZE", "25")
	t.Setenv("STRYD_DATABASE_PATH", "/tmp/mirror.db")
	t.Setenv("STRYD_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, 25, cfg.Sync.BatchSize)
	require.Equal(t, "/tmp/mirror.db", cfg.Database.Path)
	require.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "strydcmd.yaml")
	body := []byte("sync:\n  days: 90\n  batch_size: 5\nmetrics:\n  address: \":9109\"\n")
	require.NoError(t, os.WriteFile(path, body, 0o600))
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, 90, cfg.Sync.Days)
	require.Equal(t, 5, cfg.Sync.BatchSize)
	require.Equal(t, ":9109", cfg.Metrics.Address)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := defaultConfig()
	cfg.Sync.BatchSize = 0
	require.Error(t, cfg.Validate())

	cfg = defaultConfig()
	cfg.Database.Path = ""
	require.Error(t, cfg.Validate())

	cfg = defaultConfig()
	cfg.API.RequestTimeout = 0
	require.Error(t, cfg.Validate())
}

func TestRequireCredentialsMissing(t *testing.T) {
	cfg := defaultConfig()
	require.Error(t, cfg.RequireCredentials())
}
