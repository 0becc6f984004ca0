package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENV", "")
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.False(t, cfg.Debug)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "file", cfg.Storage.Driver)
	assert.Equal(t, "data", cfg.Storage.Dir)
	assert.Equal(t, "127.0.0.1:6379", cfg.Storage.RedisAddr)
	assert.Equal(t, 8, cfg.Storage.RedisDB)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("ENV", "")
	t.Setenv("ATTENDANCE_ADDR", ":9090")
	t.Setenv("ATTENDANCE_STORAGE_DRIVER", "redis")
	t.Setenv("ATTENDANCE_REDIS_DB", "3")
	t.Setenv("ATTENDANCE_DEBUG", "true")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.True(t, cfg.Debug)
	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "redis", cfg.Storage.Driver)
	assert.Equal(t, 3, cfg.Storage.RedisDB)
}

func TestLoadDotEnv(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("ATTENDANCE_STORAGE_DIR", "")
	os.Unsetenv("ATTENDANCE_STORAGE_DIR")

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "config"), 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "config", ".env.test"),
		[]byte("ATTENDANCE_STORAGE_DIR=/var/lib/attendance\n"),
		0o644,
	))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/attendance", cfg.Storage.Dir)
}
