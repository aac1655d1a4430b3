package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "db/migrations", cfg.MigrationsPath)
	assert.Equal(t, "db/backups", cfg.BackupPath)
	assert.Equal(t, "postgresql", cfg.Database.Provider)
	assert.Equal(t, "DATABASE_URL", cfg.Database.URLEnv)
	assert.Equal(t, ".", cfg.Scaffold.Dir)
}

func TestLoadFillsDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	viper.Set("module", "example.com/shop")
	viper.Set("database.provider", "sqlite")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "example.com/shop", cfg.Module)
	assert.Equal(t, "sqlite", cfg.Database.Provider)
	assert.Equal(t, "DATABASE_URL", cfg.Database.URLEnv)
	assert.Equal(t, "db/migrations", cfg.MigrationsPath)
	assert.Equal(t, "db/backups", cfg.BackupPath)
	require.NoError(t, cfg.Validate())
}

func TestValidateRejectsUnknownProvider(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Database.Provider = "oracle"
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.MigrationsPath = ""
	assert.Error(t, cfg.Validate())
}

func TestGetDatabaseURL(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Database.URLEnv = "FORGE_TEST_DATABASE_URL"

	t.Setenv("FORGE_TEST_DATABASE_URL", "sqlite://./test.db")
	url, err := cfg.GetDatabaseURL()
	require.NoError(t, err)
	assert.Equal(t, "sqlite://./test.db", url)
}

func TestGetDatabaseURLFallsBackToSettings(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Database.URLEnv = "FORGE_TEST_UNSET_URL"
	t.Setenv("FORGE_TEST_UNSET_URL", "")
	t.Setenv("DB_TYPE", "sqlite")
	t.Setenv("SQLITE_DB_PATH", "./data/dev.db")

	url, err := cfg.GetDatabaseURL()
	require.NoError(t, err)
	assert.Equal(t, "sqlite://./data/dev.db", url)
}

func TestEnsureDirectories(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MigrationsPath = filepath.Join(t.TempDir(), "db", "migrations")

	require.NoError(t, cfg.EnsureDirectories())
	info, err := os.Stat(cfg.MigrationsPath)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestIsInitialized(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	assert.False(t, IsInitialized())
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("{}"), 0644))
	assert.True(t, IsInitialized())
}
