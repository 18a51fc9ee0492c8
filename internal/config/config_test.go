package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CONFIG_PATH", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "llama-3.3-70b-versatile", cfg.AI.Model)
	assert.Equal(t, 4, cfg.AI.MaxAttempts)
	assert.Equal(t, time.Second, cfg.AI.InitialBackoff)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.HTTP.AllowedOrigins)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("STORAGE_DRIVER", "file")
	t.Setenv("DATA_DIR", "/var/lib/topics")
	t.Setenv("AI_MAX_ATTEMPTS", "2")
	t.Setenv("APP_ENV", "production")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverFile, cfg.Storage.Driver)
	assert.Equal(t, "/var/lib/topics", cfg.Storage.DataDir)
	assert.Equal(t, 2, cfg.AI.MaxAttempts)
	assert.True(t, cfg.IsProduction())
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage:\n  driver: redis\n  redis_url: redis://cache:6379/1\n"), 0o644))
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverRedis, cfg.Storage.Driver)
	assert.Equal(t, "redis://cache:6379/1", cfg.Storage.RedisURL)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "unknown driver", mutate: func(c *Config) { c.Storage.Driver = "mongo" }, wantErr: "unknown STORAGE_DRIVER"},
		{name: "postgres without dsn", mutate: func(c *Config) { c.Storage.Driver = DriverPostgres }, wantErr: "DATABASE_URL"},
		{name: "zero attempts", mutate: func(c *Config) { c.AI.MaxAttempts = 0 }, wantErr: "AI_MAX_ATTEMPTS"},
		{name: "hash without secret", mutate: func(c *Config) { c.Admin.PasswordHash = "$2a$10$x" }, wantErr: "ADMIN_JWT_SECRET"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	assert.NoError(t, validConfig().Validate())
}

func TestTelegramAdminIDs(t *testing.T) {
	ids := TelegramConfig{AdminChatIDs: " 12, abc,34 ,"}.AdminIDs()
	assert.Equal(t, map[int64]bool{12: true, 34: true}, ids)
}

func validConfig() *Config {
	return &Config{
		Storage:   StorageConfig{Driver: DriverSQLite, SQLitePath: "x.db"},
		AI:        AIConfig{MaxAttempts: 1},
		Scheduler: SchedulerConfig{Enabled: true, Interval: time.Minute},
	}
}
