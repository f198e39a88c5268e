package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DAYLOG_CONFIG", "")
	t.Setenv("DAYLOG_DEBOUNCE_MS", "")
	t.Setenv("DAYLOG_LOAD_TIMEOUT", "")
	t.Setenv("DAYLOG_REMIND_AT", "")

	cfg := Load(filepath.Join(t.TempDir(), "missing.env"))

	assert.Equal(t, "~/.config/daylog/daylog.db", cfg.Database)
	assert.Equal(t, time.Second, cfg.Debounce)
	assert.Equal(t, 10*time.Second, cfg.LoadTimeout)
	assert.Equal(t, "21:00", cfg.RemindAt)
	assert.Empty(t, cfg.Warnings)
	assert.False(t, cfg.TelegramEnabled())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("DAYLOG_DEBOUNCE_MS", "250")
	t.Setenv("DAYLOG_LOAD_TIMEOUT", "3s")
	t.Setenv("DAYLOG_DEBUG", "true")
	t.Setenv("DAYLOG_TELEGRAM_TOKEN", "token")
	t.Setenv("DAYLOG_TELEGRAM_CHAT_ID", "42")

	cfg := Load(filepath.Join(t.TempDir(), "missing.env"))

	assert.Equal(t, 250*time.Millisecond, cfg.Debounce)
	assert.Equal(t, 3*time.Second, cfg.LoadTimeout)
	assert.True(t, cfg.Debug)
	assert.True(t, cfg.TelegramEnabled())
	assert.Equal(t, int64(42), cfg.TelegramChatID)
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv("DAYLOG_DEBOUNCE_MS", "soon")
	t.Setenv("DAYLOG_REMIND_AT", "9pm")
	t.Setenv("DAYLOG_TIMEZONE", "Mars/Olympus")

	cfg := Load(filepath.Join(t.TempDir(), "missing.env"))

	assert.Equal(t, time.Second, cfg.Debounce)
	assert.Equal(t, "21:00", cfg.RemindAt)
	assert.Equal(t, "Local", cfg.Timezone)
	assert.Len(t, cfg.Warnings, 3)
}

func TestLoadDotEnvFile(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("DAYLOG_USER=sam\n"), 0600))
	// godotenv never overrides variables that are already set.
	os.Unsetenv("DAYLOG_USER")
	t.Cleanup(func() { os.Unsetenv("DAYLOG_USER") })

	cfg := Load(envFile)
	assert.Equal(t, "sam", cfg.User)
}

func TestDatabasePath(t *testing.T) {
	cfg := &Config{Database: "postgres://me@localhost/db"}
	path, err := cfg.DatabasePath()
	require.NoError(t, err)
	assert.Equal(t, "postgres://me@localhost/db", path)

	cfg = &Config{Database: "/tmp/daylog/daylog.db"}
	dir, err := cfg.ConfigDir()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/daylog", dir)
}
