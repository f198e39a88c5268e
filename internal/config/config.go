package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/julianstephens/daylog/internal/constants"
	"github.com/julianstephens/daylog/internal/utils"
)

type Config struct {
	// Storage: sqlite path or PostgreSQL connection string
	Database     string
	DBConnection string

	Debug    bool
	Timezone string

	// Session
	Debounce    time.Duration
	LoadTimeout time.Duration

	// Identity override
	User string

	// Notifications
	TelegramToken  string
	TelegramChatID int64
	RemindAt       string

	// Warnings collects invalid values that fell back to defaults. They are
	// logged once the logger is up.
	Warnings []string
}

// Load reads an optional .env file (or the given files) and then the
// environment. Invalid values fall back to defaults and are reported in Warnings.
func Load(files ...string) *Config {
	_ = godotenv.Load(files...)

	cfg := &Config{}
	cfg.Database = envString(constants.EnvConfig, constants.DefaultConfigPath)
	cfg.DBConnection = envString(constants.EnvDBConnection, "")
	cfg.Debug = cfg.envBool(constants.EnvDebug, false)
	cfg.Timezone = envString(constants.EnvTimezone, constants.DefaultTimezone)
	cfg.Debounce = cfg.envMillis(constants.EnvDebounceMs, constants.DefaultDebounce)
	cfg.LoadTimeout = cfg.envDuration(constants.EnvLoadTimeout, constants.DefaultLoadTimeout)
	cfg.User = envString(constants.EnvUser, "")
	cfg.TelegramToken = envString(constants.EnvTelegramToken, "")
	cfg.TelegramChatID = cfg.envInt64(constants.EnvTelegramChatID, 0)
	cfg.RemindAt = envString(constants.EnvRemindAt, constants.DefaultRemindAt)

	if _, _, err := utils.ParseClock(cfg.RemindAt); err != nil {
		cfg.warn(constants.EnvRemindAt, cfg.RemindAt, constants.DefaultRemindAt)
		cfg.RemindAt = constants.DefaultRemindAt
	}
	if _, err := utils.LoadLocation(cfg.Timezone); err != nil {
		cfg.warn(constants.EnvTimezone, cfg.Timezone, constants.DefaultTimezone)
		cfg.Timezone = constants.DefaultTimezone
	}

	return cfg
}

// Location returns the configured timezone.
func (c *Config) Location() *time.Location {
	loc, err := utils.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// DatabasePath expands a sqlite path. PostgreSQL connection strings are returned as is.
func (c *Config) DatabasePath() (string, error) {
	if strings.Contains(c.Database, "://") || strings.Contains(c.Database, "=") {
		return c.Database, nil
	}
	return utils.ExpandPath(c.Database)
}

// ConfigDir is the directory holding logs and backups.
func (c *Config) ConfigDir() (string, error) {
	path, err := utils.ExpandPath(constants.DefaultConfigPath)
	if err != nil {
		return "", err
	}
	if c.Database == constants.MemoryDatabase {
		return filepath.Dir(path), nil
	}
	if p, err := c.DatabasePath(); err == nil && !strings.Contains(p, "://") && !strings.Contains(p, "=") {
		path = p
	}
	return filepath.Dir(path), nil
}

// TelegramEnabled reports whether both the bot token and target chat are set.
func (c *Config) TelegramEnabled() bool {
	return c.TelegramToken != "" && c.TelegramChatID != 0
}

func (c *Config) warn(key, value string, def any) {
	c.Warnings = append(c.Warnings, fmt.Sprintf("invalid %s=%q, using default %v", key, value, def))
}

func envString(key, def string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		value = def
	}
	return value
}

func (c *Config) envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		c.warn(key, v, def)
		return def
	}
	return b
}

func (c *Config) envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		c.warn(key, v, def)
		return def
	}
	return d
}

func (c *Config) envMillis(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	ms, err := strconv.Atoi(v)
	if err != nil || ms <= 0 {
		c.warn(key, v, def)
		return def
	}
	return time.Duration(ms) * time.Millisecond
}

func (c *Config) envInt64(key string, def int64) int64 {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		c.warn(key, v, def)
		return def
	}
	return n
}
