package storage

import (
	"context"
	"errors"

	"github.com/julianstephens/daylog/internal/models"
)

var ErrNotFound = errors.New("not found")

// LogStore persists DailyLogs. Implementations must enforce uniqueness on (user, date).
type LogStore interface {
	// GetLog returns the log for (userID, date) or ErrNotFound.
	GetLog(ctx context.Context, userID, date string) (models.DailyLog, error)
	// ListLogDates returns every date with a persisted log for the user, ascending.
	ListLogDates(ctx context.Context, userID string) ([]string, error)
	// ListLogs returns the user's full history ordered by date, most recent first.
	ListLogs(ctx context.Context, userID string) ([]models.DailyLog, error)
	// UpsertLog inserts or replaces the log keyed by (UserID, Date) and returns
	// the stored row with its ID and timestamps populated.
	UpsertLog(ctx context.Context, log models.DailyLog) (models.DailyLog, error)
}

// SettingsStore persists a user's habit configuration.
type SettingsStore interface {
	// GetSettings returns the user's settings or ErrNotFound.
	GetSettings(ctx context.Context, userID string) (models.UserSettings, error)
	SaveSettings(ctx context.Context, settings models.UserSettings) error
	// SubscribeSettings delivers settings changes for userID until ctx is
	// cancelled, at which point the channel is closed.
	SubscribeSettings(ctx context.Context, userID string) (<-chan models.UserSettings, error)
}

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	LogStore
	SettingsStore

	// Utils
	GetConfigPath() string
}
