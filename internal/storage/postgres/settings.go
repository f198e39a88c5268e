package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/julianstephens/daylog/internal/constants"
	"github.com/julianstephens/daylog/internal/logger"
	"github.com/julianstephens/daylog/internal/models"
	"github.com/julianstephens/daylog/internal/storage"
)

type listener interface {
	Listen(channel string) error
	NotificationChannel() <-chan *pq.Notification
	Close() error
}

var newListener = func(connStr string, cb pq.EventCallbackType) listener {
	return pq.NewListener(connStr, 10*time.Second, time.Minute, cb)
}

func (s *Store) GetSettings(ctx context.Context, userID string) (models.UserSettings, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, email, custom_habits, custom_affirmations, updated_at
		FROM users WHERE id = $1`, userID)

	var settings models.UserSettings
	var habits, affirmations []byte
	err := row.Scan(&settings.UserID, &settings.Email, &habits, &affirmations, &settings.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.UserSettings{}, fmt.Errorf("settings for %s: %w", userID, storage.ErrNotFound)
		}
		return models.UserSettings{}, err
	}

	if err := json.Unmarshal(habits, &settings.Config.Habits); err != nil {
		return models.UserSettings{}, fmt.Errorf("failed to decode habits: %w", err)
	}
	if err := json.Unmarshal(affirmations, &settings.Config.Affirmations); err != nil {
		return models.UserSettings{}, fmt.Errorf("failed to decode affirmations: %w", err)
	}
	return settings, nil
}

// SaveSettings upserts the settings row and emits a notification on the
// settings channel in the same transaction, so listeners only see committed state.
func (s *Store) SaveSettings(ctx context.Context, settings models.UserSettings) error {
	habits := settings.Config.Habits
	if habits == nil {
		habits = []models.HabitDefinition{}
	}
	habitsJSON, err := json.Marshal(habits)
	if err != nil {
		return fmt.Errorf("failed to encode habits: %w", err)
	}
	affirmationsJSON, err := json.Marshal(nonNilStrings(settings.Config.Affirmations))
	if err != nil {
		return fmt.Errorf("failed to encode affirmations: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO users (id, email, custom_habits, custom_affirmations, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (id) DO UPDATE SET
			email = EXCLUDED.email,
			custom_habits = EXCLUDED.custom_habits,
			custom_affirmations = EXCLUDED.custom_affirmations,
			updated_at = now()`,
		settings.UserID, settings.Email, string(habitsJSON), string(affirmationsJSON))
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "SELECT pg_notify($1, $2)", constants.SettingsChannel, settings.UserID); err != nil {
		return fmt.Errorf("failed to notify settings change: %w", err)
	}

	return tx.Commit()
}

// SubscribeSettings starts the shared LISTEN connection on first use and
// delivers committed settings for userID until ctx is done.
func (s *Store) SubscribeSettings(ctx context.Context, userID string) (<-chan models.UserSettings, error) {
	s.listenOnce.Do(func() {
		s.listenErr = s.startListener()
	})
	if s.listenErr != nil {
		return nil, s.listenErr
	}
	return s.hub.Subscribe(ctx, userID), nil
}

func (s *Store) startListener() error {
	l := newListener(s.connStr, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			logger.Warn("Settings listener event", "event", ev, "error", err)
		}
	})
	if err := l.Listen(constants.SettingsChannel); err != nil {
		l.Close()
		return fmt.Errorf("failed to listen on %s: %w", constants.SettingsChannel, err)
	}
	s.listener = l
	go s.dispatch(l.NotificationChannel())
	return nil
}

func (s *Store) dispatch(notifications <-chan *pq.Notification) {
	for n := range notifications {
		// nil signals a reconnect; missed notifications cannot be recovered.
		if n == nil {
			continue
		}
		userID := n.Extra
		if s.hub.Subscribers(userID) == 0 {
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		settings, err := s.GetSettings(ctx, userID)
		cancel()
		if err != nil {
			logger.Error("Failed to fetch pushed settings", "user", userID, "error", err)
			continue
		}
		s.hub.Publish(settings)
	}
}
