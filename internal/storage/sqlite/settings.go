package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/daylog/internal/models"
	"github.com/julianstephens/daylog/internal/storage"
)

func (s *Store) GetSettings(ctx context.Context, userID string) (models.UserSettings, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, email, custom_habits, custom_affirmations, updated_at
		FROM users WHERE id = ?`, userID)

	var settings models.UserSettings
	var habits, affirmations, updatedAt string
	err := row.Scan(&settings.UserID, &settings.Email, &habits, &affirmations, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.UserSettings{}, fmt.Errorf("settings for %s: %w", userID, storage.ErrNotFound)
		}
		return models.UserSettings{}, err
	}

	if err := json.Unmarshal([]byte(habits), &settings.Config.Habits); err != nil {
		return models.UserSettings{}, fmt.Errorf("failed to decode habits: %w", err)
	}
	if err := json.Unmarshal([]byte(affirmations), &settings.Config.Affirmations); err != nil {
		return models.UserSettings{}, fmt.Errorf("failed to decode affirmations: %w", err)
	}
	settings.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt)
	if err != nil {
		return models.UserSettings{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	return settings, nil
}

// SaveSettings upserts the user's settings and notifies subscribers once committed.
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

	now := s.timestamp()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, custom_habits, custom_affirmations, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			email = excluded.email,
			custom_habits = excluded.custom_habits,
			custom_affirmations = excluded.custom_affirmations,
			updated_at = excluded.updated_at`,
		settings.UserID, settings.Email, string(habitsJSON), string(affirmationsJSON), now)
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	saved, err := s.GetSettings(ctx, settings.UserID)
	if err != nil {
		return err
	}
	s.hub.Publish(saved)
	return nil
}

func (s *Store) SubscribeSettings(ctx context.Context, userID string) (<-chan models.UserSettings, error) {
	return s.hub.Subscribe(ctx, userID), nil
}
