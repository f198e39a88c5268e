package habitconfig

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/julianstephens/daylog/internal/constants"
	"github.com/julianstephens/daylog/internal/models"
	"github.com/julianstephens/daylog/internal/storage"
)

var (
	ErrDuplicateHabit = errors.New("habit already exists")
	ErrHabitNotFound  = errors.New("habit not found")
	ErrEmptyName      = errors.New("name cannot be empty")
)

// Store is the shared in-memory copy of one user's settings. Edits are
// persisted before the in-memory copy changes.
type Store struct {
	backend storage.SettingsStore

	mu       sync.RWMutex
	settings models.UserSettings
	loaded   bool
}

func NewStore(backend storage.SettingsStore) *Store {
	return &Store{backend: backend}
}

// Load fetches the user's settings. A user without a settings record starts
// with an empty config that is created on the first edit.
func (s *Store) Load(ctx context.Context, userID, email string) (models.HabitConfig, error) {
	settings, err := s.backend.GetSettings(ctx, userID)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			return models.HabitConfig{}, fmt.Errorf("failed to load settings: %w", err)
		}
		settings = models.UserSettings{UserID: userID, Email: email}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
	s.loaded = true
	return settings.Config.Clone(), nil
}

// Loaded reports whether Load has completed.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Config returns a copy of the current habit configuration.
func (s *Store) Config() models.HabitConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings.Config.Clone()
}

// Settings returns a copy of the full settings record.
func (s *Store) Settings() models.UserSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := s.settings
	out.Config = s.settings.Config.Clone()
	return out
}

// Apply replaces the in-memory settings with a remotely pushed record.
// Pushes for another user are ignored. It reports whether anything was applied.
func (s *Store) Apply(settings models.UserSettings) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded || settings.UserID != s.settings.UserID {
		return false
	}
	settings.Config = settings.Config.Clone()
	s.settings = settings
	return true
}

// update applies fn to a copy of the config, persists it, then swaps it in.
// The write lock is held across the save so edits are serialized.
func (s *Store) update(ctx context.Context, fn func(cfg *models.HabitConfig) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return errors.New("settings not loaded")
	}

	next := s.settings
	next.Config = s.settings.Config.Clone()
	if err := fn(&next.Config); err != nil {
		return err
	}
	if err := s.backend.SaveSettings(ctx, next); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	s.settings = next
	return nil
}

func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}
	return name, nil
}

func findHabit(cfg *models.HabitConfig, name string) (int, error) {
	i := cfg.IndexOf(name)
	if i < 0 {
		return -1, fmt.Errorf("%w: %q", ErrHabitNotFound, name)
	}
	return i, nil
}

// AddHabit appends a habit to the end of the list.
func (s *Store) AddHabit(ctx context.Context, name, icon string, skippable bool) error {
	name, err := cleanName(name)
	if err != nil {
		return err
	}
	if strings.TrimSpace(icon) == "" {
		icon = constants.DefaultHabitIcon
	}
	return s.update(ctx, func(cfg *models.HabitConfig) error {
		if cfg.IndexOf(name) >= 0 {
			return fmt.Errorf("%w: %q", ErrDuplicateHabit, name)
		}
		cfg.Habits = append(cfg.Habits, models.HabitDefinition{Name: name, Icon: icon, Skippable: skippable})
		return nil
	})
}

// RemoveHabit drops a habit. Historical entries are untouched.
func (s *Store) RemoveHabit(ctx context.Context, name string) error {
	return s.update(ctx, func(cfg *models.HabitConfig) error {
		i, err := findHabit(cfg, name)
		if err != nil {
			return err
		}
		cfg.Habits = slices.Delete(cfg.Habits, i, i+1)
		return nil
	})
}

// MoveHabit moves a habit to position to, clamped to the list bounds.
func (s *Store) MoveHabit(ctx context.Context, name string, to int) error {
	return s.update(ctx, func(cfg *models.HabitConfig) error {
		from, err := findHabit(cfg, name)
		if err != nil {
			return err
		}
		to = max(0, min(to, len(cfg.Habits)-1))
		h := cfg.Habits[from]
		cfg.Habits = slices.Delete(cfg.Habits, from, from+1)
		cfg.Habits = slices.Insert(cfg.Habits, to, h)
		return nil
	})
}

// RenameHabit removes oldName and adds newName in its place. There is no
// rename identity: days already logged keep an entry under the old name.
func (s *Store) RenameHabit(ctx context.Context, oldName, newName string) error {
	newName, err := cleanName(newName)
	if err != nil {
		return err
	}
	return s.update(ctx, func(cfg *models.HabitConfig) error {
		i, err := findHabit(cfg, oldName)
		if err != nil {
			return err
		}
		if newName != oldName && cfg.IndexOf(newName) >= 0 {
			return fmt.Errorf("%w: %q", ErrDuplicateHabit, newName)
		}
		cfg.Habits[i].Name = newName
		return nil
	})
}

func (s *Store) SetSkippable(ctx context.Context, name string, skippable bool) error {
	return s.update(ctx, func(cfg *models.HabitConfig) error {
		i, err := findHabit(cfg, name)
		if err != nil {
			return err
		}
		cfg.Habits[i].Skippable = skippable
		return nil
	})
}

func (s *Store) SetIcon(ctx context.Context, name, icon string) error {
	icon = strings.TrimSpace(icon)
	if icon == "" {
		icon = constants.DefaultHabitIcon
	}
	return s.update(ctx, func(cfg *models.HabitConfig) error {
		i, err := findHabit(cfg, name)
		if err != nil {
			return err
		}
		cfg.Habits[i].Icon = icon
		return nil
	})
}

// AddAffirmation appends text. A user still on the default list starts
// from a copy of it.
func (s *Store) AddAffirmation(ctx context.Context, text string) error {
	text, err := cleanName(text)
	if err != nil {
		return err
	}
	return s.update(ctx, func(cfg *models.HabitConfig) error {
		list := slices.Clone(cfg.EffectiveAffirmations())
		if slices.Contains(list, text) {
			return fmt.Errorf("affirmation %q already exists", text)
		}
		cfg.Affirmations = append(list, text)
		return nil
	})
}

func (s *Store) RemoveAffirmation(ctx context.Context, text string) error {
	return s.update(ctx, func(cfg *models.HabitConfig) error {
		list := slices.Clone(cfg.EffectiveAffirmations())
		i := slices.Index(list, text)
		if i < 0 {
			return fmt.Errorf("affirmation %q not found", text)
		}
		cfg.Affirmations = slices.Delete(list, i, i+1)
		return nil
	})
}
