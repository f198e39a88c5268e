// Package memory is a process-local Provider. Nothing survives Close.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/daylog/internal/models"
	"github.com/julianstephens/daylog/internal/storage"
)

type logKey struct {
	userID string
	date   string
}

type Store struct {
	mu       sync.RWMutex
	logs     map[logKey]models.DailyLog
	settings map[string]models.UserSettings
	hub      *storage.Hub
	now      func() time.Time
}

func New() *Store {
	return &Store{
		logs:     make(map[logKey]models.DailyLog),
		settings: make(map[string]models.UserSettings),
		hub:      storage.NewHub(),
		now:      time.Now,
	}
}

// WithClock overrides the timestamp source.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

func (s *Store) Init() error           { return nil }
func (s *Store) Load() error           { return nil }
func (s *Store) Close() error          { return nil }
func (s *Store) GetConfigPath() string { return ":memory:" }

func (s *Store) GetLog(ctx context.Context, userID, date string) (models.DailyLog, error) {
	if err := ctx.Err(); err != nil {
		return models.DailyLog{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.logs[logKey{userID, date}]
	if !ok {
		return models.DailyLog{}, fmt.Errorf("log for %s: %w", date, storage.ErrNotFound)
	}
	return l.Clone(), nil
}

func (s *Store) ListLogDates(ctx context.Context, userID string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	dates := []string{}
	for k := range s.logs {
		if k.userID == userID {
			dates = append(dates, k.date)
		}
	}
	sort.Strings(dates)
	return dates, nil
}

func (s *Store) ListLogs(ctx context.Context, userID string) ([]models.DailyLog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	logs := []models.DailyLog{}
	for k, l := range s.logs {
		if k.userID == userID {
			logs = append(logs, l.Clone())
		}
	}
	sort.Slice(logs, func(i, j int) bool { return logs[i].Date > logs[j].Date })
	return logs, nil
}

func (s *Store) UpsertLog(ctx context.Context, log models.DailyLog) (models.DailyLog, error) {
	if err := ctx.Err(); err != nil {
		return models.DailyLog{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	key := logKey{log.UserID, log.Date}
	now := s.now().UTC().Truncate(time.Second)
	saved := log.Clone()
	if existing, ok := s.logs[key]; ok {
		saved.ID = existing.ID
		saved.CreatedAt = existing.CreatedAt
	} else {
		if saved.ID == "" {
			saved.ID = uuid.NewString()
		}
		saved.CreatedAt = now
	}
	saved.UpdatedAt = now
	s.logs[key] = saved
	return saved.Clone(), nil
}

func (s *Store) GetSettings(ctx context.Context, userID string) (models.UserSettings, error) {
	if err := ctx.Err(); err != nil {
		return models.UserSettings{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	settings, ok := s.settings[userID]
	if !ok {
		return models.UserSettings{}, fmt.Errorf("settings for %s: %w", userID, storage.ErrNotFound)
	}
	settings.Config = settings.Config.Clone()
	return settings, nil
}

func (s *Store) SaveSettings(ctx context.Context, settings models.UserSettings) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	settings.Config = settings.Config.Clone()
	settings.UpdatedAt = s.now().UTC()
	s.settings[settings.UserID] = settings
	s.mu.Unlock()

	published := settings
	published.Config = settings.Config.Clone()
	s.hub.Publish(published)
	return nil
}

func (s *Store) SubscribeSettings(ctx context.Context, userID string) (<-chan models.UserSettings, error) {
	return s.hub.Subscribe(ctx, userID), nil
}

// Hub exposes the fan-out so callers can simulate pushes from another session.
func (s *Store) Hub() *storage.Hub {
	return s.hub
}
