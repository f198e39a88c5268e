package session

import (
	"context"

	"github.com/julianstephens/daylog/internal/habitconfig"
	"github.com/julianstephens/daylog/internal/logger"
	"github.com/julianstephens/daylog/internal/models"
)

// subscribe starts listening for settings pushes for the selection seq.
func (s *Session) subscribe(seq uint64, userID string) {
	if s.settings == nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())

	ch, err := s.settings.SubscribeSettings(ctx, userID)
	if err != nil {
		cancel()
		logger.Warn("realtime settings updates unavailable", "user", userID, "error", err)
		return
	}

	s.mu.Lock()
	if seq != s.seq || s.closed {
		s.mu.Unlock()
		cancel()
		return
	}
	s.unsub = cancel
	s.mu.Unlock()

	go func() {
		for settings := range ch {
			s.applyRemote(seq, settings)
		}
	}()
}

func (s *Session) stopSubscriptionLocked() {
	if s.unsub != nil {
		s.unsub()
		s.unsub = nil
	}
}

// applyRemote replaces the shared config and adds entries for new habits to
// the open log. Existing entries are untouched and no flush is scheduled.
func (s *Session) applyRemote(seq uint64, settings models.UserSettings) {
	if !s.live(seq) {
		return
	}
	if !s.config.Apply(settings) {
		return
	}
	cfg := s.config.Config()

	s.mu.Lock()
	if seq != s.seq || s.closed || s.state != Ready {
		s.mu.Unlock()
		return
	}
	added := len(habitconfig.MissingHabits(s.log.Habits, cfg))
	s.log.Habits = habitconfig.MergeEntries(s.log.Habits, cfg)
	s.mu.Unlock()

	logger.Debug("applied remote habit config", "user", settings.UserID, "added", added)
	s.changed()
}

// live reports whether pushes for seq should still be applied.
func (s *Session) live(seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return seq == s.seq && !s.closed
}
