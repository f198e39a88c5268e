package session

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/julianstephens/daylog/internal/habitconfig"
	"github.com/julianstephens/daylog/internal/logger"
	"github.com/julianstephens/daylog/internal/models"
	"github.com/julianstephens/daylog/internal/notifier"
)

var (
	ErrNotSkippable       = errors.New("habit cannot be skipped")
	ErrUnknownAffirmation = errors.New("affirmation is not in your list")
)

// Mutate applies patch to the open log immediately and schedules a flush.
// Flushes are suppressed for locked dates. Only validation errors are
// returned; background write failures are logged and sent to the notifier.
func (s *Session) Mutate(patch models.LogPatch) error {
	return s.mutate(func(models.DailyLog) (models.LogPatch, error) {
		return patch, nil
	})
}

// mutate builds a patch from the current log and applies it under one lock.
func (s *Session) mutate(build func(log models.DailyLog) (models.LogPatch, error)) error {
	today := s.Today()
	allowed := s.config.Config().EffectiveAffirmations()

	s.mu.Lock()
	if s.state != Ready {
		s.mu.Unlock()
		return ErrNotLoaded
	}
	patch, err := build(s.log)
	if err == nil {
		err = checkAffirmations(s.log, patch.SelectedAffirmations, allowed)
	}
	if err == nil {
		err = patch.Apply(&s.log)
	}
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if editabilityOf(s.date, today, s.exists).Writable() {
		s.dirty = true
		s.scheduleLocked()
	}
	s.mu.Unlock()

	s.changed()
	return nil
}

// scheduleLocked restarts the debounce timer. Each timer carries the
// generation it was created for so a stale callback is a no-op.
func (s *Session) scheduleLocked() {
	if s.timer != nil {
		s.timer.Stop()
	}
	s.gen++
	gen := s.gen
	s.timer = s.clock.AfterFunc(s.debounce, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.loadTimeout)
		defer cancel()
		if err := s.flush(ctx, gen); err != nil {
			s.notify.Notify("Couldn't save your log, it will be retried on your next edit", notifier.Error)
		}
	})
}

func (s *Session) cancelPendingLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen++
	s.dirty = false
}

// Flush writes pending edits now instead of waiting for the quiet period.
func (s *Session) Flush(ctx context.Context) error {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen++
	gen := s.gen
	s.mu.Unlock()
	return s.flush(ctx, gen)
}

func (s *Session) flush(ctx context.Context, gen uint64) error {
	s.flushMu.Lock()
	defer s.flushMu.Unlock()

	today := s.Today()
	s.mu.Lock()
	if gen != s.gen || !s.dirty || s.state != Ready {
		s.mu.Unlock()
		return nil
	}
	if !editabilityOf(s.date, today, s.exists).Writable() {
		s.dirty = false
		s.mu.Unlock()
		return nil
	}
	snapshot := s.log.Clone()
	seq := s.seq
	s.dirty = false
	s.timer = nil
	s.mu.Unlock()

	saved, err := s.logs.UpsertLog(ctx, snapshot)
	if err != nil {
		logger.Error("failed to save daily log", "user", snapshot.UserID, "date", snapshot.Date, "error", err)
		return fmt.Errorf("failed to save log for %s: %w", snapshot.Date, err)
	}
	logger.Debug("saved daily log", "user", snapshot.UserID, "date", snapshot.Date, "id", saved.ID)

	s.mu.Lock()
	if seq == s.seq && s.date == saved.Date {
		s.log.ID = saved.ID
		s.log.CreatedAt = saved.CreatedAt
		s.log.UpdatedAt = saved.UpdatedAt
		s.exists = true
	}
	if seq == s.seq {
		s.loggedDates[saved.Date] = struct{}{}
	}
	s.mu.Unlock()
	return nil
}

// Pending reports whether edits are waiting to be flushed.
func (s *Session) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

func withStatus(log models.DailyLog, name string, status func(models.HabitStatus) models.HabitStatus) (models.LogPatch, error) {
	i := slices.IndexFunc(log.Habits, func(e models.HabitEntry) bool { return e.Name == name })
	if i < 0 {
		return models.LogPatch{}, fmt.Errorf("%w: %s", habitconfig.ErrHabitNotFound, name)
	}
	habits := slices.Clone(log.Habits)
	habits[i] = habits[i].WithStatus(status(habits[i].EffectiveStatus()))
	return models.LogPatch{Habits: habits}, nil
}

// checkSkippable rejects skipping habits that are not marked skippable,
// including orphaned entries whose definition was removed.
func (s *Session) checkSkippable(name string, status models.HabitStatus) error {
	if status != models.StatusSkipped {
		return nil
	}
	if def, ok := s.config.Config().Habit(name); !ok || !def.Skippable {
		return fmt.Errorf("%w: %s", ErrNotSkippable, name)
	}
	return nil
}

// checkAffirmations allows a selection made of the user's current
// affirmations plus anything already selected on the log, so stale text can
// still be kept or removed but never added.
func checkAffirmations(log models.DailyLog, selected, allowed []string) error {
	for _, a := range selected {
		if !slices.Contains(allowed, a) && !log.HasAffirmation(a) {
			return fmt.Errorf("%w: %q", ErrUnknownAffirmation, a)
		}
	}
	return nil
}

// SetHabitStatus sets the status of the named habit entry.
func (s *Session) SetHabitStatus(name string, status models.HabitStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", models.ErrInvalidStatus, status)
	}
	if err := s.checkSkippable(name, status); err != nil {
		return err
	}
	return s.mutate(func(log models.DailyLog) (models.LogPatch, error) {
		return withStatus(log, name, func(models.HabitStatus) models.HabitStatus { return status })
	})
}

// ToggleHabit flips the named habit between done and pending.
func (s *Session) ToggleHabit(name string) error {
	return s.mutate(func(log models.DailyLog) (models.LogPatch, error) {
		return withStatus(log, name, func(cur models.HabitStatus) models.HabitStatus {
			if cur == models.StatusDone {
				return models.StatusPending
			}
			return models.StatusDone
		})
	})
}

// SkipHabit flips the named habit between skipped and pending.
func (s *Session) SkipHabit(name string) error {
	if err := s.checkSkippable(name, models.StatusSkipped); err != nil {
		return err
	}
	return s.mutate(func(log models.DailyLog) (models.LogPatch, error) {
		return withStatus(log, name, func(cur models.HabitStatus) models.HabitStatus {
			if cur == models.StatusSkipped {
				return models.StatusPending
			}
			return models.StatusSkipped
		})
	})
}

func (s *Session) SetGoal(text string) error {
	return s.Mutate(models.LogPatch{TodayGoal: &text})
}

func (s *Session) SetNote(text string) error {
	return s.Mutate(models.LogPatch{Note: &text})
}

func (s *Session) SetMood(mood int) error {
	return s.Mutate(models.LogPatch{Mood: &mood})
}

func (s *Session) ClearMood() error {
	return s.Mutate(models.LogPatch{ClearMood: true})
}

// SetWord stores the word of the day in its packed display form.
func (s *Session) SetWord(w models.Word) error {
	text := w.String()
	return s.Mutate(models.LogPatch{WordOfDay: &text})
}

// SetSong stores the song in its packed display form.
func (s *Session) SetSong(song models.Song) error {
	text := song.String()
	return s.Mutate(models.LogPatch{SongLink: &text})
}

// ToggleAffirmation selects or deselects text for the open log.
func (s *Session) ToggleAffirmation(text string) error {
	return s.mutate(func(log models.DailyLog) (models.LogPatch, error) {
		selected := slices.Clone(log.SelectedAffirmations)
		if i := slices.Index(selected, text); i >= 0 {
			selected = slices.Delete(selected, i, i+1)
		} else {
			selected = append(selected, text)
		}
		if selected == nil {
			selected = []string{}
		}
		return models.LogPatch{SelectedAffirmations: selected}, nil
	})
}
