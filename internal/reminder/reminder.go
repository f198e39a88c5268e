// Package reminder nudges the user once a day when today's log is missing
// or incomplete.
package reminder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"

	"github.com/julianstephens/daylog/internal/constants"
	"github.com/julianstephens/daylog/internal/habitconfig"
	"github.com/julianstephens/daylog/internal/identity"
	"github.com/julianstephens/daylog/internal/logger"
	"github.com/julianstephens/daylog/internal/models"
	"github.com/julianstephens/daylog/internal/notifier"
	"github.com/julianstephens/daylog/internal/storage"
	"github.com/julianstephens/daylog/internal/utils"
)

const jobName = "daily-reminder"

type Options struct {
	Logs storage.LogStore
	// Settings is optional. When set, today's log is merged with the current
	// habit list before pending habits are counted.
	Settings storage.SettingsStore
	User     identity.User
	Sink     notifier.Sink
	Clock    clockwork.Clock
	Location *time.Location
	// At is the local reminder time, HH:MM.
	At string
}

type Reminder struct {
	logs     storage.LogStore
	settings storage.SettingsStore
	user     identity.User
	sink     notifier.Sink
	clock    clockwork.Clock
	loc      *time.Location
	hour     int
	minute   int

	scheduler gocron.Scheduler
	job       gocron.Job
}

func New(opts Options) (*Reminder, error) {
	at := opts.At
	if at == "" {
		at = constants.DefaultRemindAt
	}
	hour, minute, err := utils.ParseClock(at)
	if err != nil {
		return nil, fmt.Errorf("invalid reminder time %q: %w", at, err)
	}

	r := &Reminder{
		logs:     opts.Logs,
		settings: opts.Settings,
		user:     opts.User,
		sink:     opts.Sink,
		clock:    opts.Clock,
		loc:      opts.Location,
		hour:     hour,
		minute:   minute,
	}
	if r.clock == nil {
		r.clock = clockwork.NewRealClock()
	}
	if r.loc == nil {
		r.loc = time.Local
	}
	if r.sink == nil {
		r.sink = notifier.LogSink{}
	}
	return r, nil
}

// Check sends a notice when today's log is missing or has pending habits.
// It reports whether a notice was sent.
func (r *Reminder) Check(ctx context.Context) (bool, error) {
	today := utils.DateIn(r.clock.Now(), r.loc)

	log, err := r.logs.GetLog(ctx, r.user.ID, today)
	if errors.Is(err, storage.ErrNotFound) {
		r.sink.Notify(fmt.Sprintf("You haven't logged %s yet", today), notifier.Info)
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check today's log: %w", err)
	}

	entries, cfg, err := r.mergedEntries(ctx, log)
	if err != nil {
		return false, err
	}
	pending := 0
	for _, e := range entries {
		if cfg != nil && cfg.IndexOf(e.Name) < 0 {
			continue
		}
		if e.EffectiveStatus() == models.StatusPending {
			pending++
		}
	}
	if pending == 0 {
		logger.Debug("reminder skipped, day complete", "user", r.user.ID, "date", today)
		return false, nil
	}
	r.sink.Notify(fmt.Sprintf("%d habit(s) still pending for %s", pending, today), notifier.Info)
	return true, nil
}

// mergedEntries adds habits configured after the log was saved. The config
// is nil when no settings store is available or none are saved, in which
// case the stored entries are used as is.
func (r *Reminder) mergedEntries(ctx context.Context, log models.DailyLog) ([]models.HabitEntry, *models.HabitConfig, error) {
	if r.settings == nil {
		return log.Habits, nil, nil
	}
	settings, err := r.settings.GetSettings(ctx, r.user.ID)
	if errors.Is(err, storage.ErrNotFound) {
		return log.Habits, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load habits: %w", err)
	}
	return habitconfig.MergeEntries(log.Habits, settings.Config), &settings.Config, nil
}

// Start schedules Check daily at the configured time.
func (r *Reminder) Start() error {
	s, err := gocron.NewScheduler(
		gocron.WithClock(r.clock),
		gocron.WithLocation(r.loc),
	)
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	job, err := s.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(uint(r.hour), uint(r.minute), 0))),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), constants.DefaultLoadTimeout)
			defer cancel()
			if _, err := r.Check(ctx); err != nil {
				logger.Error("reminder check failed", "user", r.user.ID, "error", err)
			}
		}),
		gocron.WithName(jobName),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = s.Shutdown()
		return fmt.Errorf("failed to schedule reminder: %w", err)
	}

	r.scheduler = s
	r.job = job
	s.Start()
	logger.Info("reminder scheduled", "user", r.user.ID, "at", fmt.Sprintf("%02d:%02d", r.hour, r.minute))
	return nil
}

// NextRun returns when the reminder fires next.
func (r *Reminder) NextRun() (time.Time, error) {
	if r.job == nil {
		return time.Time{}, errors.New("reminder not started")
	}
	return r.job.NextRun()
}

// Stop shuts the scheduler down, waiting for a running check to finish.
func (r *Reminder) Stop() error {
	if r.scheduler == nil {
		return nil
	}
	err := r.scheduler.Shutdown()
	r.scheduler = nil
	r.job = nil
	return err
}
