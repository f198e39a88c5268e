// Package session owns the DailyLog open for the selected date. It reconciles
// the log against the user's habit config, applies edits optimistically and
// persists them after a quiet period.
package session

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

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

var (
	ErrNavigationDenied = errors.New("no log exists for that date")
	ErrNotLoaded        = errors.New("session not loaded")
	ErrInvalidDate      = errors.New("invalid date, expected YYYY-MM-DD")
)

type Options struct {
	Logs     storage.LogStore
	Settings storage.SettingsStore
	// Config is shared with other components editing the user's habits.
	// When nil a private store over Settings is created.
	Config   *habitconfig.Store
	Notifier notifier.Sink
	Clock    clockwork.Clock
	Location *time.Location

	Debounce    time.Duration
	LoadTimeout time.Duration
}

type Session struct {
	logs        storage.LogStore
	settings    storage.SettingsStore
	config      *habitconfig.Store
	notify      notifier.Sink
	clock       clockwork.Clock
	loc         *time.Location
	debounce    time.Duration
	loadTimeout time.Duration

	mu          sync.Mutex
	user        identity.User
	state       State
	date        string
	log         models.DailyLog
	exists      bool
	loggedDates map[string]struct{}
	onChange    func()
	closed      bool

	// seq identifies the current selection; results of older loads are dropped.
	seq   uint64
	unsub context.CancelFunc

	timer clockwork.Timer
	gen   uint64
	dirty bool

	// flushMu keeps at most one upsert in flight.
	flushMu sync.Mutex
}

func New(opts Options) *Session {
	s := &Session{
		logs:        opts.Logs,
		settings:    opts.Settings,
		config:      opts.Config,
		notify:      opts.Notifier,
		clock:       opts.Clock,
		loc:         opts.Location,
		debounce:    opts.Debounce,
		loadTimeout: opts.LoadTimeout,
		loggedDates: make(map[string]struct{}),
	}
	if s.config == nil {
		s.config = habitconfig.NewStore(opts.Settings)
	}
	if s.notify == nil {
		s.notify = notifier.Discard
	}
	if s.clock == nil {
		s.clock = clockwork.NewRealClock()
	}
	if s.loc == nil {
		s.loc = time.Local
	}
	if s.debounce <= 0 {
		s.debounce = constants.DefaultDebounce
	}
	if s.loadTimeout <= 0 {
		s.loadTimeout = constants.DefaultLoadTimeout
	}
	return s
}

// Load starts the session for user on date (today when empty). The habit
// config is fetched fresh. On failure the session stays Loading.
func (s *Session) Load(ctx context.Context, user identity.User, date string) error {
	if date == "" {
		date = s.Today()
	}
	if _, err := utils.ParseDate(date); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}

	seq := s.begin(user, date)

	ctx, cancel := context.WithTimeout(ctx, s.loadTimeout)
	defer cancel()

	if _, err := s.config.Load(ctx, user.ID, user.Email); err != nil {
		logger.Error("failed to load habit config", "user", user.ID, "error", err)
		return err
	}
	return s.load(ctx, seq, user, date)
}

// Select switches to date. Only today and dates with a persisted log may be
// selected; otherwise a notice is sent and ErrNavigationDenied returned.
func (s *Session) Select(ctx context.Context, date string) error {
	if _, err := utils.ParseDate(date); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}

	s.mu.Lock()
	user := s.user
	_, logged := s.loggedDates[date]
	current := date == s.date && s.state == Ready
	s.mu.Unlock()

	if user.ID == "" {
		return ErrNotLoaded
	}
	if current {
		return nil
	}
	if date != s.Today() && !logged {
		s.notify.Notify(fmt.Sprintf("No log exists for %s", date), notifier.Warn)
		return fmt.Errorf("%w: %s", ErrNavigationDenied, date)
	}

	seq := s.begin(user, date)

	ctx, cancel := context.WithTimeout(ctx, s.loadTimeout)
	defer cancel()
	return s.load(ctx, seq, user, date)
}

// Navigate selects the date delta days away from the selected one.
func (s *Session) Navigate(ctx context.Context, delta int) error {
	s.mu.Lock()
	date := s.date
	s.mu.Unlock()
	if date == "" {
		return ErrNotLoaded
	}

	target, err := utils.AddDays(date, delta)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	return s.Select(ctx, target)
}

// begin cancels pending work for the previous selection and marks the
// session Loading for the new one.
func (s *Session) begin(user identity.User, date string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelPendingLocked()
	s.stopSubscriptionLocked()
	s.seq++
	s.user = user
	s.date = date
	s.state = Loading
	s.closed = false
	return s.seq
}

func (s *Session) load(ctx context.Context, seq uint64, user identity.User, date string) error {
	cfg := s.config.Config()

	log, err := s.logs.GetLog(ctx, user.ID, date)
	exists := true
	switch {
	case errors.Is(err, storage.ErrNotFound):
		exists = false
		log = models.NewDailyLog(user.ID, date, habitconfig.NewEntries(cfg))
	case err != nil:
		logger.Error("failed to load daily log", "user", user.ID, "date", date, "error", err)
		return fmt.Errorf("failed to load log for %s: %w", date, err)
	default:
		log.Habits = habitconfig.MergeEntries(log.Habits, cfg)
	}

	dates, err := s.logs.ListLogDates(ctx, user.ID)
	if err != nil {
		logger.Error("failed to list log dates", "user", user.ID, "error", err)
		return fmt.Errorf("failed to list log dates: %w", err)
	}

	s.mu.Lock()
	if seq != s.seq || s.closed {
		s.mu.Unlock()
		return nil
	}
	s.log = log
	s.exists = exists
	s.loggedDates = make(map[string]struct{}, len(dates))
	for _, d := range dates {
		s.loggedDates[d] = struct{}{}
	}
	s.dirty = false
	s.state = Ready
	s.mu.Unlock()

	s.subscribe(seq, user.ID)
	logger.Debug("loaded daily log", "user", user.ID, "date", date, "exists", exists)
	s.changed()
	return nil
}

// Close cancels any pending flush and ends the realtime subscription.
// Edits made within the last debounce window are not persisted; call Flush
// first to keep them.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelPendingLocked()
	s.stopSubscriptionLocked()
	s.closed = true
}

// OnChange registers fn to be called after the open log or config changes.
// fn runs on the goroutine that caused the change.
func (s *Session) OnChange(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

func (s *Session) changed() {
	s.mu.Lock()
	fn := s.onChange
	s.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Today returns the current date in the session's location.
func (s *Session) Today() string {
	return utils.DateIn(s.clock.Now(), s.loc)
}

// Log returns a copy of the open log.
func (s *Session) Log() models.DailyLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.log.Clone()
}

func (s *Session) SelectedDate() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.date
}

func (s *Session) User() identity.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// RecordExists reports whether the selected date has a persisted log.
func (s *Session) RecordExists() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exists
}

// Editability is recomputed from the clock on every call so a session left
// open past midnight locks an unsaved day.
func (s *Session) Editability() Editability {
	today := s.Today()
	s.mu.Lock()
	defer s.mu.Unlock()
	return editabilityOf(s.date, today, s.exists)
}

// LoggedDates returns the dates with a persisted log, ascending.
func (s *Session) LoggedDates() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.loggedDates))
	for d := range s.loggedDates {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// Config returns the user's current habit config.
func (s *Session) Config() models.HabitConfig {
	return s.config.Config()
}

// Habits exposes the shared habit config store for edits.
func (s *Session) Habits() *habitconfig.Store {
	return s.config
}

// Entries resolves the open log's habit entries against the current config.
func (s *Session) Entries() []models.ResolvedEntry {
	cfg := s.config.Config()
	s.mu.Lock()
	defer s.mu.Unlock()
	return cfg.Resolve(s.log.Habits)
}
