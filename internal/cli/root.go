package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/julianstephens/daylog/internal/backup"
	"github.com/julianstephens/daylog/internal/config"
	"github.com/julianstephens/daylog/internal/constants"
	"github.com/julianstephens/daylog/internal/habitconfig"
	"github.com/julianstephens/daylog/internal/identity"
	"github.com/julianstephens/daylog/internal/keyring"
	"github.com/julianstephens/daylog/internal/logger"
	"github.com/julianstephens/daylog/internal/notifier"
	"github.com/julianstephens/daylog/internal/session"
	"github.com/julianstephens/daylog/internal/storage"
	"github.com/julianstephens/daylog/internal/storage/memory"
	"github.com/julianstephens/daylog/internal/storage/postgres"
	"github.com/julianstephens/daylog/internal/storage/sqlite"
	"github.com/julianstephens/daylog/internal/utils"
)

var ErrReadOnly = errors.New("log is read-only")

type Context struct {
	Config   *config.Config
	Store    storage.Provider
	Identity identity.Provider
	Notifier notifier.Sink
	Clock    clockwork.Clock
	Out      io.Writer

	loaded bool
	async  []*notifier.Async
}

// NewStore picks the storage backend. A PostgreSQL connection string given
// as the database must not embed a password; when the database is left at
// its default, DAYLOG_DB_CONNECTION or the keyring may supply one.
// ":memory:" keeps everything in process and is gone on exit.
func NewStore(cfg *config.Config) (storage.Provider, error) {
	if cfg.Database == constants.MemoryDatabase {
		return memory.New(), nil
	}

	db, err := cfg.DatabasePath()
	if err != nil {
		return nil, fmt.Errorf("invalid database path: %w", err)
	}

	if storage.IsPostgresConnString(db) {
		if _, err := storage.ValidateConnString(db); err != nil {
			return nil, err
		}
		return postgres.New(db), nil
	}

	if cfg.Database == constants.DefaultConfigPath {
		conn := cfg.DBConnection
		if conn == "" {
			conn, err = keyring.GetConnectionString()
			if err != nil && !errors.Is(err, keyring.ErrNotFound) {
				logger.Debug("keyring lookup skipped", "error", err)
			}
		}
		if conn != "" {
			if _, err := storage.ValidateConnString(conn); err != nil && !errors.Is(err, storage.ErrEmbeddedCredentials) {
				return nil, err
			}
			return postgres.New(conn), nil
		}
	}

	return sqlite.NewStore(db), nil
}

// NewIdentity returns a fixed user when DAYLOG_USER is set and the
// keyring-backed provider otherwise.
func NewIdentity(cfg *config.Config) identity.Provider {
	if strings.TrimSpace(cfg.User) != "" {
		return identity.NewStatic(identity.NewUser(cfg.User, ""))
	}
	return identity.NewLocal()
}

// NewContext wires the notifier sinks for cfg. Tray and Telegram delivery
// are added when available.
func NewContext(cfg *config.Config, store storage.Provider, id identity.Provider) *Context {
	c := &Context{
		Config:   cfg,
		Store:    store,
		Identity: id,
		Clock:    clockwork.NewRealClock(),
		Out:      os.Stdout,
	}

	sinks := notifier.Multi{notifier.LogSink{}}
	if tray := notifier.NewTray(); tray.Available() {
		a := tray.Sink()
		c.async = append(c.async, a)
		sinks = append(sinks, a)
	}
	if cfg.TelegramEnabled() {
		a := notifier.NewTelegram(cfg.TelegramToken, cfg.TelegramChatID).Sink()
		c.async = append(c.async, a)
		sinks = append(sinks, a)
	}
	c.Notifier = sinks
	return c
}

// Load opens the store once.
func (c *Context) Load() error {
	if c.loaded {
		return nil
	}
	if err := c.Store.Load(); err != nil {
		return err
	}
	c.loaded = true
	return nil
}

// Close waits for background notifications and closes the store, which
// may have been opened by Init without Load.
func (c *Context) Close() error {
	c.WaitNotifications()
	c.loaded = false
	if c.Store == nil {
		return nil
	}
	return c.Store.Close()
}

func (c *Context) WaitNotifications() {
	for _, a := range c.async {
		a.Wait()
	}
}

func (c *Context) Printf(format string, args ...any) {
	fmt.Fprintf(c.out(), format, args...)
}

func (c *Context) Println(args ...any) {
	fmt.Fprintln(c.out(), args...)
}

func (c *Context) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) clock() clockwork.Clock {
	if c.Clock == nil {
		return clockwork.NewRealClock()
	}
	return c.Clock
}

func (c *Context) Location() *time.Location {
	if c.Config == nil {
		return time.Local
	}
	return c.Config.Location()
}

func (c *Context) Today() string {
	return utils.DateIn(c.clock().Now(), c.Location())
}

// ResolveDate accepts YYYY-MM-DD, "today" or "yesterday". Empty means today.
func (c *Context) ResolveDate(s string) (string, error) {
	today := c.Today()
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "today":
		return today, nil
	case "yesterday":
		return utils.AddDays(today, -1)
	}
	if _, err := utils.ParseDate(s); err != nil {
		return "", fmt.Errorf("%w: %q", session.ErrInvalidDate, s)
	}
	return s, nil
}

// CurrentUser loads the store and resolves the signed-in user.
func (c *Context) CurrentUser(ctx context.Context) (identity.User, error) {
	if err := c.Load(); err != nil {
		return identity.User{}, err
	}
	return c.Identity.CurrentUser(ctx)
}

func (c *Context) NewSession() *session.Session {
	opts := session.Options{
		Logs:     c.Store,
		Settings: c.Store,
		Notifier: c.Notifier,
		Clock:    c.clock(),
		Location: c.Location(),
	}
	if c.Config != nil {
		opts.Debounce = c.Config.Debounce
		opts.LoadTimeout = c.Config.LoadTimeout
	}
	return session.New(opts)
}

// OpenSession starts a session on today and then selects date, so the usual
// navigation rules apply. Callers must Close the session.
func (c *Context) OpenSession(ctx context.Context, date string) (*session.Session, error) {
	user, err := c.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	date, err = c.ResolveDate(date)
	if err != nil {
		return nil, err
	}

	s := c.NewSession()
	if err := s.Load(ctx, user, ""); err != nil {
		s.Close()
		return nil, err
	}
	if date != s.SelectedDate() {
		if err := s.Select(ctx, date); err != nil {
			s.Close()
			return nil, err
		}
	}
	return s, nil
}

// Edit opens a session on date, applies fn and flushes the result.
func (c *Context) Edit(ctx context.Context, date string, fn func(s *session.Session) error) (*session.Session, error) {
	s, err := c.OpenSession(ctx, date)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	if !s.Editability().Writable() {
		return nil, fmt.Errorf("%w: %s", ErrReadOnly, s.SelectedDate())
	}
	if err := fn(s); err != nil {
		return nil, err
	}
	if err := s.Flush(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// OpenHabits loads the signed-in user's habit config.
func (c *Context) OpenHabits(ctx context.Context) (*habitconfig.Store, error) {
	user, err := c.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	hs := habitconfig.NewStore(c.Store)
	if _, err := hs.Load(ctx, user.ID, user.Email); err != nil {
		return nil, err
	}
	return hs, nil
}

// PerformAutomaticBackup snapshots a sqlite database and logs failures.
func (c *Context) PerformAutomaticBackup() {
	if _, ok := c.Store.(*sqlite.Store); !ok {
		return
	}
	mgr := backup.NewManager(c.Store.GetConfigPath())
	if _, err := mgr.Create(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}
