package system

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/daylog/internal/backup"
	"github.com/julianstephens/daylog/internal/cli"
	"github.com/julianstephens/daylog/internal/constants"
	"github.com/julianstephens/daylog/internal/identity"
	"github.com/julianstephens/daylog/internal/keyring"
	"github.com/julianstephens/daylog/internal/models"
	"github.com/julianstephens/daylog/internal/storage"
	"github.com/julianstephens/daylog/internal/storage/sqlite"
	"github.com/julianstephens/daylog/internal/utils"
)

var errChecksFailed = errors.New("one or more health checks failed")

type DoctorCmd struct{}

type check struct {
	name    string
	needsDB bool
	warn    bool
	run     func(ctx *cli.Context) error
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	checks := []check{
		{name: "Database reachable", run: checkDBReachable},
		{name: "Schema version", needsDB: true, run: checkSchema},
		{name: "Backups present", warn: true, run: checkBackupsPresent},
		{name: "Clock/timezone", run: checkClockTimezone},
		{name: "Keyring", warn: true, run: checkKeyring},
		{name: "Signed in", warn: true, run: checkIdentity},
		{name: "Habit config", needsDB: true, run: checkHabitConfig},
		{name: "Log integrity", needsDB: true, run: checkLogIntegrity},
	}

	hasError := false
	dbReachable := false
	for i, c := range checks {
		if c.needsDB && !dbReachable {
			ctx.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			ctx.Printf("✓ %s: OK\n", c.name)
			dbReachable = dbReachable || i == 0
		case c.warn:
			ctx.Printf("⚠ %s: WARNING\n", c.name)
			ctx.Printf("   %v\n", err)
		default:
			ctx.Printf("❌ %s: FAIL\n", c.name)
			ctx.Printf("   Error: %v\n", err)
			hasError = true
		}
	}

	ctx.Println()
	if hasError {
		return errChecksFailed
	}
	ctx.Println("All checks passed.")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	return ctx.Load()
}

func checkSchema(ctx *cli.Context) error {
	m, ok := ctx.Store.(migrator)
	if !ok {
		return nil
	}
	current, pending, err := m.SchemaStatus()
	if err != nil {
		return err
	}
	if pending > 0 {
		return fmt.Errorf("schema version %d has %d pending migration(s), run 'daylog migrate'", current, pending)
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	if _, ok := ctx.Store.(*sqlite.Store); !ok {
		return nil
	}
	backups, err := backup.NewManager(ctx.Store.GetConfigPath()).List()
	if err != nil {
		return err
	}
	if len(backups) == 0 {
		return errors.New("no backups found, run 'daylog backup' to create one")
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	loc := ctx.Location()
	if _, err := utils.LoadLocation(loc.String()); err != nil {
		return fmt.Errorf("timezone %q cannot be loaded: %w", loc, err)
	}
	now := time.Now()
	if now.Year() < 2020 {
		return fmt.Errorf("system clock looks wrong: %s", now.Format(time.RFC3339))
	}
	return nil
}

func checkKeyring(ctx *cli.Context) error {
	if !keyring.IsAvailable() {
		return errors.New("OS keyring is not available, set DAYLOG_USER to pick a user")
	}
	return nil
}

func checkIdentity(ctx *cli.Context) error {
	c, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := ctx.Identity.CurrentUser(c)
	if errors.Is(err, identity.ErrNotAuthenticated) {
		return errors.New("nobody is signed in, run 'daylog login <name>'")
	}
	return err
}

func checkHabitConfig(ctx *cli.Context) error {
	c, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	user, err := ctx.Identity.CurrentUser(c)
	if err != nil {
		return nil
	}
	settings, err := ctx.Store.GetSettings(c, user.ID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	seen := map[string]bool{}
	for _, h := range settings.Config.Habits {
		if h.Name == "" {
			return errors.New("habit with empty name")
		}
		if seen[h.Name] {
			return fmt.Errorf("duplicate habit %q", h.Name)
		}
		seen[h.Name] = true
	}
	return nil
}

func checkLogIntegrity(ctx *cli.Context) error {
	c, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	user, err := ctx.Identity.CurrentUser(c)
	if err != nil {
		return nil
	}
	logs, err := ctx.Store.ListLogs(c, user.ID)
	if err != nil {
		return err
	}
	for _, l := range logs {
		if _, err := utils.ParseDate(l.Date); err != nil {
			return fmt.Errorf("log %s has invalid date %q", l.ID, l.Date)
		}
		for _, e := range l.Habits {
			if e.Status != "" && !e.Status.Valid() {
				return fmt.Errorf("log %s has invalid status %q for %s", l.Date, e.Status, e.Name)
			}
			if e.Status != "" && e.Done != (e.Status == models.StatusDone) {
				return fmt.Errorf("log %s has inconsistent done flag for %s", l.Date, e.Name)
			}
		}
		if l.Mood != nil && (*l.Mood < constants.MinMood || *l.Mood > constants.MaxMood) {
			return fmt.Errorf("log %s has mood %d out of range", l.Date, *l.Mood)
		}
	}
	return nil
}
