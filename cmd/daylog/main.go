package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/daylog/internal/cli"
	"github.com/julianstephens/daylog/internal/cli/account"
	"github.com/julianstephens/daylog/internal/cli/backups"
	"github.com/julianstephens/daylog/internal/cli/habits"
	"github.com/julianstephens/daylog/internal/cli/logs"
	"github.com/julianstephens/daylog/internal/cli/system"
	"github.com/julianstephens/daylog/internal/config"
	"github.com/julianstephens/daylog/internal/constants"
	"github.com/julianstephens/daylog/internal/errors"
	"github.com/julianstephens/daylog/internal/logger"
	"github.com/julianstephens/daylog/internal/utils"
)

var CLI struct {
	Version  kong.VersionFlag
	Config   string `help:"SQLite path or PostgreSQL connection string. PostgreSQL credentials must NOT be embedded; use DAYLOG_DB_CONNECTION, .pgpass or 'daylog keyring set' instead." placeholder:"PATH|DSN"`
	Debug    bool   `help:"Log debug output to stderr."`
	Timezone string `help:"IANA timezone that decides what 'today' is (default: system local)."`

	Tui     system.TuiCmd          `cmd:"" help:"Open today's log in the interactive editor." default:"1"`
	Show    logs.ShowCmd           `cmd:"" aliases:"today" help:"Print the log for a day."`
	Done    logs.DoneCmd           `cmd:"" help:"Mark a habit done."`
	Skip    logs.SkipCmd           `cmd:"" help:"Skip a habit for the day."`
	Undo    logs.UndoCmd           `cmd:"" help:"Set a habit back to pending."`
	Goal    logs.GoalCmd           `cmd:"" help:"Set the day's goal."`
	Note    logs.NoteCmd           `cmd:"" help:"Set the day's note."`
	Mood    logs.MoodCmd           `cmd:"" help:"Rate the day's mood (0-4)."`
	Word    logs.WordCmd           `cmd:"" help:"Set the word of the day."`
	Song    logs.SongCmd           `cmd:"" help:"Set the song of the day."`
	Affirm  logs.AffirmCmd         `cmd:"" help:"Toggle or list affirmations for the day."`
	Reflect logs.ReflectCmd        `cmd:"" help:"Fill in the day's reflection in a form."`
	Logs    logs.ListCmd           `cmd:"" help:"List past logs or show a calendar."`
	Streak  logs.StreakCmd         `cmd:"" help:"Show current streaks."`
	Remind  system.RemindCmd       `cmd:"" help:"Send a reminder when today's log is incomplete."`
	Habits  habits.HabitsCmd       `cmd:"" help:"Manage your habit list."`
	Affirms habits.AffirmationsCmd `cmd:"" name:"affirmations" help:"Manage your affirmations."`

	Login  account.LoginCmd  `cmd:"" help:"Sign in."`
	Logout account.LogoutCmd `cmd:"" help:"Sign out."`
	Whoami account.WhoamiCmd `cmd:"" help:"Show the signed-in user."`

	Init    system.InitCmd    `cmd:"" help:"Initialize daylog storage."`
	Migrate system.MigrateCmd `cmd:"" help:"Run database migrations."`
	Doctor  system.DoctorCmd  `cmd:"" help:"Run health checks and diagnostics."`
	Backup  backups.BackupCmd `cmd:"" help:"Manage database backups."`
	Keyring system.KeyringCmd `cmd:"" help:"Manage the PostgreSQL connection string in the OS keyring."`
	Inspect system.DebugCmd   `cmd:"" hidden:"" help:"Inspect raw stored data."`
	Notify  system.NotifyCmd  `cmd:"" hidden:"" help:"Send a notification through the configured sinks."`
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Daily habit and reflection log"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	cfg := config.Load()
	if CLI.Config != "" {
		cfg.Database = CLI.Config
	}
	if CLI.Debug {
		cfg.Debug = true
	}
	if CLI.Timezone != "" {
		if _, err := utils.LoadLocation(CLI.Timezone); err != nil {
			errors.Fatal(fmt.Errorf("invalid timezone %q: %w", CLI.Timezone, err))
		}
		cfg.Timezone = CLI.Timezone
	}

	configDir, err := cfg.ConfigDir()
	if err != nil {
		errors.Fatal(err)
	}
	if err := logger.Init(logger.Config{Debug: cfg.Debug, ConfigDir: configDir}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: file logging disabled: %v\n", err)
	}
	for _, w := range cfg.Warnings {
		logger.Warn(w)
	}

	store, err := cli.NewStore(cfg)
	if err != nil {
		errors.Fatal(err)
	}

	appCtx := cli.NewContext(cfg, store, cli.NewIdentity(cfg))
	err = kctx.Run(appCtx)
	if closeErr := appCtx.Close(); closeErr != nil {
		logger.Warn("failed to close storage", "error", closeErr)
	}
	errors.Fatal(err)
}
