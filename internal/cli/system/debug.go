package system

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/julianstephens/daylog/internal/cli"
	"github.com/julianstephens/daylog/internal/storage"
)

type DebugCmd struct {
	DBPath       DebugDBPathCmd       `cmd:"" help:"Show database path."`
	DumpLog      DebugDumpLogCmd      `cmd:"" help:"Dump a daily log as JSON."`
	DumpSettings DebugDumpSettingsCmd `cmd:"" help:"Dump habit settings as JSON."`
}

func printJSON(ctx *cli.Context, v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	ctx.Println(string(jsonBytes))
	return nil
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *cli.Context) error {
	return printJSON(ctx, map[string]string{"path": ctx.Store.GetConfigPath()})
}

type DebugDumpLogCmd struct {
	Date string `arg:"" help:"Date of the log to dump (YYYY-MM-DD, today or yesterday)."`
}

func (cmd *DebugDumpLogCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}
	user, err := ctx.CurrentUser(context.Background())
	if err != nil {
		return err
	}
	date, err := ctx.ResolveDate(cmd.Date)
	if err != nil {
		return err
	}

	log, err := ctx.Store.GetLog(context.Background(), user.ID, date)
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("no log found for date: %s", date)
	}
	if err != nil {
		return fmt.Errorf("failed to get log: %w", err)
	}
	return printJSON(ctx, log)
}

type DebugDumpSettingsCmd struct{}

func (cmd *DebugDumpSettingsCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}
	user, err := ctx.CurrentUser(context.Background())
	if err != nil {
		return err
	}

	settings, err := ctx.Store.GetSettings(context.Background(), user.ID)
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("no settings stored for %s", user.Name)
	}
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	return printJSON(ctx, settings)
}
