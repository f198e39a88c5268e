package system

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/julianstephens/daylog/internal/cli"
	"github.com/julianstephens/daylog/internal/reminder"
)

type RemindCmd struct {
	Once bool   `help:"Check today's log once and exit instead of running daily."`
	At   string `help:"Reminder time (HH:MM). Defaults to DAYLOG_REMIND_AT."`
}

func (c *RemindCmd) Run(ctx *cli.Context) error {
	user, err := ctx.CurrentUser(context.Background())
	if err != nil {
		return err
	}

	at := c.At
	if at == "" && ctx.Config != nil {
		at = ctx.Config.RemindAt
	}
	r, err := reminder.New(reminder.Options{
		Logs:     ctx.Store,
		Settings: ctx.Store,
		User:     user,
		Sink:     ctx.Notifier,
		Clock:    ctx.Clock,
		Location: ctx.Location(),
		At:       at,
	})
	if err != nil {
		return err
	}

	if c.Once {
		sent, err := r.Check(context.Background())
		ctx.WaitNotifications()
		if err != nil {
			return err
		}
		if !sent {
			ctx.Println("Nothing to remind, today is complete.")
		}
		return nil
	}

	if err := r.Start(); err != nil {
		return err
	}
	next, err := r.NextRun()
	if err == nil {
		ctx.Printf("Next reminder at %s. Press Ctrl+C to stop.\n", next.In(ctx.Location()).Format("2006-01-02 15:04"))
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	signal.Stop(sig)

	if err := r.Stop(); err != nil {
		return fmt.Errorf("failed to stop reminder: %w", err)
	}
	return nil
}
