package system

import (
	"fmt"
	"strings"

	"github.com/julianstephens/daylog/internal/cli"
	"github.com/julianstephens/daylog/internal/notifier"
)

type NotifyCmd struct {
	Message  string `arg:"" help:"Message to send."`
	Severity string `help:"Severity: info, warn or error." default:"info" enum:"info,warn,error"`
	DryRun   bool   `help:"Print the notification instead of sending it."`
}

func (c *NotifyCmd) Run(ctx *cli.Context) error {
	severity, err := parseSeverity(c.Severity)
	if err != nil {
		return err
	}
	if c.DryRun {
		ctx.Printf("[DryRun] %s: %s\n", severity, c.Message)
		return nil
	}

	ctx.Notifier.Notify(c.Message, severity)
	ctx.WaitNotifications()
	return nil
}

func parseSeverity(s string) (notifier.Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return notifier.Info, nil
	case "warn", "warning":
		return notifier.Warn, nil
	case "error":
		return notifier.Error, nil
	default:
		return notifier.Info, fmt.Errorf("unknown severity %q", s)
	}
}
