package logs

import (
	"context"
	"fmt"
	"time"

	"github.com/julianstephens/daylog/internal/cli"
	"github.com/julianstephens/daylog/internal/constants"
	"github.com/julianstephens/daylog/internal/streak"
)

type ListCmd struct {
	Limit    int    `help:"Number of most recent logs to show (0 for all)." default:"14"`
	Calendar bool   `help:"Show a month calendar with logged days marked."`
	Month    string `help:"Month for --calendar (YYYY-MM). Defaults to the current month."`
}

func (c *ListCmd) Run(ctx *cli.Context) error {
	user, err := ctx.CurrentUser(context.Background())
	if err != nil {
		return err
	}

	if c.Calendar {
		return c.calendar(ctx, user.ID)
	}

	history, err := ctx.Store.ListLogs(context.Background(), user.ID)
	if err != nil {
		return fmt.Errorf("failed to list logs: %w", err)
	}
	if len(history) == 0 {
		ctx.Println("No logs yet. Start with 'daylog' or 'daylog done <habit>'.")
		return nil
	}

	if c.Limit > 0 && len(history) > c.Limit {
		history = history[:c.Limit]
	}
	for _, l := range history {
		ctx.Println(cli.Summary(l))
	}
	return nil
}

func (c *ListCmd) calendar(ctx *cli.Context, userID string) error {
	today := ctx.Today()
	month, err := time.Parse(constants.DateFormat, today)
	if err != nil {
		return err
	}
	if c.Month != "" {
		month, err = time.Parse("2006-01", c.Month)
		if err != nil {
			return fmt.Errorf("invalid month %q, expected YYYY-MM", c.Month)
		}
	}

	dates, err := ctx.Store.ListLogDates(context.Background(), userID)
	if err != nil {
		return fmt.Errorf("failed to list logs: %w", err)
	}
	active := make(map[string]struct{}, len(dates))
	for _, d := range dates {
		active[d] = struct{}{}
	}

	ctx.Printf("%s", cli.Calendar(month, active, today))
	return nil
}

type StreakCmd struct{}

func (c *StreakCmd) Run(ctx *cli.Context) error {
	habits, err := ctx.OpenHabits(context.Background())
	if err != nil {
		return err
	}
	user, err := ctx.CurrentUser(context.Background())
	if err != nil {
		return err
	}

	history, err := ctx.Store.ListLogs(context.Background(), user.ID)
	if err != nil {
		return fmt.Errorf("failed to list logs: %w", err)
	}

	report := streak.Analyze(streak.SortDescending(history), habits.Config(), ctx.Today())
	ctx.Printf("Overall: %s\n", days(report.Overall))
	for _, h := range report.Habits {
		ctx.Printf("  %-20s %s\n", h.Name, days(h.Days))
	}
	return nil
}

func days(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}
