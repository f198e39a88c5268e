package logs

import (
	"context"
	"fmt"
	"strings"

	"github.com/julianstephens/daylog/internal/cli"
	"github.com/julianstephens/daylog/internal/models"
	"github.com/julianstephens/daylog/internal/session"
)

type ShowCmd struct {
	Date string `arg:"" optional:"" help:"Date to show (YYYY-MM-DD, today or yesterday). Defaults to today."`
}

func (c *ShowCmd) Run(ctx *cli.Context) error {
	s, err := ctx.OpenSession(context.Background(), c.Date)
	if err != nil {
		return err
	}
	defer s.Close()

	cli.WriteDay(ctx.Out, s.Log(), s.Config(), s.Editability())
	return nil
}

// findHabit resolves name against the open log, ignoring case when there is
// no exact match.
func findHabit(s *session.Session, name string) (string, error) {
	log := s.Log()
	if _, ok := log.Entry(name); ok {
		return name, nil
	}
	for _, e := range log.Habits {
		if strings.EqualFold(e.Name, strings.TrimSpace(name)) {
			return e.Name, nil
		}
	}
	return "", fmt.Errorf("no habit named %q in the log for %s", name, s.SelectedDate())
}

func setStatus(ctx *cli.Context, date, name string, status models.HabitStatus) error {
	var resolved string
	s, err := ctx.Edit(context.Background(), date, func(s *session.Session) error {
		n, err := findHabit(s, name)
		if err != nil {
			return err
		}
		resolved = n
		return s.SetHabitStatus(n, status)
	})
	if err != nil {
		return err
	}

	log := s.Log()
	ctx.Printf("%s %s (%s)  %d/%d done\n", cli.StatusMark(status), resolved, log.Date, log.DoneCount(), len(log.Habits))
	return nil
}

type DoneCmd struct {
	Name string `arg:"" help:"Habit name."`
	Date string `help:"Date (YYYY-MM-DD, today or yesterday). Defaults to today."`
}

func (c *DoneCmd) Run(ctx *cli.Context) error {
	return setStatus(ctx, c.Date, c.Name, models.StatusDone)
}

type SkipCmd struct {
	Name string `arg:"" help:"Habit name. Only skippable habits can be skipped."`
	Date string `help:"Date (YYYY-MM-DD, today or yesterday). Defaults to today."`
}

func (c *SkipCmd) Run(ctx *cli.Context) error {
	return setStatus(ctx, c.Date, c.Name, models.StatusSkipped)
}

type UndoCmd struct {
	Name string `arg:"" help:"Habit name."`
	Date string `help:"Date (YYYY-MM-DD, today or yesterday). Defaults to today."`
}

func (c *UndoCmd) Run(ctx *cli.Context) error {
	return setStatus(ctx, c.Date, c.Name, models.StatusPending)
}
