package system

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"

	"github.com/julianstephens/daylog/internal/cli"
	"github.com/julianstephens/daylog/internal/constants"
	"github.com/julianstephens/daylog/internal/identity"
	"github.com/julianstephens/daylog/internal/logger"
	"github.com/julianstephens/daylog/internal/tui"
)

type TuiCmd struct {
	Date string `help:"Open this date instead of today (YYYY-MM-DD)."`
}

// refresher is implemented by providers whose sign-in state can change
// outside this process.
type refresher interface {
	Refresh() error
}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	ctx.PerformAutomaticBackup()

	s, err := ctx.OpenSession(context.Background(), c.Date)
	if err != nil {
		return err
	}
	defer s.Close()

	m := tui.NewModel(s, ctx.Store)
	p := tea.NewProgram(m, tea.WithAltScreen())
	s.OnChange(func() { p.Send(tui.SessionChangedMsg{}) })

	sub := ctx.Identity.OnAuthChange(func(u identity.User, present bool) {
		p.Send(tui.AuthChangedMsg{User: u, Present: present})
	})
	defer sub.Unsubscribe()
	if r, ok := ctx.Identity.(refresher); ok {
		stop := watchIdentity(ctx.Clock, r)
		defer stop()
	}

	final, err := p.Run()
	if err != nil {
		return err
	}
	if err := s.Flush(context.Background()); err != nil {
		return err
	}
	if fm, ok := final.(tui.Model); ok && fm.SignedOut() {
		ctx.Println("Signed-in user changed, closed the editor.")
	}
	return nil
}

// watchIdentity polls r until the returned stop func is called.
func watchIdentity(clock clockwork.Clock, r refresher) func() {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	ticker := clock.NewTicker(constants.IdentityRefreshInterval)
	done := make(chan struct{})
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.Chan():
				if err := r.Refresh(); err != nil {
					logger.Debug("identity refresh failed", "error", err)
				}
			}
		}
	}()
	return func() { close(done) }
}
