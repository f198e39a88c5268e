package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/julianstephens/daylog/internal/cli"
	"github.com/julianstephens/daylog/internal/identity"
)

// accountProvider is implemented by identity providers that can change the
// signed-in user.
type accountProvider interface {
	Login(name, email string) (identity.User, error)
	Logout() error
}

var errFixedIdentity = errors.New("identity is fixed by DAYLOG_USER, unset it to sign in or out")

type LoginCmd struct {
	Name  string `arg:"" help:"Your name. The user ID is derived from it."`
	Email string `help:"Optional email stored with your settings."`
}

func (c *LoginCmd) Run(ctx *cli.Context) error {
	p, ok := ctx.Identity.(accountProvider)
	if !ok {
		return errFixedIdentity
	}
	user, err := p.Login(c.Name, c.Email)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	ctx.Printf("✓ Signed in as %s\n", user.Name)
	return nil
}

type LogoutCmd struct{}

func (c *LogoutCmd) Run(ctx *cli.Context) error {
	p, ok := ctx.Identity.(accountProvider)
	if !ok {
		return errFixedIdentity
	}
	if err := p.Logout(); err != nil {
		return fmt.Errorf("logout failed: %w", err)
	}
	ctx.Println("✓ Signed out")
	return nil
}

type WhoamiCmd struct{}

func (c *WhoamiCmd) Run(ctx *cli.Context) error {
	user, err := ctx.Identity.CurrentUser(context.Background())
	if errors.Is(err, identity.ErrNotAuthenticated) {
		ctx.Println("Not signed in.")
		return nil
	}
	if err != nil {
		return err
	}

	ctx.Printf("Name:  %s\n", user.Name)
	if user.Email != "" {
		ctx.Printf("Email: %s\n", user.Email)
	}
	ctx.Printf("ID:    %s\n", user.ID)
	return nil
}
