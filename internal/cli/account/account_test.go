package account

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/daylog/internal/cli"
	"github.com/julianstephens/daylog/internal/identity"
)

func setup(t *testing.T, id identity.Provider) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	gokeyring.MockInit()
	out := &bytes.Buffer{}
	return &cli.Context{Identity: id, Out: out}, out
}

func TestLoginWhoamiLogout(t *testing.T) {
	local := identity.NewLocal()
	ctx, out := setup(t, local)

	if err := (&LoginCmd{Name: "Ada", Email: "ada@example.com"}).Run(ctx); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if !strings.Contains(out.String(), "Signed in as Ada") {
		t.Errorf("unexpected output: %q", out.String())
	}

	out.Reset()
	if err := (&WhoamiCmd{}).Run(ctx); err != nil {
		t.Fatalf("whoami failed: %v", err)
	}
	if !strings.Contains(out.String(), identity.UserID("Ada")) {
		t.Errorf("whoami missing user ID: %q", out.String())
	}
	if !strings.Contains(out.String(), "ada@example.com") {
		t.Errorf("whoami missing email: %q", out.String())
	}

	if err := (&LogoutCmd{}).Run(ctx); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if _, err := local.CurrentUser(context.Background()); !errors.Is(err, identity.ErrNotAuthenticated) {
		t.Errorf("expected ErrNotAuthenticated after logout, got %v", err)
	}

	out.Reset()
	if err := (&WhoamiCmd{}).Run(ctx); err != nil {
		t.Fatalf("whoami failed: %v", err)
	}
	if !strings.Contains(out.String(), "Not signed in") {
		t.Errorf("unexpected output: %q", out.String())
	}
}

func TestLoginRejectsEmptyName(t *testing.T) {
	ctx, _ := setup(t, identity.NewLocal())

	if err := (&LoginCmd{Name: "  "}).Run(ctx); err == nil {
		t.Fatal("expected error for empty name")
	}
}

func TestFixedIdentity(t *testing.T) {
	ctx, _ := setup(t, identity.NewStatic(identity.NewUser("ci", "")))

	if err := (&LoginCmd{Name: "Ada"}).Run(ctx); !errors.Is(err, errFixedIdentity) {
		t.Errorf("login: expected errFixedIdentity, got %v", err)
	}
	if err := (&LogoutCmd{}).Run(ctx); !errors.Is(err, errFixedIdentity) {
		t.Errorf("logout: expected errFixedIdentity, got %v", err)
	}
}
