package system

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/daylog/internal/cli"
	"github.com/julianstephens/daylog/internal/config"
	"github.com/julianstephens/daylog/internal/identity"
	"github.com/julianstephens/daylog/internal/models"
	"github.com/julianstephens/daylog/internal/storage/sqlite"
)

func setupDoctor(t *testing.T, initialize bool) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	gokeyring.MockInit()

	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if initialize {
		if err := store.Init(); err != nil {
			t.Fatalf("failed to init store: %v", err)
		}
	}
	t.Cleanup(func() { _ = store.Close() })

	out := &bytes.Buffer{}
	return &cli.Context{
		Config:   &config.Config{Timezone: "UTC"},
		Store:    store,
		Identity: identity.NewStatic(identity.NewUser("ada", "")),
		Out:      out,
	}, out
}

func TestDoctorCmd_Healthy(t *testing.T) {
	ctx, out := setupDoctor(t, true)
	if _, err := ctx.Store.UpsertLog(context.Background(), models.NewDailyLog(identity.UserID("ada"), "2026-01-10", []models.HabitEntry{
		models.NewPendingEntry("Run").WithStatus(models.StatusDone),
	})); err != nil {
		t.Fatalf("failed to seed log: %v", err)
	}

	if err := (&DoctorCmd{}).Run(ctx); err != nil {
		t.Fatalf("doctor failed: %v\n%s", err, out.String())
	}
	got := out.String()
	for _, want := range []string{"✓ Database reachable: OK", "✓ Schema version: OK", "⚠ Backups present: WARNING", "✓ Log integrity: OK", "All checks passed."} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestDoctorCmd_Uninitialized(t *testing.T) {
	ctx, out := setupDoctor(t, false)

	err := (&DoctorCmd{}).Run(ctx)
	if !errors.Is(err, errChecksFailed) {
		t.Fatalf("expected errChecksFailed, got %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "❌ Database reachable: FAIL") {
		t.Errorf("expected database failure:\n%s", got)
	}
	if !strings.Contains(got, "⊘ Schema version: SKIPPED") {
		t.Errorf("expected schema check skipped:\n%s", got)
	}
}

func TestDoctorCmd_DuplicateHabits(t *testing.T) {
	ctx, out := setupDoctor(t, true)
	err := ctx.Store.SaveSettings(context.Background(), models.UserSettings{
		UserID: identity.UserID("ada"),
		Config: models.HabitConfig{Habits: []models.HabitDefinition{{Name: "Run"}, {Name: "Run"}}},
	})
	if err != nil {
		t.Fatalf("failed to seed settings: %v", err)
	}

	if err := (&DoctorCmd{}).Run(ctx); !errors.Is(err, errChecksFailed) {
		t.Fatalf("expected errChecksFailed, got %v", err)
	}
	if !strings.Contains(out.String(), `duplicate habit "Run"`) {
		t.Errorf("expected duplicate habit error:\n%s", out.String())
	}
}
