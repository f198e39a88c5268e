package logs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/julianstephens/daylog/internal/cli"
	"github.com/julianstephens/daylog/internal/config"
	"github.com/julianstephens/daylog/internal/constants"
	"github.com/julianstephens/daylog/internal/identity"
	"github.com/julianstephens/daylog/internal/models"
	"github.com/julianstephens/daylog/internal/notifier"
	"github.com/julianstephens/daylog/internal/session"
	"github.com/julianstephens/daylog/internal/storage/sqlite"
)

var testUser = identity.NewUser("ada", "")

func setupTestDB(t *testing.T) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})

	out := &bytes.Buffer{}
	ctx := &cli.Context{
		Config:   &config.Config{Timezone: "UTC"},
		Store:    store,
		Identity: identity.NewStatic(testUser),
		Notifier: notifier.Discard,
		Clock:    clockwork.NewFakeClockAt(time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)),
		Out:      out,
	}
	return ctx, out
}

func addHabits(t *testing.T, ctx *cli.Context) {
	t.Helper()
	hs, err := ctx.OpenHabits(context.Background())
	if err != nil {
		t.Fatalf("failed to open habits: %v", err)
	}
	if err := hs.AddHabit(context.Background(), "Run", "shoe", true); err != nil {
		t.Fatalf("failed to add habit: %v", err)
	}
	if err := hs.AddHabit(context.Background(), "Read", "book", false); err != nil {
		t.Fatalf("failed to add habit: %v", err)
	}
}

func seed(t *testing.T, ctx *cli.Context, date string, entries ...models.HabitEntry) {
	t.Helper()
	if _, err := ctx.Store.UpsertLog(context.Background(), models.NewDailyLog(testUser.ID, date, entries)); err != nil {
		t.Fatalf("failed to seed log: %v", err)
	}
}

func stored(t *testing.T, ctx *cli.Context, date string) models.DailyLog {
	t.Helper()
	log, err := ctx.Store.GetLog(context.Background(), testUser.ID, date)
	if err != nil {
		t.Fatalf("failed to get log for %s: %v", date, err)
	}
	return log
}

func status(t *testing.T, log models.DailyLog, name string) models.HabitStatus {
	t.Helper()
	e, ok := log.Entry(name)
	if !ok {
		t.Fatalf("no entry for %s", name)
	}
	return e.EffectiveStatus()
}

func TestShowCmd_UnsavedToday(t *testing.T) {
	ctx, out := setupTestDB(t)
	addHabits(t, ctx)

	if err := (&ShowCmd{}).Run(ctx); err != nil {
		t.Fatalf("show failed: %v", err)
	}
	if !strings.Contains(out.String(), "2026-01-10 (not saved yet)") {
		t.Errorf("unexpected header: %q", out.String())
	}
	if !strings.Contains(out.String(), "[ ] Run") {
		t.Errorf("expected pending Run entry, got %q", out.String())
	}
}

func TestHabitStatusCommands(t *testing.T) {
	ctx, _ := setupTestDB(t)
	addHabits(t, ctx)

	if err := (&DoneCmd{Name: "run"}).Run(ctx); err != nil {
		t.Fatalf("done failed: %v", err)
	}
	if got := status(t, stored(t, ctx, "2026-01-10"), "Run"); got != models.StatusDone {
		t.Errorf("Run = %s, want done", got)
	}

	if err := (&SkipCmd{Name: "Read"}).Run(ctx); !errors.Is(err, session.ErrNotSkippable) {
		t.Errorf("expected ErrNotSkippable, got %v", err)
	}

	if err := (&UndoCmd{Name: "Run"}).Run(ctx); err != nil {
		t.Fatalf("undo failed: %v", err)
	}
	if got := status(t, stored(t, ctx, "2026-01-10"), "Run"); got != models.StatusPending {
		t.Errorf("Run = %s, want pending", got)
	}

	if err := (&DoneCmd{Name: "Swim"}).Run(ctx); err == nil {
		t.Error("expected error for unknown habit")
	}
}

func TestDateRules(t *testing.T) {
	ctx, _ := setupTestDB(t)
	addHabits(t, ctx)
	seed(t, ctx, "2026-01-09", models.NewPendingEntry("Run"))

	tests := []struct {
		name    string
		date    string
		wantErr error
	}{
		{name: "yesterday with log", date: "yesterday"},
		{name: "explicit date with log", date: "2026-01-09"},
		{name: "past date without log", date: "2026-01-05", wantErr: session.ErrNavigationDenied},
		{name: "future date", date: "2026-01-11", wantErr: session.ErrNavigationDenied},
		{name: "malformed date", date: "01/09/2026", wantErr: session.ErrInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := (&DoneCmd{Name: "Run", Date: tt.date}).Run(ctx)
			if tt.wantErr == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if got := status(t, stored(t, ctx, "2026-01-09"), "Run"); got != models.StatusDone {
		t.Errorf("Run on 2026-01-09 = %s, want done", got)
	}
}

func TestTextFields(t *testing.T) {
	ctx, _ := setupTestDB(t)

	cmds := []interface{ Run(*cli.Context) error }{
		&GoalCmd{Text: "Ship the release"},
		&NoteCmd{Text: "Long day"},
		&WordCmd{Text: "petrichor - smell of rain"},
		&SongCmd{Text: "Nina Simone - Feeling Good"},
		&MoodCmd{Value: "3"},
	}
	for _, c := range cmds {
		if err := c.Run(ctx); err != nil {
			t.Fatalf("%T failed: %v", c, err)
		}
	}

	log := stored(t, ctx, "2026-01-10")
	if models.StringValue(log.TodayGoal) != "Ship the release" {
		t.Errorf("goal = %q", models.StringValue(log.TodayGoal))
	}
	if models.StringValue(log.Note) != "Long day" {
		t.Errorf("note = %q", models.StringValue(log.Note))
	}
	if w := models.ParseWord(models.StringValue(log.WordOfDay)); w.Word != "petrichor" || w.Definition != "smell of rain" {
		t.Errorf("word = %+v", w)
	}
	if s := models.ParseSong(models.StringValue(log.SongLink)); s.Artist != "Nina Simone" || s.Title != "Feeling Good" {
		t.Errorf("song = %+v", s)
	}
	if log.Mood == nil || *log.Mood != 3 {
		t.Errorf("mood = %v", log.Mood)
	}

	if err := (&GoalCmd{Clear: true}).Run(ctx); err != nil {
		t.Fatalf("clear goal failed: %v", err)
	}
	if err := (&MoodCmd{Clear: true}).Run(ctx); err != nil {
		t.Fatalf("clear mood failed: %v", err)
	}
	log = stored(t, ctx, "2026-01-10")
	if log.TodayGoal != nil || log.Mood != nil {
		t.Errorf("expected goal and mood cleared, got %v %v", log.TodayGoal, log.Mood)
	}
}

func TestTextFieldValidation(t *testing.T) {
	ctx, _ := setupTestDB(t)

	if err := (&GoalCmd{Text: "  "}).Run(ctx); err == nil {
		t.Error("expected error for empty goal")
	}
	for _, v := range []string{"5", "-1", "great"} {
		if err := (&MoodCmd{Value: v}).Run(ctx); !errors.Is(err, models.ErrInvalidMood) {
			t.Errorf("mood %q: expected ErrInvalidMood, got %v", v, err)
		}
	}
	if _, err := ctx.Store.GetLog(context.Background(), testUser.ID, "2026-01-10"); err == nil {
		t.Error("rejected edits should not create a log")
	}
}

func TestAffirmCmd(t *testing.T) {
	ctx, out := setupTestDB(t)
	want := constants.DefaultAffirmations[1]

	if err := (&AffirmCmd{Affirmation: "2"}).Run(ctx); err != nil {
		t.Fatalf("affirm failed: %v", err)
	}
	if log := stored(t, ctx, "2026-01-10"); !log.HasAffirmation(want) {
		t.Errorf("expected %q selected, got %v", want, log.SelectedAffirmations)
	}

	if err := (&AffirmCmd{Affirmation: strings.ToUpper(want)}).Run(ctx); err != nil {
		t.Fatalf("affirm by text failed: %v", err)
	}
	if log := stored(t, ctx, "2026-01-10"); log.HasAffirmation(want) {
		t.Errorf("expected %q deselected", want)
	}

	if err := (&AffirmCmd{Affirmation: "99"}).Run(ctx); !errors.Is(err, session.ErrUnknownAffirmation) {
		t.Errorf("expected ErrUnknownAffirmation, got %v", err)
	}

	out.Reset()
	if err := (&AffirmCmd{}).Run(ctx); err != nil {
		t.Fatalf("affirm list failed: %v", err)
	}
	if !strings.Contains(out.String(), " 1. [ ] "+constants.DefaultAffirmations[0]) {
		t.Errorf("unexpected list: %q", out.String())
	}
}

func TestReflectionPatch(t *testing.T) {
	log := models.NewDailyLog(testUser.ID, "2026-01-10", nil)
	log.TodayGoal = models.Ptr("Ship")
	log.Mood = models.Ptr(2)

	r := newReflection(log)
	if r.Goal != "Ship" || r.Mood != 2 {
		t.Fatalf("reflection not prefilled: %+v", r)
	}

	r.Mood = -1
	r.Word = "sonder-ish"
	r.Note = "ok"
	r.Affirmations = []string{"One step at a time."}
	if err := r.patch().Apply(&log); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	if log.Mood != nil {
		t.Errorf("expected mood cleared, got %d", *log.Mood)
	}
	if models.StringValue(log.TodayGoal) != "Ship" || models.StringValue(log.Note) != "ok" {
		t.Errorf("unexpected text fields: %q %q", models.StringValue(log.TodayGoal), models.StringValue(log.Note))
	}
	if models.StringValue(log.WordOfDay) != "sonder-ish" {
		t.Errorf("word = %q", models.StringValue(log.WordOfDay))
	}
	if log.SongLink != nil {
		t.Errorf("empty song should stay unset, got %q", *log.SongLink)
	}
	if !log.HasAffirmation("One step at a time.") {
		t.Errorf("affirmations = %v", log.SelectedAffirmations)
	}
}

func TestListCmd(t *testing.T) {
	ctx, out := setupTestDB(t)
	seed(t, ctx, "2026-01-08")
	seed(t, ctx, "2026-01-09", models.NewPendingEntry("Run").WithStatus(models.StatusDone))

	if err := (&ListCmd{Limit: 1}).Run(ctx); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	got := strings.TrimSpace(out.String())
	if got != "2026-01-09  1/1 habits  ✓" {
		t.Errorf("unexpected list output: %q", got)
	}

	out.Reset()
	if err := (&ListCmd{Calendar: true}).Run(ctx); err != nil {
		t.Fatalf("calendar failed: %v", err)
	}
	cal := out.String()
	for _, want := range []string{"January 2026", " 9*", " 8*", ">10 "} {
		if !strings.Contains(cal, want) {
			t.Errorf("calendar missing %q:\n%s", want, cal)
		}
	}

	if err := (&ListCmd{Calendar: true, Month: "January"}).Run(ctx); err == nil {
		t.Error("expected error for malformed month")
	}
}

func TestListCmd_Empty(t *testing.T) {
	ctx, out := setupTestDB(t)

	if err := (&ListCmd{}).Run(ctx); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out.String(), "No logs yet") {
		t.Errorf("unexpected output: %q", out.String())
	}
}

func TestStreakCmd(t *testing.T) {
	ctx, out := setupTestDB(t)
	addHabits(t, ctx)
	done := models.NewPendingEntry("Run").WithStatus(models.StatusDone)
	seed(t, ctx, "2026-01-09", done, models.NewPendingEntry("Read"))
	seed(t, ctx, "2026-01-10", done, models.NewPendingEntry("Read"))

	if err := (&StreakCmd{}).Run(ctx); err != nil {
		t.Fatalf("streak failed: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "Overall: 2 days") {
		t.Errorf("unexpected overall: %q", got)
	}
	if !strings.Contains(got, fmt.Sprintf("%-20s %s", "Run", "2 days")) {
		t.Errorf("unexpected Run streak: %q", got)
	}
	if !strings.Contains(got, fmt.Sprintf("%-20s %s", "Read", "0 days")) {
		t.Errorf("unexpected Read streak: %q", got)
	}
}
