package reminder

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/daylog/internal/identity"
	"github.com/julianstephens/daylog/internal/models"
	"github.com/julianstephens/daylog/internal/notifier"
	"github.com/julianstephens/daylog/internal/storage/memory"
)

var user = identity.NewUser("ada", "")

type captured struct {
	mu       sync.Mutex
	messages []string
}

func (c *captured) Notify(message string, _ notifier.Severity) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, message)
}

func (c *captured) all() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.messages...)
}

func newReminder(t *testing.T, at string) (*Reminder, *memory.Store, *captured, *clockwork.FakeClock) {
	t.Helper()
	store := memory.New()
	sink := &captured{}
	clock := clockwork.NewFakeClockAt(time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC))
	r, err := New(Options{
		Logs:     store,
		Settings: store,
		User:     user,
		Sink:     sink,
		Clock:    clock,
		Location: time.UTC,
		At:       at,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Stop() })
	return r, store, sink, clock
}

func TestNewRejectsBadTime(t *testing.T) {
	_, err := New(Options{At: "25:99"})
	assert.Error(t, err)
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name    string
		habits  []models.HabitEntry
		config  []models.HabitDefinition
		seed    bool
		sent    bool
		message string
	}{
		{name: "no log yet", seed: false, sent: true, message: "You haven't logged 2026-01-10 yet"},
		{
			name:    "pending habits",
			seed:    true,
			habits:  []models.HabitEntry{models.NewPendingEntry("Run"), {Name: "Read", Done: true}},
			sent:    true,
			message: "1 habit(s) still pending for 2026-01-10",
		},
		{
			name: "day complete",
			seed: true,
			habits: []models.HabitEntry{
				models.HabitEntry{Name: "Run"}.WithStatus(models.StatusDone),
				models.HabitEntry{Name: "Read"}.WithStatus(models.StatusSkipped),
			},
			sent: false,
		},
		{
			name:    "habit added after the log was saved",
			seed:    true,
			habits:  []models.HabitEntry{models.HabitEntry{Name: "Run"}.WithStatus(models.StatusDone)},
			config:  []models.HabitDefinition{{Name: "Run"}, {Name: "Meditate"}},
			sent:    true,
			message: "1 habit(s) still pending for 2026-01-10",
		},
		{
			name: "removed habit does not count",
			seed: true,
			habits: []models.HabitEntry{
				models.HabitEntry{Name: "Run"}.WithStatus(models.StatusDone),
				models.NewPendingEntry("Swim"),
			},
			config: []models.HabitDefinition{{Name: "Run"}},
			sent:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, store, sink, _ := newReminder(t, "")
			ctx := context.Background()
			if tt.config != nil {
				require.NoError(t, store.SaveSettings(ctx, models.UserSettings{
					UserID: user.ID,
					Config: models.HabitConfig{Habits: tt.config},
				}))
			}
			if tt.seed {
				_, err := store.UpsertLog(ctx, models.NewDailyLog(user.ID, "2026-01-10", tt.habits))
				require.NoError(t, err)
			}

			sent, err := r.Check(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.sent, sent)
			if tt.sent {
				assert.Equal(t, []string{tt.message}, sink.all())
			} else {
				assert.Empty(t, sink.all())
			}
		})
	}
}

func TestStartSchedulesDailyRun(t *testing.T) {
	r, _, _, _ := newReminder(t, "21:30")

	_, err := r.NextRun()
	assert.Error(t, err)

	require.NoError(t, r.Start())
	want := time.Date(2026, 1, 10, 21, 30, 0, 0, time.UTC)
	require.Eventually(t, func() bool {
		next, err := r.NextRun()
		return err == nil && next.Equal(want)
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, r.Stop())
	require.NoError(t, r.Stop())
}
