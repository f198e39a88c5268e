package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/daylog/internal/models"
	"github.com/julianstephens/daylog/internal/storage"
)

var _ storage.Provider = (*Store)(nil)

func TestUpsertKeepsOneRowPerUserAndDate(t *testing.T) {
	ctx := context.Background()
	s := New()

	first, err := s.UpsertLog(ctx, models.NewDailyLog("u1", "2026-01-05", nil))
	require.NoError(t, err)

	second, err := s.UpsertLog(ctx, models.NewDailyLog("u1", "2026-01-05", nil))
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	dates, err := s.ListLogDates(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-01-05"}, dates)
}

func TestReturnedLogsDoNotAlias(t *testing.T) {
	ctx := context.Background()
	s := New()

	log := models.NewDailyLog("u1", "2026-01-05", []models.HabitEntry{models.NewPendingEntry("Run")})
	_, err := s.UpsertLog(ctx, log)
	require.NoError(t, err)

	log.Habits[0] = log.Habits[0].WithStatus(models.StatusDone)
	got, err := s.GetLog(ctx, "u1", "2026-01-05")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, got.Habits[0].Status)
}

func TestGetMissing(t *testing.T) {
	s := New()
	_, err := s.GetLog(context.Background(), "u1", "2026-01-05")
	assert.True(t, errors.Is(err, storage.ErrNotFound))
	_, err = s.GetSettings(context.Background(), "u1")
	assert.True(t, errors.Is(err, storage.ErrNotFound))
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New().GetLog(ctx, "u1", "2026-01-05")
	assert.ErrorIs(t, err, context.Canceled)
}
