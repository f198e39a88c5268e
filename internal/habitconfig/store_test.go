package habitconfig

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/daylog/internal/constants"
	"github.com/julianstephens/daylog/internal/models"
	"github.com/julianstephens/daylog/internal/storage/memory"
)

type failingBackend struct {
	*memory.Store
	fail bool
}

func (f *failingBackend) SaveSettings(ctx context.Context, s models.UserSettings) error {
	if f.fail {
		return errors.New("database is locked")
	}
	return f.Store.SaveSettings(ctx, s)
}

func newLoadedStore(t *testing.T) (*Store, *failingBackend) {
	t.Helper()
	backend := &failingBackend{Store: memory.New()}
	s := NewStore(backend)
	_, err := s.Load(context.Background(), "u1", "me@example.com")
	require.NoError(t, err)
	return s, backend
}

func names(cfg models.HabitConfig) []string {
	out := []string{}
	for _, h := range cfg.Habits {
		out = append(out, h.Name)
	}
	return out
}

func TestLoadWithoutSettingsStartsEmpty(t *testing.T) {
	s, _ := newLoadedStore(t)
	assert.True(t, s.Loaded())
	assert.Empty(t, s.Config().Habits)
	assert.Equal(t, "me@example.com", s.Settings().Email)
}

func TestEditsPersist(t *testing.T) {
	ctx := context.Background()
	s, backend := newLoadedStore(t)

	require.NoError(t, s.AddHabit(ctx, " Run ", "", false))
	require.NoError(t, s.AddHabit(ctx, "Read", "book", true))
	require.NoError(t, s.AddHabit(ctx, "Stretch", "yoga", false))
	require.NoError(t, s.MoveHabit(ctx, "Stretch", 0))
	require.NoError(t, s.RenameHabit(ctx, "Read", "Read 20 pages"))
	require.NoError(t, s.SetSkippable(ctx, "Run", true))
	require.NoError(t, s.SetIcon(ctx, "Run", "shoe"))
	require.NoError(t, s.RemoveHabit(ctx, "Stretch"))

	assert.Equal(t, []string{"Run", "Read 20 pages"}, names(s.Config()))

	persisted, err := backend.GetSettings(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, s.Config(), persisted.Config)

	run, ok := persisted.Config.Habit("Run")
	require.True(t, ok)
	assert.True(t, run.Skippable)
	assert.Equal(t, "shoe", run.Icon)

	renamed, ok := persisted.Config.Habit("Read 20 pages")
	require.True(t, ok)
	assert.True(t, renamed.Skippable, "rename keeps the definition's other fields")
}

func TestAddHabitDefaults(t *testing.T) {
	s, _ := newLoadedStore(t)
	require.NoError(t, s.AddHabit(context.Background(), "Run", " ", false))
	h, _ := s.Config().Habit("Run")
	assert.Equal(t, constants.DefaultHabitIcon, h.Icon)
}

func TestValidation(t *testing.T) {
	ctx := context.Background()
	s, _ := newLoadedStore(t)
	require.NoError(t, s.AddHabit(ctx, "Run", "", false))
	require.NoError(t, s.AddHabit(ctx, "Read", "", false))

	assert.ErrorIs(t, s.AddHabit(ctx, "Run", "", false), ErrDuplicateHabit)
	assert.ErrorIs(t, s.AddHabit(ctx, "   ", "", false), ErrEmptyName)
	assert.ErrorIs(t, s.RemoveHabit(ctx, "Swim"), ErrHabitNotFound)
	assert.ErrorIs(t, s.RenameHabit(ctx, "Run", "Read"), ErrDuplicateHabit)
	assert.ErrorIs(t, s.MoveHabit(ctx, "Swim", 0), ErrHabitNotFound)
}

func TestMoveHabitClamps(t *testing.T) {
	ctx := context.Background()
	s, _ := newLoadedStore(t)
	for _, n := range []string{"A", "B", "C"} {
		require.NoError(t, s.AddHabit(ctx, n, "", false))
	}

	require.NoError(t, s.MoveHabit(ctx, "A", 99))
	assert.Equal(t, []string{"B", "C", "A"}, names(s.Config()))

	require.NoError(t, s.MoveHabit(ctx, "A", -5))
	assert.Equal(t, []string{"A", "B", "C"}, names(s.Config()))
}

func TestFailedSaveLeavesMemoryUntouched(t *testing.T) {
	ctx := context.Background()
	s, backend := newLoadedStore(t)
	require.NoError(t, s.AddHabit(ctx, "Run", "", false))

	backend.fail = true
	require.Error(t, s.AddHabit(ctx, "Read", "", false))
	assert.Equal(t, []string{"Run"}, names(s.Config()))
}

func TestAffirmations(t *testing.T) {
	ctx := context.Background()
	s, _ := newLoadedStore(t)

	require.NoError(t, s.AddAffirmation(ctx, "I show up."))
	cfg := s.Config()
	assert.Len(t, cfg.Affirmations, len(constants.DefaultAffirmations)+1)
	assert.Equal(t, "I show up.", cfg.Affirmations[len(cfg.Affirmations)-1])

	require.Error(t, s.AddAffirmation(ctx, "I show up."))
	require.NoError(t, s.RemoveAffirmation(ctx, "Action over anxiety."))
	assert.NotContains(t, s.Config().Affirmations, "Action over anxiety.")
	require.Error(t, s.RemoveAffirmation(ctx, "never added"))
}

func TestApply(t *testing.T) {
	s, _ := newLoadedStore(t)

	assert.False(t, s.Apply(models.UserSettings{UserID: "someone-else", Config: config("X")}))
	assert.Empty(t, s.Config().Habits)

	assert.True(t, s.Apply(models.UserSettings{UserID: "u1", Config: config("Run")}))
	assert.Equal(t, []string{"Run"}, names(s.Config()))
}

func TestEditBeforeLoad(t *testing.T) {
	s := NewStore(memory.New())
	assert.Error(t, s.AddHabit(context.Background(), "Run", "", false))
	assert.False(t, s.Apply(models.UserSettings{UserID: "u1"}))
}
