package streak

import (
	"testing"

	"github.com/julianstephens/daylog/internal/models"
)

const today = "2026-01-10"

func day(date string, entries ...models.HabitEntry) models.DailyLog {
	return models.NewDailyLog("u1", date, entries)
}

func run(status models.HabitStatus) models.HabitEntry {
	return models.HabitEntry{Name: "Run"}.WithStatus(status)
}

func TestOverall(t *testing.T) {
	tests := []struct {
		name    string
		history []models.DailyLog
		want    int
	}{
		{name: "empty history", history: nil, want: 0},
		{
			name: "five consecutive days ending today",
			history: []models.DailyLog{
				day("2026-01-10"), day("2026-01-09"), day("2026-01-08"), day("2026-01-07"), day("2026-01-06"),
			},
			want: 5,
		},
		{
			name:    "broken chain counts only the recent run",
			history: []models.DailyLog{day("2026-01-10"), day("2026-01-07")},
			want:    1,
		},
		{
			name:    "run ending yesterday still counts",
			history: []models.DailyLog{day("2026-01-09"), day("2026-01-08")},
			want:    2,
		},
		{
			name:    "most recent log two days ago",
			history: []models.DailyLog{day("2026-01-08"), day("2026-01-07")},
			want:    0,
		},
		{
			name:    "participation counts without completed habits",
			history: []models.DailyLog{day("2026-01-10", run(models.StatusPending))},
			want:    1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overall(tt.history, today); got != tt.want {
				t.Errorf("Overall() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestOverallAcrossMonth(t *testing.T) {
	history := []models.DailyLog{day("2026-02-01"), day("2026-01-31"), day("2026-01-30")}
	if got := Overall(history, "2026-02-01"); got != 3 {
		t.Errorf("Overall() = %d, want 3", got)
	}
}

func TestForHabit(t *testing.T) {
	tests := []struct {
		name    string
		history []models.DailyLog
		want    int
	}{
		{name: "no history", want: 0},
		{
			name: "skip passes through",
			history: []models.DailyLog{
				day("2026-01-10", run(models.StatusDone)),
				day("2026-01-09", run(models.StatusSkipped)),
				day("2026-01-08", run(models.StatusDone)),
				day("2026-01-07", run(models.StatusDone)),
			},
			want: 3,
		},
		{
			name: "last activity three days ago is stale",
			history: []models.DailyLog{
				day("2026-01-07", run(models.StatusDone)),
				day("2026-01-06", run(models.StatusDone)),
				day("2026-01-05", run(models.StatusDone)),
			},
			want: 0,
		},
		{
			name: "pending today starts from yesterday",
			history: []models.DailyLog{
				day("2026-01-10", run(models.StatusPending)),
				day("2026-01-09", run(models.StatusDone)),
				day("2026-01-08", run(models.StatusDone)),
			},
			want: 2,
		},
		{
			name: "pending breaks the walk",
			history: []models.DailyLog{
				day("2026-01-10", run(models.StatusDone)),
				day("2026-01-09", run(models.StatusPending)),
				day("2026-01-08", run(models.StatusDone)),
			},
			want: 1,
		},
		{
			name: "missing entry breaks the walk",
			history: []models.DailyLog{
				day("2026-01-10", run(models.StatusDone)),
				day("2026-01-09"),
				day("2026-01-08", run(models.StatusDone)),
			},
			want: 1,
		},
		{
			name: "date gap breaks the walk",
			history: []models.DailyLog{
				day("2026-01-10", run(models.StatusDone)),
				day("2026-01-07", run(models.StatusDone)),
			},
			want: 1,
		},
		{
			name: "legacy done flag",
			history: []models.DailyLog{
				day("2026-01-10", models.HabitEntry{Name: "Run", Done: true}),
				day("2026-01-09", models.HabitEntry{Name: "Run", Done: true}),
			},
			want: 2,
		},
		{
			name: "only skips",
			history: []models.DailyLog{
				day("2026-01-10", run(models.StatusSkipped)),
				day("2026-01-09", run(models.StatusSkipped)),
			},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ForHabit(tt.history, "Run", today); got != tt.want {
				t.Errorf("ForHabit() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAnalyzeOnlyConfiguredHabits(t *testing.T) {
	history := []models.DailyLog{
		day("2026-01-10", run(models.StatusDone), models.HabitEntry{Name: "Old"}.WithStatus(models.StatusDone)),
	}
	cfg := models.HabitConfig{Habits: []models.HabitDefinition{{Name: "Read"}, {Name: "Run", Icon: "shoe"}}}

	r := Analyze(history, cfg, today)
	if r.Overall != 1 {
		t.Errorf("Overall = %d, want 1", r.Overall)
	}
	if len(r.Habits) != 2 || r.Habits[0].Name != "Read" || r.Habits[1].Name != "Run" {
		t.Fatalf("unexpected habits: %+v", r.Habits)
	}
	if h, _ := r.Habit("Run"); h.Days != 1 || h.Icon != "shoe" {
		t.Errorf("Run streak = %+v", h)
	}
	if _, ok := r.Habit("Old"); ok {
		t.Error("removed habit should not be reported")
	}
}

func TestSortDescending(t *testing.T) {
	in := []models.DailyLog{day("2026-01-08"), day("2026-01-10"), day("2026-01-09")}
	out := SortDescending(in)
	if out[0].Date != "2026-01-10" || out[2].Date != "2026-01-08" {
		t.Errorf("unexpected order: %s %s %s", out[0].Date, out[1].Date, out[2].Date)
	}
	if in[0].Date != "2026-01-08" {
		t.Error("SortDescending modified its input")
	}
}
