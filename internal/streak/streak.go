// Package streak derives consecutive-day counts from a user's log history.
// History is expected most recent first; see SortDescending.
package streak

import (
	"sort"

	"github.com/julianstephens/daylog/internal/models"
	"github.com/julianstephens/daylog/internal/utils"
)

type HabitStreak struct {
	Name string
	Icon string
	Days int
}

type Report struct {
	Overall int
	Habits  []HabitStreak
}

// SortDescending returns a copy of history ordered most recent first.
func SortDescending(history []models.DailyLog) []models.DailyLog {
	out := append([]models.DailyLog(nil), history...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out
}

// gap returns the number of calendar days from older to newer. Unparseable
// dates count as a break.
func gap(older, newer string) int {
	d, err := utils.DaysBetween(older, newer)
	if err != nil {
		return 2
	}
	return d
}

// Overall counts consecutive days with any log, ending today or yesterday.
func Overall(history []models.DailyLog, today string) int {
	if len(history) == 0 {
		return 0
	}
	if gap(history[0].Date, today) > 1 {
		return 0
	}

	count := 1
	for i := 1; i < len(history); i++ {
		if gap(history[i].Date, history[i-1].Date) > 1 {
			break
		}
		count++
	}
	return count
}

// ForHabit counts consecutive done days for one habit, starting from its
// most recent done-or-skipped day. Skipped days neither count nor break the
// run; pending or missing entries do.
func ForHabit(history []models.DailyLog, name, today string) int {
	start := -1
	for i, l := range history {
		if e, ok := l.Entry(name); ok {
			if s := e.EffectiveStatus(); s == models.StatusDone || s == models.StatusSkipped {
				start = i
				break
			}
		}
	}
	if start < 0 {
		return 0
	}
	if gap(history[start].Date, today) > 1 {
		return 0
	}

	count := 0
	for i := start; i < len(history); i++ {
		if i > start && gap(history[i].Date, history[i-1].Date) > 1 {
			break
		}
		e, ok := history[i].Entry(name)
		if !ok {
			break
		}
		switch e.EffectiveStatus() {
		case models.StatusDone:
			count++
		case models.StatusSkipped:
		default:
			return count
		}
	}
	return count
}

// Analyze computes the overall streak and one streak per configured habit,
// in config order. Habits no longer configured are not reported.
func Analyze(history []models.DailyLog, config models.HabitConfig, today string) Report {
	r := Report{
		Overall: Overall(history, today),
		Habits:  make([]HabitStreak, 0, len(config.Habits)),
	}
	for _, h := range config.Habits {
		r.Habits = append(r.Habits, HabitStreak{
			Name: h.Name,
			Icon: h.Icon,
			Days: ForHabit(history, h.Name, today),
		})
	}
	return r
}

// Habit returns the streak for name from the report.
func (r Report) Habit(name string) (HabitStreak, bool) {
	for _, h := range r.Habits {
		if h.Name == name {
			return h, true
		}
	}
	return HabitStreak{}, false
}
