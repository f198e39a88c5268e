package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/julianstephens/daylog/internal/constants"
	"github.com/julianstephens/daylog/internal/models"
	"github.com/julianstephens/daylog/internal/session"
)

// StatusMark renders a habit status as a checkbox.
func StatusMark(status models.HabitStatus) string {
	switch status {
	case models.StatusDone:
		return "[x]"
	case models.StatusSkipped:
		return "[~]"
	default:
		return "[ ]"
	}
}

// WriteDay prints a full log.
func WriteDay(w io.Writer, log models.DailyLog, cfg models.HabitConfig, edit session.Editability) {
	header := log.Date
	switch {
	case edit == session.Locked:
		header += " (read-only)"
	case !log.Persisted():
		header += " (not saved yet)"
	}
	fmt.Fprintln(w, header)
	fmt.Fprintf(w, "Habits %d/%d\n", log.DoneCount(), len(log.Habits))

	for _, r := range cfg.Resolve(log.Habits) {
		line := fmt.Sprintf("  %s %s", StatusMark(r.Entry.EffectiveStatus()), r.Entry.Name)
		if r.Orphaned() {
			line += " (removed)"
		}
		fmt.Fprintln(w, line)
	}

	field := func(label string, value *string) {
		if v := models.StringValue(value); v != "" {
			fmt.Fprintf(w, "%s: %s\n", label, v)
		}
	}
	field("Goal", log.TodayGoal)
	field("Word", log.WordOfDay)
	field("Song", log.SongLink)
	if log.Mood != nil {
		fmt.Fprintf(w, "Mood: %d/%d\n", *log.Mood, constants.MaxMood)
	}
	if len(log.SelectedAffirmations) > 0 {
		fmt.Fprintln(w, "Affirmations:")
		for _, a := range log.SelectedAffirmations {
			fmt.Fprintf(w, "  - %s\n", a)
		}
	}
	field("Note", log.Note)
}

// Summary is the one-line form of a log used by the logs list.
func Summary(log models.DailyLog) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %d/%d habits", log.Date, log.DoneCount(), len(log.Habits))
	if log.CompletedAll() {
		b.WriteString("  ✓")
	}
	if log.Mood != nil {
		fmt.Fprintf(&b, "  mood %d", *log.Mood)
	}
	if word := models.ParseWord(models.StringValue(log.WordOfDay)).Word; word != "" {
		fmt.Fprintf(&b, "  %s", word)
	}
	return b.String()
}

// Calendar renders a Monday-first month grid. Days in active are marked
// with '*' and today with '>'.
func Calendar(month time.Time, active map[string]struct{}, today string) string {
	first := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	days := first.AddDate(0, 1, -1).Day()

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", first.Format("January 2006"))
	b.WriteString("  Mo  Tu  We  Th  Fr  Sa  Su\n")

	offset := (int(first.Weekday()) + 6) % 7
	b.WriteString(strings.Repeat("    ", offset))
	for d := 1; d <= days; d++ {
		date := first.AddDate(0, 0, d-1).Format(constants.DateFormat)
		pre, post := ' ', ' '
		if date == today {
			pre = '>'
		}
		if _, ok := active[date]; ok {
			post = '*'
		}
		fmt.Fprintf(&b, "%c%2d%c", pre, d, post)
		if (offset+d)%7 == 0 || d == days {
			b.WriteString("\n")
		}
	}
	return b.String()
}
