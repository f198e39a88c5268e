package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/daylog/internal/constants"
	"github.com/julianstephens/daylog/internal/models"
	"github.com/julianstephens/daylog/internal/session"
	"github.com/julianstephens/daylog/internal/utils"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	sections := []string{m.viewHeader()}
	if m.session.State() != session.Ready {
		sections = append(sections, mutedStyle.Render("Loading…"))
	} else {
		sections = append(sections,
			m.viewHabits(),
			m.viewAffirmations(),
			m.viewDetails(),
		)
	}
	if m.editing != fieldNone {
		sections = append(sections, "", labelStyle.Render(m.editing.label())+m.input.View())
	}
	if m.status != "" {
		sections = append(sections, "", warningStyle.Render(m.status))
	}
	sections = append(sections, "", m.help.View(m.keys))

	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m Model) viewHeader() string {
	date := m.session.SelectedDate()
	label := date
	if t, err := utils.ParseDate(date); err == nil {
		label = t.Format("Monday, Jan 2 2006")
	}
	if date == m.session.Today() {
		label += " (today)"
	}

	parts := []string{titleStyle.Render("daylog"), dateStyle.Render(label)}
	if badge := m.badge(); badge != "" {
		parts = append(parts, badgeStyle.Render(badge))
	}
	if m.streaks.Overall > 0 {
		parts = append(parts, streakStyle.Render(fmt.Sprintf(" 🔥 %d day streak", m.streaks.Overall)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m Model) badge() string {
	switch {
	case m.session.State() != session.Ready:
		return ""
	case !m.session.Editability().Writable():
		return "read-only"
	case m.session.Pending():
		return "saving…"
	case !m.session.RecordExists():
		return "not saved yet"
	default:
		return ""
	}
}

func (m Model) viewHabits() string {
	var b strings.Builder
	log := m.session.Log()
	b.WriteString(sectionStyle.Render(fmt.Sprintf("Habits %d/%d", log.DoneCount(), len(log.Habits))))
	b.WriteString("\n")

	entries := m.session.Entries()
	if len(entries) == 0 {
		b.WriteString(mutedStyle.Render("  No habits configured. Add one with 'daylog habits add'."))
		return b.String()
	}

	for i, r := range entries {
		prefix := "  "
		if m.focus == focusHabits && i == m.cursor {
			prefix = cursorStyle.Render("> ")
		}

		line := fmt.Sprintf("%s %s", statusIcon(r.Entry.EffectiveStatus()), r.Entry.Name)
		if def, ok := r.Definition(); ok && def.Icon != "" {
			line += mutedStyle.Render(" · " + def.Icon)
		}
		if r.Orphaned() {
			line += mutedStyle.Render(" (removed)")
		}
		if hs, ok := m.streaks.Habit(r.Entry.Name); ok && hs.Days > 0 {
			line += streakStyle.Render(fmt.Sprintf("  %d🔥", hs.Days))
		}
		if r.Entry.EffectiveStatus() == models.StatusDone {
			line = doneStyle.Render(line)
		}

		b.WriteString(prefix + line)
		if i < len(entries)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func statusIcon(s models.HabitStatus) string {
	switch s {
	case models.StatusDone:
		return "✓"
	case models.StatusSkipped:
		return "–"
	default:
		return "○"
	}
}

func (m Model) viewAffirmations() string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("Affirmations"))
	b.WriteString("\n")

	log := m.session.Log()
	affs := m.session.Config().EffectiveAffirmations()
	for i, a := range affs {
		prefix := "  "
		if m.focus == focusAffirmations && i == m.affCursor {
			prefix = cursorStyle.Render("> ")
		}
		mark := "[ ]"
		if log.HasAffirmation(a) {
			mark = doneStyle.Render("[x]")
		}
		b.WriteString(prefix + mark + " " + a)
		if i < len(affs)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m Model) viewDetails() string {
	log := m.session.Log()
	rows := []string{sectionStyle.Render("Reflection")}
	row := func(label, value string) {
		if value == "" {
			value = mutedStyle.Render("-")
		}
		rows = append(rows, labelStyle.Render(label)+value)
	}

	row("Goal", models.StringValue(log.TodayGoal))
	row("Word", models.StringValue(log.WordOfDay))
	row("Song", models.StringValue(log.SongLink))
	row("Mood", moodBar(log.Mood))
	row("Note", models.StringValue(log.Note))
	return strings.Join(rows, "\n")
}

func moodBar(mood *int) string {
	if mood == nil {
		return ""
	}
	filled := *mood - constants.MinMood + 1
	total := constants.MaxMood - constants.MinMood + 1
	return strings.Repeat("●", filled) + strings.Repeat("○", total-filled) + fmt.Sprintf(" %d", *mood)
}
