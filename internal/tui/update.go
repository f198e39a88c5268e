package tui

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/daylog/internal/session"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case SessionChangedMsg:
		m.clampCursors()
		return m, m.loadStreaks()

	case AuthChangedMsg:
		if msg.Present && msg.User.ID == m.session.User().ID {
			return m, nil
		}
		m.signedOut = true
		m.quitting = true
		return m, tea.Quit

	case streakMsg:
		if msg.err != nil {
			m.status = "Streaks unavailable: " + msg.err.Error()
		} else {
			m.streaks = msg.report
		}

	case selectedMsg:
		switch {
		case errors.Is(msg.err, session.ErrNavigationDenied):
			m.status = msg.err.Error()
		case msg.err != nil:
			m.status = "Failed to load day: " + msg.err.Error()
		default:
			m.status = ""
			m.cursor, m.affCursor = 0, 0
		}

	case tea.KeyMsg:
		if m.editing != fieldNone {
			return m.updateEditing(msg)
		}
		return m.updateKeys(msg)
	}

	return m, nil
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Tab):
		if m.focus == focusHabits {
			m.focus = focusAffirmations
		} else {
			m.focus = focusHabits
		}
	case key.Matches(msg, m.keys.Up):
		m.move(-1)
	case key.Matches(msg, m.keys.Down):
		m.move(1)
	case key.Matches(msg, m.keys.Toggle):
		m.toggle()
	case key.Matches(msg, m.keys.Skip):
		if e, ok := m.selected(); ok && m.focus == focusHabits && m.writable() {
			m.setStatus(m.session.SkipHabit(e.Entry.Name))
		}
	case key.Matches(msg, m.keys.PrevDay):
		return m, m.navigate(-1)
	case key.Matches(msg, m.keys.NextDay):
		return m, m.navigate(1)
	case key.Matches(msg, m.keys.Today):
		return m, m.selectDate(m.session.Today())
	case key.Matches(msg, m.keys.Mood):
		if m.writable() {
			m.setStatus(m.session.SetMood(int(msg.String()[0] - '0')))
		}
	case key.Matches(msg, m.keys.ClearMood):
		if m.writable() {
			m.setStatus(m.session.ClearMood())
		}
	case key.Matches(msg, m.keys.Goal):
		return m.startEditing(fieldGoal)
	case key.Matches(msg, m.keys.Note):
		return m.startEditing(fieldNote)
	case key.Matches(msg, m.keys.Word):
		return m.startEditing(fieldWord)
	case key.Matches(msg, m.keys.Song):
		return m.startEditing(fieldSong)
	}
	return m, nil
}

func (m Model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.editing = fieldNone
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		f := m.editing
		m.editing = fieldNone
		m.input.Blur()
		m.setStatus(m.commit(f, m.input.Value()))
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) startEditing(f field) (tea.Model, tea.Cmd) {
	if !m.writable() {
		return m, nil
	}
	m.editing = f
	m.status = ""
	m.input.Placeholder = placeholder(f)
	m.input.SetValue(m.currentValue(f))
	m.input.CursorEnd()
	focusCmd := m.input.Focus()
	return m, tea.Batch(focusCmd, textinput.Blink)
}

func placeholder(f field) string {
	switch f {
	case fieldWord:
		return "word - definition"
	case fieldSong:
		return "artist - title"
	default:
		return ""
	}
}

func (m *Model) move(delta int) {
	if m.focus == focusHabits {
		n := len(m.session.Entries())
		m.cursor = clamp(m.cursor+delta, n)
		return
	}
	n := len(m.session.Config().EffectiveAffirmations())
	m.affCursor = clamp(m.affCursor+delta, n)
}

func clamp(i, n int) int {
	if n == 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

func (m *Model) toggle() {
	if !m.writable() {
		return
	}
	if m.focus == focusHabits {
		if e, ok := m.selected(); ok {
			m.setStatus(m.session.ToggleHabit(e.Entry.Name))
		}
		return
	}
	affs := m.session.Config().EffectiveAffirmations()
	if m.affCursor < len(affs) {
		m.setStatus(m.session.ToggleAffirmation(affs[m.affCursor]))
	}
}

func (m *Model) setStatus(err error) {
	if err != nil {
		m.status = err.Error()
		return
	}
	m.status = ""
}

func (m Model) navigate(delta int) tea.Cmd {
	s := m.session
	return func() tea.Msg {
		return selectedMsg{err: s.Navigate(context.Background(), delta)}
	}
}

func (m Model) selectDate(date string) tea.Cmd {
	s := m.session
	return func() tea.Msg {
		return selectedMsg{err: s.Select(context.Background(), date)}
	}
}
