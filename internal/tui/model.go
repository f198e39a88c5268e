package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/daylog/internal/constants"
	"github.com/julianstephens/daylog/internal/identity"
	"github.com/julianstephens/daylog/internal/models"
	"github.com/julianstephens/daylog/internal/session"
	"github.com/julianstephens/daylog/internal/storage"
	"github.com/julianstephens/daylog/internal/streak"
)

// SessionChangedMsg is sent whenever the session's log or state changes.
type SessionChangedMsg struct{}

// AuthChangedMsg reports a sign-in or sign-out seen while the editor is open.
// The editor closes unless the session's user is still signed in.
type AuthChangedMsg struct {
	User    identity.User
	Present bool
}

type streakMsg struct {
	report streak.Report
	err    error
}

type selectedMsg struct {
	err error
}

type focus int

const (
	focusHabits focus = iota
	focusAffirmations
)

type field int

const (
	fieldNone field = iota
	fieldGoal
	fieldNote
	fieldWord
	fieldSong
)

func (f field) label() string {
	switch f {
	case fieldGoal:
		return "Goal"
	case fieldNote:
		return "Note"
	case fieldWord:
		return "Word"
	case fieldSong:
		return "Song"
	default:
		return ""
	}
}

type Model struct {
	session *session.Session
	logs    storage.LogStore

	keys  KeyMap
	help  help.Model
	input textinput.Model

	editing   field
	focus     focus
	cursor    int
	affCursor int
	streaks   streak.Report
	status    string

	width     int
	height    int
	quitting  bool
	signedOut bool
}

// NewModel builds the Today editor over an already loaded session. logs is
// read for streaks.
func NewModel(s *session.Session, logs storage.LogStore) Model {
	ti := textinput.New()
	ti.CharLimit = 280
	ti.Width = 60

	return Model{
		session: s,
		logs:    logs,
		keys:    DefaultKeyMap(),
		help:    help.New(),
		input:   ti,
	}
}

// SignedOut reports whether the editor closed because the user changed.
func (m Model) SignedOut() bool {
	return m.signedOut
}

func (m Model) Init() tea.Cmd {
	return m.loadStreaks()
}

// loadStreaks recomputes streaks from stored history with the open log
// substituted for its stored version.
func (m Model) loadStreaks() tea.Cmd {
	s := m.session
	logs := m.logs
	return func() tea.Msg {
		if logs == nil || s.State() != session.Ready {
			return nil
		}
		ctx, cancel := context.WithTimeout(context.Background(), constants.DefaultLoadTimeout)
		defer cancel()

		history, err := logs.ListLogs(ctx, s.User().ID)
		if err != nil {
			return streakMsg{err: err}
		}
		return streakMsg{report: streak.Analyze(withOpenLog(history, s), s.Config(), s.Today())}
	}
}

func withOpenLog(history []models.DailyLog, s *session.Session) []models.DailyLog {
	open := s.Log()
	if !s.Editability().Writable() {
		return streak.SortDescending(history)
	}
	out := make([]models.DailyLog, 0, len(history)+1)
	replaced := false
	for _, l := range history {
		if l.Date == open.Date {
			out = append(out, open)
			replaced = true
			continue
		}
		out = append(out, l)
	}
	if !replaced {
		out = append(out, open)
	}
	return streak.SortDescending(out)
}

func (m *Model) clampCursors() {
	if n := len(m.session.Entries()); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
	if n := len(m.session.Config().EffectiveAffirmations()); m.affCursor >= n {
		m.affCursor = max(n-1, 0)
	}
}

func (m Model) selected() (models.ResolvedEntry, bool) {
	entries := m.session.Entries()
	if m.cursor < 0 || m.cursor >= len(entries) {
		return models.ResolvedEntry{}, false
	}
	return entries[m.cursor], true
}

// writable reports whether edits on the open day are allowed and sets the
// status line when they are not.
func (m *Model) writable() bool {
	if m.session.State() != session.Ready {
		m.status = "Still loading…"
		return false
	}
	if !m.session.Editability().Writable() {
		m.status = "This day is read-only"
		return false
	}
	return true
}

func (m Model) currentValue(f field) string {
	log := m.session.Log()
	switch f {
	case fieldGoal:
		return models.StringValue(log.TodayGoal)
	case fieldNote:
		return models.StringValue(log.Note)
	case fieldWord:
		return models.StringValue(log.WordOfDay)
	case fieldSong:
		return models.StringValue(log.SongLink)
	default:
		return ""
	}
}

func (m Model) commit(f field, value string) error {
	switch f {
	case fieldGoal:
		return m.session.SetGoal(value)
	case fieldNote:
		return m.session.SetNote(value)
	case fieldWord:
		return m.session.SetWord(models.ParseWord(value))
	case fieldSong:
		return m.session.SetSong(models.ParseSong(value))
	default:
		return nil
	}
}
