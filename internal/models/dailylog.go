package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/daylog/internal/constants"
)

var ErrInvalidMood = errors.New("mood must be between 0 and 4")

// DailyLog is one user's record for one calendar day. (UserID, Date) is the natural key.
type DailyLog struct {
	ID                   string       `json:"id,omitempty"` // empty until first persisted
	UserID               string       `json:"user_id"`
	Date                 string       `json:"date"` // YYYY-MM-DD format
	Habits               []HabitEntry `json:"habits"`
	WordOfDay            *string      `json:"word_of_day"`
	TodayGoal            *string      `json:"today_goal"`
	SelectedAffirmations []string     `json:"selected_affirmations"`
	SongLink             *string      `json:"song_link"`
	Note                 *string      `json:"note"`
	Mood                 *int         `json:"mood"`
	CreatedAt            time.Time    `json:"created_at"`
	UpdatedAt            time.Time    `json:"updated_at"`
}

// NewDailyLog synthesizes an unsaved log for date with the given habit entries.
func NewDailyLog(userID, date string, habits []HabitEntry) DailyLog {
	if habits == nil {
		habits = []HabitEntry{}
	}
	return DailyLog{
		UserID:               userID,
		Date:                 date,
		Habits:               habits,
		SelectedAffirmations: []string{},
	}
}

// Persisted reports whether the log has been written to the store.
func (l DailyLog) Persisted() bool {
	return l.ID != ""
}

// Clone returns a deep copy so callers cannot alias session state.
func (l DailyLog) Clone() DailyLog {
	out := l
	out.Habits = append([]HabitEntry{}, l.Habits...)
	out.SelectedAffirmations = append([]string{}, l.SelectedAffirmations...)
	out.WordOfDay = cloneString(l.WordOfDay)
	out.TodayGoal = cloneString(l.TodayGoal)
	out.SongLink = cloneString(l.SongLink)
	out.Note = cloneString(l.Note)
	if l.Mood != nil {
		m := *l.Mood
		out.Mood = &m
	}
	return out
}

// Entry returns the habit entry with the given name.
func (l DailyLog) Entry(name string) (HabitEntry, bool) {
	for _, e := range l.Habits {
		if e.Name == name {
			return e, true
		}
	}
	return HabitEntry{}, false
}

// DoneCount returns how many habits are done on this day.
func (l DailyLog) DoneCount() int {
	n := 0
	for _, e := range l.Habits {
		if e.EffectiveStatus() == StatusDone {
			n++
		}
	}
	return n
}

// CompletedAll reports whether every habit entry is done. Empty logs never count.
func (l DailyLog) CompletedAll() bool {
	return len(l.Habits) > 0 && l.DoneCount() == len(l.Habits)
}

// HasAffirmation reports whether text is selected. Membership is exact text match.
func (l DailyLog) HasAffirmation(text string) bool {
	for _, a := range l.SelectedAffirmations {
		if a == text {
			return true
		}
	}
	return false
}

// LogPatch is a partial update to a DailyLog. Nil fields are left unchanged.
// A pointer to an empty string clears a nullable text field.
type LogPatch struct {
	Habits               []HabitEntry
	WordOfDay            *string
	TodayGoal            *string
	SelectedAffirmations []string
	SongLink             *string
	Note                 *string
	Mood                 *int
	ClearMood            bool
}

// Validate checks the patch without applying it.
func (p LogPatch) Validate() error {
	if p.Mood != nil && (*p.Mood < constants.MinMood || *p.Mood > constants.MaxMood) {
		return fmt.Errorf("%w: got %d", ErrInvalidMood, *p.Mood)
	}
	for _, e := range p.Habits {
		if e.Status != "" && !e.Status.Valid() {
			return fmt.Errorf("%w: %q for habit %q", ErrInvalidStatus, e.Status, e.Name)
		}
	}
	return nil
}

// Apply validates the patch and merges it into l. Habit entries are normalized
// so Done always matches Status.
func (p LogPatch) Apply(l *DailyLog) error {
	if err := p.Validate(); err != nil {
		return err
	}

	if p.Habits != nil {
		habits := make([]HabitEntry, len(p.Habits))
		for i, e := range p.Habits {
			habits[i] = e.Normalize()
		}
		l.Habits = habits
	}
	if p.WordOfDay != nil {
		l.WordOfDay = nullable(*p.WordOfDay)
	}
	if p.TodayGoal != nil {
		l.TodayGoal = nullable(*p.TodayGoal)
	}
	if p.SelectedAffirmations != nil {
		l.SelectedAffirmations = dedupe(p.SelectedAffirmations)
	}
	if p.SongLink != nil {
		l.SongLink = nullable(*p.SongLink)
	}
	if p.Note != nil {
		l.Note = nullable(*p.Note)
	}
	if p.ClearMood {
		l.Mood = nil
	} else if p.Mood != nil {
		m := *p.Mood
		l.Mood = &m
	}
	return nil
}

// StringValue dereferences a nullable string.
func StringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
