package models

import (
	"errors"
	"fmt"
)

// HabitStatus is the authoritative completion state of a habit on a given day.
type HabitStatus string

const (
	StatusDone    HabitStatus = "done"
	StatusPending HabitStatus = "pending"
	StatusSkipped HabitStatus = "skipped"
)

var ErrInvalidStatus = errors.New("invalid habit status")

// Valid reports whether s is one of the known statuses.
func (s HabitStatus) Valid() bool {
	switch s {
	case StatusDone, StatusPending, StatusSkipped:
		return true
	default:
		return false
	}
}

// ParseHabitStatus converts user input into a HabitStatus.
func ParseHabitStatus(s string) (HabitStatus, error) {
	status := HabitStatus(s)
	if !status.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return status, nil
}

// HabitDefinition is one entry of a user's habit configuration.
// Name is the unique key within a config.
type HabitDefinition struct {
	Name      string `json:"name"`
	Icon      string `json:"icon"`
	Skippable bool   `json:"skippable,omitempty"`
}

// HabitEntry is the per-day record of a habit embedded in a DailyLog.
// Done mirrors Status for older readers; Status wins when both are present.
type HabitEntry struct {
	Name   string      `json:"name"`
	Done   bool        `json:"done"`
	Status HabitStatus `json:"status,omitempty"`
}

// NewPendingEntry returns a fresh entry for the named habit.
func NewPendingEntry(name string) HabitEntry {
	return HabitEntry{Name: name, Done: false, Status: StatusPending}
}

// EffectiveStatus returns Status, falling back to Done for legacy entries.
func (e HabitEntry) EffectiveStatus() HabitStatus {
	if e.Status != "" {
		return e.Status
	}
	if e.Done {
		return StatusDone
	}
	return StatusPending
}

// WithStatus returns a copy of e with Status set and Done kept consistent.
func (e HabitEntry) WithStatus(status HabitStatus) HabitEntry {
	e.Status = status
	e.Done = status == StatusDone
	return e
}

// Normalize backfills Status from Done and re-derives Done from Status.
func (e HabitEntry) Normalize() HabitEntry {
	return e.WithStatus(e.EffectiveStatus())
}

// HabitConfig is the ordered list of habits and the affirmation list for a user.
type HabitConfig struct {
	Habits       []HabitDefinition `json:"custom_habits"`
	Affirmations []string          `json:"custom_affirmations"`
}

// Clone returns a deep copy of the config.
func (c HabitConfig) Clone() HabitConfig {
	out := HabitConfig{}
	if c.Habits != nil {
		out.Habits = append([]HabitDefinition(nil), c.Habits...)
	}
	if c.Affirmations != nil {
		out.Affirmations = append([]string(nil), c.Affirmations...)
	}
	return out
}

// Habit looks up a definition by name.
func (c HabitConfig) Habit(name string) (HabitDefinition, bool) {
	for _, h := range c.Habits {
		if h.Name == name {
			return h, true
		}
	}
	return HabitDefinition{}, false
}

// IndexOf returns the position of the named habit or -1.
func (c HabitConfig) IndexOf(name string) int {
	for i, h := range c.Habits {
		if h.Name == name {
			return i
		}
	}
	return -1
}

// ResolvedEntry pairs a HabitEntry with its definition when one still exists.
type ResolvedEntry struct {
	Entry      HabitEntry
	definition *HabitDefinition
}

// Definition returns the entry's current habit definition. ok is false for
// orphaned entries whose habit was removed from the config.
func (r ResolvedEntry) Definition() (def HabitDefinition, ok bool) {
	if r.definition == nil {
		return HabitDefinition{}, false
	}
	return *r.definition, true
}

// Orphaned reports whether the entry no longer has a definition.
func (r ResolvedEntry) Orphaned() bool {
	return r.definition == nil
}

// Resolve attaches definitions to entries, preserving entry order.
func (c HabitConfig) Resolve(entries []HabitEntry) []ResolvedEntry {
	out := make([]ResolvedEntry, 0, len(entries))
	for _, e := range entries {
		r := ResolvedEntry{Entry: e}
		if def, ok := c.Habit(e.Name); ok {
			r.definition = &def
		}
		out = append(out, r)
	}
	return out
}
