// Package habitconfig owns a user's habit configuration and reconciles daily
// habit entries against it.
package habitconfig

import "github.com/julianstephens/daylog/internal/models"

// MergeEntries reconciles a day's habit entries with the current config.
// Existing entries keep their position and status (legacy entries get a
// status backfilled from done). Habits in the config without an entry are
// appended as pending, in config order. Entries for removed habits are kept.
func MergeEntries(entries []models.HabitEntry, config models.HabitConfig) []models.HabitEntry {
	out := make([]models.HabitEntry, 0, len(entries)+len(config.Habits))
	present := make(map[string]struct{}, len(entries))

	for _, e := range entries {
		out = append(out, e.Normalize())
		present[e.Name] = struct{}{}
	}
	for _, h := range config.Habits {
		if _, ok := present[h.Name]; ok {
			continue
		}
		out = append(out, models.NewPendingEntry(h.Name))
		present[h.Name] = struct{}{}
	}
	return out
}

// NewEntries returns one pending entry per configured habit.
func NewEntries(config models.HabitConfig) []models.HabitEntry {
	return MergeEntries(nil, config)
}

// MissingHabits lists configured habits that have no entry, in config order.
func MissingHabits(entries []models.HabitEntry, config models.HabitConfig) []string {
	present := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		present[e.Name] = struct{}{}
	}
	var missing []string
	for _, h := range config.Habits {
		if _, ok := present[h.Name]; !ok {
			missing = append(missing, h.Name)
			present[h.Name] = struct{}{}
		}
	}
	return missing
}
