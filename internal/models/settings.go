package models

import (
	"time"

	"github.com/julianstephens/daylog/internal/constants"
)

// UserSettings is the persisted settings record for one user.
type UserSettings struct {
	UserID    string      `json:"id"`
	Email     string      `json:"email,omitempty"`
	Config    HabitConfig `json:"config"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// EffectiveAffirmations returns the user's affirmations, or the defaults when none are configured.
func (c HabitConfig) EffectiveAffirmations() []string {
	if len(c.Affirmations) > 0 {
		return c.Affirmations
	}
	return constants.DefaultAffirmations
}
