package models

import (
	"errors"
	"testing"
)

func TestLogPatch_Apply(t *testing.T) {
	log := NewDailyLog("u1", "2026-01-05", []HabitEntry{NewPendingEntry("Run")})

	patch := LogPatch{
		TodayGoal:            Ptr("Ship it"),
		Mood:                 Ptr(3),
		SelectedAffirmations: []string{"A", "B", "A"},
		Habits:               []HabitEntry{{Name: "Run", Status: StatusDone}},
	}
	if err := patch.Apply(&log); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	if StringValue(log.TodayGoal) != "Ship it" {
		t.Errorf("goal = %q", StringValue(log.TodayGoal))
	}
	if log.Mood == nil || *log.Mood != 3 {
		t.Errorf("mood = %v", log.Mood)
	}
	if len(log.SelectedAffirmations) != 2 {
		t.Errorf("affirmations not deduplicated: %v", log.SelectedAffirmations)
	}
	if !log.Habits[0].Done {
		t.Error("done flag not derived from status")
	}
}

func TestLogPatch_ClearFields(t *testing.T) {
	log := NewDailyLog("u1", "2026-01-05", nil)
	log.Note = Ptr("old")
	log.Mood = Ptr(2)

	if err := (LogPatch{Note: Ptr(""), ClearMood: true}).Apply(&log); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if log.Note != nil {
		t.Errorf("expected note cleared, got %q", *log.Note)
	}
	if log.Mood != nil {
		t.Errorf("expected mood cleared, got %d", *log.Mood)
	}
}

func TestLogPatch_Validate(t *testing.T) {
	tests := []struct {
		name    string
		patch   LogPatch
		wantErr error
	}{
		{name: "mood too high", patch: LogPatch{Mood: Ptr(5)}, wantErr: ErrInvalidMood},
		{name: "mood negative", patch: LogPatch{Mood: Ptr(-1)}, wantErr: ErrInvalidMood},
		{name: "bad status", patch: LogPatch{Habits: []HabitEntry{{Name: "x", Status: "maybe"}}}, wantErr: ErrInvalidStatus},
		{name: "valid", patch: LogPatch{Mood: Ptr(0)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.patch.Validate()
			if tt.wantErr == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLogPatch_InvalidLeavesLogUntouched(t *testing.T) {
	log := NewDailyLog("u1", "2026-01-05", nil)
	if err := (LogPatch{TodayGoal: Ptr("x"), Mood: Ptr(9)}).Apply(&log); err == nil {
		t.Fatal("expected error")
	}
	if log.TodayGoal != nil {
		t.Error("invalid patch partially applied")
	}
}

func TestDailyLog_CloneIsDeep(t *testing.T) {
	log := NewDailyLog("u1", "2026-01-05", []HabitEntry{NewPendingEntry("Run")})
	log.Note = Ptr("note")
	clone := log.Clone()
	clone.Habits[0].Status = StatusDone
	*clone.Note = "changed"

	if log.Habits[0].Status != StatusPending || *log.Note != "note" {
		t.Error("Clone() aliases the original")
	}
}

func TestDailyLog_Summary(t *testing.T) {
	log := NewDailyLog("u1", "2026-01-05", []HabitEntry{
		NewPendingEntry("Run").WithStatus(StatusDone),
		{Name: "Read", Done: true},
	})
	if log.DoneCount() != 2 {
		t.Errorf("DoneCount() = %d, want 2", log.DoneCount())
	}
	if !log.CompletedAll() {
		t.Error("CompletedAll() = false")
	}
	if (DailyLog{}).CompletedAll() {
		t.Error("empty log should not count as completed")
	}
}
