package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/daylog/internal/models"
	"github.com/julianstephens/daylog/internal/storage"
)

const logColumns = `id, user_id, date, habits, word_of_day, today_goal, selected_affirmations,
	song_link, note, mood, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLog(row rowScanner) (models.DailyLog, error) {
	var l models.DailyLog
	var habits, affirmations string
	var word, goal, song, note sql.NullString
	var mood sql.NullInt64
	var createdAt, updatedAt string

	err := row.Scan(&l.ID, &l.UserID, &l.Date, &habits, &word, &goal, &affirmations,
		&song, &note, &mood, &createdAt, &updatedAt)
	if err != nil {
		return models.DailyLog{}, err
	}

	if err := json.Unmarshal([]byte(habits), &l.Habits); err != nil {
		return models.DailyLog{}, fmt.Errorf("failed to decode habits for %s: %w", l.Date, err)
	}
	if err := json.Unmarshal([]byte(affirmations), &l.SelectedAffirmations); err != nil {
		return models.DailyLog{}, fmt.Errorf("failed to decode affirmations for %s: %w", l.Date, err)
	}
	if l.Habits == nil {
		l.Habits = []models.HabitEntry{}
	}
	if l.SelectedAffirmations == nil {
		l.SelectedAffirmations = []string{}
	}

	l.WordOfDay = fromNullString(word)
	l.TodayGoal = fromNullString(goal)
	l.SongLink = fromNullString(song)
	l.Note = fromNullString(note)
	if mood.Valid {
		m := int(mood.Int64)
		l.Mood = &m
	}

	l.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return models.DailyLog{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	l.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt)
	if err != nil {
		return models.DailyLog{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	return l, nil
}

func (s *Store) GetLog(ctx context.Context, userID, date string) (models.DailyLog, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+logColumns+`
		FROM daily_logs WHERE user_id = ? AND date = ?`, userID, date)

	l, err := scanLog(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.DailyLog{}, fmt.Errorf("log for %s: %w", date, storage.ErrNotFound)
		}
		return models.DailyLog{}, err
	}
	return l, nil
}

func (s *Store) ListLogDates(ctx context.Context, userID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT date FROM daily_logs WHERE user_id = ? ORDER BY date", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	dates := []string{}
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}

func (s *Store) ListLogs(ctx context.Context, userID string) ([]models.DailyLog, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+logColumns+`
		FROM daily_logs WHERE user_id = ? ORDER BY date DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := []models.DailyLog{}
	for rows.Next() {
		l, err := scanLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

func (s *Store) UpsertLog(ctx context.Context, log models.DailyLog) (models.DailyLog, error) {
	habits, err := json.Marshal(nonNilHabits(log.Habits))
	if err != nil {
		return models.DailyLog{}, fmt.Errorf("failed to encode habits: %w", err)
	}
	affirmations, err := json.Marshal(nonNilStrings(log.SelectedAffirmations))
	if err != nil {
		return models.DailyLog{}, fmt.Errorf("failed to encode affirmations: %w", err)
	}

	id := log.ID
	if id == "" {
		id = uuid.NewString()
	}
	now := s.timestamp()

	var mood sql.NullInt64
	if log.Mood != nil {
		mood = sql.NullInt64{Int64: int64(*log.Mood), Valid: true}
	}

	// The existing row keeps its id when a fresh id loses the (user_id, date) conflict.
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO daily_logs (id, user_id, date, habits, word_of_day, today_goal, selected_affirmations,
			song_link, note, mood, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, date) DO UPDATE SET
			habits = excluded.habits,
			word_of_day = excluded.word_of_day,
			today_goal = excluded.today_goal,
			selected_affirmations = excluded.selected_affirmations,
			song_link = excluded.song_link,
			note = excluded.note,
			mood = excluded.mood,
			updated_at = excluded.updated_at
		RETURNING `+logColumns,
		id, log.UserID, log.Date, string(habits), toNullString(log.WordOfDay), toNullString(log.TodayGoal),
		string(affirmations), toNullString(log.SongLink), toNullString(log.Note), mood, now, now)

	saved, err := scanLog(row)
	if err != nil {
		return models.DailyLog{}, fmt.Errorf("failed to upsert log for %s: %w", log.Date, err)
	}
	return saved, nil
}

func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func fromNullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}

func nonNilHabits(h []models.HabitEntry) []models.HabitEntry {
	if h == nil {
		return []models.HabitEntry{}
	}
	return h
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
