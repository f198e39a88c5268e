package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/julianstephens/daylog/internal/models"
	"github.com/julianstephens/daylog/internal/storage"
)

const logColumns = `id, user_id, to_char(date, 'YYYY-MM-DD'), habits, word_of_day, today_goal,
	selected_affirmations, song_link, note, mood, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLog(row rowScanner) (models.DailyLog, error) {
	var l models.DailyLog
	var habits, affirmations []byte
	var word, goal, song, note sql.NullString
	var mood sql.NullInt64

	err := row.Scan(&l.ID, &l.UserID, &l.Date, &habits, &word, &goal, &affirmations,
		&song, &note, &mood, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return models.DailyLog{}, err
	}

	if err := json.Unmarshal(habits, &l.Habits); err != nil {
		return models.DailyLog{}, fmt.Errorf("failed to decode habits for %s: %w", l.Date, err)
	}
	if err := json.Unmarshal(affirmations, &l.SelectedAffirmations); err != nil {
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
	return l, nil
}

func (s *Store) GetLog(ctx context.Context, userID, date string) (models.DailyLog, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+logColumns+`
		FROM daily_logs WHERE user_id = $1 AND date = $2`, userID, date)

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
		"SELECT to_char(date, 'YYYY-MM-DD') FROM daily_logs WHERE user_id = $1 ORDER BY date", userID)
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
		FROM daily_logs WHERE user_id = $1 ORDER BY date DESC`, userID)
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
	habits := log.Habits
	if habits == nil {
		habits = []models.HabitEntry{}
	}
	habitsJSON, err := json.Marshal(habits)
	if err != nil {
		return models.DailyLog{}, fmt.Errorf("failed to encode habits: %w", err)
	}
	affirmationsJSON, err := json.Marshal(nonNilStrings(log.SelectedAffirmations))
	if err != nil {
		return models.DailyLog{}, fmt.Errorf("failed to encode affirmations: %w", err)
	}

	id := log.ID
	if id == "" {
		id = uuid.NewString()
	}

	var mood sql.NullInt64
	if log.Mood != nil {
		mood = sql.NullInt64{Int64: int64(*log.Mood), Valid: true}
	}

	row := s.db.QueryRowContext(ctx, `
		INSERT INTO daily_logs (id, user_id, date, habits, word_of_day, today_goal, selected_affirmations,
			song_link, note, mood)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT ON CONSTRAINT daily_logs_user_date_key DO UPDATE SET
			habits = EXCLUDED.habits,
			word_of_day = EXCLUDED.word_of_day,
			today_goal = EXCLUDED.today_goal,
			selected_affirmations = EXCLUDED.selected_affirmations,
			song_link = EXCLUDED.song_link,
			note = EXCLUDED.note,
			mood = EXCLUDED.mood,
			updated_at = now()
		RETURNING `+logColumns,
		id, log.UserID, log.Date, string(habitsJSON), toNullString(log.WordOfDay), toNullString(log.TodayGoal),
		string(affirmationsJSON), toNullString(log.SongLink), toNullString(log.Note), mood)

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

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
