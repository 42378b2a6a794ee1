package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/todmy/crisis-risk/pkg/models"
)

// ObservationRepository reads the mood and journal history a prediction is built from
type ObservationRepository interface {
	MoodsInWindow(ctx context.Context, userID string, start, end time.Time) ([]models.MoodObservation, error)
	JournalsInWindow(ctx context.Context, userID string, start, end time.Time) ([]models.JournalObservation, error)
}

// PostgresObservationRepository implements ObservationRepository using PostgreSQL
type PostgresObservationRepository struct {
	db *sql.DB
}

// NewPostgresObservationRepository creates a new PostgresObservationRepository
func NewPostgresObservationRepository(db *sql.DB) *PostgresObservationRepository {
	return &PostgresObservationRepository{db: db}
}

// MoodsInWindow returns mood check-ins recorded between start and end, oldest first
func (r *PostgresObservationRepository) MoodsInWindow(ctx context.Context, userID string, start, end time.Time) ([]models.MoodObservation, error) {
	query := `
		SELECT mood_level, period, date, timestamp_ms
		FROM mood_entries
		WHERE user_id = $1 AND date >= $2 AND date <= $3
		ORDER BY timestamp_ms ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query mood entries: %w", err)
	}
	defer rows.Close()

	var moods []models.MoodObservation
	for rows.Next() {
		var m models.MoodObservation
		var level, period string
		if err := rows.Scan(&level, &period, &m.Date, &m.TimestampMillis); err != nil {
			return nil, fmt.Errorf("failed to scan mood entry: %w", err)
		}
		m.MoodLevel = models.MoodLevel(level)
		m.Period = models.Period(period)
		moods = append(moods, m)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return moods, nil
}

// JournalsInWindow returns journal entries created between start and end, oldest first
func (r *PostgresObservationRepository) JournalsInWindow(ctx context.Context, userID string, start, end time.Time) ([]models.JournalObservation, error) {
	query := `
		SELECT id, content, sentiment_score, word_count, created_at, mood_tags
		FROM journal_entries
		WHERE user_id = $1 AND created_at >= $2 AND created_at <= $3
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal entries: %w", err)
	}
	defer rows.Close()

	var journals []models.JournalObservation
	for rows.Next() {
		var j models.JournalObservation
		var sentiment sql.NullFloat64
		var tags []byte
		if err := rows.Scan(&j.ID, &j.Content, &sentiment, &j.WordCount, &j.CreatedAt, &tags); err != nil {
			return nil, fmt.Errorf("failed to scan journal entry: %w", err)
		}

		if sentiment.Valid {
			s := sentiment.Float64
			j.SentimentScore = &s
		}
		if len(tags) > 0 {
			if err := json.Unmarshal(tags, &j.MoodTags); err != nil {
				return nil, fmt.Errorf("failed to decode mood tags for %s: %w", j.ID, err)
			}
		}

		journals = append(journals, j)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return journals, nil
}
