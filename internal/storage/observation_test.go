package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/todmy/crisis-risk/pkg/models"
)

func TestPostgresObservationRepository_MoodsInWindow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	defer db.Close()

	repo := NewPostgresObservationRepository(db)
	end := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	start := end.AddDate(0, 0, -14)
	day := end.AddDate(0, 0, -3)

	rows := sqlmock.NewRows([]string{"mood_level", "period", "date", "timestamp_ms"}).
		AddRow("bem", "manha", day, day.UnixMilli()).
		AddRow("mal", "noite", end, end.UnixMilli())

	mock.ExpectQuery("SELECT (.+) FROM mood_entries WHERE user_id").
		WithArgs("user-1", start, end).
		WillReturnRows(rows)

	moods, err := repo.MoodsInWindow(context.Background(), "user-1", start, end)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(moods) != 2 {
		t.Fatalf("expected 2 moods, got %d", len(moods))
	}
	if moods[0].MoodLevel != models.MoodBem || moods[0].Period != models.PeriodManha {
		t.Errorf("unexpected first mood %+v", moods[0])
	}
	if moods[1].TimestampMillis != end.UnixMilli() {
		t.Errorf("expected timestamp %d, got %d", end.UnixMilli(), moods[1].TimestampMillis)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestPostgresObservationRepository_JournalsInWindow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	defer db.Close()

	repo := NewPostgresObservationRepository(db)
	end := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	start := end.AddDate(0, 0, -14)

	rows := sqlmock.NewRows([]string{"id", "content", "sentiment_score", "word_count", "created_at", "mood_tags"}).
		AddRow("j1", "dia bom", 0.6, 2, start.Add(time.Hour), []byte(`[{"label":"calmo","category":"positive","intensity":3}]`)).
		AddRow("j2", "sem analise", nil, 2, end, nil)

	mock.ExpectQuery("SELECT (.+) FROM journal_entries WHERE user_id").
		WithArgs("user-1", start, end).
		WillReturnRows(rows)

	journals, err := repo.JournalsInWindow(context.Background(), "user-1", start, end)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(journals) != 2 {
		t.Fatalf("expected 2 journals, got %d", len(journals))
	}
	if journals[0].SentimentScore == nil || *journals[0].SentimentScore != 0.6 {
		t.Errorf("expected sentiment 0.6, got %v", journals[0].SentimentScore)
	}
	if len(journals[0].MoodTags) != 1 || journals[0].MoodTags[0].Category != models.TagPositive {
		t.Errorf("expected decoded mood tags, got %+v", journals[0].MoodTags)
	}
	if journals[1].SentimentScore != nil {
		t.Error("expected nil sentiment for unanalyzed entry")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestPostgresObservationRepository_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	defer db.Close()

	repo := NewPostgresObservationRepository(db)
	boom := errors.New("connection reset")

	mock.ExpectQuery("SELECT (.+) FROM journal_entries").WillReturnError(boom)

	_, err = repo.JournalsInWindow(context.Background(), "user-1", time.Now().Add(-time.Hour), time.Now())
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped driver error, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestEnsureSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS crisis_predictions").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := EnsureSchema(context.Background(), db); err != nil {
		t.Errorf("expected no error, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}
