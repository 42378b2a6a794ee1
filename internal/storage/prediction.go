package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/todmy/crisis-risk/internal/crisis"
)

var ErrPredictionNotFound = errors.New("prediction not found")

// PredictionRepository defines the interface for crisis prediction storage
type PredictionRepository interface {
	Create(ctx context.Context, p *crisis.Prediction) error
	GetLatestByUserID(ctx context.Context, userID string) (*crisis.Prediction, error)
	ListByUserID(ctx context.Context, userID string, limit int) ([]*crisis.Prediction, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// PostgresPredictionRepository implements PredictionRepository using PostgreSQL
type PostgresPredictionRepository struct {
	db *sql.DB
}

// NewPostgresPredictionRepository creates a new PostgresPredictionRepository
func NewPostgresPredictionRepository(db *sql.DB) *PostgresPredictionRepository {
	return &PostgresPredictionRepository{db: db}
}

const predictionColumns = `id, user_id, risk_score, risk_level, confidence_score, low_confidence,
		factors, interventions, algorithm_version, data_points_analyzed,
		window_start, window_end, window_days, expires_at, next_update_at,
		previous_trend, created_at, updated_at`

// Create inserts a prediction. Factors and interventions are stored as JSON.
func (r *PostgresPredictionRepository) Create(ctx context.Context, p *crisis.Prediction) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}

	factors, err := json.Marshal(p.Factors)
	if err != nil {
		return fmt.Errorf("failed to encode factors: %w", err)
	}
	interventions, err := json.Marshal(p.Interventions)
	if err != nil {
		return fmt.Errorf("failed to encode interventions: %w", err)
	}

	var previous sql.NullString
	if p.PreviousPredictionTrend != nil {
		previous = sql.NullString{String: string(*p.PreviousPredictionTrend), Valid: true}
	}

	query := `
		INSERT INTO crisis_predictions (` + predictionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`

	_, err = r.db.ExecContext(ctx, query,
		p.ID,
		p.UserID,
		p.RiskScore,
		string(p.RiskLevel),
		p.ConfidenceScore,
		p.LowConfidence,
		factors,
		interventions,
		p.AlgorithmVersion,
		p.DataPointsAnalyzed,
		p.AnalysisWindow.StartDate,
		p.AnalysisWindow.EndDate,
		p.AnalysisWindow.Days,
		p.ExpiresAt,
		p.NextUpdateAt,
		previous,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create prediction: %w", err)
	}

	return nil
}

// GetLatestByUserID retrieves the most recent prediction for a user
func (r *PostgresPredictionRepository) GetLatestByUserID(ctx context.Context, userID string) (*crisis.Prediction, error) {
	query := `
		SELECT ` + predictionColumns + `
		FROM crisis_predictions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	p, err := scanPrediction(r.db.QueryRowContext(ctx, query, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPredictionNotFound
		}
		return nil, fmt.Errorf("failed to get latest prediction: %w", err)
	}

	return p, nil
}

// ListByUserID retrieves the most recent predictions for a user, newest first
func (r *PostgresPredictionRepository) ListByUserID(ctx context.Context, userID string, limit int) ([]*crisis.Prediction, error) {
	if limit <= 0 {
		limit = 30
	}

	query := `
		SELECT ` + predictionColumns + `
		FROM crisis_predictions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list predictions: %w", err)
	}
	defer rows.Close()

	var predictions []*crisis.Prediction
	for rows.Next() {
		p, err := scanPrediction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan prediction: %w", err)
		}
		predictions = append(predictions, p)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return predictions, nil
}

// DeleteExpired removes predictions that expired before now
func (r *PostgresPredictionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM crisis_predictions WHERE expires_at < $1`, now)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired predictions: %w", err)
	}
	return result.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPrediction(row rowScanner) (*crisis.Prediction, error) {
	p := &crisis.Prediction{}
	var (
		level         string
		factors       []byte
		interventions []byte
		previous      sql.NullString
	)

	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.RiskScore,
		&level,
		&p.ConfidenceScore,
		&p.LowConfidence,
		&factors,
		&interventions,
		&p.AlgorithmVersion,
		&p.DataPointsAnalyzed,
		&p.AnalysisWindow.StartDate,
		&p.AnalysisWindow.EndDate,
		&p.AnalysisWindow.Days,
		&p.ExpiresAt,
		&p.NextUpdateAt,
		&previous,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.RiskLevel = crisis.RiskLevel(level)
	if previous.Valid {
		trend := crisis.PredictionTrend(previous.String)
		p.PreviousPredictionTrend = &trend
	}
	if err := json.Unmarshal(factors, &p.Factors); err != nil {
		return nil, fmt.Errorf("decode factors: %w", err)
	}
	if err := json.Unmarshal(interventions, &p.Interventions); err != nil {
		return nil, fmt.Errorf("decode interventions: %w", err)
	}

	return p, nil
}
