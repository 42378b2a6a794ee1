package assessment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/todmy/crisis-risk/internal/crisis"
	"github.com/todmy/crisis-risk/internal/storage"
	"github.com/todmy/crisis-risk/pkg/models"
)

// Result is a prediction plus whether it was served from a previous run
type Result struct {
	Prediction *crisis.Prediction `json:"prediction"`
	Stale      bool               `json:"stale"`
}

// Service runs the crisis engine against stored history and persists the result
type Service struct {
	engine       *crisis.Engine
	observations storage.ObservationRepository
	predictions  storage.PredictionRepository
	logger       *slog.Logger
	now          func() time.Time
}

// Config holds service dependencies
type Config struct {
	Engine       *crisis.Engine
	Observations storage.ObservationRepository
	Predictions  storage.PredictionRepository
	Logger       *slog.Logger
	Now          func() time.Time
}

// NewService creates a new assessment service
func NewService(config Config) *Service {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.Now == nil {
		config.Now = time.Now
	}

	return &Service{
		engine:       config.Engine,
		observations: config.Observations,
		predictions:  config.Predictions,
		logger:       config.Logger,
		now:          config.Now,
	}
}

// Engine returns the engine the service scores with
func (s *Service) Engine() *crisis.Engine {
	return s.engine
}

// Assess builds a snapshot of the last days of history for userID, scores it
// and stores the prediction. When scoring or storage fails and an unexpired
// previous prediction exists, that prediction is returned as stale instead.
func (s *Service) Assess(ctx context.Context, userID string, days int) (*Result, error) {
	if days <= 0 {
		days = s.engine.Config().AnalysisWindow.DefaultDays
	}

	now := s.now()
	window := models.AnalysisWindow{Days: days, EndDate: now}

	previous, err := s.predictions.GetLatestByUserID(ctx, userID)
	if err != nil && !errors.Is(err, storage.ErrPredictionNotFound) {
		s.logger.Warn("failed to load previous prediction", slog.String("user_id", userID), slog.Any("error", err))
	}

	prediction, err := s.predict(ctx, userID, window, previous)
	if err != nil {
		if errors.Is(err, crisis.ErrValidation) {
			return nil, err
		}
		if previous != nil && !previous.Expired(now) {
			s.logger.Warn("serving stale prediction",
				slog.String("user_id", userID),
				slog.String("prediction_id", previous.ID),
				slog.Any("error", err),
			)
			return &Result{Prediction: previous, Stale: true}, nil
		}
		return nil, err
	}

	s.logger.Info("crisis prediction computed",
		slog.String("user_id", userID),
		slog.String("prediction_id", prediction.ID),
		slog.Float64("risk_score", prediction.RiskScore),
		slog.String("risk_level", string(prediction.RiskLevel)),
		slog.Float64("confidence", prediction.ConfidenceScore),
		slog.Int("data_points", prediction.DataPointsAnalyzed),
	)

	return &Result{Prediction: prediction}, nil
}

func (s *Service) predict(ctx context.Context, userID string, window models.AnalysisWindow, previous *crisis.Prediction) (*crisis.Prediction, error) {
	moods, err := s.observations.MoodsInWindow(ctx, userID, window.StartDate(), window.EndDate)
	if err != nil {
		return nil, fmt.Errorf("load moods: %w", err)
	}
	journals, err := s.observations.JournalsInWindow(ctx, userID, window.StartDate(), window.EndDate)
	if err != nil {
		return nil, fmt.Errorf("load journals: %w", err)
	}

	prediction, err := s.engine.PredictWithPrevious(crisis.Input{
		UserID:              userID,
		AnalysisWindow:      window,
		MoodObservations:    moods,
		JournalObservations: journals,
	}, previous)
	if err != nil {
		return nil, err
	}

	if err := s.predictions.Create(ctx, prediction); err != nil {
		return nil, fmt.Errorf("store prediction: %w", err)
	}

	return prediction, nil
}

// Preview scores a caller-supplied snapshot without touching storage. A
// non-nil diff scores it under an adjusted configuration.
func (s *Service) Preview(in crisis.Input, diff *crisis.ConfigDiff) (*crisis.Prediction, error) {
	engine := s.engine
	if diff != nil {
		var err error
		if engine, err = engine.WithConfig(*diff); err != nil {
			return nil, err
		}
	}
	return engine.Predict(in)
}

// Latest returns the most recent stored prediction for userID
func (s *Service) Latest(ctx context.Context, userID string) (*crisis.Prediction, error) {
	return s.predictions.GetLatestByUserID(ctx, userID)
}

// History returns up to limit stored predictions for userID, newest first
func (s *Service) History(ctx context.Context, userID string, limit int) ([]*crisis.Prediction, error) {
	return s.predictions.ListByUserID(ctx, userID, limit)
}

// PurgeExpired deletes predictions past their expiry
func (s *Service) PurgeExpired(ctx context.Context) (int64, error) {
	n, err := s.predictions.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info("purged expired predictions", slog.Int64("count", n))
	}
	return n, nil
}
