// Package crisis scores the short-term crisis risk of a user from their
// recent mood check-ins and journal entries.
//
// An Engine is immutable once built and safe for concurrent use. Changing
// configuration produces a new Engine via WithConfig.
package crisis

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	AlgorithmVersion = "1.0.0"

	predictionTTL     = 24 * time.Hour
	updateInterval    = 6 * time.Hour
	previousTrendBand = 0.05
)

// Engine computes crisis predictions from input snapshots
type Engine struct {
	config  Config
	lexicon *stressLexicon
	now     func() time.Time
	newID   func() string
}

// Option customizes an Engine
type Option func(*Engine)

// WithClock sets the time source used for timestamps and expiry
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithIDGenerator sets the prediction id generator
func WithIDGenerator(newID func() string) Option {
	return func(e *Engine) {
		e.newID = newID
	}
}

// NewEngine creates an engine bound to config
func NewEngine(config Config, opts ...Option) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		config:  config,
		lexicon: newStressLexicon(),
		now:     time.Now,
		newID:   func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(e)
	}

	return e, nil
}

// Config returns a copy of the engine configuration
func (e *Engine) Config() Config {
	return e.config
}

// WithConfig returns a new engine with diff applied on top of the current
// configuration. The receiver is left untouched.
func (e *Engine) WithConfig(diff ConfigDiff) (*Engine, error) {
	next := diff.Apply(e.config)
	if err := next.Validate(); err != nil {
		return nil, err
	}

	clone := *e
	clone.config = next
	return &clone, nil
}

// Predict scores a snapshot
func (e *Engine) Predict(in Input) (*Prediction, error) {
	return e.PredictWithPrevious(in, nil)
}

// PredictWithPrevious scores a snapshot and, when previous is non-nil,
// labels the change in risk against it.
func (e *Engine) PredictWithPrevious(in Input, previous *Prediction) (p *Prediction, err error) {
	defer func() {
		if r := recover(); r != nil {
			p = nil
			err = fmt.Errorf("crisis engine: %w", &ComputationError{Err: fmt.Errorf("panic: %v", r)})
		}
	}()

	if err := validateInput(in, e.config); err != nil {
		return nil, fmt.Errorf("crisis engine: %w", err)
	}

	now := e.now()
	if in.AnalysisWindow.EndDate.IsZero() {
		in.AnalysisWindow.EndDate = now
	}

	snap, err := newSnapshot(in)
	if err != nil {
		return nil, fmt.Errorf("crisis engine: %w", &ComputationError{Err: err})
	}

	factors := e.analyze(snap)
	score := riskScore(factors)
	level := classify(score, e.config.Thresholds)
	confidence := estimateConfidence(in, factors)
	interventions := selectInterventions(level, factors)

	return &Prediction{
		ID:                 e.newID(),
		UserID:             in.UserID,
		RiskScore:          score,
		RiskLevel:          level,
		ConfidenceScore:    confidence,
		LowConfidence:      confidence < e.config.AnalysisWindow.ConfidenceThreshold,
		Factors:            factors,
		Interventions:      interventions,
		AlgorithmVersion:   AlgorithmVersion,
		DataPointsAnalyzed: in.DataPoints(),
		AnalysisWindow: Window{
			StartDate: in.AnalysisWindow.StartDate(),
			EndDate:   in.AnalysisWindow.EndDate,
			Days:      in.AnalysisWindow.Days,
		},
		ExpiresAt:               now.Add(predictionTTL),
		NextUpdateAt:            now.Add(updateInterval),
		PreviousPredictionTrend: compareWithPrevious(score, previous),
		CreatedAt:               now,
		UpdatedAt:               now,
	}, nil
}

func compareWithPrevious(score float64, previous *Prediction) *PredictionTrend {
	if previous == nil {
		return nil
	}

	trend := PredictionStable
	switch delta := score - previous.RiskScore; {
	case delta > previousTrendBand:
		trend = PredictionWorsening
	case delta < -previousTrendBand:
		trend = PredictionImproving
	}
	return &trend
}
