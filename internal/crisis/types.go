package crisis

import (
	"time"

	"github.com/todmy/crisis-risk/pkg/models"
)

// FactorType identifies which signal a factor was computed from
type FactorType string

const (
	FactorMoodDecline       FactorType = "mood_decline"
	FactorNegativeSentiment FactorType = "negative_sentiment"
	FactorStressKeywords    FactorType = "stress_keywords"
	FactorJournalFrequency  FactorType = "journal_frequency"
	FactorTrend             FactorType = "trend"
)

// Trend is the direction a signal is moving in
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendStable    Trend = "stable"
	TrendDeclining Trend = "declining"
)

// RiskLevel is the discrete bucket derived from the risk score
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// Priority is the urgency tier of an intervention
type Priority string

const (
	PriorityImmediate  Priority = "immediate"
	PriorityUrgent     Priority = "urgent"
	PriorityModerate   Priority = "moderate"
	PriorityPreventive Priority = "preventive"
)

// PredictionTrend compares a prediction with the one before it
type PredictionTrend string

const (
	PredictionImproving PredictionTrend = "improving"
	PredictionStable    PredictionTrend = "stable"
	PredictionWorsening PredictionTrend = "worsening"
)

// Input is the immutable snapshot a prediction is computed from
type Input struct {
	UserID              string                      `json:"user_id"`
	AnalysisWindow      models.AnalysisWindow       `json:"analysis_window"`
	MoodObservations    []models.MoodObservation    `json:"mood_observations"`
	JournalObservations []models.JournalObservation `json:"journal_observations"`
	UserProfile         *models.UserProfile         `json:"user_profile,omitempty"`
}

// DataPoints returns the number of observations in the snapshot
func (in Input) DataPoints() int {
	return len(in.MoodObservations) + len(in.JournalObservations)
}

// Factor is one normalized signal contributing to the risk score
type Factor struct {
	Type         FactorType `json:"type"`
	Weight       float64    `json:"weight"`
	CurrentValue float64    `json:"current_value"`
	Threshold    float64    `json:"threshold"`
	Trend        Trend      `json:"trend"`
	Description  string     `json:"description"`
}

// Intervention is a catalog-defined coping action
type Intervention struct {
	ID                 string       `json:"id"`
	Priority           Priority     `json:"priority"`
	Type               string       `json:"type"`
	Title              string       `json:"title"`
	Description        string       `json:"description"`
	EstimatedMinutes   int          `json:"estimated_minutes"`
	Instructions       []string     `json:"instructions"`
	TriggerFactorTypes []FactorType `json:"trigger_factor_types"`
}

// Window is the resolved analysis window stored on a prediction
type Window struct {
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Days      int       `json:"days"`
}

// Prediction is the engine's output for one Predict call
type Prediction struct {
	ID                      string           `json:"id"`
	UserID                  string           `json:"user_id"`
	RiskScore               float64          `json:"risk_score"`
	RiskLevel               RiskLevel        `json:"risk_level"`
	ConfidenceScore         float64          `json:"confidence_score"`
	LowConfidence           bool             `json:"low_confidence"`
	Factors                 []Factor         `json:"factors"`
	Interventions           []Intervention   `json:"interventions"`
	AlgorithmVersion        string           `json:"algorithm_version"`
	DataPointsAnalyzed      int              `json:"data_points_analyzed"`
	AnalysisWindow          Window           `json:"analysis_window"`
	ExpiresAt               time.Time        `json:"expires_at"`
	NextUpdateAt            time.Time        `json:"next_update_at"`
	PreviousPredictionTrend *PredictionTrend `json:"previous_prediction_trend,omitempty"`
	CreatedAt               time.Time        `json:"created_at"`
	UpdatedAt               time.Time        `json:"updated_at"`
}

// Expired reports whether the prediction is past its expiry at t
func (p *Prediction) Expired(t time.Time) bool {
	return !t.Before(p.ExpiresAt)
}
