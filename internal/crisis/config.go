package crisis

import (
	"fmt"
	"math"
)

// Weights holds the contribution of each factor to the risk score
type Weights struct {
	Mood          float64 `json:"mood"`
	Sentiment     float64 `json:"sentiment"`
	StressKeyword float64 `json:"stress_keyword"`
	Frequency     float64 `json:"frequency"`
	Trend         float64 `json:"trend"`
}

// For returns the configured weight for a factor type
func (w Weights) For(t FactorType) float64 {
	switch t {
	case FactorMoodDecline:
		return w.Mood
	case FactorNegativeSentiment:
		return w.Sentiment
	case FactorStressKeywords:
		return w.StressKeyword
	case FactorJournalFrequency:
		return w.Frequency
	case FactorTrend:
		return w.Trend
	default:
		return 0
	}
}

// Thresholds are the upper edges of each risk level.
// A score below Low is low, at or above Low is medium, at or above Medium
// is high and at or above High is critical. Critical caps the scale.
type Thresholds struct {
	Low      float64 `json:"low"`
	Medium   float64 `json:"medium"`
	High     float64 `json:"high"`
	Critical float64 `json:"critical"`
}

// WindowConfig constrains the analysis window
type WindowConfig struct {
	DefaultDays         int     `json:"default_days"`
	MinimumDataPoints   int     `json:"minimum_data_points"`
	ConfidenceThreshold float64 `json:"confidence_threshold"`
}

// Config holds engine configuration
type Config struct {
	Weights        Weights      `json:"weights"`
	Thresholds     Thresholds   `json:"thresholds"`
	AnalysisWindow WindowConfig `json:"analysis_window"`
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		Weights: Weights{
			Mood:          0.30,
			Sentiment:     0.25,
			StressKeyword: 0.20,
			Frequency:     0.15,
			Trend:         0.10,
		},
		Thresholds: Thresholds{
			Low:      0.30,
			Medium:   0.60,
			High:     0.80,
			Critical: 1.00,
		},
		AnalysisWindow: WindowConfig{
			DefaultDays:         14,
			MinimumDataPoints:   5,
			ConfidenceThreshold: 0.6,
		},
	}
}

// Validate checks that the configuration can drive the engine
func (c Config) Validate() error {
	w := c.Weights
	for name, v := range map[string]float64{
		"mood": w.Mood, "sentiment": w.Sentiment, "stress_keyword": w.StressKeyword,
		"frequency": w.Frequency, "trend": w.Trend,
	} {
		if v < 0 || math.IsNaN(v) {
			return fmt.Errorf("%w: weight %s must be non-negative", ErrInvalidConfig, name)
		}
	}

	t := c.Thresholds
	if t.Low < 0 || t.Critical > 1 || !(t.Low < t.Medium && t.Medium < t.High && t.High < t.Critical) {
		return fmt.Errorf("%w: thresholds must be strictly increasing within [0,1]", ErrInvalidConfig)
	}

	if c.AnalysisWindow.DefaultDays < minWindowDays {
		return fmt.Errorf("%w: default window must be at least %d days", ErrInvalidConfig, minWindowDays)
	}
	if c.AnalysisWindow.MinimumDataPoints < 0 {
		return fmt.Errorf("%w: minimum data points must be non-negative", ErrInvalidConfig)
	}

	return nil
}

// ConfigDiff is a typed partial update. Nil fields keep the current value.
type ConfigDiff struct {
	Weights        *WeightsDiff    `json:"weights,omitempty"`
	Thresholds     *ThresholdsDiff `json:"thresholds,omitempty"`
	AnalysisWindow *WindowDiff     `json:"analysis_window,omitempty"`
}

type WeightsDiff struct {
	Mood          *float64 `json:"mood,omitempty"`
	Sentiment     *float64 `json:"sentiment,omitempty"`
	StressKeyword *float64 `json:"stress_keyword,omitempty"`
	Frequency     *float64 `json:"frequency,omitempty"`
	Trend         *float64 `json:"trend,omitempty"`
}

type ThresholdsDiff struct {
	Low      *float64 `json:"low,omitempty"`
	Medium   *float64 `json:"medium,omitempty"`
	High     *float64 `json:"high,omitempty"`
	Critical *float64 `json:"critical,omitempty"`
}

type WindowDiff struct {
	DefaultDays         *int     `json:"default_days,omitempty"`
	MinimumDataPoints   *int     `json:"minimum_data_points,omitempty"`
	ConfidenceThreshold *float64 `json:"confidence_threshold,omitempty"`
}

// Apply returns a copy of c with every non-nil field of d overriding it
func (d ConfigDiff) Apply(c Config) Config {
	if w := d.Weights; w != nil {
		override(&c.Weights.Mood, w.Mood)
		override(&c.Weights.Sentiment, w.Sentiment)
		override(&c.Weights.StressKeyword, w.StressKeyword)
		override(&c.Weights.Frequency, w.Frequency)
		override(&c.Weights.Trend, w.Trend)
	}
	if t := d.Thresholds; t != nil {
		override(&c.Thresholds.Low, t.Low)
		override(&c.Thresholds.Medium, t.Medium)
		override(&c.Thresholds.High, t.High)
		override(&c.Thresholds.Critical, t.Critical)
	}
	if aw := d.AnalysisWindow; aw != nil {
		override(&c.AnalysisWindow.DefaultDays, aw.DefaultDays)
		override(&c.AnalysisWindow.MinimumDataPoints, aw.MinimumDataPoints)
		override(&c.AnalysisWindow.ConfidenceThreshold, aw.ConfidenceThreshold)
	}
	return c
}

func override[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
