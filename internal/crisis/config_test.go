package crisis

import (
	"errors"
	"testing"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected default config to be valid, got %v", err)
	}

	w := cfg.Weights
	if total := w.Mood + w.Sentiment + w.StressKeyword + w.Frequency + w.Trend; total < 0.999 || total > 1.001 {
		t.Errorf("expected weights to sum to 1, got %v", total)
	}
}

func TestConfigDiff_Apply(t *testing.T) {
	mood, medium, days := 0.4, 0.55, 30

	got := ConfigDiff{
		Weights:        &WeightsDiff{Mood: &mood},
		Thresholds:     &ThresholdsDiff{Medium: &medium},
		AnalysisWindow: &WindowDiff{DefaultDays: &days},
	}.Apply(DefaultConfig())

	want := DefaultConfig()
	want.Weights.Mood = mood
	want.Thresholds.Medium = medium
	want.AnalysisWindow.DefaultDays = days

	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestConfigDiff_EmptyIsNoop(t *testing.T) {
	if got := (ConfigDiff{}).Apply(DefaultConfig()); got != DefaultConfig() {
		t.Errorf("expected unchanged config, got %+v", got)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"negative weight", func(c *Config) { c.Weights.Trend = -0.1 }},
		{"thresholds out of order", func(c *Config) { c.Thresholds.Medium = 0.9 }},
		{"thresholds above one", func(c *Config) { c.Thresholds.Critical = 1.5 }},
		{"window too short", func(c *Config) { c.AnalysisWindow.DefaultDays = 2 }},
		{"negative minimum", func(c *Config) { c.AnalysisWindow.MinimumDataPoints = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected invalid config, got %v", err)
			}
		})
	}
}

func TestNewEngine_RejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Thresholds.Low = 0.7

	if _, err := NewEngine(cfg); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected invalid config, got %v", err)
	}
}
