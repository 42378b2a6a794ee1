package crisis

import (
	"math"
	"testing"
)

func TestClassify(t *testing.T) {
	thresholds := Thresholds{Low: 0.30, Medium: 0.60, High: 0.80, Critical: 1.00}

	tests := []struct {
		score float64
		want  RiskLevel
	}{
		{0, RiskLow},
		{0.29999, RiskLow},
		{0.30, RiskMedium},
		{0.59, RiskMedium},
		{0.60, RiskHigh},
		{0.80, RiskCritical},
		{1.00, RiskCritical},
	}

	for _, tt := range tests {
		if got := classify(tt.score, thresholds); got != tt.want {
			t.Errorf("classify(%v) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestClassify_Monotonic(t *testing.T) {
	rank := map[RiskLevel]int{RiskLow: 0, RiskMedium: 1, RiskHigh: 2, RiskCritical: 3}
	thresholds := DefaultConfig().Thresholds

	prev := RiskLow
	for i := 0; i <= 1000; i++ {
		level := classify(float64(i)/1000, thresholds)
		if rank[level] < rank[prev] {
			t.Fatalf("level dropped from %s to %s at %v", prev, level, float64(i)/1000)
		}
		prev = level
	}
}

func TestNormalizedScore(t *testing.T) {
	tests := []struct {
		name   string
		factor Factor
		want   float64
	}{
		{"mood worst", Factor{Type: FactorMoodDecline, CurrentValue: 1}, 1},
		{"mood best", Factor{Type: FactorMoodDecline, CurrentValue: 5}, 0},
		{"mood neutral", Factor{Type: FactorMoodDecline, CurrentValue: 3}, 0.5},
		{"sentiment negative", Factor{Type: FactorNegativeSentiment, CurrentValue: -1}, 1},
		{"sentiment positive", Factor{Type: FactorNegativeSentiment, CurrentValue: 1}, 0},
		{"stress capped", Factor{Type: FactorStressKeywords, CurrentValue: 25}, 1},
		{"stress partial", Factor{Type: FactorStressKeywords, CurrentValue: 4}, 0.4},
		{"frequency none", Factor{Type: FactorJournalFrequency, CurrentValue: 0, Threshold: 0.5}, 1},
		{"frequency shortfall", Factor{Type: FactorJournalFrequency, CurrentValue: 0.25, Threshold: 0.5}, 0.5},
		{"frequency high", Factor{Type: FactorJournalFrequency, CurrentValue: 3, Threshold: 0.5}, 0},
		{"trend over", Factor{Type: FactorTrend, CurrentValue: 0.3, Threshold: 0.1}, 1},
		{"trend partial", Factor{Type: FactorTrend, CurrentValue: 0.05, Threshold: 0.1}, 0.5},
		{"trend flat", Factor{Type: FactorTrend, CurrentValue: 0, Threshold: 0.1}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizedScore(tt.factor); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestRiskScore_TrendAdjustment(t *testing.T) {
	base := []Factor{{Type: FactorStressKeywords, Weight: 1, CurrentValue: 5, Trend: TrendStable}}
	if got := riskScore(base); got != 0.5 {
		t.Errorf("expected 0.5, got %v", got)
	}

	base[0].Trend = TrendDeclining
	if got := riskScore(base); got != 0.6 {
		t.Errorf("expected 0.6 when declining, got %v", got)
	}

	base[0].Trend = TrendImproving
	if got := riskScore(base); got != 0.4 {
		t.Errorf("expected 0.4 when improving, got %v", got)
	}
}

func TestRiskScore_ClampedAndRounded(t *testing.T) {
	factors := []Factor{
		{Type: FactorMoodDecline, Weight: 0.5, CurrentValue: 1, Trend: TrendDeclining},
		{Type: FactorNegativeSentiment, Weight: 0.5, CurrentValue: -1, Trend: TrendDeclining},
	}
	if got := riskScore(factors); got != 1 {
		t.Errorf("expected clamp to 1, got %v", got)
	}

	factors = []Factor{{Type: FactorMoodDecline, Weight: 1, CurrentValue: 11.0 / 3.0}}
	if got := riskScore(factors); got != 0.333 {
		t.Errorf("expected 0.333, got %v", got)
	}
}

func TestRiskScore_ZeroWeightsFallback(t *testing.T) {
	factors := []Factor{
		degenerateFactor(FactorMoodDecline, moodThreshold, "none"),
		degenerateFactor(FactorTrend, trendThreshold, "none"),
	}
	if got := riskScore(factors); got != fallbackRiskScore {
		t.Errorf("expected fallback %v, got %v", fallbackRiskScore, got)
	}
}

func TestEstimateConfidence_Floor(t *testing.T) {
	in := lowRiskInput()
	in.AnalysisWindow.Days = 3
	in.MoodObservations = in.MoodObservations[:1]
	in.JournalObservations = nil

	factors := []Factor{
		{Type: FactorMoodDecline, Weight: 1, CurrentValue: 5},
		{Type: FactorJournalFrequency, Weight: 1, CurrentValue: 0, Threshold: 0.5},
	}

	// volume 0.05, coverage 3/14, completeness 0, consistency 0.75
	got := estimateConfidence(in, factors)
	if got != 0.3 {
		t.Errorf("expected floor 0.3, got %v", got)
	}
}

func TestEstimateConfidence_Full(t *testing.T) {
	in := lowRiskInput()
	for i := 0; i < 12; i++ {
		in.MoodObservations = append(in.MoodObservations, in.MoodObservations[0])
	}

	factors := []Factor{
		{Type: FactorStressKeywords, Weight: 1, CurrentValue: 2},
		{Type: FactorTrend, Weight: 1, CurrentValue: 0.02, Threshold: 0.1},
	}

	if got := estimateConfidence(in, factors); got != 1 {
		t.Errorf("expected full confidence, got %v", got)
	}
}
