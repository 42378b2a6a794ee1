package crisis

import (
	"reflect"
	"testing"
)

func triggeredFactor(t FactorType) Factor {
	return Factor{Type: t, Weight: 0.2, Trend: TrendDeclining}
}

func TestSelectInterventions(t *testing.T) {
	tests := []struct {
		name    string
		level   RiskLevel
		factors []Factor
		want    []string
	}{
		{
			name:    "critical ignores triggers",
			level:   RiskCritical,
			factors: nil,
			want:    []string{"crisis-line", "trusted-contact"},
		},
		{
			name:    "high with stress only",
			level:   RiskHigh,
			factors: []Factor{triggeredFactor(FactorStressKeywords)},
			want:    []string{"crisis-line", "grounding-54321", "box-breathing"},
		},
		{
			name:    "medium with frequency only",
			level:   RiskMedium,
			factors: []Factor{triggeredFactor(FactorJournalFrequency)},
			want:    []string{"guided-journaling"},
		},
		{
			name:    "low with nothing triggered falls back to first tier match",
			level:   RiskLow,
			factors: []Factor{{Type: FactorMoodDecline, Weight: 0.3, CurrentValue: 5, Trend: TrendStable}},
			want:    []string{"guided-journaling"},
		},
		{
			name:    "degenerate factors never trigger",
			level:   RiskMedium,
			factors: []Factor{degenerateFactor(FactorStressKeywords, stressThreshold, "none")},
			want:    []string{"grounding-54321"},
		},
		{
			name:  "truncated to three in catalog order",
			level: RiskLow,
			factors: []Factor{
				triggeredFactor(FactorMoodDecline),
				triggeredFactor(FactorStressKeywords),
				triggeredFactor(FactorTrend),
			},
			want: []string{"short-walk", "muscle-relaxation", "gratitude-practice"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := interventionIDs(selectInterventions(tt.level, tt.factors))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestSelectInterventions_ReturnsCopies(t *testing.T) {
	selected := selectInterventions(RiskCritical, nil)
	selected[0].Instructions[0] = "changed"

	if catalog[0].Instructions[0] == "changed" {
		t.Error("selection must not alias the catalog")
	}
}

func TestSelectInterventions_AlwaysBetweenOneAndThree(t *testing.T) {
	types := []FactorType{
		FactorMoodDecline, FactorNegativeSentiment, FactorStressKeywords, FactorJournalFrequency, FactorTrend,
	}

	for _, level := range []RiskLevel{RiskLow, RiskMedium, RiskHigh, RiskCritical} {
		for mask := 0; mask < 1<<len(types); mask++ {
			var factors []Factor
			for i, ft := range types {
				if mask&(1<<i) != 0 {
					factors = append(factors, triggeredFactor(ft))
				}
			}

			n := len(selectInterventions(level, factors))
			if n < 1 || n > maxInterventions {
				t.Fatalf("level %s mask %b: got %d interventions", level, mask, n)
			}
		}
	}
}

func TestFactorTriggered(t *testing.T) {
	tests := []struct {
		factor Factor
		want   bool
	}{
		{Factor{Type: FactorMoodDecline, Weight: 1, CurrentValue: 2.5, Threshold: 2.5}, true},
		{Factor{Type: FactorMoodDecline, Weight: 1, CurrentValue: 3, Threshold: 2.5}, false},
		{Factor{Type: FactorNegativeSentiment, Weight: 1, CurrentValue: -0.5, Threshold: -0.3}, true},
		{Factor{Type: FactorStressKeywords, Weight: 1, CurrentValue: 3, Threshold: 3}, true},
		{Factor{Type: FactorJournalFrequency, Weight: 1, CurrentValue: 0.5, Threshold: 0.5}, false},
		{Factor{Type: FactorTrend, Weight: 1, CurrentValue: 0, Threshold: 0.1, Trend: TrendDeclining}, true},
		{Factor{Type: FactorMoodDecline, Weight: 0, CurrentValue: 1, Threshold: 2.5}, false},
	}

	for _, tt := range tests {
		if got := tt.factor.Triggered(); got != tt.want {
			t.Errorf("%+v: expected %v, got %v", tt.factor, tt.want, got)
		}
	}
}
