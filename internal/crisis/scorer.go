package crisis

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

const fallbackRiskScore = 0.1

// normalizedScore maps a factor onto a [0,1] risk sub-score
func normalizedScore(f Factor) float64 {
	v, t := f.CurrentValue, f.Threshold

	switch f.Type {
	case FactorMoodDecline:
		return clamp((5-v)/4, 0, 1)
	case FactorNegativeSentiment:
		return clamp((1-v)/2, 0, 1)
	case FactorStressKeywords:
		return clamp(v/10, 0, 1)
	case FactorJournalFrequency:
		// frequent journaling never adds risk
		if t > 0 && v < t {
			return (t - v) / t
		}
		return 0
	default:
		switch {
		case v > t:
			return 1
		case v > 0 && t > 0:
			return v / t
		default:
			return 0
		}
	}
}

func trendMultiplier(t Trend) float64 {
	switch t {
	case TrendDeclining:
		return 1.2
	case TrendImproving:
		return 0.8
	default:
		return 1.0
	}
}

// riskScore returns the weighted mean of trend-adjusted sub-scores,
// clamped to [0,1] and rounded to 3 decimals.
func riskScore(factors []Factor) float64 {
	weights := make([]float64, len(factors))
	adjusted := make([]float64, len(factors))
	for i, f := range factors {
		weights[i] = f.Weight
		adjusted[i] = normalizedScore(f) * trendMultiplier(f.Trend)
	}

	score := floats.Dot(weights, adjusted) / floats.Sum(weights)
	if math.IsNaN(score) {
		score = fallbackRiskScore
	}

	return round3(clamp(score, 0, 1))
}

// classify assigns the risk level for a score. Each threshold is the
// lower edge of the next level up.
func classify(score float64, t Thresholds) RiskLevel {
	switch {
	case score >= t.High:
		return RiskCritical
	case score >= t.Medium:
		return RiskHigh
	case score >= t.Low:
		return RiskMedium
	default:
		return RiskLow
	}
}

// Triggered reports whether the factor crosses its concern threshold
// or is trending the wrong way. Factors without data never trigger.
func (f Factor) Triggered() bool {
	if f.Weight <= 0 {
		return false
	}
	if f.Trend == TrendDeclining {
		return true
	}

	switch f.Type {
	case FactorMoodDecline, FactorNegativeSentiment:
		return f.CurrentValue <= f.Threshold
	case FactorJournalFrequency:
		return f.CurrentValue < f.Threshold
	default:
		return f.CurrentValue >= f.Threshold
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
