package crisis

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

const (
	fullVolumePoints   = 20.0
	fullCoverageDays   = 14.0
	minConfidence      = 0.3
	maxConfidence      = 1.0
	fallbackConfidence = 0.5
)

// estimateConfidence blends data volume, time coverage, sentiment
// completeness and inter-factor consistency with equal weight.
func estimateConfidence(in Input, factors []Factor) float64 {
	volume := clamp(float64(in.DataPoints())/fullVolumePoints, 0, 1)
	coverage := clamp(float64(in.AnalysisWindow.Days)/fullCoverageDays, 0, 1)

	completeness := 0.0
	if n := len(in.JournalObservations); n > 0 {
		withSentiment := 0
		for _, j := range in.JournalObservations {
			if j.SentimentScore != nil {
				withSentiment++
			}
		}
		completeness = float64(withSentiment) / float64(n)
	}

	consistency := clamp(factorConsistency(factors), 0, 1)

	confidence := 0.25*volume + 0.25*coverage + 0.25*completeness + 0.25*consistency
	if math.IsNaN(confidence) {
		confidence = fallbackConfidence
	}

	return round3(clamp(confidence, minConfidence, maxConfidence))
}

// factorConsistency is 1 minus the population variance of the normalized
// sub-scores of factors that had data.
func factorConsistency(factors []Factor) float64 {
	scores := make([]float64, 0, len(factors))
	for _, f := range factors {
		if f.Weight > 0 {
			scores = append(scores, normalizedScore(f))
		}
	}
	if len(scores) == 0 {
		return 0
	}

	_, variance := stat.PopMeanVariance(scores, nil)
	return 1 - variance
}
