package crisis

import (
	"fmt"
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/todmy/crisis-risk/pkg/models"
)

const (
	moodThreshold      = 2.5
	sentimentThreshold = -0.3
	stressThreshold    = 3.0
	frequencyThreshold = 0.5
	trendThreshold     = 0.1

	moodTrendSpan      = 7
	moodTrendBand      = 0.3
	sentimentTrendSpan = 5
	sentimentTrendBand = 0.1
	stressTrendBand    = 0.5
	frequencyTrendDays = 7
	frequencyTrendBand = 2.0
	minTrendPoints     = 3
)

// snapshot is the chronologically ordered view of an Input the analyzers read
type snapshot struct {
	window   models.AnalysisWindow
	moods    []moodPoint
	journals []models.JournalObservation
}

type moodPoint struct {
	at      time.Time
	ordinal float64
}

func newSnapshot(in Input) (*snapshot, error) {
	moods := make([]moodPoint, 0, len(in.MoodObservations))
	for i, m := range in.MoodObservations {
		ordinal, err := m.MoodLevel.Ordinal()
		if err != nil {
			return nil, fmt.Errorf("mood observation %d: %w", i, err)
		}
		moods = append(moods, moodPoint{at: m.Time(), ordinal: float64(ordinal)})
	}
	sort.SliceStable(moods, func(i, j int) bool {
		return moods[i].at.Before(moods[j].at)
	})

	journals := make([]models.JournalObservation, len(in.JournalObservations))
	copy(journals, in.JournalObservations)
	for i, j := range journals {
		if s := j.SentimentScore; s != nil && (math.IsNaN(*s) || *s < -1 || *s > 1) {
			return nil, fmt.Errorf("journal observation %q: sentiment %v outside [-1,1]", j.ID, *s)
		}
		if j.CreatedAt.IsZero() {
			return nil, fmt.Errorf("journal observation %d: missing created_at", i)
		}
	}
	sort.SliceStable(journals, func(i, j int) bool {
		return journals[i].CreatedAt.Before(journals[j].CreatedAt)
	})

	return &snapshot{window: in.AnalysisWindow, moods: moods, journals: journals}, nil
}

// analyzer computes one factor from a snapshot
type analyzer func(e *Engine, s *snapshot) Factor

// analyzers holds one entry per factor type, in output order
var analyzers = [...]analyzer{
	(*Engine).analyzeMood,
	(*Engine).analyzeSentiment,
	(*Engine).analyzeStressKeywords,
	(*Engine).analyzeFrequency,
	(*Engine).analyzeTrend,
}

func (e *Engine) analyze(s *snapshot) []Factor {
	factors := make([]Factor, len(analyzers))
	for i, fn := range analyzers {
		factors[i] = fn(e, s)
	}
	return factors
}

func (e *Engine) analyzeMood(s *snapshot) Factor {
	if len(s.moods) == 0 {
		return degenerateFactor(FactorMoodDecline, moodThreshold, "no mood check-ins in the analysis window")
	}

	values := make([]float64, len(s.moods))
	for i, m := range s.moods {
		values[i] = m.ordinal
	}
	avg := stat.Mean(values, nil)

	return Factor{
		Type:         FactorMoodDecline,
		Weight:       e.config.Weights.Mood,
		CurrentValue: avg,
		Threshold:    moodThreshold,
		Trend:        trendFromShift(endsShift(values, moodTrendSpan), moodTrendBand),
		Description:  fmt.Sprintf("average mood %.2f/5 over %d check-ins", avg, len(values)),
	}
}

func (e *Engine) analyzeSentiment(s *snapshot) Factor {
	var values []float64
	for _, j := range s.journals {
		if j.SentimentScore != nil {
			values = append(values, *j.SentimentScore)
		}
	}
	if len(values) == 0 {
		return degenerateFactor(FactorNegativeSentiment, sentimentThreshold, "no journal entries with sentiment analysis")
	}

	avg := stat.Mean(values, nil)

	return Factor{
		Type:         FactorNegativeSentiment,
		Weight:       e.config.Weights.Sentiment,
		CurrentValue: avg,
		Threshold:    sentimentThreshold,
		Trend:        trendFromShift(endsShift(values, sentimentTrendSpan), sentimentTrendBand),
		Description:  fmt.Sprintf("average journal sentiment %.2f over %d entries", avg, len(values)),
	}
}

func (e *Engine) analyzeStressKeywords(s *snapshot) Factor {
	n := len(s.journals)
	if n == 0 {
		return degenerateFactor(FactorStressKeywords, stressThreshold, "no journal entries to scan")
	}

	counts := make([]float64, n)
	for i, j := range s.journals {
		counts[i] = float64(e.lexicon.Count(j.Content))
	}
	total := floats.Sum(counts)
	density := total / float64(n)

	trend := TrendStable
	if n >= 2 {
		half := n / 2
		first := floats.Sum(counts[:half]) / float64(half)
		second := floats.Sum(counts[half:]) / float64(n-half)
		// rising density is a worsening signal
		trend = trendFromShift(first-second, stressTrendBand)
	}

	return Factor{
		Type:         FactorStressKeywords,
		Weight:       e.config.Weights.StressKeyword,
		CurrentValue: density,
		Threshold:    stressThreshold,
		Trend:        trend,
		Description:  fmt.Sprintf("%d stress keywords across %d entries (%.2f per entry)", int(total), n, density),
	}
}

func (e *Engine) analyzeFrequency(s *snapshot) Factor {
	days := s.window.Days
	n := len(s.journals)
	perDay := float64(n) / float64(days)

	distinct := make(map[string]bool)
	for _, j := range s.journals {
		distinct[dayKey(j.CreatedAt)] = true
	}

	start := s.window.StartDate()
	recentFrom := s.window.EndDate.AddDate(0, 0, -frequencyTrendDays)
	earlyUntil := start.AddDate(0, 0, frequencyTrendDays)
	recent, early := 0, 0
	for _, j := range s.journals {
		if j.CreatedAt.After(recentFrom) && !j.CreatedAt.After(s.window.EndDate) {
			recent++
		}
		if !j.CreatedAt.Before(start) && j.CreatedAt.Before(earlyUntil) {
			early++
		}
	}

	return Factor{
		Type:         FactorJournalFrequency,
		Weight:       e.config.Weights.Frequency,
		CurrentValue: perDay,
		Threshold:    frequencyThreshold,
		Trend:        trendFromShift(float64(recent-early), frequencyTrendBand),
		Description:  fmt.Sprintf("%d entries on %d distinct days (%.2f per day)", n, len(distinct), perDay),
	}
}

// analyzeTrend fits a least-squares line through the merged daily series
// moodOrdinal + 2*sentiment. Days without a mood check-in count as neutral.
func (e *Engine) analyzeTrend(s *snapshot) Factor {
	type day struct {
		moods      []float64
		sentiments []float64
	}
	byDay := make(map[string]*day)
	get := func(t time.Time) *day {
		k := dayKey(t)
		d, ok := byDay[k]
		if !ok {
			d = &day{}
			byDay[k] = d
		}
		return d
	}
	for _, m := range s.moods {
		d := get(m.at)
		d.moods = append(d.moods, m.ordinal)
	}
	for _, j := range s.journals {
		if j.SentimentScore != nil {
			d := get(j.CreatedAt)
			d.sentiments = append(d.sentiments, *j.SentimentScore)
		}
	}

	if len(byDay) < minTrendPoints {
		return degenerateFactor(FactorTrend, trendThreshold, "insufficient data for trend analysis")
	}

	keys := make([]string, 0, len(byDay))
	for k := range byDay {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	xs := make([]float64, len(keys))
	ys := make([]float64, len(keys))
	for i, k := range keys {
		d := byDay[k]
		mood := float64(models.NeutralMoodOrdinal)
		if len(d.moods) > 0 {
			mood = stat.Mean(d.moods, nil)
		}
		sentiment := 0.0
		if len(d.sentiments) > 0 {
			sentiment = stat.Mean(d.sentiments, nil)
		}
		xs[i] = float64(i)
		ys[i] = mood + 2*sentiment
	}

	_, slope := stat.LinearRegression(xs, ys, nil, false)
	decline := math.Max(0, -slope)

	return Factor{
		Type:         FactorTrend,
		Weight:       e.config.Weights.Trend,
		CurrentValue: decline,
		Threshold:    trendThreshold,
		Trend:        trendFromShift(slope, trendThreshold),
		Description:  fmt.Sprintf("daily wellbeing slope %.3f over %d days", slope, len(keys)),
	}
}

// degenerateFactor is emitted when an analyzer has no data; zero weight
// keeps it out of the weighted score.
func degenerateFactor(t FactorType, threshold float64, note string) Factor {
	return Factor{
		Type:        t,
		Threshold:   threshold,
		Trend:       TrendStable,
		Description: note,
	}
}

// endsShift returns mean(last span values) - mean(first span values)
func endsShift(values []float64, span int) float64 {
	if len(values) < 2 {
		return 0
	}
	k := span
	if k > len(values) {
		k = len(values)
	}
	return stat.Mean(values[len(values)-k:], nil) - stat.Mean(values[:k], nil)
}

func trendFromShift(shift, band float64) Trend {
	switch {
	case shift > band:
		return TrendImproving
	case shift < -band:
		return TrendDeclining
	default:
		return TrendStable
	}
}

func dayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
