package models

import (
	"fmt"
	"strings"
	"time"
)

// MoodLevel is the self-reported mood of a single check-in
type MoodLevel string

const (
	MoodPessimo   MoodLevel = "pessimo"
	MoodMal       MoodLevel = "mal"
	MoodNeutro    MoodLevel = "neutro"
	MoodBem       MoodLevel = "bem"
	MoodExcelente MoodLevel = "excelente"
)

// NeutralMoodOrdinal is the ordinal used when a day has no mood check-in
const NeutralMoodOrdinal = 3

// moodAliases maps labels sent by older clients onto the canonical levels
var moodAliases = map[string]MoodLevel{
	"muito_ruim": MoodPessimo,
	"ruim":       MoodMal,
	"ok":         MoodNeutro,
	"bom":        MoodBem,
	"muito_bom":  MoodExcelente,
}

// Ordinal maps a mood level onto the 1-5 scale (pessimo=1 ... excelente=5)
func (m MoodLevel) Ordinal() (int, error) {
	level := MoodLevel(strings.ToLower(strings.TrimSpace(string(m))))
	if alias, ok := moodAliases[string(level)]; ok {
		level = alias
	}

	switch level {
	case MoodPessimo:
		return 1, nil
	case MoodMal:
		return 2, nil
	case MoodNeutro:
		return 3, nil
	case MoodBem:
		return 4, nil
	case MoodExcelente:
		return 5, nil
	default:
		return 0, fmt.Errorf("unknown mood level %q", string(m))
	}
}

// Period is the part of the day a mood was logged in
type Period string

const (
	PeriodManha Period = "manha"
	PeriodTarde Period = "tarde"
	PeriodNoite Period = "noite"
)

// MoodObservation represents one mood check-in
type MoodObservation struct {
	MoodLevel       MoodLevel `json:"mood_level"`
	Period          Period    `json:"period"`
	Date            time.Time `json:"date"`
	TimestampMillis int64     `json:"timestamp_millis"`
}

// Time returns the instant of the check-in, preferring the millisecond timestamp
func (m MoodObservation) Time() time.Time {
	if m.TimestampMillis > 0 {
		return time.UnixMilli(m.TimestampMillis).UTC()
	}
	return m.Date
}

// TagCategory classifies a mood tag attached to a journal entry
type TagCategory string

const (
	TagPositive TagCategory = "positive"
	TagNegative TagCategory = "negative"
	TagNeutral  TagCategory = "neutral"
)

// MoodTag is a label attached to a journal entry
type MoodTag struct {
	Label     string      `json:"label"`
	Category  TagCategory `json:"category"`
	Intensity int         `json:"intensity"`
}

// JournalObservation represents one journal entry
type JournalObservation struct {
	ID             string    `json:"id"`
	Content        string    `json:"content"`
	SentimentScore *float64  `json:"sentiment_score"` // nil when not analyzed
	WordCount      int       `json:"word_count"`
	CreatedAt      time.Time `json:"created_at"`
	MoodTags       []MoodTag `json:"mood_tags,omitempty"`
}

// AnalysisWindow is the span of history considered for one prediction
type AnalysisWindow struct {
	Days    int       `json:"days"`
	EndDate time.Time `json:"end_date"`
}

// StartDate returns EndDate minus Days
func (w AnalysisWindow) StartDate() time.Time {
	return w.EndDate.AddDate(0, 0, -w.Days)
}

// UserProfile carries optional context about the user
type UserProfile struct {
	Name     string `json:"name,omitempty"`
	Timezone string `json:"timezone,omitempty"`
}
