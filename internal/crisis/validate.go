package crisis

import (
	"fmt"
	"strings"
)

const minWindowDays = 3

// validateInput checks the snapshot before any analyzer runs
func validateInput(in Input, cfg Config) error {
	if strings.TrimSpace(in.UserID) == "" {
		return &ValidationError{Field: "user_id", Reason: "is required"}
	}

	if in.AnalysisWindow.Days == 0 {
		return &ValidationError{Field: "analysis_window.days", Reason: "is required"}
	}
	if in.AnalysisWindow.Days < minWindowDays {
		return &ValidationError{
			Field:  "analysis_window.days",
			Reason: fmt.Sprintf("must be at least %d, got %d", minWindowDays, in.AnalysisWindow.Days),
		}
	}

	if n, required := in.DataPoints(), cfg.AnalysisWindow.MinimumDataPoints; n < required {
		return &ValidationError{
			Field:  "observations",
			Reason: fmt.Sprintf("insufficient data points: %d < %d", n, required),
		}
	}

	return nil
}
