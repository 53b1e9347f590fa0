// Package worker provides background job processing: match alerts when a new
// travel session appears, and cleanup of sessions whose trip already ended.
package worker

import "time"

// Job types carried in Pub/Sub messages.
const (
	JobTypeMatchAlert     = "match_alert"
	JobTypeSessionCleanup = "session_cleanup"
)

// AlertConfig holds configuration for the match alert job.
type AlertConfig struct {
	// ScoreThreshold is the minimum compatibility score that triggers an
	// alert to an existing searcher (default: 0.5).
	ScoreThreshold float64

	// Timeout bounds one alert job run (default: 30s).
	Timeout time.Duration
}

// DefaultAlertConfig returns the default alert job configuration.
func DefaultAlertConfig() AlertConfig {
	return AlertConfig{
		ScoreThreshold: 0.5,
		Timeout:        30 * time.Second,
	}
}
