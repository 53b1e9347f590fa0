package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/wandermate/wandermate/internal/session"
)

// CleanupJob removes sessions whose trip end date has passed. The store's
// TTL is the backstop; this job retires searches early once the trip is over.
type CleanupJob struct {
	sessions *session.Service
	logger   zerolog.Logger

	// now is swappable for tests.
	now func() time.Time
}

// NewCleanupJob creates a new session cleanup job.
func NewCleanupJob(sessions *session.Service, logger zerolog.Logger) *CleanupJob {
	return &CleanupJob{
		sessions: sessions,
		logger:   logger,
		now:      time.Now,
	}
}

// CleanupResult contains the result of one cleanup run.
type CleanupResult struct {
	Examined int
	Removed  int
	Failed   int
	Duration time.Duration
}

// Run deletes every active session whose end date is before today.
func (j *CleanupJob) Run(ctx context.Context) (*CleanupResult, error) {
	start := j.now()

	// An empty exclusion lists every active session.
	active, err := j.sessions.ListCandidates(ctx, "")
	if err != nil {
		return nil, err
	}

	today := start.UTC().Truncate(24 * time.Hour)
	result := &CleanupResult{Examined: len(active)}

	for _, s := range active {
		end, err := time.Parse("2006-01-02", s.EndDate)
		if err != nil {
			// Unparseable end dates are left for the TTL to collect.
			continue
		}
		if !end.Before(today) {
			continue
		}

		if err := j.sessions.Delete(ctx, s.UserID); err != nil {
			result.Failed++
			j.logger.Warn().Err(err).Str("user_id", s.UserID).Msg("stale session delete failed")
			continue
		}
		result.Removed++
	}

	result.Duration = time.Since(start)

	j.logger.Info().
		Int("examined", result.Examined).
		Int("removed", result.Removed).
		Int("failed", result.Failed).
		Dur("duration", result.Duration).
		Msg("session cleanup completed")

	return result, nil
}
