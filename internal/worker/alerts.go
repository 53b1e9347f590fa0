package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/wandermate/wandermate/internal/matching"
	"github.com/wandermate/wandermate/internal/notify"
	"github.com/wandermate/wandermate/internal/profile"
	"github.com/wandermate/wandermate/internal/session"
)

// AlertJob notifies existing searchers when a newly created session is a
// good match for their active search.
type AlertJob struct {
	config   AlertConfig
	sessions *session.Service
	profiles *profile.Service
	sender   notify.Sender
	logger   zerolog.Logger

	metrics *AlertMetrics
}

// AlertMetrics tracks alert job statistics.
type AlertMetrics struct {
	mu sync.RWMutex

	TotalRuns        int64
	AlertsSent       int64
	AlertsFailed     int64
	CandidatesScored int64

	LastRunAt       time.Time
	LastRunDuration time.Duration
}

// Snapshot returns a copy of the current metrics.
func (m *AlertMetrics) Snapshot() AlertMetrics {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return AlertMetrics{
		TotalRuns:        m.TotalRuns,
		AlertsSent:       m.AlertsSent,
		AlertsFailed:     m.AlertsFailed,
		CandidatesScored: m.CandidatesScored,
		LastRunAt:        m.LastRunAt,
		LastRunDuration:  m.LastRunDuration,
	}
}

// AlertJobConfig holds configuration for creating an AlertJob.
type AlertJobConfig struct {
	Config   AlertConfig
	Sessions *session.Service
	Profiles *profile.Service
	Sender   notify.Sender
	Logger   zerolog.Logger
}

// NewAlertJob creates a new match alert job processor.
func NewAlertJob(cfg AlertJobConfig) *AlertJob {
	config := cfg.Config
	defaults := DefaultAlertConfig()
	if config.ScoreThreshold == 0 {
		config.ScoreThreshold = defaults.ScoreThreshold
	}
	if config.Timeout == 0 {
		config.Timeout = defaults.Timeout
	}
	return &AlertJob{
		config:   config,
		sessions: cfg.Sessions,
		profiles: cfg.Profiles,
		sender:   cfg.Sender,
		logger:   cfg.Logger,
		metrics:  &AlertMetrics{},
	}
}

// AlertResult contains the result of one alert job run.
type AlertResult struct {
	NewSessionUser string
	Scored         int
	Sent           int
	Failed         int
	Duration       time.Duration
}

// Run evaluates the newly created session of userID against every other
// active search and alerts the owners it matches well with.
func (j *AlertJob) Run(ctx context.Context, userID string) (*AlertResult, error) {
	start := time.Now()

	if j.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.config.Timeout)
		defer cancel()
	}

	newSession, err := j.sessions.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			// The session expired or was deleted before we got here.
			j.logger.Debug().Str("user_id", userID).Msg("session gone before alert run")
			return &AlertResult{NewSessionUser: userID, Duration: time.Since(start)}, nil
		}
		return nil, err
	}

	others, err := j.sessions.ListCandidates(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := &AlertResult{NewSessionUser: userID}
	ranker := matching.NewRanker(matching.RankerConfig{Logger: j.logger, Limit: 1})

	for _, other := range others {
		// A stored search can carry no destination; there is nothing to
		// put in an alert for it.
		if other.Destination == nil {
			continue
		}

		// Rank the newcomer among this searcher's candidates so the same
		// exclusion rules apply (own city, no date overlap).
		ranked := ranker.Rank(ctx, other, []*matching.TravelSession{newSession}, nil)
		result.Scored++

		if len(ranked) == 0 || ranked[0].Score < j.config.ScoreThreshold {
			continue
		}

		if err := j.alert(ctx, other, newSession); err != nil {
			result.Failed++
			j.logger.Warn().Err(err).
				Str("recipient", other.UserID).
				Msg("match alert delivery failed")
			continue
		}
		result.Sent++
	}

	result.Duration = time.Since(start)
	j.recordMetrics(result)

	j.logger.Info().
		Str("user_id", userID).
		Int("scored", result.Scored).
		Int("sent", result.Sent).
		Int("failed", result.Failed).
		Dur("duration", result.Duration).
		Msg("match alert job completed")

	return result, nil
}

func (j *AlertJob) alert(ctx context.Context, recipient, newSession *matching.TravelSession) error {
	email := ""
	if p, err := j.profiles.Get(ctx, recipient.UserID); err == nil {
		email = p.Email
	}

	destination := recipient.Destination.Name
	return j.sender.Send(ctx, notify.NewMatchAlert(recipient.UserID, email, destination, 1))
}

func (j *AlertJob) recordMetrics(result *AlertResult) {
	j.metrics.mu.Lock()
	defer j.metrics.mu.Unlock()

	j.metrics.TotalRuns++
	j.metrics.AlertsSent += int64(result.Sent)
	j.metrics.AlertsFailed += int64(result.Failed)
	j.metrics.CandidatesScored += int64(result.Scored)
	j.metrics.LastRunAt = time.Now()
	j.metrics.LastRunDuration = result.Duration
}

// Metrics returns the job's metrics tracker.
func (j *AlertJob) Metrics() *AlertMetrics {
	return j.metrics
}
