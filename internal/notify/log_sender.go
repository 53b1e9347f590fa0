package notify

import (
	"context"

	"github.com/rs/zerolog"
)

// LogSender writes notifications to the log instead of delivering them.
// Used in development and tests.
type LogSender struct {
	logger zerolog.Logger
}

// NewLogSender creates a log-backed sender.
func NewLogSender(logger zerolog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// Send logs the notification.
func (s *LogSender) Send(_ context.Context, n Notification) error {
	s.logger.Info().
		Str("user_id", n.UserID).
		Str("subject", n.Subject).
		Str("body", n.Body).
		Msg("match notification (log delivery)")
	return nil
}
