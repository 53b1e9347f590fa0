// Package session manages ephemeral travel-session records: short-lived
// per-user trip-search intents stored in a key-value cache with a TTL.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/wandermate/wandermate/internal/matching"
)

// Repository errors.
var (
	// ErrSessionNotFound indicates no active session exists for the user.
	ErrSessionNotFound = errors.New("session not found")
)

// Repository defines storage operations for travel sessions.
//
// Sessions are keyed by user ID and expire automatically; a Put overwrites
// any previous session for the same user. Concurrent writers may overwrite a
// session between a read and a subsequent read: callers must tolerate
// operating on a possibly-stale snapshot.
type Repository interface {
	// Get retrieves the active session for a user.
	// Returns ErrSessionNotFound if none exists or it has expired.
	Get(ctx context.Context, userID string) (*matching.TravelSession, error)

	// Put stores a session with the given time-to-live, replacing any
	// existing session for the same user.
	Put(ctx context.Context, s *matching.TravelSession, ttl time.Duration) error

	// Delete removes a user's session immediately.
	Delete(ctx context.Context, userID string) error

	// Expire shortens the remaining lifetime of a user's session.
	// Returns ErrSessionNotFound if no session exists.
	Expire(ctx context.Context, userID string, ttl time.Duration) error

	// ListActive returns all active sessions except the one belonging to
	// excludeUserID. Records that fail to decode are skipped.
	ListActive(ctx context.Context, excludeUserID string) ([]*matching.TravelSession, error)
}
