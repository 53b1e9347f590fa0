package session

import (
	"context"
	"sync"
	"time"

	"github.com/wandermate/wandermate/internal/matching"
)

// InMemoryRepository is a Repository implementation backed by a map,
// intended for tests and local development.
type InMemoryRepository struct {
	mu       sync.RWMutex
	sessions map[string]memoryEntry
}

type memoryEntry struct {
	session   *matching.TravelSession
	expiresAt time.Time
}

// NewInMemoryRepository creates an empty in-memory session repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{sessions: make(map[string]memoryEntry)}
}

// Get retrieves the active session for a user.
func (r *InMemoryRepository) Get(_ context.Context, userID string) (*matching.TravelSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.sessions[userID]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, ErrSessionNotFound
	}
	copied := *entry.session
	return &copied, nil
}

// Put stores a session with the given TTL.
func (r *InMemoryRepository) Put(_ context.Context, s *matching.TravelSession, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *s
	r.sessions[s.UserID] = memoryEntry{
		session:   &copied,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

// Delete removes a user's session.
func (r *InMemoryRepository) Delete(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, userID)
	return nil
}

// Expire shortens the remaining lifetime of a user's session.
func (r *InMemoryRepository) Expire(_ context.Context, userID string, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.sessions[userID]
	if !ok || time.Now().After(entry.expiresAt) {
		return ErrSessionNotFound
	}
	entry.expiresAt = time.Now().Add(ttl)
	r.sessions[userID] = entry
	return nil
}

// ListActive returns all unexpired sessions except the excluded user's.
func (r *InMemoryRepository) ListActive(_ context.Context, excludeUserID string) ([]*matching.TravelSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	now := time.Now()
	var sessions []*matching.TravelSession
	for userID, entry := range r.sessions {
		if userID == excludeUserID || now.After(entry.expiresAt) {
			continue
		}
		copied := *entry.session
		sessions = append(sessions, &copied)
	}
	return sessions, nil
}
