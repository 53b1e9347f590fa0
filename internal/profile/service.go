package profile

import (
	"context"
	"time"

	"github.com/wandermate/wandermate/internal/matching"
)

// Service provides profile operations, including the attribute snapshot
// consumed at session creation.
type Service struct {
	repo Repository
}

// NewService creates a new profile service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Get retrieves a user's profile.
func (s *Service) Get(ctx context.Context, userID string) (*Profile, error) {
	return s.repo.Get(ctx, userID)
}

// Upsert creates or replaces a user's profile, stamping timestamps.
func (s *Service) Upsert(ctx context.Context, p *Profile) (*Profile, error) {
	now := time.Now().UTC()

	existing, err := s.repo.Get(ctx, p.UserID)
	switch {
	case err == nil:
		p.CreatedAt = existing.CreatedAt
	case err == ErrProfileNotFound:
		p.CreatedAt = now
	default:
		return nil, err
	}
	p.UpdatedAt = now

	if err := s.repo.Upsert(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes a user's profile.
func (s *Service) Delete(ctx context.Context, userID string) error {
	return s.repo.Delete(ctx, userID)
}

// Snapshot returns the static attributes and interest tags copied into a
// new travel session.
func (s *Service) Snapshot(ctx context.Context, userID string) (matching.StaticAttributes, []string, error) {
	p, err := s.repo.Get(ctx, userID)
	if err != nil {
		return matching.StaticAttributes{}, nil, err
	}
	return p.StaticAttributes(), append([]string(nil), p.Interests...), nil
}
