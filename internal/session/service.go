package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/wandermate/wandermate/internal/matching"
)

// DefaultTTL is how long a travel session lives unless overridden.
const DefaultTTL = 7 * 24 * time.Hour

// ErrUnknownDestination indicates the destination name could not be geocoded.
var ErrUnknownDestination = errors.New("destination could not be resolved")

// Geocoder resolves a place name to coordinates. A nil result with a nil
// error means the place was not found.
type Geocoder interface {
	Lookup(ctx context.Context, name string) (*matching.Coordinate, error)
}

// AttributeSource supplies the profile snapshot taken at session creation:
// the user's static attributes and interest tags.
type AttributeSource interface {
	Snapshot(ctx context.Context, userID string) (matching.StaticAttributes, []string, error)
}

// Publisher emits session lifecycle events for background processing.
type Publisher interface {
	SessionCreated(ctx context.Context, userID string) error
}

// ValidationError reports an invalid session-creation input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// CreateInput is the payload for starting a new trip search.
type CreateInput struct {
	UserID          string
	DestinationName string
	Budget          float64
	StartDate       string
	EndDate         string
}

// ServiceConfig holds configuration for the session service.
type ServiceConfig struct {
	Repository Repository
	Geocoder   Geocoder
	Attributes AttributeSource

	// Publisher is optional; when set, a session-created event is emitted
	// after every successful Create.
	Publisher Publisher

	Logger zerolog.Logger

	// TTL is the session lifetime (default: DefaultTTL).
	TTL time.Duration
}

// Service owns the travel-session lifecycle: creation (geocoding the
// destination and snapshotting profile attributes), retrieval, deletion and
// administrative expiry.
type Service struct {
	repo       Repository
	geocoder   Geocoder
	attributes AttributeSource
	publisher  Publisher
	logger     zerolog.Logger
	ttl        time.Duration
}

// NewService creates a new session service.
func NewService(cfg ServiceConfig) *Service {
	ttl := cfg.TTL
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return &Service{
		repo:       cfg.Repository,
		geocoder:   cfg.Geocoder,
		attributes: cfg.Attributes,
		publisher:  cfg.Publisher,
		logger:     cfg.Logger,
		ttl:        ttl,
	}
}

// TTL returns the configured session lifetime.
func (s *Service) TTL() time.Duration {
	return s.ttl
}

// Create starts a new trip search for a user: the destination name is
// geocoded, the user's profile attributes are snapshotted, and the resulting
// session replaces any previous one.
func (s *Service) Create(ctx context.Context, input CreateInput) (*matching.TravelSession, error) {
	if err := validateCreateInput(input); err != nil {
		return nil, err
	}

	coord, err := s.geocoder.Lookup(ctx, input.DestinationName)
	if err != nil {
		return nil, fmt.Errorf("geocode destination: %w", err)
	}
	if coord == nil {
		return nil, ErrUnknownDestination
	}

	attrs, interests, err := s.attributes.Snapshot(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	sess := &matching.TravelSession{
		UserID: input.UserID,
		Destination: &matching.Destination{
			Name: input.DestinationName,
			Lat:  coord.Lat,
			Lon:  coord.Lon,
		},
		Budget:           input.Budget,
		StartDate:        input.StartDate,
		EndDate:          input.EndDate,
		Mode:             matching.ModeSolo,
		Interests:        interests,
		StaticAttributes: attrs,
	}

	if err := s.repo.Put(ctx, sess, s.ttl); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("user_id", input.UserID).
		Str("destination", input.DestinationName).
		Dur("ttl", s.ttl).
		Msg("travel session created")

	if s.publisher != nil {
		if err := s.publisher.SessionCreated(ctx, input.UserID); err != nil {
			// Event delivery is best-effort; the session itself is stored.
			s.logger.Warn().Err(err).
				Str("user_id", input.UserID).
				Msg("failed to publish session-created event")
		}
	}

	return sess, nil
}

// Get retrieves a user's active session.
func (s *Service) Get(ctx context.Context, userID string) (*matching.TravelSession, error) {
	return s.repo.Get(ctx, userID)
}

// Delete removes a user's session immediately.
func (s *Service) Delete(ctx context.Context, userID string) error {
	return s.repo.Delete(ctx, userID)
}

// ExpireNow forces a user's session to expire within the given grace
// period. Used by administrative tooling.
func (s *Service) ExpireNow(ctx context.Context, userID string, grace time.Duration) error {
	return s.repo.Expire(ctx, userID, grace)
}

// ListCandidates returns every active session except the requesting user's.
func (s *Service) ListCandidates(ctx context.Context, userID string) ([]*matching.TravelSession, error) {
	return s.repo.ListActive(ctx, userID)
}

func validateCreateInput(input CreateInput) error {
	if input.UserID == "" {
		return &ValidationError{Field: "userId", Message: "must not be empty"}
	}
	if input.DestinationName == "" {
		return &ValidationError{Field: "destinationName", Message: "must not be empty"}
	}
	if input.Budget < 0 {
		return &ValidationError{Field: "budget", Message: "must not be negative"}
	}

	start, err := time.Parse("2006-01-02", input.StartDate)
	if err != nil {
		return &ValidationError{Field: "startDate", Message: "must be an ISO date (YYYY-MM-DD)"}
	}
	end, err := time.Parse("2006-01-02", input.EndDate)
	if err != nil {
		return &ValidationError{Field: "endDate", Message: "must be an ISO date (YYYY-MM-DD)"}
	}
	if start.After(end) {
		return &ValidationError{Field: "startDate", Message: "must not be after endDate"}
	}
	return nil
}
