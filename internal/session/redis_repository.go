package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/wandermate/wandermate/internal/matching"
)

const (
	// sessionKeyPrefix is the Redis key namespace for travel sessions.
	sessionKeyPrefix = "session:user:"

	// scanBatchSize is the COUNT hint passed to SCAN when listing sessions.
	scanBatchSize = 100
)

// RedisRepository stores travel sessions as JSON values in Redis with a TTL.
type RedisRepository struct {
	client *redis.Client
	logger zerolog.Logger
}

// NewRedisRepository creates a Redis-backed session repository.
func NewRedisRepository(client *redis.Client, logger zerolog.Logger) *RedisRepository {
	return &RedisRepository{client: client, logger: logger}
}

func sessionKey(userID string) string {
	return sessionKeyPrefix + userID
}

// Get retrieves the active session for a user.
func (r *RedisRepository) Get(ctx context.Context, userID string) (*matching.TravelSession, error) {
	data, err := r.client.Get(ctx, sessionKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session %s: %w", userID, err)
	}

	var s matching.TravelSession
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", userID, err)
	}
	return &s, nil
}

// Put stores a session with the given TTL, replacing any existing one.
func (r *RedisRepository) Put(ctx context.Context, s *matching.TravelSession, ttl time.Duration) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", s.UserID, err)
	}

	if err := r.client.Set(ctx, sessionKey(s.UserID), data, ttl).Err(); err != nil {
		return fmt.Errorf("store session %s: %w", s.UserID, err)
	}
	return nil
}

// Delete removes a user's session immediately.
func (r *RedisRepository) Delete(ctx context.Context, userID string) error {
	if err := r.client.Del(ctx, sessionKey(userID)).Err(); err != nil {
		return fmt.Errorf("delete session %s: %w", userID, err)
	}
	return nil
}

// Expire shortens the remaining lifetime of a user's session.
func (r *RedisRepository) Expire(ctx context.Context, userID string, ttl time.Duration) error {
	ok, err := r.client.Expire(ctx, sessionKey(userID), ttl).Result()
	if err != nil {
		return fmt.Errorf("expire session %s: %w", userID, err)
	}
	if !ok {
		return ErrSessionNotFound
	}
	return nil
}

// ListActive returns all active sessions except the excluded user's.
// Uses SCAN rather than KEYS so listing does not block the server on large
// keyspaces. Corrupt records are logged and skipped.
func (r *RedisRepository) ListActive(ctx context.Context, excludeUserID string) ([]*matching.TravelSession, error) {
	var sessions []*matching.TravelSession

	iter := r.client.Scan(ctx, 0, sessionKeyPrefix+"*", scanBatchSize).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		userID := strings.TrimPrefix(key, sessionKeyPrefix)
		if userID == excludeUserID {
			continue
		}

		data, err := r.client.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			// Expired between SCAN and GET.
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("get session %s: %w", userID, err)
		}

		var s matching.TravelSession
		if err := json.Unmarshal(data, &s); err != nil {
			r.logger.Warn().Err(err).
				Str("key", key).
				Msg("skipping corrupt session record")
			continue
		}
		sessions = append(sessions, &s)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scan sessions: %w", err)
	}

	return sessions, nil
}
