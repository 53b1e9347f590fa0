package geocoding

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
	// cacheKeyPrefix namespaces geocoding results in Redis.
	cacheKeyPrefix = "geo:"

	// DefaultCacheTTL is how long resolved coordinates stay cached.
	// Cities do not move.
	DefaultCacheTTL = 30 * 24 * time.Hour
)

// ErrEmptyQuery indicates a blank location name.
var ErrEmptyQuery = errors.New("location name is empty")

// Cache metric labels.
const (
	metricProvider  = "geocode"
	metricOperation = "lookup"
)

// CacheMetrics records cache outcomes for geocode lookups.
type CacheMetrics interface {
	RecordCacheHit(provider, operation string)
	RecordCacheMiss(provider, operation string)
}

// ServiceConfig holds configuration for the geocoding service.
type ServiceConfig struct {
	Provider Provider

	// Cache is optional; when nil, every lookup hits the provider.
	Cache *redis.Client

	// Metrics is optional; when set, cache hits and misses are recorded.
	Metrics CacheMetrics

	Logger zerolog.Logger

	// CacheTTL overrides DefaultCacheTTL when non-zero.
	CacheTTL time.Duration
}

// Service resolves location names to coordinates, caching results in Redis.
type Service struct {
	provider Provider
	cache    *redis.Client
	metrics  CacheMetrics
	logger   zerolog.Logger
	cacheTTL time.Duration
}

// NewService creates a new geocoding service.
func NewService(cfg ServiceConfig) *Service {
	ttl := cfg.CacheTTL
	if ttl == 0 {
		ttl = DefaultCacheTTL
	}
	return &Service{
		provider: cfg.Provider,
		cache:    cfg.Cache,
		metrics:  cfg.Metrics,
		logger:   cfg.Logger,
		cacheTTL: ttl,
	}
}

// Lookup resolves a location name to coordinates. A nil result with a nil
// error means the provider found nothing.
func (s *Service) Lookup(ctx context.Context, name string) (*matching.Coordinate, error) {
	query := strings.TrimSpace(name)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	key := cacheKey(query)

	if coord := s.cachedLookup(ctx, key); coord != nil {
		s.recordCacheOutcome(true)
		return coord, nil
	}
	s.recordCacheOutcome(false)

	places, err := s.provider.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("geocode %q: %w", query, err)
	}
	if len(places) == 0 {
		return nil, nil
	}

	coord := &matching.Coordinate{Lat: places[0].Lat, Lon: places[0].Lon}
	s.storeInCache(ctx, key, coord)
	return coord, nil
}

// cachedLookup returns the cached coordinate, or nil on miss or cache error.
func (s *Service) cachedLookup(ctx context.Context, key string) *matching.Coordinate {
	if s.cache == nil {
		return nil
	}

	raw, err := s.cache.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn().Err(err).Str("key", key).Msg("geocode cache read failed")
		}
		return nil
	}

	var coord matching.Coordinate
	if err := json.Unmarshal([]byte(raw), &coord); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("corrupt geocode cache entry")
		return nil
	}
	return &coord
}

// storeInCache is best-effort; a cache write failure never fails the lookup.
func (s *Service) storeInCache(ctx context.Context, key string, coord *matching.Coordinate) {
	if s.cache == nil {
		return
	}

	data, err := json.Marshal(coord)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, s.cacheTTL).Err(); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("geocode cache write failed")
	}
}

// recordCacheOutcome is a no-op without both a cache and a metrics sink.
func (s *Service) recordCacheOutcome(hit bool) {
	if s.metrics == nil || s.cache == nil {
		return
	}
	if hit {
		s.metrics.RecordCacheHit(metricProvider, metricOperation)
		return
	}
	s.metrics.RecordCacheMiss(metricProvider, metricOperation)
}

func cacheKey(query string) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(query)), "_")
	return cacheKeyPrefix + normalized
}
