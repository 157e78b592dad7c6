package itinerarycache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"

	"github.com/FACorreiaa/go-travel-itinerary/internal/types"
)

// Store is the persisted cache contract the pipeline needs: get, set, expire.
// A miss is reported as types.ErrCacheMiss; any other error is an
// infrastructure failure the caller must treat as a miss (read) or drop
// silently (write).
type Store interface {
	Get(ctx context.Context, key string) (*types.Itinerary, error)
	Set(ctx context.Context, key string, itinerary *types.Itinerary, ttl time.Duration) error
}

// Ensure implementations satisfy the interface
var (
	_ Store = (*RedisStore)(nil)
	_ Store = (*MemoryStore)(nil)
)

// RedisStore keeps itineraries in Redis, the deployment default.
type RedisStore struct {
	client *redis.Client
	logger *slog.Logger
}

func NewRedisStore(client *redis.Client, logger *slog.Logger) *RedisStore {
	return &RedisStore{client: client, logger: logger}
}

func (s *RedisStore) Get(ctx context.Context, key string) (*types.Itinerary, error) {
	raw, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, types.ErrCacheMiss
		}
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var itinerary types.Itinerary
	if err := json.Unmarshal([]byte(raw), &itinerary); err != nil {
		// A corrupt entry is unusable; report it as a miss so the
		// pipeline regenerates and overwrites it.
		s.logger.WarnContext(ctx, "Dropping corrupt cache entry",
			slog.String("key", key), slog.Any("error", err))
		return nil, types.ErrCacheMiss
	}
	return &itinerary, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, itinerary *types.Itinerary, ttl time.Duration) error {
	payload, err := json.Marshal(itinerary)
	if err != nil {
		return fmt.Errorf("failed to marshal itinerary for cache: %w", err)
	}
	if err := s.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// MemoryStore is the in-process fallback used when Redis is not configured,
// e.g. in local development and tests.
type MemoryStore struct {
	cache *gocache.Cache
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{cache: gocache.New(gocache.NoExpiration, 10*time.Minute)}
}

func (s *MemoryStore) Get(_ context.Context, key string) (*types.Itinerary, error) {
	v, ok := s.cache.Get(key)
	if !ok {
		return nil, types.ErrCacheMiss
	}
	itinerary, ok := v.(*types.Itinerary)
	if !ok {
		return nil, types.ErrCacheMiss
	}
	return itinerary, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, itinerary *types.Itinerary, ttl time.Duration) error {
	s.cache.Set(key, itinerary, ttl)
	return nil
}
