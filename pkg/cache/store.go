package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store is a best-effort TTL key/value store. A store failure is reported the
// same way as a miss so callers never have to branch on cache availability.
type Store interface {
	Get(ctx context.Context, key string, dest interface{}) bool
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration)
}

type RedisStore struct {
	rdb    *redis.Client
	logger *log.Logger
}

var _ Store = &RedisStore{}

func NewRedisStore(rdb *redis.Client, logger *log.Logger) *RedisStore {
	return &RedisStore{
		rdb:    rdb,
		logger: logger,
	}
}

func (s *RedisStore) Get(ctx context.Context, key string, dest interface{}) bool {
	raw, err := s.rdb.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Printf("[WARN] Cache get failed for %s: %v", key, err)
		}
		return false
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		s.logger.Printf("[WARN] Cache entry for %s is not decodable: %v", key, err)
		return false
	}
	return true
}

func (s *RedisStore) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	raw, err := json.Marshal(value)
	if err != nil {
		s.logger.Printf("[WARN] Cache value for %s is not encodable: %v", key, err)
		return
	}
	if err := s.rdb.Set(ctx, key, raw, ttl).Err(); err != nil {
		s.logger.Printf("[WARN] Cache set failed for %s: %v", key, err)
	}
}
