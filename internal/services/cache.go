package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

var ErrCacheMiss = errors.New("cache miss")

// CacheService stores JSON responses in Redis. A nil client turns every
// read into a miss and every write into a no-op.
type CacheService struct {
	client *redis.Client
	ttl    time.Duration
	logger *logrus.Logger
}

func NewCacheService(client *redis.Client, ttl time.Duration, logger *logrus.Logger) *CacheService {
	return &CacheService{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// NewRedisClient parses a redis:// URL and pings the server.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

func (s *CacheService) Enabled() bool {
	return s != nil && s.client != nil
}

func (s *CacheService) Set(ctx context.Context, key string, value interface{}) error {
	if !s.Enabled() {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}
	return nil
}

func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) error {
	if !s.Enabled() {
		return ErrCacheMiss
	}

	data, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCacheMiss
		}
		return fmt.Errorf("failed to get cache: %w", err)
	}

	if err := json.Unmarshal([]byte(data), dest); err != nil {
		return fmt.Errorf("failed to unmarshal value: %w", err)
	}
	return nil
}

func (s *CacheService) Delete(ctx context.Context, keys ...string) error {
	if !s.Enabled() || len(keys) == 0 {
		return nil
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete cache: %w", err)
	}
	return nil
}

func (s *CacheService) Ping(ctx context.Context) error {
	if !s.Enabled() {
		return nil
	}
	return s.client.Ping(ctx).Err()
}

// Remember returns the cached value for key, or computes, stores and
// returns it. Cache failures are logged and never fail the call.
func (s *CacheService) Remember(ctx context.Context, key string, dest interface{}, compute func() (interface{}, error)) (bool, error) {
	if err := s.Get(ctx, key, dest); err == nil {
		return true, nil
	} else if !errors.Is(err, ErrCacheMiss) {
		s.logger.WithField("key", key).Warnf("Cache read failed: %v", err)
	}

	value, err := compute()
	if err != nil {
		return false, err
	}

	if err := s.Set(ctx, key, value); err != nil {
		s.logger.WithField("key", key).Warnf("Cache write failed: %v", err)
	}

	data, err := json.Marshal(value)
	if err != nil {
		return false, fmt.Errorf("failed to marshal value: %w", err)
	}
	return false, json.Unmarshal(data, dest)
}

// CompsCacheKey builds the key of a comparison response.
func CompsCacheKey(kind, playerKey string, k int) string {
	return fmt.Sprintf("proscout:comps:%s:%s:%d", kind, strings.ReplaceAll(playerKey, " ", "_"), k)
}
