package services

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type cachedValue struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

func TestCacheServiceDisabled(t *testing.T) {
	ctx := context.Background()
	cache := NewCacheService(nil, time.Minute, quietLogger())

	assert.False(t, cache.Enabled())
	assert.NoError(t, cache.Set(ctx, "k", cachedValue{Name: "a"}))
	assert.NoError(t, cache.Delete(ctx, "k"))
	assert.NoError(t, cache.Ping(ctx))

	var dest cachedValue
	assert.ErrorIs(t, cache.Get(ctx, "k", &dest), ErrCacheMiss)

	var nilCache *CacheService
	assert.False(t, nilCache.Enabled())
}

func TestRememberComputesOnMiss(t *testing.T) {
	ctx := context.Background()
	cache := NewCacheService(nil, time.Minute, quietLogger())

	calls := 0
	compute := func() (interface{}, error) {
		calls++
		return cachedValue{Name: "Cooper Flagg", Score: 0.93}, nil
	}

	var dest cachedValue
	cached, err := cache.Remember(ctx, "k", &dest, compute)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, cachedValue{Name: "Cooper Flagg", Score: 0.93}, dest)

	// nothing is stored without a client
	_, err = cache.Remember(ctx, "k", &dest, compute)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestRememberPropagatesComputeError(t *testing.T) {
	cache := NewCacheService(nil, time.Minute, quietLogger())
	boom := errors.New("boom")

	var dest cachedValue
	cached, err := cache.Remember(context.Background(), "k", &dest, func() (interface{}, error) {
		return nil, boom
	})
	assert.False(t, cached)
	assert.ErrorIs(t, err, boom)
}

func TestRememberSurvivesUnreachableRedis(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	cache := NewCacheService(client, time.Minute, quietLogger())
	require.True(t, cache.Enabled())

	var dest cachedValue
	cached, err := cache.Remember(context.Background(), "k", &dest, func() (interface{}, error) {
		return cachedValue{Name: "fallback"}, nil
	})
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, "fallback", dest.Name)
}

func TestNewRedisClientRejectsBadURL(t *testing.T) {
	_, err := NewRedisClient(context.Background(), "not-a-url")
	assert.Error(t, err)
}

func TestCompsCacheKey(t *testing.T) {
	assert.Equal(t, "proscout:comps:nba:cooper_flagg:5", CompsCacheKey("nba", "cooper flagg", 5))
	assert.Equal(t, "proscout:comps:college:ace_bailey:10", CompsCacheKey("college", "ace bailey", 10))
}
