package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const (
	dialTimeout  = 5 * time.Second
	readTimeout  = 3 * time.Second
	writeTimeout = 3 * time.Second

	// invalidateTimeout bounds a full invalidation sweep. Invalidation runs
	// on its own context so an already-canceled request cannot skip it.
	invalidateTimeout = 5 * time.Second

	scanBatchSize = 100
)

// Redis caches project read responses and clears them after writes.
type Redis struct {
	client *redis.Client
	logger zerolog.Logger
}

func NewRedis(addr, password string, db int) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		PoolSize:     10,
		MinIdleConns: 5,
		MaxRetries:   3,
		DialTimeout:  dialTimeout,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	})

	return &Redis{
		client: client,
		logger: log.With().Str("serviceName", "redisCache").Logger(),
	}
}

// Connect verifies the server is reachable.
func (r *Redis) Connect(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	r.logger.Info().Str("addr", r.client.Options().Addr).Msg("Connected to redis")
	return nil
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *Redis) Close() error {
	return r.client.Close()
}

// Get unmarshals the cached value under key into dest. The boolean reports
// whether the key existed.
func (r *Redis) Get(ctx context.Context, key string, dest any) (bool, error) {
	raw, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read cache key %s: %w", key, err)
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("failed to decode cache key %s: %w", key, err)
	}
	return true, nil
}

func (r *Redis) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache key %s: %w", key, err)
	}

	if err := r.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write cache key %s: %w", key, err)
	}
	return nil
}

// InvalidateProjects removes every project read key: listings, details and
// the technology index. The sweep is synchronous; callers treat an error here
// as a failed mutation.
func (r *Redis) InvalidateProjects() error {
	ctx, cancel := context.WithTimeout(context.Background(), invalidateTimeout)
	defer cancel()

	patterns := []string{
		keyPrefix + ":list:*",
		keyPrefix + ":detail:*",
		KeyTechnologies,
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, pattern := range patterns {
		g.Go(func() error {
			return r.deletePattern(gctx, pattern)
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("failed to invalidate project caches: %w", err)
	}

	r.logger.Debug().Msg("Project caches invalidated")
	return nil
}

func (r *Redis) deletePattern(ctx context.Context, pattern string) error {
	iter := r.client.Scan(ctx, 0, pattern, scanBatchSize).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan pattern %s: %w", pattern, err)
	}

	if len(keys) == 0 {
		return nil
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete %d keys for pattern %s: %w", len(keys), pattern, err)
	}
	return nil
}
