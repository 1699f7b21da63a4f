package replay

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisGuard shares closed ids between connector instances.
type RedisGuard struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

var _ Guard = (*RedisGuard)(nil)

// RedisConfig configures NewRedisGuard.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string // key prefix, default "scaconnect:closed:"
	TTL      time.Duration
}

// NewRedisGuard connects to redis and verifies the connection.
func NewRedisGuard(ctx context.Context, cfg RedisConfig) (*RedisGuard, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("replay: redis ping: %w", err)
	}
	return newRedisGuard(client, cfg), nil
}

func newRedisGuard(client *redis.Client, cfg RedisConfig) *RedisGuard {
	if cfg.Prefix == "" {
		cfg.Prefix = "scaconnect:closed:"
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	return &RedisGuard{client: client, prefix: cfg.Prefix, ttl: cfg.TTL}
}

func (g *RedisGuard) Closed(ctx context.Context, id string) (bool, error) {
	err := g.client.Get(ctx, g.prefix+id).Err()
	switch {
	case errors.Is(err, redis.Nil):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("replay: redis get: %w", err)
	}
	return true, nil
}

func (g *RedisGuard) Close(ctx context.Context, id string) error {
	if err := g.client.SetNX(ctx, g.prefix+id, time.Now().UTC().Format(time.RFC3339), g.ttl).Err(); err != nil {
		return fmt.Errorf("replay: redis set: %w", err)
	}
	return nil
}

// Ping reports redis health for readiness checks.
func (g *RedisGuard) Ping(ctx context.Context) error {
	return g.client.Ping(ctx).Err()
}

// Shutdown closes the underlying client.
func (g *RedisGuard) Shutdown() error {
	return g.client.Close()
}
