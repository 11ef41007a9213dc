// Package redis stores the token in Redis so several machines can share one
// login.
package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/aussiebroadwan/bndylive/internal/live/store"
	"github.com/redis/go-redis/v9"
)

const defaultPrefix = "bndylive:"

type Store struct {
	client redis.UniversalClient
	prefix string
}

var _ store.Store = (*Store)(nil)

// Options configures the redis client. Addrs with more than one entry
// selects a cluster client.
type Options struct {
	Addrs    []string
	Password string
	DB       int
	Prefix   string
}

// NewStore connects using opts.
func NewStore(opts Options) *Store {
	client := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:    opts.Addrs,
		Password: opts.Password,
		DB:       opts.DB,
	})
	return NewStoreWithClient(client, opts.Prefix)
}

// NewStoreWithClient wraps an existing client. An empty prefix uses the
// default.
func NewStoreWithClient(client redis.UniversalClient, prefix string) *Store {
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &Store{client: client, prefix: prefix}
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	v, err := s.client.Get(ctx, s.prefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", store.ErrNotFound
		}
		return "", fmt.Errorf("redis get: %w", err)
	}
	return v, nil
}

// Set stores value without a TTL. Expiry is carried inside the token.
func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Store) Close() error { return s.client.Close() }
