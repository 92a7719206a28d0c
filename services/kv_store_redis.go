package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// RedisKeyValueStore keeps each record-store key as a plain redis string
type RedisKeyValueStore struct {
	rdb *goredis.Client
}

// RedisOptions configures NewRedisKeyValueStore
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisKeyValueStore connects to redis and verifies the connection with a ping
func NewRedisKeyValueStore(opts RedisOptions) (*RedisKeyValueStore, error) {
	if opts.Addr == "" {
		return nil, fmt.Errorf("missing redis address")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        opts.Addr,
		Password:    opts.Password,
		DB:          opts.DB,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return NewRedisKeyValueStoreFromClient(rdb), nil
}

// NewRedisKeyValueStoreFromClient wraps an existing client
func NewRedisKeyValueStoreFromClient(rdb *goredis.Client) *RedisKeyValueStore {
	return &RedisKeyValueStore{rdb: rdb}
}

// GetItem reads one key; redis.Nil means absent
func (s *RedisKeyValueStore) GetItem(ctx context.Context, key string) (string, bool, error) {
	value, err := s.rdb.Get(ctx, key).Result()
	if errors.Is(err, goredis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// SetItem writes one key without expiry
func (s *RedisKeyValueStore) SetItem(ctx context.Context, key, value string) error {
	return s.rdb.Set(ctx, key, value, 0).Err()
}

// MultiRemove deletes the given keys in one DEL
func (s *RedisKeyValueStore) MultiRemove(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.rdb.Del(ctx, keys...).Err()
}

// Ping checks the redis connection
func (s *RedisKeyValueStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

// Close releases the client
func (s *RedisKeyValueStore) Close() error {
	return s.rdb.Close()
}
