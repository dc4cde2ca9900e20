package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/thejw23/simpleauth/internal/common"
)

const keyPrefix = "simpleauth:session:"

// RedisStore keeps session fields in a Redis hash per session id. The hash
// expires after the configured idle TTL; every write pushes the expiry
// forward.
type RedisStore struct {
	client *redis.Client
	id     string
	ttl    time.Duration
}

// NewRedisStore binds a store to the session id carried by the request.
// An empty id starts a fresh session.
func NewRedisStore(client *redis.Client, id string, ttl time.Duration) *RedisStore {
	if id == "" {
		id = uuid.NewString()
	}
	return &RedisStore{client: client, id: id, ttl: ttl}
}

func (s *RedisStore) key() string {
	return keyPrefix + s.id
}

func (s *RedisStore) ID() string {
	return s.id
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.HGet(ctx, s.key(), key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", common.ErrNotFound
		}
		return "", fmt.Errorf("redis error: %w", err)
	}
	return val, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, s.key(), key, value)
	pipe.Expire(ctx, s.key(), s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.HDel(ctx, s.key(), key).Err(); err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	return nil
}

func (s *RedisStore) RegenerateID(ctx context.Context) error {
	oldKey := s.key()
	s.id = uuid.NewString()

	// RENAME fails on a missing source, which just means the session had
	// no server-side data yet.
	err := s.client.Rename(ctx, oldKey, s.key()).Err()
	if err != nil && !isMissingKey(err) {
		return fmt.Errorf("redis error: %w", err)
	}
	if err == nil {
		if err := s.client.Expire(ctx, s.key(), s.ttl).Err(); err != nil {
			return fmt.Errorf("redis error: %w", err)
		}
	}
	return nil
}

// Destroy drops the session hash and abandons the id, so the response
// hands the client a fresh id with no server-side state behind it.
func (s *RedisStore) Destroy(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key()).Err(); err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	s.id = uuid.NewString()
	return nil
}

func isMissingKey(err error) bool {
	return err != nil && err.Error() == "ERR no such key"
}
