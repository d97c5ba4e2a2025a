package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/valter-silva-au/todo/pkg/models"
)

// RedisStore keeps the snapshot as a single string value under one key.
type RedisStore struct {
	rdb   redis.Cmdable
	key   string
	codec Codec
}

// NewRedisStore creates a RedisStore. A nil codec means JSON.
func NewRedisStore(rdb redis.Cmdable, key string, codec Codec) *RedisStore {
	if codec == nil {
		codec = JSONCodec{}
	}
	return &RedisStore{rdb: rdb, key: key, codec: codec}
}

// Load reads the snapshot. A missing key yields no tasks and no error.
func (s *RedisStore) Load(ctx context.Context) ([]models.Task, error) {
	val, err := s.rdb.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading tasks from redis key %s: %w", s.key, err)
	}
	tasks, err := s.codec.Unmarshal(val)
	if err != nil {
		return nil, fmt.Errorf("loading tasks from redis key %s: %w", s.key, err)
	}
	return tasks, nil
}

// Save overwrites the key with the encoded collection. The value never
// expires.
func (s *RedisStore) Save(ctx context.Context, tasks []models.Task) error {
	data, err := s.codec.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("saving tasks: %w", err)
	}
	if err := s.rdb.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("saving tasks to redis key %s: %w", s.key, err)
	}
	return nil
}
