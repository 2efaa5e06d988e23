package directory

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const businessKeyPrefix = "directory:business:"

// RedisStore persists business records in Redis, one key per business.
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore creates a directory store backed by Redis.
func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func businessKey(id string) string {
	return businessKeyPrefix + id
}

// Put upserts a record under its own key. Registrations never expire.
func (s *RedisStore) Put(ctx context.Context, record Record) error {
	if record.ID == "" {
		return ErrInvalidName
	}
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("directory: marshal record: %w", err)
	}
	return s.rdb.Set(ctx, businessKey(record.ID), data, 0).Err()
}

// Get retrieves a record by ID.
func (s *RedisStore) Get(ctx context.Context, id string) (*Record, error) {
	data, err := s.rdb.Get(ctx, businessKey(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("directory: get %s: %w", id, err)
	}
	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("directory: unmarshal record: %w", err)
	}
	return &record, nil
}
