// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ascinsa/pms/internal/platform/constants"
)

// RedisStore implements [Store] with one JSON string per session.
type RedisStore struct {
	client redis.Cmdable
}

// NewRedisStore creates a Redis-backed [Store].
func NewRedisStore(client redis.Cmdable) *RedisStore {
	return &RedisStore{client: client}
}

func (store *RedisStore) key(id string) string {
	return constants.RedisPrefixSession + id
}

/*
Load fetches and decodes a session record.

Returns:
  - *Data: The decoded record
  - error: ErrNotFound if absent or expired, otherwise connectivity or decode errors
*/
func (store *RedisStore) Load(context context.Context, id string) (*Data, error) {
	raw, err := store.client.Get(context, store.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("redis_session_get_failed: %w", err)
	}

	var data Data
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("redis_session_decode_failed: %w", err)
	}

	return &data, nil
}

/*
Save encodes and stores a session record, resetting its TTL.
*/
func (store *RedisStore) Save(context context.Context, id string, data *Data, ttl time.Duration) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("redis_session_encode_failed: %w", err)
	}

	if err := store.client.Set(context, store.key(id), raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis_session_set_failed: %w", err)
	}

	return nil
}

/*
Delete removes a session record. Deleting an absent record is not an error.
*/
func (store *RedisStore) Delete(context context.Context, id string) error {
	if err := store.client.Del(context, store.key(id)).Err(); err != nil {
		return fmt.Errorf("redis_session_delete_failed: %w", err)
	}
	return nil
}
