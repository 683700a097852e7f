package userrecord

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"unitrader/pkg/domain"
	"unitrader/pkg/platform/sentinel"
)

const keyPrefix = "user_record:"

// RedisStore persists user records as JSON with a TTL matched to the session
// token lifetime.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedis(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Save(ctx context.Context, rec Record) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal user record: %w", err)
	}
	if err := s.client.Set(ctx, key(rec.ID), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("save user record: %w", err)
	}
	return nil
}

func (s *RedisStore) FindByID(ctx context.Context, id domain.UserID) (Record, error) {
	payload, err := s.client.Get(ctx, key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Record{}, sentinel.ErrNotFound
		}
		return Record{}, fmt.Errorf("load user record: %w", err)
	}
	var rec Record
	if err := json.Unmarshal(payload, &rec); err != nil {
		return Record{}, fmt.Errorf("decode user record: %w", err)
	}
	return rec, nil
}

func (s *RedisStore) Delete(ctx context.Context, id domain.UserID) error {
	if err := s.client.Del(ctx, key(id)).Err(); err != nil {
		return fmt.Errorf("delete user record: %w", err)
	}
	return nil
}

func key(id domain.UserID) string {
	return keyPrefix + id.String()
}
