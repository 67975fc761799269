// WhereToEat - Restaurant Picker Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wheretoeat

package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/tomtom215/wheretoeat/internal/metrics"
)

const redisKeyPrefix = "wheretoeat:picker_session:"

// RedisStore keeps sessions in Redis. Expiry is delegated to Redis key TTLs,
// so CleanupExpired has nothing to do.
type RedisStore struct {
	client *redis.Client
	now    func() time.Time
}

// NewRedisStore wraps a connected client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, now: time.Now}
}

// ConnectRedis builds a client from a redis:// or rediss:// URL, or from a
// bare host:port.
func ConnectRedis(redisURL string) (*redis.Client, error) {
	if strings.HasPrefix(redisURL, "redis://") || strings.HasPrefix(redisURL, "rediss://") {
		opt, err := redis.ParseURL(redisURL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		return redis.NewClient(opt), nil
	}
	return redis.NewClient(&redis.Options{Addr: redisURL}), nil
}

func redisKey(id string) string {
	return redisKeyPrefix + id
}

func (r *RedisStore) encode(s *Session) ([]byte, time.Duration, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, 0, fmt.Errorf("marshal session: %w", err)
	}
	ttl := s.ExpiresAt.Sub(r.now())
	if ttl <= 0 {
		// Already expired; keep it briefly so Get reports ErrSessionExpired.
		ttl = time.Second
	}
	return data, ttl, nil
}

// Create stores a new session.
func (r *RedisStore) Create(ctx context.Context, s *Session) error {
	data, ttl, err := r.encode(s)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, redisKey(s.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	metrics.RecordSessionCreated(string(StoreRedis))
	return nil
}

// Get retrieves a session by ID.
func (r *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	raw, err := r.client.Get(ctx, redisKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	if s.IsExpired(r.now()) {
		return nil, ErrSessionExpired
	}
	return &s, nil
}

// Update replaces a stored session. SET XX only writes when the key exists.
func (r *RedisStore) Update(ctx context.Context, s *Session) error {
	if s.IsExpired(r.now()) {
		return ErrSessionNotFound
	}
	data, ttl, err := r.encode(s)
	if err != nil {
		return err
	}
	ok, err := r.client.SetXX(ctx, redisKey(s.ID), data, ttl).Result()
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	if !ok {
		return ErrSessionNotFound
	}
	return nil
}

// Delete removes a session.
func (r *RedisStore) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, redisKey(id)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// CleanupExpired is a no-op: Redis expires the keys itself.
func (r *RedisStore) CleanupExpired(_ context.Context) (int, error) {
	return 0, nil
}
