package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "jargoyle:session:"

// RedisStore keeps sessions as JSON values that Redis expires on its own.
type RedisStore struct {
	client redis.Cmdable
}

func NewRedisStore(client redis.Cmdable) *RedisStore {
	return &RedisStore{client: client}
}

func (r *RedisStore) key(id string) string {
	return redisKeyPrefix + id
}

func (r *RedisStore) Create(ctx context.Context, s Session) error {
	if s.ID == "" || s.UserID == uuid.Nil {
		return fmt.Errorf("session: missing id or user id")
	}
	if !s.ExpiresAt.After(s.CreatedAt) {
		return fmt.Errorf("session: expires_at must be after created_at")
	}

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("session: failed to marshal: %w", err)
	}

	if err := r.client.SetArgs(ctx, r.key(s.ID), data, redis.SetArgs{ExpireAt: s.ExpiresAt}).Err(); err != nil {
		return fmt.Errorf("session: failed to create: %w", err)
	}
	return nil
}

func (r *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	val, err := r.client.Get(ctx, r.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session: failed to load: %w", err)
	}

	var s Session
	if err := json.Unmarshal(val, &s); err != nil {
		return nil, fmt.Errorf("session: failed to unmarshal: %w", err)
	}
	return &s, nil
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, r.key(id)).Err(); err != nil {
		return fmt.Errorf("session: failed to delete: %w", err)
	}
	return nil
}

// DeleteExpired is a no-op: keys carry their own expiry.
func (r *RedisStore) DeleteExpired(context.Context, time.Time) (int64, error) {
	return 0, nil
}

// NewRedisClient connects to addr and checks the connection.
func NewRedisClient(ctx context.Context, addr, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("session: failed to reach redis: %w", err)
	}
	return client, nil
}
