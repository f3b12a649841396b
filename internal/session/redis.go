package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"job-hunt-agent/internal/config"
	"job-hunt-agent/internal/logging"
	"job-hunt-agent/internal/logging/types"
)

// RedisStore keeps session credentials in Redis as JSON values with a TTL
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	logger types.Logger
}

// NewRedisStore creates a store from cfg.Redis
func NewRedisStore(cfg *config.Config, logger types.Logger) (*RedisStore, error) {
	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}
	if cfg.Redis.DB != 0 {
		opts.DB = cfg.Redis.DB
	}

	opts.DialTimeout = cfg.Redis.Timeout
	opts.ReadTimeout = cfg.Redis.Timeout
	opts.WriteTimeout = cfg.Redis.Timeout

	return NewRedisStoreWithClient(redis.NewClient(opts), cfg.Session.TTL, logger), nil
}

// NewRedisStoreWithClient wraps an existing client
func NewRedisStoreWithClient(client *redis.Client, ttl time.Duration, logger types.Logger) *RedisStore {
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}

	return &RedisStore{
		client: client,
		ttl:    ttl,
		logger: logger.WithField("component", "redis_session_store"),
	}
}

// Get returns the credentials stored for id
func (r *RedisStore) Get(ctx context.Context, id string) (Credentials, error) {
	value, err := r.client.Get(ctx, sessionKey(id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Credentials{}, ErrNotFound
		}
		return Credentials{}, fmt.Errorf("failed to get session: %w", err)
	}

	var creds Credentials
	if err := json.Unmarshal([]byte(value), &creds); err != nil {
		return Credentials{}, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return creds, nil
}

// Save stores creds for id and restarts its expiry
func (r *RedisStore) Save(ctx context.Context, id string, creds Credentials) error {
	value, err := json.Marshal(creds)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := r.client.Set(ctx, sessionKey(id), value, r.ttl).Err(); err != nil {
		r.logger.Error("Failed to save session", map[string]interface{}{
			"session_id": id,
			"error":      err.Error(),
		})
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Delete removes id from the store
func (r *RedisStore) Delete(ctx context.Context, id string) error {
	return r.client.Del(ctx, sessionKey(id)).Err()
}

// Ping tests the Redis connection
func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (r *RedisStore) Close() error {
	return r.client.Close()
}

func sessionKey(id string) string {
	return fmt.Sprintf("job-hunt:session:%s", id)
}
