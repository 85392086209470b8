package database

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

var (
	RedisHelper *RedisUtil
)

type RedisUtil struct {
	client *redis.Client
}

// InitRedis connects to url and installs the shared RedisHelper. rediss://
// URLs get TLS 1.2 or newer.
func InitRedis(ctx context.Context, url string) (*RedisUtil, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	if opts.TLSConfig != nil && opts.TLSConfig.MinVersion < tls.VersionTLS12 {
		opts.TLSConfig.MinVersion = tls.VersionTLS12
	}

	redisClient := redis.NewClient(opts)
	if err = redisClient.Ping(ctx).Err(); err != nil {
		_ = redisClient.Close()
		return nil, fmt.Errorf("could not connect to redis: %w", err)
	}

	log.Info().Str("addr", opts.Addr).Msg("Connected to Redis")

	RedisHelper = NewRedisUtil(redisClient)
	return RedisHelper, nil
}

func NewRedisUtil(client *redis.Client) *RedisUtil {
	return &RedisUtil{client: client}
}

func (r *RedisUtil) Close() error {
	return r.client.Close()
}

func (r *RedisUtil) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	err := r.client.Set(ctx, key, value, expiration).Err()
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("Redis SET failed")
	}
	return err
}

// Get returns "" without error when key is absent.
func (r *RedisUtil) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("Redis GET failed")
		return "", err
	}
	return val, nil
}

func (r *RedisUtil) Delete(ctx context.Context, key string) error {
	err := r.client.Del(ctx, key).Err()
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("Redis DEL failed")
	}
	return err
}

func (r *RedisUtil) Exists(ctx context.Context, key string) bool {
	count, err := r.client.Exists(ctx, key).Result()
	return err == nil && count > 0
}

func (r *RedisUtil) SetAsStruct(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return r.Set(ctx, key, raw, expiration)
}

// GetAsStruct decodes the JSON stored at key into dest and reports whether
// the key existed.
func (r *RedisUtil) GetAsStruct(ctx context.Context, key string, dest interface{}) (bool, error) {
	raw, err := r.Get(ctx, key)
	if err != nil || raw == "" {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return false, fmt.Errorf("unmarshal %s: %w", key, err)
	}
	return true, nil
}
