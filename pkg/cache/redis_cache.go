package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache, birden fazla API instance'ının aynı catalog snapshot'ını
// paylaşması için kullanılan driver'dır. Key'ler prefix ile namespace'lenir.
type RedisCache struct {
	client  *redis.Client
	logger  Logger
	prefix  string
	timeout time.Duration
}

func NewRedisCache(client *redis.Client, logger Logger, prefix string) *RedisCache {
	return &RedisCache{
		client:  client,
		logger:  logger,
		prefix:  prefix,
		timeout: 3 * time.Second,
	}
}

func (r *RedisCache) prefixKey(key string) string {
	return r.prefix + key
}

func (r *RedisCache) context() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), r.timeout)
}

func (r *RedisCache) Get(key string, dest interface{}) (bool, error) {
	ctx, cancel := r.context()
	defer cancel()

	prefixedKey := r.prefixKey(key)
	val, err := r.client.Get(ctx, prefixedKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		r.logger.Printf("❌ Redis Get hatası [%s]: %v", prefixedKey, err)
		return false, fmt.Errorf("redis get failed: %w", err)
	}

	if err := json.Unmarshal(val, dest); err != nil {
		r.logger.Printf("❌ JSON decode hatası [%s]: %v", prefixedKey, err)
		return false, fmt.Errorf("json decode failed: %w", err)
	}
	return true, nil
}

func (r *RedisCache) Set(key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("json encode failed: %w", err)
	}

	ctx, cancel := r.context()
	defer cancel()

	prefixedKey := r.prefixKey(key)
	if ttl < 0 {
		ttl = 0
	}
	if err := r.client.Set(ctx, prefixedKey, data, ttl).Err(); err != nil {
		r.logger.Printf("❌ Redis Set hatası [%s]: %v", prefixedKey, err)
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisCache) Delete(key string) error {
	ctx, cancel := r.context()
	defer cancel()

	if err := r.client.Del(ctx, r.prefixKey(key)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func (r *RedisCache) Has(key string) (bool, error) {
	ctx, cancel := r.context()
	defer cancel()

	count, err := r.client.Exists(ctx, r.prefixKey(key)).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists failed: %w", err)
	}
	return count > 0, nil
}

// Flush, sadece prefix'e ait key'leri siler; aynı Redis DB'sini paylaşan
// diğer uygulamaların verisine dokunmaz.
func (r *RedisCache) Flush() error {
	ctx, cancel := r.context()
	defer cancel()

	iter := r.client.Scan(ctx, 0, r.prefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan failed: %w", err)
	}

	if len(keys) == 0 {
		return nil
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis flush failed: %w", err)
	}

	r.logger.Printf("⚠️  Redis cache temizlendi (%d key)", len(keys))
	return nil
}

func (r *RedisCache) Stats() map[string]interface{} {
	pool := r.client.PoolStats()
	return map[string]interface{}{
		"driver":      "redis",
		"prefix":      r.prefix,
		"hits":        pool.Hits,
		"misses":      pool.Misses,
		"timeouts":    pool.Timeouts,
		"total_conns": pool.TotalConns,
		"idle_conns":  pool.IdleConns,
	}
}
