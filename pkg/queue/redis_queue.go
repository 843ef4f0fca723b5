package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisQueue, Redis üzerinde kalıcı kuyruk.
//
// Key'ler:
//   - {prefix}queues:{name}           list, FIFO
//   - {prefix}queues:{name}:delayed   sorted set, score = available_at (unix)
//   - {prefix}queues:{name}:reserved  hash, job id → envelope (işlenen job'lar)
//   - {prefix}queues:failed           list, deneme hakkı biten job'lar
type RedisQueue struct {
	client   *redis.Client
	registry *Registry
	logger   *log.Logger
	prefix   string
	block    time.Duration // BLPOP bekleme süresi
}

func NewRedisQueue(client *redis.Client, registry *Registry, logger *log.Logger, prefix string) *RedisQueue {
	return &RedisQueue{
		client:   client,
		registry: registry,
		logger:   logger,
		prefix:   prefix,
		block:    5 * time.Second,
	}
}

func (r *RedisQueue) queueKey(queue string) string    { return r.prefix + "queues:" + queue }
func (r *RedisQueue) delayedKey(queue string) string  { return r.queueKey(queue) + ":delayed" }
func (r *RedisQueue) reservedKey(queue string) string { return r.queueKey(queue) + ":reserved" }
func (r *RedisQueue) failedKey() string               { return r.prefix + "queues:failed" }

func (r *RedisQueue) Push(ctx context.Context, job Job, queue string) error {
	return r.Later(ctx, 0, job, queue)
}

func (r *RedisQueue) Later(ctx context.Context, delay time.Duration, job Job, queue string) error {
	meta := job.Meta()
	if meta.ID == "" {
		meta.ID = uuid.NewString()
	}
	meta.Queue = queue

	data, err := r.encode(job, delay)
	if err != nil {
		return err
	}

	if delay > 0 {
		score := float64(time.Now().Add(delay).Unix())
		if err := r.client.ZAdd(ctx, r.delayedKey(queue), redis.Z{Score: score, Member: data}).Err(); err != nil {
			return fmt.Errorf("delayed job push hatası [%s]: %w", queue, err)
		}
		return nil
	}

	if err := r.client.RPush(ctx, r.queueKey(queue), data).Err(); err != nil {
		return fmt.Errorf("job push hatası [%s]: %w", queue, err)
	}
	return nil
}

func (r *RedisQueue) Pop(ctx context.Context, queue string) (Job, error) {
	r.migrateDelayed(ctx, queue)

	result, err := r.client.BLPop(ctx, r.block, r.queueKey(queue)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("job pop hatası [%s]: %w", queue, err)
	}

	// result[0] = key, result[1] = değer
	data := result[1]

	var env envelope
	if err := json.Unmarshal([]byte(data), &env); err != nil {
		r.client.RPush(ctx, r.failedKey(), data)
		return nil, fmt.Errorf("bozuk job payload'ı failed listesine taşındı: %w", err)
	}

	job, err := r.decode(&env)
	if err != nil {
		r.client.RPush(ctx, r.failedKey(), data)
		return nil, err
	}

	if err := r.client.HSet(ctx, r.reservedKey(queue), env.ID, data).Err(); err != nil {
		r.logger.Printf("⚠️  Job reserve edilemedi %s: %v", env.ID, err)
	}
	return job, nil
}

func (r *RedisQueue) Delete(ctx context.Context, queue string, job Job) error {
	if err := r.client.HDel(ctx, r.reservedKey(queue), job.Meta().ID).Err(); err != nil {
		return fmt.Errorf("job delete hatası [%s]: %w", queue, err)
	}
	return nil
}

func (r *RedisQueue) Release(ctx context.Context, queue string, job Job, delay time.Duration) error {
	meta := job.Meta()
	meta.Attempts++

	if err := r.client.HDel(ctx, r.reservedKey(queue), meta.ID).Err(); err != nil {
		return fmt.Errorf("job release hatası [%s]: %w", queue, err)
	}

	if meta.Attempts >= meta.Tries() {
		data, err := r.encode(job, 0)
		if err != nil {
			return err
		}
		if err := r.client.RPush(ctx, r.failedKey(), data).Err(); err != nil {
			return fmt.Errorf("failed job kaydedilemedi: %w", err)
		}
		r.logger.Printf("⚠️  Job failed listesine taşındı: %s %s (%d deneme)", job.Name(), meta.ID, meta.Attempts)
		return nil
	}

	return r.Later(ctx, delay, job, queue)
}

func (r *RedisQueue) Size(ctx context.Context, queue string) (int64, error) {
	ready, err := r.client.LLen(ctx, r.queueKey(queue)).Result()
	if err != nil {
		return 0, err
	}
	delayed, err := r.client.ZCard(ctx, r.delayedKey(queue)).Result()
	if err != nil {
		return 0, err
	}
	return ready + delayed, nil
}

// migrateDelayed, zamanı gelen gecikmeli job'ları ana listeye taşır. ZRem
// sonucu kontrol edilir; birden fazla worker aynı job'ı iki kez taşımaz.
func (r *RedisQueue) migrateDelayed(ctx context.Context, queue string) {
	due, err := r.client.ZRangeByScore(ctx, r.delayedKey(queue), &redis.ZRangeBy{
		Min: "-inf",
		Max: strconv.FormatInt(time.Now().Unix(), 10),
	}).Result()
	if err != nil || len(due) == 0 {
		return
	}

	for _, data := range due {
		removed, err := r.client.ZRem(ctx, r.delayedKey(queue), data).Result()
		if err != nil || removed == 0 {
			continue
		}
		r.client.RPush(ctx, r.queueKey(queue), data)
	}
}

func (r *RedisQueue) encode(job Job, delay time.Duration) ([]byte, error) {
	payload, err := json.Marshal(job)
	if err != nil {
		return nil, fmt.Errorf("job encode hatası: %w", err)
	}

	meta := job.Meta()
	now := time.Now()
	return json.Marshal(envelope{
		ID:          meta.ID,
		Type:        job.Name(),
		Queue:       meta.Queue,
		Payload:     payload,
		Attempts:    meta.Attempts,
		MaxAttempts: meta.Tries(),
		CreatedAt:   now,
		AvailableAt: now.Add(delay),
	})
}

func (r *RedisQueue) decode(env *envelope) (Job, error) {
	job, err := r.registry.Create(env.Type)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(env.Payload, job); err != nil {
		return nil, fmt.Errorf("job decode hatası (%s): %w", env.Type, err)
	}

	meta := job.Meta()
	meta.ID = env.ID
	meta.Queue = env.Queue
	meta.Attempts = env.Attempts
	meta.MaxAttempts = env.MaxAttempts
	return job, nil
}
