package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/orinadjar/Ori-s-Todo-List-Hafifa/internal/models/todo"

	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"
)

const scanBatch = 100

// Redis keeps pages under "<namespace>:<key>" so Clear only touches its own
// keys in a shared instance.
type Redis struct {
	client    redis.UniversalClient
	namespace string
	ttl       time.Duration
}

func NewRedis(client redis.UniversalClient, namespace string, ttl time.Duration) *Redis {
	return &Redis{client: client, namespace: namespace, ttl: ttl}
}

func (r *Redis) key(key string) string {
	return r.namespace + ":" + key
}

func (r *Redis) Get(ctx context.Context, key string) ([]*todo.Todo, bool, error) {
	data, err := r.client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}

	var page []*todo.Todo
	if err := msgpack.Unmarshal(data, &page); err != nil {
		return nil, false, fmt.Errorf("decode cached page %s: %w", key, err)
	}
	for _, t := range page {
		t.Date = t.Date.UTC()
		t.CreatedAt = t.CreatedAt.UTC()
	}
	return page, true, nil
}

func (r *Redis) Set(ctx context.Context, key string, page []*todo.Todo) error {
	data, err := msgpack.Marshal(page)
	if err != nil {
		return fmt.Errorf("encode page %s: %w", key, err)
	}
	if err := r.client.Set(ctx, r.key(key), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (r *Redis) Clear(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := r.client.Scan(ctx, cursor, r.key("*"), scanBatch).Result()
		if err != nil {
			return fmt.Errorf("redis scan: %w", err)
		}
		if len(keys) > 0 {
			if err := r.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("redis del: %w", err)
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
