package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"shipment-savings-service/internal/domain"
	"strings"

	"github.com/redis/go-redis/v9"
)

// RedisCoordinateStore keeps the cache in one Redis hash.
// Each field is a cache key; each value is the JSON form used by the file
// document ("[lat,lon]" or "null").
type RedisCoordinateStore struct {
	client *redis.Client
	key    string
}

func NewRedisCoordinateStore(client *redis.Client, key string) *RedisCoordinateStore {
	if key == "" {
		key = "coord_cache"
	}
	return &RedisCoordinateStore{client: client, key: key}
}

func (r *RedisCoordinateStore) LoadAll(ctx context.Context) (map[string]domain.CacheEntry, error) {
	if r.client == nil {
		return nil, errors.New("coordinate cache: redis client is nil")
	}

	fields, err := r.client.HGetAll(ctx, r.key).Result()
	if err != nil {
		return nil, fmt.Errorf("get coordinate cache: hgetall %q: %w", r.key, err)
	}

	out := make(map[string]domain.CacheEntry, len(fields))
	for k, raw := range fields {
		var v *[2]float64
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return nil, fmt.Errorf("get coordinate cache: decode field %q: %w", k, err)
		}
		out[k] = toEntry(v)
	}

	return out, nil
}

func (r *RedisCoordinateStore) Save(ctx context.Context, key string, entry domain.CacheEntry) error {
	if r.client == nil {
		return errors.New("coordinate cache: redis client is nil")
	}

	if strings.TrimSpace(key) == "" {
		return errors.New("insert coordinate cache: empty key")
	}

	b, err := json.Marshal(fromEntry(entry))
	if err != nil {
		return fmt.Errorf("insert coordinate cache: encode %q: %w", key, err)
	}

	if err := r.client.HSet(ctx, r.key, key, string(b)).Err(); err != nil {
		return fmt.Errorf("insert coordinate cache key=%q: %w", key, err)
	}

	return nil
}
