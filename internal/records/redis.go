package records

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStorage keeps records as JSON items of a Redis list
type RedisStorage struct {
	client *redis.Client
	key    string
}

// NewRedisStorage stores records under key. The client is owned by the caller.
func NewRedisStorage(client *redis.Client, key string) *RedisStorage {
	return &RedisStorage{client: client, key: key}
}

func (s *RedisStorage) Load(ctx context.Context) ([]Record, error) {
	items, err := s.client.LRange(ctx, s.key, 0, -1).Result()
	if err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(items))
	for i, item := range items {
		var rec Record
		if err := json.Unmarshal([]byte(item), &rec); err != nil {
			return nil, fmt.Errorf("item %d of %s: %w", i, s.key, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func (s *RedisStorage) Append(ctx context.Context, rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.client.RPush(ctx, s.key, data).Err()
}

func (s *RedisStorage) Name() string { return "redis" }

func (s *RedisStorage) Close() error { return nil }
