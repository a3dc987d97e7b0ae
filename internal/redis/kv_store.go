package redis

import (
	"context"
	"errors"

	"github.com/Diferti/swibee/internal/domain"
	goredis "github.com/redis/go-redis/v9"
)

// KVStore implements domain.KeyValueStore on top of Redis string keys.
// Values are opaque: callers own the encoding.
type KVStore struct {
	rdb *goredis.Client
}

var _ domain.KeyValueStore = (*KVStore)(nil)

func NewKVStore(rdb *goredis.Client) *KVStore {
	return &KVStore{rdb: rdb}
}

func (s *KVStore) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.rdb.Get(ctx, key).Result()
	if errors.Is(err, goredis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (s *KVStore) Set(ctx context.Context, key, value string) error {
	// No expiry: decisions and profile data live until explicitly removed.
	return s.rdb.Set(ctx, key, value, 0).Err()
}

func (s *KVStore) Remove(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, key).Err()
}
