package credentials

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrijs2005/sessionguard/internal/common"
)

// DefaultRedisKey is used when no key is configured.
const DefaultRedisKey = "sessionguard:" + common.CredentialKey

var swapScript = redis.NewScript(`
local current = redis.call('GET', KEYS[1])
if current == ARGV[1] then
	redis.call('SET', KEYS[1], ARGV[2])
	return 1
end
return 0
`)

// RedisStore keeps the credential under a single Redis key.
type RedisStore struct {
	rdb redis.UniversalClient
	key string
}

var _ Store = (*RedisStore)(nil)

func NewRedisStore(rdb redis.UniversalClient, key string) *RedisStore {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisStore{rdb: rdb, key: key}
}

func (s *RedisStore) Load(ctx context.Context) (string, error) {
	v, err := s.rdb.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load credential: %w", err)
	}
	return v, nil
}

func (s *RedisStore) Save(ctx context.Context, token string) error {
	if err := s.rdb.Set(ctx, s.key, token, 0).Err(); err != nil {
		return fmt.Errorf("save credential: %w", err)
	}
	return nil
}

func (s *RedisStore) Swap(ctx context.Context, prev, next string) (bool, error) {
	if prev == "" {
		return false, nil
	}
	n, err := swapScript.Run(ctx, s.rdb, []string{s.key}, prev, next).Int()
	if err != nil {
		return false, fmt.Errorf("swap credential: %w", err)
	}
	return n == 1, nil
}

func (s *RedisStore) Delete(ctx context.Context) error {
	if err := s.rdb.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("delete credential: %w", err)
	}
	return nil
}
