package pinstore

import (
	"context"
	"errors"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey is the hash holding PIN hashes, one field per agent.
const DefaultRedisKey = "agent_pins"

// RedisStore keeps PIN hashes in a Redis hash.
type RedisStore struct {
	client redis.Cmdable
	key    string
	cost   int
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore builds a store on client. An empty key uses DefaultRedisKey.
func NewRedisStore(client redis.Cmdable, key string, cost int) *RedisStore {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisStore{client: client, key: key, cost: normalizeCost(cost)}
}

func (s *RedisStore) Set(ctx context.Context, agentID int64, pin string) error {
	hash, err := hashPIN(pin, s.cost)
	if err != nil {
		return err
	}
	return s.client.HSet(ctx, s.key, field(agentID), hash).Err()
}

func (s *RedisStore) Verify(ctx context.Context, agentID int64, pin string) (bool, error) {
	hash, err := s.client.HGet(ctx, s.key, field(agentID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return compareHash(hash, pin)
}

func (s *RedisStore) Delete(ctx context.Context, agentID int64) error {
	return s.client.HDel(ctx, s.key, field(agentID)).Err()
}

func field(agentID int64) string {
	return strconv.FormatInt(agentID, 10)
}
