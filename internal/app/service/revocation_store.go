package service

import (
	"context"
	"errors"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/redis/go-redis/v9"
)

const revokedKeyPrefix = "foodgram:revoked:"

// RevocationStore remembers revoked token ids until they would have expired anyway.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// RedisRevocationStore keeps revoked token ids in Redis with a matching TTL.
type RedisRevocationStore struct {
	client *redis.Client
}

func NewRedisRevocationStore(client *redis.Client) *RedisRevocationStore {
	return &RedisRevocationStore{client: client}
}

func (s *RedisRevocationStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	return s.client.Set(ctx, revokedKeyPrefix+tokenID, 1, ttl).Err()
}

func (s *RedisRevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	err := s.client.Get(ctx, revokedKeyPrefix+tokenID).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// LocalRevocationStore is an in-process RevocationStore for single instance setups without Redis.
// When full, the least recently used entries are forgotten first.
type LocalRevocationStore struct {
	mu    sync.Mutex
	cache *lru.Cache
	now   func() time.Time
}

func NewLocalRevocationStore(size int) (*LocalRevocationStore, error) {
	if size <= 0 {
		size = 10_000
	}
	cache, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &LocalRevocationStore{cache: cache, now: time.Now}, nil
}

func (s *LocalRevocationStore) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Add(tokenID, s.now().Add(ttl))
	return nil
}

func (s *LocalRevocationStore) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.cache.Get(tokenID)
	if !ok {
		return false, nil
	}
	if s.now().After(v.(time.Time)) {
		s.cache.Remove(tokenID)
		return false, nil
	}
	return true, nil
}
