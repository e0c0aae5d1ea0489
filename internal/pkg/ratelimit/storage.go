package ratelimit

import (
	"context"
	"errors"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

const opTimeout = 500 * time.Millisecond

// RedisStorage implements fiber.Storage so limiter counters are shared by every instance.
type RedisStorage struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisStorage(rdb *redis.Client, prefix string) *RedisStorage {
	return &RedisStorage{rdb: rdb, prefix: prefix}
}

func (s *RedisStorage) Get(key string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	val, err := s.rdb.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return val, err
}

func (s *RedisStorage) Set(key string, val []byte, exp time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	return s.rdb.Set(ctx, s.prefix+key, val, exp).Err()
}

func (s *RedisStorage) Delete(key string) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	return s.rdb.Del(ctx, s.prefix+key).Err()
}

func (s *RedisStorage) Reset() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	iter := s.rdb.Scan(ctx, 0, s.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := s.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func (s *RedisStorage) Close() error {
	return nil
}

// MemoryStorage keeps counters in process. Limits are per instance.
type MemoryStorage struct {
	c *cache.Cache
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{c: cache.New(5*time.Minute, 10*time.Minute)}
}

func (s *MemoryStorage) Get(key string) ([]byte, error) {
	if v, ok := s.c.Get(key); ok {
		return v.([]byte), nil
	}
	return nil, nil
}

func (s *MemoryStorage) Set(key string, val []byte, exp time.Duration) error {
	if exp <= 0 {
		exp = cache.NoExpiration
	}
	// fiber may reuse the backing array after Set returns
	cp := make([]byte, len(val))
	copy(cp, val)
	s.c.Set(key, cp, exp)
	return nil
}

func (s *MemoryStorage) Delete(key string) error {
	s.c.Delete(key)
	return nil
}

func (s *MemoryStorage) Reset() error {
	s.c.Flush()
	return nil
}

func (s *MemoryStorage) Close() error {
	return nil
}
