package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Store tracks anonymous browsing sessions server-side. A session key is a
// random 128-bit token (UUIDv4) handed to the client in a cookie; the store
// only records that the key was issued by us and is still live.
type Store interface {
	Issue(ctx context.Context) (string, error)
	Exists(ctx context.Context, key string) (bool, error)
	Refresh(ctx context.Context, key string) error
}

// RedisStore keeps session keys in Redis with a TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient connects to Redis and verifies the connection.
func NewRedisClient(addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

// NewRedisStore creates a Redis-backed session store.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func sessionKey(key string) string {
	return fmt.Sprintf("session:%s", key)
}

// Issue creates and records a fresh session key.
func (s *RedisStore) Issue(ctx context.Context) (string, error) {
	key := uuid.New().String()
	if err := s.client.Set(ctx, sessionKey(key), "1", s.ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to store session key: %w", err)
	}
	return key, nil
}

// Exists reports whether the key is a live session issued by this store.
func (s *RedisStore) Exists(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Exists(ctx, sessionKey(key)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check session key: %w", err)
	}
	return n > 0, nil
}

// Refresh extends the TTL of a live session.
func (s *RedisStore) Refresh(ctx context.Context, key string) error {
	if err := s.client.Expire(ctx, sessionKey(key), s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to refresh session key: %w", err)
	}
	return nil
}

// MemoryStore is an in-memory Store for tests and broker-less development.
type MemoryStore struct {
	keys map[string]struct{}
	mu   sync.RWMutex
}

// NewMemoryStore creates an in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{keys: make(map[string]struct{})}
}

// Issue creates and records a fresh session key.
func (s *MemoryStore) Issue(ctx context.Context) (string, error) {
	key := uuid.New().String()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys[key] = struct{}{}
	return key, nil
}

// Exists reports whether the key was issued by this store.
func (s *MemoryStore) Exists(ctx context.Context, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.keys[key]
	return ok, nil
}

// Refresh is a no-op for the in-memory store.
func (s *MemoryStore) Refresh(ctx context.Context, key string) error {
	return nil
}
