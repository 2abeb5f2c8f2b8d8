package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sketchforge/sketchforge-api/internal/store"
)

// ResultStore implements store.ResultStore on Redis string keys with TTL.
type ResultStore struct {
	client *redis.Client
}

// NewResultStore constructs a ResultStore backed by the given client.
func NewResultStore(client *redis.Client) (*ResultStore, error) {
	if client == nil {
		return nil, errors.New("redis client is nil")
	}
	return &ResultStore{client: client}, nil
}

// Save writes the terminal payload for taskID. SET semantics give
// last-write-wins per key; duplicate-identity submissions overwrite.
func (s *ResultStore) Save(ctx context.Context, taskID string, payload []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, store.ResultKey(taskID), payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store result for task %s: %w", taskID, err)
	}
	return nil
}

// Get returns the stored payload for taskID, or store.ErrResultNotFound when
// the key is absent or expired.
func (s *ResultStore) Get(ctx context.Context, taskID string) ([]byte, error) {
	payload, err := s.client.Get(ctx, store.ResultKey(taskID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, store.ErrResultNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read result for task %s: %w", taskID, err)
	}
	return payload, nil
}
