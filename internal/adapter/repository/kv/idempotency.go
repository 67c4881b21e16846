package kv

import (
	"context"
	"errors"
	"time"
)

const (
	idempotencyPrefix  = "idempotency:"
	idempotencyPending = "processing"
)

// IdempotencyStore remembers responses of mutating requests by key.
type IdempotencyStore struct {
	store Store
}

// NewIdempotencyStore creates a new IdempotencyStore.
func NewIdempotencyStore(store Store) *IdempotencyStore {
	return &IdempotencyStore{store: store}
}

// CheckAndSet atomically checks if key exists and claims it if not. When
// the key exists the stored response is returned; it is nil while the first
// request is still being processed.
func (s *IdempotencyStore) CheckAndSet(ctx context.Context, key string, ttl time.Duration) (bool, []byte, error) {
	fullKey := idempotencyPrefix + key

	set, err := s.store.SetNX(ctx, fullKey, []byte(idempotencyPending), ttl)
	if err != nil {
		return false, nil, err
	}
	if set {
		return false, nil, nil
	}

	existing, err := s.store.Get(ctx, fullKey)
	if errors.Is(err, ErrNotFound) {
		return true, nil, nil
	}
	if err != nil {
		return false, nil, err
	}
	if string(existing) == idempotencyPending {
		return true, nil, nil
	}
	return true, existing, nil
}

// Update stores the final response for key.
func (s *IdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	return s.store.Set(ctx, idempotencyPrefix+key, response, ttl)
}

// Release forgets key so that a failed request can be retried.
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	return s.store.Delete(ctx, idempotencyPrefix+key)
}
