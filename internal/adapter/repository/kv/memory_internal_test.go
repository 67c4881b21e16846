package kv

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	s := NewMemoryStore()
	s.now = func() time.Time { return now }

	if err := s.Set(ctx, "session", []byte("x"), time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if _, err := s.Get(ctx, "session"); err != nil {
		t.Fatalf("expected live key, got %v", err)
	}

	now = now.Add(time.Minute)
	if _, err := s.Get(ctx, "session"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected expired key to be gone, got %v", err)
	}

	set, err := s.SetNX(ctx, "session", []byte("y"), 0)
	if err != nil || !set {
		t.Fatalf("expected SetNX over expired key to succeed, got set=%v err=%v", set, err)
	}
}
