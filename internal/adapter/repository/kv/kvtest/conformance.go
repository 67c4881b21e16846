// Package kvtest holds behaviour tests shared by every kv.Store backend.
package kvtest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/iho/cashflow/internal/adapter/repository/kv"
)

// RunStoreTests exercises the kv.Store contract against stores created by
// newStore. Every subtest gets a fresh store.
func RunStoreTests(t *testing.T, newStore func(t *testing.T) kv.Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		s := newStore(t)
		if _, err := s.Get(ctx, "nope"); !errors.Is(err, kv.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("set and get", func(t *testing.T) {
		s := newStore(t)
		if err := s.Set(ctx, "k", []byte(`{"a":1}`), 0); err != nil {
			t.Fatalf("set failed: %v", err)
		}
		got, err := s.Get(ctx, "k")
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if string(got) != `{"a":1}` {
			t.Fatalf("unexpected value %q", got)
		}
	})

	t.Run("overwrite", func(t *testing.T) {
		s := newStore(t)
		_ = s.Set(ctx, "k", []byte("1"), 0)
		_ = s.Set(ctx, "k", []byte("2"), 0)
		got, err := s.Get(ctx, "k")
		if err != nil || string(got) != "2" {
			t.Fatalf("expected 2, got %q err=%v", got, err)
		}
	})

	t.Run("setnx", func(t *testing.T) {
		s := newStore(t)
		set, err := s.SetNX(ctx, "lock", []byte("first"), time.Minute)
		if err != nil || !set {
			t.Fatalf("expected first SetNX to succeed, got set=%v err=%v", set, err)
		}
		set, err = s.SetNX(ctx, "lock", []byte("second"), time.Minute)
		if err != nil {
			t.Fatalf("SetNX failed: %v", err)
		}
		if set {
			t.Fatal("expected second SetNX to fail because key exists")
		}
		got, _ := s.Get(ctx, "lock")
		if string(got) != "first" {
			t.Fatalf("expected first value to survive, got %q", got)
		}
	})

	t.Run("delete many", func(t *testing.T) {
		s := newStore(t)
		_ = s.Set(ctx, "a", []byte("1"), 0)
		_ = s.Set(ctx, "b", []byte("2"), 0)
		_ = s.Set(ctx, "c", []byte("3"), 0)
		if err := s.Delete(ctx, "a", "b", "missing"); err != nil {
			t.Fatalf("delete failed: %v", err)
		}
		if _, err := s.Get(ctx, "a"); !errors.Is(err, kv.ErrNotFound) {
			t.Fatalf("expected a to be deleted, got %v", err)
		}
		if _, err := s.Get(ctx, "c"); err != nil {
			t.Fatalf("expected c to survive, got %v", err)
		}
	})

	t.Run("delete nothing", func(t *testing.T) {
		s := newStore(t)
		if err := s.Delete(ctx); err != nil {
			t.Fatalf("empty delete failed: %v", err)
		}
	})
}
