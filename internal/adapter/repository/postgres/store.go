package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/iho/cashflow/internal/adapter/repository/kv"
)

const (
	getQuery = `SELECT value FROM kv_entries
WHERE key = $1 AND (expires_at IS NULL OR expires_at > now())`

	setQuery = `INSERT INTO kv_entries (key, value, expires_at, updated_at)
VALUES ($1, $2, $3, now())
ON CONFLICT (key) DO UPDATE
SET value = EXCLUDED.value, expires_at = EXCLUDED.expires_at, updated_at = now()`

	setNXQuery = `INSERT INTO kv_entries (key, value, expires_at, updated_at)
VALUES ($1, $2, $3, now())
ON CONFLICT (key) DO UPDATE
SET value = EXCLUDED.value, expires_at = EXCLUDED.expires_at, updated_at = now()
WHERE kv_entries.expires_at IS NOT NULL AND kv_entries.expires_at <= now()`

	deleteQuery = `DELETE FROM kv_entries WHERE key = ANY($1)`
)

// DBTX is the subset of pgxpool.Pool used by Store.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store implements kv.Store on the kv_entries table.
type Store struct {
	db      DBTX
	retrier *Retrier
}

// NewStore creates a new Store.
func NewStore(db DBTX, retrier *Retrier) *Store {
	return &Store{db: db, retrier: retrier}
}

func expiry(ttl time.Duration) *time.Time {
	if ttl <= 0 {
		return nil
	}
	t := time.Now().Add(ttl).UTC()
	return &t
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.retrier.Retry(ctx, "get", func() error {
		return s.db.QueryRow(ctx, getQuery, key).Scan(&value)
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, kv.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.retrier.Retry(ctx, "set", func() error {
		_, err := s.db.Exec(ctx, setQuery, key, value, expiry(ttl))
		return err
	})
}

// SetNX inserts key unless a live entry exists. An expired entry is
// replaced.
func (s *Store) SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	var tag pgconn.CommandTag
	err := s.retrier.Retry(ctx, "setnx", func() error {
		var err error
		tag, err = s.db.Exec(ctx, setNXQuery, key, value, expiry(ttl))
		return err
	})
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *Store) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.retrier.Retry(ctx, "delete", func() error {
		_, err := s.db.Exec(ctx, deleteQuery, keys)
		return err
	})
}
