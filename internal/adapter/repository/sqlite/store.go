package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iho/cashflow/internal/adapter/repository/kv"
)

const (
	getQuery = `SELECT value FROM kv_entries
WHERE key = ? AND (expires_at IS NULL OR expires_at > ?)`

	setQuery = `INSERT INTO kv_entries (key, value, expires_at, updated_at)
VALUES (?, ?, ?, ?)
ON CONFLICT (key) DO UPDATE
SET value = excluded.value, expires_at = excluded.expires_at, updated_at = excluded.updated_at`

	setNXQuery = `INSERT INTO kv_entries (key, value, expires_at, updated_at)
VALUES (?, ?, ?, ?)
ON CONFLICT (key) DO UPDATE
SET value = excluded.value, expires_at = excluded.expires_at, updated_at = excluded.updated_at
WHERE kv_entries.expires_at IS NOT NULL AND kv_entries.expires_at <= excluded.updated_at`
)

// Store implements kv.Store on an SQLite kv_entries table. Times are stored
// as unix milliseconds.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// NewStore creates a new Store.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

func (s *Store) expiry(now time.Time, ttl time.Duration) sql.NullInt64 {
	if ttl <= 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: now.Add(ttl).UnixMilli(), Valid: true}
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, getQuery, key, s.now().UnixMilli()).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, kv.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	now := s.now()
	_, err := s.db.ExecContext(ctx, setQuery, key, value, s.expiry(now, ttl), now.UnixMilli())
	return err
}

func (s *Store) SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	now := s.now()
	res, err := s.db.ExecContext(ctx, setNXQuery, key, value, s.expiry(now, ttl), now.UnixMilli())
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (s *Store) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	args := make([]any, len(keys))
	for i, k := range keys {
		args[i] = k
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(keys)), ",")

	_, err := s.db.ExecContext(ctx, "DELETE FROM kv_entries WHERE key IN ("+placeholders+")", args...)
	return err
}
