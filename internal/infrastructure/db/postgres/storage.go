package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lawyer4u/portal/internal/core/ports"
)

// Storage keeps browser storage entries in the browser_storage table.
// Entries older than ttl are treated as missing and purged by Sweep.
type Storage struct {
	db  *sql.DB
	ttl time.Duration
}

// NewStorage wraps db. A zero ttl disables expiry.
func NewStorage(db *sql.DB, ttl time.Duration) *Storage {
	return &Storage{db: db, ttl: ttl}
}

func (s *Storage) Scope(browserID string) ports.Storage {
	return &scope{storage: s, browserID: browserID}
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Storage) Close(context.Context) error {
	return s.db.Close()
}

// Sweep deletes expired entries and reports how many were removed.
func (s *Storage) Sweep(ctx context.Context) (int64, error) {
	if s.ttl <= 0 {
		return 0, nil
	}
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM browser_storage
		WHERE updated_at < $1
	`, time.Now().UTC().Add(-s.ttl))
	if err != nil {
		return 0, fmt.Errorf("sweep browser_storage: %w", err)
	}
	return res.RowsAffected()
}

type scope struct {
	storage   *Storage
	browserID string
}

func (s *scope) GetItem(ctx context.Context, key string) (string, bool, error) {
	var (
		value     string
		updatedAt time.Time
	)
	err := s.storage.db.QueryRowContext(ctx, `
		SELECT value, updated_at
		FROM browser_storage
		WHERE browser_id = $1 AND key = $2
	`, s.browserID, key).Scan(&value, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("query %s: %w", key, err)
	}
	if ttl := s.storage.ttl; ttl > 0 && time.Since(updatedAt) > ttl {
		return "", false, nil
	}
	return value, true, nil
}

func (s *scope) SetItem(ctx context.Context, key, value string) error {
	_, err := s.storage.db.ExecContext(ctx, `
		INSERT INTO browser_storage (browser_id, key, value, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (browser_id, key)
		DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`, s.browserID, key, value)
	if err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}

func (s *scope) RemoveItem(ctx context.Context, key string) error {
	if _, err := s.storage.db.ExecContext(ctx, `
		DELETE FROM browser_storage
		WHERE browser_id = $1 AND key = $2
	`, s.browserID, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}
