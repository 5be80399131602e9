package persist

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
)

// Backend is a durable key-value slot.
type Backend interface {
	// Load returns the value under key, or nil when there is none.
	Load(ctx context.Context, key string) ([]byte, error)
	// Save stores data under key, replacing any previous value.
	Save(ctx context.Context, key string, data []byte) error
}

// SQLiteBackend keeps values in the kv table.
type SQLiteBackend struct {
	db *sql.DB
}

// NewSQLiteBackend returns a backend on a database with the schema applied.
func NewSQLiteBackend(db *sql.DB) *SQLiteBackend {
	return &SQLiteBackend{db: db}
}

// Load implements Backend.
func (b *SQLiteBackend) Load(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := b.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", key, err)
	}
	return data, nil
}

// Save implements Backend.
func (b *SQLiteBackend) Save(ctx context.Context, key string, data []byte) error {
	_, err := b.db.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, data,
	)
	if err != nil {
		return fmt.Errorf("saving %s: %w", key, err)
	}
	return nil
}

// Secret returns the random secret stored under key, generating and storing
// one on first use. Uses INSERT OR IGNORE + re-SELECT so concurrent callers
// agree on one value.
func (b *SQLiteBackend) Secret(ctx context.Context, key string) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating %s: %w", key, err)
	}
	candidate := hex.EncodeToString(buf)

	_, err := b.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO kv (key, value) VALUES (?, ?)`,
		key, []byte(candidate),
	)
	if err != nil {
		return "", fmt.Errorf("storing %s: %w", key, err)
	}

	var secret []byte
	err = b.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&secret)
	if err != nil {
		return "", fmt.Errorf("querying %s: %w", key, err)
	}
	return string(secret), nil
}
