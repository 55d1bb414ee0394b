package kv

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq" // postgres driver
)

// Postgres backs the local partition with a single kv table.
type Postgres struct {
	db *sql.DB
}

// NewPostgres connects to the database and ensures the kv table exists.
func NewPostgres(databaseURL string) (*Postgres, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	schema := `
		CREATE TABLE IF NOT EXISTS kv (
			key        TEXT PRIMARY KEY,
			value      JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to create kv table: %w", err)
	}

	return &Postgres{db: db}, nil
}

// Get retrieves a value by key
func (p *Postgres) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	query := `SELECT value FROM kv WHERE key = $1`

	err := p.db.QueryRowContext(ctx, query, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get key %q: %w", key, err)
	}

	return value, nil
}

// Set upserts a value, last writer wins
func (p *Postgres) Set(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO kv (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
	`

	if _, err := p.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to set key %q: %w", key, err)
	}

	return nil
}

// Delete removes a key; deleting a missing key is not an error
func (p *Postgres) Delete(ctx context.Context, key string) error {
	query := `DELETE FROM kv WHERE key = $1`

	if _, err := p.db.ExecContext(ctx, query, key); err != nil {
		return fmt.Errorf("failed to delete key %q: %w", key, err)
	}

	return nil
}

// Keys lists every stored key
func (p *Postgres) Keys(ctx context.Context) ([]string, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT key FROM kv ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan key: %w", err)
		}
		keys = append(keys, key)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate keys: %w", err)
	}

	return keys, nil
}

// Ping verifies the database connection
func (p *Postgres) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

// Close closes the underlying connection pool
func (p *Postgres) Close() error {
	return p.db.Close()
}

var (
	_ KV     = (*Postgres)(nil)
	_ Pinger = (*Postgres)(nil)
)
