package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/lalith-99/skillswap/internal/db"
)

// PostgresKV keeps state keys as rows of the kv table created by db.New.
type PostgresKV struct {
	db *db.DB
}

func NewPostgresKV(database *db.DB) *PostgresKV {
	return &PostgresKV{db: database}
}

func (s *PostgresKV) Get(ctx context.Context, key string) ([]byte, error) {
	query := `SELECT value FROM kv WHERE key = $1`

	var value []byte
	err := s.db.Pool().QueryRow(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return value, nil
}

// Set replaces the whole value. Last write wins.
func (s *PostgresKV) Set(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO kv (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`

	if _, err := s.db.Pool().Exec(ctx, query, key, value); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (s *PostgresKV) Ping(ctx context.Context) error {
	return s.db.Health(ctx)
}

func (s *PostgresKV) Close() error {
	s.db.Close()
	return nil
}
