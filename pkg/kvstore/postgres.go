package kvstore

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PgxConn is the subset of pgxpool.Pool used by PostgresBackend.
type PgxConn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresBackend keeps snapshots in the kv_records table.
type PostgresBackend struct {
	db     PgxConn
	prefix string
}

func NewPostgresBackend(db PgxConn, prefix string) *PostgresBackend {
	return &PostgresBackend{db: db, prefix: prefix}
}

func (p *PostgresBackend) Get(ctx context.Context, key string) ([]byte, error) {
	query := `SELECT value::text FROM kv_records WHERE key = $1`
	var value string
	err := p.db.QueryRow(ctx, query, prefixed(p.prefix, key)).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return []byte(value), nil
}

// Put sends the JSON as text so the simple query protocol casts it to jsonb
// instead of encoding it as bytea.
func (p *PostgresBackend) Put(ctx context.Context, key string, value []byte) error {
	query := `INSERT INTO kv_records (key, value, updated_at)
              VALUES ($1, $2::jsonb, NOW())
              ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`
	_, err := p.db.Exec(ctx, query, prefixed(p.prefix, key), string(value))
	return err
}

func (p *PostgresBackend) Remove(ctx context.Context, key string) error {
	_, err := p.db.Exec(ctx, `DELETE FROM kv_records WHERE key = $1`, prefixed(p.prefix, key))
	return err
}
