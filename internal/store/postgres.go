package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/neilk17/twenty-capture/internal/model"
)

// Pool is the subset of pgxpool.Pool used by the store; pgxmock satisfies
// it in tests.
type Pool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    Pool
	closeFn func()
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 4
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS captures (
	id           TEXT PRIMARY KEY,
	seq          BIGSERIAL,
	source_key   TEXT NOT NULL UNIQUE,
	display_name TEXT NOT NULL,
	kind         TEXT NOT NULL,
	remote_id    TEXT NOT NULL,
	captured_at  TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS settings (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_captures_captured_at ON captures(captured_at);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) SaveCapture(ctx context.Context, entry model.CaptureEntry) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "postgres: begin save capture")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx,
		`DELETE FROM captures WHERE source_key = $1`, entry.SourceKey,
	); err != nil {
		return eris.Wrap(err, "postgres: delete duplicate capture")
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO captures (id, source_key, display_name, kind, remote_id, captured_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.New().String(), entry.SourceKey, entry.DisplayName,
		string(entry.Kind), entry.RemoteID, entry.CapturedAt.UTC(),
	); err != nil {
		return eris.Wrap(err, "postgres: insert capture")
	}

	if _, err := tx.Exec(ctx,
		`DELETE FROM captures WHERE id NOT IN (
			SELECT id FROM captures ORDER BY captured_at DESC, seq DESC LIMIT $1
		)`, MaxRecentCaptures,
	); err != nil {
		return eris.Wrap(err, "postgres: trim captures")
	}

	return eris.Wrap(tx.Commit(ctx), "postgres: commit save capture")
}

func (s *PostgresStore) ListCaptures(ctx context.Context) ([]model.CaptureEntry, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT source_key, display_name, kind, remote_id, captured_at
		 FROM captures ORDER BY captured_at DESC, seq DESC`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list captures")
	}
	defer rows.Close()

	var entries []model.CaptureEntry
	for rows.Next() {
		var e model.CaptureEntry
		var kind string
		if err := rows.Scan(&e.SourceKey, &e.DisplayName, &kind, &e.RemoteID, &e.CapturedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan capture")
		}
		e.Kind = model.EntityKind(kind)
		entries = append(entries, e)
	}
	return entries, eris.Wrap(rows.Err(), "postgres: iterate captures")
}

func (s *PostgresStore) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := s.pool.QueryRow(ctx,
		`SELECT value FROM settings WHERE key = $1`, key,
	).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", eris.Wrapf(err, "postgres: get setting %s", key)
	}
	return value, nil
}

func (s *PostgresStore) SetSetting(ctx context.Context, key, value string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO settings (key, value) VALUES ($1, $2)
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`,
		key, value,
	)
	return eris.Wrapf(err, "postgres: set setting %s", key)
}
