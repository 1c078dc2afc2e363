package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/neilk17/twenty-capture/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL
// mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS captures (
	id           TEXT PRIMARY KEY,
	source_key   TEXT NOT NULL UNIQUE,
	display_name TEXT NOT NULL,
	kind         TEXT NOT NULL,
	remote_id    TEXT NOT NULL,
	captured_at  DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS settings (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_captures_captured_at ON captures(captured_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveCapture(ctx context.Context, entry model.CaptureEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin save capture")
	}
	defer tx.Rollback() //nolint:errcheck

	// Same source key: newest wins, prior entry removed.
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM captures WHERE source_key = ?`, entry.SourceKey,
	); err != nil {
		return eris.Wrap(err, "sqlite: delete duplicate capture")
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO captures (id, source_key, display_name, kind, remote_id, captured_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		uuid.New().String(), entry.SourceKey, entry.DisplayName,
		string(entry.Kind), entry.RemoteID, entry.CapturedAt.UTC(),
	); err != nil {
		return eris.Wrap(err, "sqlite: insert capture")
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM captures WHERE id NOT IN (
			SELECT id FROM captures ORDER BY captured_at DESC, rowid DESC LIMIT ?
		)`, MaxRecentCaptures,
	); err != nil {
		return eris.Wrap(err, "sqlite: trim captures")
	}

	return eris.Wrap(tx.Commit(), "sqlite: commit save capture")
}

func (s *SQLiteStore) ListCaptures(ctx context.Context) ([]model.CaptureEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT source_key, display_name, kind, remote_id, captured_at
		 FROM captures ORDER BY captured_at DESC, rowid DESC`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list captures")
	}
	defer rows.Close() //nolint:errcheck

	var entries []model.CaptureEntry
	for rows.Next() {
		var e model.CaptureEntry
		var kind string
		var capturedAt time.Time
		if err := rows.Scan(&e.SourceKey, &e.DisplayName, &kind, &e.RemoteID, &capturedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan capture")
		}
		e.Kind = model.EntityKind(kind)
		e.CapturedAt = capturedAt
		entries = append(entries, e)
	}
	return entries, eris.Wrap(rows.Err(), "sqlite: iterate captures")
}

func (s *SQLiteStore) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = ?`, key,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", eris.Wrapf(err, "sqlite: get setting %s", key)
	}
	return value, nil
}

func (s *SQLiteStore) SetSetting(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return eris.Wrapf(err, "sqlite: set setting %s", key)
}
