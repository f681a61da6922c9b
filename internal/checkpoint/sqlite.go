package checkpoint

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/masato/tag-generator/internal/types"
)

// SQLiteStore keeps checkpoints in a local SQLite database, one row per
// scope key, typically the input file path. Useful when several input
// files are processed against the same working directory and
// file-per-checkpoint bookkeeping gets messy.
type SQLiteStore struct {
	db    *sql.DB
	scope string
}

// OpenSQLiteStore opens (and if needed initializes) the checkpoint
// database at path, scoped to one key.
func OpenSQLiteStore(ctx context.Context, path, scope string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open checkpoint db %s: %w", path, err)
	}

	const schema = `
		CREATE TABLE IF NOT EXISTS checkpoints (
			scope   TEXT PRIMARY KEY,
			payload TEXT NOT NULL
		)`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize checkpoint db: %w", err)
	}
	return &SQLiteStore{db: db, scope: scope}, nil
}

// Load reads and validates this scope's checkpoint. No row means no
// checkpoint, which is not an error.
func (s *SQLiteStore) Load(ctx context.Context) (*types.Checkpoint, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM checkpoints WHERE scope = ?`, s.scope,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read checkpoint row: %w", err)
	}
	return decode(payload)
}

// Save upserts this scope's checkpoint. The upsert is atomic at the
// statement level, so a crash never leaves a partial payload.
func (s *SQLiteStore) Save(ctx context.Context, cp *types.Checkpoint) error {
	data, err := encode(cp)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO checkpoints (scope, payload) VALUES (?, ?)
		 ON CONFLICT(scope) DO UPDATE SET payload = excluded.payload`,
		s.scope, string(data),
	)
	if err != nil {
		return fmt.Errorf("failed to save checkpoint row: %w", err)
	}
	return nil
}

// Clear deletes this scope's checkpoint row.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM checkpoints WHERE scope = ?`, s.scope); err != nil {
		return fmt.Errorf("failed to clear checkpoint row: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
