package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Get looks up cached output for an input hash. Only rows written by the
// given engine version count; older rows are treated as misses. The second
// return reports whether a usable row was found.
func (s *Store) Get(ctx context.Context, inputHash, engineVersion string) (string, bool, error) {
	var html string
	err := s.db.QueryRowContext(ctx, `
		SELECT html FROM renders
		WHERE input_hash = ? AND engine_version = ?
	`, inputHash, engineVersion).Scan(&html)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read render: %w", err)
	}
	return html, true, nil
}

// Put records rendered output for an input hash. An existing row for the
// same hash is replaced: the engine version may have changed, and for a
// fixed version the row is identical anyway.
func (s *Store) Put(ctx context.Context, inputHash, html, engineVersion string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO renders (input_hash, html, engine_version)
		VALUES (?, ?, ?)
		ON CONFLICT(input_hash) DO UPDATE SET
			html = excluded.html,
			engine_version = excluded.engine_version
	`, inputHash, html, engineVersion)
	if err != nil {
		return fmt.Errorf("write render: %w", err)
	}
	return nil
}

// Purge removes rows written by engine versions other than the given one.
// Returns the number of rows removed.
func (s *Store) Purge(ctx context.Context, keepEngineVersion string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM renders WHERE engine_version != ?
	`, keepEngineVersion)
	if err != nil {
		return 0, fmt.Errorf("purge renders: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge renders: %w", err)
	}
	return n, nil
}
