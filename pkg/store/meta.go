package store

import (
	"context"
)

// GetMeta returns the value for a meta key.
func (s *Store) GetMeta(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM meta WHERE key = $1`, key).Scan(&value)
	if err != nil {
		return "", mapError("get meta", err)
	}
	return value, nil
}

// AllMeta returns every meta key-value pair.
func (s *Store) AllMeta(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM meta ORDER BY key`)
	if err != nil {
		return nil, mapError("list meta", err)
	}
	defer rows.Close()

	meta := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, mapError("scan meta", err)
		}
		meta[k] = v
	}
	return meta, mapError("list meta", rows.Err())
}

// SetMetaIfAbsent inserts a meta key-value pair only when the key does not
// exist yet. Used to apply environment-supplied seed defaults without
// clobbering values the learner has changed.
func (s *Store) SetMetaIfAbsent(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO meta (key, value) VALUES ($1, $2)
		 ON CONFLICT (key) DO NOTHING`,
		key, value)
	return mapError("seed meta", err)
}

// SetMeta upserts a meta key-value pair.
func (s *Store) SetMeta(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO meta (key, value) VALUES ($1, $2)
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`,
		key, value)
	return mapError("set meta", err)
}
