package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// MaxKey returns the AFTER key, the newest id fetched so far.
func (s *Store) MaxKey(ctx context.Context) (int64, bool, error) {
	id, ok, err := keyID(ctx, s.db, KeyAfter)
	if err != nil {
		return 0, false, storageErr("max key", err)
	}
	return id, ok, nil
}

// MinKey returns the BEFORE key, the oldest id fetched so far.
func (s *Store) MinKey(ctx context.Context) (int64, bool, error) {
	id, ok, err := keyID(ctx, s.db, KeyBefore)
	if err != nil {
		return 0, false, storageErr("min key", err)
	}
	return id, ok, nil
}

func keyID(ctx context.Context, q execQuerier, t KeyType) (int64, bool, error) {
	var id int64
	err := q.QueryRowContext(ctx, `SELECT id FROM post_remote_keys WHERE type = ?`, string(t)).Scan(&id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return 0, false, nil
	case err != nil:
		return 0, false, err
	}
	return id, true, nil
}

func replaceKeys(ctx context.Context, q execQuerier, keys []RemoteKey) error {
	for _, k := range keys {
		if !validKeyType(k.Type) {
			return fmt.Errorf("%w: unknown remote key type %q", ErrInvalidInput, k.Type)
		}
		if _, err := q.ExecContext(ctx, `
			INSERT INTO post_remote_keys (type, id) VALUES (?, ?)
			ON CONFLICT(type) DO UPDATE SET id = excluded.id
		`, string(k.Type), k.ID); err != nil {
			return fmt.Errorf("replace %s key: %w", k.Type, err)
		}
	}
	return nil
}

func (s *Store) ListKeys(ctx context.Context) ([]RemoteKey, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT type, id FROM post_remote_keys ORDER BY type`)
	if err != nil {
		return nil, storageErr("list keys", err)
	}
	defer rows.Close()

	keys := make([]RemoteKey, 0, 2)
	for rows.Next() {
		var k RemoteKey
		var t string
		if err := rows.Scan(&t, &k.ID); err != nil {
			return nil, storageErr("list keys", err)
		}
		k.Type = KeyType(t)
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list keys", err)
	}
	return keys, nil
}
