// Package pgkv stores items in a Postgres kv_store table (see assets/migrations).
package pgkv

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
)

const (
	getQuery    = `SELECT value FROM kv_store WHERE key = $1`
	setQuery    = `INSERT INTO kv_store (key, value, updated_at) VALUES ($1, $2, now()) ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`
	removeQuery = `DELETE FROM kv_store WHERE key = $1`
)

type DB struct {
	db *sqlx.DB
}

var _ core.Storage = (*DB)(nil) // interface compliance check

// New wraps an open, migrated database.
func New(db *sqlx.DB) *DB {
	return &DB{db: db}
}

func (db *DB) GetItem(ctx context.Context, key string) ([]byte, error) {
	var val []byte
	if err := db.db.GetContext(ctx, &val, getQuery, key); err != nil {
		if err == sql.ErrNoRows {
			return nil, core.ErrItemNotFound
		}
		return nil, errors.Wrapf(err, "getting %s", key)
	}
	return val, nil
}

func (db *DB) SetItem(ctx context.Context, key string, value []byte) error {
	_, err := db.db.ExecContext(ctx, setQuery, key, value)
	return errors.Wrapf(err, "setting %s", key)
}

func (db *DB) RemoveItem(ctx context.Context, key string) error {
	_, err := db.db.ExecContext(ctx, removeQuery, key)
	return errors.Wrapf(err, "removing %s", key)
}

func (db *DB) Close() error {
	return db.db.Close()
}
