// Package badgerkv stores items in an embedded badger database.
package badgerkv

import (
	"context"

	"github.com/dgraph-io/badger/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
)

type DB struct {
	db *badger.DB
}

var _ core.Storage = (*DB)(nil) // interface compliance check

// Open opens (or creates) the badger database in dir. An empty dir keeps everything in memory.
func Open(dir string) (*DB, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrap(err, "opening badger")
	}
	return &DB{db: db}, nil
}

func (db *DB) GetItem(_ context.Context, key string) ([]byte, error) {
	var val []byte
	err := db.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		val, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, core.ErrItemNotFound
		}
		return nil, errors.Wrapf(err, "getting %s", key)
	}
	return val, nil
}

func (db *DB) SetItem(_ context.Context, key string, value []byte) error {
	err := db.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
	return errors.Wrapf(err, "setting %s", key)
}

func (db *DB) RemoveItem(_ context.Context, key string) error {
	err := db.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	return errors.Wrapf(err, "removing %s", key)
}

func (db *DB) Close() error {
	return db.db.Close()
}
