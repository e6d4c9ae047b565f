package memkv

import (
	"context"
	"errors"
	"sync"

	"github.com/trezcool/shule/core"
)

var ErrClosed = errors.New("memkv: closed")

type (
	// DB is an in-memory core.Storage. Values are copied in and out.
	DB struct {
		items *itemTable
	}

	itemTable struct {
		sync.RWMutex
		table  map[string][]byte
		closed bool
	}
)

var _ core.Storage = (*DB)(nil) // interface compliance check

func Open() (*DB, error) {
	db := &DB{
		items: &itemTable{table: make(map[string][]byte)},
	}
	return db, nil
}

func (db *DB) GetItem(_ context.Context, key string) ([]byte, error) {
	db.items.RLock()
	defer db.items.RUnlock()

	if db.items.closed {
		return nil, ErrClosed
	}
	val, ok := db.items.table[key]
	if !ok {
		return nil, core.ErrItemNotFound
	}
	return append([]byte(nil), val...), nil
}

func (db *DB) SetItem(_ context.Context, key string, value []byte) error {
	db.items.Lock()
	defer db.items.Unlock()

	if db.items.closed {
		return ErrClosed
	}
	db.items.table[key] = append([]byte(nil), value...)
	return nil
}

func (db *DB) RemoveItem(_ context.Context, key string) error {
	db.items.Lock()
	defer db.items.Unlock()

	if db.items.closed {
		return ErrClosed
	}
	delete(db.items.table, key)
	return nil
}

// Close drops every item; later calls fail with ErrClosed.
func (db *DB) Close() error {
	db.items.Lock()
	defer db.items.Unlock()

	db.items.closed = true
	db.items.table = nil
	return nil
}
