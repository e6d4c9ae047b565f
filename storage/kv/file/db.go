// Package filekv stores each item as a file in a data directory.
package filekv

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
)

var keyRegex = regexp.MustCompile(`^[\w.-]+$`)

type DB struct {
	mu  sync.RWMutex
	dir string
}

var _ core.Storage = (*DB)(nil) // interface compliance check

// Open creates dir if needed.
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "creating %s", dir)
	}
	return &DB{dir: dir}, nil
}

func (db *DB) path(key string) (string, error) {
	if !keyRegex.MatchString(key) {
		return "", errors.Errorf("filekv: invalid key %q", key)
	}
	return filepath.Join(db.dir, key+".json"), nil
}

func (db *DB) GetItem(_ context.Context, key string) ([]byte, error) {
	fp, err := db.path(key)
	if err != nil {
		return nil, err
	}
	db.mu.RLock()
	defer db.mu.RUnlock()

	data, err := os.ReadFile(fp)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, core.ErrItemNotFound
		}
		return nil, errors.Wrapf(err, "reading %s", fp)
	}
	return data, nil
}

// SetItem writes to a temp file first so a crash never leaves a half-written item.
func (db *DB) SetItem(_ context.Context, key string, value []byte) error {
	fp, err := db.path(key)
	if err != nil {
		return err
	}
	db.mu.Lock()
	defer db.mu.Unlock()

	tmp, err := os.CreateTemp(db.dir, key+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "creating temp file")
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(value); err != nil {
		_ = tmp.Close()
		return errors.Wrapf(err, "writing %s", tmp.Name())
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "closing %s", tmp.Name())
	}
	return errors.Wrapf(os.Rename(tmp.Name(), fp), "renaming to %s", fp)
}

func (db *DB) RemoveItem(_ context.Context, key string) error {
	fp, err := db.path(key)
	if err != nil {
		return err
	}
	db.mu.Lock()
	defer db.mu.Unlock()

	if err := os.Remove(fp); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "removing %s", fp)
	}
	return nil
}

func (db *DB) Close() error { return nil }
