// Package storage opens the configured persistence medium.
package storage

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/storage/database"
	"github.com/trezcool/shule/storage/kv/badger"
	"github.com/trezcool/shule/storage/kv/file"
	"github.com/trezcool/shule/storage/kv/memory"
	"github.com/trezcool/shule/storage/kv/postgres"
)

const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverBadger   = "badger"
	DriverPostgres = "postgres"
)

// Open returns the core.Storage selected by conf.Storage.Driver. Postgres is migrated on open.
func Open(ctx context.Context, conf *core.Config) (core.Storage, error) {
	switch conf.Storage.Driver {
	case DriverMemory:
		return memkv.Open()
	case DriverFile, "":
		return filekv.Open(conf.Storage.Dir)
	case DriverBadger:
		return badgerkv.Open(conf.Storage.Dir)
	case DriverPostgres:
		db, err := database.Open(ctx, conf.Database)
		if err != nil {
			return nil, err
		}
		if err := database.Migrate(db); err != nil {
			_ = db.Close()
			return nil, err
		}
		return pgkv.New(db), nil
	default:
		return nil, errors.Errorf("unknown storage driver %q", conf.Storage.Driver)
	}
}
