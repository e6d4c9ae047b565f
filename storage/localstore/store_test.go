package localstore_test

import (
	"context"
	"math/rand"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/catalog"
	"github.com/trezcool/shule/core/school"
	"github.com/trezcool/shule/core/seed"
	"github.com/trezcool/shule/storage/kv/memory"
	"github.com/trezcool/shule/storage/localstore"
)

type brokenMedium struct{ memkv.DB }

var errDiskGone = errors.New("disk gone")

func (brokenMedium) GetItem(context.Context, string) ([]byte, error) { return nil, errDiskGone }
func (brokenMedium) SetItem(context.Context, string, []byte) error   { return errDiskGone }

func setup(t *testing.T) (*localstore.Store, *memkv.DB, *int) {
	db, err := memkv.Open()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	calls := new(int)
	gen := seed.NewGenerator(catalog.Default(), seed.DefaultConfig, rand.New(rand.NewSource(42)))
	store := localstore.New(db, func() school.Dataset {
		*calls++
		return gen.Generate()
	})
	return store, db, calls
}

func TestStore_Load_initializesOnce(t *testing.T) {
	ctx := context.Background()
	store, db, calls := setup(t)

	first, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, *calls)
	assert.Len(t, first.Students, 90)

	stored, err := db.GetItem(ctx, localstore.DefaultKey)
	require.NoError(t, err)
	assert.NotEmpty(t, stored)

	second, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, *calls, "generator must not run again")
	assert.Equal(t, first, second)
}

func TestStore_roundTrip(t *testing.T) {
	ctx := context.Background()
	store, _, _ := setup(t)

	orig, err := store.Load(ctx)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, orig))

	reloaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, orig, reloaded)
}

func TestStore_Save_overwrites(t *testing.T) {
	ctx := context.Background()
	store, _, _ := setup(t)

	ds, err := store.Load(ctx)
	require.NoError(t, err)
	ds.Students = ds.Students[:1]
	require.NoError(t, store.Save(ctx, ds))

	reloaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, reloaded.Students, 1)
}

func TestStore_WithKey(t *testing.T) {
	ctx := context.Background()
	db, err := memkv.Open()
	require.NoError(t, err)

	v1 := localstore.New(db, func() school.Dataset { return school.Dataset{Students: []school.Student{{ID: "old"}}} }, localstore.WithKey("edu_ke_data_v1"))
	v2 := localstore.New(db, func() school.Dataset { return school.Dataset{Students: []school.Student{{ID: "new"}}} })
	assert.Equal(t, "edu_ke_data_v1", v1.Key())
	assert.Equal(t, localstore.DefaultKey, v2.Key())

	_, err = v1.Load(ctx)
	require.NoError(t, err)
	ds, err := v2.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "new", ds.Students[0].ID, "a key bump orphans the old data")
}

func TestStore_corruptState(t *testing.T) {
	ctx := context.Background()
	store, db, calls := setup(t)
	require.NoError(t, db.SetItem(ctx, localstore.DefaultKey, []byte("{not json")))

	_, err := store.Load(ctx)
	assert.True(t, errors.Is(err, school.ErrCorruptState), "Load() error = %v", err)
	assert.Equal(t, 0, *calls)

	ds, err := store.Reset(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, *calls)
	assert.Len(t, ds.Students, 90)

	_, err = store.Load(ctx)
	assert.NoError(t, err)
}

func TestStore_storageUnavailable(t *testing.T) {
	ctx := context.Background()
	store := localstore.New(&brokenMedium{}, func() school.Dataset { return school.Dataset{} })

	_, err := store.Load(ctx)
	assert.True(t, errors.Is(err, school.ErrStorageUnavailable), "Load() error = %v", err)
	assert.Equal(t, school.ErrStorageUnavailable, errors.Cause(err))

	err = store.Save(ctx, school.Dataset{})
	assert.True(t, errors.Is(err, school.ErrStorageUnavailable), "Save() error = %v", err)
}

func TestStore_firstSaveFails(t *testing.T) {
	db, err := memkv.Open()
	require.NoError(t, err)
	require.NoError(t, db.Close())

	store := localstore.New(db, func() school.Dataset { return school.Dataset{} })
	_, err = store.Load(context.Background())
	assert.True(t, errors.Is(err, school.ErrStorageUnavailable))
	assert.False(t, errors.Is(err, core.ErrItemNotFound))
}
