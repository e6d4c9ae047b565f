package pgkv

import (
	"context"
	"os"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/storage/database"
)

// prepareDB connects to TEST_DATABASE_URL, skipping the test when it is not set.
func prepareDB(t *testing.T) *sqlx.DB {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	db, err := sqlx.Open("postgres", dsn)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		_, _ = db.Exec("DELETE FROM kv_store WHERE key LIKE 'test_%'")
		_ = db.Close()
	})
	return db
}

func TestDB(t *testing.T) {
	ctx := context.Background()
	db := New(prepareDB(t))

	_, err := db.GetItem(ctx, "test_k")
	assert.Equal(t, core.ErrItemNotFound, err)

	require.NoError(t, db.SetItem(ctx, "test_k", []byte(`{"a":1}`)))
	require.NoError(t, db.SetItem(ctx, "test_k", []byte(`{"a":2}`)))
	got, err := db.GetItem(ctx, "test_k")
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":2}`, string(got))

	require.NoError(t, db.RemoveItem(ctx, "test_k"))
	_, err = db.GetItem(ctx, "test_k")
	assert.Equal(t, core.ErrItemNotFound, err)
}
