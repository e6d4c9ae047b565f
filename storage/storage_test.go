package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/storage/kv/badger"
	"github.com/trezcool/shule/storage/kv/file"
	"github.com/trezcool/shule/storage/kv/memory"
)

func TestOpen(t *testing.T) {
	tests := []struct {
		driver  string
		want    interface{}
		wantErr bool
	}{
		{driver: DriverMemory, want: &memkv.DB{}},
		{driver: DriverFile, want: &filekv.DB{}},
		{driver: "", want: &filekv.DB{}},
		{driver: DriverBadger, want: &badgerkv.DB{}},
		{driver: "lol", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			conf := &core.Config{Storage: core.StorageConfig{Driver: tt.driver, Dir: t.TempDir()}}
			st, err := Open(context.Background(), conf)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			defer st.Close()
			assert.IsType(t, tt.want, st)
		})
	}
}
