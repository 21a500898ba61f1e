package stores

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"invoice-docstore/config"
	"invoice-docstore/core"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetStoreFilesystem(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "pdfs")
	store, err := GetStore(context.Background(), config.Config{
		StorageType:      config.StorageFilesystem,
		LocalStoragePath: dir,
	}, "application/pdf")
	require.NoError(t, err)

	_, err = os.Stat(dir)
	require.NoError(t, err, "namespace should exist after initialization")

	id, err := store.Create(context.Background(), &core.Document{Data: []byte("fs")})
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, id+".pdf"))
	assert.NoError(t, err)
}

func TestGetStoreBackends(t *testing.T) {
	mr := miniredis.RunT(t)

	tests := []struct {
		name string
		cfg  config.Config
	}{
		{"memory", config.Config{StorageType: config.StorageMemory}},
		{"sqlite", config.Config{StorageType: config.StorageSQLite, DataSourceName: filepath.Join(t.TempDir(), "d.db")}},
		{"redis", config.Config{StorageType: config.StorageRedis, RedisAddr: mr.Addr(), RedisPrefix: "t:"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store, err := GetStore(ctx, tt.cfg, "application/pdf")
			require.NoError(t, err)

			id, err := store.Create(ctx, &core.Document{Data: []byte(tt.name)})
			require.NoError(t, err)
			doc, err := store.FindID(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, tt.name, string(doc.Data))
		})
	}
}

func TestGetStoreUnknown(t *testing.T) {
	_, err := GetStore(context.Background(), config.Config{StorageType: "tape"}, "application/pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown storage type")
}
