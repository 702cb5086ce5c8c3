package backend

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"txboard/internal/config"
	"txboard/internal/storage/storagetest"
)

func TestFromAppConfig(t *testing.T) {
	t.Run("nil config", func(t *testing.T) {
		_, err := FromAppConfig(nil)
		assert.Error(t, err)
	})

	t.Run("invalid backend", func(t *testing.T) {
		_, err := FromAppConfig(&config.Config{DataBackend: "sheets"})
		assert.ErrorContains(t, err, "invalid backend type")
	})

	t.Run("mongo settings are copied", func(t *testing.T) {
		cfg, err := FromAppConfig(&config.Config{
			DataBackend:     "mongo",
			MongoURI:        "mongodb://db:27017",
			MongoDBName:     "transactionsDB",
			MongoCollection: "transactions",
		})
		require.NoError(t, err)
		assert.Equal(t, MongoBackend, cfg.Type)
		assert.Equal(t, "mongodb://db:27017", cfg.MongoURI)
		assert.Equal(t, "transactionsDB", cfg.MongoDBName)
		assert.Equal(t, "transactions", cfg.MongoCollection)
	})
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"memory", Config{Type: MemoryBackend}, false},
		{"sqlite with path", Config{Type: SQLiteBackend, SQLiteDBPath: "x.db"}, false},
		{"sqlite without path", Config{Type: SQLiteBackend}, true},
		{"mongo complete", Config{Type: MongoBackend, MongoURI: "mongodb://h", MongoDBName: "d", MongoCollection: "c"}, false},
		{"mongo without uri", Config{Type: MongoBackend, MongoDBName: "d", MongoCollection: "c"}, true},
		{"mongo without collection", Config{Type: MongoBackend, MongoURI: "mongodb://h", MongoDBName: "d"}, true},
		{"unknown", Config{Type: "sheets"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGetBackendTypeStrings(t *testing.T) {
	assert.Equal(t, []string{"sqlite", "mongo", "memory"}, GetBackendTypeStrings())
}

func TestCreateBackend(t *testing.T) {
	ctx := context.Background()
	f := NewFactory(nil)

	t.Run("memory", func(t *testing.T) {
		res, err := f.CreateBackend(ctx, Config{Type: MemoryBackend})
		require.NoError(t, err)
		assert.Nil(t, res.Cleanup)
		storagetest.Seed(t, res.Store)
		assert.NoError(t, res.Store.Ping(ctx))
	})

	t.Run("sqlite", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tx.db")
		res, err := f.CreateBackend(ctx, Config{Type: SQLiteBackend, SQLiteDBPath: path})
		require.NoError(t, err)
		require.NotNil(t, res.Cleanup)
		defer func() { assert.NoError(t, res.Cleanup()) }()
		assert.NoError(t, res.Store.Ping(ctx))
	})

	t.Run("invalid type", func(t *testing.T) {
		_, err := f.CreateBackend(ctx, Config{Type: "sheets"})
		assert.Error(t, err)
	})
}
