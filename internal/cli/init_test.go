package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"txboard/internal/config"
)

func TestSetupLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := SetupLogger(&buf, "warn")
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown", "records", 3)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "records=3")
	assert.Contains(t, out, "component=app")
}

func TestSetupLoggerRejectsUnknownLevel(t *testing.T) {
	_, err := SetupLogger(&bytes.Buffer{}, "verbose")
	assert.Error(t, err)
}

func TestLoadAndValidateConfig(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("DATA_BACKEND", "memory")
	t.Setenv("PORT", "9090")

	cfg, err := LoadAndValidateConfig()
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.DataBackend)
	assert.Equal(t, "9090", cfg.Port)
}

func TestLoadAndValidateConfigInvalid(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("DATA_BACKEND", "sheets")

	_, err := LoadAndValidateConfig()
	assert.Error(t, err)
}

func TestOpenStore(t *testing.T) {
	logger, err := SetupLogger(&bytes.Buffer{}, "error")
	require.NoError(t, err)

	cfg := &config.Config{
		DataBackend:  config.BackendSQLite,
		SQLiteDBPath: filepath.Join(t.TempDir(), "tx.db"),
	}
	res, err := OpenStore(context.Background(), logger, cfg)
	require.NoError(t, err)
	defer res.Cleanup()

	assert.NoError(t, res.Store.Ping(context.Background()))
}

func TestConnectPublisherDisabled(t *testing.T) {
	logger, err := SetupLogger(&bytes.Buffer{}, "error")
	require.NoError(t, err)

	assert.Nil(t, ConnectPublisher(logger, &config.Config{}))
}
