package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kedialo/barpos/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("testdata/nonexistent.env")
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, "http://localhost:8080/api", cfg.Backend.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, config.StorageDriverFile, cfg.Storage.Driver)
	assert.Equal(t, "register-1", cfg.Storage.RegisterID)
	assert.Empty(t, cfg.Refresh.CronSchedule)
}

func TestLoad_UnknownStorageDriver(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "etcd")

	_, err := config.Load("testdata/nonexistent.env")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORAGE_DRIVER")
}

func TestLoad_MongoDriverRequiresURI(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", config.StorageDriverMongo)
	t.Setenv("MONGODB_URI", "")

	_, err := config.Load("testdata/nonexistent.env")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MONGODB_URI")
}

func TestLoad_BadTimeout(t *testing.T) {
	t.Setenv("BACKEND_TIMEOUT_SEC", "soon")

	_, err := config.Load("testdata/nonexistent.env")
	assert.Error(t, err)
}
