package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-vinebar-venice/internal/types"
)

func TestInitConfig(t *testing.T) {
	cfg, err := InitConfig()
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, "8000", cfg.Server.HTTPPort)
	assert.Equal(t, 30*time.Second, cfg.Server.Timeout)
	assert.Equal(t, 3*time.Second, cfg.Flow.SplashImage)
	assert.Equal(t, 6*time.Second, cfg.Flow.Onboarding)
	assert.Equal(t, types.DefaultMapRegion, cfg.Map.DefaultRegion)
}

func TestInitConfig_EnvOverride(t *testing.T) {
	t.Setenv("VINEBAR_STORAGE_DRIVER", "memory")

	cfg, err := InitConfig()
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, cfg.Storage.Driver)
}

func TestValidate(t *testing.T) {
	var cfg Config
	cfg.Repositories.SQLite.Path = "x.db"
	require.NoError(t, cfg.Validate())

	assert.Equal(t, DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, "8000", cfg.Server.HTTPPort)
	assert.Equal(t, types.DefaultMapRegion, cfg.Map.DefaultRegion)
	assert.Equal(t, 5*time.Second, cfg.Flow.CategoryReveal)

	cfg.Storage.Driver = "redis"
	assert.Error(t, cfg.Validate())

	cfg = Config{}
	cfg.Storage.Driver = DriverSQLite
	assert.Error(t, cfg.Validate(), "sqlite needs a path")
}
